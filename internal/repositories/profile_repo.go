package repositories

import (
	"recipehub/internal/models"
)

// ProfileRepository defines the interface for profile data access.
type ProfileRepository interface {
	GetByUserID(userID string) (*models.Profile, error)
	Create(profile *models.Profile) error
	// UpdateGuarded persists profile only if the stored row still carries
	// lastSeenVersion. Returns false (and no error) when another writer got
	// there first, so the caller can reload and retry.
	UpdateGuarded(profile *models.Profile, lastSeenVersion int64) (bool, error)
}
