package repositories

import (
	"errors"
	"fmt"

	"recipehub/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMProfileRepository is a GORM implementation of ProfileRepository.
type GORMProfileRepository struct {
	db *gorm.DB
}

// NewGORMProfileRepository creates a new instance of GORMProfileRepository.
func NewGORMProfileRepository(db *gorm.DB) *GORMProfileRepository {
	return &GORMProfileRepository{
		db: db,
	}
}

// GetByUserID retrieves the profile owned by userID.
func (r *GORMProfileRepository) GetByUserID(userID string) (*models.Profile, error) {
	var profile models.Profile
	if err := r.db.First(&profile, "user_id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get profile for user %s: %w", userID, err)
	}
	return &profile, nil
}

// Create inserts a new profile row.
func (r *GORMProfileRepository) Create(profile *models.Profile) error {
	if profile.ID == "" {
		profile.ID = uuid.New().String()
	}
	if err := r.db.Create(profile).Error; err != nil {
		return fmt.Errorf("failed to create profile: %w", err)
	}
	return nil
}

// UpdateGuarded writes the full profile conditioned on the version column
// still matching what the caller read. A concurrent writer bumps the
// version, making this update a no-op, which the caller sees as
// applied == false.
func (r *GORMProfileRepository) UpdateGuarded(profile *models.Profile, lastSeenVersion int64) (bool, error) {
	res := r.db.Model(&models.Profile{}).
		Where("id = ? AND version = ?", profile.ID, lastSeenVersion).
		Select("*").Omit("id", "user_id").
		Updates(profile)
	if res.Error != nil {
		return false, fmt.Errorf("failed to update profile %s: %w", profile.ID, res.Error)
	}
	return res.RowsAffected > 0, nil
}
