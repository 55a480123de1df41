package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"recipehub/internal/models"
	"recipehub/internal/repositories"
)

// profileUpdateRetries bounds how often a guarded write is retried when a
// concurrent writer touched the same profile between our read and write.
const profileUpdateRetries = 3

// ProfileService handles business logic for user profiles: upsert-on-read,
// sparse merge updates, and derived values (BMI, stats).
type ProfileService struct {
	repo repositories.ProfileRepository
}

// NewProfileService creates a new ProfileService.
func NewProfileService(repo repositories.ProfileRepository) *ProfileService {
	return &ProfileService{
		repo: repo,
	}
}

// PersonalInfoPatch is a sparse update for the personal-info section.
// Nil fields leave the stored value unchanged.
type PersonalInfoPatch struct {
	Age              *int     `json:"age" validate:"omitempty,gte=1,lte=130"`
	WeightKg         *float64 `json:"weight_kg" validate:"omitempty,gt=0,lte=500"`
	HeightCm         *float64 `json:"height_cm" validate:"omitempty,gt=0,lte=300"`
	Gender           *string  `json:"gender" validate:"omitempty,max=20"`
	ActivityLevel    *string  `json:"activity_level" validate:"omitempty,max=30"`
	DailyCalorieGoal *int     `json:"daily_calorie_goal" validate:"omitempty,gte=0"`
	AvatarURL        *string  `json:"avatar_url" validate:"omitempty,max=512"`
}

// HealthInfoPatch is a sparse update for the health-info section.
type HealthInfoPatch struct {
	Allergies           *[]string `json:"allergies"`
	DietaryRestrictions *[]string `json:"dietary_restrictions"`
	Conditions          *[]string `json:"conditions"`
	Goal                *string   `json:"goal" validate:"omitempty,max=30"`
}

// PreferencesPatch is a sparse update for the preferences section.
type PreferencesPatch struct {
	FavoriteCuisines    *[]string `json:"favorite_cuisines"`
	DislikedIngredients *[]string `json:"disliked_ingredients"`
	CookingSkills       *string   `json:"cooking_skills" validate:"omitempty,oneof=beginner intermediate advanced"`
}

// GetProfile returns the user's profile, creating one with defaults if none
// exists yet. This entity never produces a not-found error for its owner.
func (s *ProfileService) GetProfile(userID string) (*models.Profile, error) {
	return s.loadOrCreate(userID)
}

// UpdatePersonalInfo merges the patch into the personal-info section and
// recomputes the BMI when weight or height changed.
func (s *ProfileService) UpdatePersonalInfo(userID string, patch PersonalInfoPatch) (*models.Profile, error) {
	return s.update(userID, func(p *models.Profile) {
		bodyChanged := false
		if patch.Age != nil {
			p.Age = *patch.Age
		}
		if patch.WeightKg != nil {
			p.WeightKg = *patch.WeightKg
			bodyChanged = true
		}
		if patch.HeightCm != nil {
			p.HeightCm = *patch.HeightCm
			bodyChanged = true
		}
		if patch.Gender != nil {
			p.Gender = *patch.Gender
		}
		if patch.ActivityLevel != nil {
			p.ActivityLevel = *patch.ActivityLevel
		}
		if patch.DailyCalorieGoal != nil {
			p.DailyCalorieGoal = *patch.DailyCalorieGoal
		}
		if patch.AvatarURL != nil {
			p.AvatarURL = *patch.AvatarURL
		}
		if bodyChanged {
			p.RecalculateBMI()
		}
	})
}

// UpdateHealthInfo merges the patch into the health-info section. Lists are
// replaced wholesale when present, after trimming out empty entries.
func (s *ProfileService) UpdateHealthInfo(userID string, patch HealthInfoPatch) (*models.Profile, error) {
	return s.update(userID, func(p *models.Profile) {
		if patch.Allergies != nil {
			p.Allergies = cleanList(*patch.Allergies)
		}
		if patch.DietaryRestrictions != nil {
			p.DietaryRestrictions = cleanList(*patch.DietaryRestrictions)
		}
		if patch.Conditions != nil {
			p.Conditions = cleanList(*patch.Conditions)
		}
		if patch.Goal != nil {
			p.Goal = *patch.Goal
		}
	})
}

// UpdatePreferences merges the patch into the preferences section.
func (s *ProfileService) UpdatePreferences(userID string, patch PreferencesPatch) (*models.Profile, error) {
	return s.update(userID, func(p *models.Profile) {
		if patch.FavoriteCuisines != nil {
			p.FavoriteCuisines = cleanList(*patch.FavoriteCuisines)
		}
		if patch.DislikedIngredients != nil {
			p.DislikedIngredients = cleanList(*patch.DislikedIngredients)
		}
		if patch.CookingSkills != nil {
			p.CookingSkills = *patch.CookingSkills
		}
	})
}

// BMIReport describes the derived BMI for a profile. Available is false
// when weight or height is unknown.
type BMIReport struct {
	Available bool     `json:"available"`
	BMI       *float64 `json:"bmi,omitempty"`
	Category  string   `json:"category,omitempty"`
}

// GetBMI returns the derived BMI with its category band.
func (s *ProfileService) GetBMI(userID string) (*BMIReport, error) {
	profile, err := s.loadOrCreate(userID)
	if err != nil {
		return nil, err
	}
	if profile.BMI == nil {
		return &BMIReport{Available: false}, nil
	}
	return &BMIReport{
		Available: true,
		BMI:       profile.BMI,
		Category:  models.BMICategory(*profile.BMI),
	}, nil
}

// ProfileStats summarizes how filled-in a profile is, plus a few derived
// counts useful for the client's dashboard.
type ProfileStats struct {
	CompletionPercent int    `json:"completion_percent"`
	AllergyCount      int    `json:"allergy_count"`
	RestrictionCount  int    `json:"restriction_count"`
	CuisineCount      int    `json:"cuisine_count"`
	Goal              string `json:"goal"`
	CookingSkills     string `json:"cooking_skills"`
	HasBMI            bool   `json:"has_bmi"`
}

// GetStats computes the profile stats view.
func (s *ProfileService) GetStats(userID string) (*ProfileStats, error) {
	profile, err := s.loadOrCreate(userID)
	if err != nil {
		return nil, err
	}

	filled, total := 0, 7
	if profile.Age > 0 {
		filled++
	}
	if profile.WeightKg > 0 {
		filled++
	}
	if profile.HeightCm > 0 {
		filled++
	}
	if profile.Gender != "" {
		filled++
	}
	if profile.ActivityLevel != "" {
		filled++
	}
	if profile.DailyCalorieGoal > 0 {
		filled++
	}
	if profile.AvatarURL != "" {
		filled++
	}

	return &ProfileStats{
		CompletionPercent: filled * 100 / total,
		AllergyCount:      len(profile.Allergies),
		RestrictionCount:  len(profile.DietaryRestrictions),
		CuisineCount:      len(profile.FavoriteCuisines),
		Goal:              profile.Goal,
		CookingSkills:     profile.CookingSkills,
		HasBMI:            profile.BMI != nil,
	}, nil
}

// loadOrCreate fetches the user's profile, creating it with defaults when
// absent (upsert semantics).
func (s *ProfileService) loadOrCreate(userID string) (*models.Profile, error) {
	profile, err := s.repo.GetByUserID(userID)
	if err == nil {
		return profile, nil
	}
	if !errors.Is(err, repositories.ErrNotFound) {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}

	profile = models.NewProfile(userID)
	if err := s.repo.Create(profile); err != nil {
		// A concurrent request may have created it between our read and
		// write; fall back to reading the winner's row.
		if existing, readErr := s.repo.GetByUserID(userID); readErr == nil {
			return existing, nil
		}
		return nil, fmt.Errorf("failed to create profile: %w", err)
	}
	return profile, nil
}

// update runs apply on a fresh copy of the profile and persists the result
// with a guarded write, retrying when a concurrent writer wins the race.
// Each retry re-reads the profile so no writer's fields are lost.
func (s *ProfileService) update(userID string, apply func(*models.Profile)) (*models.Profile, error) {
	for attempt := 0; attempt < profileUpdateRetries; attempt++ {
		profile, err := s.loadOrCreate(userID)
		if err != nil {
			return nil, err
		}

		lastSeen := profile.Version
		apply(profile)
		profile.LastUpdated = time.Now()
		profile.Version = lastSeen + 1

		applied, err := s.repo.UpdateGuarded(profile, lastSeen)
		if err != nil {
			return nil, err
		}
		if applied {
			return profile, nil
		}
	}
	return nil, fmt.Errorf("profile update for user %s kept conflicting with concurrent writes", userID)
}

// cleanList trims entries and drops the empty ones.
func cleanList(in []string) models.StringList {
	out := make(models.StringList, 0, len(in))
	for _, s := range in {
		trimmed := strings.TrimSpace(s)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
