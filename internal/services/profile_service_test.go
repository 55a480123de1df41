package services_test

import (
	"sync"
	"testing"

	"recipehub/internal/models"
	"recipehub/internal/repositories"
	"recipehub/internal/services"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeProfileRepository is an in-memory ProfileRepository honoring the
// guarded-update contract.
type fakeProfileRepository struct {
	profiles map[string]models.Profile // keyed by user ID
	mu       sync.Mutex
}

func newFakeProfileRepository() *fakeProfileRepository {
	return &fakeProfileRepository{profiles: make(map[string]models.Profile)}
}

func (r *fakeProfileRepository) GetByUserID(userID string) (*models.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	profile, exists := r.profiles[userID]
	if !exists {
		return nil, repositories.ErrNotFound
	}
	return &profile, nil
}

func (r *fakeProfileRepository) Create(profile *models.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if profile.ID == "" {
		profile.ID = uuid.New().String()
	}
	r.profiles[profile.UserID] = *profile
	return nil
}

func (r *fakeProfileRepository) UpdateGuarded(profile *models.Profile, lastSeenVersion int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, exists := r.profiles[profile.UserID]
	if !exists || stored.Version != lastSeenVersion {
		return false, nil
	}
	r.profiles[profile.UserID] = *profile
	return true, nil
}

func ptr[T any](v T) *T { return &v }

func TestProfileService_UpsertOnRead(t *testing.T) {
	svc := services.NewProfileService(newFakeProfileRepository())

	profile, err := svc.GetProfile("user-1")
	require.NoError(t, err)

	assert.Equal(t, "user-1", profile.UserID)
	assert.Equal(t, models.CookingSkillBeginner, profile.CookingSkills)
	assert.Equal(t, models.HealthGoalMaintain, profile.Goal)
	assert.Empty(t, profile.Allergies)
	assert.Nil(t, profile.BMI)

	// A second read returns the same profile, not a fresh one.
	again, err := svc.GetProfile("user-1")
	require.NoError(t, err)
	assert.Equal(t, profile.ID, again.ID)
}

func TestProfileService_SparseMergeLeavesAbsentFields(t *testing.T) {
	svc := services.NewProfileService(newFakeProfileRepository())

	_, err := svc.UpdateHealthInfo("user-1", services.HealthInfoPatch{
		Allergies: ptr([]string{"nuts"}),
	})
	require.NoError(t, err)

	profile, err := svc.UpdateHealthInfo("user-1", services.HealthInfoPatch{
		DietaryRestrictions: ptr([]string{"vegan"}),
	})
	require.NoError(t, err)

	// Allergies were absent from the second patch and stay untouched.
	assert.Equal(t, models.StringList{"nuts"}, profile.Allergies)
	assert.Equal(t, models.StringList{"vegan"}, profile.DietaryRestrictions)
	assert.Equal(t, models.HealthGoalMaintain, profile.Goal)
}

func TestProfileService_ListsTrimmedAndReplacedWholesale(t *testing.T) {
	svc := services.NewProfileService(newFakeProfileRepository())

	_, err := svc.UpdateHealthInfo("user-1", services.HealthInfoPatch{
		Allergies: ptr([]string{"nuts", "shellfish"}),
	})
	require.NoError(t, err)

	profile, err := svc.UpdateHealthInfo("user-1", services.HealthInfoPatch{
		Allergies: ptr([]string{"  gluten  ", "", "   "}),
	})
	require.NoError(t, err)

	// Present list replaces the stored one entirely; entries are trimmed
	// and empties dropped.
	assert.Equal(t, models.StringList{"gluten"}, profile.Allergies)
}

func TestProfileService_BMIRecomputedOnBodyChange(t *testing.T) {
	svc := services.NewProfileService(newFakeProfileRepository())

	profile, err := svc.UpdatePersonalInfo("user-1", services.PersonalInfoPatch{
		WeightKg: ptr(70.0),
		HeightCm: ptr(175.0),
	})
	require.NoError(t, err)
	require.NotNil(t, profile.BMI)
	assert.InDelta(t, 22.9, *profile.BMI, 0.05)

	report, err := svc.GetBMI("user-1")
	require.NoError(t, err)
	assert.True(t, report.Available)
	assert.Equal(t, "normal", report.Category)

	// An unrelated personal patch leaves the BMI alone.
	profile, err = svc.UpdatePersonalInfo("user-1", services.PersonalInfoPatch{
		Age: ptr(30),
	})
	require.NoError(t, err)
	require.NotNil(t, profile.BMI)
	assert.InDelta(t, 22.9, *profile.BMI, 0.05)
}

func TestProfileService_BMIUnsetWhenHeightMissing(t *testing.T) {
	svc := services.NewProfileService(newFakeProfileRepository())

	profile, err := svc.UpdatePersonalInfo("user-1", services.PersonalInfoPatch{
		WeightKg: ptr(70.0),
	})
	require.NoError(t, err)
	assert.Nil(t, profile.BMI)

	report, err := svc.GetBMI("user-1")
	require.NoError(t, err)
	assert.False(t, report.Available)
	assert.Nil(t, report.BMI)
}

func TestProfileService_LastUpdatedRefreshed(t *testing.T) {
	svc := services.NewProfileService(newFakeProfileRepository())

	created, err := svc.GetProfile("user-1")
	require.NoError(t, err)

	updated, err := svc.UpdatePreferences("user-1", services.PreferencesPatch{
		CookingSkills: ptr(models.CookingSkillAdvanced),
	})
	require.NoError(t, err)

	assert.Equal(t, models.CookingSkillAdvanced, updated.CookingSkills)
	assert.False(t, updated.LastUpdated.Before(created.LastUpdated))
	assert.Greater(t, updated.Version, created.Version)
}

func TestProfileService_Stats(t *testing.T) {
	svc := services.NewProfileService(newFakeProfileRepository())

	_, err := svc.UpdatePersonalInfo("user-1", services.PersonalInfoPatch{
		WeightKg: ptr(70.0),
		HeightCm: ptr(175.0),
	})
	require.NoError(t, err)
	_, err = svc.UpdateHealthInfo("user-1", services.HealthInfoPatch{
		Allergies: ptr([]string{"nuts"}),
	})
	require.NoError(t, err)

	stats, err := svc.GetStats("user-1")
	require.NoError(t, err)
	assert.Equal(t, 1, stats.AllergyCount)
	assert.True(t, stats.HasBMI)
	assert.Equal(t, models.CookingSkillBeginner, stats.CookingSkills)
	assert.Equal(t, 2*100/7, stats.CompletionPercent)
}
