package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// StringList is a list of strings stored as a JSON text column.
type StringList []string

// Value implements driver.Valuer so GORM can persist the list.
func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		l = StringList{}
	}
	return json.Marshal(l)
}

// Scan implements sql.Scanner.
func (l *StringList) Scan(value interface{}) error {
	if value == nil {
		*l = StringList{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	default:
		return fmt.Errorf("cannot scan %T into StringList", value)
	}
}

const (
	CookingSkillBeginner     = "beginner"
	CookingSkillIntermediate = "intermediate"
	CookingSkillAdvanced     = "advanced"

	HealthGoalMaintain = "maintain"
)

// Profile holds the structured per-user data. Exactly one profile exists
// per user; it is created on first access with defaults.
type Profile struct {
	ID     string `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID string `json:"user_id" gorm:"uniqueIndex;type:varchar(36)"`

	// Personal info
	Age              int      `json:"age,omitempty"`
	WeightKg         float64  `json:"weight_kg,omitempty"`
	HeightCm         float64  `json:"height_cm,omitempty"`
	Gender           string   `json:"gender,omitempty" gorm:"type:varchar(20)"`
	ActivityLevel    string   `json:"activity_level,omitempty" gorm:"type:varchar(30)"`
	DailyCalorieGoal int      `json:"daily_calorie_goal,omitempty"`
	AvatarURL        string   `json:"avatar_url,omitempty" gorm:"type:varchar(512)"`
	BMI              *float64 `json:"bmi,omitempty"` // derived from weight/height, nil when either is unknown

	// Health info
	Allergies           StringList `json:"allergies" gorm:"type:text"`
	DietaryRestrictions StringList `json:"dietary_restrictions" gorm:"type:text"`
	Conditions          StringList `json:"conditions" gorm:"type:text"`
	Goal                string     `json:"goal" gorm:"type:varchar(30)"`

	// Preferences
	FavoriteCuisines    StringList `json:"favorite_cuisines" gorm:"type:text"`
	DislikedIngredients StringList `json:"disliked_ingredients" gorm:"type:text"`
	CookingSkills       string     `json:"cooking_skills" gorm:"type:varchar(30)"`

	LastUpdated time.Time `json:"last_updated"`
	Version     int64     `json:"-"` // guards concurrent merges, see ProfileRepository.UpdateGuarded
}

// NewProfile returns a profile for userID with the documented defaults.
func NewProfile(userID string) *Profile {
	return &Profile{
		UserID:              userID,
		Allergies:           StringList{},
		DietaryRestrictions: StringList{},
		Conditions:          StringList{},
		Goal:                HealthGoalMaintain,
		FavoriteCuisines:    StringList{},
		DislikedIngredients: StringList{},
		CookingSkills:       CookingSkillBeginner,
		LastUpdated:         time.Now(),
	}
}

// RecalculateBMI derives BMI from the stored weight and height. When either
// is missing the BMI is cleared rather than set to zero.
func (p *Profile) RecalculateBMI() {
	if p.WeightKg <= 0 || p.HeightCm <= 0 {
		p.BMI = nil
		return
	}
	h := p.HeightCm / 100.0
	bmi := p.WeightKg / (h * h)
	p.BMI = &bmi
}

// BMICategory maps a BMI value to its standard band.
func BMICategory(bmi float64) string {
	switch {
	case bmi < 18.5:
		return "underweight"
	case bmi < 25.0:
		return "normal"
	case bmi < 30.0:
		return "overweight"
	default:
		return "obese"
	}
}
