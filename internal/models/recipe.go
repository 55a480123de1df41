package models

import (
	"time"

	"gorm.io/gorm"
)

// Difficulty levels a recipe may declare.
const (
	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
)

// ValidDifficulty reports whether d is a known difficulty level.
func ValidDifficulty(d string) bool {
	return d == DifficultyEasy || d == DifficultyMedium || d == DifficultyHard
}

// Recipe is a user-authored recipe shared with the community.
type Recipe struct {
	ID              string     `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Title           string     `json:"title" gorm:"type:varchar(200)" validate:"required,min=3,max=200"`
	Description     string     `json:"description" gorm:"type:text" validate:"omitempty,max=2000"`
	Ingredients     StringList `json:"ingredients" gorm:"type:text" validate:"required,min=1"`
	Instructions    StringList `json:"instructions" gorm:"type:text" validate:"required,min=1"` // ordered steps
	PrepTimeMinutes int        `json:"prep_time_minutes" validate:"gte=0"`
	Servings        int        `json:"servings" validate:"gte=0"`
	Difficulty      string     `json:"difficulty" gorm:"type:varchar(20)" validate:"omitempty,oneof=easy medium hard"`
	Category        string     `json:"category" gorm:"index;type:varchar(50)" validate:"omitempty,max=50"`
	AuthorID        string     `json:"author_id" gorm:"index;type:varchar(36)"`
	AuthorName      string     `json:"author_name" gorm:"type:varchar(100)"` // denormalized for listings
	LikesCount      int        `json:"likes_count"`                          // always equals the RecipeLike row count
	gorm.Model      `json:"-"`
}

// RecipeLike records that a user likes a recipe. The composite unique index
// guarantees a user can like a recipe at most once.
type RecipeLike struct {
	RecipeID  string    `json:"recipe_id" gorm:"uniqueIndex:idx_recipe_user;type:varchar(36)"`
	UserID    string    `json:"user_id" gorm:"uniqueIndex:idx_recipe_user;type:varchar(36)"`
	CreatedAt time.Time `json:"created_at"`
}
