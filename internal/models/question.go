package models

import (
	"time"

	"gorm.io/gorm"
)

// Question is a Q&A thread attached to a recipe. Resolution is one-way and
// only the asking user may resolve or delete the question.
type Question struct {
	ID         string   `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	RecipeID   string   `json:"recipe_id" gorm:"index;type:varchar(36)" validate:"required"`
	AuthorID   string   `json:"author_id" gorm:"index;type:varchar(36)"`
	AuthorName string   `json:"author_name" gorm:"type:varchar(100)"`
	Title      string   `json:"title" gorm:"type:varchar(200)" validate:"required,min=3,max=200"`
	Body       string   `json:"body" gorm:"type:text" validate:"omitempty,max=2000"`
	IsResolved bool     `json:"is_resolved"`
	Answers    []Answer `json:"answers" gorm:"foreignKey:QuestionID"`
	gorm.Model `json:"-"`
}

// Answer is a reply appended to a question, ordered by creation time.
type Answer struct {
	ID         string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	QuestionID string    `json:"question_id" gorm:"index;type:varchar(36)"`
	AuthorID   string    `json:"author_id" gorm:"type:varchar(36)"`
	AuthorName string    `json:"author_name" gorm:"type:varchar(100)"`
	Body       string    `json:"body" gorm:"type:text" validate:"required,min=1,max=2000"`
	CreatedAt  time.Time `json:"created_at"`
}
