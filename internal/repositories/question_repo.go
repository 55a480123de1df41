package repositories

import (
	"recipehub/internal/models"
)

// QuestionRepository defines the interface for question data access.
type QuestionRepository interface {
	Create(question *models.Question) error
	// GetByID loads a question with its answers ordered by creation time.
	GetByID(id string) (*models.Question, error)
	ListByRecipe(recipeID string) ([]models.Question, error)
	// AddAnswer appends an answer to the question. The insert itself is the
	// atomic operation; no question row is rewritten.
	AddAnswer(answer *models.Answer) error
	// MarkResolved flips is_resolved from false to true. Returns false when
	// the question was already resolved (the transition is one-way).
	MarkResolved(id string) (bool, error)
	Delete(id string) error
}
