package repositories

import (
	"errors"
	"fmt"
	"time"

	"recipehub/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMQuestionRepository is a GORM implementation of QuestionRepository.
type GORMQuestionRepository struct {
	db *gorm.DB
}

// NewGORMQuestionRepository creates a new instance of GORMQuestionRepository.
func NewGORMQuestionRepository(db *gorm.DB) *GORMQuestionRepository {
	return &GORMQuestionRepository{
		db: db,
	}
}

// Create creates a new question.
func (r *GORMQuestionRepository) Create(question *models.Question) error {
	if question.ID == "" {
		question.ID = uuid.New().String()
	}
	if err := r.db.Create(question).Error; err != nil {
		return fmt.Errorf("failed to create question: %w", err)
	}
	return nil
}

// GetByID loads a question with its answers ordered oldest first.
func (r *GORMQuestionRepository) GetByID(id string) (*models.Question, error) {
	var question models.Question
	err := r.db.
		Preload("Answers", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		First(&question, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get question by ID %s: %w", id, err)
	}
	return &question, nil
}

// ListByRecipe returns all questions for a recipe, newest first.
func (r *GORMQuestionRepository) ListByRecipe(recipeID string) ([]models.Question, error) {
	var questions []models.Question
	err := r.db.
		Preload("Answers", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Where("recipe_id = ?", recipeID).
		Order("created_at DESC").
		Find(&questions).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list questions for recipe %s: %w", recipeID, err)
	}
	return questions, nil
}

// AddAnswer appends an answer row. Appending is a plain insert, so it never
// races with a concurrent resolve or another answer.
func (r *GORMQuestionRepository) AddAnswer(answer *models.Answer) error {
	if answer.ID == "" {
		answer.ID = uuid.New().String()
	}
	if answer.CreatedAt.IsZero() {
		answer.CreatedAt = time.Now()
	}
	if err := r.db.Create(answer).Error; err != nil {
		return fmt.Errorf("failed to add answer: %w", err)
	}
	return nil
}

// MarkResolved performs the one-way open -> resolved transition as a single
// conditional update.
func (r *GORMQuestionRepository) MarkResolved(id string) (bool, error) {
	res := r.db.Model(&models.Question{}).
		Where("id = ? AND is_resolved = ?", id, false).
		Update("is_resolved", true)
	if res.Error != nil {
		return false, fmt.Errorf("failed to resolve question %s: %w", id, res.Error)
	}
	return res.RowsAffected > 0, nil
}

// Delete removes a question and its answers.
func (r *GORMQuestionRepository) Delete(id string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&models.Question{}, "id = ?", id)
		if res.Error != nil {
			return fmt.Errorf("failed to delete question: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		if err := tx.Where("question_id = ?", id).Delete(&models.Answer{}).Error; err != nil {
			return fmt.Errorf("failed to delete answers for question %s: %w", id, err)
		}
		return nil
	})
}
