package repositories

import (
	"sort"
	"sync"
	"time"

	"recipehub/internal/models"

	"github.com/google/uuid"
)

// MockQuestionRepository is an in-memory implementation of QuestionRepository.
type MockQuestionRepository struct {
	questions map[string]models.Question
	answers   map[string][]models.Answer // questionID -> ordered answers
	mu        sync.RWMutex
}

// NewMockQuestionRepository creates a new instance of MockQuestionRepository.
func NewMockQuestionRepository() *MockQuestionRepository {
	return &MockQuestionRepository{
		questions: make(map[string]models.Question),
		answers:   make(map[string][]models.Answer),
	}
}

// Create adds a new question.
func (r *MockQuestionRepository) Create(question *models.Question) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if question.ID == "" {
		question.ID = uuid.New().String()
	}
	if question.CreatedAt.IsZero() {
		question.CreatedAt = time.Now()
	}
	r.questions[question.ID] = *question
	return nil
}

// GetByID returns a question with its answers attached.
func (r *MockQuestionRepository) GetByID(id string) (*models.Question, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	question, ok := r.questions[id]
	if !ok {
		return nil, ErrNotFound
	}
	question.Answers = append([]models.Answer(nil), r.answers[id]...)
	return &question, nil
}

// ListByRecipe returns all questions for a recipe, newest first.
func (r *MockQuestionRepository) ListByRecipe(recipeID string) ([]models.Question, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matched []models.Question
	for id, question := range r.questions {
		if question.RecipeID != recipeID {
			continue
		}
		question.Answers = append([]models.Answer(nil), r.answers[id]...)
		matched = append(matched, question)
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})
	return matched, nil
}

// AddAnswer appends an answer to the question's list.
func (r *MockQuestionRepository) AddAnswer(answer *models.Answer) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.questions[answer.QuestionID]; !ok {
		return ErrNotFound
	}
	if answer.ID == "" {
		answer.ID = uuid.New().String()
	}
	if answer.CreatedAt.IsZero() {
		answer.CreatedAt = time.Now()
	}
	r.answers[answer.QuestionID] = append(r.answers[answer.QuestionID], *answer)
	return nil
}

// MarkResolved flips is_resolved from false to true, once.
func (r *MockQuestionRepository) MarkResolved(id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	question, ok := r.questions[id]
	if !ok {
		return false, ErrNotFound
	}
	if question.IsResolved {
		return false, nil
	}
	question.IsResolved = true
	r.questions[id] = question
	return true, nil
}

// Delete removes a question and its answers.
func (r *MockQuestionRepository) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.questions[id]; !ok {
		return ErrNotFound
	}
	delete(r.questions, id)
	delete(r.answers, id)
	return nil
}
