package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"recipehub/internal/models"
	"recipehub/internal/repositories"
)

// QuestionService handles business logic for recipe Q&A threads.
type QuestionService struct {
	repo       repositories.QuestionRepository
	recipeRepo repositories.RecipeRepository
	publisher  EventPublisher
}

// NewQuestionService creates a new QuestionService.
func NewQuestionService(repo repositories.QuestionRepository, recipeRepo repositories.RecipeRepository, publisher EventPublisher) *QuestionService {
	return &QuestionService{
		repo:       repo,
		recipeRepo: recipeRepo,
		publisher:  publisher,
	}
}

// CreateQuestion opens a new question on a recipe.
func (s *QuestionService) CreateQuestion(question *models.Question, author *models.User) (*models.Question, error) {
	if _, err := s.recipeRepo.GetByID(question.RecipeID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	question.AuthorID = author.ID
	question.AuthorName = author.Username
	question.IsResolved = false
	question.Answers = nil

	if err := s.repo.Create(question); err != nil {
		return nil, fmt.Errorf("failed to create question: %w", err)
	}
	return question, nil
}

// ListByRecipe returns the Q&A threads of a recipe, newest question first.
func (s *QuestionService) ListByRecipe(recipeID string) ([]models.Question, error) {
	return s.repo.ListByRecipe(recipeID)
}

// AddAnswer appends an answer. Any authenticated user may answer, whether
// or not the question is already resolved.
func (s *QuestionService) AddAnswer(questionID, body string, author *models.User) (*models.Answer, error) {
	if _, err := s.getQuestion(questionID); err != nil {
		return nil, err
	}

	answer := &models.Answer{
		QuestionID: questionID,
		AuthorID:   author.ID,
		AuthorName: author.Username,
		Body:       body,
	}
	if err := s.repo.AddAnswer(answer); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to add answer: %w", err)
	}

	s.publishAnswered(questionID, author.ID)
	return answer, nil
}

// Resolve transitions a question from open to resolved. Only the asking
// user may resolve it, and the transition is one-way; resolving an
// already-resolved question is a no-op success.
func (s *QuestionService) Resolve(questionID string, actor *models.User) (*models.Question, error) {
	question, err := s.getQuestion(questionID)
	if err != nil {
		return nil, err
	}
	if question.AuthorID != actor.ID {
		return nil, ErrForbidden
	}

	if _, err := s.repo.MarkResolved(questionID); err != nil {
		return nil, fmt.Errorf("failed to resolve question: %w", err)
	}
	question.IsResolved = true
	return question, nil
}

// DeleteQuestion removes a question. The author may always delete their
// own; moderation deletes pass force=true after the role gate.
func (s *QuestionService) DeleteQuestion(questionID string, actor *models.User, force bool) error {
	question, err := s.getQuestion(questionID)
	if err != nil {
		return err
	}
	if !force && question.AuthorID != actor.ID {
		return ErrForbidden
	}
	if err := s.repo.Delete(questionID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete question: %w", err)
	}
	return nil
}

func (s *QuestionService) getQuestion(id string) (*models.Question, error) {
	question, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return question, nil
}

func (s *QuestionService) publishAnswered(questionID, authorID string) {
	if s.publisher == nil {
		return
	}
	body, err := json.Marshal(map[string]interface{}{
		"question_id": questionID,
		"author_id":   authorID,
	})
	if err != nil {
		log.Printf("Failed to marshal question.answered event: %v", err)
		return
	}
	if err := s.publisher.Publish("activity", "question.answered", body); err != nil {
		log.Printf("Warning: Failed to publish question.answered event: %v", err)
	}
}
