package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"

	"recipehub/internal/models"
	"recipehub/internal/repositories"
)

// EventPublisher publishes activity events to the message broker. A nil
// publisher disables event publication.
type EventPublisher interface {
	Publish(exchange, routingKey string, body []byte) error
}

// RecipeService handles business logic related to recipes.
type RecipeService struct {
	repo      repositories.RecipeRepository
	publisher EventPublisher
}

// NewRecipeService creates a new RecipeService.
func NewRecipeService(repo repositories.RecipeRepository, publisher EventPublisher) *RecipeService {
	return &RecipeService{
		repo:      repo,
		publisher: publisher,
	}
}

// CommunityPage is one page of the community recipe listing.
type CommunityPage struct {
	Recipes []models.Recipe `json:"recipes"`
	Total   int64           `json:"total"`
	Page    int             `json:"page"`
	Limit   int             `json:"limit"`
}

// ListCommunity returns a page of community recipes, optionally filtered by
// category.
func (s *RecipeService) ListCommunity(page, limit int, category string) (*CommunityPage, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	recipes, total, err := s.repo.ListCommunity(repositories.CommunityFilter{
		Page:     page,
		Limit:    limit,
		Category: category,
	})
	if err != nil {
		return nil, err
	}
	return &CommunityPage{Recipes: recipes, Total: total, Page: page, Limit: limit}, nil
}

// Search matches q case-insensitively against recipe titles and
// descriptions.
func (s *RecipeService) Search(q string) ([]models.Recipe, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return []models.Recipe{}, nil
	}
	return s.repo.Search(q)
}

// GetRecipeByID retrieves a single recipe by its ID.
func (s *RecipeService) GetRecipeByID(id string) (*models.Recipe, error) {
	recipe, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return recipe, nil
}

// CreateRecipe creates a new recipe authored by the given user.
func (s *RecipeService) CreateRecipe(recipe *models.Recipe, author *models.User) (*models.Recipe, error) {
	if recipe.Difficulty != "" && !models.ValidDifficulty(recipe.Difficulty) {
		return nil, fmt.Errorf("%w: unknown difficulty %q", ErrValidation, recipe.Difficulty)
	}
	recipe.Ingredients = cleanList(recipe.Ingredients)
	recipe.Instructions = cleanList(recipe.Instructions)
	recipe.AuthorID = author.ID
	recipe.AuthorName = author.Username
	recipe.LikesCount = 0

	if err := s.repo.Create(recipe); err != nil {
		return nil, fmt.Errorf("failed to create recipe: %w", err)
	}

	s.publish("recipe.created", map[string]interface{}{
		"recipe_id": recipe.ID,
		"author_id": recipe.AuthorID,
		"title":     recipe.Title,
	})
	return recipe, nil
}

// UpdateRecipe replaces the editable fields of a recipe. Only the author
// may update it.
func (s *RecipeService) UpdateRecipe(id string, updated *models.Recipe, actor *models.User) (*models.Recipe, error) {
	recipe, err := s.GetRecipeByID(id)
	if err != nil {
		return nil, err
	}
	if recipe.AuthorID != actor.ID {
		return nil, ErrForbidden
	}
	if updated.Difficulty != "" && !models.ValidDifficulty(updated.Difficulty) {
		return nil, fmt.Errorf("%w: unknown difficulty %q", ErrValidation, updated.Difficulty)
	}

	recipe.Title = updated.Title
	recipe.Description = updated.Description
	recipe.Ingredients = cleanList(updated.Ingredients)
	recipe.Instructions = cleanList(updated.Instructions)
	recipe.PrepTimeMinutes = updated.PrepTimeMinutes
	recipe.Servings = updated.Servings
	recipe.Difficulty = updated.Difficulty
	recipe.Category = updated.Category

	if err := s.repo.Update(recipe); err != nil {
		return nil, fmt.Errorf("failed to update recipe: %w", err)
	}
	return recipe, nil
}

// DeleteRecipe removes a recipe. The author may always delete their own;
// moderation deletes pass force=true after the role gate.
func (s *RecipeService) DeleteRecipe(id string, actor *models.User, force bool) error {
	recipe, err := s.GetRecipeByID(id)
	if err != nil {
		return err
	}
	if !force && recipe.AuthorID != actor.ID {
		return ErrForbidden
	}
	if err := s.repo.Delete(id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete recipe: %w", err)
	}
	return nil
}

// LikeResult is the outcome of a like toggle.
type LikeResult struct {
	Liked      bool `json:"liked"`
	LikesCount int  `json:"likes_count"`
}

// ToggleLike flips the user's like on a recipe. The repository performs the
// toggle atomically so concurrent toggles never desynchronize the count
// from the like set.
func (s *RecipeService) ToggleLike(recipeID, userID string) (*LikeResult, error) {
	liked, count, err := s.repo.ToggleLike(recipeID, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to toggle like: %w", err)
	}

	if liked {
		s.publish("recipe.liked", map[string]interface{}{
			"recipe_id": recipeID,
			"user_id":   userID,
			"likes":     count,
		})
	}
	return &LikeResult{Liked: liked, LikesCount: count}, nil
}

// publish sends an activity event, best-effort. Failures are logged and
// never fail the request.
func (s *RecipeService) publish(routingKey string, payload map[string]interface{}) {
	if s.publisher == nil {
		return
	}
	body, err := json.Marshal(payload)
	if err != nil {
		log.Printf("Failed to marshal %s event: %v", routingKey, err)
		return
	}
	if err := s.publisher.Publish("activity", routingKey, body); err != nil {
		log.Printf("Warning: Failed to publish %s event: %v", routingKey, err)
	}
}
