package repositories

import (
	"sort"
	"strings"
	"sync"
	"time"

	"recipehub/internal/models"

	"github.com/google/uuid"
)

// MockRecipeRepository is an in-memory implementation of RecipeRepository.
type MockRecipeRepository struct {
	recipes map[string]models.Recipe
	likes   map[string]map[string]bool // recipeID -> set of userIDs
	mu      sync.RWMutex
}

// NewMockRecipeRepository creates a new instance of MockRecipeRepository.
func NewMockRecipeRepository() *MockRecipeRepository {
	return &MockRecipeRepository{
		recipes: make(map[string]models.Recipe),
		likes:   make(map[string]map[string]bool),
	}
}

// Create adds a new recipe.
func (r *MockRecipeRepository) Create(recipe *models.Recipe) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if recipe.ID == "" {
		recipe.ID = uuid.New().String()
	}
	if recipe.CreatedAt.IsZero() {
		recipe.CreatedAt = time.Now()
	}
	r.recipes[recipe.ID] = *recipe
	return nil
}

// GetByID returns a recipe by its ID.
func (r *MockRecipeRepository) GetByID(id string) (*models.Recipe, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	recipe, ok := r.recipes[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &recipe, nil
}

// Update modifies an existing recipe.
func (r *MockRecipeRepository) Update(recipe *models.Recipe) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.recipes[recipe.ID]; !ok {
		return ErrNotFound
	}
	r.recipes[recipe.ID] = *recipe
	return nil
}

// Delete removes a recipe and its likes.
func (r *MockRecipeRepository) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.recipes[id]; !ok {
		return ErrNotFound
	}
	delete(r.recipes, id)
	delete(r.likes, id)
	return nil
}

// ListCommunity returns one page of recipes, newest first.
func (r *MockRecipeRepository) ListCommunity(filter CommunityFilter) ([]models.Recipe, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 || filter.Limit > 100 {
		filter.Limit = 20
	}

	matched := make([]models.Recipe, 0, len(r.recipes))
	for _, recipe := range r.recipes {
		if filter.Category != "" && recipe.Category != filter.Category {
			continue
		}
		matched = append(matched, recipe)
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := int64(len(matched))
	start := (filter.Page - 1) * filter.Limit
	if start >= len(matched) {
		return []models.Recipe{}, total, nil
	}
	end := start + filter.Limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

// Search matches q case-insensitively against title and description.
func (r *MockRecipeRepository) Search(q string) ([]models.Recipe, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	needle := strings.ToLower(q)
	var matched []models.Recipe
	for _, recipe := range r.recipes {
		if strings.Contains(strings.ToLower(recipe.Title), needle) ||
			strings.Contains(strings.ToLower(recipe.Description), needle) {
			matched = append(matched, recipe)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})
	return matched, nil
}

// ToggleLike flips userID's membership in the recipe's like set. The mutex
// makes the whole read-modify-write atomic, mirroring the transactional
// behavior of the GORM implementation.
func (r *MockRecipeRepository) ToggleLike(recipeID, userID string) (bool, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	recipe, ok := r.recipes[recipeID]
	if !ok {
		return false, 0, ErrNotFound
	}

	set := r.likes[recipeID]
	if set == nil {
		set = make(map[string]bool)
		r.likes[recipeID] = set
	}

	var liked bool
	if set[userID] {
		delete(set, userID)
		liked = false
	} else {
		set[userID] = true
		liked = true
	}

	recipe.LikesCount = len(set)
	r.recipes[recipeID] = recipe
	return liked, recipe.LikesCount, nil
}
