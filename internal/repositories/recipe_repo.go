package repositories

import (
	"recipehub/internal/models"
)

// CommunityFilter narrows and pages the community recipe listing.
type CommunityFilter struct {
	Page     int
	Limit    int
	Category string
}

// RecipeRepository defines the interface for recipe data access.
type RecipeRepository interface {
	Create(recipe *models.Recipe) error
	GetByID(id string) (*models.Recipe, error)
	Update(recipe *models.Recipe) error
	Delete(id string) error
	// ListCommunity returns a page of recipes, newest first, plus the total
	// count matching the filter.
	ListCommunity(filter CommunityFilter) ([]models.Recipe, int64, error)
	// Search matches q case-insensitively against title and description.
	Search(q string) ([]models.Recipe, error)
	// ToggleLike atomically adds or removes userID from the recipe's like
	// set and keeps likes_count equal to the set size. Returns whether the
	// user likes the recipe after the call, and the resulting count.
	ToggleLike(recipeID, userID string) (liked bool, count int, err error)
}
