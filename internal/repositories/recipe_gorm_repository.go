package repositories

import (
	"errors"
	"fmt"
	"strings"

	"recipehub/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMRecipeRepository is a GORM implementation of RecipeRepository.
type GORMRecipeRepository struct {
	db *gorm.DB
}

// NewGORMRecipeRepository creates a new instance of GORMRecipeRepository.
func NewGORMRecipeRepository(db *gorm.DB) *GORMRecipeRepository {
	return &GORMRecipeRepository{
		db: db,
	}
}

// Create creates a new recipe in the database.
func (r *GORMRecipeRepository) Create(recipe *models.Recipe) error {
	if recipe.ID == "" {
		recipe.ID = uuid.New().String()
	}
	if err := r.db.Create(recipe).Error; err != nil {
		return fmt.Errorf("failed to create recipe: %w", err)
	}
	return nil
}

// GetByID retrieves a single recipe by its ID.
func (r *GORMRecipeRepository) GetByID(id string) (*models.Recipe, error) {
	var recipe models.Recipe
	if err := r.db.First(&recipe, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get recipe by ID %s: %w", id, err)
	}
	return &recipe, nil
}

// Update updates an existing recipe.
func (r *GORMRecipeRepository) Update(recipe *models.Recipe) error {
	res := r.db.Save(recipe)
	if res.Error != nil {
		return fmt.Errorf("failed to update recipe: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete deletes a recipe and its like rows.
func (r *GORMRecipeRepository) Delete(id string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&models.Recipe{}, "id = ?", id)
		if res.Error != nil {
			return fmt.Errorf("failed to delete recipe: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		if err := tx.Where("recipe_id = ?", id).Delete(&models.RecipeLike{}).Error; err != nil {
			return fmt.Errorf("failed to delete likes for recipe %s: %w", id, err)
		}
		return nil
	})
}

// ListCommunity returns one page of recipes, newest first.
func (r *GORMRecipeRepository) ListCommunity(filter CommunityFilter) ([]models.Recipe, int64, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 || filter.Limit > 100 {
		filter.Limit = 20
	}

	query := r.db.Model(&models.Recipe{})
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count recipes: %w", err)
	}

	var recipes []models.Recipe
	err := query.
		Order("created_at DESC").
		Offset((filter.Page - 1) * filter.Limit).
		Limit(filter.Limit).
		Find(&recipes).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list recipes: %w", err)
	}
	return recipes, total, nil
}

// Search matches q case-insensitively against title and description.
func (r *GORMRecipeRepository) Search(q string) ([]models.Recipe, error) {
	pattern := "%" + strings.ToLower(q) + "%"
	var recipes []models.Recipe
	err := r.db.
		Where("LOWER(title) LIKE ? OR LOWER(description) LIKE ?", pattern, pattern).
		Order("created_at DESC").
		Find(&recipes).Error
	if err != nil {
		return nil, fmt.Errorf("failed to search recipes: %w", err)
	}
	return recipes, nil
}

// ToggleLike flips userID's membership in the like set inside a single
// transaction. The unique index on (recipe_id, user_id) plus the expression
// update on likes_count keep the count equal to the set size even under
// concurrent toggles.
func (r *GORMRecipeRepository) ToggleLike(recipeID, userID string) (bool, int, error) {
	var liked bool
	var count int

	err := r.db.Transaction(func(tx *gorm.DB) error {
		var exists int64
		if err := tx.Model(&models.Recipe{}).Where("id = ?", recipeID).Count(&exists).Error; err != nil {
			return fmt.Errorf("failed to check recipe %s: %w", recipeID, err)
		}
		if exists == 0 {
			return ErrNotFound
		}

		res := tx.Where("recipe_id = ? AND user_id = ?", recipeID, userID).
			Delete(&models.RecipeLike{})
		if res.Error != nil {
			return fmt.Errorf("failed to remove like: %w", res.Error)
		}

		if res.RowsAffected > 0 {
			liked = false
			err := tx.Model(&models.Recipe{}).
				Where("id = ? AND likes_count > 0", recipeID).
				UpdateColumn("likes_count", gorm.Expr("likes_count - 1")).Error
			if err != nil {
				return fmt.Errorf("failed to decrement likes: %w", err)
			}
		} else {
			like := models.RecipeLike{RecipeID: recipeID, UserID: userID}
			if err := tx.Create(&like).Error; err != nil {
				return fmt.Errorf("failed to add like: %w", err)
			}
			liked = true
			err := tx.Model(&models.Recipe{}).
				Where("id = ?", recipeID).
				UpdateColumn("likes_count", gorm.Expr("likes_count + 1")).Error
			if err != nil {
				return fmt.Errorf("failed to increment likes: %w", err)
			}
		}

		var recipe models.Recipe
		if err := tx.Select("likes_count").First(&recipe, "id = ?", recipeID).Error; err != nil {
			return fmt.Errorf("failed to read likes count: %w", err)
		}
		count = recipe.LikesCount
		return nil
	})
	if err != nil {
		return false, 0, err
	}
	return liked, count, nil
}
