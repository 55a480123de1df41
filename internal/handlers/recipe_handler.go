package handlers

import (
	"recipehub/internal/middleware"
	"recipehub/internal/models"
	"recipehub/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// RecipeHandler handles HTTP requests for recipes.
type RecipeHandler struct {
	recipeService *services.RecipeService
	validate      *validator.Validate
}

// NewRecipeHandler creates a new RecipeHandler.
func NewRecipeHandler(recipeService *services.RecipeService) *RecipeHandler {
	return &RecipeHandler{
		recipeService: recipeService,
		validate:      validator.New(),
	}
}

// RegisterRoutes registers the recipe routes. Listing and search are
// public; writes require authentication. Moderation deletes live under
// /moderation and additionally require the moderator or admin role.
func (h *RecipeHandler) RegisterRoutes(router fiber.Router, auth fiber.Handler) {
	recipeRoutes := router.Group("/recipes")
	recipeRoutes.Get("/community", h.HandleCommunity)
	recipeRoutes.Get("/search", h.HandleSearch)
	recipeRoutes.Post("/", auth, h.HandleCreate)
	recipeRoutes.Get("/:id", h.HandleGetByID)
	recipeRoutes.Put("/:id", auth, h.HandleUpdate)
	recipeRoutes.Delete("/:id", auth, h.HandleDelete)
	recipeRoutes.Post("/:id/like", auth, h.HandleToggleLike)

	moderation := router.Group("/moderation", auth,
		middleware.RequireRole(models.RoleAdmin, models.RoleModerator))
	moderation.Delete("/recipes/:id", h.HandleModerationDelete)
}

// HandleCommunity returns a page of community recipes.
func (h *RecipeHandler) HandleCommunity(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 20)
	category := c.Query("category")

	result, err := h.recipeService.ListCommunity(page, limit, category)
	if err != nil {
		return failFromService(c, err)
	}
	return ok(c, fiber.StatusOK, "", fiber.Map{
		"recipes": result.Recipes,
		"total":   result.Total,
		"page":    result.Page,
		"limit":   result.Limit,
	})
}

// HandleSearch performs a case-insensitive substring search on recipe
// titles and descriptions.
func (h *RecipeHandler) HandleSearch(c *fiber.Ctx) error {
	recipes, err := h.recipeService.Search(c.Query("q"))
	if err != nil {
		return failFromService(c, err)
	}
	return ok(c, fiber.StatusOK, "", fiber.Map{"recipes": recipes})
}

// HandleGetByID returns a single recipe.
func (h *RecipeHandler) HandleGetByID(c *fiber.Ctx) error {
	recipe, err := h.recipeService.GetRecipeByID(c.Params("id"))
	if err != nil {
		return failFromService(c, err)
	}
	return ok(c, fiber.StatusOK, "", fiber.Map{"recipe": recipe})
}

// HandleCreate creates a recipe authored by the current user.
func (h *RecipeHandler) HandleCreate(c *fiber.Ctx) error {
	var recipe models.Recipe
	if err := c.BodyParser(&recipe); err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if err := h.validate.Struct(recipe); err != nil {
		return failValidation(c, err)
	}

	user := middleware.CurrentUser(c)
	created, err := h.recipeService.CreateRecipe(&recipe, user)
	if err != nil {
		return failFromService(c, err)
	}
	return ok(c, fiber.StatusCreated, "Recipe created", fiber.Map{"recipe": created})
}

// HandleUpdate replaces the editable fields of a recipe (author only).
func (h *RecipeHandler) HandleUpdate(c *fiber.Ctx) error {
	var recipe models.Recipe
	if err := c.BodyParser(&recipe); err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if err := h.validate.Struct(recipe); err != nil {
		return failValidation(c, err)
	}

	user := middleware.CurrentUser(c)
	updated, err := h.recipeService.UpdateRecipe(c.Params("id"), &recipe, user)
	if err != nil {
		return failFromService(c, err)
	}
	return ok(c, fiber.StatusOK, "Recipe updated", fiber.Map{"recipe": updated})
}

// HandleDelete removes a recipe (author only).
func (h *RecipeHandler) HandleDelete(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	if err := h.recipeService.DeleteRecipe(c.Params("id"), user, false); err != nil {
		return failFromService(c, err)
	}
	return ok(c, fiber.StatusOK, "Recipe deleted", nil)
}

// HandleModerationDelete removes any recipe. The role gate on the route
// already restricted the caller to admins and moderators.
func (h *RecipeHandler) HandleModerationDelete(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	if err := h.recipeService.DeleteRecipe(c.Params("id"), user, true); err != nil {
		return failFromService(c, err)
	}
	return ok(c, fiber.StatusOK, "Recipe removed by moderation", nil)
}

// HandleToggleLike flips the current user's like on a recipe.
func (h *RecipeHandler) HandleToggleLike(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	result, err := h.recipeService.ToggleLike(c.Params("id"), user.ID)
	if err != nil {
		return failFromService(c, err)
	}
	return ok(c, fiber.StatusOK, "", fiber.Map{
		"liked":       result.Liked,
		"likes_count": result.LikesCount,
	})
}
