package handlers

import (
	"log"

	"recipehub/internal/middleware"
	"recipehub/internal/models"
	"recipehub/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// AuthHandler handles HTTP requests for authentication and account
// administration.
type AuthHandler struct {
	authService *services.AuthService
	validate    *validator.Validate
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		validate:    validator.New(),
	}
}

// RegisterRoutes registers the authentication routes.
func (h *AuthHandler) RegisterRoutes(router fiber.Router, auth fiber.Handler) {
	authRoutes := router.Group("/auth")
	authRoutes.Post("/register", h.HandleRegister)
	authRoutes.Post("/login", h.HandleLogin)
	authRoutes.Get("/me", auth, h.HandleMe)
	authRoutes.Patch("/users/:id/role", auth, middleware.RequireRole(models.RoleAdmin), h.HandleChangeRole)
}

// RegisterRequest is the request body for registration. Any role or ID in
// the payload is ignored; privilege is never granted at registration.
type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// HandleRegister handles new user registration.
func (h *AuthHandler) HandleRegister(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if err := h.validate.Struct(req); err != nil {
		return failValidation(c, err)
	}

	user := &models.User{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	}
	if err := h.authService.RegisterUser(user); err != nil {
		log.Printf("Error registering user %s: %v", req.Username, err)
		return failFromService(c, err)
	}

	return ok(c, fiber.StatusCreated, "User registered successfully", fiber.Map{
		"user": user.PublicView(),
	})
}

// LoginRequest is the request body for login.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// HandleLogin handles user login and issues a JWT token.
func (h *AuthHandler) HandleLogin(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if err := h.validate.Struct(req); err != nil {
		return failValidation(c, err)
	}

	token, user, err := h.authService.LoginUser(req.Username, req.Password)
	if err != nil {
		return failFromService(c, err)
	}

	return ok(c, fiber.StatusOK, "Login successful", fiber.Map{
		"token": token,
		"user":  user.PublicView(),
	})
}

// HandleMe returns the authenticated user's public view.
func (h *AuthHandler) HandleMe(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	return ok(c, fiber.StatusOK, "", fiber.Map{
		"user": user.PublicView(),
	})
}

// ChangeRoleRequest is the request body for role changes.
type ChangeRoleRequest struct {
	Role models.Role `json:"role" validate:"required,oneof=user moderator admin"`
}

// HandleChangeRole sets a user's role. Admin only (enforced by the route's
// role gate).
func (h *AuthHandler) HandleChangeRole(c *fiber.Ctx) error {
	var req ChangeRoleRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if err := h.validate.Struct(req); err != nil {
		return failValidation(c, err)
	}

	targetID := c.Params("id")
	if err := h.authService.ChangeRole(targetID, req.Role); err != nil {
		return failFromService(c, err)
	}

	return ok(c, fiber.StatusOK, "Role updated", fiber.Map{
		"user_id": targetID,
		"role":    req.Role,
	})
}
