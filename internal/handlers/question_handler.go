package handlers

import (
	"recipehub/internal/middleware"
	"recipehub/internal/models"
	"recipehub/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// QuestionHandler handles HTTP requests for recipe Q&A threads.
type QuestionHandler struct {
	questionService *services.QuestionService
	validate        *validator.Validate
}

// NewQuestionHandler creates a new QuestionHandler.
func NewQuestionHandler(questionService *services.QuestionService) *QuestionHandler {
	return &QuestionHandler{
		questionService: questionService,
		validate:        validator.New(),
	}
}

// RegisterRoutes registers the Q&A routes. Reading is public; asking,
// answering, resolving, and deleting require authentication.
func (h *QuestionHandler) RegisterRoutes(router fiber.Router, auth fiber.Handler) {
	router.Get("/recipes/:id/questions", h.HandleListByRecipe)
	router.Post("/recipes/:id/questions", auth, h.HandleCreate)

	questionRoutes := router.Group("/questions", auth)
	questionRoutes.Post("/:id/answers", h.HandleAddAnswer)
	questionRoutes.Patch("/:id/resolve", h.HandleResolve)
	questionRoutes.Delete("/:id", h.HandleDelete)

	moderation := router.Group("/moderation", auth,
		middleware.RequireRole(models.RoleAdmin, models.RoleModerator))
	moderation.Delete("/questions/:id", h.HandleModerationDelete)
}

// HandleListByRecipe returns the Q&A threads attached to a recipe.
func (h *QuestionHandler) HandleListByRecipe(c *fiber.Ctx) error {
	questions, err := h.questionService.ListByRecipe(c.Params("id"))
	if err != nil {
		return failFromService(c, err)
	}
	return ok(c, fiber.StatusOK, "", fiber.Map{"questions": questions})
}

// CreateQuestionRequest is the request body for opening a question.
type CreateQuestionRequest struct {
	Title string `json:"title" validate:"required,min=3,max=200"`
	Body  string `json:"body" validate:"omitempty,max=2000"`
}

// HandleCreate opens a new question on a recipe.
func (h *QuestionHandler) HandleCreate(c *fiber.Ctx) error {
	var req CreateQuestionRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if err := h.validate.Struct(req); err != nil {
		return failValidation(c, err)
	}

	user := middleware.CurrentUser(c)
	question := &models.Question{
		RecipeID: c.Params("id"),
		Title:    req.Title,
		Body:     req.Body,
	}
	created, err := h.questionService.CreateQuestion(question, user)
	if err != nil {
		return failFromService(c, err)
	}
	return ok(c, fiber.StatusCreated, "Question created", fiber.Map{"question": created})
}

// AddAnswerRequest is the request body for answering a question.
type AddAnswerRequest struct {
	Body string `json:"body" validate:"required,min=1,max=2000"`
}

// HandleAddAnswer appends an answer to a question.
func (h *QuestionHandler) HandleAddAnswer(c *fiber.Ctx) error {
	var req AddAnswerRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if err := h.validate.Struct(req); err != nil {
		return failValidation(c, err)
	}

	user := middleware.CurrentUser(c)
	answer, err := h.questionService.AddAnswer(c.Params("id"), req.Body, user)
	if err != nil {
		return failFromService(c, err)
	}
	return ok(c, fiber.StatusCreated, "Answer added", fiber.Map{"answer": answer})
}

// HandleResolve marks the question resolved (asker only).
func (h *QuestionHandler) HandleResolve(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	question, err := h.questionService.Resolve(c.Params("id"), user)
	if err != nil {
		return failFromService(c, err)
	}
	return ok(c, fiber.StatusOK, "Question resolved", fiber.Map{"question": question})
}

// HandleDelete removes a question (asker only).
func (h *QuestionHandler) HandleDelete(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	if err := h.questionService.DeleteQuestion(c.Params("id"), user, false); err != nil {
		return failFromService(c, err)
	}
	return ok(c, fiber.StatusOK, "Question deleted", nil)
}

// HandleModerationDelete removes any question after the role gate.
func (h *QuestionHandler) HandleModerationDelete(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	if err := h.questionService.DeleteQuestion(c.Params("id"), user, true); err != nil {
		return failFromService(c, err)
	}
	return ok(c, fiber.StatusOK, "Question removed by moderation", nil)
}
