package handlers

import (
	"recipehub/internal/middleware"
	"recipehub/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// ProfileHandler handles HTTP requests for the authenticated user's
// profile.
type ProfileHandler struct {
	profileService *services.ProfileService
	validate       *validator.Validate
}

// NewProfileHandler creates a new ProfileHandler.
func NewProfileHandler(profileService *services.ProfileService) *ProfileHandler {
	return &ProfileHandler{
		profileService: profileService,
		validate:       validator.New(),
	}
}

// RegisterRoutes registers the profile routes. All of them require
// authentication.
func (h *ProfileHandler) RegisterRoutes(router fiber.Router, auth fiber.Handler) {
	profileRoutes := router.Group("/profile", auth)
	profileRoutes.Get("/", h.HandleGetProfile)
	profileRoutes.Patch("/personal", h.HandleUpdatePersonal)
	profileRoutes.Patch("/health", h.HandleUpdateHealth)
	profileRoutes.Patch("/preferences", h.HandleUpdatePreferences)
	profileRoutes.Get("/bmi", h.HandleGetBMI)
	profileRoutes.Get("/stats", h.HandleGetStats)
}

// HandleGetProfile returns the user's profile, creating it with defaults on
// first access.
func (h *ProfileHandler) HandleGetProfile(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	profile, err := h.profileService.GetProfile(user.ID)
	if err != nil {
		return failFromService(c, err)
	}
	return ok(c, fiber.StatusOK, "", fiber.Map{"profile": profile})
}

// HandleUpdatePersonal applies a sparse personal-info patch.
func (h *ProfileHandler) HandleUpdatePersonal(c *fiber.Ctx) error {
	var patch services.PersonalInfoPatch
	if err := c.BodyParser(&patch); err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if err := h.validate.Struct(patch); err != nil {
		return failValidation(c, err)
	}

	user := middleware.CurrentUser(c)
	profile, err := h.profileService.UpdatePersonalInfo(user.ID, patch)
	if err != nil {
		return failFromService(c, err)
	}
	return ok(c, fiber.StatusOK, "Personal info updated", fiber.Map{"profile": profile})
}

// HandleUpdateHealth applies a sparse health-info patch.
func (h *ProfileHandler) HandleUpdateHealth(c *fiber.Ctx) error {
	var patch services.HealthInfoPatch
	if err := c.BodyParser(&patch); err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if err := h.validate.Struct(patch); err != nil {
		return failValidation(c, err)
	}

	user := middleware.CurrentUser(c)
	profile, err := h.profileService.UpdateHealthInfo(user.ID, patch)
	if err != nil {
		return failFromService(c, err)
	}
	return ok(c, fiber.StatusOK, "Health info updated", fiber.Map{"profile": profile})
}

// HandleUpdatePreferences applies a sparse preferences patch.
func (h *ProfileHandler) HandleUpdatePreferences(c *fiber.Ctx) error {
	var patch services.PreferencesPatch
	if err := c.BodyParser(&patch); err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if err := h.validate.Struct(patch); err != nil {
		return failValidation(c, err)
	}

	user := middleware.CurrentUser(c)
	profile, err := h.profileService.UpdatePreferences(user.ID, patch)
	if err != nil {
		return failFromService(c, err)
	}
	return ok(c, fiber.StatusOK, "Preferences updated", fiber.Map{"profile": profile})
}

// HandleGetBMI returns the derived BMI report.
func (h *ProfileHandler) HandleGetBMI(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	report, err := h.profileService.GetBMI(user.ID)
	if err != nil {
		return failFromService(c, err)
	}
	return ok(c, fiber.StatusOK, "", fiber.Map{"bmi": report})
}

// HandleGetStats returns the profile stats view.
func (h *ProfileHandler) HandleGetStats(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	stats, err := h.profileService.GetStats(user.ID)
	if err != nil {
		return failFromService(c, err)
	}
	return ok(c, fiber.StatusOK, "", fiber.Map{"stats": stats})
}
