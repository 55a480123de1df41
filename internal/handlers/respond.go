package handlers

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"recipehub/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// exposeErrorDetails controls whether internal error strings are included
// in responses. Disabled in production.
var exposeErrorDetails = true

// ExposeErrorDetails toggles error detail exposure; main calls this based
// on APP_ENV.
func ExposeErrorDetails(expose bool) {
	exposeErrorDetails = expose
}

// ok writes a success envelope, merging payload into it.
func ok(c *fiber.Ctx, status int, message string, payload fiber.Map) error {
	body := fiber.Map{"success": true}
	if message != "" {
		body["message"] = message
	}
	for k, v := range payload {
		body[k] = v
	}
	return c.Status(status).JSON(body)
}

// fail writes an error envelope. The underlying error string is attached
// only when detail exposure is on.
func fail(c *fiber.Ctx, status int, message string, err error) error {
	body := fiber.Map{
		"success": false,
		"message": message,
	}
	if err != nil && exposeErrorDetails {
		body["error"] = err.Error()
	}
	return c.Status(status).JSON(body)
}

// failFromService maps a service error onto the HTTP taxonomy. Anything
// not in the taxonomy is an internal failure: logged, and returned as a
// generic 500 so stack details never reach the client.
func failFromService(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrNotFound):
		return fail(c, fiber.StatusNotFound, "Not found", err)
	case errors.Is(err, services.ErrForbidden):
		return fail(c, fiber.StatusForbidden, "Insufficient permissions", err)
	case errors.Is(err, services.ErrInvalidCredentials):
		return fail(c, fiber.StatusUnauthorized, "Invalid credentials", nil)
	case errors.Is(err, services.ErrUnauthenticated),
		errors.Is(err, services.ErrInvalidToken),
		errors.Is(err, services.ErrTokenExpired):
		return fail(c, fiber.StatusUnauthorized, "Authentication required", err)
	case errors.Is(err, services.ErrDuplicateUsername):
		return fail(c, fiber.StatusBadRequest, "Username already taken", err)
	case errors.Is(err, services.ErrDuplicateEmail):
		return fail(c, fiber.StatusBadRequest, "Email already registered", err)
	case errors.Is(err, services.ErrValidation):
		return fail(c, fiber.StatusBadRequest, "Validation failed", err)
	default:
		log.Printf("Internal error handling %s %s: %v", c.Method(), c.Path(), err)
		return fail(c, fiber.StatusInternalServerError, "Something went wrong", err)
	}
}

// failValidation turns validator errors into a 400 with per-field messages
// joined into the envelope message.
func failValidation(c *fiber.Ctx, err error) error {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return fail(c, fiber.StatusBadRequest, "Validation failed", err)
	}

	fieldErrors := make(map[string]string, len(validationErrors))
	parts := make([]string, 0, len(validationErrors))
	for _, e := range validationErrors {
		msg := fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
		fieldErrors[e.Field()] = msg
		parts = append(parts, msg)
	}

	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"success": false,
		"message": "Validation failed: " + strings.Join(parts, "; "),
		"errors":  fieldErrors,
	})
}
