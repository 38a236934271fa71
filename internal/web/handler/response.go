package handler

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/GoAccessAdmin/GoAccessAdmin/internal/apperror"
	"github.com/GoAccessAdmin/GoAccessAdmin/internal/auth"
	"github.com/GoAccessAdmin/GoAccessAdmin/internal/db/controller/gateway"
)

// JSON writes v with the given status and ContentTypeJSON.
func JSON(c *fiber.Ctx, status int, v any) error {
	return c.Status(status).JSON(v, ContentTypeJSON)
}

// NoContent answers with 204 and an empty body.
func NoContent(c *fiber.Ctx) error {
	return c.SendStatus(fiber.StatusNoContent)
}

// IsAPI reports whether the request targets the JSON API.
func IsAPI(c *fiber.Ctx) bool {
	path := c.Path()
	return path == APIPrefix || strings.HasPrefix(path, APIPrefix+"/")
}

// StatusOf returns the HTTP status for err.
func StatusOf(err error) int {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return fe.Code
	}

	status := apperror.StatusCode(err)
	if status == fiber.StatusInternalServerError && errors.Is(err, gateway.ErrNotFound) {
		return fiber.StatusNotFound
	}

	return status
}

// ErrorHandler is the application error handler. Page requests failing the login or
// permission check are redirected; every other error is serialized as a JSON body
// carrying the chain of causes.
func ErrorHandler(c *fiber.Ctx, err error) error {
	if !IsAPI(c) {
		switch {
		case errors.Is(err, auth.ErrNotLoggedIn):
			return c.Redirect(auth.LoginRedirectURL(c.OriginalURL()), fiber.StatusSeeOther)
		case errors.Is(err, auth.ErrForbidden):
			return c.Redirect(AccessDeniedPath, fiber.StatusSeeOther)
		}
	}

	status := StatusOf(err)

	event := log.Debug()
	if status >= fiber.StatusInternalServerError {
		event = log.Error()
	}

	event.Err(err).Int("status", status).Str("method", c.Method()).Str("path", c.Path()).Msg("request failed")

	var re *apperror.RequestError
	if errors.As(err, &re) {
		for k, v := range re.Headers {
			c.Set(k, v)
		}
	}

	body := apperror.NewBody(err)
	body.Status = status

	return JSON(c, status, body)
}
