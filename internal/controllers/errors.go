package controllers

import (
	"errors"

	"github.com/FrankWaweru369/Infinity-backend/dto"
	"github.com/FrankWaweru369/Infinity-backend/internal/apperr"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// ErrorHandler is installed as the fiber app's error handler so that every
// failed handler ends up in writeError.
func ErrorHandler(log *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		return writeError(c, log, err)
	}
}

func statusOf(err error) int {
	var nf *apperr.NotFoundError
	var ve *apperr.ValidationError
	var fe *fiber.Error
	switch {
	case errors.As(err, &nf):
		return fiber.StatusNotFound
	case errors.As(err, &ve):
		return fiber.StatusBadRequest
	case errors.Is(err, apperr.ErrUnauthorized):
		return fiber.StatusUnauthorized
	case errors.Is(err, apperr.ErrForbidden):
		return fiber.StatusForbidden
	case errors.Is(err, apperr.ErrConflict):
		return fiber.StatusConflict
	case errors.As(err, &fe):
		return fe.Code
	}
	return fiber.StatusInternalServerError
}

func writeError(c *fiber.Ctx, log *zap.Logger, err error) error {
	status := statusOf(err)
	msg := err.Error()
	if status >= fiber.StatusInternalServerError {
		log.Error("request failed",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Error(err))
		msg = "internal server error"
	}
	return c.Status(status).JSON(dto.ErrorResponse{Error: msg})
}
