package handlers

import (
	"errors"

	appErr "hyperdrive/pkg/errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// StatusFor maps an error code to its HTTP status.
func StatusFor(code appErr.Code) int {
	switch code {
	case appErr.CodeInvalid:
		return fiber.StatusUnprocessableEntity
	case appErr.CodeNotFound:
		return fiber.StatusNotFound
	case appErr.CodeForbidden:
		return fiber.StatusForbidden
	case appErr.CodeUnauthorized:
		return fiber.StatusUnauthorized
	case appErr.CodeRateLimited:
		return fiber.StatusTooManyRequests
	case appErr.CodeConflict:
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}

// ErrorHandler renders every error as {"detail": ...}. Internal failures are
// logged and their message is not exposed.
func ErrorHandler(log *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		if ae, ok := appErr.As(err); ok {
			status := StatusFor(ae.Code)
			if status >= fiber.StatusInternalServerError {
				return internal(c, log, err)
			}
			body := fiber.Map{"detail": ae.Message}
			if fields, ok := ae.Meta["errors"]; ok {
				body["errors"] = fields
			}
			return c.Status(status).JSON(body)
		}

		var fe *fiber.Error
		if errors.As(err, &fe) && fe.Code < fiber.StatusInternalServerError {
			return c.Status(fe.Code).JSON(fiber.Map{"detail": fe.Message})
		}
		return internal(c, log, err)
	}
}

func internal(c *fiber.Ctx, log *zap.Logger, err error) error {
	log.Error("request failed",
		zap.String("method", c.Method()),
		zap.String("path", c.Path()),
		zap.Any("request_id", c.Locals("requestid")),
		zap.Error(err),
	)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"detail": "Internal server error"})
}

func invalidBody(err error) error {
	return appErr.Wrap(err, appErr.CodeInvalid, "Invalid request body")
}
