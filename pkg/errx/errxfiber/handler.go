// Package errxfiber renders errx errors as Fiber responses.
package errxfiber

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/ItmeRoa/Expense-Tracking-App/pkg/errx"
	"github.com/ItmeRoa/Expense-Tracking-App/pkg/logx"
)

const requestIDHeader = "X-Request-ID"

// ErrorHandler logs err with request context and writes its public view.
// Internal and external failures are logged at error level, the rest at warn.
func ErrorHandler(logger *logx.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		requestID := c.GetRespHeader(requestIDHeader)
		if requestID == "" {
			requestID = c.Get(requestIDHeader)
		}

		var fe *fiber.Error
		var e *errx.Error
		switch {
		case errors.As(err, &e):
		case errors.As(err, &fe):
			e = errx.New(fe.Message, typeForStatus(fe.Code))
			e.HTTPStatus = fe.Code
		default:
			e = errx.From(err)
		}

		entry := logger.WithFields(logx.Fields{
			"path":       c.Path(),
			"method":     c.Method(),
			"status":     e.HTTPStatus,
			"code":       e.Code,
			"request_id": requestID,
		}).WithError(err)
		if e.Type.Exposed() {
			entry.Warn("Request failed")
		} else {
			entry.Error("Request error")
		}

		return c.Status(e.HTTPStatus).JSON(e.Public(requestID))
	}
}

func typeForStatus(status int) errx.Type {
	switch {
	case status == fiber.StatusNotFound:
		return errx.TypeNotFound
	case status == fiber.StatusUnauthorized || status == fiber.StatusForbidden:
		return errx.TypeAuthorization
	case status == fiber.StatusConflict:
		return errx.TypeConflict
	case status >= 400 && status < 500:
		return errx.TypeValidation
	default:
		return errx.TypeInternal
	}
}
