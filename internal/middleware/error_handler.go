package middleware

import (
	"errors"

	"productsapi/internal/errs"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
)

// ErrorHandler is the Fiber fault boundary. *errs.HTTPError and
// *fiber.Error keep their status; anything else is logged and answered
// with a generic 500.
func ErrorHandler(log zerolog.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var httpErr *errs.HTTPError
		if errors.As(err, &httpErr) {
			return c.Status(httpErr.Status).JSON(httpErr)
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return c.Status(fiberErr.Code).JSON(errs.New(fiberErr.Code, fiberErr.Message))
		}

		log.Error().
			Err(err).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Str("request_id", GetRequestID(c)).
			Msg("unhandled error")

		internal := errs.NewInternalServerError()
		return c.Status(internal.Status).JSON(internal)
	}
}
