package serverutils

import (
	"errors"
	"strings"

	"turkgpt/internal/entity"

	"github.com/gofiber/fiber/v2"
)

const (
	CallerIDHeader = "X-Caller-ID"
	callerIDKey    = "caller_id"
)

// ErrorHandlerMiddleware renders any error returned down the chain as the
// standard error envelope.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		code := fiber.StatusInternalServerError
		message := err.Error()

		var fiberErr *fiber.Error
		var validationErr *ValidationError
		switch {
		case errors.As(err, &validationErr):
			code = fiber.StatusBadRequest
		case errors.As(err, &fiberErr):
			code = fiberErr.Code
			message = fiberErr.Message
		}

		return ctx.Status(code).JSON(ErrorResponse(code, message))
	}
}

// CallerIdentity stores the optional X-Caller-ID header on the request.
func CallerIdentity() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		caller := strings.TrimSpace(ctx.Get(CallerIDHeader))
		if caller == "" {
			caller = string(entity.AnonymousCaller)
		}
		ctx.Locals(callerIDKey, entity.CallerID(caller))
		return ctx.Next()
	}
}

func CallerID(ctx *fiber.Ctx) entity.CallerID {
	if caller, ok := ctx.Locals(callerIDKey).(entity.CallerID); ok {
		return caller
	}
	return entity.AnonymousCaller
}
