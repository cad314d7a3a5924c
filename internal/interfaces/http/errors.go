package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/sweetshop-api/internal/application/dto"
	"github.com/jhoicas/sweetshop-api/internal/domain"
	"github.com/jhoicas/sweetshop-api/pkg/logger"
)

// statusFor traduce el Kind de un error de dominio a status HTTP.
func statusFor(kind domain.Kind) int {
	switch kind {
	case domain.KindValidation:
		return fiber.StatusBadRequest
	case domain.KindNotFound:
		return fiber.StatusNotFound
	case domain.KindConflict:
		return fiber.StatusConflict
	case domain.KindUnauthorized:
		return fiber.StatusUnauthorized
	case domain.KindForbidden:
		return fiber.StatusForbidden
	default:
		return fiber.StatusInternalServerError
	}
}

// defaultCode para errores de dominio sin Code propio.
func defaultCode(kind domain.Kind) string {
	switch kind {
	case domain.KindValidation:
		return "VALIDATION"
	case domain.KindNotFound:
		return "NOT_FOUND"
	case domain.KindConflict:
		return "CONFLICT"
	case domain.KindUnauthorized:
		return "UNAUTHORIZED"
	case domain.KindForbidden:
		return "FORBIDDEN"
	default:
		return "INTERNAL"
	}
}

// writeError responde con el status y código del error de dominio. Cualquier otro error
// se registra y se responde 500 con un mensaje fijo.
func writeError(c *fiber.Ctx, log *logger.Logger, err error) error {
	var de *domain.Error
	if errors.As(err, &de) && de.Kind != domain.KindInternal {
		code := de.Code
		if code == "" {
			code = defaultCode(de.Kind)
		}
		return c.Status(statusFor(de.Kind)).JSON(dto.ErrorResponse{Code: code, Message: de.Message})
	}
	log.Error().Err(err).Str("method", c.Method()).Str("path", c.Path()).Msg("error interno")
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "error interno del servidor"})
}

func badBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
}

// ErrorHandler manejador de errores de Fiber: rutas inexistentes, métodos no permitidos y panics recuperados.
func ErrorHandler(log *logger.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			code := "HTTP_ERROR"
			switch fe.Code {
			case fiber.StatusNotFound:
				code = "NOT_FOUND"
			case fiber.StatusMethodNotAllowed:
				code = "METHOD_NOT_ALLOWED"
			case fiber.StatusBadRequest:
				code = "BAD_REQUEST"
			}
			return c.Status(fe.Code).JSON(dto.ErrorResponse{Code: code, Message: fe.Message})
		}
		return writeError(c, log, err)
	}
}
