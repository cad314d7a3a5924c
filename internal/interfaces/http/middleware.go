package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/sweetshop-api/pkg/logger"
	"github.com/jhoicas/sweetshop-api/pkg/metrics"
)

// RequestLogger registra cada petición (método, ruta, status, latencia, usuario) y la
// cuenta en m si no es nil. Los errores de handlers se resuelven aquí con el ErrorHandler
// de la app para conocer el status final.
func RequestLogger(log *logger.Logger, m *metrics.Metrics) fiber.Handler {
	if log == nil {
		log = logger.Nop()
	}
	log = log.Component("http")
	return func(c *fiber.Ctx) error {
		start := time.Now()
		if err := c.Next(); err != nil {
			if herr := c.App().ErrorHandler(c, err); herr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}
		elapsed := time.Since(start)
		status := c.Response().StatusCode()
		route := c.Route().Path
		if status == fiber.StatusNotFound && route == "/" {
			route = "unmatched"
		}

		ev := log.Info()
		if status >= fiber.StatusInternalServerError {
			ev = log.Error()
		} else if status >= fiber.StatusBadRequest {
			ev = log.Warn()
		}
		ev.Str("method", c.Method()).
			Str("path", c.Path()).
			Str("route", route).
			Int("status", status).
			Dur("latency", elapsed).
			Str("user_id", GetUserID(c)).
			Msg("request")

		if m != nil {
			m.ObserveRequest(route, status, elapsed)
		}
		return nil
	}
}
