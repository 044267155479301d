package middleware

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

func LoggingMiddleware(logger logrus.FieldLogger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		// the error handler has not written the response yet
		status := c.Response().StatusCode()
		if err != nil {
			status = fiber.StatusInternalServerError
			var fe *fiber.Error
			if errors.As(err, &fe) {
				status = fe.Code
			}
		}

		entry := logger.WithFields(logrus.Fields{
			"method":  c.Method(),
			"path":    c.Path(),
			"status":  status,
			"latency": time.Since(start).String(),
			"ip":      c.IP(),
		})
		if deviceID, ok := c.Locals(DeviceIDKey).(string); ok {
			entry = entry.WithField("device_id", deviceID)
		}

		switch {
		case status >= fiber.StatusInternalServerError:
			entry.WithError(err).Error("HTTP request")
		case status >= fiber.StatusBadRequest:
			entry.Warn("HTTP request")
		default:
			entry.Info("HTTP request")
		}

		return err
	}
}
