package middleware

import (
	"vritti/backend/config"
	"vritti/backend/utils"

	"github.com/gofiber/fiber/v2"
)

// DeviceIDKey is the fiber.Ctx locals key holding the caller's device id.
const DeviceIDKey = "device_id"

// DeviceMiddleware requires a valid device token and stores its device id in
// the request locals.
func DeviceMiddleware(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		deviceID, err := utils.ExtractDeviceIDFromToken(c, cfg)
		if err != nil {
			return utils.Unauthorized(c, "Unauthorized")
		}
		c.Locals(DeviceIDKey, deviceID)
		return c.Next()
	}
}

// DeviceID returns the id stored by DeviceMiddleware.
func DeviceID(c *fiber.Ctx) string {
	id, _ := c.Locals(DeviceIDKey).(string)
	return id
}
