package controllers

import (
	"vritti/backend/config"
	"vritti/backend/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type DeviceController struct {
	Cfg *config.Config
	Log logrus.FieldLogger
}

func NewDeviceController(cfg *config.Config, log logrus.FieldLogger) *DeviceController {
	return &DeviceController{Cfg: cfg, Log: log}
}

// IssueDevice godoc
// @Summary Register a device
// @Description Creates a new device scope and returns the token that addresses it. The token identifies a browser, not a person.
// @Tags device
// @Produce json
// @Success 201 {object} utils.SuccessResponse
// @Failure 500 {object} utils.ErrorResponse
// @Router /device [post]
func (dc *DeviceController) IssueDevice(c *fiber.Ctx) error {
	deviceID := utils.NewDeviceID()

	token, err := utils.GenerateDeviceToken(deviceID, dc.Cfg)
	if err != nil {
		dc.Log.WithError(err).Error("Could not sign device token")
		return utils.InternalServerError(c, "Could not generate token")
	}

	dc.Log.WithField("device_id", deviceID).Info("Device registered")
	return utils.Created(c, fiber.Map{
		"device_id": deviceID,
		"token":     token,
	})
}
