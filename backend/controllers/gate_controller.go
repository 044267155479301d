package controllers

import (
	"errors"

	"vritti/backend/assessment"
	"vritti/backend/config"
	"vritti/backend/gate"
	"vritti/backend/middleware"
	"vritti/backend/profile"
	"vritti/backend/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type GateController struct {
	Sessions *gate.Registry
	Cfg      *config.Config
	Log      logrus.FieldLogger
}

func NewGateController(sessions *gate.Registry, cfg *config.Config, log logrus.FieldLogger) *GateController {
	return &GateController{Sessions: sessions, Cfg: cfg, Log: log}
}

// GateView is what a view needs to decide what to render.
type GateView struct {
	Mode     gate.Mode          `json:"mode"`
	Profile  profile.Snapshot   `json:"profile"`
	Question *gate.Question     `json:"question,omitempty"`
	Result   *assessment.Result `json:"result,omitempty"`
}

type nameRequest struct {
	Name string `json:"name" example:"Sam"`
}

type answerRequest struct {
	Value *int `json:"value" example:"2" minimum:"0" maximum:"3"`
}

func (gc *GateController) view(c *fiber.Ctx, g *gate.Gate, res *assessment.Result) error {
	ctx := c.UserContext()
	snapshot, err := g.Profile().Snapshot(ctx)
	if err != nil {
		gc.Log.WithError(err).WithField("device_id", middleware.DeviceID(c)).Warn("Partial profile snapshot")
	}
	return utils.SuccessDegraded(c, fiber.StatusOK, GateView{
		Mode:     g.Mode(ctx),
		Profile:  snapshot,
		Question: g.Question(ctx),
		Result:   res,
	}, err != nil || g.Degraded())
}

// GetGate godoc
// @Summary Evaluate the onboarding gate
// @Description Re-reads the device profile and returns whether to collect a name, run the PHQ-9 questionnaire, or show the dashboard.
// @Tags gate
// @Produce json
// @Success 200 {object} utils.SuccessResponse
// @Failure 401 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /gate [get]
func (gc *GateController) GetGate(c *fiber.Ctx) error {
	g := gc.Sessions.Get(middleware.DeviceID(c))
	g.Evaluate(c.UserContext())
	return gc.view(c, g, nil)
}

// SubmitName godoc
// @Summary Submit the display name
// @Tags gate
// @Accept json
// @Produce json
// @Param input body nameRequest true "Display name"
// @Success 200 {object} utils.SuccessResponse
// @Failure 400 {object} utils.ErrorResponse
// @Failure 409 {object} utils.ErrorResponse
// @Failure 422 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /gate/name [post]
func (gc *GateController) SubmitName(c *fiber.Ctx) error {
	var input nameRequest
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	g := gc.Sessions.Get(middleware.DeviceID(c))
	mode, err := g.SubmitName(c.UserContext(), input.Name)
	switch {
	case errors.Is(err, profile.ErrEmptyName):
		return utils.ValidationError(c, "Name must not be empty", fiber.Map{"mode": mode})
	case errors.Is(err, gate.ErrWrongMode):
		return utils.Conflict(c, "Name already collected", fiber.Map{"mode": mode})
	case err != nil:
		return utils.InternalServerError(c, "Could not save name")
	}
	return gc.view(c, g, nil)
}

// Answer godoc
// @Summary Answer the current questionnaire step
// @Description Records one answer. The response carries the next question, or the result once the last question is answered.
// @Tags gate
// @Accept json
// @Produce json
// @Param input body answerRequest true "Answer value"
// @Success 200 {object} utils.SuccessResponse
// @Failure 400 {object} utils.ErrorResponse
// @Failure 409 {object} utils.ErrorResponse
// @Failure 422 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /assessment/answer [post]
func (gc *GateController) Answer(c *fiber.Ctx) error {
	var input answerRequest
	if err := c.BodyParser(&input); err != nil || input.Value == nil {
		return utils.BadRequest(c, "Body must be {\"value\": <int>}")
	}

	ctx := c.UserContext()
	g := gc.Sessions.Get(middleware.DeviceID(c))
	res, mode, err := g.Answer(ctx, *input.Value)
	switch {
	case errors.Is(err, assessment.ErrInvalidAnswer):
		return utils.ValidationError(c, "Answer must be one of the listed options", fiber.Map{
			"mode":     mode,
			"question": g.Question(ctx),
		})
	case errors.Is(err, gate.ErrWrongMode):
		return utils.Conflict(c, "No questionnaire is running", fiber.Map{"mode": mode})
	case err != nil:
		return utils.InternalServerError(c, "Could not record answer")
	}
	return gc.view(c, g, res)
}

// Retake godoc
// @Summary Retake the PHQ-9 questionnaire
// @Description Clears the completed flag and restarts the questionnaire. The display name is kept.
// @Tags gate
// @Produce json
// @Success 200 {object} utils.SuccessResponse
// @Failure 409 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /assessment/retake [post]
func (gc *GateController) Retake(c *fiber.Ctx) error {
	g := gc.Sessions.Get(middleware.DeviceID(c))
	mode, err := g.Retake(c.UserContext())
	if errors.Is(err, gate.ErrWrongMode) {
		return utils.Conflict(c, "Retake is only possible from the dashboard", fiber.Map{"mode": mode})
	}
	if err != nil {
		return utils.InternalServerError(c, "Could not restart questionnaire")
	}
	return gc.view(c, g, nil)
}
