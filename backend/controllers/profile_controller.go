package controllers

import (
	"errors"

	"vritti/backend/gate"
	"vritti/backend/middleware"
	"vritti/backend/profile"
	"vritti/backend/store"
	"vritti/backend/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type ProfileController struct {
	Sessions *gate.Registry
	Log      logrus.FieldLogger
	Observer gate.Observer
}

func NewProfileController(sessions *gate.Registry, log logrus.FieldLogger, obs gate.Observer) *ProfileController {
	return &ProfileController{Sessions: sessions, Log: log, Observer: obs}
}

type UpdateMoodRequest struct {
	Mood string `json:"mood" example:"happy" enums:"happy,neutral,sad"`
}

type ActivityRequest struct {
	Label string `json:"label" example:"Breathing exercise"`
}

type SleepRequest struct {
	Hours *int `json:"hours" example:"7" minimum:"0" maximum:"24"`
}

type JournalRequest struct {
	Text string `json:"text" example:"Felt calmer after the walk."`
}

func (pc *ProfileController) profileFor(c *fiber.Ctx) *profile.Profile {
	return pc.Sessions.Get(middleware.DeviceID(c)).Profile()
}

// degraded logs and counts a write that only reached the session overlay.
// It reports whether err was such a storage failure.
func (pc *ProfileController) degraded(c *fiber.Ctx, op string, err error) bool {
	if err == nil || !errors.Is(err, store.ErrStorageUnavailable) {
		return false
	}
	pc.Log.WithError(err).WithField("device_id", middleware.DeviceID(c)).Warn("Profile " + op + " kept for this session only")
	if pc.Observer != nil {
		pc.Observer.StorageDegraded("set")
	}
	return true
}

// GetProfile godoc
// @Summary Get the device profile
// @Tags profile
// @Produce json
// @Success 200 {object} utils.SuccessResponse
// @Failure 401 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /profile [get]
func (pc *ProfileController) GetProfile(c *fiber.Ctx) error {
	snapshot, err := pc.profileFor(c).Snapshot(c.UserContext())
	if err != nil {
		pc.Log.WithError(err).WithField("device_id", middleware.DeviceID(c)).Warn("Partial profile snapshot")
	}
	return utils.SuccessDegraded(c, fiber.StatusOK, snapshot, err != nil)
}

// UpdateMood godoc
// @Summary Set today's mood
// @Tags profile
// @Accept json
// @Produce json
// @Param input body UpdateMoodRequest true "Mood"
// @Success 200 {object} utils.SuccessResponse
// @Failure 400 {object} utils.ErrorResponse
// @Failure 422 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /profile/mood [put]
func (pc *ProfileController) UpdateMood(c *fiber.Ctx) error {
	var input UpdateMoodRequest
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	ctx := c.UserContext()
	p := pc.profileFor(c)
	mood, err := p.SetMood(ctx, input.Mood)
	if errors.Is(err, profile.ErrInvalidMood) {
		return utils.ValidationError(c, "Mood must be one of happy, neutral, sad")
	}
	degraded := pc.degraded(c, "mood", err)
	if err != nil && !degraded {
		return utils.InternalServerError(c, "Could not update mood")
	}

	streak, _ := p.Streak(ctx)
	return utils.SuccessDegraded(c, fiber.StatusOK, fiber.Map{
		"mood":         mood,
		"streak_count": streak,
	}, degraded)
}

// RecordActivity godoc
// @Summary Record the activity just opened
// @Tags profile
// @Accept json
// @Produce json
// @Param input body ActivityRequest true "Activity"
// @Success 200 {object} utils.SuccessResponse
// @Failure 400 {object} utils.ErrorResponse
// @Failure 422 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /profile/activity [post]
func (pc *ProfileController) RecordActivity(c *fiber.Ctx) error {
	var input ActivityRequest
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	ctx := c.UserContext()
	p := pc.profileFor(c)
	label, err := p.RecordActivity(ctx, input.Label)
	if errors.Is(err, profile.ErrEmptyActivity) {
		return utils.ValidationError(c, "Activity label must not be empty")
	}
	degraded := pc.degraded(c, "activity", err)
	if err != nil && !degraded {
		return utils.InternalServerError(c, "Could not record activity")
	}

	streak, _ := p.Streak(ctx)
	return utils.SuccessDegraded(c, fiber.StatusOK, fiber.Map{
		"last_activity": label,
		"streak_count":  streak,
	}, degraded)
}

// UpdateSleep godoc
// @Summary Report last night's sleep
// @Tags profile
// @Accept json
// @Produce json
// @Param input body SleepRequest true "Hours slept"
// @Success 200 {object} utils.SuccessResponse
// @Failure 400 {object} utils.ErrorResponse
// @Failure 422 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /profile/sleep [put]
func (pc *ProfileController) UpdateSleep(c *fiber.Ctx) error {
	var input SleepRequest
	if err := c.BodyParser(&input); err != nil || input.Hours == nil {
		return utils.BadRequest(c, "Body must be {\"hours\": <int>}")
	}

	err := pc.profileFor(c).SetSleepHours(c.UserContext(), *input.Hours)
	if errors.Is(err, profile.ErrInvalidSleepHours) {
		return utils.ValidationError(c, "Sleep hours must be between 0 and 24")
	}
	degraded := pc.degraded(c, "sleep", err)
	if err != nil && !degraded {
		return utils.InternalServerError(c, "Could not save sleep hours")
	}
	return utils.SuccessDegraded(c, fiber.StatusOK, fiber.Map{"sleep_hours": *input.Hours}, degraded)
}

// SaveJournal godoc
// @Summary Save a journal entry
// @Description Replaces the latest journal entry of the device.
// @Tags profile
// @Accept json
// @Produce json
// @Param input body JournalRequest true "Entry"
// @Success 201 {object} utils.SuccessResponse
// @Failure 400 {object} utils.ErrorResponse
// @Failure 422 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /profile/journal [post]
func (pc *ProfileController) SaveJournal(c *fiber.Ctx) error {
	var input JournalRequest
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	entry, err := pc.profileFor(c).SaveJournal(c.UserContext(), input.Text)
	if errors.Is(err, profile.ErrEmptyJournal) {
		return utils.ValidationError(c, "Journal entry can't be empty")
	}
	degraded := pc.degraded(c, "journal", err)
	if err != nil && !degraded {
		return utils.InternalServerError(c, "Could not save journal entry")
	}
	return utils.SuccessDegraded(c, fiber.StatusCreated, entry, degraded)
}
