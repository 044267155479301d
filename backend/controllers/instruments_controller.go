package controllers

import (
	"errors"

	"vritti/backend/assessment"
	"vritti/backend/utils"

	"github.com/gofiber/fiber/v2"
)

type InstrumentsController struct {
	Catalog *assessment.Catalog
}

func NewInstrumentsController(catalog *assessment.Catalog) *InstrumentsController {
	return &InstrumentsController{Catalog: catalog}
}

type ScoreRequest struct {
	Answers []int `json:"answers" example:"0,1,1,0,2,1,0,1,0"`
}

// ListInstruments godoc
// @Summary List screening questionnaires
// @Tags instruments
// @Produce json
// @Success 200 {object} utils.SuccessResponse
// @Router /instruments [get]
func (ic *InstrumentsController) ListInstruments(c *fiber.Ctx) error {
	var result []fiber.Map
	for _, inst := range ic.Catalog.All() {
		result = append(result, fiber.Map{
			"id":        inst.ID,
			"name":      inst.Name,
			"questions": inst.Len(),
			"max_score": inst.MaxScore(),
		})
	}
	return utils.Success(c, fiber.StatusOK, result)
}

// GetInstrument godoc
// @Summary Get a questionnaire with its questions, options and bands
// @Tags instruments
// @Produce json
// @Param id path string true "Instrument id" example(phq9)
// @Success 200 {object} utils.SuccessResponse
// @Failure 404 {object} utils.ErrorResponse
// @Router /instruments/{id} [get]
func (ic *InstrumentsController) GetInstrument(c *fiber.Ctx) error {
	inst, err := ic.Catalog.Lookup(c.Params("id"))
	if err != nil {
		return utils.NotFound(c, "Instrument not found")
	}
	return utils.Success(c, fiber.StatusOK, inst)
}

// ScoreInstrument godoc
// @Summary Score a full answer sheet
// @Description Stateless scoring. Nothing is stored.
// @Tags instruments
// @Accept json
// @Produce json
// @Param id path string true "Instrument id" example(gad7)
// @Param input body ScoreRequest true "Answers in question order"
// @Success 200 {object} utils.SuccessResponse
// @Failure 400 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Failure 422 {object} utils.ErrorResponse
// @Router /instruments/{id}/score [post]
func (ic *InstrumentsController) ScoreInstrument(c *fiber.Ctx) error {
	inst, err := ic.Catalog.Lookup(c.Params("id"))
	if err != nil {
		return utils.NotFound(c, "Instrument not found")
	}

	var input ScoreRequest
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	res, err := assessment.Score(inst, input.Answers)
	switch {
	case errors.Is(err, assessment.ErrAnswerCount):
		return utils.ValidationError(c, err.Error(), fiber.Map{"expected": inst.Len()})
	case errors.Is(err, assessment.ErrInvalidAnswer):
		return utils.ValidationError(c, err.Error(), fiber.Map{"max_answer": inst.MaxAnswer()})
	case err != nil:
		return utils.InternalServerError(c, "Could not score answers")
	}
	return utils.Success(c, fiber.StatusOK, res)
}
