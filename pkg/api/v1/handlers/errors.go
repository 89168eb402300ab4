// Package handlers provides HTTP request handling
package handlers

import (
	"errors"

	fiber "github.com/gofiber/fiber/v2"

	"github.com/strataworks/cumulus/internal/db/repos"
	"github.com/strataworks/cumulus/internal/services"
)

// User-facing detail messages
const (
	DetailMissingToken     = "Missing required token field."
	DetailInvalidToken     = "This is not a valid token."
	DetailTokenAlreadyUsed = "This token has already been used."
	DetailStateMustBeNew   = "Job state must be NEW."
	DetailStateForRestart  = "Job state must be ERROR or CANCEL."
	DetailStateForStart    = "Job state must be NEW or AUTHORIZED."
	DetailStateForCancel   = "Job cannot be canceled from its current state."
	DetailInvalidJobID     = "Invalid job id."
	DetailNotFound         = "Not found."
)

// Detail is the error response body: a single descriptive message
type Detail struct {
	Detail string `json:"detail"`
}

// errorDetail renders an error response with the given status and message
func errorDetail(c *fiber.Ctx, status int, detail string) error {
	return c.Status(status).JSON(Detail{Detail: detail})
}

// serviceError maps a core service error onto the API status semantics:
// validation and state-conflict errors are 400 with a descriptive detail,
// not-found errors on user-scoped resources are 404, everything else 500.
func serviceError(c *fiber.Ctx, err error, invalidStateDetail string) error {
	switch {
	case errors.Is(err, services.ErrMissingToken):
		return errorDetail(c, fiber.StatusBadRequest, DetailMissingToken)
	case errors.Is(err, services.ErrInvalidToken):
		return errorDetail(c, fiber.StatusBadRequest, DetailInvalidToken)
	case errors.Is(err, services.ErrTokenAlreadyUsed):
		return errorDetail(c, fiber.StatusBadRequest, DetailTokenAlreadyUsed)
	case errors.Is(err, services.ErrInvalidJobState):
		return errorDetail(c, fiber.StatusBadRequest, invalidStateDetail)
	case errors.Is(err, services.ErrMissingJobOrder),
		errors.Is(err, services.ErrDuplicateSequence),
		errors.Is(err, repos.ErrDuplicateFileSequence):
		return errorDetail(c, fiber.StatusBadRequest, err.Error())
	case errors.Is(err, repos.ErrJobNotFound),
		errors.Is(err, repos.ErrAnswerSetNotFound),
		errors.Is(err, repos.ErrStageGroupNotFound),
		errors.Is(err, repos.ErrQuestionnaireNotFound):
		return errorDetail(c, fiber.StatusNotFound, DetailNotFound)
	default:
		return errorDetail(c, fiber.StatusInternalServerError, err.Error())
	}
}
