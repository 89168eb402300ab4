package handlers

import (
	"strconv"

	fiber "github.com/gofiber/fiber/v2"

	"github.com/strataworks/cumulus/internal/db/models"
	"github.com/strataworks/cumulus/internal/db/repos"
)

// QuestionnaireHandler handles HTTP requests for job questionnaires
type QuestionnaireHandler struct {
	questionnaireRepo *repos.QuestionnaireRepository
}

// NewQuestionnaireHandler creates a new questionnaire handler instance
func NewQuestionnaireHandler(questionnaireRepo *repos.QuestionnaireRepository) *QuestionnaireHandler {
	return &QuestionnaireHandler{questionnaireRepo: questionnaireRepo}
}

// QuestionnaireRequest is the body for creating a questionnaire (admin-only)
type QuestionnaireRequest struct {
	Name              string `json:"name"`
	Description       string `json:"description"`
	WorkflowVersionID uint   `json:"workflow_version_id"`
	SystemJobOrder    string `json:"system_job_order"`
	VMStrategyID      uint   `json:"vm_strategy_id"`
	ShareGroupID      uint   `json:"share_group_id"`
}

// ListQuestionnaires handles the request to list questionnaires.
// Questionnaires are readable by every authenticated user.
func (h *QuestionnaireHandler) ListQuestionnaires(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	questionnaires, err := h.questionnaireRepo.List(c.Context(), getPaginationOptions(page))
	if err != nil {
		return serviceError(c, err, "")
	}
	return c.JSON(questionnaires)
}

// GetQuestionnaire handles the request to get one questionnaire
func (h *QuestionnaireHandler) GetQuestionnaire(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return errorDetail(c, fiber.StatusBadRequest, "Invalid questionnaire id.")
	}

	questionnaire, err := h.questionnaireRepo.GetByID(c.Context(), uint(id))
	if err != nil {
		return serviceError(c, err, "")
	}
	return c.JSON(questionnaire)
}

// CreateQuestionnaire handles the admin-only request to create a questionnaire
func (h *QuestionnaireHandler) CreateQuestionnaire(c *fiber.Ctx) error {
	var req QuestionnaireRequest
	if err := c.BodyParser(&req); err != nil {
		return errorDetail(c, fiber.StatusBadRequest, "Invalid request body.")
	}
	if req.Name == "" {
		return errorDetail(c, fiber.StatusBadRequest, "Questionnaire name is required.")
	}

	questionnaire := &models.JobQuestionnaire{
		Name:              req.Name,
		Description:       req.Description,
		WorkflowVersionID: req.WorkflowVersionID,
		SystemJobOrder:    req.SystemJobOrder,
		VMStrategyID:      req.VMStrategyID,
		ShareGroupID:      req.ShareGroupID,
	}
	if err := h.questionnaireRepo.Create(c.Context(), questionnaire); err != nil {
		return serviceError(c, err, "")
	}
	return c.Status(fiber.StatusCreated).JSON(questionnaire)
}
