package handlers

import (
	"strconv"

	fiber "github.com/gofiber/fiber/v2"

	"github.com/strataworks/cumulus/internal/db/models"
	"github.com/strataworks/cumulus/internal/db/repos"
	"github.com/strataworks/cumulus/internal/services"
	"github.com/strataworks/cumulus/pkg/api/v1/middleware"
)

// AnswerSetHandler handles HTTP requests for job answer sets
type AnswerSetHandler struct {
	answerSetRepo *repos.AnswerSetRepository
	jobFactory    *services.JobFactory
}

// NewAnswerSetHandler creates a new answer set handler instance
func NewAnswerSetHandler(answerSetRepo *repos.AnswerSetRepository, jobFactory *services.JobFactory) *AnswerSetHandler {
	return &AnswerSetHandler{
		answerSetRepo: answerSetRepo,
		jobFactory:    jobFactory,
	}
}

// AnswerSetRequest is the body for creating an answer set
type AnswerSetRequest struct {
	QuestionnaireID uint   `json:"questionnaire_id"`
	JobName         string `json:"job_name"`
	FundCode        string `json:"fund_code"`
	UserJobOrder    string `json:"user_job_order"`
	StageGroupID    uint   `json:"stage_group_id"`
}

// ListAnswerSets handles the request to list the caller's answer sets
func (h *AnswerSetHandler) ListAnswerSets(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	answerSets, err := h.answerSetRepo.List(c.Context(), middleware.EffectiveOwnerID(c), getPaginationOptions(page))
	if err != nil {
		return serviceError(c, err, "")
	}
	return c.JSON(answerSets)
}

// CreateAnswerSet handles the request to create an answer set
func (h *AnswerSetHandler) CreateAnswerSet(c *fiber.Ctx) error {
	var req AnswerSetRequest
	if err := c.BodyParser(&req); err != nil {
		return errorDetail(c, fiber.StatusBadRequest, "Invalid request body.")
	}
	if req.QuestionnaireID == 0 {
		return errorDetail(c, fiber.StatusBadRequest, "Questionnaire is required.")
	}
	if req.JobName == "" {
		return errorDetail(c, fiber.StatusBadRequest, "Job name is required.")
	}

	answerSet := &models.JobAnswerSet{
		OwnerID:         middleware.OwnerID(c),
		QuestionnaireID: req.QuestionnaireID,
		JobName:         req.JobName,
		FundCode:        req.FundCode,
		UserJobOrder:    req.UserJobOrder,
		StageGroupID:    req.StageGroupID,
	}
	if err := h.answerSetRepo.Create(c.Context(), answerSet); err != nil {
		return serviceError(c, err, "")
	}
	return c.Status(fiber.StatusCreated).JSON(answerSet)
}

// CreateJob handles the create-job action: consumes the answer set and
// produces a job
func (h *AnswerSetHandler) CreateJob(c *fiber.Ctx) error {
	answerSetID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return errorDetail(c, fiber.StatusBadRequest, "Invalid answer set id.")
	}

	job, err := h.jobFactory.CreateJob(c.Context(), middleware.EffectiveOwnerID(c), uint(answerSetID))
	if err != nil {
		return serviceError(c, err, "")
	}
	return c.Status(fiber.StatusCreated).JSON(job)
}
