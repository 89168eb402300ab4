package handlers

import (
	"strconv"

	fiber "github.com/gofiber/fiber/v2"

	"github.com/strataworks/cumulus/internal/db/models"
	"github.com/strataworks/cumulus/internal/services"
	"github.com/strataworks/cumulus/pkg/api/v1/middleware"
)

// JobHandler handles HTTP requests for job operations
type JobHandler struct {
	jobService *services.Job
}

// NewJobHandler creates a new job handler instance
func NewJobHandler(jobService *services.Job) *JobHandler {
	return &JobHandler{jobService: jobService}
}

// AuthorizeRequest is the body for the authorize action
type AuthorizeRequest struct {
	Token string `json:"token"`
}

// ForceStateRequest is the body for the admin state override
type ForceStateRequest struct {
	State models.JobState `json:"state"`
	Step  models.JobStep  `json:"step"`
}

// JobErrorRequest is the body for recording a job error
type JobErrorRequest struct {
	Content string `json:"content"`
}

func parseJobID(c *fiber.Ctx) (uint, error) {
	jobID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(jobID), nil
}

// ListJobs handles the request to list the caller's jobs.
// Admin users see every job.
func (h *JobHandler) ListJobs(c *fiber.Ctx) error {
	var state = models.JobStateUnknown

	if stateStr := c.Query("state"); stateStr != "" {
		var err error
		state, err = models.ParseJobState(stateStr)
		if err != nil {
			return errorDetail(c, fiber.StatusBadRequest, "Invalid job state.")
		}
	}

	page := c.QueryInt("page", 1)
	jobs, err := h.jobService.ListJobs(c.Context(), state, middleware.EffectiveOwnerID(c), getPaginationOptions(page))
	if err != nil {
		return serviceError(c, err, "")
	}
	return c.JSON(jobs)
}

// GetJob handles the request to get one of the caller's jobs
func (h *JobHandler) GetJob(c *fiber.Ctx) error {
	jobID, err := parseJobID(c)
	if err != nil {
		return errorDetail(c, fiber.StatusBadRequest, DetailInvalidJobID)
	}

	job, err := h.jobService.GetJob(c.Context(), middleware.EffectiveOwnerID(c), jobID)
	if err != nil {
		return serviceError(c, err, "")
	}
	return c.JSON(job)
}

// StartJob handles the start action
func (h *JobHandler) StartJob(c *fiber.Ctx) error {
	jobID, err := parseJobID(c)
	if err != nil {
		return errorDetail(c, fiber.StatusBadRequest, DetailInvalidJobID)
	}

	job, err := h.jobService.StartJob(c.Context(), middleware.EffectiveOwnerID(c), jobID)
	if err != nil {
		return serviceError(c, err, DetailStateForStart)
	}
	return c.JSON(job)
}

// CancelJob handles the cancel action
func (h *JobHandler) CancelJob(c *fiber.Ctx) error {
	jobID, err := parseJobID(c)
	if err != nil {
		return errorDetail(c, fiber.StatusBadRequest, DetailInvalidJobID)
	}

	job, err := h.jobService.CancelJob(c.Context(), middleware.EffectiveOwnerID(c), jobID)
	if err != nil {
		return serviceError(c, err, DetailStateForCancel)
	}
	return c.JSON(job)
}

// RestartJob handles the restart action
func (h *JobHandler) RestartJob(c *fiber.Ctx) error {
	jobID, err := parseJobID(c)
	if err != nil {
		return errorDetail(c, fiber.StatusBadRequest, DetailInvalidJobID)
	}

	job, err := h.jobService.RestartJob(c.Context(), middleware.EffectiveOwnerID(c), jobID)
	if err != nil {
		return serviceError(c, err, DetailStateForRestart)
	}
	return c.JSON(job)
}

// AuthorizeJob handles the authorize action: consumes a one-time run token
func (h *JobHandler) AuthorizeJob(c *fiber.Ctx) error {
	jobID, err := parseJobID(c)
	if err != nil {
		return errorDetail(c, fiber.StatusBadRequest, DetailInvalidJobID)
	}

	var req AuthorizeRequest
	if err := c.BodyParser(&req); err != nil && len(c.Body()) > 0 {
		return errorDetail(c, fiber.StatusBadRequest, "Invalid request body.")
	}

	job, err := h.jobService.AuthorizeJob(c.Context(), middleware.EffectiveOwnerID(c), jobID, req.Token)
	if err != nil {
		return serviceError(c, err, DetailStateMustBeNew)
	}
	return c.JSON(job)
}

// ListJobErrors handles the request to list a job's error records
func (h *JobHandler) ListJobErrors(c *fiber.Ctx) error {
	jobID, err := parseJobID(c)
	if err != nil {
		return errorDetail(c, fiber.StatusBadRequest, DetailInvalidJobID)
	}

	jobErrors, err := h.jobService.ListJobErrors(c.Context(), middleware.EffectiveOwnerID(c), jobID)
	if err != nil {
		return serviceError(c, err, "")
	}
	return c.JSON(jobErrors)
}

// ForceState handles the admin-only direct state/step assignment. This
// bypasses the lifecycle guards entirely; it is the operational override.
func (h *JobHandler) ForceState(c *fiber.Ctx) error {
	jobID, err := parseJobID(c)
	if err != nil {
		return errorDetail(c, fiber.StatusBadRequest, DetailInvalidJobID)
	}

	var req ForceStateRequest
	if err := c.BodyParser(&req); err != nil {
		return errorDetail(c, fiber.StatusBadRequest, "Invalid request body.")
	}

	job, err := h.jobService.ForceStateStep(c.Context(), jobID, req.State, req.Step)
	if err != nil {
		return serviceError(c, err, "Invalid state or step.")
	}
	return c.JSON(job)
}

// CreateJobError handles the admin-only request to append a job error record
func (h *JobHandler) CreateJobError(c *fiber.Ctx) error {
	jobID, err := parseJobID(c)
	if err != nil {
		return errorDetail(c, fiber.StatusBadRequest, DetailInvalidJobID)
	}

	var req JobErrorRequest
	if err := c.BodyParser(&req); err != nil {
		return errorDetail(c, fiber.StatusBadRequest, "Invalid request body.")
	}

	jobError, err := h.jobService.RecordJobError(c.Context(), jobID, req.Content)
	if err != nil {
		return serviceError(c, err, "")
	}
	return c.Status(fiber.StatusCreated).JSON(jobError)
}
