package handlers

import (
	"strconv"

	fiber "github.com/gofiber/fiber/v2"

	"github.com/strataworks/cumulus/internal/db/models"
	"github.com/strataworks/cumulus/internal/db/repos"
	"github.com/strataworks/cumulus/internal/services"
	"github.com/strataworks/cumulus/pkg/api/v1/middleware"
)

// StageGroupHandler handles HTTP requests for stage groups and their input files
type StageGroupHandler struct {
	stageGroupRepo *repos.StageGroupRepository
}

// NewStageGroupHandler creates a new stage group handler instance
func NewStageGroupHandler(stageGroupRepo *repos.StageGroupRepository) *StageGroupHandler {
	return &StageGroupHandler{stageGroupRepo: stageGroupRepo}
}

// DDSInputFileRequest is the body for attaching a document store input file
type DDSInputFileRequest struct {
	ProjectID       string `json:"project_id"`
	FileID          string `json:"file_id"`
	DestinationPath string `json:"destination_path"`
	CredentialID    uint   `json:"credential_id"`
	SequenceGroup   uint   `json:"sequence_group"`
	Sequence        uint   `json:"sequence"`
}

// URLInputFileRequest is the body for attaching a URL input file
type URLInputFileRequest struct {
	URL             string `json:"url"`
	DestinationPath string `json:"destination_path"`
	SequenceGroup   uint   `json:"sequence_group"`
	Sequence        uint   `json:"sequence"`
}

func parseStageGroupID(c *fiber.Ctx) (uint, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}

// ListStageGroups handles the request to list the caller's stage groups
func (h *StageGroupHandler) ListStageGroups(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	groups, err := h.stageGroupRepo.List(c.Context(), middleware.EffectiveOwnerID(c), getPaginationOptions(page))
	if err != nil {
		return serviceError(c, err, "")
	}
	return c.JSON(groups)
}

// GetStageGroup handles the request to get one stage group with its files
func (h *StageGroupHandler) GetStageGroup(c *fiber.Ctx) error {
	id, err := parseStageGroupID(c)
	if err != nil {
		return errorDetail(c, fiber.StatusBadRequest, "Invalid stage group id.")
	}

	group, err := h.stageGroupRepo.GetByID(c.Context(), middleware.EffectiveOwnerID(c), id)
	if err != nil {
		return serviceError(c, err, "")
	}
	return c.JSON(group)
}

// CreateStageGroup handles the request to create an empty stage group
func (h *StageGroupHandler) CreateStageGroup(c *fiber.Ctx) error {
	group := &models.JobFileStageGroup{OwnerID: middleware.OwnerID(c)}
	if err := h.stageGroupRepo.Create(c.Context(), group); err != nil {
		return serviceError(c, err, "")
	}
	return c.Status(fiber.StatusCreated).JSON(group)
}

// GetStageManifest handles the request to resolve a stage group into its
// ordered staging manifest
func (h *StageGroupHandler) GetStageManifest(c *fiber.Ctx) error {
	id, err := parseStageGroupID(c)
	if err != nil {
		return errorDetail(c, fiber.StatusBadRequest, "Invalid stage group id.")
	}

	group, err := h.stageGroupRepo.GetByID(c.Context(), middleware.EffectiveOwnerID(c), id)
	if err != nil {
		return serviceError(c, err, "")
	}

	manifest, err := services.ResolveStageManifest(group)
	if err != nil {
		return serviceError(c, err, "")
	}
	return c.JSON(manifest)
}

// AddDDSFile handles the request to attach a document store file to a stage group
func (h *StageGroupHandler) AddDDSFile(c *fiber.Ctx) error {
	id, err := parseStageGroupID(c)
	if err != nil {
		return errorDetail(c, fiber.StatusBadRequest, "Invalid stage group id.")
	}

	// Ownership check before attaching
	if _, err := h.stageGroupRepo.GetByID(c.Context(), middleware.EffectiveOwnerID(c), id); err != nil {
		return serviceError(c, err, "")
	}

	var req DDSInputFileRequest
	if err := c.BodyParser(&req); err != nil {
		return errorDetail(c, fiber.StatusBadRequest, "Invalid request body.")
	}

	file := &models.JobDDSInputFile{
		StageGroupID:    id,
		ProjectID:       req.ProjectID,
		FileID:          req.FileID,
		DestinationPath: req.DestinationPath,
		CredentialID:    req.CredentialID,
		SequenceGroup:   req.SequenceGroup,
		Sequence:        req.Sequence,
	}
	if err := h.stageGroupRepo.AddDDSFile(c.Context(), file); err != nil {
		return serviceError(c, err, "")
	}
	return c.Status(fiber.StatusCreated).JSON(file)
}

// AddURLFile handles the request to attach a URL file to a stage group
func (h *StageGroupHandler) AddURLFile(c *fiber.Ctx) error {
	id, err := parseStageGroupID(c)
	if err != nil {
		return errorDetail(c, fiber.StatusBadRequest, "Invalid stage group id.")
	}

	if _, err := h.stageGroupRepo.GetByID(c.Context(), middleware.EffectiveOwnerID(c), id); err != nil {
		return serviceError(c, err, "")
	}

	var req URLInputFileRequest
	if err := c.BodyParser(&req); err != nil {
		return errorDetail(c, fiber.StatusBadRequest, "Invalid request body.")
	}

	file := &models.JobURLInputFile{
		StageGroupID:    id,
		URL:             req.URL,
		DestinationPath: req.DestinationPath,
		SequenceGroup:   req.SequenceGroup,
		Sequence:        req.Sequence,
	}
	if err := h.stageGroupRepo.AddURLFile(c.Context(), file); err != nil {
		return serviceError(c, err, "")
	}
	return c.Status(fiber.StatusCreated).JSON(file)
}
