// Package routes defines the API routes and URL structure
package routes

import (
	fiber "github.com/gofiber/fiber/v2"

	"github.com/strataworks/cumulus/internal/db/repos"
	"github.com/strataworks/cumulus/pkg/api/v1/handlers"
	"github.com/strataworks/cumulus/pkg/api/v1/middleware"
)

// API base configuration
const (
	// DefaultPort is the default port for the API
	DefaultPort = "8080"
	// APIv1Prefix is the prefix for all API endpoints
	APIv1Prefix = "/api/v1"
)

// RegisterRoutes configures all the v1 routes
//
// NOTE: route ordering is important because routes will try and match in the
// order they are registered.
func RegisterRoutes(
	app *fiber.App,
	userRepo *repos.UserRepository,
	jobHandler *handlers.JobHandler,
	answerSetHandler *handlers.AnswerSetHandler,
	stageGroupHandler *handlers.StageGroupHandler,
	questionnaireHandler *handlers.QuestionnaireHandler,
	tokenHandler *handlers.TokenHandler,
) {
	// Health check
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "healthy"})
	})

	// API v1 routes; every endpoint requires a resolved identity
	v1 := app.Group(APIv1Prefix, middleware.Identity(userRepo))

	// Job endpoints
	jobs := v1.Group("/jobs")
	jobs.Get("/", jobHandler.ListJobs)
	jobs.Get("/:id", jobHandler.GetJob)
	jobs.Get("/:id/errors", jobHandler.ListJobErrors)
	jobs.Post("/:id/start", jobHandler.StartJob)
	jobs.Post("/:id/cancel", jobHandler.CancelJob)
	jobs.Post("/:id/restart", jobHandler.RestartJob)
	jobs.Post("/:id/authorize", jobHandler.AuthorizeJob)

	// Answer set endpoints
	answerSets := v1.Group("/job-answer-sets")
	answerSets.Get("/", answerSetHandler.ListAnswerSets)
	answerSets.Post("/", answerSetHandler.CreateAnswerSet)
	answerSets.Post("/:id/create-job", answerSetHandler.CreateJob)

	// Stage group endpoints
	stageGroups := v1.Group("/job-file-stage-groups")
	stageGroups.Get("/", stageGroupHandler.ListStageGroups)
	stageGroups.Get("/:id", stageGroupHandler.GetStageGroup)
	stageGroups.Get("/:id/manifest", stageGroupHandler.GetStageManifest)
	stageGroups.Post("/", stageGroupHandler.CreateStageGroup)
	stageGroups.Post("/:id/dds-files", stageGroupHandler.AddDDSFile)
	stageGroups.Post("/:id/url-files", stageGroupHandler.AddURLFile)

	// Questionnaire endpoints
	questionnaires := v1.Group("/job-questionnaires")
	questionnaires.Get("/", questionnaireHandler.ListQuestionnaires)
	questionnaires.Get("/:id", questionnaireHandler.GetQuestionnaire)

	// Admin endpoints
	admin := v1.Group("/admin", middleware.RequireAdmin())
	admin.Get("/jobs", jobHandler.ListJobs)
	admin.Put("/jobs/:id/state", jobHandler.ForceState)
	admin.Post("/jobs/:id/errors", jobHandler.CreateJobError)
	admin.Get("/job-tokens", tokenHandler.ListTokens)
	admin.Post("/job-tokens", tokenHandler.CreateToken)
	admin.Post("/job-questionnaires", questionnaireHandler.CreateQuestionnaire)
}
