package main

import (
	"strconv"

	fiber "github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/joho/godotenv"

	"github.com/strataworks/cumulus/config"
	"github.com/strataworks/cumulus/internal/db"
	"github.com/strataworks/cumulus/internal/db/repos"
	"github.com/strataworks/cumulus/internal/logger"
	"github.com/strataworks/cumulus/internal/mailer"
	"github.com/strataworks/cumulus/internal/orchestrator"
	"github.com/strataworks/cumulus/internal/services"
	"github.com/strataworks/cumulus/pkg/api/v1/handlers"
	"github.com/strataworks/cumulus/pkg/api/v1/routes"
)

func main() {
	// .env is optional; environment variables win either way
	_ = godotenv.Load()

	logger.InitializeAndConfigure()

	dbPort, err := strconv.Atoi(config.GetEnv("DB_PORT", "5432"))
	if err != nil {
		logger.Fatalf("Invalid DB_PORT: %v", err)
	}
	database, err := db.New(db.Options{
		Host:     config.GetEnv("DB_HOST", db.DefaultHost),
		User:     config.GetEnv("DB_USER", db.DefaultUser),
		Password: config.GetEnv("DB_PASSWORD", db.DefaultPassword),
		DBName:   config.GetEnv("DB_NAME", db.DefaultDBName),
		Port:     dbPort,
	})
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}

	orchestratorClient, err := orchestrator.NewClient(&orchestrator.Options{
		BaseURL: config.GetEnv("ORCHESTRATOR_URL", "http://localhost:8081"),
	})
	if err != nil {
		logger.Fatalf("Failed to create orchestrator client: %v", err)
	}

	// Repositories
	jobRepo := repos.NewJobRepository(database)
	tokenRepo := repos.NewTokenRepository(database)
	userRepo := repos.NewUserRepository(database)
	shareRepo := repos.NewShareGroupRepository(database)
	strategyRepo := repos.NewVMStrategyRepository(database)
	jobErrorRepo := repos.NewJobErrorRepository(database)
	answerSetRepo := repos.NewAnswerSetRepository(database)
	questionnaireRepo := repos.NewQuestionnaireRepository(database)
	stageGroupRepo := repos.NewStageGroupRepository(database)
	emailRepo := repos.NewEmailRepository(database)

	// Services
	sender := mailer.NewSMTPSender(config.GetEnv("SMTP_ADDR", "localhost:25"))
	jobMailer := mailer.NewJobMailer(emailRepo, sender, config.GetEnv("SENDER_EMAIL", mailer.DefaultSenderEmail), mailer.EscapeNone)
	jobService := services.NewJobService(database, jobRepo, tokenRepo, userRepo, shareRepo, strategyRepo, jobErrorRepo, orchestratorClient, jobMailer)
	jobFactory := services.NewJobFactory(database, answerSetRepo, questionnaireRepo, stageGroupRepo, jobRepo)

	app := fiber.New(fiber.Config{
		ErrorHandler: customErrorHandler,
	})
	app.Use(fiberlogger.New())

	routes.RegisterRoutes(
		app,
		userRepo,
		handlers.NewJobHandler(jobService),
		handlers.NewAnswerSetHandler(answerSetRepo, jobFactory),
		handlers.NewStageGroupHandler(stageGroupRepo),
		handlers.NewQuestionnaireHandler(questionnaireRepo),
		handlers.NewTokenHandler(tokenRepo),
	)

	port := config.GetEnv("PORT", routes.DefaultPort)
	logger.Infof("Listening on :%s", port)
	logger.Fatal(app.Listen(":" + port))
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	return c.Status(code).JSON(fiber.Map{
		"detail": err.Error(),
	})
}
