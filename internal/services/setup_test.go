package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/strataworks/cumulus/internal/db/models"
	"github.com/strataworks/cumulus/internal/db/repos"
	"github.com/strataworks/cumulus/internal/mailer"
	"github.com/strataworks/cumulus/internal/orchestrator"
)

// TestSetup sets up an in-memory database, repositories and services for testing
type TestSetup struct {
	DB           *gorm.DB
	JobRepo      *repos.JobRepository
	TokenRepo    *repos.TokenRepository
	AnswerRepo   *repos.AnswerSetRepository
	QuestRepo    *repos.QuestionnaireRepository
	StageRepo    *repos.StageGroupRepository
	UserRepo     *repos.UserRepository
	ShareRepo    *repos.ShareGroupRepository
	StrategyRepo *repos.VMStrategyRepository
	JobErrorRepo *repos.JobErrorRepository
	EmailRepo    *repos.EmailRepository
	Orchestrator *orchestrator.MockClient
	Sender       *mailer.MockSender
	JobService   *Job
	Factory      *JobFactory
	ctx          context.Context
	t            *testing.T
}

// NewTestSetup creates a new test setup with in-memory database
func NewTestSetup(t *testing.T) *TestSetup {
	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared&_json=1"), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
		Logger:                                   logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err, "Failed to create in-memory database")

	err = db.AutoMigrate(
		&models.User{},
		&models.Job{},
		&models.JobToken{},
		&models.JobQuestionnaire{},
		&models.JobAnswerSet{},
		&models.JobFileStageGroup{},
		&models.JobDDSInputFile{},
		&models.JobURLInputFile{},
		&models.JobError{},
		&models.JobOutputDir{},
		&models.ShareGroup{},
		&models.VMStrategy{},
		&models.EmailTemplate{},
		&models.EmailMessage{},
	)
	require.NoError(t, err, "Failed to run migrations")

	jobRepo := repos.NewJobRepository(db)
	tokenRepo := repos.NewTokenRepository(db)
	answerRepo := repos.NewAnswerSetRepository(db)
	questRepo := repos.NewQuestionnaireRepository(db)
	stageRepo := repos.NewStageGroupRepository(db)
	userRepo := repos.NewUserRepository(db)
	shareRepo := repos.NewShareGroupRepository(db)
	strategyRepo := repos.NewVMStrategyRepository(db)
	jobErrorRepo := repos.NewJobErrorRepository(db)
	emailRepo := repos.NewEmailRepository(db)

	mockClient := orchestrator.NewMockClient()
	mockSender := mailer.NewMockSender()
	jobMailer := mailer.NewJobMailer(emailRepo, mockSender, "noreply@example.com", mailer.EscapeNone)

	jobService := NewJobService(db, jobRepo, tokenRepo, userRepo, shareRepo, strategyRepo, jobErrorRepo, mockClient, jobMailer)
	factory := NewJobFactory(db, answerRepo, questRepo, stageRepo, jobRepo)

	return &TestSetup{
		DB:           db,
		JobRepo:      jobRepo,
		TokenRepo:    tokenRepo,
		AnswerRepo:   answerRepo,
		QuestRepo:    questRepo,
		StageRepo:    stageRepo,
		UserRepo:     userRepo,
		ShareRepo:    shareRepo,
		StrategyRepo: strategyRepo,
		JobErrorRepo: jobErrorRepo,
		EmailRepo:    emailRepo,
		Orchestrator: mockClient,
		Sender:       mockSender,
		JobService:   jobService,
		Factory:      factory,
		ctx:          context.Background(),
		t:            t,
	}
}

// CleanUp cleans up resources after test
func (ts *TestSetup) CleanUp() {
	sqlDB, err := ts.DB.DB()
	if err == nil && sqlDB != nil {
		_ = sqlDB.Close()
	}
}

// seedReferences creates the user, share group and VM strategy a job needs
func (ts *TestSetup) seedReferences(ownerID uint) {
	user := &models.User{
		Model:    gorm.Model{ID: ownerID},
		Username: "owner",
		Email:    "owner@example.com",
		Role:     models.UserRoleUser,
	}
	require.NoError(ts.t, ts.UserRepo.CreateUser(ts.ctx, user))

	share := &models.ShareGroup{
		Model: gorm.Model{ID: 1},
		Name:  "informatics",
		Email: "informatics@example.com",
	}
	require.NoError(ts.t, ts.ShareRepo.Create(ts.ctx, share))

	strategy := &models.VMStrategy{
		Model:            gorm.Model{ID: 1},
		Name:             "default",
		RuntimeKind:      models.RuntimeKindOpenStack,
		VMFlavor:         "m1.large",
		VMProjectName:    "cumulus-compute",
		VolumeSizeBaseGB: 100,
	}
	require.NoError(ts.t, ts.StrategyRepo.Create(ts.ctx, strategy))
}

// seedTemplates creates every notification template the mailer can render
func (ts *TestSetup) seedTemplates() {
	for _, name := range []string{
		mailer.TemplateJobRunningUser,
		mailer.TemplateJobCancelUser,
		mailer.TemplateJobFinishedUser,
		mailer.TemplateJobFinishedShare,
		mailer.TemplateJobErrorUser,
	} {
		template := &models.EmailTemplate{
			Name:            name,
			SubjectTemplate: "[" + name + "] {{.Name}}",
			BodyTemplate:    "Job {{.Name}} ({{.ID}})",
		}
		require.NoError(ts.t, ts.EmailRepo.CreateTemplate(ts.ctx, template))
	}
}

// createJob persists a job directly in the given state
func (ts *TestSetup) createJob(ownerID uint, state models.JobState) *models.Job {
	job := &models.Job{
		Name:              "exome-run",
		OwnerID:           ownerID,
		WorkflowVersionID: 1,
		JobOrder:          `{"threads":4}`,
		VMStrategyID:      1,
		ShareGroupID:      1,
		State:             state,
	}
	require.NoError(ts.t, ts.JobRepo.Create(ts.ctx, job))
	return job
}
