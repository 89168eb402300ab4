package repos

import (
	"context"
	"crypto/rand"
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/strataworks/cumulus/internal/db/models"
)

// DBRepositoryTestSuite provides a base test suite for repository tests
type DBRepositoryTestSuite struct {
	suite.Suite
	db             *gorm.DB
	ctx            context.Context
	jobRepo        *JobRepository
	tokenRepo      *TokenRepository
	answerSetRepo  *AnswerSetRepository
	stageGroupRepo *StageGroupRepository
	questRepo      *QuestionnaireRepository
	jobErrorRepo   *JobErrorRepository
	emailRepo      *EmailRepository
	userRepo       *UserRepository
	shareGroupRepo *ShareGroupRepository
	vmStrategyRepo *VMStrategyRepository
}

// randomOwnerID creates a random owner ID using crypto/rand
func (s *DBRepositoryTestSuite) randomOwnerID() uint {
	n, err := rand.Int(rand.Reader, big.NewInt(1000))
	s.Require().NoError(err, "Failed to generate random owner ID")
	return uint(n.Uint64() + 1) // +1 to avoid 0
}

func (s *DBRepositoryTestSuite) SetupTest() {
	// Create new in-memory database with JSON support
	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared&_json=1"), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
		DryRun:                                   false,
		Logger:                                   logger.Default.LogMode(logger.Silent),
	})
	require.NoError(s.T(), err, "Failed to create in-memory database")

	// Run migrations
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
		&models.Workflow{},
		&models.WorkflowVersion{},
		&models.EmailTemplate{},
		&models.EmailMessage{},
	)
	require.NoError(s.T(), err, "Failed to run database migrations")

	// Initialize repositories
	s.db = db
	s.jobRepo = NewJobRepository(s.db)
	s.tokenRepo = NewTokenRepository(s.db)
	s.answerSetRepo = NewAnswerSetRepository(s.db)
	s.stageGroupRepo = NewStageGroupRepository(s.db)
	s.questRepo = NewQuestionnaireRepository(s.db)
	s.jobErrorRepo = NewJobErrorRepository(s.db)
	s.emailRepo = NewEmailRepository(s.db)
	s.userRepo = NewUserRepository(s.db)
	s.shareGroupRepo = NewShareGroupRepository(s.db)
	s.vmStrategyRepo = NewVMStrategyRepository(s.db)
	s.ctx = context.Background()
}

func (s *DBRepositoryTestSuite) TearDownTest() {
	sqlDB, err := s.db.DB()
	if err == nil && sqlDB != nil {
		_ = sqlDB.Close()
	}
}

// Helper methods for creating test data

func (s *DBRepositoryTestSuite) createTestJob() *models.Job {
	return s.createTestJobForOwner(s.randomOwnerID())
}

func (s *DBRepositoryTestSuite) createTestJobForOwner(ownerID uint) *models.Job {
	job := &models.Job{
		Name:              "exome-run",
		FundCode:          "0001",
		OwnerID:           ownerID,
		WorkflowVersionID: 1,
		JobOrder:          `{"threads":4}`,
		VMStrategyID:      1,
		ShareGroupID:      1,
		State:             models.JobStateNew,
	}
	err := s.jobRepo.Create(s.ctx, job)
	s.Require().NoError(err)
	return job
}

func (s *DBRepositoryTestSuite) createTestToken() *models.JobToken {
	token := &models.JobToken{Token: "token-" + s.randomSuffix()}
	err := s.tokenRepo.Create(s.ctx, token)
	s.Require().NoError(err)
	return token
}

func (s *DBRepositoryTestSuite) randomSuffix() string {
	n, err := rand.Int(rand.Reader, big.NewInt(1<<31))
	s.Require().NoError(err)
	return n.String()
}

func (s *DBRepositoryTestSuite) createTestQuestionnaire() *models.JobQuestionnaire {
	questionnaire := &models.JobQuestionnaire{
		Name:              "exome",
		Description:       "Whole exome sequencing",
		WorkflowVersionID: 1,
		SystemJobOrder:    `{"reference_genome":"hg38"}`,
		VMStrategyID:      1,
		ShareGroupID:      1,
	}
	err := s.questRepo.Create(s.ctx, questionnaire)
	s.Require().NoError(err)
	return questionnaire
}

func (s *DBRepositoryTestSuite) createTestAnswerSetForOwner(ownerID uint) *models.JobAnswerSet {
	answerSet := &models.JobAnswerSet{
		OwnerID:         ownerID,
		QuestionnaireID: s.createTestQuestionnaire().ID,
		JobName:         "my-exome-run",
		FundCode:        "0001",
		UserJobOrder:    `{"threads":8}`,
	}
	err := s.answerSetRepo.Create(s.ctx, answerSet)
	s.Require().NoError(err)
	return answerSet
}

func (s *DBRepositoryTestSuite) createTestStageGroupForOwner(ownerID uint) *models.JobFileStageGroup {
	group := &models.JobFileStageGroup{OwnerID: ownerID}
	err := s.stageGroupRepo.Create(s.ctx, group)
	s.Require().NoError(err)
	return group
}

func (s *DBRepositoryTestSuite) createTestUser() *models.User {
	user := &models.User{
		Username: "user-" + s.randomSuffix(),
		Email:    "test@example.com",
		Role:     models.UserRoleUser,
	}
	err := s.userRepo.CreateUser(s.ctx, user)
	s.Require().NoError(err)
	return user
}

// TestDBRepository runs the test suite for the DBRepository to verify no panic
func TestDBRepository(t *testing.T) {
	suite.Run(t, new(DBRepositoryTestSuite))
}
