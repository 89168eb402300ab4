package repos

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/strataworks/cumulus/internal/db/models"
)

type JobErrorRepositoryTestSuite struct {
	DBRepositoryTestSuite
}

func TestJobErrorRepository(t *testing.T) {
	suite.Run(t, new(JobErrorRepositoryTestSuite))
}

func (s *JobErrorRepositoryTestSuite) TestCreateAndListByJob() {
	job := s.createTestJob()

	first := &models.JobError{JobID: job.ID, Content: "volume attach failed", Step: models.JobStepCreateVM}
	second := &models.JobError{JobID: job.ID, Content: "retry also failed", Step: models.JobStepCreateVM}
	s.Require().NoError(s.jobErrorRepo.Create(s.ctx, first))
	s.Require().NoError(s.jobErrorRepo.Create(s.ctx, second))

	// Errors for an unrelated job stay invisible
	other := s.createTestJob()
	s.Require().NoError(s.jobErrorRepo.Create(s.ctx, &models.JobError{JobID: other.ID, Content: "other"}))

	errs, err := s.jobErrorRepo.ListByJob(s.ctx, job.ID)
	s.NoError(err)
	s.Require().Len(errs, 2)

	// Oldest first
	s.Equal("volume attach failed", errs[0].Content)
	s.Equal("retry also failed", errs[1].Content)
}
