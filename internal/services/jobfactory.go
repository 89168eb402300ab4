package services

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/strataworks/cumulus/internal/db/models"
	"github.com/strataworks/cumulus/internal/db/repos"
	"github.com/strataworks/cumulus/internal/logger"
)

// JobFactory constructs a persisted Job from a questionnaire/answer-set pair
type JobFactory struct {
	db                *gorm.DB
	answerSetRepo     *repos.AnswerSetRepository
	questionnaireRepo *repos.QuestionnaireRepository
	stageGroupRepo    *repos.StageGroupRepository
	jobRepo           *repos.JobRepository
}

// NewJobFactory creates a new job factory instance
func NewJobFactory(
	db *gorm.DB,
	answerSetRepo *repos.AnswerSetRepository,
	questionnaireRepo *repos.QuestionnaireRepository,
	stageGroupRepo *repos.StageGroupRepository,
	jobRepo *repos.JobRepository,
) *JobFactory {
	return &JobFactory{
		db:                db,
		answerSetRepo:     answerSetRepo,
		questionnaireRepo: questionnaireRepo,
		stageGroupRepo:    stageGroupRepo,
		jobRepo:           jobRepo,
	}
}

// CreateJob builds a job from the given answer set: the questionnaire's
// system job order is merged with the user's order, the job is persisted in
// the new state together with its output directory placeholder, and the
// answer set is consumed. The whole construction is one transaction: any
// failure leaves zero jobs and zero dependent records behind.
func (f *JobFactory) CreateJob(ctx context.Context, ownerID, answerSetID uint) (*models.Job, error) {
	answerSet, err := f.answerSetRepo.GetByID(ctx, ownerID, answerSetID)
	if err != nil {
		return nil, err
	}

	questionnaire, err := f.questionnaireRepo.GetByID(ctx, answerSet.QuestionnaireID)
	if err != nil {
		return nil, err
	}

	// Validate the stage group reference belongs to the same owner before
	// binding it to the job
	if answerSet.StageGroupID != 0 {
		if _, err := f.stageGroupRepo.GetByID(ctx, answerSet.OwnerID, answerSet.StageGroupID); err != nil {
			return nil, err
		}
	}

	systemOrder, err := parseJobOrder(questionnaire.SystemJobOrder)
	if err != nil {
		return nil, err
	}
	userOrder, err := parseJobOrder(answerSet.UserJobOrder)
	if err != nil {
		return nil, err
	}

	merged, err := MergeJobOrder(systemOrder, userOrder)
	if err != nil {
		return nil, err
	}
	jobOrder, err := serializeJobOrder(merged)
	if err != nil {
		return nil, err
	}

	job := &models.Job{
		Name:              answerSet.JobName,
		FundCode:          answerSet.FundCode,
		OwnerID:           answerSet.OwnerID,
		WorkflowVersionID: questionnaire.WorkflowVersionID,
		JobOrder:          jobOrder,
		VMStrategyID:      questionnaire.VMStrategyID,
		ShareGroupID:      questionnaire.ShareGroupID,
		StageGroupID:      answerSet.StageGroupID,
		State:             models.JobStateNew,
		Step:              models.JobStepNone,
	}

	err = f.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := f.jobRepo.WithTx(tx).Create(ctx, job); err != nil {
			return fmt.Errorf("failed to create job: %w", err)
		}
		outputDir := &models.JobOutputDir{JobID: job.ID}
		if err := tx.Create(outputDir).Error; err != nil {
			return fmt.Errorf("failed to create job output dir: %w", err)
		}
		// An answer set produces at most one job
		if err := f.answerSetRepo.WithTx(tx).Delete(ctx, answerSet.ID); err != nil {
			return fmt.Errorf("failed to consume answer set: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.InfoWithFields("job created", map[string]interface{}{
		"job_id":        job.ID,
		"owner_id":      job.OwnerID,
		"answer_set_id": answerSet.ID,
	})
	return job, nil
}
