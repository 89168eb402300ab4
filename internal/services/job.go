package services

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/strataworks/cumulus/internal/db/models"
	"github.com/strataworks/cumulus/internal/db/repos"
	"github.com/strataworks/cumulus/internal/logger"
	"github.com/strataworks/cumulus/internal/mailer"
	"github.com/strataworks/cumulus/internal/orchestrator"
)

// Job provides the lifecycle state machine for job operations. All
// user-initiated state changes go through this service; only the admin
// ForceStateStep path bypasses the transition guards.
type Job struct {
	db           *gorm.DB
	jobRepo      *repos.JobRepository
	tokenRepo    *repos.TokenRepository
	userRepo     *repos.UserRepository
	shareRepo    *repos.ShareGroupRepository
	strategyRepo *repos.VMStrategyRepository
	jobErrorRepo *repos.JobErrorRepository
	client       orchestrator.Client
	jobMailer    *mailer.JobMailer
}

// NewJobService creates a new job service instance
func NewJobService(
	db *gorm.DB,
	jobRepo *repos.JobRepository,
	tokenRepo *repos.TokenRepository,
	userRepo *repos.UserRepository,
	shareRepo *repos.ShareGroupRepository,
	strategyRepo *repos.VMStrategyRepository,
	jobErrorRepo *repos.JobErrorRepository,
	client orchestrator.Client,
	jobMailer *mailer.JobMailer,
) *Job {
	return &Job{
		db:           db,
		jobRepo:      jobRepo,
		tokenRepo:    tokenRepo,
		userRepo:     userRepo,
		shareRepo:    shareRepo,
		strategyRepo: strategyRepo,
		jobErrorRepo: jobErrorRepo,
		client:       client,
		jobMailer:    jobMailer,
	}
}

// ListJobs retrieves a paginated list of jobs visible to the owner
func (s *Job) ListJobs(ctx context.Context, state models.JobState, ownerID uint, opts *models.ListOptions) ([]models.Job, error) {
	return s.jobRepo.List(ctx, state, ownerID, opts)
}

// GetJob retrieves a job by its ID, scoped to the owner
func (s *Job) GetJob(ctx context.Context, ownerID, id uint) (*models.Job, error) {
	return s.jobRepo.GetByID(ctx, ownerID, id)
}

// StartJob moves a job from new or authorized into starting and dispatches
// the start command to the orchestrator. If the orchestrator call fails the
// transition is rolled back and the job stays in its prior state.
func (s *Job) StartJob(ctx context.Context, ownerID, jobID uint) (*models.Job, error) {
	var job *models.Job
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		job, err = s.jobRepo.WithTx(tx).GetByIDForUpdate(ctx, ownerID, jobID)
		if err != nil {
			return err
		}
		if !job.State.CanStart() {
			return fmt.Errorf("%w: job state must be NEW or AUTHORIZED, got %s", ErrInvalidJobState, job.State)
		}

		strategy, err := s.strategyRepo.GetByID(ctx, job.VMStrategyID)
		if err != nil {
			return err
		}
		settings := orchestrator.StartSettings{
			RuntimeKind:   strategy.RuntimeKind,
			VMFlavor:      strategy.VMFlavor,
			VMProjectName: strategy.VMProjectName,
			VolumeSizeGB:  strategy.VolumeSizeBaseGB,
		}
		if err := s.client.StartJob(ctx, job.ID, settings); err != nil {
			return fmt.Errorf("%w: %v", ErrOrchestrator, err)
		}

		job.State = models.JobStateStarting
		job.Step = models.JobStepNone
		return s.jobRepo.WithTx(tx).Update(ctx, job)
	})
	if err != nil {
		return nil, err
	}

	logger.InfoWithFields("job starting", map[string]interface{}{"job_id": job.ID})
	return job, nil
}

// CancelJob moves a job into canceling and dispatches the cancel command.
// Cancellation is cooperative: in-flight work is the orchestrator's problem.
func (s *Job) CancelJob(ctx context.Context, ownerID, jobID uint) (*models.Job, error) {
	var job *models.Job
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		job, err = s.jobRepo.WithTx(tx).GetByIDForUpdate(ctx, ownerID, jobID)
		if err != nil {
			return err
		}
		if !job.State.CanCancel() {
			return fmt.Errorf("%w: job in state %s cannot be canceled", ErrInvalidJobState, job.State)
		}

		if err := s.client.CancelJob(ctx, job.ID); err != nil {
			return fmt.Errorf("%w: %v", ErrOrchestrator, err)
		}

		job.State = models.JobStateCanceling
		return s.jobRepo.WithTx(tx).Update(ctx, job)
	})
	if err != nil {
		return nil, err
	}

	logger.InfoWithFields("job canceling", map[string]interface{}{"job_id": job.ID})
	return job, nil
}

// RestartJob moves a failed or canceled job into restarting and dispatches
// the restart command. A job in the new state must use start instead.
func (s *Job) RestartJob(ctx context.Context, ownerID, jobID uint) (*models.Job, error) {
	var job *models.Job
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		job, err = s.jobRepo.WithTx(tx).GetByIDForUpdate(ctx, ownerID, jobID)
		if err != nil {
			return err
		}
		if !job.State.CanRestart() {
			return fmt.Errorf("%w: job state must be ERROR or CANCEL, got %s", ErrInvalidJobState, job.State)
		}

		if err := s.client.RestartJob(ctx, job.ID); err != nil {
			return fmt.Errorf("%w: %v", ErrOrchestrator, err)
		}

		job.State = models.JobStateRestarting
		job.Step = models.JobStepNone
		return s.jobRepo.WithTx(tx).Update(ctx, job)
	})
	if err != nil {
		return nil, err
	}

	logger.InfoWithFields("job restarting", map[string]interface{}{"job_id": job.ID})
	return job, nil
}

// AuthorizeJob consumes a one-time run token and moves the job from new to
// authorized. The token check-and-bind is atomic: both the token and the job
// row are locked inside one transaction so that two concurrent authorize
// calls on the same token cannot both succeed.
func (s *Job) AuthorizeJob(ctx context.Context, ownerID, jobID uint, tokenValue string) (*models.Job, error) {
	if tokenValue == "" {
		return nil, ErrMissingToken
	}

	var job *models.Job
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		job, err = s.jobRepo.WithTx(tx).GetByIDForUpdate(ctx, ownerID, jobID)
		if err != nil {
			return err
		}
		if !job.State.CanAuthorize() {
			return fmt.Errorf("%w: job state must be NEW, got %s", ErrInvalidJobState, job.State)
		}

		token, err := s.tokenRepo.WithTx(tx).GetByTokenForUpdate(ctx, tokenValue)
		if err != nil {
			if errors.Is(err, repos.ErrTokenNotFound) {
				return ErrInvalidToken
			}
			return err
		}
		if token.IsUsed() {
			return ErrTokenAlreadyUsed
		}

		if err := s.tokenRepo.WithTx(tx).Bind(ctx, token, job.ID); err != nil {
			return fmt.Errorf("failed to bind token: %w", err)
		}

		job.RunTokenID = &token.ID
		job.State = models.JobStateAuthorized
		return s.jobRepo.WithTx(tx).Update(ctx, job)
	})
	if err != nil {
		return nil, err
	}

	logger.InfoWithFields("job authorized", map[string]interface{}{"job_id": job.ID})
	return job, nil
}

// ForceStateStep is the privileged admin override: the given state and step
// are persisted as supplied with no transition guards beyond the enum domain.
// Notifications still fire off the new state; a notification failure is
// surfaced but never rolls the state back.
func (s *Job) ForceStateStep(ctx context.Context, jobID uint, state models.JobState, step models.JobStep) (*models.Job, error) {
	if state == models.JobStateUnknown {
		return nil, fmt.Errorf("%w: state is outside the enum domain", ErrInvalidJobState)
	}

	if err := s.jobRepo.SetStateStep(ctx, jobID, state, step); err != nil {
		return nil, err
	}
	job, err := s.jobRepo.GetByID(ctx, models.AdminID, jobID)
	if err != nil {
		return nil, err
	}

	logger.InfoWithFields("job state forced", map[string]interface{}{
		"job_id": job.ID,
		"state":  job.State.String(),
		"step":   job.Step.String(),
	})

	if err := s.notifyCurrentState(ctx, job); err != nil {
		return job, err
	}
	return job, nil
}

// RecordJobError appends an immutable error record tagged with the job's
// current step
func (s *Job) RecordJobError(ctx context.Context, jobID uint, content string) (*models.JobError, error) {
	job, err := s.jobRepo.GetByID(ctx, models.AdminID, jobID)
	if err != nil {
		return nil, err
	}
	jobError := &models.JobError{
		JobID:   job.ID,
		Content: content,
		Step:    job.Step,
	}
	if err := s.jobErrorRepo.Create(ctx, jobError); err != nil {
		return nil, err
	}
	return jobError, nil
}

// ListJobErrors returns the error records for a job the owner can see
func (s *Job) ListJobErrors(ctx context.Context, ownerID, jobID uint) ([]models.JobError, error) {
	job, err := s.jobRepo.GetByID(ctx, ownerID, jobID)
	if err != nil {
		return nil, err
	}
	return s.jobErrorRepo.ListByJob(ctx, job.ID)
}

// notifyCurrentState resolves the recipient addresses and hands the job to
// the notification dispatcher. The job state is already committed at this
// point; delivery failure is decoupled from state correctness.
func (s *Job) notifyCurrentState(ctx context.Context, job *models.Job) error {
	owner, err := s.userRepo.GetUserByID(ctx, job.OwnerID)
	if err != nil {
		return err
	}
	shareGroup, err := s.shareRepo.GetByID(ctx, job.ShareGroupID)
	if err != nil {
		return err
	}
	return s.jobMailer.Dispatch(ctx, job, owner.Email, shareGroup.Email)
}
