// Package repos provides data access for all persisted entities
package repos

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/strataworks/cumulus/internal/db/models"
)

// ErrJobNotFound is returned when a job lookup matches no row visible to the caller
var ErrJobNotFound = errors.New("job not found")

// JobRepository provides access to job-related database operations
type JobRepository struct {
	db *gorm.DB
}

// NewJobRepository creates a new job repository instance
func NewJobRepository(db *gorm.DB) *JobRepository {
	return &JobRepository{db: db}
}

// WithTx returns a job repository bound to the given transaction
func (r *JobRepository) WithTx(tx *gorm.DB) *JobRepository {
	return &JobRepository{db: tx}
}

// Create creates a new job in the database
func (r *JobRepository) Create(ctx context.Context, job *models.Job) error {
	if err := models.ValidateOwnerID(job.OwnerID); err != nil {
		return fmt.Errorf("invalid owner_id: %w", err)
	}
	return r.db.WithContext(ctx).Create(job).Error
}

// Update updates an existing job in the database
func (r *JobRepository) Update(ctx context.Context, job *models.Job) error {
	if err := models.ValidateOwnerID(job.OwnerID); err != nil {
		return fmt.Errorf("invalid owner_id: %w", err)
	}
	return r.db.WithContext(ctx).Save(job).Error
}

// GetByID retrieves a job by its ID.
// If the ownerID is AdminID, it will return the job regardless of the owner.
func (r *JobRepository) GetByID(ctx context.Context, ownerID, id uint) (*models.Job, error) {
	if err := models.ValidateOwnerID(ownerID); err != nil {
		return nil, fmt.Errorf("invalid owner_id: %w", err)
	}
	var job models.Job
	qry := &models.Job{Model: gorm.Model{ID: id}}
	if ownerID != models.AdminID {
		qry.OwnerID = ownerID
	}
	err := r.db.WithContext(ctx).Where(qry).First(&job).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrJobNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get job: %w", err)
	}
	return &job, nil
}

// GetByIDForUpdate retrieves a job by its ID while holding a row-level lock.
// Must be called inside a transaction.
func (r *JobRepository) GetByIDForUpdate(ctx context.Context, ownerID, id uint) (*models.Job, error) {
	if err := models.ValidateOwnerID(ownerID); err != nil {
		return nil, fmt.Errorf("invalid owner_id: %w", err)
	}
	var job models.Job
	qry := &models.Job{Model: gorm.Model{ID: id}}
	if ownerID != models.AdminID {
		qry.OwnerID = ownerID
	}
	err := r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}).Where(qry).First(&job).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrJobNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get job: %w", err)
	}
	return &job, nil
}

// SetStateStep persists the given state and step on a job
func (r *JobRepository) SetStateStep(ctx context.Context, id uint, state models.JobState, step models.JobStep) error {
	return r.db.WithContext(ctx).Model(&models.Job{}).
		Where(&models.Job{Model: gorm.Model{ID: id}}).
		Updates(map[string]interface{}{
			"state": state,
			"step":  step,
		}).Error
}

// List returns a list of jobs.
// If the ownerID is AdminID, it will return jobs regardless of the owner.
// If the state is unknown, it will return jobs regardless of their state.
func (r *JobRepository) List(ctx context.Context, state models.JobState, ownerID uint, opts *models.ListOptions) ([]models.Job, error) {
	if err := models.ValidateOwnerID(ownerID); err != nil {
		return nil, fmt.Errorf("invalid owner_id: %w", err)
	}
	var jobs []models.Job
	qry := &models.Job{}

	if state != models.JobStateUnknown {
		qry.State = state
	}

	if ownerID != models.AdminID {
		qry.OwnerID = ownerID
	}

	db := r.db.WithContext(ctx)
	if !opts.IncludeDeleted {
		db = db.Unscoped().Where("deleted_at IS NULL")
	}

	err := db.Model(&models.Job{}).
		Where(qry).
		Limit(opts.Limit).Offset(opts.Offset).
		Order(models.JobCreatedAtField + " DESC").
		Find(&jobs).Error
	return jobs, err
}

// Count returns the number of jobs visible to the owner
func (r *JobRepository) Count(ctx context.Context, state models.JobState, ownerID uint) (int64, error) {
	if err := models.ValidateOwnerID(ownerID); err != nil {
		return 0, fmt.Errorf("invalid owner_id: %w", err)
	}
	var count int64
	qry := &models.Job{}

	if state != models.JobStateUnknown {
		qry.State = state
	}

	if ownerID != models.AdminID {
		qry.OwnerID = ownerID
	}
	err := r.db.WithContext(ctx).Model(&models.Job{}).Where(qry).Count(&count).Error
	return count, err
}
