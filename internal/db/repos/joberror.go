package repos

import (
	"context"

	"gorm.io/gorm"

	"github.com/strataworks/cumulus/internal/db/models"
)

// JobErrorRepository provides access to job error records
type JobErrorRepository struct {
	db *gorm.DB
}

// NewJobErrorRepository creates a new job error repository instance
func NewJobErrorRepository(db *gorm.DB) *JobErrorRepository {
	return &JobErrorRepository{db: db}
}

// WithTx returns a job error repository bound to the given transaction
func (r *JobErrorRepository) WithTx(tx *gorm.DB) *JobErrorRepository {
	return &JobErrorRepository{db: tx}
}

// Create appends a new error record. Records are never updated or deleted.
func (r *JobErrorRepository) Create(ctx context.Context, jobError *models.JobError) error {
	return r.db.WithContext(ctx).Create(jobError).Error
}

// ListByJob returns the error records for a job, oldest first
func (r *JobErrorRepository) ListByJob(ctx context.Context, jobID uint) ([]models.JobError, error) {
	var jobErrors []models.JobError
	err := r.db.WithContext(ctx).
		Where(&models.JobError{JobID: jobID}).
		Order("created_at ASC").
		Find(&jobErrors).Error
	return jobErrors, err
}
