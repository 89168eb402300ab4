package repos

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/strataworks/cumulus/internal/db/models"
)

// ErrAnswerSetNotFound is returned when an answer set lookup matches no row visible to the caller
var ErrAnswerSetNotFound = errors.New("job answer set not found")

// AnswerSetRepository provides access to job answer set database operations
type AnswerSetRepository struct {
	db *gorm.DB
}

// NewAnswerSetRepository creates a new answer set repository instance
func NewAnswerSetRepository(db *gorm.DB) *AnswerSetRepository {
	return &AnswerSetRepository{db: db}
}

// WithTx returns an answer set repository bound to the given transaction
func (r *AnswerSetRepository) WithTx(tx *gorm.DB) *AnswerSetRepository {
	return &AnswerSetRepository{db: tx}
}

// Create creates a new answer set
func (r *AnswerSetRepository) Create(ctx context.Context, answerSet *models.JobAnswerSet) error {
	if err := models.ValidateOwnerID(answerSet.OwnerID); err != nil {
		return fmt.Errorf("invalid owner_id: %w", err)
	}
	return r.db.WithContext(ctx).Create(answerSet).Error
}

// GetByID retrieves an answer set by its ID.
// If the ownerID is AdminID, it will return the answer set regardless of the owner.
func (r *AnswerSetRepository) GetByID(ctx context.Context, ownerID, id uint) (*models.JobAnswerSet, error) {
	if err := models.ValidateOwnerID(ownerID); err != nil {
		return nil, fmt.Errorf("invalid owner_id: %w", err)
	}
	var answerSet models.JobAnswerSet
	qry := &models.JobAnswerSet{Model: gorm.Model{ID: id}}
	if ownerID != models.AdminID {
		qry.OwnerID = ownerID
	}
	err := r.db.WithContext(ctx).Where(qry).First(&answerSet).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrAnswerSetNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get answer set: %w", err)
	}
	return &answerSet, nil
}

// List returns the answer sets visible to the owner
func (r *AnswerSetRepository) List(ctx context.Context, ownerID uint, opts *models.ListOptions) ([]models.JobAnswerSet, error) {
	if err := models.ValidateOwnerID(ownerID); err != nil {
		return nil, fmt.Errorf("invalid owner_id: %w", err)
	}
	var answerSets []models.JobAnswerSet
	qry := &models.JobAnswerSet{}
	if ownerID != models.AdminID {
		qry.OwnerID = ownerID
	}
	err := r.db.WithContext(ctx).
		Where(qry).
		Limit(opts.Limit).Offset(opts.Offset).
		Order("created_at DESC").
		Find(&answerSets).Error
	return answerSets, err
}

// Delete removes an answer set. Called when create-job consumes it.
func (r *AnswerSetRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.JobAnswerSet{}, id).Error
}
