package repos

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/strataworks/cumulus/internal/db"
	"github.com/strataworks/cumulus/internal/db/models"
)

// ErrStageGroupNotFound is returned when a stage group lookup matches no row visible to the caller
var ErrStageGroupNotFound = errors.New("stage group not found")

// ErrDuplicateFileSequence is returned when an input file reuses a
// (sequence_group, sequence) pair already taken within its stage group
var ErrDuplicateFileSequence = errors.New("duplicate sequence within stage group")

// StageGroupRepository provides access to stage group database operations
type StageGroupRepository struct {
	db *gorm.DB
}

// NewStageGroupRepository creates a new stage group repository instance
func NewStageGroupRepository(db *gorm.DB) *StageGroupRepository {
	return &StageGroupRepository{db: db}
}

// WithTx returns a stage group repository bound to the given transaction
func (r *StageGroupRepository) WithTx(tx *gorm.DB) *StageGroupRepository {
	return &StageGroupRepository{db: tx}
}

// Create creates a new stage group
func (r *StageGroupRepository) Create(ctx context.Context, group *models.JobFileStageGroup) error {
	if err := models.ValidateOwnerID(group.OwnerID); err != nil {
		return fmt.Errorf("invalid owner_id: %w", err)
	}
	return r.db.WithContext(ctx).Create(group).Error
}

// GetByID retrieves a stage group, with its input files preloaded.
// If the ownerID is AdminID, it will return the group regardless of the owner.
func (r *StageGroupRepository) GetByID(ctx context.Context, ownerID, id uint) (*models.JobFileStageGroup, error) {
	if err := models.ValidateOwnerID(ownerID); err != nil {
		return nil, fmt.Errorf("invalid owner_id: %w", err)
	}
	var group models.JobFileStageGroup
	qry := &models.JobFileStageGroup{Model: gorm.Model{ID: id}}
	if ownerID != models.AdminID {
		qry.OwnerID = ownerID
	}
	err := r.db.WithContext(ctx).
		Preload("DDSFiles").
		Preload("URLFiles").
		Where(qry).
		First(&group).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrStageGroupNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get stage group: %w", err)
	}
	return &group, nil
}

// List returns the stage groups visible to the owner
func (r *StageGroupRepository) List(ctx context.Context, ownerID uint, opts *models.ListOptions) ([]models.JobFileStageGroup, error) {
	if err := models.ValidateOwnerID(ownerID); err != nil {
		return nil, fmt.Errorf("invalid owner_id: %w", err)
	}
	var groups []models.JobFileStageGroup
	qry := &models.JobFileStageGroup{}
	if ownerID != models.AdminID {
		qry.OwnerID = ownerID
	}
	err := r.db.WithContext(ctx).
		Preload("DDSFiles").
		Preload("URLFiles").
		Where(qry).
		Limit(opts.Limit).Offset(opts.Offset).
		Order("created_at DESC").
		Find(&groups).Error
	return groups, err
}

// AddDDSFile attaches a document-store input file to a stage group
func (r *StageGroupRepository) AddDDSFile(ctx context.Context, file *models.JobDDSInputFile) error {
	if err := r.db.WithContext(ctx).Create(file).Error; err != nil {
		if db.IsDuplicateKeyError(err) {
			return fmt.Errorf("%w: (%d, %d)", ErrDuplicateFileSequence, file.SequenceGroup, file.Sequence)
		}
		return err
	}
	return nil
}

// AddURLFile attaches a URL input file to a stage group
func (r *StageGroupRepository) AddURLFile(ctx context.Context, file *models.JobURLInputFile) error {
	if err := r.db.WithContext(ctx).Create(file).Error; err != nil {
		if db.IsDuplicateKeyError(err) {
			return fmt.Errorf("%w: (%d, %d)", ErrDuplicateFileSequence, file.SequenceGroup, file.Sequence)
		}
		return err
	}
	return nil
}
