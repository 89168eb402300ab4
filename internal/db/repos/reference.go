package repos

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/strataworks/cumulus/internal/db/models"
)

// Reference lookup errors
var (
	ErrShareGroupNotFound = errors.New("share group not found")
	ErrVMStrategyNotFound = errors.New("vm strategy not found")
)

// ShareGroupRepository provides access to share group records
type ShareGroupRepository struct {
	db *gorm.DB
}

// NewShareGroupRepository creates a new share group repository instance
func NewShareGroupRepository(db *gorm.DB) *ShareGroupRepository {
	return &ShareGroupRepository{db: db}
}

// Create creates a new share group. Admin-managed.
func (r *ShareGroupRepository) Create(ctx context.Context, group *models.ShareGroup) error {
	return r.db.WithContext(ctx).Create(group).Error
}

// GetByID retrieves a share group by its ID
func (r *ShareGroupRepository) GetByID(ctx context.Context, id uint) (*models.ShareGroup, error) {
	var group models.ShareGroup
	err := r.db.WithContext(ctx).First(&group, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrShareGroupNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get share group: %w", err)
	}
	return &group, nil
}

// VMStrategyRepository provides access to VM strategy records
type VMStrategyRepository struct {
	db *gorm.DB
}

// NewVMStrategyRepository creates a new VM strategy repository instance
func NewVMStrategyRepository(db *gorm.DB) *VMStrategyRepository {
	return &VMStrategyRepository{db: db}
}

// Create creates a new VM strategy. Admin-managed.
func (r *VMStrategyRepository) Create(ctx context.Context, strategy *models.VMStrategy) error {
	return r.db.WithContext(ctx).Create(strategy).Error
}

// GetByID retrieves a VM strategy by its ID
func (r *VMStrategyRepository) GetByID(ctx context.Context, id uint) (*models.VMStrategy, error) {
	var strategy models.VMStrategy
	err := r.db.WithContext(ctx).First(&strategy, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrVMStrategyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get vm strategy: %w", err)
	}
	return &strategy, nil
}

// List returns all VM strategies
func (r *VMStrategyRepository) List(ctx context.Context, opts *models.ListOptions) ([]models.VMStrategy, error) {
	var strategies []models.VMStrategy
	err := r.db.WithContext(ctx).
		Limit(opts.Limit).Offset(opts.Offset).
		Order("created_at DESC").
		Find(&strategies).Error
	return strategies, err
}
