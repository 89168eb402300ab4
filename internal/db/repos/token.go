package repos

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/strataworks/cumulus/internal/db/models"
)

// ErrTokenNotFound is returned when no token row matches the supplied value
var ErrTokenNotFound = errors.New("token not found")

// TokenRepository provides access to run-token database operations
type TokenRepository struct {
	db *gorm.DB
}

// NewTokenRepository creates a new token repository instance
func NewTokenRepository(db *gorm.DB) *TokenRepository {
	return &TokenRepository{db: db}
}

// WithTx returns a token repository bound to the given transaction
func (r *TokenRepository) WithTx(tx *gorm.DB) *TokenRepository {
	return &TokenRepository{db: tx}
}

// Create creates a new run token
func (r *TokenRepository) Create(ctx context.Context, token *models.JobToken) error {
	return r.db.WithContext(ctx).Create(token).Error
}

// GetByTokenForUpdate retrieves a token by its value while holding a row-level
// lock, so that two concurrent authorize calls cannot both consume it.
// Must be called inside a transaction.
func (r *TokenRepository) GetByTokenForUpdate(ctx context.Context, value string) (*models.JobToken, error) {
	var token models.JobToken
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where(&models.JobToken{Token: value}).
		First(&token).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrTokenNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get token: %w", err)
	}
	return &token, nil
}

// Bind records the one-time consumption of a token by a job
func (r *TokenRepository) Bind(ctx context.Context, token *models.JobToken, jobID uint) error {
	token.JobID = &jobID
	return r.db.WithContext(ctx).Save(token).Error
}

// List returns all tokens in creation order
func (r *TokenRepository) List(ctx context.Context, opts *models.ListOptions) ([]models.JobToken, error) {
	var tokens []models.JobToken
	err := r.db.WithContext(ctx).
		Limit(opts.Limit).Offset(opts.Offset).
		Order("id ASC").
		Find(&tokens).Error
	return tokens, err
}
