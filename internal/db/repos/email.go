package repos

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/strataworks/cumulus/internal/db/models"
)

// ErrTemplateNotFound is returned when no email template exists with the requested name
var ErrTemplateNotFound = errors.New("email template not found")

// EmailRepository provides access to email templates and message records
type EmailRepository struct {
	db *gorm.DB
}

// NewEmailRepository creates a new email repository instance
func NewEmailRepository(db *gorm.DB) *EmailRepository {
	return &EmailRepository{db: db}
}

// WithTx returns an email repository bound to the given transaction
func (r *EmailRepository) WithTx(tx *gorm.DB) *EmailRepository {
	return &EmailRepository{db: tx}
}

// GetTemplateByName retrieves an email template by its unique name
func (r *EmailRepository) GetTemplateByName(ctx context.Context, name string) (*models.EmailTemplate, error) {
	var template models.EmailTemplate
	err := r.db.WithContext(ctx).Where(&models.EmailTemplate{Name: name}).First(&template).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrTemplateNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get email template: %w", err)
	}
	return &template, nil
}

// CreateTemplate creates a new email template. Admin-managed.
func (r *EmailRepository) CreateTemplate(ctx context.Context, template *models.EmailTemplate) error {
	return r.db.WithContext(ctx).Create(template).Error
}

// CreateMessage persists a rendered message record
func (r *EmailRepository) CreateMessage(ctx context.Context, message *models.EmailMessage) error {
	return r.db.WithContext(ctx).Create(message).Error
}

// MarkSent records successful delivery of a message
func (r *EmailRepository) MarkSent(ctx context.Context, message *models.EmailMessage) error {
	message.State = models.MessageStateSent
	return r.db.WithContext(ctx).Save(message).Error
}

// MarkErrored records a delivery failure on a message
func (r *EmailRepository) MarkErrored(ctx context.Context, message *models.EmailMessage, errText string) error {
	message.State = models.MessageStateErrored
	message.ErrorText = errText
	return r.db.WithContext(ctx).Save(message).Error
}
