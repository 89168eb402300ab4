package repos

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/strataworks/cumulus/internal/db/models"
)

// ErrQuestionnaireNotFound is returned when a questionnaire lookup matches no row
var ErrQuestionnaireNotFound = errors.New("job questionnaire not found")

// QuestionnaireRepository provides access to questionnaire database operations
type QuestionnaireRepository struct {
	db *gorm.DB
}

// NewQuestionnaireRepository creates a new questionnaire repository instance
func NewQuestionnaireRepository(db *gorm.DB) *QuestionnaireRepository {
	return &QuestionnaireRepository{db: db}
}

// WithTx returns a questionnaire repository bound to the given transaction
func (r *QuestionnaireRepository) WithTx(tx *gorm.DB) *QuestionnaireRepository {
	return &QuestionnaireRepository{db: tx}
}

// Create creates a new questionnaire. Admin-managed.
func (r *QuestionnaireRepository) Create(ctx context.Context, questionnaire *models.JobQuestionnaire) error {
	return r.db.WithContext(ctx).Create(questionnaire).Error
}

// GetByID retrieves a questionnaire by its ID
func (r *QuestionnaireRepository) GetByID(ctx context.Context, id uint) (*models.JobQuestionnaire, error) {
	var questionnaire models.JobQuestionnaire
	err := r.db.WithContext(ctx).First(&questionnaire, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrQuestionnaireNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get questionnaire: %w", err)
	}
	return &questionnaire, nil
}

// List returns all questionnaires. Questionnaires are readable by every user.
func (r *QuestionnaireRepository) List(ctx context.Context, opts *models.ListOptions) ([]models.JobQuestionnaire, error) {
	var questionnaires []models.JobQuestionnaire
	err := r.db.WithContext(ctx).
		Limit(opts.Limit).Offset(opts.Offset).
		Order("created_at DESC").
		Find(&questionnaires).Error
	return questionnaires, err
}
