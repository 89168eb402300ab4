// Package mock provides a configurable mock of the API client for tests
package mock

import (
	"context"
	"fmt"

	"github.com/strataworks/cumulus/internal/db/models"
	"github.com/strataworks/cumulus/pkg/api/v1/client"
)

// MockClient implements client.Client with configurable function fields.
// Calls on an unconfigured method return an error.
type MockClient struct {
	ListJobsFn           func(ctx context.Context, state string) ([]models.Job, error)
	GetJobFn             func(ctx context.Context, id uint) (models.Job, error)
	StartJobFn           func(ctx context.Context, id uint) (models.Job, error)
	CancelJobFn          func(ctx context.Context, id uint) (models.Job, error)
	RestartJobFn         func(ctx context.Context, id uint) (models.Job, error)
	AuthorizeJobFn       func(ctx context.Context, id uint, token string) (models.Job, error)
	ListQuestionnairesFn func(ctx context.Context) ([]models.JobQuestionnaire, error)
	CreateTokenFn        func(ctx context.Context) (models.JobToken, error)
	ListTokensFn         func(ctx context.Context) ([]models.JobToken, error)

	// Call counters
	ListJobsCalls           int
	GetJobCalls             int
	StartJobCalls           int
	CancelJobCalls          int
	RestartJobCalls         int
	AuthorizeJobCalls       int
	ListQuestionnairesCalls int
	CreateTokenCalls        int
	ListTokensCalls         int
}

var _ client.Client = &MockClient{}

func errNotConfigured(method string) error {
	return fmt.Errorf("mock: %s not configured", method)
}

// ListJobs calls ListJobsFn
func (m *MockClient) ListJobs(ctx context.Context, state string) ([]models.Job, error) {
	m.ListJobsCalls++
	if m.ListJobsFn == nil {
		return nil, errNotConfigured("ListJobs")
	}
	return m.ListJobsFn(ctx, state)
}

// GetJob calls GetJobFn
func (m *MockClient) GetJob(ctx context.Context, id uint) (models.Job, error) {
	m.GetJobCalls++
	if m.GetJobFn == nil {
		return models.Job{}, errNotConfigured("GetJob")
	}
	return m.GetJobFn(ctx, id)
}

// StartJob calls StartJobFn
func (m *MockClient) StartJob(ctx context.Context, id uint) (models.Job, error) {
	m.StartJobCalls++
	if m.StartJobFn == nil {
		return models.Job{}, errNotConfigured("StartJob")
	}
	return m.StartJobFn(ctx, id)
}

// CancelJob calls CancelJobFn
func (m *MockClient) CancelJob(ctx context.Context, id uint) (models.Job, error) {
	m.CancelJobCalls++
	if m.CancelJobFn == nil {
		return models.Job{}, errNotConfigured("CancelJob")
	}
	return m.CancelJobFn(ctx, id)
}

// RestartJob calls RestartJobFn
func (m *MockClient) RestartJob(ctx context.Context, id uint) (models.Job, error) {
	m.RestartJobCalls++
	if m.RestartJobFn == nil {
		return models.Job{}, errNotConfigured("RestartJob")
	}
	return m.RestartJobFn(ctx, id)
}

// AuthorizeJob calls AuthorizeJobFn
func (m *MockClient) AuthorizeJob(ctx context.Context, id uint, token string) (models.Job, error) {
	m.AuthorizeJobCalls++
	if m.AuthorizeJobFn == nil {
		return models.Job{}, errNotConfigured("AuthorizeJob")
	}
	return m.AuthorizeJobFn(ctx, id, token)
}

// ListQuestionnaires calls ListQuestionnairesFn
func (m *MockClient) ListQuestionnaires(ctx context.Context) ([]models.JobQuestionnaire, error) {
	m.ListQuestionnairesCalls++
	if m.ListQuestionnairesFn == nil {
		return nil, errNotConfigured("ListQuestionnaires")
	}
	return m.ListQuestionnairesFn(ctx)
}

// CreateToken calls CreateTokenFn
func (m *MockClient) CreateToken(ctx context.Context) (models.JobToken, error) {
	m.CreateTokenCalls++
	if m.CreateTokenFn == nil {
		return models.JobToken{}, errNotConfigured("CreateToken")
	}
	return m.CreateTokenFn(ctx)
}

// ListTokens calls ListTokensFn
func (m *MockClient) ListTokens(ctx context.Context) ([]models.JobToken, error) {
	m.ListTokensCalls++
	if m.ListTokensFn == nil {
		return nil, errNotConfigured("ListTokens")
	}
	return m.ListTokensFn(ctx)
}
