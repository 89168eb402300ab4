package commands

import (
	"bytes"
	"context"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/strataworks/cumulus/internal/db/models"
	"github.com/strataworks/cumulus/pkg/api/v1/client/mock"
)

// setupTestCommand swaps in a mock client and captures command output
func setupTestCommand(t *testing.T, cmd *cobra.Command) (*mock.MockClient, *bytes.Buffer) {
	mockClient := &mock.MockClient{}

	originalClient := apiClient
	t.Cleanup(func() {
		apiClient = originalClient
	})
	apiClient = mockClient

	outputBuf := &bytes.Buffer{}
	cmd.SetOut(outputBuf)
	for _, subCmd := range cmd.Commands() {
		subCmd.SetOut(outputBuf)
	}
	return mockClient, outputBuf
}

func TestListJobsCommand(t *testing.T) {
	cmd := GetJobsCmd()
	mockClient, outputBuf := setupTestCommand(t, cmd)

	mockClient.ListJobsFn = func(_ context.Context, state string) ([]models.Job, error) {
		assert.Equal(t, "running", state)
		return []models.Job{
			{Model: gorm.Model{ID: 1}, Name: "exome-run", State: models.JobStateRunning},
			{Model: gorm.Model{ID: 2}, Name: "rna-seq-run", State: models.JobStateRunning},
		}, nil
	}

	cmd.SetArgs([]string{"list", "-t", "running"})
	err := cmd.Execute()
	require.NoError(t, err, "Command execution failed")

	require.Equal(t, 1, mockClient.ListJobsCalls, "ListJobs should be called once")

	output := outputBuf.String()
	assert.Contains(t, output, `"name": "exome-run"`)
	assert.Contains(t, output, `"name": "rna-seq-run"`)
	assert.Contains(t, output, `"state": "running"`)
}

func TestGetJobCommand(t *testing.T) {
	cmd := GetJobsCmd()
	mockClient, outputBuf := setupTestCommand(t, cmd)

	mockClient.GetJobFn = func(_ context.Context, id uint) (models.Job, error) {
		assert.Equal(t, uint(12), id)
		return models.Job{Model: gorm.Model{ID: 12}, Name: "exome-run", State: models.JobStateFinished}, nil
	}

	cmd.SetArgs([]string{"get", "-i", "12"})
	err := cmd.Execute()
	require.NoError(t, err, "Command execution failed")

	require.Equal(t, 1, mockClient.GetJobCalls, "GetJob should be called once")
	assert.Contains(t, outputBuf.String(), `"state": "finished"`)
}

func TestAuthorizeJobCommand(t *testing.T) {
	cmd := GetJobsCmd()
	mockClient, outputBuf := setupTestCommand(t, cmd)

	mockClient.AuthorizeJobFn = func(_ context.Context, id uint, token string) (models.Job, error) {
		assert.Equal(t, uint(5), id)
		assert.Equal(t, "tok-1", token)
		return models.Job{Model: gorm.Model{ID: 5}, Name: "exome-run", State: models.JobStateAuthorized}, nil
	}

	cmd.SetArgs([]string{"authorize", "-i", "5", "-k", "tok-1"})
	err := cmd.Execute()
	require.NoError(t, err, "Command execution failed")

	require.Equal(t, 1, mockClient.AuthorizeJobCalls, "AuthorizeJob should be called once")
	assert.Contains(t, outputBuf.String(), `"state": "authorized"`)
}

func TestStartJobCommandError(t *testing.T) {
	cmd := GetJobsCmd()
	mockClient, _ := setupTestCommand(t, cmd)

	mockClient.StartJobFn = func(_ context.Context, _ uint) (models.Job, error) {
		return models.Job{}, assert.AnError
	}

	cmd.SetArgs([]string{"start", "-i", "3"})
	cmd.SilenceErrors = true
	cmd.SilenceUsage = true
	err := cmd.Execute()
	assert.Error(t, err)
}
