package commands

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/strataworks/cumulus/internal/db/models"
)

func TestCreateTokenCommand(t *testing.T) {
	cmd := GetTokensCmd()
	mockClient, outputBuf := setupTestCommand(t, cmd)

	mockClient.CreateTokenFn = func(_ context.Context) (models.JobToken, error) {
		return models.JobToken{Token: "0d6c2615-4a67-4d02-8004-7c851ff1325c"}, nil
	}

	cmd.SetArgs([]string{"create"})
	err := cmd.Execute()
	require.NoError(t, err, "Command execution failed")

	require.Equal(t, 1, mockClient.CreateTokenCalls, "CreateToken should be called once")
	assert.Contains(t, outputBuf.String(), "0d6c2615-4a67-4d02-8004-7c851ff1325c")
}

func TestListTokensCommand(t *testing.T) {
	cmd := GetTokensCmd()
	mockClient, outputBuf := setupTestCommand(t, cmd)

	mockClient.ListTokensFn = func(_ context.Context) ([]models.JobToken, error) {
		jobID := uint(4)
		return []models.JobToken{
			{Token: "tok-free"},
			{Token: "tok-used", JobID: &jobID},
		}, nil
	}

	cmd.SetArgs([]string{"list"})
	err := cmd.Execute()
	require.NoError(t, err, "Command execution failed")

	output := outputBuf.String()
	assert.Contains(t, output, "tok-free")
	assert.Contains(t, output, `"job_id": 4`)
}
