package orchestrator

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/strataworks/cumulus/internal/db/models"
)

func TestNewClient(t *testing.T) {
	_, err := NewClient(nil)
	assert.Error(t, err)

	// Base URL must be an absolute http(s) URL
	_, err = NewClient(&Options{BaseURL: ""})
	assert.Error(t, err)
	_, err = NewClient(&Options{BaseURL: "localhost:9090"})
	assert.Error(t, err)
	_, err = NewClient(&Options{BaseURL: "ftp://localhost:9090"})
	assert.Error(t, err)

	client, err := NewClient(&Options{BaseURL: "http://localhost:9090"})
	require.NoError(t, err)
	assert.Equal(t, DefaultTimeout, client.timeout)

	client, err = NewClient(&Options{BaseURL: "http://localhost:9090", Timeout: 5 * time.Second})
	require.NoError(t, err)
	assert.Equal(t, 5*time.Second, client.timeout)
}

func TestHTTPClient_StartJob(t *testing.T) {
	var gotPath string
	var gotSettings StartSettings

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &gotSettings)
		w.WriteHeader(http.StatusAccepted)
	}))
	defer server.Close()

	client, err := NewClient(&Options{BaseURL: server.URL})
	require.NoError(t, err)

	settings := StartSettings{
		RuntimeKind:   models.RuntimeKindOpenStack,
		VMFlavor:      "m1.large",
		VMProjectName: "cumulus-compute",
		VolumeSizeGB:  100,
	}
	err = client.StartJob(context.Background(), 12, settings)
	require.NoError(t, err)

	assert.Equal(t, "/jobs/12/start", gotPath)
	assert.Equal(t, settings, gotSettings)
}

func TestHTTPClient_CancelAndRestart(t *testing.T) {
	var gotPaths []string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPaths = append(gotPaths, r.URL.Path)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client, err := NewClient(&Options{BaseURL: server.URL})
	require.NoError(t, err)

	require.NoError(t, client.CancelJob(context.Background(), 3))
	require.NoError(t, client.RestartJob(context.Background(), 3))

	assert.Equal(t, []string{"/jobs/3/cancel", "/jobs/3/restart"}, gotPaths)
}

func TestHTTPClient_ErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	client, err := NewClient(&Options{BaseURL: server.URL})
	require.NoError(t, err)

	err = client.CancelJob(context.Background(), 3)
	assert.ErrorContains(t, err, "status 500")
}

func TestHTTPClient_ExpiredContext(t *testing.T) {
	client, err := NewClient(&Options{BaseURL: "http://localhost:9090"})
	require.NoError(t, err)

	ctx, cancel := context.WithDeadline(context.Background(), time.Now().Add(-time.Second))
	defer cancel()

	err = client.CancelJob(ctx, 3)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
