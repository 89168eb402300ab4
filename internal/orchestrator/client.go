// Package orchestrator provides the client for the external compute
// orchestration service that provisions VMs or Kubernetes workloads and
// runs workflows on them.
package orchestrator

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	fiber "github.com/gofiber/fiber/v2"

	"github.com/strataworks/cumulus/internal/db/models"
)

// DefaultTimeout is the default timeout for orchestrator requests
const DefaultTimeout = 30 * time.Second

// StartSettings carries the runtime configuration sent with a start command
type StartSettings struct {
	RuntimeKind   models.RuntimeKind `json:"runtime_kind"`
	VMFlavor      string             `json:"vm_flavor"`
	VMProjectName string             `json:"vm_project_name"`
	VolumeSizeGB  uint               `json:"volume_size_gb"`
}

// Client is the interface for dispatching lifecycle commands to the
// external orchestrator
type Client interface {
	// StartJob asks the orchestrator to provision compute and run the job
	StartJob(ctx context.Context, jobID uint, settings StartSettings) error
	// CancelJob asks the orchestrator to stop work on the job
	CancelJob(ctx context.Context, jobID uint) error
	// RestartJob asks the orchestrator to run a failed or canceled job again
	RestartJob(ctx context.Context, jobID uint) error
}

// Options contains configuration options for the orchestrator client
type Options struct {
	// BaseURL is the base URL of the orchestrator API
	BaseURL string

	// Timeout is the request timeout
	Timeout time.Duration
}

// HTTPClient implements the Client interface over HTTP
type HTTPClient struct {
	baseURL string
	timeout time.Duration
}

var _ Client = &HTTPClient{}

// NewClient creates a new orchestrator client with the given options
func NewClient(opts *Options) (*HTTPClient, error) {
	if opts == nil {
		return nil, fmt.Errorf("orchestrator options are required")
	}
	parsed, err := url.Parse(opts.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}
	if (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return nil, fmt.Errorf("invalid base URL %q: must be an absolute http(s) URL", opts.BaseURL)
	}
	timeout := opts.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	return &HTTPClient{
		baseURL: opts.BaseURL,
		timeout: timeout,
	}, nil
}

// StartJob asks the orchestrator to provision compute and run the job
func (c *HTTPClient) StartJob(ctx context.Context, jobID uint, settings StartSettings) error {
	endpoint := fmt.Sprintf("/jobs/%d/start", jobID)
	return c.post(ctx, endpoint, settings)
}

// CancelJob asks the orchestrator to stop work on the job
func (c *HTTPClient) CancelJob(ctx context.Context, jobID uint) error {
	endpoint := fmt.Sprintf("/jobs/%d/cancel", jobID)
	return c.post(ctx, endpoint, nil)
}

// RestartJob asks the orchestrator to run a failed or canceled job again
func (c *HTTPClient) RestartJob(ctx context.Context, jobID uint) error {
	endpoint := fmt.Sprintf("/jobs/%d/restart", jobID)
	return c.post(ctx, endpoint, nil)
}

func (c *HTTPClient) post(ctx context.Context, endpoint string, body interface{}) error {
	agent := fiber.Post(c.baseURL + endpoint)
	agent.Timeout(c.timeout)

	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		agent.ContentType(fiber.MIMEApplicationJSON)
		agent.Body(payload)
	}

	if deadline, ok := ctx.Deadline(); ok {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return ctx.Err()
		}
		if remaining < c.timeout {
			agent.Timeout(remaining)
		}
	}

	code, respBody, errs := agent.Bytes()
	if len(errs) > 0 {
		return fmt.Errorf("orchestrator request failed: %v", errs[0])
	}
	if code != http.StatusOK && code != http.StatusAccepted {
		return fmt.Errorf("orchestrator returned status %d: %s", code, string(respBody))
	}
	return nil
}
