// Package client provides the API client for interacting with the Cumulus API
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	fiber "github.com/gofiber/fiber/v2"

	"github.com/strataworks/cumulus/internal/db/models"
	"github.com/strataworks/cumulus/pkg/api/v1/middleware"
	"github.com/strataworks/cumulus/pkg/api/v1/routes"
)

// DefaultTimeout is the default timeout for API requests
const DefaultTimeout = 30 * time.Second

// DefaultBaseURL is the default base URL for the API
var DefaultBaseURL = fmt.Sprintf("http://localhost:%s", routes.DefaultPort)

// Client is the interface for the API client
type Client interface {
	// Job endpoints
	ListJobs(ctx context.Context, state string) ([]models.Job, error)
	GetJob(ctx context.Context, id uint) (models.Job, error)
	StartJob(ctx context.Context, id uint) (models.Job, error)
	CancelJob(ctx context.Context, id uint) (models.Job, error)
	RestartJob(ctx context.Context, id uint) (models.Job, error)
	AuthorizeJob(ctx context.Context, id uint, token string) (models.Job, error)

	// Questionnaire endpoints
	ListQuestionnaires(ctx context.Context) ([]models.JobQuestionnaire, error)

	// Admin endpoints
	CreateToken(ctx context.Context) (models.JobToken, error)
	ListTokens(ctx context.Context) ([]models.JobToken, error)
}

// Options contains configuration options for the API client
type Options struct {
	// BaseURL is the base URL of the API
	BaseURL string

	// UserID is the identity asserted on every request
	UserID uint

	// Timeout is the request timeout
	Timeout time.Duration
}

// DefaultOptions returns the default client options
func DefaultOptions() *Options {
	return &Options{
		BaseURL: DefaultBaseURL,
		Timeout: DefaultTimeout,
	}
}

// APIClient implements the Client interface
type APIClient struct {
	baseURL string
	userID  uint
	timeout time.Duration
}

var _ Client = &APIClient{}

// NewClient creates a new API client with the given options
func NewClient(opts *Options) (*APIClient, error) {
	if opts == nil {
		opts = DefaultOptions()
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
	return &APIClient{
		baseURL: opts.BaseURL,
		userID:  opts.UserID,
		timeout: timeout,
	}, nil
}

// ListJobs retrieves jobs, optionally filtered by state
func (c *APIClient) ListJobs(ctx context.Context, state string) ([]models.Job, error) {
	endpoint := routes.APIv1Prefix + "/jobs"
	if state != "" {
		endpoint += "?state=" + url.QueryEscape(state)
	}
	var jobs []models.Job
	err := c.do(ctx, http.MethodGet, endpoint, nil, &jobs)
	return jobs, err
}

// GetJob retrieves a job by its ID
func (c *APIClient) GetJob(ctx context.Context, id uint) (models.Job, error) {
	var job models.Job
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("%s/jobs/%d", routes.APIv1Prefix, id), nil, &job)
	return job, err
}

// StartJob invokes the start action on a job
func (c *APIClient) StartJob(ctx context.Context, id uint) (models.Job, error) {
	var job models.Job
	err := c.do(ctx, http.MethodPost, fmt.Sprintf("%s/jobs/%d/start", routes.APIv1Prefix, id), nil, &job)
	return job, err
}

// CancelJob invokes the cancel action on a job
func (c *APIClient) CancelJob(ctx context.Context, id uint) (models.Job, error) {
	var job models.Job
	err := c.do(ctx, http.MethodPost, fmt.Sprintf("%s/jobs/%d/cancel", routes.APIv1Prefix, id), nil, &job)
	return job, err
}

// RestartJob invokes the restart action on a job
func (c *APIClient) RestartJob(ctx context.Context, id uint) (models.Job, error) {
	var job models.Job
	err := c.do(ctx, http.MethodPost, fmt.Sprintf("%s/jobs/%d/restart", routes.APIv1Prefix, id), nil, &job)
	return job, err
}

// AuthorizeJob invokes the authorize action on a job with a run token
func (c *APIClient) AuthorizeJob(ctx context.Context, id uint, token string) (models.Job, error) {
	var job models.Job
	body := map[string]string{"token": token}
	err := c.do(ctx, http.MethodPost, fmt.Sprintf("%s/jobs/%d/authorize", routes.APIv1Prefix, id), body, &job)
	return job, err
}

// ListQuestionnaires retrieves the available questionnaires
func (c *APIClient) ListQuestionnaires(ctx context.Context) ([]models.JobQuestionnaire, error) {
	var questionnaires []models.JobQuestionnaire
	err := c.do(ctx, http.MethodGet, routes.APIv1Prefix+"/job-questionnaires", nil, &questionnaires)
	return questionnaires, err
}

// CreateToken mints a new run token. Admin only.
func (c *APIClient) CreateToken(ctx context.Context) (models.JobToken, error) {
	var token models.JobToken
	err := c.do(ctx, http.MethodPost, routes.APIv1Prefix+"/admin/job-tokens", nil, &token)
	return token, err
}

// ListTokens retrieves all run tokens. Admin only.
func (c *APIClient) ListTokens(ctx context.Context) ([]models.JobToken, error) {
	var tokens []models.JobToken
	err := c.do(ctx, http.MethodGet, routes.APIv1Prefix+"/admin/job-tokens", nil, &tokens)
	return tokens, err
}

func (c *APIClient) do(ctx context.Context, method, endpoint string, body, out interface{}) error {
	fullURL := c.baseURL + endpoint

	var agent *fiber.Agent
	switch method {
	case http.MethodGet:
		agent = fiber.Get(fullURL)
	case http.MethodPost:
		agent = fiber.Post(fullURL)
	case http.MethodPut:
		agent = fiber.Put(fullURL)
	default:
		return fmt.Errorf("unsupported method: %s", method)
	}
	agent.Timeout(c.timeout)
	agent.Set(middleware.HeaderUserID, strconv.FormatUint(uint64(c.userID), 10))

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
		return fmt.Errorf("request failed: %v", errs[0])
	}
	if code < http.StatusOK || code >= http.StatusMultipleChoices {
		var detail struct {
			Detail string `json:"detail"`
		}
		if err := json.Unmarshal(respBody, &detail); err == nil && detail.Detail != "" {
			return fmt.Errorf("API error (%d): %s", code, detail.Detail)
		}
		return fmt.Errorf("API error (%d): %s", code, string(respBody))
	}
	if out != nil {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}
