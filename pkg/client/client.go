// Package client talks to the workflow HTTP API and returns domain types.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/de-tools/workflow-builder/pkg/adapters"
	"github.com/de-tools/workflow-builder/pkg/models/api"
	"github.com/de-tools/workflow-builder/pkg/models/domain"
)

const defaultTimeout = 15 * time.Second

// APIError is a non-success response. Message is the server supplied error
// text when there is one.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("unexpected status code %d", e.StatusCode)
}

type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a client for the API served at baseURL. A nil httpClient
// gets a default one with a request timeout.
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

func (c *Client) List(ctx context.Context) ([]domain.Workflow, error) {
	var body api.WorkflowList
	if err := c.do(ctx, http.MethodGet, "/workflows", nil, &body); err != nil {
		return nil, err
	}

	workflows := make([]domain.Workflow, 0, len(body.Workflows))
	for _, wf := range body.Workflows {
		mapped, err := adapters.MapAPIWorkflowToDomain(wf)
		if err != nil {
			return nil, fmt.Errorf("failed to read workflow %s: %w", wf.ID, err)
		}
		workflows = append(workflows, mapped)
	}
	return workflows, nil
}

// Get returns domain.ErrWorkflowNotFound when the server answers 404.
func (c *Client) Get(ctx context.Context, id string) (*domain.Workflow, error) {
	var body api.WorkflowResponse
	err := c.do(ctx, http.MethodGet, workflowPath(id), nil, &body)
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound {
		return nil, domain.ErrWorkflowNotFound
	}
	if err != nil {
		return nil, err
	}

	wf, err := adapters.MapAPIWorkflowToDomain(body.Workflow)
	if err != nil {
		return nil, fmt.Errorf("failed to read workflow %s: %w", id, err)
	}
	return &wf, nil
}

func (c *Client) Create(ctx context.Context, draft domain.WorkflowDraft) (string, error) {
	var result api.Result
	if err := c.do(ctx, http.MethodPost, "/workflows", adapters.MapDomainDraftToAPI(draft), &result); err != nil {
		return "", err
	}
	if !result.Success {
		return "", &APIError{StatusCode: http.StatusOK, Message: result.Error}
	}
	return result.ID, nil
}

func (c *Client) Update(ctx context.Context, id string, draft domain.WorkflowDraft) error {
	return c.mutate(ctx, http.MethodPut, workflowPath(id), adapters.MapDomainDraftToAPI(draft))
}

func (c *Client) SetStatus(ctx context.Context, id string, isRunning bool) error {
	return c.mutate(ctx, http.MethodPatch, workflowPath(id)+"/status", api.StatusInput{IsRunning: &isRunning})
}

func (c *Client) Delete(ctx context.Context, id string) error {
	return c.mutate(ctx, http.MethodDelete, workflowPath(id), nil)
}

func (c *Client) mutate(ctx context.Context, method, path string, in any) error {
	var result api.Result
	if err := c.do(ctx, method, path, in, &result); err != nil {
		return err
	}
	if !result.Success {
		return &APIError{StatusCode: http.StatusOK, Message: result.Error}
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var reqBody io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		// both envelopes carry the message in "error"
		var envelope api.ErrorResponse
		_ = json.Unmarshal(data, &envelope)
		return &APIError{StatusCode: resp.StatusCode, Message: envelope.Error}
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode response body: %w", err)
	}
	return nil
}

func workflowPath(id string) string {
	return "/workflows/" + url.PathEscape(id)
}
