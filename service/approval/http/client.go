// Package http implements approval.Service against a remote core.
package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	nethttp "net/http"
	"strings"
	"time"

	"github.com/viant/hibernator/model/execution"
	"github.com/viant/hibernator/service/approval"
	"github.com/viant/hibernator/tracing"
)

// Core endpoints.
const (
	InstancesPath = "/instances"
	DecisionsPath = "/api/v1/decisions"
)

// DefaultTimeout bounds a single call to the core.
const DefaultTimeout = 5 * time.Second

// Client talks to the core over HTTP. Calls are bounded and not retried.
type Client struct {
	baseURL    string
	timeout    time.Duration
	httpClient *nethttp.Client
	tokens     *TokenSource
	logger     *slog.Logger
}

// New creates a client for the core at baseURL.
func New(baseURL string, options ...Option) *Client {
	ret := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: DefaultTimeout,
		logger:  slog.Default(),
	}
	for _, option := range options {
		option(ret)
	}
	if ret.httpClient == nil {
		ret.httpClient = &nethttp.Client{}
	}
	return ret
}

// Instances lists executions known to the core.
func (c *Client) Instances(ctx context.Context) (instances []*execution.Instance, err error) {
	ctx, span := tracing.StartSpan(ctx, "approval.instances", tracing.KindClient)
	defer func() { tracing.EndSpan(span, err) }()

	response, err := c.do(ctx, nethttp.MethodGet, InstancesPath, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = response.Body.Close() }()
	span.SetStatusFromHTTPCode(response.StatusCode)
	if response.StatusCode != nethttp.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", response.StatusCode)
	}
	list := &approval.InstanceList{}
	if err = json.NewDecoder(response.Body).Decode(list); err != nil {
		return nil, fmt.Errorf("failed to decode instances: %w", err)
	}
	instances = list.ToInstances()
	span.WithInt("instances", len(instances))
	return instances, nil
}

// RequestDecision posts a decision request to the core.
func (c *Client) RequestDecision(ctx context.Context, request *approval.Request) (err error) {
	ctx, span := tracing.StartSpan(ctx, "approval.request_decision", tracing.KindClient)
	defer func() { tracing.EndSpan(span, err) }()
	span.WithAttributes(map[string]string{"execution.id": request.ExecutionID})

	body, err := json.Marshal(request)
	if err != nil {
		return fmt.Errorf("failed to marshal decision request: %w", err)
	}
	response, err := c.do(ctx, nethttp.MethodPost, DecisionsPath, body)
	if err != nil {
		return err
	}
	defer func() { _ = response.Body.Close() }()
	span.SetStatusFromHTTPCode(response.StatusCode)
	if response.StatusCode < 200 || response.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(response.Body, 1024))
		c.logger.Error("decision request rejected", "executionId", request.ExecutionID,
			"status", response.StatusCode, "body", strings.TrimSpace(string(detail)))
		return fmt.Errorf("unexpected status code: %d", response.StatusCode)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, body []byte) (*nethttp.Response, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		// the body is read by the caller before the context is released
		response, err := c.send(ctx, method, path, body)
		if err != nil {
			cancel()
			return nil, err
		}
		response.Body = &cancelOnClose{ReadCloser: response.Body, cancel: cancel}
		return response, nil
	}
	return c.send(ctx, method, path, body)
}

func (c *Client) send(ctx context.Context, method, path string, body []byte) (*nethttp.Response, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := nethttp.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.tokens != nil {
		token, err := c.tokens.Token()
		if err != nil {
			return nil, err
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}
	response, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	return response, nil
}

type cancelOnClose struct {
	io.ReadCloser
	cancel context.CancelFunc
}

func (c *cancelOnClose) Close() error {
	defer c.cancel()
	return c.ReadCloser.Close()
}

var _ approval.Service = (*Client)(nil)
