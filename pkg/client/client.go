// Package client is the Go SDK for the AxiomGFX DILI analysis API.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"

	"github.com/turtacn/axiomgfx-dili/pkg/errors"
	"github.com/turtacn/axiomgfx-dili/pkg/types/common"
)

const Version = "0.1.0"

const headerRequestID = "X-Request-ID"

// Logger defines the logging interface used by the Client
type Logger interface {
	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}

// noopLogger is a no-op implementation of Logger
type noopLogger struct{}

func (noopLogger) Debugf(format string, args ...interface{}) {}
func (noopLogger) Infof(format string, args ...interface{})  {}
func (noopLogger) Errorf(format string, args ...interface{}) {}

// restyLogger adapts Logger to resty's logger, folding warnings into Infof.
type restyLogger struct{ l Logger }

func (r restyLogger) Errorf(format string, v ...interface{}) { r.l.Errorf(format, v...) }
func (r restyLogger) Warnf(format string, v ...interface{})  { r.l.Infof(format, v...) }
func (r restyLogger) Debugf(format string, v ...interface{}) { r.l.Debugf(format, v...) }

// Client is the DILI API SDK client
type Client struct {
	baseURL      string
	httpClient   *http.Client
	userAgent    string
	logger       Logger
	retryMax     int
	retryWaitMin time.Duration
	retryWaitMax time.Duration
	timeout      time.Duration
	headers      map[string]string

	rc *resty.Client

	molecules     *MoleculesClient
	moleculesOnce sync.Once
	compounds     *CompoundsClient
	compoundsOnce sync.Once
}

// APIError represents an error response from the API
type APIError struct {
	StatusCode int    `json:"status_code"`
	Code       string `json:"code"`
	Message    string `json:"message"`
	RequestID  string `json:"request_id"`
}

func (e *APIError) Error() string {
	code := e.Code
	if code == "" {
		code = "UNKNOWN"
	}
	return fmt.Sprintf("dili: %s (HTTP %d): %s [request_id=%s]", code, e.StatusCode, e.Message, e.RequestID)
}

func (e *APIError) IsNotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

func (e *APIError) IsBadRequest() bool {
	return e.StatusCode == http.StatusBadRequest
}

func (e *APIError) IsRateLimited() bool {
	return e.StatusCode == http.StatusTooManyRequests
}

func (e *APIError) IsServerError() bool {
	return e.StatusCode >= 500 && e.StatusCode < 600
}

// NewClient creates a client for the API rooted at baseURL.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, errors.New(errors.ErrCodeValidation, "baseURL is required")
	}
	parsedURL, err := url.Parse(baseURL)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeValidation, "invalid baseURL")
	}
	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return nil, errors.New(errors.ErrCodeValidation, "baseURL scheme must be http or https").
			WithDetail(parsedURL.Scheme)
	}

	c := &Client{
		baseURL:      strings.TrimSuffix(baseURL, "/"),
		httpClient:   &http.Client{},
		userAgent:    fmt.Sprintf("axiomgfx-dili-go-sdk/%s", Version),
		logger:       noopLogger{},
		retryMax:     3,
		retryWaitMin: 500 * time.Millisecond,
		retryWaitMax: 5 * time.Second,
		timeout:      30 * time.Second,
	}
	for _, opt := range opts {
		opt(c)
	}

	c.rc = resty.NewWithClient(c.httpClient).
		SetBaseURL(c.baseURL).
		SetHeaders(c.headers).
		SetHeader("User-Agent", c.userAgent).
		SetTimeout(c.timeout).
		SetLogger(restyLogger{c.logger}).
		SetRetryCount(c.retryMax).
		SetRetryWaitTime(c.retryWaitMin).
		SetRetryMaxWaitTime(c.retryWaitMax).
		AddRetryCondition(shouldRetry).
		OnBeforeRequest(func(_ *resty.Client, r *resty.Request) error {
			if r.Header.Get(headerRequestID) == "" {
				r.SetHeader(headerRequestID, uuid.New().String())
			}
			return nil
		})
	return c, nil
}

// BaseURL is the API root the client talks to.
func (c *Client) BaseURL() string { return c.baseURL }

// Molecules returns the molecules sub-client (lazy initialization, thread-safe)
func (c *Client) Molecules() *MoleculesClient {
	c.moleculesOnce.Do(func() {
		c.molecules = &MoleculesClient{client: c}
	})
	return c.molecules
}

// Compounds returns the compound-library sub-client.
func (c *Client) Compounds() *CompoundsClient {
	c.compoundsOnce.Do(func() {
		c.compounds = &CompoundsClient{client: c}
	})
	return c.compounds
}

// Info fetches the service banner at /.
func (c *Client) Info(ctx context.Context) (*common.ServiceInfo, error) {
	var out common.ServiceInfo
	if err := c.get(ctx, "/", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Liveness calls /healthz.
func (c *Client) Liveness(ctx context.Context) (*common.LivenessResponse, error) {
	var out common.LivenessResponse
	if err := c.get(ctx, "/healthz", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Readiness calls /readyz.  A not-ready service answers 503 with the
// component report, which is returned together with the *APIError.
func (c *Client) Readiness(ctx context.Context) (*common.ReadinessResponse, error) {
	var out common.ReadinessResponse
	resp, err := c.newRequest(context.WithValue(ctx, noRetryKey{}, true)).
		SetResult(&out).
		SetError(&out).
		SetHeader("Accept", "application/json").
		Get("/readyz")
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return &out, &APIError{
			StatusCode: resp.StatusCode(),
			Message:    out.Status,
			RequestID:  requestID(resp),
		}
	}
	return &out, nil
}

// noRetryKey marks requests whose error status is an answer, not a fault.
type noRetryKey struct{}

// shouldRetry retries transport errors, 5xx and 429.
func shouldRetry(r *resty.Response, err error) bool {
	if r != nil && r.Request != nil {
		if v, _ := r.Request.Context().Value(noRetryKey{}).(bool); v {
			return false
		}
	}
	if err != nil {
		return true
	}
	if r == nil {
		return false
	}
	code := r.StatusCode()
	return code == http.StatusTooManyRequests || (code >= 500 && code < 600)
}

func (c *Client) newRequest(ctx context.Context) *resty.Request {
	return c.rc.R().SetContext(ctx)
}

// do performs a JSON request.  result may be nil.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, result interface{}) error {
	var apiErr common.ErrorResponse
	req := c.newRequest(ctx).
		SetHeader("Accept", "application/json").
		SetError(&apiErr)
	if query != nil {
		req.SetQueryParamsFromValues(query)
	}
	if body != nil {
		req.SetHeader("Content-Type", "application/json").SetBody(body)
	}
	if result != nil {
		req.SetResult(result)
	}

	resp, err := req.Execute(method, path)
	if err != nil {
		c.logger.Errorf("%s %s failed: %v", method, path, err)
		return err
	}
	c.logger.Debugf("%s %s %d (%v)", method, path, resp.StatusCode(), resp.Time())

	if resp.IsError() {
		return toAPIError(resp, apiErr)
	}
	return nil
}

// raw performs a GET whose body is not JSON, such as a structure file.
func (c *Client) raw(ctx context.Context, path string, query url.Values) (*resty.Response, error) {
	req := c.newRequest(ctx)
	if query != nil {
		req.SetQueryParamsFromValues(query)
	}
	resp, err := req.Get(path)
	if err != nil {
		c.logger.Errorf("GET %s failed: %v", path, err)
		return nil, err
	}
	if resp.IsError() {
		return nil, toAPIError(resp, common.ErrorResponse{})
	}
	return resp, nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values, result interface{}) error {
	return c.do(ctx, http.MethodGet, path, query, nil, result)
}

func (c *Client) post(ctx context.Context, path string, body, result interface{}) error {
	return c.do(ctx, http.MethodPost, path, nil, body, result)
}

func toAPIError(resp *resty.Response, body common.ErrorResponse) *APIError {
	e := &APIError{
		StatusCode: resp.StatusCode(),
		Code:       body.Code,
		Message:    body.Error,
		RequestID:  requestID(resp),
	}
	if e.Message == "" && e.Code == "" {
		// Non-JSON error bodies (raw routes) are decoded by hand.
		if err := json.Unmarshal(resp.Body(), &body); err == nil {
			e.Code, e.Message = body.Code, body.Error
		} else {
			e.Message = strings.TrimSpace(string(resp.Body()))
		}
	}
	return e
}

func requestID(resp *resty.Response) string {
	if id := resp.Header().Get(headerRequestID); id != "" {
		return id
	}
	if resp.Request != nil {
		return resp.Request.Header.Get(headerRequestID)
	}
	return ""
}

//Personal.AI order the ending
