// Package api is the HTTP client for the remote HRIS API.
//
// The console owns no business logic: every list, approval and rejection is
// a call through this package. Responses are decoded leniently because the
// backend wraps lists inconsistently; see UnwrapList.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/jacksmith/hris/internal/logging"
)

const (
	// RequestIDHeader carries a per-request UUID for correlating server logs.
	RequestIDHeader = "X-Request-ID"
	// TenantHeader selects the tenant when the token spans several.
	TenantHeader = "X-Tenant-ID"

	// maxErrorBody caps how much of an error response is read.
	maxErrorBody = 64 << 10
)

// Client talks to the remote HRIS API.
type Client struct {
	baseURL    *url.URL
	token      string
	tenant     string
	httpClient *http.Client
	timeout    time.Duration
	log        *logrus.Entry
}

// Option configures a Client.
type Option func(*Client)

// WithToken sets the bearer token.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// WithTenant sets the X-Tenant-ID header value.
func WithTenant(tenant string) Option {
	return func(c *Client) { c.tenant = tenant }
}

// WithHTTPClient replaces the underlying http.Client. The client is used
// as given; WithTimeout does not modify it.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.httpClient = h }
}

// WithTimeout sets the per-request timeout of the http.Client created by New.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// WithLogger sets the logger used for request tracing.
func WithLogger(entry *logrus.Entry) Option {
	return func(c *Client) { c.log = entry }
}

// New returns a Client for the API rooted at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	if strings.TrimSpace(baseURL) == "" {
		return nil, errors.New("api url is empty")
	}
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, errors.Wrapf(err, "invalid api url %q", baseURL)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, errors.Errorf("invalid api url %q: scheme must be http or https", baseURL)
	}

	c := &Client{
		baseURL: u,
		log:     logging.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{Timeout: c.timeout}
	}
	return c, nil
}

// BaseURL returns the API root the client was created with.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// endpoint joins path and query onto the base URL.
func (c *Client) endpoint(path string, query url.Values) string {
	u := *c.baseURL
	u.Path = strings.TrimRight(u.Path, "/") + "/" + strings.TrimLeft(path, "/")
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	return u.String()
}

// do performs one request and returns the response body of a 2xx reply.
// Non-2xx replies become *Error.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, payload any) ([]byte, error) {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, errors.Wrap(err, "encode request body")
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.endpoint(path, query), body)
	if err != nil {
		return nil, errors.Wrapf(err, "build %s %s", method, path)
	}

	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set(RequestIDHeader, requestID)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	if c.tenant != "" {
		req.Header.Set(TenantHeader, c.tenant)
	}

	log := c.log.WithFields(logrus.Fields{
		"method":     method,
		"path":       path,
		"request_id": requestID,
	})

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.WithError(err).Debug("request failed")
		return nil, errors.Wrapf(err, "%s %s", method, path)
	}
	defer resp.Body.Close()

	log = log.WithFields(logrus.Fields{
		"status":   resp.StatusCode,
		"duration": time.Since(start).Round(time.Millisecond),
	})

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		apiErr := newError(resp.StatusCode, requestID, data)
		log.Debug("request rejected")
		return nil, apiErr
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrapf(err, "read %s %s response", method, path)
	}
	log.Debug("request completed")
	return data, nil
}

// getList performs a GET and decodes a wrapped list into out.
func (c *Client) getList(ctx context.Context, path string, query url.Values, out any) error {
	data, err := c.do(ctx, http.MethodGet, path, query, nil)
	if err != nil {
		return err
	}
	if err := decodeList(data, out); err != nil {
		return errors.Wrapf(err, "decode %s", path)
	}
	return nil
}

// branchQuery returns query values carrying branch_id when branchID is set.
// A nil branchID means "all branches" and omits the parameter.
func branchQuery(branchID *int64) url.Values {
	q := url.Values{}
	if branchID != nil {
		q.Set("branch_id", fmt.Sprintf("%d", *branchID))
	}
	return q
}
