// Package transport provides the HTTP plumbing shared by the source clients
// and the destination client: fixed timeouts, status handling and retries
// for idempotent requests.
package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog/log"
)

const (
	// Timeout applies separately to connecting, waiting for response headers
	// and waiting for an idle pooled connection.
	Timeout = 60 * time.Second

	// MaxRetries bounds retries of idempotent requests.
	MaxRetries = 3

	maxResponseSize = 50 * 1024 * 1024
)

// ErrUnauthorized is wrapped by StatusError for 401 and 403 responses.
var ErrUnauthorized = errors.New("authentication failed")

// StatusError is returned for non-2xx responses.
type StatusError struct {
	Method string
	URL    string
	Code   int
	Body   string
}

func (e *StatusError) Error() string {
	body := e.Body
	if len(body) > 512 {
		body = body[:512] + "..."
	}
	if body == "" {
		return fmt.Sprintf("%s %s returned status %d", e.Method, e.URL, e.Code)
	}
	return fmt.Sprintf("%s %s returned status %d: %s", e.Method, e.URL, e.Code, body)
}

// Unwrap maps auth failures to ErrUnauthorized.
func (e *StatusError) Unwrap() error {
	if e.Code == http.StatusUnauthorized || e.Code == http.StatusForbidden {
		return ErrUnauthorized
	}
	return nil
}

// NewHTTPClient returns a client with the fixed connect, socket and
// connection-request timeouts. Redirects are followed.
func NewHTTPClient() *http.Client {
	dialer := &net.Dialer{Timeout: Timeout, KeepAlive: 30 * time.Second}
	return &http.Client{
		Transport: &http.Transport{
			Proxy:                 http.ProxyFromEnvironment,
			DialContext:           dialer.DialContext,
			TLSHandshakeTimeout:   Timeout,
			ResponseHeaderTimeout: Timeout,
			IdleConnTimeout:       Timeout,
			MaxIdleConns:          10,
		},
	}
}

// Authorizer decorates outgoing requests with credentials.
type Authorizer func(req *http.Request)

// Bearer returns an Authorizer setting a bearer token. Blank tokens leave the
// request anonymous.
func Bearer(token string) Authorizer {
	return func(req *http.Request) {
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}
}

// Basic returns an Authorizer using HTTP basic auth.
func Basic(user, password string) Authorizer {
	return func(req *http.Request) {
		req.SetBasicAuth(user, password)
	}
}

// Anonymous leaves requests untouched.
func Anonymous(*http.Request) {}

// Client executes JSON requests against one API.
type Client struct {
	HTTP    *http.Client
	Auth    Authorizer
	Headers map[string]string
	// Debug logs every request and response status.
	Debug bool
}

// GetJSON performs an idempotent GET, retrying rate limits and gateway
// errors, and decodes the response into out.
func (c *Client) GetJSON(ctx context.Context, url string, out any) error {
	body, err := c.do(ctx, http.MethodGet, url, nil, true)
	if err != nil {
		return err
	}
	return decode(body, out)
}

// PostJSON sends in as JSON once, without retries, and decodes the response
// into out when out is not nil.
func (c *Client) PostJSON(ctx context.Context, url string, in, out any) error {
	payload, err := encode(in)
	if err != nil {
		return err
	}
	body, err := c.do(ctx, http.MethodPost, url, payload, false)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	return decode(body, out)
}

// QueryJSON is a POST used for reads (search endpoints that take a body).
// It is retried like a GET.
func (c *Client) QueryJSON(ctx context.Context, url string, in, out any) error {
	payload, err := encode(in)
	if err != nil {
		return err
	}
	body, err := c.do(ctx, http.MethodPost, url, payload, true)
	if err != nil {
		return err
	}
	return decode(body, out)
}

func (c *Client) do(ctx context.Context, method, url string, payload []byte, retry bool) ([]byte, error) {
	httpClient := c.HTTP
	if httpClient == nil {
		httpClient = NewHTTPClient()
	}

	var body []byte
	attempt := 0
	bo := &hintedBackOff{BackOff: backoff.WithMaxRetries(newBackOff(), MaxRetries)}
	op := func() error {
		attempt++
		var reader io.Reader
		if payload != nil {
			reader = bytes.NewReader(payload)
		}
		req, err := http.NewRequestWithContext(ctx, method, url, reader)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("failed to create request: %w", err))
		}
		req.Header.Set("Accept", "application/json")
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		for k, v := range c.Headers {
			req.Header.Set(k, v)
		}
		if c.Auth != nil {
			c.Auth(req)
		}

		if c.Debug {
			log.Debug().Str("method", method).Str("url", url).Int("attempt", attempt).Msg("HTTP request")
		}

		resp, err := httpClient.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return backoff.Permanent(ctx.Err())
			}
			return backoff.Permanent(err)
		}
		defer func() { _ = resp.Body.Close() }()

		data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
		if err != nil {
			return backoff.Permanent(fmt.Errorf("failed to read response: %w", err))
		}

		if c.Debug {
			log.Debug().Str("method", method).Str("url", url).Int("status", resp.StatusCode).Int("bytes", len(data)).Msg("HTTP response")
		}

		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			body = data
			return nil
		}

		statusErr := &StatusError{Method: method, URL: url, Code: resp.StatusCode, Body: string(data)}
		if !retry || !retryable(resp.StatusCode) {
			return backoff.Permanent(statusErr)
		}
		bo.hint = retryAfter(resp.Header.Get("Retry-After"))
		log.Warn().Int("status", resp.StatusCode).Str("url", url).Int("attempt", attempt).Msg("Retrying request")
		return statusErr
	}

	if err := backoff.Retry(op, backoff.WithContext(bo, ctx)); err != nil {
		return nil, err
	}
	return body, nil
}

// newBackOff is replaced in tests.
var newBackOff = func() backoff.BackOff {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = time.Second
	bo.MaxInterval = 30 * time.Second
	bo.MaxElapsedTime = 2 * time.Minute
	return bo
}

// hintedBackOff prefers a server supplied Retry-After delay over the
// exponential schedule, without extending the retry budget.
type hintedBackOff struct {
	backoff.BackOff
	hint time.Duration
}

func (b *hintedBackOff) NextBackOff() time.Duration {
	next := b.BackOff.NextBackOff()
	if next == backoff.Stop {
		return next
	}
	if b.hint > 0 {
		next, b.hint = b.hint, 0
	}
	return next
}

func retryable(code int) bool {
	switch code {
	case http.StatusTooManyRequests, http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return true
	}
	return false
}

func retryAfter(header string) time.Duration {
	if header == "" {
		return 0
	}
	seconds, err := strconv.Atoi(header)
	if err != nil || seconds <= 0 {
		return 0
	}
	return time.Duration(seconds) * time.Second
}

func encode(in any) ([]byte, error) {
	switch v := in.(type) {
	case nil:
		return []byte("{}"), nil
	case json.RawMessage:
		return v, nil
	case []byte:
		return v, nil
	}
	data, err := json.Marshal(in)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}
	return data, nil
}

func decode(body []byte, out any) error {
	if out == nil || len(body) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
