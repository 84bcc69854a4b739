package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shopstack/storefront-gateway/internal/session"
	"github.com/shopstack/storefront-gateway/pkg/config"
	pkgerrors "github.com/shopstack/storefront-gateway/pkg/errors"
	"github.com/shopstack/storefront-gateway/pkg/logger"
)

const (
	errorBodyReadLimit int64 = 4096
	idempotencyHeader        = "Idempotency-Key"
)

var errBaseURLRequired = errors.New("upstream base url is required")

// UnauthorizedHook fires when the backend rejects a bearer token, letting the
// caller clear its cached session. The 401 still propagates to the caller.
type UnauthorizedHook func(ctx context.Context, token string)

// Client is the authenticated REST client for the storefront backend. All
// gateway traffic to the backend funnels through it so status mapping and
// session invalidation happen in one place.
type Client struct {
	httpClient     *http.Client
	baseURL        string
	onUnauthorized UnauthorizedHook
	logger         *logger.Logger
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithUnauthorizedHook installs the session invalidation callback.
func WithUnauthorizedHook(hook UnauthorizedHook) Option {
	return func(c *Client) {
		c.onUnauthorized = hook
	}
}

// NewClient builds the backend client from config.
func NewClient(cfg config.UpstreamConfig, logg *logger.Logger, opts ...Option) (*Client, error) {
	base := strings.TrimSpace(cfg.BaseURL)
	if base == "" {
		return nil, errBaseURLRequired
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	client := &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(base, "/"),
		logger:     logg,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}
	return client, nil
}

// Ping checks backend reachability for the readiness probe.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.buildURL("/health"), nil)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build health request")
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return transportError(err, "backend health check")
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode >= 500 {
		return pkgerrors.New(pkgerrors.CodeUpstream, fmt.Sprintf("backend health returned %d", resp.StatusCode))
	}
	return nil
}

type requestSpec struct {
	method  string
	path    string
	query   url.Values
	body    any
	headers map[string]string
}

func (c *Client) do(ctx context.Context, sess session.Session, spec requestSpec, out any) error {
	var payload io.Reader
	if spec.body != nil {
		encoded, err := json.Marshal(spec.body)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "marshal request body")
		}
		payload = bytes.NewReader(encoded)
	}

	target := c.buildURL(spec.path)
	if len(spec.query) > 0 {
		target += "?" + spec.query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, spec.method, target, payload)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build backend request")
	}
	req.Header.Set("Accept", "application/json")
	if spec.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if sess.Token != "" {
		req.Header.Set("Authorization", "Bearer "+sess.Token)
	}
	for key, value := range spec.headers {
		req.Header.Set(key, value)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return transportError(err, fmt.Sprintf("%s %s", spec.method, spec.path))
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		return c.errorFromResponse(ctx, sess, resp, spec)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeUpstream, err, "decode backend response")
	}
	return nil
}

// doBlob fetches a binary document, returning the bytes and the filename
// suggested by the Content-Disposition header.
func (c *Client) doBlob(ctx context.Context, sess session.Session, path, fallbackName string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.buildURL(path), nil)
	if err != nil {
		return nil, "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build blob request")
	}
	if sess.Token != "" {
		req.Header.Set("Authorization", "Bearer "+sess.Token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, "", transportError(err, "GET "+path)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		return nil, "", c.errorFromResponse(ctx, sess, resp, requestSpec{method: http.MethodGet, path: path})
	}

	content, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", pkgerrors.Wrap(pkgerrors.CodeUpstream, err, "read blob body")
	}

	filename := fallbackName
	if disposition := resp.Header.Get("Content-Disposition"); disposition != "" {
		if _, params, err := mime.ParseMediaType(disposition); err == nil {
			if name := strings.TrimSpace(params["filename"]); name != "" {
				filename = name
			}
		}
	}
	return content, filename, nil
}

func (c *Client) errorFromResponse(ctx context.Context, sess session.Session, resp *http.Response, spec requestSpec) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyReadLimit))
	detail := parseErrorDetail(raw)

	code := pkgerrors.FromHTTPStatus(resp.StatusCode)
	if code == pkgerrors.CodeUnauthorized && c.onUnauthorized != nil && sess.Token != "" {
		c.onUnauthorized(ctx, sess.Token)
	}

	msg := detail
	if msg == "" {
		msg = fmt.Sprintf("backend returned %d", resp.StatusCode)
	}

	if c.logger != nil {
		logCtx := c.logger.WithFields(ctx, map[string]any{
			"backend_status": resp.StatusCode,
			"backend_path":   spec.path,
		})
		c.logger.Warn(logCtx, "backend request failed")
	}

	return pkgerrors.New(code, msg).WithDetails(map[string]any{
		"status": resp.StatusCode,
		"path":   spec.path,
	})
}

// parseErrorDetail understands the backend's error body: either
// {"detail": "..."} or {"detail": [{"msg": "..."}, ...]}.
func parseErrorDetail(raw []byte) string {
	if len(raw) == 0 {
		return ""
	}
	var envelope struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil || len(envelope.Detail) == 0 {
		return ""
	}

	var text string
	if err := json.Unmarshal(envelope.Detail, &text); err == nil {
		return strings.TrimSpace(text)
	}

	var items []struct {
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(envelope.Detail, &items); err == nil {
		parts := make([]string, 0, len(items))
		for _, item := range items {
			if trimmed := strings.TrimSpace(item.Msg); trimmed != "" {
				parts = append(parts, trimmed)
			}
		}
		return strings.Join(parts, ", ")
	}
	return ""
}

// transportError wraps failures that never produced an HTTP status. The hint
// matters: the common causes in deployment are the backend being down or a
// proxy/CORS misconfiguration, which look identical from a raw dial error.
func transportError(err error, op string) error {
	return pkgerrors.Wrap(
		pkgerrors.CodeTransport,
		err,
		fmt.Sprintf("%s: backend unreachable (check that the backend is running and the gateway origin is allowed)", op),
	)
}

func (c *Client) buildURL(path string) string {
	return c.baseURL + "/" + strings.TrimLeft(path, "/")
}
