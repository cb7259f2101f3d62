// Package swarm is a typed client for the Swarm review service: the
// changelist check API and the asynchronous worker queue.
package swarm

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"html"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// Envelope is the JSON shape every Swarm GET answers with. Exactly one
// of the probe (Version) and check (IsValid/Messages) forms is
// populated; Error may accompany either.
type Envelope struct {
	Version  string   `json:"version,omitempty"`
	Error    string   `json:"error,omitempty"`
	IsValid  *bool    `json:"isValid,omitempty"`
	Messages []string `json:"messages,omitempty"`
}

// CheckType selects which level of changelist validation Swarm runs.
type CheckType string

const (
	CheckEnforced CheckType = "enforced"
	CheckStrict   CheckType = "strict"
	CheckShelve   CheckType = "shelve"
)

// Verdict is the outcome of a changelist check.
type Verdict struct {
	Valid    bool
	Messages []string
}

// Message joins the verdict messages for presentation, in order. An
// empty list yields an empty message.
func (v Verdict) Message() string {
	return strings.Join(v.Messages, "; ")
}

// ClientOption configures the client.
type ClientOption func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithTimeout bounds every request. Zero leaves calls unbounded.
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.timeout = timeout
	}
}

// WithCookies prepends operator-supplied cookies ahead of the derived
// auth cookie. Swarm evaluates cookies in order, so the ordering is
// part of the contract.
func WithCookies(cookies string) ClientOption {
	return func(c *Client) {
		c.cookies = cookies
	}
}

// WithTLSVerification enables certificate and host verification.
// Verification is off unless explicitly enabled; existing deployments
// depend on the permissive default.
func WithTLSVerification(verify bool) ClientOption {
	return func(c *Client) {
		c.verifyTLS = verify
	}
}

// Client talks to one Swarm instance.
type Client struct {
	baseURL    string
	token      string
	cookies    string
	timeout    time.Duration
	verifyTLS  bool
	httpClient *http.Client
}

// NewClient creates a Swarm client. baseURL gains a trailing slash if
// missing; token authenticates both the check API and the queue.
func NewClient(baseURL, token string, opts ...ClientOption) *Client {
	if baseURL != "" && !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	c := &Client{
		baseURL: baseURL,
		token:   token,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.httpClient == nil {
		transport := http.DefaultTransport.(*http.Transport).Clone()
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: !c.verifyTLS}
		c.httpClient = &http.Client{
			Transport: otelhttp.NewTransport(transport),
		}
	}
	return c
}

// Get fetches path relative to the base URL and classifies the answer.
// Success requires both a transport-level response and a parseable
// envelope; the HTTP status itself is not consulted. Envelope
// precedence: a version field makes the whole envelope the result
// verbatim; otherwise a non-empty error field is a failure; otherwise
// the envelope is the result.
func (c *Client) Get(ctx context.Context, path string) (*Envelope, error) {
	ctx, cancel := c.bound(ctx)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	c.setHeaders(req, "")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreachable, err)
	}

	var env Envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("%w (status %d)", ErrUnexpectedFormat, resp.StatusCode)
	}

	if env.Version != "" {
		// Version-probe shape: the envelope is the result as-is.
		return &env, nil
	}
	if env.Error != "" {
		return &env, &RemoteError{Text: env.Error}
	}
	return &env, nil
}

// Post sends body to path relative to the base URL. Only HTTP 200 is
// success; any other status carries the decoded response body as the
// error message, and no response at all is ErrUnreachable.
func (c *Client) Post(ctx context.Context, path, body, contentType string) error {
	ctx, cancel := c.bound(ctx)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, strings.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	c.setHeaders(req, contentType)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnreachable, err)
	}

	if resp.StatusCode != http.StatusOK {
		return &ProtocolError{StatusCode: resp.StatusCode, Message: decodeBody(respBody)}
	}
	return nil
}

// Check runs one changelist validation of the given type for user.
func (c *Client) Check(ctx context.Context, typ CheckType, change, user string) (Verdict, error) {
	path := fmt.Sprintf("api/v9/changes/%s/check?type=%s&user=%s",
		url.PathEscape(change), typ, url.QueryEscape(user))
	env, err := c.Get(ctx, path)
	if err != nil {
		return Verdict{}, err
	}
	return Verdict{
		Valid:    env.IsValid != nil && *env.IsValid,
		Messages: env.Messages,
	}, nil
}

// Version fetches the remote service's version string.
func (c *Client) Version(ctx context.Context) (string, error) {
	env, err := c.Get(ctx, "api/version")
	if err != nil {
		return "", err
	}
	if env.Version == "" {
		return "", ErrUnexpectedFormat
	}
	return env.Version, nil
}

func (c *Client) setHeaders(req *http.Request, contentType string) {
	cookie := "SwarmToken=" + c.token
	if c.cookies != "" {
		cookie = c.cookies + "; " + cookie
	}
	req.Header.Set("Cookie", cookie)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("User-Agent", "p4d-swarm-extension/"+BuildVersion)
}

func (c *Client) bound(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.timeout > 0 {
		return context.WithTimeout(ctx, c.timeout)
	}
	return ctx, func() {}
}

// decodeBody turns an error response into plain text: Swarm answers
// non-200 with HTML whose entities and percent escapes need undoing.
func decodeBody(body []byte) string {
	s := html.UnescapeString(string(body))
	if u, err := url.PathUnescape(s); err == nil {
		s = u
	}
	return strings.TrimSpace(s)
}
