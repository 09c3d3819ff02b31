// Package command submits command envelopes to the event service's HTTP
// command endpoint.
package command

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/alpha-prosoft/eventseed/domain"
	"github.com/alpha-prosoft/eventseed/errors"
)

// AuthHeader is the header carrying the caller's token.
const AuthHeader = "x-authorization"

// maxErrorBody bounds how much of a failed response body lands in an error.
const maxErrorBody = 512

// Response is the endpoint's answer to a submitted envelope.
type Response struct {
	Status int
	Body   []byte
}

// Submitter sends a command envelope to the service.
type Submitter interface {
	Submit(ctx context.Context, env domain.CommandEnvelope) (*Response, error)
}

// Client POSTs command envelopes as JSON.
type Client struct {
	endpoint   string
	service    string
	token      string
	httpClient *http.Client
	logger     *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the HTTP client used for submissions.
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) {
		if c != nil {
			cl.httpClient = c
		}
	}
}

// WithToken sets the value of the x-authorization header.
func WithToken(token string) Option {
	return func(cl *Client) {
		cl.token = token
	}
}

// WithService sets the service keyword sent in the dbg_service query
// parameter, for example ":event-tournament-svc".
func WithService(service string) Option {
	return func(cl *Client) {
		cl.service = service
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(cl *Client) {
		cl.logger = logger
	}
}

// NewClient returns a Client posting to endpoint.
func NewClient(endpoint string, opts ...Option) *Client {
	c := &Client{
		endpoint:   endpoint,
		httpClient: http.DefaultClient,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Submit posts env and returns the response. Any non-2xx status is an error;
// the body of a successful response is returned uninspected.
//
// Errors:
//   - CodeInvalidInput: the endpoint URL cannot be parsed
//   - CodeSubmissionFailed: transport failure or non-2xx status
func (c *Client) Submit(ctx context.Context, env domain.CommandEnvelope) (*Response, error) {
	target, err := c.requestURL(env)
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(env)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "encode command envelope")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, bytes.NewReader(payload))
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeSubmissionFailed, "build command request")
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set(AuthHeader, c.token)
	}

	if c.logger != nil {
		c.logger.DebugContext(ctx, "submitting command",
			"endpoint", c.endpoint,
			"request_id", env.RequestID.String(),
			"commands", len(env.Commands),
		)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.WrapWithContext(err, errors.CodeSubmissionFailed, "command request failed",
			map[string]interface{}{"endpoint": c.endpoint})
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.WrapWithContext(err, errors.CodeSubmissionFailed, "read command response",
			map[string]interface{}{"status": resp.StatusCode})
	}

	if c.logger != nil {
		c.logger.InfoContext(ctx, "command response",
			"status", resp.StatusCode,
			"body", string(body),
		)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, errors.New(errors.CodeSubmissionFailed, "command endpoint returned "+resp.Status).
			WithContext("status", resp.StatusCode).
			WithContext("body", truncate(string(body), maxErrorBody))
	}

	return &Response{Status: resp.StatusCode, Body: body}, nil
}

// requestURL appends the dbg_service and dbg_cmds query parameters the
// gateway routes on.
func (c *Client) requestURL(env domain.CommandEnvelope) (string, error) {
	u, err := url.Parse(c.endpoint)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return "", errors.New(errors.CodeInvalidInput, "invalid command endpoint").
			WithContext("endpoint", c.endpoint)
	}

	q := u.Query()
	if c.service != "" {
		q.Set("dbg_service", c.service)
	}
	cmds := make([]string, 0, len(env.Commands))
	for _, cmd := range env.Commands {
		cmds = append(cmds, string(cmd.CmdID))
	}
	if len(cmds) > 0 {
		q.Set("dbg_cmds", strings.Join(cmds, ","))
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

var _ Submitter = (*Client)(nil)
