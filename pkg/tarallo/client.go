package tarallo

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/goccy/go-json"
	"github.com/hashicorp/go-hclog"
)

// validResponses is the closed set of status codes the server uses to
// signal an outcome the client knows how to interpret. Anything else is
// treated as the server misbehaving.
var validResponses = map[int]bool{
	http.StatusOK:         true,
	http.StatusCreated:    true,
	http.StatusNoContent:  true,
	http.StatusBadRequest: true,
	http.StatusForbidden:  true,
	http.StatusNotFound:   true,
}

// Response is the raw outcome of the last HTTP exchange, kept around so
// callers can inspect status and body after an operation.
type Response struct {
	Status int
	Body   []byte
}

// Client is an authenticated session against one inventory server.
//
// It owns the base URL, the credential and the HTTP transport, and
// translates status codes into typed errors uniformly for every request.
// Endpoint-specific meaning (say, what a 404 means on a move) is
// resolved by the operation methods on top.
//
// A Client is not safe for concurrent use: the last-response record and
// the cookie session are unsynchronized. Use one client per concurrent
// actor.
type Client struct {
	config *Config
	client *http.Client
	token  string
	logger hclog.Logger

	last          *Response
	authenticated bool
}

// NewClient creates a client session for the given configuration. No
// request is made yet; password sessions need an explicit Login.
func NewClient(cfg *Config) (*Client, error) {
	if cfg.TLSVerify == nil {
		defaults := DefaultConfig()
		cfg.TLSVerify = defaults.TLSVerify
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultConfig().Timeout
	}
	if cfg.Logger == nil {
		cfg.Logger = hclog.NewNullLogger()
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	client := cfg.NewHTTPClient()
	if cfg.Username != "" {
		// Cookie-backed session: the jar carries what Login sets.
		jar, err := cookiejar.New(nil)
		if err != nil {
			return nil, err
		}
		client.Jar = jar
	}

	return &Client{
		config: cfg,
		client: client,
		token:  normalizeToken(cfg.Token),
		logger: cfg.Logger.Named("tarallo-client"),
	}, nil
}

// normalizeToken strips the stray whitespace and newlines that come with
// copy-pasted tokens, once, at construction.
func normalizeToken(token string) string {
	token = strings.ReplaceAll(token, "\n", "")
	token = strings.ReplaceAll(token, "\r", "")
	return strings.TrimSpace(token)
}

// prepareURL joins path segments against the base URL without doubling
// or dropping slashes. Segments must already be percent-encoded.
func (c *Client) prepareURL(parts ...string) string {
	var b strings.Builder
	b.WriteString(c.config.BaseURL)
	for _, p := range parts {
		p = strings.Trim(p, "/")
		if p == "" {
			continue
		}
		b.WriteString("/")
		b.WriteString(p)
	}
	return b.String()
}

// send performs one HTTP exchange: attach auth, dispatch, read the body
// and record it as the last response. Transport failures come back as
// ConnectivityError. No status interpretation happens here.
func (c *Client) send(ctx context.Context, method, path string, body []byte) (*Response, error) {
	reqURL := c.prepareURL(path)

	var reader io.Reader = http.NoBody
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, reader)
	if err != nil {
		return nil, err
	}

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Token "+c.token)
	}

	c.logger.Debug("sending request", "method", method, "url", reqURL)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &ConnectivityError{Err: err}
	}
	defer resp.Body.Close()

	respBody, err := readBody(resp)
	if err != nil {
		return nil, &ConnectivityError{Err: err}
	}

	last := &Response{Status: resp.StatusCode, Body: respBody}
	c.last = last
	return last, nil
}

// do is the single error-translation boundary every operation goes
// through. On a 401 it re-validates the credential once and replays the
// exact same request; a second 401 is final. Statuses outside the
// recognized set fail closed as ServerError.
func (c *Client) do(ctx context.Context, method, path string, body []byte) (*Response, error) {
	resp, err := c.send(ctx, method, path, body)
	if err != nil {
		return nil, err
	}

	if resp.Status == http.StatusUnauthorized {
		c.authenticated = false
		c.logger.Warn("credential rejected, re-authenticating once", "method", method, "path", path)

		if err := c.reauthenticate(ctx); err != nil {
			return nil, err
		}
		resp, err = c.send(ctx, method, path, body)
		if err != nil {
			return nil, err
		}
		if resp.Status == http.StatusUnauthorized {
			return nil, &AuthenticationError{Message: "credential rejected twice"}
		}
	}

	if resp.Status >= 500 || !validResponses[resp.Status] {
		return nil, &ServerError{Status: resp.Status, Body: string(resp.Body)}
	}

	return resp, nil
}

// reauthenticate refreshes the credential before the single replay.
// Password sessions log in again; tokens have nothing to refresh, the
// replay itself is the one retry.
func (c *Client) reauthenticate(ctx context.Context) error {
	if c.config.Username == "" {
		return nil
	}
	return c.Login(ctx)
}

// Login establishes a cookie-backed session with the username/password
// credential. Token sessions never need it.
func (c *Client) Login(ctx context.Context) error {
	if c.config.Username == "" {
		return &AuthenticationError{Message: "no username/password credentials configured"}
	}

	body, err := json.Marshal(map[string]string{
		"username": c.config.Username,
		"password": c.config.Password,
	})
	if err != nil {
		return err
	}

	resp, err := c.send(ctx, http.MethodPost, "/session", body)
	if err != nil {
		return err
	}

	switch resp.Status {
	case http.StatusOK, http.StatusNoContent:
		c.authenticated = true
		c.logger.Info("logged in", "username", c.config.Username)
		return nil
	case http.StatusBadRequest, http.StatusUnauthorized, http.StatusForbidden:
		return &AuthenticationError{Message: "login rejected"}
	default:
		return &ServerError{Status: resp.Status, Body: string(resp.Body)}
	}
}

// Logout tears down a cookie-backed session.
func (c *Client) Logout(ctx context.Context) error {
	resp, err := c.send(ctx, http.MethodDelete, "/session", nil)
	if err != nil {
		return err
	}
	c.authenticated = false

	switch resp.Status {
	case http.StatusOK, http.StatusNoContent:
		return nil
	default:
		return &ServerError{Status: resp.Status, Body: string(resp.Body)}
	}
}

// Status asks the session-introspection endpoint whether the current
// credential is accepted. It never triggers the automatic re-auth.
func (c *Client) Status(ctx context.Context) (bool, error) {
	resp, err := c.send(ctx, http.MethodGet, "/session", nil)
	if err != nil {
		return false, err
	}

	switch resp.Status {
	case http.StatusOK, http.StatusNoContent:
		return true, nil
	case http.StatusUnauthorized, http.StatusForbidden:
		return false, nil
	default:
		return false, &ServerError{Status: resp.Status, Body: string(resp.Body)}
	}
}

// WaitReady polls the session endpoint with exponential backoff until
// the server is reachable, the credential is rejected, or maxElapsed
// runs out. Meant for scripts that start alongside the server; normal
// requests never wait.
func (c *Client) WaitReady(ctx context.Context, maxElapsed time.Duration) error {
	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = maxElapsed

	return backoff.Retry(func() error {
		_, err := c.Status(ctx)
		if err == nil {
			return nil
		}
		var connErr *ConnectivityError
		var srvErr *ServerError
		if errors.As(err, &connErr) || errors.As(err, &srvErr) {
			c.logger.Debug("server not ready yet", "error", err)
			return err
		}
		return backoff.Permanent(err)
	}, backoff.WithContext(bo, ctx))
}

// maxResponseBody bounds how much of a response is read and recorded,
// so a misbehaving server cannot make the client allocate unbounded
// memory. Real payloads are far below this.
const maxResponseBody = 4 << 20 // 4MB

func readBody(resp *http.Response) ([]byte, error) {
	return io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
}

// LastResponse returns the raw status and body of the most recent HTTP
// exchange, or nil before the first request.
func (c *Client) LastResponse() *Response {
	return c.last
}

// CloseIdleConnections releases the transport's pooled connections.
// The session stays usable afterward.
func (c *Client) CloseIdleConnections() {
	c.client.CloseIdleConnections()
}

// Verb wrappers keep the operation methods close to the endpoint table.

func (c *Client) get(ctx context.Context, path string) (*Response, error) {
	return c.do(ctx, http.MethodGet, path, nil)
}

func (c *Client) post(ctx context.Context, path string, body []byte) (*Response, error) {
	return c.do(ctx, http.MethodPost, path, body)
}

func (c *Client) put(ctx context.Context, path string, body []byte) (*Response, error) {
	return c.do(ctx, http.MethodPut, path, body)
}

func (c *Client) patch(ctx context.Context, path string, body []byte) (*Response, error) {
	return c.do(ctx, http.MethodPatch, path, body)
}

func (c *Client) delete(ctx context.Context, path string) (*Response, error) {
	return c.do(ctx, http.MethodDelete, path, nil)
}
