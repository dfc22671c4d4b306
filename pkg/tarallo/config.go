package tarallo

import (
	"crypto/tls"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/hashicorp/go-hclog"
)

// Config contains configuration for a client session.
//
// BaseURL must include the server's API version prefix (e.g.
// "https://tarallo.example.com/v2"); the client never guesses it.
// Exactly one credential mode is used: a pre-issued Token, or a
// Username/Password pair that establishes a cookie-backed session via
// Login.
type Config struct {
	// BaseURL is the server URL including the /v1 or /v2 prefix.
	BaseURL string

	// Token is the API token (Options > Get token on the server).
	Token string

	// Username and Password establish a cookie session instead of a
	// token. Requires an explicit Login call.
	Username string
	Password string

	// TLSVerify controls TLS certificate verification.
	// Set to false only for development with self-signed certs.
	TLSVerify *bool

	// Timeout for API requests.
	// Default: 30 seconds.
	Timeout time.Duration

	// Logger is optional; a null logger is used when nil.
	Logger hclog.Logger
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	tlsVerify := true
	return &Config{
		TLSVerify: &tlsVerify,
		Timeout:   30 * time.Second,
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("base URL is required")
	}

	parsedURL, err := url.Parse(c.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid base URL: %w", err)
	}
	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return fmt.Errorf("base URL must use http or https scheme, got: %s", parsedURL.Scheme)
	}

	hasToken := c.Token != ""
	hasLogin := c.Username != "" || c.Password != ""
	if !hasToken && !hasLogin {
		return fmt.Errorf("either a token or username/password credentials are required")
	}
	if hasToken && hasLogin {
		return fmt.Errorf("token and username/password credentials are mutually exclusive")
	}
	if hasLogin && (c.Username == "" || c.Password == "") {
		return fmt.Errorf("username and password must both be set")
	}

	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got: %v", c.Timeout)
	}

	return nil
}

// NewHTTPClient creates a configured HTTP client for this session.
func (c *Config) NewHTTPClient() *http.Client {
	transport := &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
	}

	if c.TLSVerify != nil && !*c.TLSVerify {
		transport.TLSClientConfig = &tls.Config{
			InsecureSkipVerify: true,
		}
	}

	return &http.Client{
		Timeout:   c.Timeout,
		Transport: transport,
	}
}
