package base

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"

	"github.com/weee-open/gotarallo/pkg/tarallo"
)

// Env carries the connection settings read from TARALLO_* environment
// variables.
type Env struct {
	URL         string        `envconfig:"URL"`
	Token       string        `envconfig:"TOKEN"`
	Username    string        `envconfig:"USERNAME"`
	Password    string        `envconfig:"PASSWORD"`
	NoTLSVerify bool          `envconfig:"NO_TLS_VERIFY"`
	Timeout     time.Duration `envconfig:"TIMEOUT"`
}

// ClientFlags registers the connection flags that override the
// environment. Call it from any command that talks to the server.
func (c *Command) ClientFlags(f *FlagSet) {
	f.StringVar(
		&c.flagURL, "url", "",
		"Server base URL including the API prefix, e.g. https://tarallo.example.com/v2 (overrides TARALLO_URL).",
	)
	f.StringVar(
		&c.flagToken, "token", "",
		"API token (overrides TARALLO_TOKEN).",
	)
}

// Client builds a client from the environment and any flag overrides.
func (c *Command) Client() (*tarallo.Client, error) {
	var env Env
	if err := envconfig.Process("tarallo", &env); err != nil {
		return nil, fmt.Errorf("read environment: %w", err)
	}

	if c.flagURL != "" {
		env.URL = c.flagURL
	}
	if c.flagToken != "" {
		env.Token = c.flagToken
		env.Username, env.Password = "", ""
	}
	if env.URL == "" {
		return nil, fmt.Errorf("no server URL: set TARALLO_URL or pass -url")
	}

	cfg := &tarallo.Config{
		BaseURL:  env.URL,
		Token:    env.Token,
		Username: env.Username,
		Password: env.Password,
		Timeout:  env.Timeout,
		Logger:   c.Log,
	}
	if env.NoTLSVerify {
		verify := false
		cfg.TLSVerify = &verify
	}

	return tarallo.NewClient(cfg)
}
