package status

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/weee-open/gotarallo/internal/cmd/base"
)

type Command struct {
	*base.Command

	flagWait time.Duration
}

func (c *Command) Synopsis() string {
	return "Check server reachability and credentials"
}

func (c *Command) Help() string {
	return `Usage: tarallo status [options]

  Probes the server's session endpoint and reports whether the
  configured credentials are accepted.` +
		c.Flags().Help()
}

func (c *Command) Flags() *base.FlagSet {
	f := base.NewFlagSet(flag.NewFlagSet("status", flag.ExitOnError))

	c.ClientFlags(f)
	f.DurationVar(
		&c.flagWait, "wait", 0,
		"Keep retrying until the server is reachable, for at most this long.",
	)

	return f
}

func (c *Command) Run(args []string) int {
	if err := c.Flags().Parse(args); err != nil {
		c.UI.Error(fmt.Sprintf("error parsing flags: %v", err))
		return 1
	}

	client, err := c.Client()
	if err != nil {
		c.UI.Error(err.Error())
		return 1
	}
	defer client.CloseIdleConnections()

	ctx := context.Background()
	if c.flagWait > 0 {
		if err := client.WaitReady(ctx, c.flagWait); err != nil {
			c.UI.Error(fmt.Sprintf("server not ready: %v", err))
			return 1
		}
	}

	authenticated, err := client.Status(ctx)
	if err != nil {
		c.UI.Error(fmt.Sprintf("status check failed: %v", err))
		return 1
	}

	if !authenticated {
		c.UI.Warn("server is up, but the credentials were not accepted")
		return 1
	}
	c.UI.Output("server is up and the credentials are valid")
	return 0
}
