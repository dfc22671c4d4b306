package item

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/weee-open/gotarallo/internal/cmd/base"
	"github.com/weee-open/gotarallo/pkg/tarallo"
)

type HistoryCommand struct {
	*base.Command

	flagLimit int
}

func (c *HistoryCommand) Synopsis() string {
	return "Print the audit history of an item"
}

func (c *HistoryCommand) Help() string {
	return `Usage: tarallo item history [options] CODE` +
		c.Flags().Help()
}

func (c *HistoryCommand) Flags() *base.FlagSet {
	f := base.NewFlagSet(flag.NewFlagSet("history", flag.ExitOnError))

	c.ClientFlags(f)
	f.IntVar(
		&c.flagLimit, "limit", 20,
		"Maximum number of entries to fetch.",
	)

	return f
}

func (c *HistoryCommand) Run(args []string) int {
	flags := c.Flags()
	if err := flags.Parse(args); err != nil {
		c.UI.Error(fmt.Sprintf("error parsing flags: %v", err))
		return 1
	}
	if len(flags.Args()) != 1 {
		c.UI.Error("exactly one item code is required")
		return 1
	}
	code := flags.Arg(0)

	client, err := c.Client()
	if err != nil {
		c.UI.Error(err.Error())
		return 1
	}
	defer client.CloseIdleConnections()

	entries, err := client.GetHistory(context.Background(), code, c.flagLimit)
	if err != nil {
		c.UI.Error(fmt.Sprintf("error fetching history: %v", err))
		return 1
	}

	for _, entry := range entries {
		when := time.Unix(int64(entry.Time), 0).UTC().Format(time.RFC3339)
		line := fmt.Sprintf("%s  %-8s %s", when, describeChange(entry.Change), entry.User)
		if entry.Other != "" {
			line += "  " + entry.Other
		}
		c.UI.Output(line)
	}
	return 0
}

func describeChange(change tarallo.AuditChange) string {
	switch change {
	case tarallo.ChangeCreate:
		return "created"
	case tarallo.ChangeUpdate:
		return "updated"
	case tarallo.ChangeDelete:
		return "deleted"
	case tarallo.ChangeMove:
		return "moved"
	case tarallo.ChangeLose:
		return "lost"
	case tarallo.ChangeRename:
		return "renamed"
	default:
		return "unknown"
	}
}
