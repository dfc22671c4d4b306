package item

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"

	"github.com/weee-open/gotarallo/internal/cmd/base"
	"github.com/weee-open/gotarallo/pkg/tarallo"
)

type GetCommand struct {
	*base.Command

	flagDepth int
}

func (c *GetCommand) Synopsis() string {
	return "Fetch an item and print it as JSON"
}

func (c *GetCommand) Help() string {
	return `Usage: tarallo item get [options] CODE` +
		c.Flags().Help()
}

func (c *GetCommand) Flags() *base.FlagSet {
	f := base.NewFlagSet(flag.NewFlagSet("get", flag.ExitOnError))

	c.ClientFlags(f)
	f.IntVar(
		&c.flagDepth, "depth", 0,
		"How many levels of contained items to fetch. 0 means everything.",
	)

	return f
}

func (c *GetCommand) Run(args []string) int {
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

	item, err := client.GetItem(context.Background(), code, c.flagDepth)
	if err != nil {
		var notFound *tarallo.ItemNotFoundError
		if errors.As(err, &notFound) {
			c.UI.Error(fmt.Sprintf("item %s doesn't exist", code))
			return 1
		}
		c.UI.Error(fmt.Sprintf("error fetching item: %v", err))
		return 1
	}

	out, err := json.MarshalIndent(item, "", "  ")
	if err != nil {
		c.UI.Error(fmt.Sprintf("error rendering item: %v", err))
		return 1
	}
	c.UI.Output(string(out))
	return 0
}
