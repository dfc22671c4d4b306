package item

import (
	"context"
	"flag"
	"fmt"

	"github.com/weee-open/gotarallo/internal/cmd/base"
)

type RestoreCommand struct {
	*base.Command
}

func (c *RestoreCommand) Synopsis() string {
	return "Restore a deleted item into a location"
}

func (c *RestoreCommand) Help() string {
	return `Usage: tarallo item restore [options] CODE LOCATION` +
		c.Flags().Help()
}

func (c *RestoreCommand) Flags() *base.FlagSet {
	f := base.NewFlagSet(flag.NewFlagSet("restore", flag.ExitOnError))
	c.ClientFlags(f)
	return f
}

func (c *RestoreCommand) Run(args []string) int {
	flags := c.Flags()
	if err := flags.Parse(args); err != nil {
		c.UI.Error(fmt.Sprintf("error parsing flags: %v", err))
		return 1
	}
	if len(flags.Args()) != 2 {
		c.UI.Error("an item code and a destination are required")
		return 1
	}
	code, location := flags.Arg(0), flags.Arg(1)

	client, err := c.Client()
	if err != nil {
		c.UI.Error(err.Error())
		return 1
	}
	defer client.CloseIdleConnections()

	restored, err := client.RestoreItem(context.Background(), code, location)
	if err != nil {
		c.UI.Error(fmt.Sprintf("error restoring item: %v", err))
		return 1
	}
	if !restored {
		c.UI.Warn(fmt.Sprintf("item %s was not restored", code))
		return 1
	}

	c.UI.Output(fmt.Sprintf("restored %s into %s", code, location))
	return 0
}
