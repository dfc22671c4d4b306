package item

import (
	"context"
	"flag"
	"fmt"

	"github.com/weee-open/gotarallo/internal/cmd/base"
	"github.com/weee-open/gotarallo/pkg/tarallo"
)

type RemoveCommand struct {
	*base.Command
}

func (c *RemoveCommand) Synopsis() string {
	return "Mark an item as deleted"
}

func (c *RemoveCommand) Help() string {
	return `Usage: tarallo item remove [options] CODE

  Marks the item as deleted. Deleted items keep their code and can be
  restored with 'item restore'.` +
		c.Flags().Help()
}

func (c *RemoveCommand) Flags() *base.FlagSet {
	f := base.NewFlagSet(flag.NewFlagSet("remove", flag.ExitOnError))
	c.ClientFlags(f)
	return f
}

func (c *RemoveCommand) Run(args []string) int {
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

	result, err := client.RemoveItem(context.Background(), code)
	if err != nil {
		c.UI.Error(fmt.Sprintf("error removing item: %v", err))
		return 1
	}

	switch result {
	case tarallo.Removed:
		c.UI.Output(fmt.Sprintf("removed %s", code))
		return 0
	case tarallo.NeverExisted:
		c.UI.Warn(fmt.Sprintf("item %s doesn't exist", code))
		return 1
	default:
		c.UI.Error(fmt.Sprintf("item %s could not be removed", code))
		return 1
	}
}
