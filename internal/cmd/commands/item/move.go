package item

import (
	"context"
	"flag"
	"fmt"

	"github.com/weee-open/gotarallo/internal/cmd/base"
)

type MoveCommand struct {
	*base.Command
}

func (c *MoveCommand) Synopsis() string {
	return "Move an item into another location"
}

func (c *MoveCommand) Help() string {
	return `Usage: tarallo item move [options] CODE LOCATION

  Moves the item (and everything inside it) into LOCATION.` +
		c.Flags().Help()
}

func (c *MoveCommand) Flags() *base.FlagSet {
	f := base.NewFlagSet(flag.NewFlagSet("move", flag.ExitOnError))
	c.ClientFlags(f)
	return f
}

func (c *MoveCommand) Run(args []string) int {
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

	if err := client.MoveItem(context.Background(), code, location); err != nil {
		c.UI.Error(fmt.Sprintf("error moving item: %v", err))
		return 1
	}

	c.UI.Output(fmt.Sprintf("moved %s into %s", code, location))
	return 0
}
