package item

import (
	"context"
	"flag"
	"fmt"

	"github.com/weee-open/gotarallo/internal/cmd/base"
)

type TravasoCommand struct {
	*base.Command
}

func (c *TravasoCommand) Synopsis() string {
	return "Empty a container into another location"
}

func (c *TravasoCommand) Help() string {
	return `Usage: tarallo item travaso [options] CODE LOCATION

  Moves every item directly inside CODE into LOCATION, leaving the
  container itself where it is. Stops at the first item that fails to
  move; already-moved items stay moved.` +
		c.Flags().Help()
}

func (c *TravasoCommand) Flags() *base.FlagSet {
	f := base.NewFlagSet(flag.NewFlagSet("travaso", flag.ExitOnError))
	c.ClientFlags(f)
	return f
}

func (c *TravasoCommand) Run(args []string) int {
	flags := c.Flags()
	if err := flags.Parse(args); err != nil {
		c.UI.Error(fmt.Sprintf("error parsing flags: %v", err))
		return 1
	}
	if len(flags.Args()) != 2 {
		c.UI.Error("a container code and a destination are required")
		return 1
	}
	code, location := flags.Arg(0), flags.Arg(1)

	client, err := c.Client()
	if err != nil {
		c.UI.Error(err.Error())
		return 1
	}
	defer client.CloseIdleConnections()

	if err := client.Travaso(context.Background(), code, location); err != nil {
		c.UI.Error(fmt.Sprintf("error emptying container: %v", err))
		return 1
	}

	c.UI.Output(fmt.Sprintf("emptied %s into %s", code, location))
	return 0
}
