package item

import (
	"context"
	"flag"
	"fmt"

	"github.com/weee-open/gotarallo/internal/cmd/base"
)

type SearchCommand struct {
	*base.Command
}

func (c *SearchCommand) Synopsis() string {
	return "List item codes matching a feature value"
}

func (c *SearchCommand) Help() string {
	return `Usage: tarallo item search [options] FEATURE VALUE

  Prints the codes of all items whose FEATURE equals VALUE, one per
  line. Example: tarallo item search type ram` +
		c.Flags().Help()
}

func (c *SearchCommand) Flags() *base.FlagSet {
	f := base.NewFlagSet(flag.NewFlagSet("search", flag.ExitOnError))
	c.ClientFlags(f)
	return f
}

func (c *SearchCommand) Run(args []string) int {
	flags := c.Flags()
	if err := flags.Parse(args); err != nil {
		c.UI.Error(fmt.Sprintf("error parsing flags: %v", err))
		return 1
	}
	if len(flags.Args()) != 2 {
		c.UI.Error("a feature name and a value are required")
		return 1
	}
	feature, value := flags.Arg(0), flags.Arg(1)

	client, err := c.Client()
	if err != nil {
		c.UI.Error(err.Error())
		return 1
	}
	defer client.CloseIdleConnections()

	codes, err := client.GetCodesByFeature(context.Background(), feature, value)
	if err != nil {
		c.UI.Error(fmt.Sprintf("error searching items: %v", err))
		return 1
	}

	for _, code := range codes {
		c.UI.Output(code)
	}
	return 0
}
