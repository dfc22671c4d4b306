// Package item implements the item subcommands.
package item

import (
	"github.com/mitchellh/cli"

	"github.com/weee-open/gotarallo/internal/cmd/base"
)

type Command struct {
	*base.Command
}

func (c *Command) Synopsis() string {
	return "Inspect and move inventory items"
}

func (c *Command) Help() string {
	return `Usage: tarallo item <subcommand> [options] [args]

  This command groups subcommands for working with single items.`
}

func (c *Command) Run(args []string) int {
	return cli.RunResultHelp
}
