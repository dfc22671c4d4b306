// Package bulk implements the batch upload subcommands.
package bulk

import (
	"github.com/mitchellh/cli"

	"github.com/weee-open/gotarallo/internal/cmd/base"
)

type Command struct {
	*base.Command
}

func (c *Command) Synopsis() string {
	return "Upload items in batches"
}

func (c *Command) Help() string {
	return `Usage: tarallo bulk <subcommand> [options] [args]

  This command groups subcommands for submitting many items at once,
  either from a JSON file or from a spreadsheet.`
}

func (c *Command) Run(args []string) int {
	return cli.RunResultHelp
}
