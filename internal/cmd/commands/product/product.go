// Package product implements the product subcommands.
package product

import (
	"github.com/mitchellh/cli"

	"github.com/weee-open/gotarallo/internal/cmd/base"
)

type Command struct {
	*base.Command
}

func (c *Command) Synopsis() string {
	return "Inspect products"
}

func (c *Command) Help() string {
	return `Usage: tarallo product <subcommand> [options] [args]

  This command groups subcommands for working with products, the
  shared feature sets attached to items by brand, model and variant.`
}

func (c *Command) Run(args []string) int {
	return cli.RunResultHelp
}
