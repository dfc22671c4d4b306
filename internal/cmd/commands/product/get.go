package product

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

	flagAll bool
}

func (c *GetCommand) Synopsis() string {
	return "Fetch a product and print it as JSON"
}

func (c *GetCommand) Help() string {
	return `Usage: tarallo product get [options] BRAND MODEL [VARIANT]

  Fetches one product. When VARIANT is omitted the default variant is
  used; with -all every variant of the model is printed.` +
		c.Flags().Help()
}

func (c *GetCommand) Flags() *base.FlagSet {
	f := base.NewFlagSet(flag.NewFlagSet("get", flag.ExitOnError))

	c.ClientFlags(f)
	f.BoolVar(
		&c.flagAll, "all", false,
		"Print all variants of the model instead of a single product.",
	)

	return f
}

func (c *GetCommand) Run(args []string) int {
	flags := c.Flags()
	if err := flags.Parse(args); err != nil {
		c.UI.Error(fmt.Sprintf("error parsing flags: %v", err))
		return 1
	}
	rest := flags.Args()
	if len(rest) < 2 || len(rest) > 3 {
		c.UI.Error("a brand and a model are required, optionally followed by a variant")
		return 1
	}
	brand, model := rest[0], rest[1]
	variant := ""
	if len(rest) == 3 {
		variant = rest[2]
	}

	client, err := c.Client()
	if err != nil {
		c.UI.Error(err.Error())
		return 1
	}
	defer client.CloseIdleConnections()

	ctx := context.Background()

	var out any
	if c.flagAll {
		out, err = client.GetProducts(ctx, brand, model)
	} else {
		out, err = client.GetProduct(ctx, brand, model, variant)
	}
	if err != nil {
		var notFound *tarallo.ProductNotFoundError
		if errors.As(err, &notFound) {
			c.UI.Error(fmt.Sprintf("product %s %s doesn't exist", brand, model))
			return 1
		}
		c.UI.Error(fmt.Sprintf("error fetching product: %v", err))
		return 1
	}

	rendered, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		c.UI.Error(fmt.Sprintf("error rendering product: %v", err))
		return 1
	}
	c.UI.Output(string(rendered))
	return 0
}
