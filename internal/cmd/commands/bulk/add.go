package bulk

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/weee-open/gotarallo/internal/cmd/base"
	"github.com/weee-open/gotarallo/pkg/tarallo"
)

type AddCommand struct {
	*base.Command

	flagFile       string
	flagIdentifier string
	flagOverwrite  bool
}

func (c *AddCommand) Synopsis() string {
	return "Submit a JSON batch of items"
}

func (c *AddCommand) Help() string {
	return `Usage: tarallo bulk add [options]

  Reads a JSON array of items and submits it as one batch. Each entry
  may carry "code", "parent", "features" and nested "contents".` +
		c.Flags().Help()
}

func (c *AddCommand) Flags() *base.FlagSet {
	f := base.NewFlagSet(flag.NewFlagSet("add", flag.ExitOnError))

	c.ClientFlags(f)
	f.StringVar(
		&c.flagFile, "file", "-",
		"Path of the JSON file to submit, or - for stdin.",
	)
	f.StringVar(
		&c.flagIdentifier, "identifier", "",
		"Batch identifier. A random one is generated when empty.",
	)
	f.BoolVar(
		&c.flagOverwrite, "overwrite", false,
		"Replace a previous batch with the same identifier.",
	)

	return f
}

func (c *AddCommand) Run(args []string) int {
	if err := c.Flags().Parse(args); err != nil {
		c.UI.Error(fmt.Sprintf("error parsing flags: %v", err))
		return 1
	}

	var reader io.Reader = os.Stdin
	if c.flagFile != "-" {
		f, err := os.Open(c.flagFile)
		if err != nil {
			c.UI.Error(fmt.Sprintf("error opening batch file: %v", err))
			return 1
		}
		defer f.Close()
		reader = f
	}

	var items []*tarallo.ItemToUpload
	if err := json.NewDecoder(reader).Decode(&items); err != nil {
		c.UI.Error(fmt.Sprintf("error decoding batch: %v", err))
		return 1
	}
	if len(items) == 0 {
		c.UI.Error("the batch is empty")
		return 1
	}

	client, err := c.Client()
	if err != nil {
		c.UI.Error(err.Error())
		return 1
	}
	defer client.CloseIdleConnections()

	accepted, err := client.BulkAdd(context.Background(), items, c.flagIdentifier, c.flagOverwrite)
	if err != nil {
		c.UI.Error(fmt.Sprintf("error submitting batch: %v", err))
		return 1
	}
	if !accepted {
		c.UI.Warn("the server refused the batch; use -overwrite to replace a previous one")
		return 1
	}

	c.UI.Output(fmt.Sprintf("submitted %d items", len(items)))
	return 0
}
