package bulk

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/weee-open/gotarallo/internal/cmd/base"
	"github.com/weee-open/gotarallo/pkg/importer"
)

type ImportCommand struct {
	*base.Command

	flagMapping    string
	flagIdentifier string
	flagOverwrite  bool
	flagDryRun     bool
	flagMaxErrors  int
}

func (c *ImportCommand) Synopsis() string {
	return "Import items from an .xlsx spreadsheet"
}

func (c *ImportCommand) Help() string {
	return `Usage: tarallo bulk import [options] WORKBOOK

  Reads an .xlsx workbook and submits its rows as one batch. A YAML
  mapping file declares which sheets to read and how their columns
  become features.` +
		c.Flags().Help()
}

func (c *ImportCommand) Flags() *base.FlagSet {
	f := base.NewFlagSet(flag.NewFlagSet("import", flag.ExitOnError))

	c.ClientFlags(f)
	f.StringVar(
		&c.flagMapping, "mapping", "",
		"(Required) Path of the YAML mapping file.",
	)
	f.StringVar(
		&c.flagIdentifier, "identifier", "",
		"Batch identifier. A random one is generated when empty.",
	)
	f.BoolVar(
		&c.flagOverwrite, "overwrite", false,
		"Replace a previous batch with the same identifier.",
	)
	f.BoolVar(
		&c.flagDryRun, "dry-run", false,
		"Parse and validate everything without submitting.",
	)
	f.IntVar(
		&c.flagMaxErrors, "max-errors", 0,
		"Abort once this many rows have failed. 0 means the default of 50.",
	)

	return f
}

func (c *ImportCommand) Run(args []string) int {
	flags := c.Flags()
	if err := flags.Parse(args); err != nil {
		c.UI.Error(fmt.Sprintf("error parsing flags: %v", err))
		return 1
	}
	if c.flagMapping == "" {
		c.UI.Error("mapping flag is required")
		return 1
	}
	if len(flags.Args()) != 1 {
		c.UI.Error("exactly one workbook path is required")
		return 1
	}

	mapping, err := importer.LoadMappingFile(c.flagMapping)
	if err != nil {
		c.UI.Error(fmt.Sprintf("error loading mapping: %v", err))
		return 1
	}

	workbook, err := os.Open(flags.Arg(0))
	if err != nil {
		c.UI.Error(fmt.Sprintf("error opening workbook: %v", err))
		return 1
	}
	defer workbook.Close()

	client, err := c.Client()
	if err != nil {
		c.UI.Error(err.Error())
		return 1
	}
	defer client.CloseIdleConnections()

	summary, err := importer.Import(context.Background(), client, workbook, mapping, importer.Options{
		Identifier: c.flagIdentifier,
		Overwrite:  c.flagOverwrite,
		DryRun:     c.flagDryRun,
		MaxErrors:  c.flagMaxErrors,
		Logger:     c.Log,
	})
	c.report(summary)
	if err != nil {
		c.UI.Error(fmt.Sprintf("import failed: %v", err))
		return 1
	}
	if !summary.DryRun && !summary.Submitted {
		c.UI.Warn("the server refused the batch; use -overwrite to replace a previous one")
		return 1
	}
	return 0
}

func (c *ImportCommand) report(summary importer.Summary) {
	for _, sheet := range summary.Sheets {
		c.UI.Output(fmt.Sprintf(
			"sheet %s: %d items, %d skipped, %d errors",
			sheet.Name, sheet.Items, sheet.Skipped, sheet.Errors,
		))
		for _, sample := range sheet.Samples {
			c.UI.Warn(fmt.Sprintf("  row %d: %s", sample.Row, sample.Message))
		}
	}

	switch {
	case summary.DryRun:
		c.UI.Output(fmt.Sprintf("dry run: %d items would be submitted", summary.Items))
	case summary.Submitted:
		c.UI.Output(fmt.Sprintf("submitted %d items as batch %s", summary.Items, summary.Identifier))
	}
}
