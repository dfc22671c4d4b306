package cmd

import (
	"github.com/hashicorp/go-hclog"
	"github.com/mitchellh/cli"

	"github.com/weee-open/gotarallo/internal/cmd/base"
	"github.com/weee-open/gotarallo/internal/cmd/commands/bulk"
	"github.com/weee-open/gotarallo/internal/cmd/commands/item"
	"github.com/weee-open/gotarallo/internal/cmd/commands/product"
	"github.com/weee-open/gotarallo/internal/cmd/commands/status"
	versioncmd "github.com/weee-open/gotarallo/internal/cmd/commands/version"
)

// Commands is the command registry used by Main.
var Commands map[string]cli.CommandFactory

func initCommands(log hclog.Logger, ui cli.Ui) {
	newBase := func(name string) *base.Command {
		return &base.Command{
			UI:  ui,
			Log: log.Named(name),
		}
	}

	Commands = map[string]cli.CommandFactory{
		"status": func() (cli.Command, error) {
			return &status.Command{Command: newBase("status")}, nil
		},
		"item": func() (cli.Command, error) {
			return &item.Command{Command: newBase("item")}, nil
		},
		"item get": func() (cli.Command, error) {
			return &item.GetCommand{Command: newBase("item.get")}, nil
		},
		"item move": func() (cli.Command, error) {
			return &item.MoveCommand{Command: newBase("item.move")}, nil
		},
		"item remove": func() (cli.Command, error) {
			return &item.RemoveCommand{Command: newBase("item.remove")}, nil
		},
		"item restore": func() (cli.Command, error) {
			return &item.RestoreCommand{Command: newBase("item.restore")}, nil
		},
		"item history": func() (cli.Command, error) {
			return &item.HistoryCommand{Command: newBase("item.history")}, nil
		},
		"item search": func() (cli.Command, error) {
			return &item.SearchCommand{Command: newBase("item.search")}, nil
		},
		"item travaso": func() (cli.Command, error) {
			return &item.TravasoCommand{Command: newBase("item.travaso")}, nil
		},
		"product": func() (cli.Command, error) {
			return &product.Command{Command: newBase("product")}, nil
		},
		"product get": func() (cli.Command, error) {
			return &product.GetCommand{Command: newBase("product.get")}, nil
		},
		"bulk": func() (cli.Command, error) {
			return &bulk.Command{Command: newBase("bulk")}, nil
		},
		"bulk add": func() (cli.Command, error) {
			return &bulk.AddCommand{Command: newBase("bulk.add")}, nil
		},
		"bulk import": func() (cli.Command, error) {
			return &bulk.ImportCommand{Command: newBase("bulk.import")}, nil
		},
		"version": func() (cli.Command, error) {
			return &versioncmd.Command{Command: newBase("version")}, nil
		},
	}
}
