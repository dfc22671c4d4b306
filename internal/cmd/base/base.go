// Package base holds the pieces shared by every CLI command: the UI,
// the logger, flag-set helpers, and the environment-driven client
// factory.
package base

import (
	"bytes"
	"flag"

	"github.com/hashicorp/go-hclog"
	"github.com/mitchellh/cli"
)

// Command is embedded by all commands.
type Command struct {
	UI  cli.Ui
	Log hclog.Logger

	flagURL   string
	flagToken string
}

// FlagSet wraps flag.FlagSet with help rendering for command Help()
// output.
type FlagSet struct {
	*flag.FlagSet
}

func NewFlagSet(f *flag.FlagSet) *FlagSet {
	// The CLI prints its own help; the flag package should stay quiet.
	f.Usage = func() {}
	return &FlagSet{FlagSet: f}
}

// Help returns the rendered flag defaults, for appending to a
// command's Help() text.
func (f *FlagSet) Help() string {
	var buf bytes.Buffer
	f.SetOutput(&buf)
	f.PrintDefaults()
	if buf.Len() == 0 {
		return ""
	}
	return "\n\nOptions:\n\n" + buf.String()
}
