package version

import (
	"fmt"

	"github.com/weee-open/gotarallo/internal/cmd/base"
	"github.com/weee-open/gotarallo/internal/version"
)

type Command struct {
	*base.Command
}

func (c *Command) Synopsis() string {
	return "Print the version"
}

func (c *Command) Help() string {
	return `Usage: tarallo version`
}

func (c *Command) Run(args []string) int {
	c.UI.Output(fmt.Sprintf("tarallo %s", version.Version))
	return 0
}
