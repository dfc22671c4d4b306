package main

import (
	"os"

	"github.com/weee-open/gotarallo/internal/cmd"
)

func main() {
	os.Exit(cmd.Main(os.Args))
}
