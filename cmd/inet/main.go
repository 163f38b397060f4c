package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"

	"github.com/roach88/inet/internal/cli"
	"github.com/roach88/inet/internal/ir"
)

// Version information - set during build
var (
	version = "dev"
	commit  = "none"
)

func main() {
	cmd := cli.NewRootCommand()
	cmd.Version = fmt.Sprintf("%s (engine %s, ir %s, commit %s)", version, ir.EngineVersion, ir.IRVersion, commit)

	if err := cmd.Execute(); err != nil {
		color.New(color.FgRed, color.Bold).Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(cli.GetExitCode(err))
	}
}
