package main

import (
	"os"

	"github.com/alecthomas/kong"

	"droscher.com/WineCellar/cmd"
)

func main() {
	ctx := kong.Parse(&cmd.CLI, kong.Name("WineCellar"), kong.Description("WineCellar is a wine cellar inventory tracker."))

	err := ctx.Run(&cmd.Context{Debug: cmd.CLI.Debug, ConfigFile: cmd.CLI.ConfigFile, Stdout: os.Stdout})
	if err != nil {
		ctx.Errorf("%s", err)
		ctx.Exit(cmd.ExitCode(err))
	}
}
