package main

import (
	"log/slog"

	"git.home.luguber.info/inful/madeup/cmd/madeup/commands"
	derrors "git.home.luguber.info/inful/madeup/internal/errors"
	"git.home.luguber.info/inful/madeup/internal/version"
	"github.com/alecthomas/kong"
)

func main() {
	var cli commands.CLI
	global := &commands.Global{}
	ctx := kong.Parse(&cli,
		kong.Name("madeup"),
		kong.Description("Generate a static HTML site from a directory of Markdown documents."),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{Compact: true}),
		kong.Vars{"version": version.String()},
		kong.Bind(global),
	)

	err := ctx.Run(global, &cli)
	derrors.NewCLIErrorAdapter(cli.Verbose, slog.Default()).HandleError(err)
}
