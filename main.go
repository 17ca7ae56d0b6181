package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"path"
	"syscall"

	"novadash/pkg/cli"

	"github.com/google/subcommands"
)

// Version should be set during build
var Version = "dev"

func main() {
	cli.Version = Version
	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	cli.Register(commander)

	flag.Parse()
	if flag.NArg() == 0 {
		// No subcommand opens the dashboard.
		_ = flag.CommandLine.Parse(append(os.Args[1:], "dash"))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	status := commander.Execute(ctx)
	stop()
	os.Exit(int(status))
}
