package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/roach88/gensweep/internal/cli"
)

func main() {
	// Commands replace this with a logger honoring --verbose.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	if err := cli.NewRootCommand().ExecuteContext(context.Background()); err != nil {
		// Command failures are printed by the command itself; usage and
		// flag errors from cobra are not.
		if !cli.IsReported(err) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(cli.GetExitCode(err))
	}
}
