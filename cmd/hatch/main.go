package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/simonhull/hatch/internal/commands"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	rootCmd := commands.RootCmd()
	commands.Register(rootCmd)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		commands.PrintError(err)
		stop()
		os.Exit(1)
	}
}
