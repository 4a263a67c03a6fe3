package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/charmbracelet/fang"

	"github.com/mark3labs/gemchat/cmd"
)

var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := fang.Execute(ctx, cmd.GetRootCommand(version), fang.WithVersion(version)); err != nil {
		stop()
		os.Exit(1)
	}
}
