package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/matzehuels/compgraph/internal/cli"
	"github.com/matzehuels/compgraph/pkg/errors"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	root := cli.New(os.Stderr, cli.LogInfo).RootCommand()
	err := root.ExecuteContext(ctx)
	if err == nil {
		return
	}
	if ctx.Err() != nil {
		os.Exit(130) // interrupted
	}
	fmt.Fprintln(os.Stderr, "Error:", err)
	os.Exit(errors.ExitCode(err))
}
