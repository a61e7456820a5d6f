// Command brewctl is the terminal client for the brewlog server.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/kiranshivaraju/brewlog/internal/cli"
)

var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := cli.NewRootCommand(version).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
