package main

import (
	"context"
	"os"

	"github.com/dwikikusuma/marki-secure/pkg/shutdown"
)

func main() {
	ctx, cancel := shutdown.WithSignals(context.Background(), nil)
	defer cancel()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
