// Package main is the entrypoint for the greeter service.
// Greeter answers every HTTP request with a fixed plain-text greeting.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/skshamimiqbal/greeter/internal/config"
	"github.com/skshamimiqbal/greeter/internal/greeting"
	"github.com/skshamimiqbal/greeter/internal/server"
)

func main() {
	ctx := context.Background()
	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	return server.Run(ctx, server.Params{
		Name:           "greeter",
		PortFromConfig: func(cfg *config.Config) int { return cfg.Port },
		Handler:        greeting.Handler(),
	}, nil)
}
