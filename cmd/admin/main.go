package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/dmitrijs2005/gremath/internal/logging"
	"github.com/dmitrijs2005/gremath/internal/server/admin"
	"github.com/dmitrijs2005/gremath/internal/server/config"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx := context.Background()

	if len(os.Args) < 2 || os.Args[1] == "help" {
		if err := admin.NewApp(nil, os.Stdin, os.Stdout).Run(ctx, os.Args[1:]); err != nil {
			return 2
		}
		return 0
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		return 1
	}

	logger := logging.NewJSONLogger(os.Stderr, cfg.Debug)

	backend, err := admin.NewBackend(ctx, cfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "connect: %v\n", err)
		return 1
	}
	defer func() { _ = backend.Close(context.WithoutCancel(ctx)) }()

	if err := admin.NewApp(backend, os.Stdin, os.Stdout).Run(ctx, os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		if errors.Is(err, admin.ErrUsage) {
			return 2
		}
		return 1
	}
	return 0
}
