package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/Apurer/storefront/internal/app/api"
	"github.com/Apurer/storefront/internal/cli"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	openStores := func(ctx context.Context) (*api.Stores, func(), error) {
		cfg, err := api.LoadConfig()
		if err != nil {
			return nil, nil, err
		}
		return api.BuildStores(ctx, cfg, logger)
	}
	if err := cli.NewRootCommand(openStores).ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
