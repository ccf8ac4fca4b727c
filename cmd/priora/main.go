package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/felixgeelhaar/priora/adapter/cli"
	"github.com/felixgeelhaar/priora/adapter/cli/mcp"
	"github.com/felixgeelhaar/priora/adapter/cli/task"
	"github.com/felixgeelhaar/priora/adapter/cli/weights"
	"github.com/felixgeelhaar/priora/internal/app"
	"github.com/felixgeelhaar/priora/pkg/config"
	"github.com/felixgeelhaar/priora/pkg/observability"
)

func main() {
	logger := observability.NewLogger(observability.DefaultLogConfig())
	cli.SetLogger(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cli.SetBootstrap(func(ctx context.Context, configPath string) (*cli.App, func(), error) {
		cfg, err := config.Load(configPath)
		if err != nil {
			return nil, nil, err
		}

		logCfg := observability.DefaultLogConfig()
		logCfg.Level = cfg.LogLevel
		logCfg.Format = observability.LogFormat(cfg.LogFormat)
		if cli.Verbose() {
			logCfg.Level = "debug"
		}
		logger := observability.NewLogger(logCfg)
		cli.SetLogger(logger)

		container, err := app.NewContainer(ctx, cfg, logger, app.Options{})
		if err != nil {
			return nil, nil, err
		}
		return cli.NewApp(container), container.Close, nil
	})

	cli.AddCommand(task.Cmd)
	cli.AddCommand(weights.Cmd)
	cli.AddCommand(mcp.Cmd)

	cli.Execute(ctx)
}
