package main

import (
	"context"

	"github.com/dukex/flowmender/pkg/cmd"
	"github.com/dukex/flowmender/pkg/log"
	cli "github.com/urfave/cli/v3"
)

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Start the validation API",
		Flags: append(commonFlags(),
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "Port to run the API server on",
				Value:   defaultPort,
				Sources: cli.EnvVars("PORT"),
			},
		),
		Action: func(ctx context.Context, command *cli.Command) error {
			log.Setup(command.String("log-level"))
			logger := log.WithModule("api")

			logger.InfoContext(ctx, "Initializing flowmender API")

			tracer, shutdown := cmd.NewTracer(ctx, logger, "flowmender")
			defer func() {
				if err := shutdown(ctx); err != nil {
					logger.ErrorContext(ctx, "Failed to shutdown tracer provider", "error", err)
				}
			}()

			reg, err := cmd.NewRegistry(ctx, logger, cmd.RegistryOptions{
				CatalogPath:    command.String("catalog"),
				PluginsPath:    command.String("plugins-path"),
				CredentialRefs: command.Bool("credential-refs"),
			})
			if err != nil {
				return cli.Exit(err.Error(), 1)
			}

			api := NewAPI(logger, reg, tracer)

			if err := api.Start(int(command.Int("port"))); err != nil {
				logger.ErrorContext(ctx, "Failed to start API server", "error", err)

				return err
			}

			return nil
		},
	}
}
