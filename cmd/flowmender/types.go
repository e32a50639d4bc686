package main

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/dukex/flowmender/pkg/cmd"
	"github.com/dukex/flowmender/pkg/log"
	"github.com/dukex/flowmender/pkg/services"
	cli "github.com/urfave/cli/v3"
)

func typesCommand() *cli.Command {
	return &cli.Command{
		Name:    "types",
		Aliases: []string{"t"},
		Usage:   "List the registered node types",
		Flags: append(commonFlags(),
			&cli.StringFlag{
				Name:  "category",
				Usage: "Only list types of this category",
			},
		),
		Action: func(ctx context.Context, command *cli.Command) error {
			log.Setup(command.String("log-level"))
			logger := log.WithModule("types")

			reg, err := cmd.NewRegistry(ctx, logger, cmd.RegistryOptions{
				CatalogPath: command.String("catalog"),
				PluginsPath: command.String("plugins-path"),
			})
			if err != nil {
				return cli.Exit(err.Error(), 1)
			}

			types, err := services.NewNodeTypes(reg).List(ctx, command.String("category"))
			if err != nil {
				return cli.Exit(err.Error(), 1)
			}

			tw := tabwriter.NewWriter(command.Root().Writer, 0, 0, 2, ' ', 0)
			for _, info := range types {
				fmt.Fprintf(tw, "%s\t%s\n", info.Category, info.Type)
			}

			return tw.Flush()
		},
	}
}
