package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/dukex/flowmender/pkg/cmd"
	"github.com/dukex/flowmender/pkg/log"
	"github.com/dukex/flowmender/pkg/models"
	"github.com/dukex/flowmender/pkg/services"
	"github.com/spf13/afero"
	cli "github.com/urfave/cli/v3"
)

const exitInvalid = 2

type fileResult struct {
	Path     string                   `json:"path"`
	Report   *models.ValidationReport `json:"report"`
	Workflow *models.WorkflowGraph    `json:"workflow,omitempty"`
}

func validateCommand(fs afero.Fs) *cli.Command {
	return &cli.Command{
		Name:      "validate",
		Aliases:   []string{"v"},
		Usage:     "Validate workflow files and optionally repair them",
		ArgsUsage: "FILE... (use - for stdin)",
		Flags: append(commonFlags(),
			&cli.BoolFlag{
				Name:  "strict",
				Usage: "Treat warnings as errors",
			},
			&cli.BoolFlag{
				Name:  "fix",
				Usage: "Apply automatic corrections before the final validation",
			},
			&cli.BoolFlag{
				Name:  "write",
				Usage: "With --fix, write repaired workflows back to their files",
			},
			&cli.StringFlag{
				Name:  "format",
				Usage: "Output format (text, json)",
				Value: "text",
			},
		),
		Action: func(ctx context.Context, command *cli.Command) error {
			log.Setup(command.String("log-level"))
			logger := log.WithModule("validate")
			ctx = log.WithLogger(ctx, logger)

			paths := command.Args().Slice()
			if len(paths) == 0 {
				return cli.Exit("at least one workflow file is required", 1)
			}

			format := command.String("format")
			if format != "text" && format != "json" {
				return cli.Exit(fmt.Sprintf("unknown format %q", format), 1)
			}

			reg, err := cmd.NewRegistry(ctx, logger, cmd.RegistryOptions{
				CatalogPath:    command.String("catalog"),
				PluginsPath:    command.String("plugins-path"),
				CredentialRefs: command.Bool("credential-refs"),
			})
			if err != nil {
				return cli.Exit(err.Error(), 1)
			}

			service := services.NewValidation(logger, reg, nil)
			opts := services.Options{StrictMode: command.Bool("strict"), AutoCorrect: command.Bool("fix")}

			results := make([]fileResult, 0, len(paths))
			allValid := true

			for _, path := range paths {
				result, err := validateFile(ctx, fs, command.Root().Reader, service, path, opts, command.Bool("write"))
				if err != nil {
					return cli.Exit(err.Error(), 1)
				}

				allValid = allValid && result.Report.IsValid
				results = append(results, result)
			}

			if err := writeResults(command.Root().Writer, format, results); err != nil {
				return err
			}

			if !allValid {
				return cli.Exit("", exitInvalid)
			}

			return nil
		},
	}
}

func validateFile(
	ctx context.Context,
	fs afero.Fs,
	stdin io.Reader,
	service *services.Validation,
	path string,
	opts services.Options,
	write bool,
) (fileResult, error) {
	var (
		data []byte
		err  error
	)

	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = afero.ReadFile(fs, path)
	}

	if err != nil {
		return fileResult{}, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var graph models.WorkflowGraph
	if err := json.Unmarshal(data, &graph); err != nil {
		return fileResult{}, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	result, err := service.ValidateAndRepair(ctx, &graph, opts)
	if err != nil {
		return fileResult{}, err
	}

	out := fileResult{Path: path, Report: result.Report}
	if opts.AutoCorrect {
		out.Workflow = &graph
	}

	if write && opts.AutoCorrect && path != "-" && result.CorrectionCount > 0 {
		repaired, err := json.MarshalIndent(&graph, "", "  ")
		if err != nil {
			return fileResult{}, fmt.Errorf("failed to encode %s: %w", path, err)
		}

		if err := afero.WriteFile(fs, path, append(repaired, '\n'), 0o644); err != nil {
			return fileResult{}, fmt.Errorf("failed to write %s: %w", path, err)
		}

		log.FromContext(ctx).Info("Wrote repaired workflow", "path", path, "corrections", result.CorrectionCount)
	}

	return out, nil
}

func writeResults(w io.Writer, format string, results []fileResult) error {
	if format == "json" {
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")

		return encoder.Encode(results)
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	for _, result := range results {
		report := result.Report

		status := "valid"
		if !report.IsValid {
			status = "invalid"
		}

		fmt.Fprintf(tw, "%s: %s (%d errors, %d warnings, %d corrections)\n",
			result.Path, status, report.Summary.TotalErrors, report.Summary.TotalWarnings, report.Corrections)

		for _, issues := range [][]models.ValidationIssue{report.Errors, report.Warnings} {
			for _, issue := range issues {
				fmt.Fprintf(tw, "  %s\t%s\t%s\t%s\n", issue.Severity, issue.Category, issue.NodeID, issue.Message)
			}
		}

		for _, correction := range report.AppliedCorrections {
			fmt.Fprintf(tw, "  fixed\t%s\t%s\t%s\n", correction.Phase, correction.NodeID, correction.Description)
		}
	}

	return tw.Flush()
}
