// Package main is the entry point for the promptline CLI application.
package main

import (
	"context"
	"fmt"
	"os"

	plcli "github.com/promptline/promptline/internal/cli"
	"github.com/promptline/promptline/pkg/version"
	"github.com/urfave/cli/v3"
)

func main() {
	app := &cli.Command{
		Name:                  "promptline",
		Usage:                 "Interactive shell prompt with line editing and completion",
		Version:               version.Version,
		EnableShellCompletion: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Value:   "warn",
				Usage:   "Log level (debug, info, warn, error)",
				Sources: cli.EnvVars("PROMPTLINE_LOG_LEVEL"),
			},
		},
		Commands: []*cli.Command{
			{
				Name:  "repl",
				Usage: "Start an interactive prompt session",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Config file path (discovered in the current directory if not specified)",
					},
					&cli.StringFlag{
						Name:  "prompt",
						Usage: "Prompt string, overrides the configured one",
					},
				},
				Action: func(_ context.Context, cmd *cli.Command) error {
					return plcli.Repl(plcli.ReplParams{
						ConfigPath: cmd.String("config"),
						Prompt:     cmd.String("prompt"),
						LogLevel:   cmd.String("log-level"),
					})
				},
			},
			{
				Name:      "validate",
				Usage:     "Validate a promptline configuration file",
				ArgsUsage: "[config-file]",
				Action: func(_ context.Context, cmd *cli.Command) error {
					configPath := ""
					if cmd.Args().Len() > 0 {
						configPath = cmd.Args().Get(0)
					}
					return plcli.Validate(configPath)
				},
			},
			{
				Name:      "schema",
				Usage:     "Display or export the JSON Schema for promptline configuration files",
				ArgsUsage: "[output-file]",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output file path (prints to stdout if not specified)",
					},
				},
				Action: func(_ context.Context, cmd *cli.Command) error {
					outputPath := cmd.String("output")
					if outputPath == "" && cmd.Args().Len() > 0 {
						outputPath = cmd.Args().Get(0)
					}
					return plcli.Schema(outputPath)
				},
			},
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
