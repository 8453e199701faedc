// Package main provides the entry point for the application with CLI commands.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/opsdeck/filegate/cmd/app/commands"
)

const version = "1.0.0"

func main() {
	cmd := &cli.Command{
		Name:    "filegate",
		Usage:   "Authorized file download gateway",
		Version: version,
		Commands: []*cli.Command{
			{
				Name:  "server",
				Usage: "Start the HTTP server",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return commands.RunServer(ctx, version)
				},
			},
			{
				Name:  "migrate",
				Usage: "Run database migrations",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return commands.RunMigrations()
				},
			},
			{
				Name:  "issue-download-link",
				Usage: "Mint a time-limited download link for a resource",
				Flags: []cli.Flag{
					&cli.Int64Flag{
						Name:     "actor-id",
						Aliases:  []string{"a"},
						Required: true,
						Usage:    "ID of the actor the link is issued on behalf of",
					},
					&cli.StringFlag{
						Name:    "actor-role",
						Aliases: []string{"r"},
						Value:   "admin",
						Usage:   "Role of the actor (admin, client or employee)",
					},
					&cli.StringFlag{
						Name:     "resource-type",
						Aliases:  []string{"t"},
						Required: true,
						Usage:    "Resource type (task_upload, support_attachment, plan_document or backup)",
					},
					&cli.Int64Flag{
						Name:     "resource-id",
						Aliases:  []string{"i"},
						Required: true,
						Usage:    "Resource ID",
					},
					&cli.Int64Flag{
						Name:    "ttl",
						Usage:   "Token validity in seconds (0 uses the configured default)",
						Value:   0,
						Aliases: []string{"e"},
					},
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Value:   "text",
						Usage:   "Output format: 'text' or 'json'",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return commands.IssueDownloadLinkCommand(
						ctx,
						cmd.Int64("actor-id"),
						cmd.String("actor-role"),
						cmd.String("resource-type"),
						cmd.Int64("resource-id"),
						cmd.Int64("ttl"),
						cmd.String("format"),
					)
				},
			},
			{
				Name:  "verify-audit-logs",
				Usage: "Verify the integrity of the download audit trail",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:    "batch-size",
						Aliases: []string{"b"},
						Value:   500,
						Usage:   "Number of audit entries verified per page",
					},
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Value:   "text",
						Usage:   "Output format: 'text' or 'json'",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return commands.VerifyAuditLogsCommand(
						ctx,
						cmd.Int("batch-size"),
						cmd.String("format"),
					)
				},
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.Any("error", err))
		os.Exit(1)
	}
}
