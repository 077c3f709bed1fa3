package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/ironsheep/face-anon/internal/pipeline"
	"github.com/ironsheep/face-anon/internal/server"
)

func newServeCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the face tools over MCP on stdin/stdout",
		Long: "Serve the face tools over the Model Context Protocol. Requests are read " +
			"from stdin and responses written to stdout; logs go to stderr.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			return ctx.withPipeline(cmd, func(p *pipeline.Pipeline, logger *slog.Logger) error {
				logger.Info("mcp server starting",
					"version", Version,
					"build_time", BuildTime,
					"commit", GitCommit,
					"config", ctx.configPath,
				)
				srv := server.New(cfg, p,
					server.WithLogger(logger),
					server.WithVersion(Version),
					server.WithIO(cmd.InOrStdin(), cmd.OutOrStdout()),
				)
				return srv.Run(cmd.Context())
			})
		},
	}
}
