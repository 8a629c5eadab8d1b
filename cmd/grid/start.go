package main

import (
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/gridscope/gridscope/pkg/log"
	"github.com/gridscope/gridscope/pkg/srv"
)

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the GridScope backend",
	Long:  `Initializes storage, AI providers, and the API server, then serves until interrupted.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		// logger setup
		var flushLog func()
		ctx, flushLog = setupLogger(ctx)
		defer flushLog()

		logger := log.FromCtx(ctx)
		logger.Info().Msg("starting gridscope")

		services := NewServices(ctx)

		srv.StartServices(ctx, services)

		// Wait for shutdown signal
		srv.ShutdownServices(ctx, services)
		logger.Info().Msg("gridscope has been shut down gracefully")

		return nil
	},
}

func init() {
	rootCmd.AddCommand(startCmd)
}
