package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/hb-chen/skillrun/internal/config"
	"github.com/hb-chen/skillrun/internal/server"
	"github.com/hb-chen/skillrun/internal/skill"
	"github.com/hb-chen/skillrun/internal/skill/direct"
	"github.com/hb-chen/skillrun/pkg/logger"
)

var addrHTTP string

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the skill runtime HTTP server",
	Long:  `Start the HTTP server exposing skill discovery and execution`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		if addrHTTP != "" {
			cfg.Server.HTTP.Addr = addrHTTP
		}

		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		go func() {
			sig := <-quit
			logger.Infof("Received signal %v, shutting down...", sig)
			cancel()
		}()

		store := skill.NewStore(cfg.Skills.Dir)
		rt := skill.NewRuntime(store, direct.NewDirectExecutor())

		logger.Infof("Serving skills from %s", cfg.Skills.Dir)

		return server.Serve(ctx, cfg, rt)
	},
}

func init() {
	serveCmd.Flags().StringVar(&addrHTTP, "addr", "", "HTTP listen address (default :8080)")
	rootCmd.AddCommand(serveCmd)
}
