package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/yigit/curriculum/internal/config"
	"github.com/yigit/curriculum/internal/pkg/logger"
	"github.com/yigit/curriculum/internal/server"
)

const (
	Version = "0.1.0"
	appName = "curriculum"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		logger.Error().Err(err).Msg("Command failed")
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   appName,
		Short: "Curriculum progress tracker",
		Long: `Tracks the courses of a study program: enrolment, grades,
earned credits and the grade average, served as a web dashboard and JSON API.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context(), configPath)
		},
	}

	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", defaultConfigPath(), "Config file path (YAML)")

	cmd.AddCommand(summaryCmd(&configPath))
	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s version %s\n", appName, Version)
		},
	})

	return cmd
}

// defaultConfigPath honours CONFIG_PATH before falling back to configs/config.yaml.
func defaultConfigPath() string {
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		return p
	}
	return config.DefaultConfigPath
}

func serve(ctx context.Context, configPath string) error {
	if ctx == nil {
		ctx = context.Background()
	}

	srv, err := server.NewServer(ctx, configPath)
	if err != nil {
		return fmt.Errorf("failed to initialize server: %w", err)
	}

	if err := srv.Run(); err != nil {
		return fmt.Errorf("server execution failed: %w", err)
	}

	logger.Info().Msg("Application finished gracefully.")
	return nil
}
