//go:build !wasm

package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"agenteur.ai/web/config"
	"agenteur.ai/web/logging"
	"agenteur.ai/web/routes"
	"agenteur.ai/web/server"
)

func run(args []string) error {
	cmd := rootCmd()
	cmd.SetArgs(args)
	return cmd.Execute()
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "agenteur-web",
		Short:        "Serve the Agenteur web front end",
		SilenceUsage: true,
	}
	cmd.AddCommand(serveCmd(), routesCmd())
	return cmd
}

func serveCmd() *cobra.Command {
	var configPath, envFile string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			envErr := loadEnvFile(envFile)

			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}

			logger, err := logging.New(cfg)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			if envErr != nil {
				logger.Info("env file not loaded", zap.String("path", envFile), zap.Error(envErr))
			}

			flush, err := logging.InitSentry(cfg)
			if err != nil {
				logger.Warn("error reporting disabled", zap.Error(err))
			}
			defer flush()

			static, err := staticFS()
			if err != nil {
				return fmt.Errorf("failed to open embedded assets: %w", err)
			}

			srv, err := server.NewServer(cfg, logger, routes.Default(), static)
			if err != nil {
				logger.Error("failed to create server", zap.Error(err))
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			if err := srv.Start(ctx); err != nil {
				logger.Error("server stopped with error", zap.Error(err))
				return err
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "Path to a YAML, TOML or JSON config file")
	cmd.Flags().StringVar(&envFile, "env-file", ".env", "Path to a .env file loaded before the config")
	return cmd
}

// loadEnvFile loads variables from a .env file without overriding the
// environment. A missing file is not an error.
func loadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return err
	}
	return nil
}

func routesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "routes",
		Short: "Print the route table and each page's navigation targets",
		RunE: func(cmd *cobra.Command, args []string) error {
			table := routes.Default()

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "PATH\tNAME\tTITLE\tLINKS")
			for _, e := range table.Manifest() {
				targets := ""
				for i, l := range e.Links {
					if i > 0 {
						targets += ","
					}
					targets += l.To
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", e.Path, e.Name, e.Title, targets)
			}
			if err := w.Flush(); err != nil {
				return err
			}

			if err := table.Validate(); err != nil {
				return err
			}

			missing, err := routes.Unreachable(table, "/")
			if err != nil {
				return err
			}
			for _, p := range missing {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s is not reachable from /\n", p)
			}
			return nil
		},
	}
}
