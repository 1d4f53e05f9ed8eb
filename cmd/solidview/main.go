// Package main is the entry point for the solidview binary. The default
// command serves the SOLID principles viewer over HTTP; subcommands print
// the catalog or export it as a static site.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"solidview/internal/catalog"
	"solidview/internal/config"
)

const (
	Version   = "0.1.0"
	BuildTime = "dev"
	appName   = "solidview"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// globalFlags are shared by every subcommand.
type globalFlags struct {
	contentDir string
	logLevel   string
}

func rootCmd() *cobra.Command {
	g := &globalFlags{}
	serve := serveCmd(g)

	cmd := &cobra.Command{
		Use:   appName,
		Short: "SOLID principles viewer",
		Long: `solidview shows Java examples of the five SOLID principles, each as a
"before" and "after" code sample, selectable by tab.

Running it without a subcommand starts the web server.`,
		SilenceUsage: true,
		RunE:         serve.RunE,
	}
	cmd.Flags().AddFlagSet(serve.Flags())

	cmd.PersistentFlags().StringVar(&g.contentDir, "content-dir", os.Getenv("CONTENT_DIR"),
		"Directory holding catalog.yaml and samples (default: built-in catalog)")
	cmd.PersistentFlags().StringVar(&g.logLevel, "log-level", "",
		"Log level (debug, info, warn, error); overrides LOG_LEVEL")

	cmd.AddCommand(serve, listCmd(g), showCmd(g), exportCmd(g))
	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s version %s (build: %s)\n", appName, Version, BuildTime)
		},
	})

	return cmd
}

// setupLogger installs the default logger: JSON in production, text
// otherwise.
func setupLogger(w io.Writer, level, env string) error {
	lvl, err := config.ParseLevel(level)
	if err != nil {
		return err
	}
	opts := &slog.HandlerOptions{Level: lvl}

	var handler slog.Handler = slog.NewTextHandler(w, opts)
	if env == "production" {
		handler = slog.NewJSONHandler(w, opts)
	}
	slog.SetDefault(slog.New(handler))
	return nil
}

// loadCatalog reads the catalog from dir, or returns the built-in one
// when dir is empty.
func loadCatalog(dir string) (*catalog.Catalog, error) {
	if dir == "" {
		return catalog.Default(), nil
	}
	c, err := catalog.Load(os.DirFS(dir))
	if err != nil {
		return nil, fmt.Errorf("load catalog from %s: %w", dir, err)
	}
	return c, nil
}
