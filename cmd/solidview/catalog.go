package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"solidview/internal/export"
	"solidview/internal/render"
	"solidview/internal/viewer"
	"solidview/web"
)

func listCmd(g *globalFlags) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the principles in tab order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := loadCatalog(g.contentDir)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(cat.All())
			}

			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "TAB\tID\tTITLE")
			for _, rec := range cat.All() {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", viewer.Label(rec.ID), rec.ID, rec.Title)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print full records as JSON")
	return cmd
}

func showCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Print one principle's before and after samples",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := loadCatalog(g.contentDir)
			if err != nil {
				return err
			}
			rec, ok := cat.FindByID(args[0])
			if !ok {
				return fmt.Errorf("unknown principle %q (have %v)", args[0], cat.IDs())
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s\n\n--- Before ---\n%s\n\n--- After ---\n%s\n", rec.Title, rec.Before, rec.After)
			return nil
		},
	}
}

func exportCmd(g *globalFlags) *cobra.Command {
	var outDir string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the viewer as a static site",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			level := g.logLevel
			if level == "" {
				level = "warn"
			}
			if err := setupLogger(os.Stderr, level, ""); err != nil {
				return err
			}

			cat, err := loadCatalog(g.contentDir)
			if err != nil {
				return err
			}
			renderer, err := render.New()
			if err != nil {
				return fmt.Errorf("initialize template renderer: %w", err)
			}

			res, err := export.Site(cat, renderer, web.Static(), outDir)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %d pages and %d assets to %s\n", len(res.Pages), len(res.Assets), outDir)
			return nil
		},
	}
	cmd.Flags().StringVarP(&outDir, "out", "o", "site", "Output directory")
	return cmd
}
