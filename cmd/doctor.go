package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/papapumpkin/pkgtune/internal/catalog"
	"github.com/papapumpkin/pkgtune/internal/config"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check that the configured catalog and files are reachable",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		ok := true

		cat, err := openCatalog(cmd.Context(), cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "✗ catalog (%s): %v\n", cfg.Catalog.Kind, err)
			ok = false
		} else {
			defer closeCatalog(cat)
			if p, isPortageq := cat.(*catalog.Portageq); isPortageq {
				if err := p.Validate(); err != nil {
					fmt.Fprintf(os.Stderr, "✗ portageq: %v\n", err)
					ok = false
				} else {
					fmt.Fprintln(os.Stderr, "✓ portageq found")
				}
			} else {
				fmt.Fprintf(os.Stderr, "✓ catalog (%s) opened, %d root(s)\n", cfg.Catalog.Kind, len(cat.Roots()))
			}
		}

		if info, err := os.Stat(cfg.ConfigRoot); err != nil || !info.IsDir() {
			fmt.Fprintf(os.Stderr, "✗ config root %s is not a directory\n", cfg.ConfigRoot)
			ok = false
		} else {
			fmt.Fprintf(os.Stderr, "✓ config root %s\n", cfg.ConfigRoot)
		}

		if _, err := os.Stat(cfg.EnvDir); err != nil {
			fmt.Fprintf(os.Stderr, "- env dir %s not present (env-file classification will be empty)\n", cfg.EnvDir)
		} else {
			fmt.Fprintf(os.Stderr, "✓ env dir %s\n", cfg.EnvDir)
		}

		if !ok {
			os.Exit(1)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}
