package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/papapumpkin/pkgtune/internal/catalog"
)

func init() {
	cmd := &cobra.Command{
		Use:   "index",
		Short: "Build a SQLite catalog from a TOML snapshot",
		Long: `Reads a TOML catalog snapshot and writes it out as a SQLite database
for trees too large to re-parse on every run. An existing database at the
target path is replaced. Point catalog.kind at "sqlite" and catalog.path at
the result to use it.`,
		RunE: runIndex,
	}
	cmd.Flags().String("from", "", "TOML snapshot to read")
	cmd.Flags().String("to", "", "SQLite database to write")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")
	rootCmd.AddCommand(cmd)
}

func runIndex(cmd *cobra.Command, _ []string) error {
	from, _ := cmd.Flags().GetString("from")
	to, _ := cmd.Flags().GetString("to")

	snap, err := catalog.LoadSnapshot(from)
	if err != nil {
		return fmt.Errorf("index: %w", err)
	}
	if err := catalog.BuildSQLite(cmd.Context(), snap, to); err != nil {
		return fmt.Errorf("index: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Indexed %d package(s) from %s into %s\n", len(snap.Packages), from, to)
	return nil
}
