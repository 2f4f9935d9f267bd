package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/papapumpkin/pkgtune/internal/config"
)

func init() {
	cmd := &cobra.Command{
		Use:   "sort",
		Short: "Sort every override file by package expression",
		Long: `Sorts the records of every file in every store by package expression.
Comment and blank lines do not survive sorting; records for the same
package keep their relative order.`,
		Args: cobra.NoArgs,
		RunE: runSort,
	}
	rootCmd.AddCommand(cmd)
}

func runSort(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	_, coll, done, err := openEngine(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer done()

	if err := coll.Sort(); err != nil {
		return fmt.Errorf("sort: %w", err)
	}
	if err := coll.Write(); err != nil {
		return fmt.Errorf("sort: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Sorted package files under %s\n", cfg.ConfigRoot)
	return nil
}
