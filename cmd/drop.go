package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/papapumpkin/pkgtune/internal/classify"
	"github.com/papapumpkin/pkgtune/internal/config"
	"github.com/papapumpkin/pkgtune/internal/pkgfile"
)

func init() {
	cmd := &cobra.Command{
		Use:   "drop <package-expr>",
		Short: "Remove a package's records from every override file",
		Long: `Removes all records for the package expression from package.use,
package.accept_keywords, and package.license. It is fine for the package to
be missing from some of the stores, but missing from all of them is an
error.`,
		Args: cobra.ExactArgs(1),
		RunE: runDrop,
	}
	rootCmd.AddCommand(cmd)
}

func runDrop(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	pkgExpr := args[0]

	_, coll, done, err := openEngine(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer done()

	var dropped []classify.Namespace
	for _, ns := range coll.Namespaces() {
		err := coll.Store(ns).Remove(pkgExpr)
		if errors.Is(err, pkgfile.ErrNotFound) {
			continue
		}
		if err != nil {
			return fmt.Errorf("drop: %w", err)
		}
		dropped = append(dropped, ns)
	}
	if len(dropped) == 0 {
		return fmt.Errorf("drop: %w: %s", pkgfile.ErrNotFound, pkgExpr)
	}
	if err := coll.Write(); err != nil {
		return fmt.Errorf("drop: %w", err)
	}

	for _, ns := range dropped {
		fmt.Fprintf(cmd.OutOrStdout(), "Dropped %s from %s\n", pkgExpr, coll.Store(ns).Path())
	}
	return nil
}
