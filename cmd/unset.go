package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/papapumpkin/pkgtune/internal/config"
	"github.com/papapumpkin/pkgtune/internal/pkgfile"
)

func init() {
	cmd := &cobra.Command{
		Use:   "unset <namespace> <package-expr> <flag>...",
		Short: "Remove flags from a package's override records",
		Long: `Removes every occurrence of each named flag from every record of the
package, across all files of the namespace's store. A record left without
any flags disappears from its file on write.`,
		Args: cobra.MinimumNArgs(3),
		RunE: runUnset,
	}
	rootCmd.AddCommand(cmd)
}

func runUnset(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	ns, err := namespaceFromArg(args[0])
	if err != nil {
		return err
	}
	pkgExpr, tokens := args[1], args[2:]

	_, coll, done, err := openEngine(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer done()

	store := coll.Store(ns)
	recs, err := store.Entries(pkgExpr)
	if err != nil {
		return fmt.Errorf("unset: %w", err)
	}
	if len(recs) == 0 {
		return fmt.Errorf("unset: %w: %s", pkgfile.ErrNotFound, pkgExpr)
	}

	for _, rec := range recs {
		for _, tok := range tokens {
			rec.RemoveAll(pkgfile.ParseFlag(tok).Name)
		}
	}
	if err := store.Write(); err != nil {
		return fmt.Errorf("unset: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Unset %d flag name(s) on %s in %s\n", len(tokens), pkgExpr, store.Path())
	return nil
}
