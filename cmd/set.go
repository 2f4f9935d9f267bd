package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/papapumpkin/pkgtune/internal/classify"
	"github.com/papapumpkin/pkgtune/internal/config"
	"github.com/papapumpkin/pkgtune/internal/pkgfile"
)

func init() {
	cmd := &cobra.Command{
		Use:   "set <namespace> <package-expr> <flag>...",
		Short: "Add flags to a package's override record",
		Long: `Validates every flag against the tokens any matching version of the
package could use, then appends them to the package's most recent record,
creating one when none exists. A single invalid token aborts the whole
invocation before anything is edited.`,
		Args: cobra.MinimumNArgs(3),
		RunE: runSet,
	}
	rootCmd.AddCommand(cmd)
}

func runSet(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	ns, err := namespaceFromArg(args[0])
	if err != nil {
		return err
	}
	pkgExpr, tokens := args[1], args[2:]

	reg, coll, done, err := openEngine(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer done()

	possible, err := reg.Cache(ns).Possible(pkgExpr)
	if err != nil {
		return fmt.Errorf("set: %w", err)
	}
	flags := make([]pkgfile.Flag, len(tokens))
	for i, tok := range tokens {
		flags[i] = pkgfile.ParseFlag(tok)
		if !possible.Contains(flags[i].Name) {
			return fmt.Errorf("set: %q is not a %s of any version matching %s",
				flags[i].Name, classify.Describe(ns), pkgExpr)
		}
	}

	store := coll.Store(ns)
	rec, err := effectiveRecord(store, pkgExpr)
	if err != nil {
		return fmt.Errorf("set: %w", err)
	}
	for _, f := range flags {
		rec.Append(f)
	}
	if err := store.Write(); err != nil {
		return fmt.Errorf("set: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Set %d flag(s) on %s in %s\n", len(flags), pkgExpr, store.Path())
	return nil
}

// effectiveRecord returns the package's highest-precedence record, creating
// a fresh one in the last file when the package has none.
func effectiveRecord(store *pkgfile.Store, pkgExpr string) (*pkgfile.Record, error) {
	recs, err := store.Entries(pkgExpr)
	if err != nil {
		return nil, err
	}
	if len(recs) > 0 {
		return recs[0], nil
	}
	return store.AppendLiteral(pkgExpr)
}
