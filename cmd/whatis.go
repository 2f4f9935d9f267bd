package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/papapumpkin/pkgtune/internal/classify"
	"github.com/papapumpkin/pkgtune/internal/config"
)

func init() {
	cmd := &cobra.Command{
		Use:   "whatis <token>...",
		Short: "Classify tokens against the catalog",
		Long: `Reports which namespaces recognize each token: flag, keyword, license,
or env file. Without --package the global vocabularies answer; with
--package the union over every matching version of that package does, so a
token counts as long as any resolvable version declares it.`,
		Args: cobra.MinimumNArgs(1),
		RunE: runWhatIs,
	}
	cmd.Flags().String("package", "", "classify against this package expression")
	rootCmd.AddCommand(cmd)
}

func runWhatIs(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	pkgExpr, _ := cmd.Flags().GetString("package")

	cat, err := openCatalog(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer closeCatalog(cat)
	reg := classify.NewRegistry(cat, cfg.EnvDir)

	for _, token := range args {
		var namespaces []classify.Namespace
		if pkgExpr == "" {
			namespaces = reg.GlobalWhatIs(token)
		} else {
			namespaces, err = reg.WhatIs(token, pkgExpr)
			if err != nil {
				return fmt.Errorf("whatis: %w", err)
			}
		}

		if len(namespaces) == 0 {
			fmt.Fprintf(cmd.OutOrStdout(), "%s: unknown\n", token)
			continue
		}
		labels := make([]string, len(namespaces))
		for i, ns := range namespaces {
			labels[i] = classify.Describe(ns)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", token, strings.Join(labels, ", "))
	}
	return nil
}
