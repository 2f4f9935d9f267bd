package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var rootCmd = &cobra.Command{
	Use:   "pkgtune",
	Short: "Per-package configuration override manager",
	Long: `Pkgtune edits the per-package override files of a Portage-style tree
(package.use, package.accept_keywords, package.license), validating every
token against the package catalog before it is written. Lines it did not
touch are preserved byte for byte.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default .pkgtune.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().String("root", "", "configuration root (default /etc/portage)")
	rootCmd.PersistentFlags().String("catalog", "", "catalog backend: portageq, toml, or sqlite")
	rootCmd.PersistentFlags().String("catalog-path", "", "snapshot location for the toml and sqlite backends")

	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	_ = viper.BindPFlag("config_root", rootCmd.PersistentFlags().Lookup("root"))
	_ = viper.BindPFlag("catalog.kind", rootCmd.PersistentFlags().Lookup("catalog"))
	_ = viper.BindPFlag("catalog.path", rootCmd.PersistentFlags().Lookup("catalog-path"))
}

func initConfig() {
	if cfgFile, _ := rootCmd.Flags().GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName(".pkgtune")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
		}
	}

	viper.SetEnvPrefix("PKGTUNE")
	viper.AutomaticEnv()

	// It's fine if no config file is found; we use defaults.
	_ = viper.ReadInConfig()
}
