// Command scriptrunner is a Cobra-based CLI: a "serve" subcommand runs
// the HTTP service described in SPEC_FULL.md, and a "scripts" command
// group operates on the configured scripts directory directly, without
// going through HTTP.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"scriptrunner/internal/config"
)

var (
	flagConfigPath string
	flagScriptsDir string
	flagListenAddr string
	flagVerbose    bool

	loadedConfig config.Config
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "scriptrunner:", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:          "scriptrunner",
	Short:        "Runs and manages a directory of on-demand scripts",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(flagConfigPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if flagScriptsDir != "" {
			cfg.ScriptsDir = flagScriptsDir
		}
		if flagListenAddr != "" {
			cfg.ListenAddr = flagListenAddr
		}
		if flagVerbose {
			cfg.LogLevel = "debug"
		}
		loadedConfig = cfg
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfigPath, "config", "./scriptrunner.toml", "path to an optional TOML config file")
	rootCmd.PersistentFlags().StringVar(&flagScriptsDir, "scripts-dir", "", "override the configured scripts directory")
	rootCmd.PersistentFlags().StringVar(&flagListenAddr, "listen", "", "override the configured HTTP listen address")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(scriptsCmd)
}
