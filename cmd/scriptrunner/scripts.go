package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"scriptrunner/internal/domain/execution"
	"scriptrunner/internal/scriptsfs"
)

var scriptsCmd = &cobra.Command{
	Use:   "scripts",
	Short: "operate on the scripts directory without going through HTTP",
}

var scriptsListCmd = &cobra.Command{
	Use:   "list",
	Short: "list scripts in the configured scripts directory",
	RunE:  doScriptsList,
}

var scriptsCreateCmd = &cobra.Command{
	Use:   "create <name> <file>",
	Short: "create a new script from the contents of a local file",
	Args:  cobra.ExactArgs(2),
	RunE:  doScriptsCreate,
}

var scriptsRmCmd = &cobra.Command{
	Use:   "rm <name>",
	Short: "remove a script",
	Args:  cobra.ExactArgs(1),
	RunE:  doScriptsRm,
}

func init() {
	scriptsCmd.AddCommand(scriptsListCmd)
	scriptsCmd.AddCommand(scriptsCreateCmd)
	scriptsCmd.AddCommand(scriptsRmCmd)
}

func doScriptsList(cmd *cobra.Command, args []string) error {
	entries, err := os.ReadDir(loadedConfig.ScriptsDir)
	if err != nil {
		return fmt.Errorf("read scripts directory: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), loadedConfig.Extension) {
			continue
		}
		fmt.Fprintln(cmd.OutOrStdout(), entry.Name())
	}
	return nil
}

func doScriptsCreate(cmd *cobra.Command, args []string) error {
	name, path := args[0], args[1]

	code, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read source file: %w", err)
	}

	store := scriptsfs.New(loadedConfig.ScriptsDir, loadedConfig.Extension)
	if err := store.Create(execution.Name(name), code); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "created %s\n", name)
	return nil
}

func doScriptsRm(cmd *cobra.Command, args []string) error {
	name := args[0]

	store := scriptsfs.New(loadedConfig.ScriptsDir, loadedConfig.Extension)
	if err := store.Delete(execution.Name(name)); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "removed %s\n", name)
	return nil
}
