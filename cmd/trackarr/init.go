package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vmunix/trackarr/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a starter config.toml",
	RunE:  runInitCmd,
}

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().Bool("force", false, "Overwrite existing config.toml")
	initCmd.Flags().String("path", "config.toml", "Where to write the config")
}

func runInitCmd(cmd *cobra.Command, args []string) error {
	force, _ := cmd.Flags().GetBool("force")
	path, _ := cmd.Flags().GetString("path")

	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("%s already exists, use --force to overwrite", path)
	}

	if err := config.WriteDefault(path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}

	fmt.Printf("Wrote %s\n", path)
	fmt.Println("Set TRAKT_CLIENT_ID, TRAKT_CLIENT_SECRET and TMDB_API_KEY, then run 'trackarrd'.")
	return nil
}
