package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/omarluq/rolegate/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configuration management commands",
}

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate configuration file",
	Long: `Validate the configuration file without starting the server.
Checks syntax, users, password hashes, endpoints and cache settings.`,
	RunE: runConfigValidate,
}

func init() {
	configCmd.AddCommand(configValidateCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigValidate(cmd *cobra.Command, _ []string) error {
	configPath := resolveConfigPath()
	out := cmd.OutOrStdout()

	cfg, err := config.Load(configPath)
	if err == nil {
		err = cfg.Validate()
	}
	if err != nil {
		fmt.Fprintf(out, "✗ Config validation failed: %s\n", err)
		return err
	}

	fmt.Fprintf(out, "✓ %s is valid (%d users, %d endpoints)\n",
		configPath, len(cfg.Auth.Users), len(cfg.Endpoints))
	return nil
}
