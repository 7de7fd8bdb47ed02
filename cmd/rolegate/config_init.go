package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"

	"github.com/omarluq/rolegate/internal/userstore"
)

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Generate a starter config file",
	Long: `Generate a starter rolegate configuration with one admin user whose
password is generated and printed once.`,
	RunE: runConfigInit,
}

func init() {
	configCmd.AddCommand(configInitCmd)
	configInitCmd.Flags().StringP("output", "o", "", "output path (default: ~/.config/rolegate/rolegate.yaml)")
	configInitCmd.Flags().Bool("force", false, "overwrite existing config file")
}

const configTemplate = `server:
  listen: "127.0.0.1:8080"
  timeout_ms: 30000

logging:
  level: info
  format: console

auth:
  realm: "rolegate"
  role_policy: all
  users:
    - name: admin
      password_hash: "%s"
      roles: [admin]

endpoints:
  - method: GET
    path: /admin
    roles: [admin]
  - method: GET
    path: /whoami
    required: false

cache:
  mode: single
  ttl_ms: 300000
  ristretto:
    num_counters: 100000
    max_cost: 1048576
`

func runConfigInit(cmd *cobra.Command, _ []string) error {
	output, err := cmd.Flags().GetString("output")
	if err != nil {
		return fmt.Errorf("failed to get output flag: %w", err)
	}
	force, err := cmd.Flags().GetBool("force")
	if err != nil {
		return fmt.Errorf("failed to get force flag: %w", err)
	}

	if output == "" {
		if output, err = defaultInitPath(); err != nil {
			return fmt.Errorf("failed to get home directory: %w", err)
		}
	}

	if _, err := os.Stat(output); err == nil && !force {
		return fmt.Errorf("config file already exists at %s (use --force to overwrite)", output)
	}

	password := uuid.NewString()
	hash, err := userstore.HashPassword(password, bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(output), 0o750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(output, fmt.Appendf(nil, configTemplate, hash), 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "✓ Config file created at %s\n", output)
	fmt.Fprintf(out, "  admin password: %s (shown once)\n", password)
	fmt.Fprintln(out, "\nNext steps:")
	fmt.Fprintln(out, "  1. Edit users and endpoints")
	fmt.Fprintln(out, "  2. Validate with: rolegate config validate")
	fmt.Fprintln(out, "  3. Start the server: rolegate serve")
	return nil
}
