// Package main is the entry point for rolegate.
package main

import (
	"context"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"

	"github.com/omarluq/rolegate/internal/version"
)

const defaultConfigFile = "rolegate.yaml"

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "rolegate",
	Short: "HTTP Basic authentication gate with per-endpoint roles",
	Long: `rolegate serves a set of HTTP endpoints behind HTTP Basic authentication.
Each endpoint declares the roles a caller must hold; credentials are checked
against configured users or a remote identity service.`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file path (default: ./"+defaultConfigFile+" or ~/.config/rolegate/"+defaultConfigFile+")")
}

func main() {
	if err := fang.Execute(context.Background(), rootCmd, fang.WithVersion(version.String())); err != nil {
		os.Exit(1)
	}
}
