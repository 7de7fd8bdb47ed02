package main

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"github.com/tidwall/gjson"

	"github.com/omarluq/rolegate/internal/config"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Check if the rolegate server is running",
	Long: `Query the /health endpoint of the server at the configured listen
address and report its status, including the remote identity service breaker.`,
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(resolveConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	return checkHealth(cmd, "http://"+cfg.Server.Listen+"/health")
}

func checkHealth(cmd *cobra.Command, url string) error {
	out := cmd.OutOrStdout()
	client := &http.Client{Timeout: 5 * time.Second}

	req, err := http.NewRequestWithContext(cmd.Context(), http.MethodGet, url, http.NoBody)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		fmt.Fprintf(out, "✗ rolegate is not running (%s)\n", url)
		return fmt.Errorf("server not reachable: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck // read-only

	body, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return fmt.Errorf("failed to read health response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		fmt.Fprintf(out, "✗ rolegate returned unexpected status: %d\n", resp.StatusCode)
		return fmt.Errorf("health check failed with status %d", resp.StatusCode)
	}

	status := gjson.GetBytes(body, "status").String()
	fmt.Fprintf(out, "✓ rolegate is running (%s): %s\n", url, status)
	if remoteState := gjson.GetBytes(body, "remote"); remoteState.Exists() {
		fmt.Fprintf(out, "  remote identity service: %s\n", remoteState.String())
	}
	return nil
}
