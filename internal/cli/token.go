package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Show the API token of the running server",
	Long: `Show the API access token of the running server.

Use this when you've scrolled past the startup message.

Example:
  cvg token`,
	RunE: runToken,
}

func init() {
	rootCmd.AddCommand(tokenCmd)
}

func runToken(cmd *cobra.Command, args []string) error {
	tokenFile := getTokenFilePath()

	data, err := os.ReadFile(tokenFile)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("no server running. Start with: cvg serve")
		}
		return fmt.Errorf("failed to read token file: %w", err)
	}

	token := strings.TrimSpace(string(data))
	if token == "" {
		return fmt.Errorf("token file is empty. Restart the server with: cvg serve")
	}

	fmt.Fprintf(cmd.OutOrStdout(), "API token: %s\n", token)
	fmt.Fprintln(cmd.OutOrStdout())
	fmt.Fprintf(cmd.OutOrStdout(), "Try: curl -H 'Authorization: Bearer %s' http://localhost:%d/api/experiments\n", token, cfg.Server.Port)
	return nil
}

// getTokenFilePath returns the path to the token file
func getTokenFilePath() string {
	// Store token file alongside the database
	dir := filepath.Dir(cfg.Database)
	return filepath.Join(dir, ".cvg-token")
}
