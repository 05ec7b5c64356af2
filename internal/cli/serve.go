package cli

import (
	"github.com/gkobilansky/conversion-goat/internal/logging"
	"github.com/gkobilansky/conversion-goat/internal/server"
	"github.com/gkobilansky/conversion-goat/internal/store"
	"github.com/spf13/cobra"
)

var port int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long: `Start the conversion-goat HTTP server.

The server provides:
  - Stored experiments and their full analysis
  - Sample size and confidence interval calculators
  - Health check and Prometheus metrics endpoints

Example:
  cvg serve --port 8080`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntVarP(&port, "port", "p", 8080, "port to listen on (env CVG_PORT)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	if !cmd.Flags().Changed("port") {
		port = cfg.Server.Port
	}

	return withStore(func(s *store.SQLiteStore) error {
		srv := server.New(s, port, getTokenFilePath(), cfg.Params(), logging.New("server"))
		return srv.Start()
	})
}
