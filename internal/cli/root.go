package cli

import (
	"fmt"
	"os"

	"github.com/gkobilansky/conversion-goat/internal/config"
	"github.com/gkobilansky/conversion-goat/internal/logging"
	"github.com/spf13/cobra"
)

var (
	dbPath     string
	configPath string
	logLevel   string
	logFormat  string

	userCol      string
	groupCol     string
	pageCol      string
	convertedCol string

	// cfg is resolved before every command runs
	cfg = config.Default()
)

var rootCmd = &cobra.Command{
	Use:   "cvg",
	Short: "Conversion Goat - analyze two-variant landing page experiments",
	Long: `🐐 Conversion Goat cleans A/B test exports, reports conversion rates,
sizes experiments and builds confidence intervals for the difference
between control and treatment.

Single Go binary, embedded SQLite for stored datasets.`,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", getEnvOrDefault("CVG_DB_PATH", "./cvg.db"), "database path")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", getEnvOrDefault("CVG_CONFIG", ""), "YAML config file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "log format (text or json)")

	cols := cfg.DatasetColumns()
	rootCmd.PersistentFlags().StringVar(&userCol, "user-col", cols.UserID, "CSV column holding the user id")
	rootCmd.PersistentFlags().StringVar(&groupCol, "group-col", cols.Group, "CSV column holding the group")
	rootCmd.PersistentFlags().StringVar(&pageCol, "page-col", cols.Page, "CSV column holding the landing page")
	rootCmd.PersistentFlags().StringVar(&convertedCol, "converted-col", cols.Converted, "CSV column holding the converted flag")
}

// loadConfig builds cfg from defaults, the config file and the environment,
// then applies any flags set on the command line.
func loadConfig(cmd *cobra.Command, args []string) error {
	loaded, err := config.Load(configPath)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("db") {
		loaded.Database = dbPath
	}
	if flags.Changed("log-level") {
		loaded.Log.Level = logLevel
	}
	if flags.Changed("log-format") {
		loaded.Log.Format = logFormat
	}
	if flags.Changed("user-col") {
		loaded.Columns.UserID = userCol
	}
	if flags.Changed("group-col") {
		loaded.Columns.Group = groupCol
	}
	if flags.Changed("page-col") {
		loaded.Columns.Page = pageCol
	}
	if flags.Changed("converted-col") {
		loaded.Columns.Converted = convertedCol
	}

	if err := loaded.Validate(); err != nil {
		return err
	}

	level, err := logging.ParseLevel(loaded.Log.Level)
	if err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}
	logging.Init(level, loaded.Log.Format, cmd.ErrOrStderr())

	cfg = loaded
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
