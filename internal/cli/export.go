package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/gkobilansky/conversion-goat/internal/dataset"
	"github.com/gkobilansky/conversion-goat/internal/experiment"
	"github.com/gkobilansky/conversion-goat/internal/store"
	"github.com/spf13/cobra"
)

var exportFormat string

var exportCmd = &cobra.Command{
	Use:   "export <name>",
	Short: "Export a stored dataset",
	Long: `Export a stored clean dataset in CSV or JSON format.

Examples:
  cvg export landing --format csv > landing.csv
  cvg export landing --format json > landing.json`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "csv", "output format (csv or json)")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	name := args[0]

	if exportFormat != "csv" && exportFormat != "json" {
		return fmt.Errorf("invalid format: must be 'csv' or 'json'")
	}

	return withStore(func(s *store.SQLiteStore) error {
		records, err := s.GetRecords(context.Background(), name)
		if err != nil {
			return notFound(err, name)
		}

		if exportFormat == "csv" {
			return dataset.Write(cmd.OutOrStdout(), records, cfg.DatasetColumns())
		}
		return exportJSON(cmd.OutOrStdout(), name, records)
	})
}

type jsonExport struct {
	Experiment string       `json:"experiment"`
	Records    []jsonRecord `json:"records"`
}

type jsonRecord struct {
	UserID    string `json:"user_id"`
	Group     string `json:"group"`
	Page      string `json:"landing_page"`
	Converted bool   `json:"converted"`
}

func exportJSON(w io.Writer, name string, records []experiment.Record) error {
	export := jsonExport{
		Experiment: name,
		Records:    make([]jsonRecord, len(records)),
	}

	for i, r := range records {
		export.Records[i] = jsonRecord{
			UserID:    r.UserID,
			Group:     string(r.Group),
			Page:      string(r.Page),
			Converted: r.Converted,
		}
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(export)
}
