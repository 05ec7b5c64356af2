package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/gkobilansky/conversion-goat/internal/experiment"
)

var ErrMissingColumn = errors.New("missing column")

// Columns names the header fields that hold each record attribute.
type Columns struct {
	UserID    string
	Group     string
	Page      string
	Converted string
}

func DefaultColumns() Columns {
	return Columns{
		UserID:    "user_id",
		Group:     "group",
		Page:      "landing_page",
		Converted: "converted",
	}
}

func (c Columns) header() []string {
	return []string{c.UserID, c.Group, c.Page, c.Converted}
}

// Read parses a delimited export with a header row. Columns not named in
// cols are ignored.
func Read(r io.Reader, cols Columns) ([]experiment.Record, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("empty dataset: no header row")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.TrimSpace(name)] = i
	}

	positions := make([]int, 0, 4)
	for _, name := range cols.header() {
		i, ok := index[name]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrMissingColumn, name)
		}
		positions = append(positions, i)
	}

	var records []experiment.Record
	line := 1
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("failed to read line %d: %w", line, err)
		}

		for _, p := range positions {
			if p >= len(row) {
				return nil, fmt.Errorf("line %d: expected at least %d fields, got %d", line, p+1, len(row))
			}
		}

		converted, err := parseConverted(row[positions[3]])
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid %s value %q: %w", line, cols.Converted, row[positions[3]], err)
		}

		records = append(records, experiment.Record{
			UserID:    strings.TrimSpace(row[positions[0]]),
			Group:     experiment.Group(strings.TrimSpace(row[positions[1]])),
			Page:      experiment.Page(strings.TrimSpace(row[positions[2]])),
			Converted: converted,
		})
	}

	return records, nil
}

func ReadFile(path string, cols Columns) ([]experiment.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset: %w", err)
	}
	defer f.Close()

	return Read(f, cols)
}

// Write emits records with a header row; converted is written as 0 or 1.
func Write(w io.Writer, records []experiment.Record, cols Columns) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(cols.header()); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for _, r := range records {
		converted := "0"
		if r.Converted {
			converted = "1"
		}
		if err := cw.Write([]string{r.UserID, string(r.Group), string(r.Page), converted}); err != nil {
			return fmt.Errorf("failed to write record: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

func WriteFile(path string, records []experiment.Record, cols Columns) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create dataset file: %w", err)
	}

	if err := Write(f, records, cols); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// parseConverted rejects blank cells; a missing outcome is not a non-conversion.
func parseConverted(s string) (bool, error) {
	return strconv.ParseBool(strings.TrimSpace(s))
}
