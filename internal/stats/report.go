package stats

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/gkobilansky/conversion-goat/internal/experiment"
)

// GroupReport holds the observed conversions for one group.
type GroupReport struct {
	Group          experiment.Group
	Page           experiment.Page
	Conversions    int
	TotalUsers     int
	ConversionRate float64
	SharePercent   float64 // share of the whole dataset, rounded to 2 decimals
}

// ReportConversions counts conversions for one group. Every record of the
// group must have seen the same landing page.
func ReportConversions(records []experiment.Record, group experiment.Group) (GroupReport, error) {
	var (
		pages       []experiment.Page
		conversions int
		total       int
	)

	for _, r := range records {
		if r.Group != group {
			continue
		}
		total++
		if r.Converted {
			conversions++
		}
		if !containsPage(pages, r.Page) {
			pages = append(pages, r.Page)
		}
	}

	if total == 0 {
		return GroupReport{}, fmt.Errorf("%w: no users in the %s group", ErrDivisionByZero, group)
	}
	if len(pages) != 1 {
		return GroupReport{}, &DataIntegrityError{Group: group, Pages: pages}
	}

	share := float64(total) / float64(len(records)) * 100

	return GroupReport{
		Group:          group,
		Page:           pages[0],
		Conversions:    conversions,
		TotalUsers:     total,
		ConversionRate: float64(conversions) / float64(total),
		SharePercent:   math.Round(share*100) / 100,
	}, nil
}

// Message is the operator-facing status line for the report.
func (r GroupReport) Message() string {
	return fmt.Sprintf("Percentage of %s users who saw [%s]: %s%%", r.Group, r.Page, formatDecimal(r.SharePercent))
}

// formatDecimal prints the shortest exact representation, keeping one decimal for whole numbers.
func formatDecimal(x float64) string {
	s := strconv.FormatFloat(x, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

func containsPage(pages []experiment.Page, p experiment.Page) bool {
	for _, existing := range pages {
		if existing == p {
			return true
		}
	}
	return false
}
