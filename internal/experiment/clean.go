package experiment

// CleanSummary counts what Clean kept and dropped.
type CleanSummary struct {
	Raw        int
	Mismatched int // group saw the other group's page
	Duplicates int // earlier rows of a repeated user
	Clean      int
}

// Clean drops records whose group saw the wrong landing page, then keeps
// only the last occurrence of every user. The input is not modified.
func Clean(records []Record) []Record {
	clean, _ := CleanWithSummary(records)
	return clean
}

// CleanWithSummary is Clean plus the counts of dropped rows.
func CleanWithSummary(records []Record) ([]Record, CleanSummary) {
	summary := CleanSummary{Raw: len(records)}

	consistent := make([]Record, 0, len(records))
	for _, r := range records {
		if !r.Consistent() {
			summary.Mismatched++
			continue
		}
		consistent = append(consistent, r)
	}

	// Index of the last occurrence of each user
	last := make(map[string]int, len(consistent))
	for i, r := range consistent {
		last[r.UserID] = i
	}

	clean := make([]Record, 0, len(last))
	for i, r := range consistent {
		if last[r.UserID] != i {
			summary.Duplicates++
			continue
		}
		clean = append(clean, r)
	}

	summary.Clean = len(clean)
	return clean, summary
}
