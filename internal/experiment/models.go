package experiment

type Group string

const (
	GroupControl   Group = "control"
	GroupTreatment Group = "treatment"
)

type Page string

const (
	PageOld Page = "old_page"
	PageNew Page = "new_page"
)

// Record is one observation from an experiment export.
type Record struct {
	UserID    string
	Group     Group
	Page      Page
	Converted bool
}

// ExpectedPage returns the landing page a group is supposed to see.
func ExpectedPage(g Group) (Page, bool) {
	switch g {
	case GroupControl:
		return PageOld, true
	case GroupTreatment:
		return PageNew, true
	default:
		return "", false
	}
}

// Consistent reports whether the record's group saw its own page.
func (r Record) Consistent() bool {
	page, ok := ExpectedPage(r.Group)
	return ok && r.Page == page
}
