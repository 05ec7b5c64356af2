package stats

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gkobilansky/conversion-goat/internal/experiment"
)

var (
	ErrDataIntegrity    = errors.New("data integrity")
	ErrDivisionByZero   = errors.New("division by zero")
	ErrInvalidParameter = errors.New("invalid parameter")
)

// DataIntegrityError is returned when a group saw more than one landing page.
type DataIntegrityError struct {
	Group experiment.Group
	Pages []experiment.Page
}

func (e *DataIntegrityError) Error() string {
	pages := make([]string, len(e.Pages))
	for i, p := range e.Pages {
		pages[i] = string(p)
	}
	return fmt.Sprintf("have non-singular pages seen by the %s group: [%s]; process data so the %s group sees a single page",
		e.Group, strings.Join(pages, " "), e.Group)
}

func (e *DataIntegrityError) Is(target error) bool {
	return target == ErrDataIntegrity
}

// Kind returns a stable label for the error kinds above, or "" for anything else.
func Kind(err error) string {
	switch {
	case errors.Is(err, ErrDataIntegrity):
		return "data_integrity"
	case errors.Is(err, ErrDivisionByZero):
		return "division_by_zero"
	case errors.Is(err, ErrInvalidParameter):
		return "invalid_parameter"
	default:
		return ""
	}
}

func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidParameter, fmt.Sprintf(format, args...))
}
