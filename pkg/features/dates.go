// pkg/features/dates.go
package features

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// DateLayout is the layout date_added is rewritten in
const DateLayout = "2006-01-02"

// layouts seen in catalog exports, tried before the generic parser
var layouts = []string{
	"January 2, 2006",
	"Jan 2, 2006",
	"2 January 2006",
	DateLayout,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"01/02/2006",
	"2006/01/02",
}

var errEmptyDate = errors.New("empty date")

// ParseDate parses a date written in any of the layouts found in catalog
// exports. Surrounding whitespace is ignored and results are in UTC.
func ParseDate(s string) (time.Time, error) {
	cleaned := strings.TrimSpace(s)
	if cleaned == "" {
		return time.Time{}, errEmptyDate
	}

	for _, layout := range layouts {
		if t, err := time.Parse(layout, cleaned); err == nil {
			return t, nil
		}
	}

	// Fall back to the permissive parser for anything else, reading
	// day-first dates like 13/01/2021 when month-first cannot apply
	t, err := dateparse.ParseIn(cleaned, time.UTC, dateparse.RetryAmbiguousDateWithSwap(true))
	if err != nil {
		return time.Time{}, fmt.Errorf("cannot parse date from %q: %w", cleaned, err)
	}
	return t, nil
}
