package dashboard

import (
	"errors"
	"strings"
	"time"
)

const DateOnlyLayout = "2006-01-02"

var ErrInvalidDate = errors.New("invalid_time")

// Filter narrows the rows of the current page for display.
type Filter struct {
	Search string
	From   *time.Time
	To     *time.Time
}

// Term is the normalized search term.
func (f Filter) Term() string {
	return strings.ToLower(strings.TrimSpace(f.Search))
}

// Empty reports whether the filter lets every row through.
func (f Filter) Empty() bool {
	return f.Term() == "" && f.From == nil && f.To == nil
}

// Match reports whether r passes both the search and the date bounds.
func (f Filter) Match(r Record) bool {
	if term := f.Term(); term != "" {
		if !hasPrefixFold(r.Name, term) && !hasPrefixFold(r.Email, term) && !hasPrefixFold(r.Phone, term) {
			return false
		}
	}
	if f.From != nil && r.CreatedAt.Before(*f.From) {
		return false
	}
	if f.To != nil && r.CreatedAt.After(*f.To) {
		return false
	}
	return true
}

// Apply returns the matching records in their original order.
func (f Filter) Apply(records []Record) []Record {
	out := make([]Record, 0, len(records))
	for _, r := range records {
		if f.Match(r) {
			out = append(out, r)
		}
	}
	return out
}

func hasPrefixFold(field, lowerTerm string) bool {
	return strings.HasPrefix(strings.ToLower(field), lowerTerm)
}

// ParseDateBound parses an RFC3339 timestamp or a YYYY-MM-DD date. A date
// resolves to the start of the day, or its last nanosecond when endOfDay is set.
func ParseDateBound(value string, endOfDay bool) (*time.Time, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil, nil
	}
	if parsed, err := time.Parse(time.RFC3339, trimmed); err == nil {
		return &parsed, nil
	}
	if parsed, err := time.Parse(DateOnlyLayout, trimmed); err == nil {
		if endOfDay {
			parsed = time.Date(parsed.Year(), parsed.Month(), parsed.Day(), 23, 59, 59, int(time.Second-time.Nanosecond), time.UTC)
		} else {
			parsed = time.Date(parsed.Year(), parsed.Month(), parsed.Day(), 0, 0, 0, 0, time.UTC)
		}
		return &parsed, nil
	}
	return nil, ErrInvalidDate
}
