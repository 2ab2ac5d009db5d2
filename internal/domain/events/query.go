package events

import (
	"fmt"
	"iter"
	"net/url"
	"strings"

	"golang.org/x/text/cases"
)

// Source is the read side of the event store consumed by Filter.
type Source interface {
	All() iter.Seq[Event]
}

// Filters narrows an event listing. Zero values match everything.
type Filters struct {
	Search   string
	BranchID string
	Status   string
}

type FilterError struct {
	Field   string
	Message string
}

func (e FilterError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// ParseFilters reads q, branch and status from a query string.
func ParseFilters(values url.Values) (Filters, error) {
	filters := Filters{
		Search:   strings.TrimSpace(values.Get("q")),
		BranchID: strings.TrimSpace(values.Get("branch")),
	}
	if raw := strings.TrimSpace(values.Get("status")); raw != "" {
		status, ok := ParseStatus(raw)
		if !ok {
			return filters, FilterError{Field: "status", Message: "must be upcoming, ongoing or completed"}
		}
		filters.Status = string(status)
	}
	return filters, nil
}

// Filter lazily yields the events of src that match f, in enumeration order.
//
// Search matches a case-insensitive substring of the name or description.
// Status compares case-insensitively; BranchID must match exactly.
func Filter(src Source, f Filters) iter.Seq[Event] {
	return func(yield func(Event) bool) {
		// A Caser keeps state, so each iteration gets its own.
		fold := cases.Fold()
		needle := fold.String(f.Search)
		for ev := range src.All() {
			if f.BranchID != "" && ev.BranchID != f.BranchID {
				continue
			}
			if f.Status != "" && !strings.EqualFold(string(ev.Status), f.Status) {
				continue
			}
			if needle != "" &&
				!strings.Contains(fold.String(ev.Name), needle) &&
				!strings.Contains(fold.String(ev.Description), needle) {
				continue
			}
			if !yield(ev) {
				return
			}
		}
	}
}

// Filter is shorthand for Filter(s, Filters{...}).
func (s *Store) Filter(search, branchID, status string) iter.Seq[Event] {
	return Filter(s, Filters{Search: search, BranchID: branchID, Status: status})
}
