package core

import (
	"strings"
	"time"
)

// Criteria is the ephemeral filter predicate used to derive a view: free-text
// substring over item and category, exact category match, and inclusive
// from/to date bounds. Unset or malformed fields never exclude.
type Criteria struct {
	Text     string
	Category string
	From     string
	To       string
}

// ApplyFilter returns the records matching every active criterion, preserving
// ledger order among matches. Text and category comparisons are
// case-insensitive on trimmed values. The from bound is the start of its day
// and the to bound covers the entire "to" day, so a single-day range
// [from=to=D] matches records dated D.
func ApplyFilter(list []Purchase, c Criteria) []Purchase {
	text := strings.ToLower(strings.TrimSpace(c.Text))
	cat := strings.ToLower(strings.TrimSpace(c.Category))
	from, hasFrom := parseDay(c.From)
	to, hasTo := parseDay(c.To)

	out := make([]Purchase, 0, len(list))
	for _, p := range list {
		if text != "" &&
			!strings.Contains(strings.ToLower(p.Item), text) &&
			!strings.Contains(strings.ToLower(p.Category), text) {
			continue
		}
		if cat != "" && strings.ToLower(p.Category) != cat {
			continue
		}
		if hasFrom || hasTo {
			// Records with unparsable dates stay visible: bounds cannot
			// exclude what they cannot place on the calendar.
			if d, ok := parseDay(p.Date); ok {
				if hasFrom && d.Before(from) {
					continue
				}
				if hasTo && d.After(to) {
					continue
				}
			}
		}
		out = append(out, p)
	}
	return out
}

// Total sums the price of every record in the list.
func Total(list []Purchase) float64 {
	var sum float64
	for _, p := range list {
		sum += p.Price
	}
	return sum
}

func parseDay(s string) (time.Time, bool) {
	t, err := time.Parse(dateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
