package core

import (
	"errors"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Purchase is the sole persisted entity: one ledger entry.
type Purchase struct {
	ID       string  `json:"id"`
	Item     string  `json:"item"`
	Category string  `json:"category"`
	Price    float64 `json:"price"`
	Date     string  `json:"date"` // purchase date, YYYY-MM-DD
}

var (
	ErrEmptyItem    = errors.New("empty item")
	ErrInvalidPrice = errors.New("invalid price")
)

const dateLayout = "2006-01-02"

// Today returns the local calendar date in canonical YYYY-MM-DD form.
func Today() string {
	return time.Now().Format(dateLayout)
}

// NormalizeDate makes a date string storage-shaped: empty becomes today,
// anything longer than 10 characters is truncated to its first 10. This is
// best-effort normalization, not a strict calendar check; malformed strings
// are preserved verbatim up to 10 characters.
func NormalizeDate(s string) string {
	if s == "" {
		return Today()
	}
	if len(s) > 10 {
		return s[:10]
	}
	return s
}

// ValidateEntry checks the create/update preconditions: a non-empty item and
// a non-negative finite price.
func ValidateEntry(item string, price float64) error {
	if strings.TrimSpace(item) == "" {
		return ErrEmptyItem
	}
	if math.IsNaN(price) || math.IsInf(price, 0) || price < 0 {
		return ErrInvalidPrice
	}
	return nil
}

// Sanitize validates and normalizes a raw record into a well-formed Purchase.
// It is the single trust boundary for externally supplied data: entries read
// back from the persistence medium and entries from an import file both pass
// through here before anything else sees them.
//
// A usable id is kept so imports can preserve original ids; a missing or
// empty one gets a fresh UUID. An empty item or an uncoercible, negative or
// non-finite price rejects the whole record. A missing date becomes today;
// date strings are truncated to their first 10 characters but otherwise
// preserved verbatim, so normalization here is best-effort rather than a
// strict calendar check.
func Sanitize(raw any) (Purchase, bool) {
	obj, ok := raw.(map[string]any)
	if !ok {
		return Purchase{}, false
	}

	id, _ := obj["id"].(string)
	if id == "" {
		id = uuid.NewString()
	}

	item := strings.TrimSpace(coerceString(obj["item"]))
	if item == "" {
		return Purchase{}, false
	}
	category := strings.TrimSpace(coerceString(obj["category"]))

	price, ok := coerceNumber(obj["price"])
	if !ok || math.IsNaN(price) || math.IsInf(price, 0) || price < 0 {
		return Purchase{}, false
	}

	date := NormalizeDate(coerceString(obj["date"]))

	return Purchase{ID: id, Item: item, Category: category, Price: price, Date: date}, true
}

func coerceString(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(s)
	default:
		return ""
	}
}

func coerceNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	case bool:
		if n {
			return 1, true
		}
		return 0, true
	default:
		return 0, false
	}
}
