package core

import (
	"encoding/json"
	"testing"
)

func mustDecode(t *testing.T, s string) any {
	t.Helper()
	var v any
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		t.Fatalf("decode %q: %v", s, err)
	}
	return v
}

func TestSanitizeValidRecord(t *testing.T) {
	raw := mustDecode(t, `{"id":"abc","item":" Tea ","category":" Drinks ","price":3,"date":"2024-03-04"}`)
	p, ok := Sanitize(raw)
	if !ok {
		t.Fatalf("expected record to be accepted")
	}
	if p.ID != "abc" {
		t.Fatalf("expected id preserved, got %q", p.ID)
	}
	if p.Item != "Tea" || p.Category != "Drinks" {
		t.Fatalf("expected trimmed fields, got %q / %q", p.Item, p.Category)
	}
	if p.Price != 3 {
		t.Fatalf("expected price 3, got %v", p.Price)
	}
	if p.Date != "2024-03-04" {
		t.Fatalf("expected date kept, got %q", p.Date)
	}
}

func TestSanitizeRejects(t *testing.T) {
	cases := []string{
		`{"item":"","price":5}`,             // empty item
		`{"item":"   ","price":5}`,          // whitespace item
		`{"price":5}`,                       // missing item
		`{"item":"Milk","price":"bad"}`,     // non-numeric price
		`{"item":"Milk"}`,                   // missing price
		`{"item":"Milk","price":-2}`,        // negative price
		`"just a string"`,                   // not an object
		`42`,                                // not an object
		`null`,                              // not an object
	}
	for i, c := range cases {
		if _, ok := Sanitize(mustDecode(t, c)); ok {
			t.Fatalf("case %d (%s): expected rejection", i, c)
		}
	}
}

func TestSanitizeGeneratesMissingID(t *testing.T) {
	raw := mustDecode(t, `{"item":"Tea","price":3,"date":"2024-01-01"}`)
	p1, ok := Sanitize(raw)
	if !ok {
		t.Fatalf("expected record to be accepted")
	}
	if p1.ID == "" {
		t.Fatalf("expected a generated id")
	}
	p2, _ := Sanitize(raw)
	if p1.ID == p2.ID {
		t.Fatalf("expected fresh unique ids, got %q twice", p1.ID)
	}

	// An empty id string also gets replaced.
	raw = mustDecode(t, `{"id":"","item":"Tea","price":3,"date":"2024-01-01"}`)
	p3, _ := Sanitize(raw)
	if p3.ID == "" {
		t.Fatalf("expected a generated id for empty id field")
	}
}

func TestSanitizeDateNormalization(t *testing.T) {
	// Timestamps are truncated to the first 10 characters.
	raw := mustDecode(t, `{"item":"Tea","price":3,"date":"2024-03-04T15:04:05Z"}`)
	p, _ := Sanitize(raw)
	if p.Date != "2024-03-04" {
		t.Fatalf("expected truncated date, got %q", p.Date)
	}

	// Malformed short dates are preserved verbatim, not rejected.
	raw = mustDecode(t, `{"item":"Tea","price":3,"date":"garbage"}`)
	p, ok := Sanitize(raw)
	if !ok {
		t.Fatalf("malformed date must not reject the record")
	}
	if p.Date != "garbage" {
		t.Fatalf("expected verbatim date, got %q", p.Date)
	}

	// Missing date becomes today.
	raw = mustDecode(t, `{"item":"Tea","price":3}`)
	p, _ = Sanitize(raw)
	if p.Date != Today() {
		t.Fatalf("expected today's date, got %q", p.Date)
	}
	if len(p.Date) != 10 {
		t.Fatalf("expected canonical 10-char date, got %q", p.Date)
	}
}

func TestSanitizeCoercion(t *testing.T) {
	// Numeric item coerces to its text form; string price parses.
	raw := mustDecode(t, `{"item":42,"price":"3.50","date":"2024-01-01"}`)
	p, ok := Sanitize(raw)
	if !ok {
		t.Fatalf("expected record to be accepted")
	}
	if p.Item != "42" {
		t.Fatalf("expected coerced item, got %q", p.Item)
	}
	if p.Price != 3.5 {
		t.Fatalf("expected price 3.5, got %v", p.Price)
	}
	if p.Category != "" {
		t.Fatalf("expected empty category allowed, got %q", p.Category)
	}
}

func TestValidateEntry(t *testing.T) {
	if err := ValidateEntry("Tea", 0); err != nil {
		t.Fatalf("zero price is valid, got %v", err)
	}
	if err := ValidateEntry("", 1); err != ErrEmptyItem {
		t.Fatalf("expected ErrEmptyItem, got %v", err)
	}
	if err := ValidateEntry("  ", 1); err != ErrEmptyItem {
		t.Fatalf("expected ErrEmptyItem for blank item, got %v", err)
	}
	if err := ValidateEntry("Tea", -1); err != ErrInvalidPrice {
		t.Fatalf("expected ErrInvalidPrice, got %v", err)
	}
}
