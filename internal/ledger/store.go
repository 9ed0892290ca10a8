// Package ledger owns the in-memory ordered collection of purchases and its
// round-trip to the persistence medium. Every mutation validates, applies and
// persists before returning; no other component holds a mutable reference to
// the collection, so the invariants on a purchase record are enforced at this
// single choke point.
package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"spendlog/internal/core"
	"spendlog/internal/log"
)

// Slot is the persistence medium: a single named slot holding the entire
// ledger as a JSON array. Get returns nil bytes when the slot is empty.
type Slot interface {
	Get(ctx context.Context) ([]byte, error)
	Put(ctx context.Context, data []byte) error
}

// ErrInvalidImport reports an import payload whose top level is not a JSON
// array. It is checked before any per-element sanitization happens.
var ErrInvalidImport = errors.New("invalid JSON format")

// Store holds the ledger in insertion order, newest-created-first. It is not
// safe for concurrent use; callers serialize access (the app has a single
// logical actor for mutations).
type Store struct {
	slot      Slot
	logger    *log.Logger
	purchases []core.Purchase
}

// Open loads the ledger from the slot. Missing data, unparsable JSON or a
// non-array payload all yield an empty ledger rather than an error: the
// application must always start usable. Individual malformed records are
// dropped by the sanitizer.
func Open(ctx context.Context, slot Slot, logger *log.Logger) *Store {
	s := &Store{slot: slot, logger: logger}
	s.purchases = s.load(ctx)
	return s
}

func (s *Store) load(ctx context.Context) []core.Purchase {
	data, err := s.slot.Get(ctx)
	if err != nil {
		s.logger.Warn("ledger read failed, starting empty", "error", err)
		return nil
	}
	if len(data) == 0 {
		return nil
	}
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		s.logger.Warn("stored ledger is not valid JSON, starting empty", "error", err)
		return nil
	}
	arr, ok := raw.([]any)
	if !ok {
		s.logger.Warn("stored ledger is not an array, starting empty")
		return nil
	}
	kept := sanitizeAll(arr)
	if dropped := len(arr) - len(kept); dropped > 0 {
		s.logger.Warn("dropped malformed records during load", "dropped", dropped, "kept", len(kept))
	}
	return kept
}

func sanitizeAll(arr []any) []core.Purchase {
	out := make([]core.Purchase, 0, len(arr))
	for _, el := range arr {
		if p, ok := core.Sanitize(el); ok {
			out = append(out, p)
		}
	}
	return out
}

// save serializes the full ledger back to the slot, overwriting prior
// content. This is the only write path; every mutation goes through it.
func (s *Store) save(ctx context.Context) error {
	data, err := json.Marshal(s.view())
	if err != nil {
		return fmt.Errorf("encode ledger: %w", err)
	}
	if err := s.slot.Put(ctx, data); err != nil {
		return fmt.Errorf("persist ledger: %w", err)
	}
	return nil
}

// All returns a read-only copy of the ledger in its current order.
func (s *Store) All() []core.Purchase {
	return s.view()
}

// Get returns the record with the given id.
func (s *Store) Get(id string) (core.Purchase, bool) {
	for _, p := range s.purchases {
		if p.ID == id {
			return p, true
		}
	}
	return core.Purchase{}, false
}

// Create validates, prepends a new record and persists. An empty item or an
// invalid price makes the whole operation a no-op: ok is false and nothing
// happened. An empty date defaults to today.
func (s *Store) Create(ctx context.Context, item, category string, price float64, date string) (core.Purchase, bool, error) {
	item = strings.TrimSpace(item)
	category = strings.TrimSpace(category)
	if core.ValidateEntry(item, price) != nil {
		return core.Purchase{}, false, nil
	}
	date = core.NormalizeDate(date)

	p := core.Purchase{
		ID:       uuid.NewString(),
		Item:     item,
		Category: category,
		Price:    price,
		Date:     date,
	}
	s.purchases = append([]core.Purchase{p}, s.purchases...)
	if err := s.save(ctx); err != nil {
		return core.Purchase{}, false, err
	}
	s.logger.Debug("purchase created", "id", p.ID, "item", p.Item, "price", p.Price)
	return p, true, nil
}

// Update replaces the record with the given id in place, preserving its
// position. No-op when validation fails or the id is gone (a stale edit
// session submitting against a deleted record lands here).
func (s *Store) Update(ctx context.Context, id, item, category string, price float64, date string) (core.Purchase, bool, error) {
	item = strings.TrimSpace(item)
	category = strings.TrimSpace(category)
	if core.ValidateEntry(item, price) != nil {
		return core.Purchase{}, false, nil
	}
	date = core.NormalizeDate(date)

	for i := range s.purchases {
		if s.purchases[i].ID != id {
			continue
		}
		p := core.Purchase{ID: id, Item: item, Category: category, Price: price, Date: date}
		s.purchases[i] = p
		if err := s.save(ctx); err != nil {
			return core.Purchase{}, false, err
		}
		s.logger.Debug("purchase updated", "id", id)
		return p, true, nil
	}
	return core.Purchase{}, false, nil
}

// Delete removes the record with the given id if present, then persists.
func (s *Store) Delete(ctx context.Context, id string) (bool, error) {
	removed := false
	for i := range s.purchases {
		if s.purchases[i].ID == id {
			s.purchases = append(s.purchases[:i], s.purchases[i+1:]...)
			removed = true
			break
		}
	}
	if err := s.save(ctx); err != nil {
		return removed, err
	}
	if removed {
		s.logger.Debug("purchase deleted", "id", id)
	}
	return removed, nil
}

// ReplaceAll maps every element of an import payload through the sanitizer,
// drops rejects, and replaces the entire ledger with the survivors in import
// order. The payload itself must decode to a JSON array; anything else is an
// ErrInvalidImport and leaves the ledger untouched.
func (s *Store) ReplaceAll(ctx context.Context, payload []byte) (int, error) {
	var raw any
	if err := json.Unmarshal(payload, &raw); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidImport, err)
	}
	arr, ok := raw.([]any)
	if !ok {
		return 0, ErrInvalidImport
	}

	next := sanitizeAll(arr)
	prev := s.purchases
	s.purchases = next
	if err := s.save(ctx); err != nil {
		s.purchases = prev
		return 0, err
	}
	s.logger.Info("ledger replaced by import", "imported", len(next), "dropped", len(arr)-len(next))
	return len(next), nil
}

// Clear empties the ledger and persists.
func (s *Store) Clear(ctx context.Context) error {
	s.purchases = nil
	if err := s.save(ctx); err != nil {
		return err
	}
	s.logger.Info("ledger cleared")
	return nil
}

// Export serializes the full ledger as indented JSON for download.
func (s *Store) Export() ([]byte, error) {
	return json.MarshalIndent(s.view(), "", "  ")
}

func (s *Store) view() []core.Purchase {
	out := make([]core.Purchase, len(s.purchases))
	copy(out, s.purchases)
	return out
}
