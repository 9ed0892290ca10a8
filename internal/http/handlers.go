package http

import (
	"errors"
	"io"
	"net/http"

	"spendlog/internal/core"
	"spendlog/internal/ledger"
)

// maxImportBytes bounds the size of an uploaded import file.
const maxImportBytes = 10 << 20

// formState is what the frontend needs to repaint the entry form after a
// submit or reset: cleared fields except for the retained category, and
// whether a record is under edit.
type formState struct {
	Item     string `json:"item"`
	Category string `json:"category"`
	Price    string `json:"price"`
	Date     string `json:"date"`
	Editing  string `json:"editing"`
}

type submitRequest struct {
	Item     string `json:"item"`
	Category string `json:"category"`
	Price    string `json:"price"`
	Date     string `json:"date"`
}

// handleListPurchases returns the filtered view of the ledger with its
// running total.
func (s *Server) handleListPurchases(w http.ResponseWriter, r *http.Request) {
	criteria := parseCriteria(r.URL.Query())

	s.mu.Lock()
	list := core.ApplyFilter(s.store.All(), criteria)
	editing, _ := s.session.Editing()
	s.mu.Unlock()

	total := core.Total(list)
	writeJSON(w, http.StatusOK, map[string]any{
		"purchases":      list,
		"count":          len(list),
		"total":          total,
		"formattedTotal": core.FormatGBP(total),
		"editing":        editing,
	})
}

// handleBeginEdit moves the edit session to Editing(id) and returns the
// record's current values for form population.
func (s *Server) handleBeginEdit(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.store.Get(id)
	if !ok {
		writeError(w, http.StatusNotFound, "purchase not found")
		return
	}
	s.session.Begin(id)
	writeJSON(w, http.StatusOK, formState{
		Item:     p.Item,
		Category: p.Category,
		Price:    formatPrice(p.Price),
		Date:     p.Date,
		Editing:  id,
	})
}

// handleSubmit performs the session-aware submit: create while Idle, update
// while Editing. Validation failure is a silent no-op that leaves the form
// and session untouched. A successful pass clears the form except for the
// category, which is retained for the next entry.
func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	var req submitRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	item := sanitizeInput(req.Item)
	category := sanitizeInput(req.Category)
	price := parsePrice(req.Price)

	s.mu.Lock()
	defer s.mu.Unlock()

	if core.ValidateEntry(item, price) != nil {
		editing, _ := s.session.Editing()
		writeJSON(w, http.StatusOK, map[string]any{
			"applied": false,
			"form": formState{
				Item:     req.Item,
				Category: req.Category,
				Price:    req.Price,
				Date:     req.Date,
				Editing:  editing,
			},
		})
		return
	}

	var (
		applied bool
		err     error
	)
	if id, ok := s.session.Editing(); ok {
		_, applied, err = s.store.Update(r.Context(), id, item, category, price, req.Date)
	} else {
		_, applied, err = s.store.Create(r.Context(), item, category, price, req.Date)
	}
	if err != nil {
		s.logger.Error("submit failed to persist", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to save purchase")
		return
	}

	// Back to Idle either way; a stale edit id is a no-op by design.
	s.session.Submitted(category)
	writeJSON(w, http.StatusOK, map[string]any{
		"applied": applied,
		"form": formState{
			Category: s.session.LastCategory(),
			Date:     core.Today(),
		},
	})
}

// handleResetForm clears the session back to Idle and returns an empty form.
func (s *Server) handleResetForm(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.session.Reset()
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]any{
		"form": formState{Date: core.Today()},
	})
}

// handleDeletePurchase deletes a record. The edit session is deliberately
// left alone: deleting the record under edit leaves the session pointing at
// a gone id, and the next submit becomes a no-op.
func (s *Server) handleDeletePurchase(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	s.mu.Lock()
	deleted, err := s.store.Delete(r.Context(), id)
	s.mu.Unlock()

	if err != nil {
		s.logger.Error("delete failed to persist", "error", err, "id", id)
		writeError(w, http.StatusInternalServerError, "failed to delete purchase")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"deleted": deleted})
}

// handleImport replaces the whole ledger with a sanitized import payload.
// A top-level non-array is a user-visible error and leaves the ledger
// unchanged; malformed elements are silently dropped.
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxImportBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "could not read import file")
		return
	}

	s.mu.Lock()
	imported, err := s.store.ReplaceAll(r.Context(), body)
	s.mu.Unlock()

	if errors.Is(err, ledger.ErrInvalidImport) {
		writeError(w, http.StatusUnprocessableEntity, "Import failed: invalid JSON format")
		return
	}
	if err != nil {
		s.logger.Error("import failed to persist", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to save imported ledger")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"imported": imported})
}

// handleExport serves the full ledger as an indented JSON download.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	data, err := s.store.Export()
	s.mu.Unlock()

	if err != nil {
		s.logger.Error("export failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to export ledger")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="purchases.json"`)
	_, _ = w.Write(data)
}

// handleClearAll empties the ledger.
func (s *Server) handleClearAll(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	err := s.store.Clear(r.Context())
	s.mu.Unlock()

	if err != nil {
		s.logger.Error("clear failed to persist", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to clear ledger")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"cleared": true})
}

// handleWeeklyChart returns stacked-bar series for the filtered view,
// grouped by Monday-anchored week and category.
func (s *Server) handleWeeklyChart(w http.ResponseWriter, r *http.Request) {
	criteria := parseCriteria(r.URL.Query())

	s.mu.Lock()
	list := core.ApplyFilter(s.store.All(), criteria)
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, core.ComputeWeeklySeries(list))
}
