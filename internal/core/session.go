package core

// EditSession tracks whether the next form submission creates a new record or
// updates an existing one. It also remembers the last submitted category so
// consecutive entries of the same category need no retyping.
//
// Deleting the record under edit deliberately leaves the session pointing at
// the now-gone id; the following submit falls through to the store's
// no-op-on-missing-id rule.
type EditSession struct {
	editingID    string
	lastCategory string
}

// Begin moves the session to Editing(id): the next submit updates that record.
func (s *EditSession) Begin(id string) {
	s.editingID = id
}

// Editing reports the id under edit, if any.
func (s *EditSession) Editing() (string, bool) {
	return s.editingID, s.editingID != ""
}

// Reset returns the session to Idle without touching the remembered category.
func (s *EditSession) Reset() {
	s.editingID = ""
}

// Submitted records the outcome of a submit: the session returns to Idle
// whether or not the update found its record, and the submitted category
// becomes the remembered one.
func (s *EditSession) Submitted(category string) {
	s.editingID = ""
	s.lastCategory = category
}

// LastCategory is the category to repopulate the cleared entry form with.
func (s *EditSession) LastCategory() string {
	return s.lastCategory
}
