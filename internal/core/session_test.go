package core

import "testing"

func TestEditSessionStartsIdle(t *testing.T) {
	var s EditSession
	if id, editing := s.Editing(); editing || id != "" {
		t.Fatalf("expected idle session, got editing %q", id)
	}
}

func TestEditSessionBeginAndSubmit(t *testing.T) {
	var s EditSession
	s.Begin("abc")
	if id, editing := s.Editing(); !editing || id != "abc" {
		t.Fatalf("expected editing abc, got %q (%v)", id, editing)
	}

	s.Submitted("Food")
	if _, editing := s.Editing(); editing {
		t.Fatalf("expected idle after submit")
	}
	if s.LastCategory() != "Food" {
		t.Fatalf("expected last category retained, got %q", s.LastCategory())
	}
}

func TestEditSessionReset(t *testing.T) {
	var s EditSession
	s.Submitted("Food")
	s.Begin("abc")
	s.Reset()
	if _, editing := s.Editing(); editing {
		t.Fatalf("expected idle after reset")
	}
	// Reset clears the edit target but not the remembered category.
	if s.LastCategory() != "Food" {
		t.Fatalf("expected category to survive reset, got %q", s.LastCategory())
	}
}
