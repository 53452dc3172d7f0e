package utils

import (
	"math"
	"testing"
)

func TestIntSet(t *testing.T) {
	s := NewIntSet(4, 1, 4)
	s.Add(3)
	s.Delete(1)
	if !s.Has(4) || s.Has(1) {
		t.Fatalf("unexpected content %v", s)
	}
	if got := s.Sorted(); len(got) != 2 || got[0] != 3 || got[1] != 4 {
		t.Fatalf("unexpected sorted content %v", got)
	}
}

func TestRound(t *testing.T) {
	if Round(0.1+0.2) != 0.3 {
		t.Fatal("expected 0.3")
	}
	if RoundPrec(1.256, 2) != 1.26 {
		t.Fatal("expected 1.26")
	}
	if IsFinite(Fl(math.Inf(-1))) || IsFinite(Fl(math.NaN())) || !IsFinite(0) {
		t.Fatal("unexpected finiteness")
	}
}
