package source

import (
	"testing"
)

func TestSpan_Cover(t *testing.T) {
	tests := []struct {
		name     string
		a, b     Span
		expected Span
	}{
		{
			name:     "disjoint spans",
			a:        Span{File: 1, Start: 10, End: 12},
			b:        Span{File: 1, Start: 20, End: 25},
			expected: Span{File: 1, Start: 10, End: 25},
		},
		{
			name:     "nested span",
			a:        Span{File: 1, Start: 0, End: 30},
			b:        Span{File: 1, Start: 5, End: 6},
			expected: Span{File: 1, Start: 0, End: 30},
		},
		{
			name:     "different files keep receiver",
			a:        Span{File: 1, Start: 3, End: 4},
			b:        Span{File: 2, Start: 0, End: 100},
			expected: Span{File: 1, Start: 3, End: 4},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Cover(tt.b); got != tt.expected {
				t.Errorf("Cover() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestSpan_ShiftRightAndAt(t *testing.T) {
	s := Span{File: 3, Start: 2, End: 7}
	shifted := s.ShiftRight(10)
	if shifted.Start != 12 || shifted.End != 17 || shifted.File != 3 {
		t.Fatalf("unexpected shifted span %v", shifted)
	}
	at := s.At()
	if !at.Empty() || at.Start != 7 {
		t.Fatalf("expected empty span at 7, got %v", at)
	}
	if !s.Contains(Span{File: 3, Start: 3, End: 7}) {
		t.Fatal("expected span to contain its suffix")
	}
	if s.Contains(Span{File: 3, Start: 1, End: 4}) {
		t.Fatal("span must not contain a range starting before it")
	}
}
