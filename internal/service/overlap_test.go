package service

import (
	"testing"
	"time"
)

func TestOverlaps(t *testing.T) {
	at := func(h int) time.Time {
		return time.Date(2026, 3, 10, h, 0, 0, 0, time.UTC)
	}

	tests := []struct {
		name           string
		s1, e1, s2, e2 time.Time
		want           bool
	}{
		{"identical", at(9), at(11), at(9), at(11), true},
		{"partial overlap", at(9), at(11), at(10), at(12), true},
		{"contained", at(9), at(17), at(10), at(11), true},
		{"touching end to start", at(9), at(11), at(11), at(12), false},
		{"touching start to end", at(11), at(12), at(9), at(11), false},
		{"disjoint", at(9), at(10), at(14), at(15), false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Overlaps(tc.s1, tc.e1, tc.s2, tc.e2); got != tc.want {
				t.Fatalf("Overlaps(%v,%v,%v,%v) = %v, want %v", tc.s1, tc.e1, tc.s2, tc.e2, got, tc.want)
			}
			// Overlap is symmetric.
			if got := Overlaps(tc.s2, tc.e2, tc.s1, tc.e1); got != tc.want {
				t.Fatalf("Overlaps not symmetric for %s", tc.name)
			}
		})
	}
}
