package services

import (
	"math"
	"testing"
)

func TestComputeUpdatedRatings(t *testing.T) {
	tests := []struct {
		name  string
		a, b  int
		aWon  bool
		wantA int
		wantB int
	}{
		{"equal ratings, a wins", 1000, 1000, true, 1016, 984},
		{"equal ratings, b wins", 1000, 1000, false, 984, 1016},
		{"favorite wins, small delta", 1400, 1000, true, 1403, 997},
		{"upset, large delta", 1400, 1000, false, 1371, 1029},
		{"slight favorite wins", 1050, 950, true, 1063, 937},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotA, gotB := ComputeUpdatedRatings(tt.a, tt.b, tt.aWon)
			if gotA != tt.wantA || gotB != tt.wantB {
				t.Errorf("ComputeUpdatedRatings(%d, %d, %t) = (%d, %d), want (%d, %d)",
					tt.a, tt.b, tt.aWon, gotA, gotB, tt.wantA, tt.wantB)
			}
		})
	}
}

func TestComputeUpdatedRatingsDeterministic(t *testing.T) {
	a1, b1 := ComputeUpdatedRatings(1234, 987, true)
	a2, b2 := ComputeUpdatedRatings(1234, 987, true)
	if a1 != a2 || b1 != b2 {
		t.Errorf("same inputs produced different outputs: (%d, %d) vs (%d, %d)", a1, b1, a2, b2)
	}
}

func TestExpectedScore(t *testing.T) {
	if got := ExpectedScore(1000, 1000); math.Abs(got-0.5) > 1e-9 {
		t.Errorf("ExpectedScore(1000, 1000) = %f, want 0.5", got)
	}

	// A 400-point gap means 10:1 odds for the favorite.
	if got := ExpectedScore(1400, 1000); math.Abs(got-10.0/11.0) > 1e-9 {
		t.Errorf("ExpectedScore(1400, 1000) = %f, want %f", got, 10.0/11.0)
	}

	pairs := [][2]int{{1000, 1000}, {1400, 1000}, {800, 1600}, {1050, 950}}
	for _, p := range pairs {
		sum := ExpectedScore(p[0], p[1]) + ExpectedScore(p[1], p[0])
		if math.Abs(sum-1.0) > 1e-9 {
			t.Errorf("expected scores for %d vs %d sum to %f, want 1", p[0], p[1], sum)
		}
	}
}

func TestSideRating(t *testing.T) {
	tests := []struct {
		name    string
		ratings []int
		want    int
	}{
		{"single player", []int{1000}, 1000},
		{"even mean", []int{1000, 1100}, 1050},
		{"half rounds up", []int{1000, 1101}, 1051},
		{"empty", nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SideRating(tt.ratings); got != tt.want {
				t.Errorf("SideRating(%v) = %d, want %d", tt.ratings, got, tt.want)
			}
		})
	}
}
