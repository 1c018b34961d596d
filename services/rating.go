package services

import "math"

// RatingK is the ELO K-factor. Fixed: changing it mid-history would make old
// and new deltas incomparable.
const RatingK = 32

// ExpectedScore returns the expected score (win probability estimate) for a
// player rated a against an opponent rated b.
func ExpectedScore(a, b int) float64 {
	return 1.0 / (1.0 + math.Pow(10, float64(b-a)/400.0))
}

// ComputeUpdatedRatings applies one ELO update for a decided contest between
// ratings a and b. Each side is rounded independently, so the combined rating
// mass can drift by a point; that is a property of the formula, not a bug.
func ComputeUpdatedRatings(a, b int, aWon bool) (newA, newB int) {
	expectedA := ExpectedScore(a, b)
	expectedB := ExpectedScore(b, a)

	scoreA, scoreB := 0.0, 1.0
	if aWon {
		scoreA, scoreB = 1.0, 0.0
	}

	newA = a + int(math.Round(RatingK*(scoreA-expectedA)))
	newB = b + int(math.Round(RatingK*(scoreB-expectedB)))
	return newA, newB
}

// SideRating collapses a side into the single rating used for the pairwise
// update: the rounded mean of the members' ratings for the discipline being
// played. A one-player side is just that player's rating.
func SideRating(ratings []int) int {
	if len(ratings) == 0 {
		return 0
	}
	sum := 0
	for _, r := range ratings {
		sum += r
	}
	return int(math.Round(float64(sum) / float64(len(ratings))))
}
