package models

// PlayerProfile is the rating-bearing record for one player. The ID is the
// stable identity handed out by the session verifier (same UUID space as the
// auth service). Ratings move only when a match is confirmed; no other code
// path writes them.
type PlayerProfile struct {
	ID          string `gorm:"primaryKey;type:uuid" json:"id"`
	DisplayName string `gorm:"index;not null" json:"display_name"`
	City        string `gorm:"index" json:"city,omitempty"`

	// Per-discipline ratings, initialized from RATING_DEFAULT
	SinglesRating int `gorm:"not null" json:"singles_rating"`
	DoublesRating int `gorm:"not null" json:"doubles_rating"`
	MixedRating   int `gorm:"not null" json:"mixed_rating"`

	// Lifetime counters across all disciplines
	Wins   int64 `json:"wins" gorm:"default:0"`
	Losses int64 `json:"losses" gorm:"default:0"`

	Timestamps
}

// RatingFor returns the rating used for a match in the given discipline.
func (p *PlayerProfile) RatingFor(discipline string) int {
	switch discipline {
	case DisciplineDoubles:
		return p.DoublesRating
	case DisciplineMixed:
		return p.MixedRating
	default:
		return p.SinglesRating
	}
}

// SetRatingFor writes the rating for the given discipline.
func (p *PlayerProfile) SetRatingFor(discipline string, rating int) {
	switch discipline {
	case DisciplineDoubles:
		p.DoublesRating = rating
	case DisciplineMixed:
		p.MixedRating = rating
	default:
		p.SinglesRating = rating
	}
}
