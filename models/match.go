package models

import "time"

// Match lifecycle. A match is created pending and resolves exactly once;
// both resolved states are terminal.
const (
	MatchStatusPending   = "pending"
	MatchStatusConfirmed = "confirmed"
	MatchStatusRejected  = "rejected"
)

// Disciplines. Mixed is structurally doubles (two players per side); it only
// selects a different rating column.
const (
	DisciplineSingles = "singles"
	DisciplineDoubles = "doubles"
	DisciplineMixed   = "mixed"
)

// Side labels within a match.
const (
	SideA = "A"
	SideB = "B"
)

// Match records one reported contest between two sides. Immutable once
// resolved; it stays as a permanent history row.
type Match struct {
	ID         string `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	Discipline string `gorm:"type:varchar(16);not null;check:discipline IN ('singles','doubles','mixed')" json:"discipline"`
	Status     string `gorm:"type:varchar(16);not null;default:'pending';index;check:status IN ('pending','confirmed','rejected')" json:"status"`

	// Outcome as reported by the proposer
	ProposerID  string  `gorm:"index;not null" json:"proposer_id"`
	WinningSide string  `gorm:"type:varchar(1);not null;check:winning_side IN ('A','B')" json:"winning_side"`
	ScoresJSON  string  `gorm:"type:text;not null" json:"-"`
	CourtID     *string `gorm:"index" json:"court_id,omitempty"`

	PlayedAt *time.Time `json:"played_at,omitempty"`

	// Resolution audit
	ResolvedBy *string    `gorm:"index" json:"resolved_by,omitempty"`
	ResolvedAt *time.Time `json:"resolved_at,omitempty"`

	Participants []MatchParticipant `gorm:"foreignKey:MatchID" json:"participants"`

	Timestamps
}

// MatchParticipant is one player's membership on a match side. Responder
// marks the identities entitled to confirm or reject (the side opposing the
// proposer).
type MatchParticipant struct {
	ID      string `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	MatchID string `gorm:"not null;index;uniqueIndex:idx_match_participant" json:"match_id"`
	UserID  string `gorm:"not null;index;uniqueIndex:idx_match_participant" json:"user_id"`
	Side    string `gorm:"type:varchar(1);not null" json:"side"`

	Responder bool `json:"responder" gorm:"default:false"`

	// Rating snapshots written when the match is confirmed
	RatingBefore *int `json:"rating_before,omitempty"`
	RatingAfter  *int `json:"rating_after,omitempty"`

	Timestamps
}

// SideMembers returns the user IDs on one side, in stored order.
func (m *Match) SideMembers(side string) []string {
	var ids []string
	for _, p := range m.Participants {
		if p.Side == side {
			ids = append(ids, p.UserID)
		}
	}
	return ids
}

// ResponderIDs returns the identities entitled to confirm or reject.
func (m *Match) ResponderIDs() []string {
	var ids []string
	for _, p := range m.Participants {
		if p.Responder {
			ids = append(ids, p.UserID)
		}
	}
	return ids
}

// HasResponder reports whether userID may resolve this match.
func (m *Match) HasResponder(userID string) bool {
	for _, p := range m.Participants {
		if p.Responder && p.UserID == userID {
			return true
		}
	}
	return false
}

// ParticipantIDs returns every player in the match, side A first.
func (m *Match) ParticipantIDs() []string {
	return append(m.SideMembers(SideA), m.SideMembers(SideB)...)
}
