package models

// RatingChange is the per-player audit row written when a match is confirmed.
// One row per participant per confirmed match.
type RatingChange struct {
	ID         string `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	UserID     string `gorm:"index;not null" json:"user_id"`
	MatchID    string `gorm:"index;not null" json:"match_id"`
	Discipline string `gorm:"type:varchar(16);not null" json:"discipline"`

	RatingBefore int `gorm:"not null" json:"rating_before"`
	RatingAfter  int `gorm:"not null" json:"rating_after"`
	Delta        int `gorm:"not null" json:"delta"`

	Timestamps
}
