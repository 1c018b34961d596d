package models

import "time"

// Court is a playable venue. Slug is the stable URL handle derived from the
// name at creation.
type Court struct {
	ID         string `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	Name       string `gorm:"not null" json:"name"`
	Slug       string `gorm:"uniqueIndex;not null" json:"slug"`
	City       string `gorm:"index;not null" json:"city"`
	Address    string `json:"address,omitempty"`
	Indoor     bool   `json:"indoor" gorm:"default:true"`
	CourtCount int    `json:"court_count" gorm:"default:1"`

	Timestamps
}

// CourtFavorite marks a court saved by a player. Hard-deleted on unfavorite
// so the pair stays unique across re-favorites.
type CourtFavorite struct {
	ID      string `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	UserID  string `gorm:"not null;index;uniqueIndex:idx_court_favorite" json:"user_id"`
	CourtID string `gorm:"not null;index;uniqueIndex:idx_court_favorite" json:"court_id"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}
