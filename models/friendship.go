package models

import "time"

// Friend request lifecycle.
const (
	FriendRequestPending  = "pending"
	FriendRequestAccepted = "accepted"
	FriendRequestDeclined = "declined"
)

// FriendRequest links two players. One row per direction; a declined row is
// reused when the same requester asks again.
type FriendRequest struct {
	ID          string `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	RequesterID string `gorm:"not null;index;uniqueIndex:idx_friend_pair" json:"requester_id"`
	AddresseeID string `gorm:"not null;index;uniqueIndex:idx_friend_pair" json:"addressee_id"`
	Status      string `gorm:"type:varchar(16);not null;default:'pending';check:status IN ('pending','accepted','declined')" json:"status"`

	RespondedAt *time.Time `json:"responded_at,omitempty"`

	Timestamps
}
