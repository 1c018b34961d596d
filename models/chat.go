package models

// DirectMessage is one chat message between two players. Delivery over the
// live connection is best effort; the row is the durable copy.
type DirectMessage struct {
	ID          string `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	SenderID    string `gorm:"index;not null" json:"sender_id"`
	RecipientID string `gorm:"index;not null" json:"recipient_id"`
	Body        string `gorm:"type:text;not null" json:"body"`

	Timestamps
}
