package models

import "time"

const NotificationTable = "chem_notifications"

// Notification types produced by the request workflow.
const (
	NotifRequestCreated  = "request_created"
	NotifRequestApproved = "request_approved"
	NotifRequestRejected = "request_rejected"
	NotifRequestBorrowed = "request_borrowed"
	NotifRequestReturned = "request_returned"
)

type Notification struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	UserID  uint   `gorm:"index;not null" json:"userId"`
	Title   string `gorm:"size:255;not null" json:"title"`
	Message string `gorm:"size:1000;not null" json:"message"`
	Type    string `gorm:"size:40;not null" json:"type"`

	// Polymorphic link to the entity the notification is about.
	RelatedEntityType string `gorm:"size:40" json:"relatedEntityType,omitempty"`
	RelatedEntityID   *uint  `json:"relatedEntityId,omitempty"`

	IsRead    bool      `gorm:"not null;default:false;index" json:"isRead"`
	CreatedAt time.Time `json:"createdAt"`
}

func (Notification) TableName() string { return NotificationTable }
