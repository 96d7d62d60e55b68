// File: /models/notification.go
package models

import (
	"time"
)

// Notification is created by the system in reaction to other writes (new
// post by a followed author, new follower) and is never edited afterwards.
type Notification struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	UserID      uint      `json:"user_id" gorm:"not null;index"` // Recipient
	Title       string    `json:"title" gorm:"not null;size:255"`
	Description string    `json:"description" gorm:"size:500"`
	Link        string    `json:"link" gorm:"size:255"`
	CreatedAt   time.Time `json:"date"`

	User User `json:"-" gorm:"foreignKey:UserID"`
}

// CreateNotificationRequest is the body for the manual create endpoint; the
// recipient is always the authenticated caller.
type CreateNotificationRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	Link        string `json:"link"`
}
