// internal/models/notification.go
package models

import (
	"strconv"
	"time"
)

type Notification struct {
	ID        string    `json:"_id"`
	User      string    `json:"user,omitempty"`
	Type      string    `json:"type"` // success|warning|error|booking|listing|info
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Read      bool      `json:"read"`
	Link      string    `json:"link,omitempty"`
	CreatedAt time.Time `json:"createdAt,omitempty"`
}

type NotificationPage struct {
	Notifications []Notification `json:"notifications"`
	UnreadCount   int            `json:"unreadCount"`
	Total         int            `json:"total"`
	Page          int            `json:"page"`
	Pages         int            `json:"pages,omitempty"`
}

type NotificationRequest struct {
	UserID  string `json:"userId,omitempty"`
	Type    string `json:"type"`
	Title   string `json:"title"`
	Message string `json:"message"`
	Link    string `json:"link,omitempty"`
}

// Variant maps a notification type to a badge style.
func (n Notification) Variant() string {
	switch n.Type {
	case "success":
		return "success"
	case "warning":
		return "warning"
	case "error":
		return "danger"
	case "booking":
		return "info"
	case "listing":
		return "primary"
	default:
		return "secondary"
	}
}

// BadgeLabel renders the unread counter, "" when nothing is unread.
func BadgeLabel(unread int) string {
	switch {
	case unread <= 0:
		return ""
	case unread > 9:
		return "9+"
	default:
		return strconv.Itoa(unread)
	}
}
