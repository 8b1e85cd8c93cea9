package notification

import (
	"time"
)

// NotificationType represents the type of notification
type NotificationType string

const (
	TypeAbsenceSubmitted NotificationType = "absence_submitted"
	TypeAbsenceFiled     NotificationType = "absence_filed" // admin filed on behalf of an employee
	TypeAbsenceApproved  NotificationType = "absence_approved"
	TypeAbsenceRejected  NotificationType = "absence_rejected"
	TypeReturnToWork     NotificationType = "return_to_work"
	TypeEmployeeJoined   NotificationType = "employee_joined"
)

// AllNotificationTypes returns all available notification types
func AllNotificationTypes() []NotificationType {
	return []NotificationType{
		TypeAbsenceSubmitted,
		TypeAbsenceFiled,
		TypeAbsenceApproved,
		TypeAbsenceRejected,
		TypeReturnToWork,
		TypeEmployeeJoined,
	}
}

// Notification represents a notification entity
type Notification struct {
	ID          string
	RecipientID string
	SenderID    *string
	Type        NotificationType
	Title       string
	Message     string
	Data        map[string]interface{}
	IsRead      bool
	ReadAt      *time.Time
	CreatedAt   time.Time
}

// NotificationPreference represents user preference for a notification type
type NotificationPreference struct {
	ID               string
	UserID           string
	NotificationType NotificationType
	PushEnabled      bool
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
