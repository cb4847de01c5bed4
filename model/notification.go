package model

import (
	"time"
)

type NotificationKind string

const (
	NotificationUpcoming NotificationKind = "upcoming"
	NotificationDue      NotificationKind = "due"
)

// Notification is a system notification emitted for a task transition.
type Notification struct {
	TaskID string           `json:"taskId,omitempty"`
	Kind   NotificationKind `json:"kind,omitempty"`
	Title  string           `json:"title"`
	Body   string           `json:"body"`
	SentAt time.Time        `json:"sentAt"`
}

type Permission string

const (
	PermissionDefault Permission = "default"
	PermissionGranted Permission = "granted"
	PermissionDenied  Permission = "denied"
)
