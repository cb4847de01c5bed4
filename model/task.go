package model

import (
	"time"
)

type Priority string

const (
	PriorityNormal Priority = "normal"
	PriorityHigh   Priority = "high"
)

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

// Task is stored wholesale under the "tasks" key. NotifiedUpcoming and
// NotifiedDue only ever go from false to true.
type Task struct {
	ID               string   `json:"id"`
	Title            string   `json:"title"`
	Date             string   `json:"date"`              // creation date, YYYY-MM-DD
	DueDate          string   `json:"dueDate,omitempty"` // YYYY-MM-DD
	Time             string   `json:"time,omitempty"`    // HH:mm
	Completed        bool     `json:"completed"`
	Priority         Priority `json:"priority"`
	HasAlarm         bool     `json:"hasAlarm,omitempty"`
	NotifiedUpcoming bool     `json:"notifiedUpcoming,omitempty"`
	NotifiedDue      bool     `json:"notifiedDue,omitempty"`
}

// DueAt combines DueDate and Time in loc. ok is false when either part is
// missing or malformed.
func (t Task) DueAt(loc *time.Location) (time.Time, bool) {
	if t.DueDate == "" || t.Time == "" {
		return time.Time{}, false
	}
	if loc == nil {
		loc = time.Local
	}
	due, err := time.ParseInLocation(DateLayout+" "+TimeLayout, t.DueDate+" "+t.Time, loc)
	if err != nil {
		return time.Time{}, false
	}
	return due, true
}

func (t Task) IsHigh() bool {
	return t.Priority == PriorityHigh
}
