package model

import "time"

// Worker is an employee assignable to event devices.
type Worker struct {
	ID        string
	Name      string
	Phone     string // canonical +998XXXXXXXXX
	Order     int    // manual sort order in the UI
	CreatedAt time.Time
	UpdatedAt time.Time
}
