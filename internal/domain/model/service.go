package model

import "time"

// Service is a bookable offering (photo, video, livestream and so on).
type Service struct {
	ID           string
	Name         string
	Color        string // hex color used by the frontend calendar
	ActiveCamera bool
	Order        int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
