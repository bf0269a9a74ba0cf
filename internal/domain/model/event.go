package model

import "time"

// Event is a booked celebration with its invoice amounts.
// AmountUSD / AdvanceUSD flag whether the figure is in USD instead of UZS.
type Event struct {
	ID         string
	ClientID   string
	Client     *Client // populated by EventRepository.FindByID
	Amount     int64
	AmountUSD  bool
	Advance    int64
	AdvanceUSD bool
	Computers  int
	Comment    string
	Devices    []Device
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Device is one service engagement inside an event: which service runs where
// and on which date, and the workers assigned to it.
type Device struct {
	ID          string
	EventID     string
	ServiceID   string
	ServiceName string
	Restaurant  string
	ServiceDate *time.Time
	CameraCount int
	Comment     string
	Workers     []Worker
}

// EventLog is an audit line attached to an event.
type EventLog struct {
	ID        string
	EventID   string
	Message   string
	CreatedAt time.Time
}
