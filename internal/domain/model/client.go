package model

import "time"

// Client is a booking customer. A client may be reachable on several phone
// numbers; all of them get contract and advance notifications.
type Client struct {
	ID         string
	Name       string
	VIP        bool
	Archived   bool
	Phones     []ClientPhone
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

type ClientPhone struct {
	ID       string
	ClientID string
	Phone    string // canonical +998XXXXXXXXX
}
