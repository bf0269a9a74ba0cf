package model

import "time"

// Message log kinds.
const (
	MessageKindContract = "contract"
	MessageKindAdvance  = "advance"
	MessageKindReminder = "worker_reminder"
)

// Message log statuses.
const (
	MessageStatusSuccess = "success"
	MessageStatusError   = "error"
)

// MessageLog records the outcome of one telegram send attempt. It is written
// by the dispatch use case after DeliveryResult comes back, never by the
// dispatcher itself.
type MessageLog struct {
	ID           string
	EventID      string // empty for sends not tied to an event
	Phone        string
	Kind         string
	Status       string
	ErrorText    string
	Body         string
	RemoteUserID int64 // zero when resolution failed
	SentAt       time.Time
}

// NewMessageLog builds a log record from a delivery result.
func NewMessageLog(id, eventID, phone, kind, body string, res DeliveryResult) *MessageLog {
	status := MessageStatusSuccess
	if !res.OK {
		status = MessageStatusError
	}
	return &MessageLog{
		ID:           id,
		EventID:      eventID,
		Phone:        phone,
		Kind:         kind,
		Status:       status,
		ErrorText:    res.Error,
		Body:         body,
		RemoteUserID: res.RemoteUserID,
		SentAt:       time.Now(),
	}
}
