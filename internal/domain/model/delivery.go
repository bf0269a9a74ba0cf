package model

// DeliveryResult is the outcome of a single telegram send attempt.
// Errors travel as data in Error; a zero Error with OK set means the message
// went out exactly once.
type DeliveryResult struct {
	OK           bool   `json:"ok"`
	RemoteUserID int64  `json:"telegram_user_id,omitempty"`
	Username     string `json:"username,omitempty"`
	Error        string `json:"error,omitempty"`
}
