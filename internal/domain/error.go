package domain

import "errors"

var (
	// Common domain errors
	ErrNotFound      = errors.New("entity not found")
	ErrAlreadyExists = errors.New("entity already exists")
	ErrInvalidInput  = errors.New("invalid argument")

	// Telegram dispatch errors. All of these surface to callers as
	// DeliveryResult.Error text, never as a failed request.
	ErrInvalidPhone  = errors.New("invalid phone format")
	ErrBusy          = errors.New("send already in progress for this number")
	ErrNotRegistered = errors.New("recipient not registered on telegram")
	ErrPrivacyHidden = errors.New("phone number hidden by privacy settings")
	ErrAuthRequired  = errors.New("telegram session requires authorization")
	ErrConfiguration = errors.New("telegram credentials not configured")
)
