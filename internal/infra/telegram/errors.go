package telegram

import (
	"errors"
	"fmt"

	"github.com/gotd/td/tgerr"

	"redcrm-backend/internal/domain"
)

// Terminal dispatch statuses, used as the metrics label and decided once per
// send attempt.
const (
	statusSuccess       = "success"
	statusInvalidPhone  = "invalid_phone"
	statusBusy          = "busy"
	statusNotFound      = "not_found"
	statusRateLimited   = "rate_limited"
	statusPrivacyHidden = "privacy_hidden"
	statusAuthRequired  = "auth_required"
	statusConfiguration = "configuration"
	statusProviderError = "provider_error"
)

// classifyError maps a resolution/send failure onto the dispatch taxonomy:
// a metrics status plus the human-readable text stored in DeliveryResult.
func classifyError(err error) (status, msg string) {
	switch {
	case errors.Is(err, domain.ErrConfiguration):
		return statusConfiguration, domain.ErrConfiguration.Error()
	case errors.Is(err, domain.ErrAuthRequired):
		return statusAuthRequired, domain.ErrAuthRequired.Error()
	case errors.Is(err, domain.ErrNotRegistered):
		return statusNotFound, domain.ErrNotRegistered.Error()
	}

	if wait, ok := tgerr.AsFloodWait(err); ok {
		return statusRateLimited, fmt.Sprintf("rate limited, retry in %ds", int(wait.Seconds()))
	}
	switch {
	case tgerr.Is(err, "PHONE_NUMBER_INVALID"):
		return statusInvalidPhone, "phone number rejected by telegram"
	case tgerr.Is(err, "PEER_ID_INVALID"):
		return statusPrivacyHidden, domain.ErrPrivacyHidden.Error()
	case tgerr.Is(err, "SESSION_PASSWORD_NEEDED"):
		return statusAuthRequired, "two-factor authentication required for session"
	}

	return statusProviderError, "telegram send failed: " + err.Error()
}
