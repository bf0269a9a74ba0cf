package telegram

import (
	"context"
	"fmt"
	"time"

	"github.com/gotd/td/tg"
	"github.com/rs/zerolog"

	"redcrm-backend/internal/domain"
	"redcrm-backend/internal/domain/ports/adapter"
	"redcrm-backend/internal/infra/logging"
	"redcrm-backend/internal/infra/metrics"
)

// Identity is a resolved telegram peer for a phone number.
type Identity struct {
	UserID     int64
	AccessHash int64
	Username   string
}

// Resolver maps phone numbers to telegram identities by transiently importing
// the number as a blank-named contact. A persistent contact-list search would
// pollute the account; transient import plus immediate cleanup is the only
// reliable lookup path that leaves the contact list untouched.
type Resolver struct {
	cache       ResolutionCache
	callTimeout time.Duration
	log         *zerolog.Logger
	dev         bool
}

func NewResolver(cache ResolutionCache, callTimeout time.Duration, logger *zerolog.Logger, dev bool) *Resolver {
	if callTimeout <= 0 {
		callTimeout = 30 * time.Second
	}
	return &Resolver{cache: cache, callTimeout: callTimeout, log: logging.Component(logger, "Resolver"), dev: dev}
}

// Resolve returns the identity behind phone (canonical form expected).
// Returns domain.ErrNotRegistered when the number has no telegram account;
// everything else is a transient provider failure.
func (r *Resolver) Resolve(ctx context.Context, api adapter.TelegramAPI, phone string) (Identity, error) {
	if e, ok := r.cache.Get(ctx, phone); ok {
		if id, ok := r.recheck(ctx, api, e); ok {
			metrics.IncResolutionCache("hit")
			return id, nil
		}
		// cached id no longer resolves; drop it and import afresh
		metrics.IncResolutionCache("stale")
		r.cache.Invalidate(ctx, phone)
	} else {
		metrics.IncResolutionCache("miss")
	}

	callCtx, cancel := context.WithTimeout(ctx, r.callTimeout)
	defer cancel()
	res, err := api.ContactsImportContacts(callCtx, []tg.InputPhoneContact{{
		ClientID:  0,
		Phone:     phone,
		FirstName: "", // blank so an existing contact's display name is never changed
		LastName:  "",
	}})
	if err != nil {
		return Identity{}, fmt.Errorf("import contacts: %w", err)
	}
	if len(res.Users) == 0 {
		return Identity{}, domain.ErrNotRegistered
	}
	user, ok := res.Users[0].(*tg.User)
	if !ok {
		return Identity{}, fmt.Errorf("import contacts: unexpected user type %T", res.Users[0])
	}

	id := identityOf(user)
	r.cache.Put(ctx, phone, CacheEntry{
		UserID:     id.UserID,
		AccessHash: id.AccessHash,
		Username:   id.Username,
		ResolvedAt: time.Now(),
	})

	// The import only creates a contact when the number was not already in
	// the list; only then is there something to clean up. Cleanup is
	// best-effort: a stray contact is cosmetic, a failed send is not.
	if len(res.Imported) > 0 {
		delCtx, cancelDel := context.WithTimeout(ctx, r.callTimeout)
		if _, err := api.ContactsDeleteContacts(delCtx, []tg.InputUserClass{user.AsInput()}); err != nil {
			r.log.Warn().Err(err).
				Str("phone", logging.RedactPhone(phone, r.dev)).
				Msg("failed to delete temporary contact")
		} else {
			r.log.Debug().Str("phone", logging.RedactPhone(phone, r.dev)).Msg("temporary contact deleted")
		}
		cancelDel()
	}

	return id, nil
}

// recheck verifies that a cached identity still resolves. A false return
// means the entry must be discarded.
func (r *Resolver) recheck(ctx context.Context, api adapter.TelegramAPI, e CacheEntry) (Identity, bool) {
	callCtx, cancel := context.WithTimeout(ctx, r.callTimeout)
	defer cancel()
	users, err := api.UsersGetUsers(callCtx, []tg.InputUserClass{
		&tg.InputUser{UserID: e.UserID, AccessHash: e.AccessHash},
	})
	if err != nil || len(users) == 0 {
		return Identity{}, false
	}
	user, ok := users[0].(*tg.User)
	if !ok {
		return Identity{}, false
	}
	return identityOf(user), true
}

func identityOf(u *tg.User) Identity {
	username, _ := u.GetUsername()
	if username == "" {
		username = u.FirstName
	}
	hash, _ := u.GetAccessHash()
	return Identity{UserID: u.ID, AccessHash: hash, Username: username}
}
