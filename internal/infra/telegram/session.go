package telegram

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/gotd/td/session"
	"github.com/gotd/td/telegram"
	"github.com/gotd/td/telegram/auth"
	"github.com/gotd/td/tg"
	"github.com/rs/zerolog"

	"redcrm-backend/internal/config"
	"redcrm-backend/internal/domain"
	"redcrm-backend/internal/domain/ports/adapter"
	"redcrm-backend/internal/infra/logging"
	"redcrm-backend/internal/infra/metrics"
	"redcrm-backend/internal/infra/worker"
)

const connectTimeout = time.Minute

// SessionManager owns one authenticated MTProto client per dispatch worker
// slot. Sessions are created lazily and are slot-affine: a session whose run
// loop has terminated is stale and gets torn down and recreated, never
// reused. The durable session store (the session file, or server-side state
// behind a string session) is shared by every slot, so all operations that
// persist session state funnel through one process-wide lock.
type SessionManager struct {
	cfg config.TelegramConfig
	log *zerolog.Logger

	mu       sync.Mutex
	sessions map[int]*mtSession

	// storeMu serializes handshakes and contact import/delete across slots.
	// This is the dominant serialization point of the whole dispatch path.
	storeMu sync.Mutex
}

func NewSessionManager(cfg config.TelegramConfig, logger *zerolog.Logger) *SessionManager {
	return &SessionManager{
		cfg:      cfg,
		log:      logging.Component(logger, "SessionManager"),
		sessions: make(map[int]*mtSession),
	}
}

// mtSession is one slot-bound client. States: created (done == nil),
// connecting/connected (run loop up), stale (run loop exited).
type mtSession struct {
	slot   int
	client *telegram.Client
	api    *tg.Client

	mu        sync.Mutex // guards the connect handshake
	connected bool
	stop      context.CancelFunc
	done      chan struct{}
	runErr    error
}

func (s *mtSession) stale() bool {
	if s.done == nil {
		return false
	}
	select {
	case <-s.done:
		return true
	default:
		return false
	}
}

func (s *mtSession) close() {
	if s.stop != nil {
		s.stop()
	}
	if s.done != nil {
		<-s.done
	}
}

// WithSession runs fn against the connected API client of the caller's
// execution slot while holding the session-store lock. Dispatches to
// different phone numbers serialize only here.
func (m *SessionManager) WithSession(ctx context.Context, fn func(ctx context.Context, api adapter.TelegramAPI) error) error {
	m.storeMu.Lock()
	defer m.storeMu.Unlock()

	s, err := m.getOrCreate(ctx, worker.Slot(ctx))
	if err != nil {
		return err
	}
	if err := m.ensureConnected(ctx, s); err != nil {
		return err
	}
	return fn(ctx, s.api)
}

// getOrCreate returns the live session for slot, discarding a stale one.
// Fails with domain.ErrConfiguration when credentials are missing, since no
// send can ever succeed without them.
func (m *SessionManager) getOrCreate(ctx context.Context, slot int) (*mtSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if s := m.sessions[slot]; s != nil {
		if !s.stale() {
			return s, nil
		}
		m.log.Warn().Int("slot", slot).Msg("session run loop ended, recreating")
		s.close()
		delete(m.sessions, slot)
		metrics.IncSessionRebuild()
	}

	if m.cfg.APIID == 0 || m.cfg.APIHash == "" {
		return nil, domain.ErrConfiguration
	}
	if m.cfg.SessionString == "" && m.cfg.Phone == "" {
		return nil, fmt.Errorf("%w: set telegram.session_string or telegram.phone", domain.ErrConfiguration)
	}

	storage, err := m.sessionStorage(ctx)
	if err != nil {
		return nil, err
	}
	client := telegram.NewClient(m.cfg.APIID, m.cfg.APIHash, telegram.Options{
		SessionStorage: storage,
	})
	s := &mtSession{slot: slot, client: client, api: client.API()}
	m.sessions[slot] = s
	m.log.Info().Int("slot", slot).Msg("telegram client created")
	return s, nil
}

// sessionStorage builds the per-slot session storage. A Telethon string
// session is decoded into memory; otherwise the shared session file is used
// (which is exactly why storeMu exists).
func (m *SessionManager) sessionStorage(ctx context.Context) (telegram.SessionStorage, error) {
	if m.cfg.SessionString != "" {
		data, err := session.TelethonSession(m.cfg.SessionString)
		if err != nil {
			return nil, fmt.Errorf("decode telethon session: %w", err)
		}
		storage := new(session.StorageMemory)
		loader := session.Loader{Storage: storage}
		if err := loader.Save(ctx, data); err != nil {
			return nil, fmt.Errorf("seed session storage: %w", err)
		}
		return storage, nil
	}
	return &session.FileStorage{Path: m.cfg.SessionFile}, nil
}

// ensureConnected is idempotent and re-entrant-safe: concurrent calls for
// the same slot block on the session mutex and double-check after acquiring
// it. On handshake failure the session stays in the created state and the
// next attempt retries.
func (m *SessionManager) ensureConnected(ctx context.Context, s *mtSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.connected && !s.stale() {
		return nil
	}

	runCtx, cancel := context.WithCancel(context.Background())
	ready := make(chan struct{})
	done := make(chan struct{})
	s.stop = cancel
	s.done = done

	go func() {
		defer close(done)
		s.runErr = s.client.Run(runCtx, func(cctx context.Context) error {
			status, err := s.client.Auth().Status(cctx)
			if err != nil {
				return fmt.Errorf("auth status: %w", err)
			}
			if !status.Authorized {
				if m.cfg.Phone == "" {
					return domain.ErrAuthRequired
				}
				flow := auth.NewFlow(
					auth.Constant(m.cfg.Phone, "", auth.CodeAuthenticatorFunc(promptLoginCode)),
					auth.SendCodeOptions{},
				)
				if err := s.client.Auth().IfNecessary(cctx, flow); err != nil {
					return fmt.Errorf("login: %w", err)
				}
			}
			close(ready)
			<-cctx.Done()
			return cctx.Err()
		})
	}()

	select {
	case <-ready:
		s.connected = true
		m.log.Info().Int("slot", s.slot).Msg("telegram session connected")
		return nil
	case <-done:
		err := s.runErr
		if err == nil {
			err = errors.New("telegram client stopped during handshake")
		}
		// back to created: retryable
		s.stop, s.done, s.connected = nil, nil, false
		return err
	case <-time.After(connectTimeout):
		cancel()
		<-done
		s.stop, s.done, s.connected = nil, nil, false
		return errors.New("telegram connect timed out")
	case <-ctx.Done():
		cancel()
		<-done
		s.stop, s.done, s.connected = nil, nil, false
		return ctx.Err()
	}
}

// Close tears down every session. Used on shutdown.
func (m *SessionManager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for slot, s := range m.sessions {
		s.close()
		delete(m.sessions, slot)
	}
}

// promptLoginCode reads the login code from the terminal during the
// interactive phone login fallback.
func promptLoginCode(_ context.Context, _ *tg.AuthSentCode) (string, error) {
	fmt.Fprint(os.Stderr, "telegram login code: ")
	code, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(code), nil
}
