// SPDX-License-Identifier: Apache-2.0

package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Atomixxxx/cuisine-app/internal/gateway"
	"github.com/Atomixxxx/cuisine-app/internal/logger"
	"github.com/Atomixxxx/cuisine-app/internal/store"
	"github.com/Atomixxxx/cuisine-app/models"
)

const keySession = "session"

// AuthService owns the remote credentials lifecycle: sign in, session
// persistence across restarts, sign out. The application works fully
// without a session; the gateway then falls back to the anon key.
type AuthService struct {
	gateway *gateway.Gateway
	kv      *store.KVRepository
	logger  *logger.Logger
}

// NewAuthService wires the auth service.
func NewAuthService(gw *gateway.Gateway, kv *store.KVRepository, log *logger.Logger) *AuthService {
	return &AuthService{gateway: gw, kv: kv, logger: log}
}

// SignIn authenticates against the remote backend and persists the session.
func (s *AuthService) SignIn(ctx context.Context, email, password string) error {
	session, err := s.gateway.SignIn(ctx, email, password)
	if err != nil {
		return fmt.Errorf("sign in: %w", err)
	}

	if err = s.persistSession(ctx, session); err != nil {
		s.logger.Warn().Err(err).
			Str("func", "AuthService.SignIn").
			Msg("failed to persist session, staying signed in for this run")
	}

	return nil
}

// RestoreSession loads the persisted session into the gateway. Called once
// on startup; a missing or undecodable session is not an error.
func (s *AuthService) RestoreSession(ctx context.Context) {
	raw, err := s.kv.Get(ctx, keySession)
	if err != nil {
		if !errors.Is(err, store.ErrKeyNotFound) {
			s.logger.Warn().Err(err).
				Str("func", "AuthService.RestoreSession").
				Msg("failed to read persisted session")
		}
		return
	}

	var session models.Session
	if err = json.Unmarshal([]byte(raw), &session); err != nil {
		s.logger.Warn().Err(err).
			Str("func", "AuthService.RestoreSession").
			Msg("persisted session undecodable, discarding")
		_ = s.kv.Delete(ctx, keySession)
		return
	}

	s.gateway.RestoreSession(session)
}

// SignOut revokes the session remotely (best-effort) and always clears the
// persisted copy.
func (s *AuthService) SignOut(ctx context.Context) error {
	if err := s.gateway.SignOut(ctx); err != nil && !errors.Is(err, gateway.ErrNotConfigured) {
		s.logger.Warn().Err(err).
			Str("func", "AuthService.SignOut").
			Msg("remote sign out failed, clearing local session anyway")
	}

	if err := s.kv.Delete(ctx, keySession); err != nil {
		return fmt.Errorf("delete persisted session: %w", err)
	}

	return nil
}

func (s *AuthService) persistSession(ctx context.Context, session models.Session) error {
	raw, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	return s.kv.Put(ctx, keySession, string(raw))
}
