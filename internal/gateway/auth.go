// SPDX-License-Identifier: Apache-2.0

package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/Atomixxxx/cuisine-app/models"
)

// expiryMargin is subtracted from the token expiry so a refresh happens
// before the server starts rejecting the old token.
const expiryMargin = 30 // seconds

type tokenGrantResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
	ExpiresAt    int64  `json:"expires_at"`
	User         struct {
		ID string `json:"id"`
	} `json:"user"`
}

// SignIn exchanges email and password for a session via the password grant.
// The session is kept in the gateway for subsequent requests and returned so
// the caller can persist it.
func (g *Gateway) SignIn(ctx context.Context, email, password string) (models.Session, error) {
	if !g.IsConfigured() {
		return models.Session{}, ErrNotConfigured
	}

	body := map[string]string{"email": email, "password": password}
	session, err := g.tokenGrant(ctx, "password", body)
	if err != nil {
		return models.Session{}, fmt.Errorf("sign in: %w", err)
	}

	g.setSession(session)
	return session, nil
}

// SignOut revokes the current session on the server and clears it locally.
// The local session is cleared even when the revocation request fails.
func (g *Gateway) SignOut(ctx context.Context) error {
	if !g.IsConfigured() {
		return ErrNotConfigured
	}

	session := g.Session()
	g.setSession(models.Session{})

	if session.AccessToken == "" {
		return nil
	}

	resp, err := g.client.R().
		SetContext(ctx).
		SetHeader("apikey", g.cfg.AnonKey).
		SetHeader("Authorization", "Bearer "+session.AccessToken).
		Post("/auth/v1/logout")
	if err != nil {
		return fmt.Errorf("sign out request: %w", err)
	}

	return mapHTTPError(resp)
}

// Session returns a copy of the current session. Empty when signed out.
func (g *Gateway) Session() models.Session {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.session
}

// RestoreSession installs a previously persisted session, e.g. on startup.
func (g *Gateway) RestoreSession(s models.Session) {
	g.setSession(s)
}

func (g *Gateway) setSession(s models.Session) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.session = s
}

// bearerToken supplies the bearer value for the next request: the session
// access token when still valid, a transparently refreshed one when expired,
// and the anon key when there is no session or the refresh fails.
func (g *Gateway) bearerToken(ctx context.Context) string {
	session := g.Session()
	if session.AccessToken == "" {
		return g.cfg.AnonKey
	}

	now := time.Now().Unix()
	if !session.Expired(now, expiryMargin) && !jwtExpired(session.AccessToken, now) {
		return session.AccessToken
	}

	refreshed, err := g.refreshSession(ctx, session.RefreshToken)
	if err != nil {
		g.logger.Warn().Err(err).
			Str("func", "Gateway.bearerToken").
			Msg("session refresh failed, falling back to anon key")
		return g.cfg.AnonKey
	}

	g.setSession(refreshed)
	return refreshed.AccessToken
}

func (g *Gateway) refreshSession(ctx context.Context, refreshToken string) (models.Session, error) {
	if refreshToken == "" {
		return models.Session{}, fmt.Errorf("no refresh token")
	}

	body := map[string]string{"refresh_token": refreshToken}
	session, err := g.tokenGrant(ctx, "refresh_token", body)
	if err != nil {
		return models.Session{}, fmt.Errorf("refresh session: %w", err)
	}

	return session, nil
}

func (g *Gateway) tokenGrant(ctx context.Context, grantType string, body any) (models.Session, error) {
	resp, err := g.client.R().
		SetContext(ctx).
		SetHeader("apikey", g.cfg.AnonKey).
		SetHeader("Content-Type", "application/json").
		SetQueryParam("grant_type", grantType).
		SetBody(body).
		Post("/auth/v1/token")
	if err != nil {
		return models.Session{}, fmt.Errorf("token grant request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.Session{}, err
	}

	var grant tokenGrantResponse
	if err = json.Unmarshal(resp.Body(), &grant); err != nil {
		return models.Session{}, fmt.Errorf("decode token grant response: %w", err)
	}

	expiresAt := grant.ExpiresAt
	if expiresAt == 0 {
		expiresAt = time.Now().Unix() + grant.ExpiresIn
	}

	return models.Session{
		AccessToken:  grant.AccessToken,
		RefreshToken: grant.RefreshToken,
		ExpiresAt:    expiresAt,
		UserID:       grant.User.ID,
	}, nil
}

// jwtExpired cross-checks the persisted expiry against the exp claim of the
// token itself, decoded without signature verification. A token that cannot
// be parsed is treated as expired.
func jwtExpired(tokenString string, nowUnix int64) bool {
	token, _, err := jwt.NewParser().ParseUnverified(tokenString, jwt.MapClaims{})
	if err != nil {
		return true
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return true
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return true
	}

	return exp.Unix()-expiryMargin <= nowUnix
}
