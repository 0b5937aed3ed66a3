package session

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// jwtLifetime applies to tokens that carry no exp claim.
const (
	jwtLifetime   = 15 * time.Minute
	jwtRefreshGap = time.Minute
)

// Token returns a short-lived BaaS JWT for calling other services on behalf
// of the signed-in identity. It is reused until one minute before expiry.
func (s *Store) Token(ctx context.Context) (string, error) {
	if s.currentID() == "" {
		return "", ErrNotSignedIn
	}

	s.mu.RLock()
	tok, exp := s.jwt, s.jwtExpiry
	s.mu.RUnlock()
	if tok != "" && s.now().Before(exp.Add(-jwtRefreshGap)) {
		return tok, nil
	}

	tok, err := s.account.CreateJWT(ctx)
	if err != nil {
		return "", fmt.Errorf("create jwt: %w", err)
	}
	exp = s.expiry(tok)

	s.mu.Lock()
	s.jwt, s.jwtExpiry = tok, exp
	s.mu.Unlock()
	return tok, nil
}

// expiry reads the exp claim without verifying the signature; the token is
// only forwarded, never trusted here.
func (s *Store) expiry(tok string) time.Time {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tok, claims); err == nil {
		if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
			return exp.Time
		}
	}
	return s.now().Add(jwtLifetime)
}
