package appwrite

import (
	"context"
	"net/http"
)

// Account wraps the /account endpoints for the current session.
type Account struct {
	c *Client
}

// Create registers a new identity. userID may be UniqueID.
func (a *Account) Create(ctx context.Context, userID, email, password, name string) (*User, error) {
	var u User
	body := map[string]any{"userId": userID, "email": email, "password": password, "name": name}
	if err := a.c.call(ctx, http.MethodPost, "/account", nil, body, &u); err != nil {
		a.c.logFailure(ctx, "account.create", err)
		return nil, err
	}
	return &u, nil
}

// CreateEmailPasswordSession logs in and stores the session secret on the client.
func (a *Account) CreateEmailPasswordSession(ctx context.Context, email, password string) (*Session, error) {
	var s Session
	body := map[string]any{"email": email, "password": password}
	if err := a.c.call(ctx, http.MethodPost, "/account/sessions/email", nil, body, &s); err != nil {
		a.c.logFailure(ctx, "account.createEmailPasswordSession", err)
		return nil, err
	}
	if s.Secret != "" {
		a.c.SetSession(s.Secret)
	}
	return &s, nil
}

// Get returns the identity behind the current session.
func (a *Account) Get(ctx context.Context) (*User, error) {
	var u User
	if err := a.c.call(ctx, http.MethodGet, "/account", nil, nil, &u); err != nil {
		a.c.logFailure(ctx, "account.get", err)
		return nil, err
	}
	return &u, nil
}

// DeleteSession destroys a session ("current" for this one). The local
// secret is dropped whatever the outcome.
func (a *Account) DeleteSession(ctx context.Context, sessionID string) error {
	err := a.c.call(ctx, http.MethodDelete, "/account/sessions/"+sessionID, nil, nil, nil)
	a.c.SetSession("")
	if err != nil {
		a.c.logFailure(ctx, "account.deleteSession", err)
	}
	return err
}

// CreateVerification emails a verification link pointing at callbackURL.
func (a *Account) CreateVerification(ctx context.Context, callbackURL string) (*Token, error) {
	var t Token
	if err := a.c.call(ctx, http.MethodPost, "/account/verification", nil, map[string]any{"url": callbackURL}, &t); err != nil {
		a.c.logFailure(ctx, "account.createVerification", err)
		return nil, err
	}
	return &t, nil
}

// UpdateVerification completes a verification link.
func (a *Account) UpdateVerification(ctx context.Context, userID, secret string) (*Token, error) {
	var t Token
	body := map[string]any{"userId": userID, "secret": secret}
	if err := a.c.call(ctx, http.MethodPut, "/account/verification", nil, body, &t); err != nil {
		a.c.logFailure(ctx, "account.updateVerification", err)
		return nil, err
	}
	return &t, nil
}

// CreateMagicURLToken emails a passwordless sign-in link. Following it also
// marks the address verified.
func (a *Account) CreateMagicURLToken(ctx context.Context, userID, email, callbackURL string) (*Token, error) {
	var t Token
	body := map[string]any{"userId": userID, "email": email, "url": callbackURL}
	if err := a.c.call(ctx, http.MethodPost, "/account/tokens/magic-url", nil, body, &t); err != nil {
		a.c.logFailure(ctx, "account.createMagicURLToken", err)
		return nil, err
	}
	return &t, nil
}

// CreateRecovery emails a password-recovery link pointing at callbackURL.
func (a *Account) CreateRecovery(ctx context.Context, email, callbackURL string) (*Token, error) {
	var t Token
	body := map[string]any{"email": email, "url": callbackURL}
	if err := a.c.call(ctx, http.MethodPost, "/account/recovery", nil, body, &t); err != nil {
		a.c.logFailure(ctx, "account.createRecovery", err)
		return nil, err
	}
	return &t, nil
}

// UpdateRecovery sets a new password using the emailed recovery secret.
func (a *Account) UpdateRecovery(ctx context.Context, userID, secret, password string) (*Token, error) {
	var t Token
	body := map[string]any{"userId": userID, "secret": secret, "password": password}
	if err := a.c.call(ctx, http.MethodPut, "/account/recovery", nil, body, &t); err != nil {
		a.c.logFailure(ctx, "account.updateRecovery", err)
		return nil, err
	}
	return &t, nil
}

// UpdatePassword changes the password of the signed-in identity.
func (a *Account) UpdatePassword(ctx context.Context, password, oldPassword string) (*User, error) {
	var u User
	body := map[string]any{"password": password, "oldPassword": oldPassword}
	if err := a.c.call(ctx, http.MethodPatch, "/account/password", nil, body, &u); err != nil {
		a.c.logFailure(ctx, "account.updatePassword", err)
		return nil, err
	}
	return &u, nil
}

// UpdateName changes the display name of the signed-in identity.
func (a *Account) UpdateName(ctx context.Context, name string) (*User, error) {
	var u User
	if err := a.c.call(ctx, http.MethodPatch, "/account/name", nil, map[string]any{"name": name}, &u); err != nil {
		a.c.logFailure(ctx, "account.updateName", err)
		return nil, err
	}
	return &u, nil
}

// CreateJWT issues a short-lived token other services can verify.
func (a *Account) CreateJWT(ctx context.Context) (string, error) {
	var out struct {
		JWT string `json:"jwt"`
	}
	if err := a.c.call(ctx, http.MethodPost, "/account/jwts", nil, map[string]any{}, &out); err != nil {
		a.c.logFailure(ctx, "account.createJWT", err)
		return "", err
	}
	return out.JWT, nil
}

// IsEmailVerified reports the verification flag of the current identity;
// any failure reads as false.
func (a *Account) IsEmailVerified(ctx context.Context) bool {
	u, err := a.Get(ctx)
	if err != nil {
		return false
	}
	return u.EmailVerification
}
