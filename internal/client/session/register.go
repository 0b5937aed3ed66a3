package session

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gigrithm/gigrithm/internal/client/appwrite"
	"github.com/google/uuid"
)

// File is an uploaded document handed through to the resume parser.
type File struct {
	Name string
	Data []byte
}

type RegisterInput struct {
	Email    string
	Password string
	Name     string
	Resume   *File
}

// RegisterResult describes the outcome of Register. Fallback is set when the
// address was already registered and a fresh sign-in link was mailed instead.
type RegisterResult struct {
	UserID   string
	Email    string
	Fallback bool
	Message  string
}

// Register creates an identity, signs it in and mails a verification link.
// An existing address is not an error: a passwordless link goes out instead
// and the result carries Fallback=true.
func (s *Store) Register(ctx context.Context, in RegisterInput) (*RegisterResult, error) {
	name := in.Name
	if name == "" {
		name = localPart(in.Email)
	}

	u, err := s.account.Create(ctx, uuid.NewString(), in.Email, in.Password, name)
	if errors.Is(err, appwrite.ErrConflict) {
		return s.registerFallback(ctx, in.Email)
	}
	if err != nil {
		return nil, fmt.Errorf("create account: %w", err)
	}

	if _, err := s.account.CreateEmailPasswordSession(ctx, in.Email, in.Password); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	s.persistSession(ctx)
	// The session is live from here on, so the identity is adopted even if
	// the verification mail fails; "resend" can retry it.
	s.adopt(ctx, u)
	s.importResume(ctx, in.Resume)

	if _, err := s.account.CreateVerification(ctx, s.verificationURL); err != nil {
		return nil, fmt.Errorf("send verification: %w", err)
	}

	return &RegisterResult{
		UserID:  u.ID,
		Email:   u.Email,
		Message: "Verification email sent to " + u.Email,
	}, nil
}

func (s *Store) registerFallback(ctx context.Context, email string) (*RegisterResult, error) {
	s.logger.Info(ctx, "address already registered, sending sign-in link", "email", email)
	if _, err := s.account.CreateMagicURLToken(ctx, appwrite.UniqueID, email, s.verificationURL); err != nil {
		return nil, fmt.Errorf("send verification link: %w", err)
	}
	return &RegisterResult{
		Email:    email,
		Fallback: true,
		Message:  "An account with this email already exists. A new verification link was sent to " + email,
	}, nil
}

// importResume runs the optional parsing step of registration.
func (s *Store) importResume(ctx context.Context, f *File) {
	if f == nil || s.parser == nil {
		return
	}
	p, err := s.parser.ParseResume(ctx, f.Name, f.Data)
	if err != nil {
		s.logger.Warn(ctx, "resume parsing failed", "file", f.Name, "error", err)
		return
	}
	if err := s.UpdateProfile(ctx, ReplaceFromResume{Profile: p}); err != nil {
		s.logger.Warn(ctx, "storing parsed resume failed", "error", err)
	}
}

func localPart(email string) string {
	if i := strings.IndexByte(email, '@'); i > 0 {
		return email[:i]
	}
	return email
}
