package session

import (
	"context"
)

// CheckVerificationStatus re-reads the verification flag. It never fails:
// on any error it reports false and leaves the store untouched.
func (s *Store) CheckVerificationStatus(ctx context.Context) bool {
	if s.currentID() == "" {
		return false
	}
	u, err := s.account.Get(ctx)
	if err != nil {
		s.logger.Warn(ctx, "verification check failed", "error", err)
		return false
	}
	s.update(func() {
		if s.identity == nil || s.identity.ID != u.ID {
			return
		}
		s.identity = identityFrom(u)
		s.verified = u.EmailVerification
		s.state = stateFor(true, u.EmailVerification)
	})
	return u.EmailVerification
}

// CompleteVerification confirms the emailed verification link. When the
// link belongs to the signed-in identity the store becomes verified.
func (s *Store) CompleteVerification(ctx context.Context, userID, secret string) error {
	if _, err := s.account.UpdateVerification(ctx, userID, secret); err != nil {
		return err
	}
	s.update(func() {
		if s.identity == nil || s.identity.ID != userID {
			return
		}
		s.identity.EmailVerified = true
		s.verified = true
		s.state = StateVerified
	})
	return nil
}

func (s *Store) ResendVerification(ctx context.Context) error {
	if s.currentID() == "" {
		return ErrNotSignedIn
	}
	_, err := s.account.CreateVerification(ctx, s.verificationURL)
	return err
}
