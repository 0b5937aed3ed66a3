package session

import (
	"context"
)

func (s *Store) RequestPasswordRecovery(ctx context.Context, email string) error {
	_, err := s.account.CreateRecovery(ctx, email, s.recoveryURL)
	return err
}

func (s *Store) CompletePasswordRecovery(ctx context.Context, userID, secret, password string) error {
	_, err := s.account.UpdateRecovery(ctx, userID, secret, password)
	return err
}

func (s *Store) ChangePassword(ctx context.Context, oldPassword, newPassword string) error {
	if s.currentID() == "" {
		return ErrNotSignedIn
	}
	_, err := s.account.UpdatePassword(ctx, newPassword, oldPassword)
	return err
}
