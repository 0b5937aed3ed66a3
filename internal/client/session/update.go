package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gigrithm/gigrithm/internal/client/cache"
	"github.com/gigrithm/gigrithm/internal/client/profile"
)

// ProfileUpdate is one of ReplaceFromResume, PatchFields or ClearProfile.
type ProfileUpdate interface {
	isProfileUpdate()
}

// ReplaceFromResume swaps the whole profile for one derived from a resume
// and bumps the resume version.
type ReplaceFromResume struct {
	Profile profile.Profile
}

// PatchFields shallow-merges user edits. A "name" key also renames the
// identity.
type PatchFields struct {
	Fields map[string]any
}

// ClearProfile removes the stored profile.
type ClearProfile struct{}

func (ReplaceFromResume) isProfileUpdate() {}
func (PatchFields) isProfileUpdate()       {}
func (ClearProfile) isProfileUpdate()      {}

// UpdateProfile applies u through the single persistence path: the profile
// document is written first, then mirrored into the local cache. Remote
// failures are returned and leave the store unchanged.
func (s *Store) UpdateProfile(ctx context.Context, u ProfileUpdate) error {
	s.mu.RLock()
	var id string
	if s.identity != nil {
		id = s.identity.ID
	}
	var current profile.Profile
	if s.profile != nil {
		current = s.profile.Clone()
	}
	s.mu.RUnlock()

	if id == "" {
		return ErrNotSignedIn
	}

	switch u := u.(type) {
	case ClearProfile:
		return s.clearProfile(ctx, id)
	case ReplaceFromResume:
		next := u.Profile.Clone()
		next.ResumeVersion = current.ResumeVersion + 1
		next.UpdatedAt = s.now().UTC()
		return s.saveProfile(ctx, id, next)
	case PatchFields:
		next, err := profile.Apply(current, u.Fields)
		if err != nil {
			return err
		}
		next.UpdatedAt = s.now().UTC()
		if err := s.saveProfile(ctx, id, next); err != nil {
			return err
		}
		if name, ok := u.Fields["name"].(string); ok && name != "" {
			return s.rename(ctx, name)
		}
		return nil
	default:
		return fmt.Errorf("unsupported profile update %T", u)
	}
}

// UpdateResumeData replaces the profile with resume-derived data.
func (s *Store) UpdateResumeData(ctx context.Context, p profile.Profile) error {
	return s.UpdateProfile(ctx, ReplaceFromResume{Profile: p})
}

func (s *Store) ClearResumeData(ctx context.Context) error {
	return s.UpdateProfile(ctx, ClearProfile{})
}

// UpdateUserProfile merges patch into the profile.
func (s *Store) UpdateUserProfile(ctx context.Context, patch map[string]any) error {
	return s.UpdateProfile(ctx, PatchFields{Fields: patch})
}

func (s *Store) saveProfile(ctx context.Context, id string, p profile.Profile) error {
	if err := profile.Validate(ctx, p); err != nil {
		return err
	}
	if err := s.profiles.Save(ctx, id, p); err != nil {
		return fmt.Errorf("save profile: %w", err)
	}
	s.mirror(ctx, id, p)

	s.update(func() {
		if s.identity == nil || s.identity.ID != id {
			return
		}
		s.profile = &p
	})
	return nil
}

func (s *Store) clearProfile(ctx context.Context, id string) error {
	if err := s.profiles.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete profile: %w", err)
	}
	for _, key := range []string{cache.KeyProfile, cache.KeyProfileSynced} {
		if err := s.cache.Delete(ctx, id, key); err != nil {
			s.logger.Warn(ctx, "clear cached profile failed", "user", id, "key", key, "error", err)
		}
	}
	s.update(func() {
		if s.identity == nil || s.identity.ID != id {
			return
		}
		s.profile = nil
	})
	return nil
}

func (s *Store) rename(ctx context.Context, name string) error {
	u, err := s.account.UpdateName(ctx, name)
	if err != nil {
		return fmt.Errorf("update name: %w", err)
	}
	s.update(func() {
		if s.identity == nil || s.identity.ID != u.ID {
			return
		}
		s.identity.Name = u.Name
	})
	return nil
}

// mirror writes p and its sync time into the local cache in one
// transaction; failures are only logged.
func (s *Store) mirror(ctx context.Context, id string, p profile.Profile) {
	b, err := json.Marshal(profile.Canonical(p))
	if err == nil {
		err = s.cache.SetMany(ctx, id, map[string][]byte{
			cache.KeyProfile:       b,
			cache.KeyProfileSynced: []byte(s.now().UTC().Format(time.RFC3339)),
		})
	}
	if err != nil {
		s.logger.Warn(ctx, "cache profile failed", "user", id, "error", err)
	}
}

// loadProfile reads the durable profile, falling back to the local cache
// when the repository is unreachable. nil means no profile.
func (s *Store) loadProfile(ctx context.Context, id string) *profile.Profile {
	p, found, err := s.profiles.Load(ctx, id)
	if err == nil {
		if !found {
			return nil
		}
		s.mirror(ctx, id, p)
		return &p
	}
	s.logger.Warn(ctx, "load profile failed, using local copy", "user", id, "error", err)

	entries, err := s.cache.List(ctx, id)
	if err != nil {
		s.logger.Warn(ctx, "read cached profile failed", "user", id, "error", err)
		return nil
	}
	b := entries[cache.KeyProfile]
	if b == nil {
		return nil
	}
	if synced, err := time.Parse(time.RFC3339, string(entries[cache.KeyProfileSynced])); err == nil {
		s.logger.Info(ctx, "using cached profile", "user", id, "synced", humanize.Time(synced))
	}
	cached, err := profile.DecodeJSON(b)
	if err != nil {
		s.logger.Warn(ctx, "cached profile unreadable", "user", id, "error", err)
		return nil
	}
	return &cached
}
