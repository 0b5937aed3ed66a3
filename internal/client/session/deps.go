package session

import (
	"context"

	"github.com/gigrithm/gigrithm/internal/client/appwrite"
	"github.com/gigrithm/gigrithm/internal/client/profile"
)

// Account is the identity API the store drives. *appwrite.Account
// satisfies it.
type Account interface {
	Create(ctx context.Context, userID, email, password, name string) (*appwrite.User, error)
	CreateEmailPasswordSession(ctx context.Context, email, password string) (*appwrite.Session, error)
	Get(ctx context.Context) (*appwrite.User, error)
	DeleteSession(ctx context.Context, sessionID string) error
	CreateVerification(ctx context.Context, callbackURL string) (*appwrite.Token, error)
	UpdateVerification(ctx context.Context, userID, secret string) (*appwrite.Token, error)
	CreateMagicURLToken(ctx context.Context, userID, email, callbackURL string) (*appwrite.Token, error)
	CreateRecovery(ctx context.Context, email, callbackURL string) (*appwrite.Token, error)
	UpdateRecovery(ctx context.Context, userID, secret, password string) (*appwrite.Token, error)
	UpdatePassword(ctx context.Context, password, oldPassword string) (*appwrite.User, error)
	UpdateName(ctx context.Context, name string) (*appwrite.User, error)
	CreateJWT(ctx context.Context) (string, error)
}

// ProfileRepository is the durable home of profiles. Load reports found=false
// when the identity has no profile yet.
type ProfileRepository interface {
	Load(ctx context.Context, userID string) (p profile.Profile, found bool, err error)
	Save(ctx context.Context, userID string, p profile.Profile) error
	Delete(ctx context.Context, userID string) error
}

// Cache is local fallback storage namespaced by identity id.
// *cache.SQLiteStore satisfies it.
type Cache interface {
	Get(ctx context.Context, userID, key string) ([]byte, error)
	Set(ctx context.Context, userID, key string, value []byte) error
	SetMany(ctx context.Context, userID string, values map[string][]byte) error
	Delete(ctx context.Context, userID, key string) error
	List(ctx context.Context, userID string) (map[string][]byte, error)
	ClearUser(ctx context.Context, userID string) error
}

// ResumeParser turns an uploaded resume into a profile.
type ResumeParser interface {
	ParseResume(ctx context.Context, filename string, data []byte) (profile.Profile, error)
}

// SessionKeeper exposes the BaaS session secret so it can outlive the
// process. *appwrite.Client satisfies it.
type SessionKeeper interface {
	Session() string
	SetSession(secret string)
}
