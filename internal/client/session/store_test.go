package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/gigrithm/gigrithm/internal/client/appwrite"
	"github.com/gigrithm/gigrithm/internal/client/cache"
	"github.com/gigrithm/gigrithm/internal/client/profile"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	verifyURL  = "http://app.test/verify-email"
	recoverURL = "http://app.test/reset-password"
)

type clock struct{ t time.Time }

func (c *clock) Now() time.Time { return c.t }

type harness struct {
	store  *Store
	acct   *fakeAccount
	docs   *fakeDocs
	cache  *cache.SQLiteStore
	keeper *fakeKeeper
	parser *fakeParser
	clock  *clock
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	c, err := cache.Open(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })

	h := &harness{
		acct:   newFakeAccount(),
		docs:   newFakeDocs(),
		cache:  c,
		keeper: &fakeKeeper{},
		parser: &fakeParser{},
		clock:  &clock{t: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)},
	}
	h.acct.keeper = h.keeper
	h.store = h.newStore(t, c)
	return h
}

func (h *harness) newStore(t *testing.T, c Cache) *Store {
	t.Helper()
	s, err := New(Deps{
		Account:         h.acct,
		Profiles:        NewDocumentProfiles(h.docs, "profiles"),
		Cache:           c,
		Parser:          h.parser,
		Sessions:        h.keeper,
		VerificationURL: verifyURL,
		RecoveryURL:     recoverURL,
		Now:             h.clock.Now,
	})
	require.NoError(t, err)
	return s
}

// seed registers an identity directly with the fake backend.
func (h *harness) seed(id, email, password string, verified bool) {
	h.acct.users[email] = &appwrite.User{ID: id, Email: email, Name: "Ada", EmailVerification: verified}
	h.acct.password[email] = password
}

func TestNew_RequiresAccountAndProfiles(t *testing.T) {
	_, err := New(Deps{})
	assert.ErrorIs(t, err, ErrMissingDeps)

	s, err := New(Deps{Account: newFakeAccount(), Profiles: NewDocumentProfiles(newFakeDocs(), "p")})
	require.NoError(t, err)
	assert.Equal(t, StateLoading, s.Snapshot().State)
}

func TestInit_NoSession_IsAnonymous(t *testing.T) {
	h := newHarness(t)

	h.store.Init(context.Background())

	snap := h.store.Snapshot()
	assert.Equal(t, StateAnonymous, snap.State)
	assert.Nil(t, snap.Identity)
	assert.Nil(t, snap.Profile)
}

func TestInit_BackendDown_IsAnonymous(t *testing.T) {
	h := newHarness(t)
	h.acct.getErr = appwrite.ErrUnavailable

	h.store.Init(context.Background())

	assert.Equal(t, StateAnonymous, h.store.Snapshot().State)
}

func TestInit_RestoresPersistedSession(t *testing.T) {
	h := newHarness(t)
	h.seed("u1", "ada@example.com", "Passw0rd!", true)
	ctx := context.Background()

	_, err := h.store.Login(ctx, "ada@example.com", "Passw0rd!")
	require.NoError(t, err)

	// a new process: fresh client secret, same local cache
	h.acct.current = nil
	h.keeper.SetSession("")
	next := h.newStore(t, h.cache)
	next.Init(ctx)

	snap := next.Snapshot()
	require.NotNil(t, snap.Identity)
	assert.Equal(t, "u1", snap.Identity.ID)
	assert.Equal(t, StateVerified, snap.State)
	assert.Equal(t, "secret-u1", h.keeper.Session())
}

func TestLoginThenLogout_ClearsEverything(t *testing.T) {
	h := newHarness(t)
	h.seed("u1", "ada@example.com", "Passw0rd!", true)
	h.docs.docs["profiles/u1"] = map[string]any{"name": "Ada", "skills": []any{"go"}}
	ctx := context.Background()
	h.store.Init(ctx)

	id, err := h.store.Login(ctx, "ada@example.com", "Passw0rd!")
	require.NoError(t, err)
	assert.Equal(t, "u1", id.ID)

	snap := h.store.Snapshot()
	assert.Equal(t, StateVerified, snap.State)
	assert.True(t, snap.Verified)
	require.NotNil(t, snap.Profile)
	assert.Equal(t, []string{"go"}, snap.Profile.Skills)

	cached, err := h.cache.List(ctx, "u1")
	require.NoError(t, err)
	assert.Contains(t, cached, cache.KeyProfile)
	assert.Contains(t, cached, cache.KeyProfileSynced)

	h.store.Logout(ctx)

	snap = h.store.Snapshot()
	assert.Equal(t, StateAnonymous, snap.State)
	assert.Nil(t, snap.Identity)
	assert.False(t, snap.Verified)
	assert.Nil(t, snap.Profile)

	cached, err = h.cache.List(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, cached)

	secret, err := h.cache.Get(ctx, cache.DeviceNamespace, cache.KeySession)
	require.NoError(t, err)
	assert.Nil(t, secret)
	assert.Equal(t, 1, h.acct.calls["deleteSession"])
	assert.Equal(t, []string{"current"}, h.acct.last["deleteSession"])
}

func TestLogout_RemoteFailure_StillSignsOut(t *testing.T) {
	h := newHarness(t)
	h.seed("u1", "ada@example.com", "Passw0rd!", false)
	ctx := context.Background()
	_, err := h.store.Login(ctx, "ada@example.com", "Passw0rd!")
	require.NoError(t, err)

	h.acct.deleteErr = appwrite.ErrUnavailable
	h.store.Logout(ctx)
	h.store.Logout(ctx)

	snap := h.store.Snapshot()
	assert.Equal(t, StateAnonymous, snap.State)
	assert.Nil(t, snap.Identity)
}

func TestLogout_CacheFailure_IsIgnored(t *testing.T) {
	h := newHarness(t)
	h.seed("u1", "ada@example.com", "Passw0rd!", false)
	s := h.newStore(t, brokenCache{})
	ctx := context.Background()

	_, err := s.Login(ctx, "ada@example.com", "Passw0rd!")
	require.NoError(t, err)
	s.Logout(ctx)

	assert.Equal(t, StateAnonymous, s.Snapshot().State)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	h := newHarness(t)
	h.seed("u1", "ada@example.com", "Passw0rd!", false)
	ctx := context.Background()
	h.store.Init(ctx)

	_, err := h.store.Login(ctx, "ada@example.com", "wrong")
	require.Error(t, err)
	assert.ErrorIs(t, err, appwrite.ErrUnauthorized)
	assert.Equal(t, StateAnonymous, h.store.Snapshot().State)
}

func TestRegister_CreatesSessionAndSendsVerification(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	res, err := h.store.Register(ctx, RegisterInput{Email: "a@b.com", Password: "Passw0rd!"})
	require.NoError(t, err)
	assert.False(t, res.Fallback)
	assert.Equal(t, "a@b.com", res.Email)
	assert.NotEmpty(t, res.UserID)

	assert.Equal(t, 1, h.acct.calls["create"])
	assert.Equal(t, "a", h.acct.last["create"][2], "name defaults to the local part")
	assert.Equal(t, 1, h.acct.calls["verification"])
	assert.Equal(t, []string{verifyURL}, h.acct.last["verification"])

	snap := h.store.Snapshot()
	assert.Equal(t, StateUnverified, snap.State)
	require.NotNil(t, snap.Identity)
	assert.Equal(t, res.UserID, snap.Identity.ID)
}

func TestRegister_VerificationFailureKeepsSignedInIdentity(t *testing.T) {
	h := newHarness(t)
	h.acct.sendErr = appwrite.ErrUnavailable
	ctx := context.Background()

	_, err := h.store.Register(ctx, RegisterInput{Email: "a@b.com", Password: "Passw0rd!"})
	require.ErrorIs(t, err, appwrite.ErrUnavailable)

	snap := h.store.Snapshot()
	assert.Equal(t, StateUnverified, snap.State)
	require.NotNil(t, snap.Identity)
	assert.Equal(t, "a@b.com", snap.Identity.Email)

	h.acct.sendErr = nil
	require.NoError(t, h.store.ResendVerification(ctx))
	assert.Equal(t, 1, h.acct.calls["session"], "no second session is opened")
}

func TestRegister_Twice_ReturnsFallback(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	in := RegisterInput{Email: "a@b.com", Password: "Passw0rd!", Name: "Ada"}

	_, err := h.store.Register(ctx, in)
	require.NoError(t, err)

	res, err := h.store.Register(ctx, in)
	require.NoError(t, err)
	assert.True(t, res.Fallback)
	assert.Contains(t, res.Message, "already exists")
	assert.Equal(t, []string{appwrite.UniqueID, "a@b.com", verifyURL}, h.acct.last["magicURL"])
}

func TestRegister_OtherFailurePropagates(t *testing.T) {
	h := newHarness(t)
	h.acct.createErr = &appwrite.Error{Code: 400, Message: "Invalid password", Type: "password_policy"}

	_, err := h.store.Register(context.Background(), RegisterInput{Email: "a@b.com", Password: "short"})
	require.Error(t, err)
	var aerr *appwrite.Error
	require.True(t, errors.As(err, &aerr))
	assert.Equal(t, 400, aerr.Code)
	assert.Zero(t, h.acct.calls["magicURL"])
}

func TestRegister_WithResume_StoresParsedProfile(t *testing.T) {
	h := newHarness(t)
	h.parser.p = profile.Profile{
		Name:   "Ada",
		Skills: []string{"go", "sql"},
		Projects: []profile.Project{
			{Name: "Gig", Technologies: []string{"go"}},
		},
	}
	ctx := context.Background()

	_, err := h.store.Register(ctx, RegisterInput{
		Email:    "a@b.com",
		Password: "Passw0rd!",
		Resume:   &File{Name: "cv.pdf", Data: []byte("%PDF-1.4")},
	})
	require.NoError(t, err)

	assert.Equal(t, 1, h.parser.calls)
	snap := h.store.Snapshot()
	require.NotNil(t, snap.Profile)
	assert.Equal(t, 1, snap.Profile.ResumeVersion)
	assert.Equal(t, []string{"go", "sql"}, snap.Profile.Skills)
	assert.Equal(t, 1, h.docs.creates)
}

func TestRegister_ResumeParseFailure_IsNotFatal(t *testing.T) {
	h := newHarness(t)
	h.parser.err = errors.New("parser down")

	res, err := h.store.Register(context.Background(), RegisterInput{
		Email: "a@b.com", Password: "Passw0rd!", Resume: &File{Name: "cv.pdf"},
	})
	require.NoError(t, err)
	assert.False(t, res.Fallback)
	assert.Nil(t, h.store.Snapshot().Profile)
}

func TestCheckVerificationStatus(t *testing.T) {
	h := newHarness(t)
	h.seed("u1", "ada@example.com", "Passw0rd!", false)
	ctx := context.Background()

	assert.False(t, h.store.CheckVerificationStatus(ctx), "signed out")

	_, err := h.store.Login(ctx, "ada@example.com", "Passw0rd!")
	require.NoError(t, err)
	before := h.store.Snapshot()

	h.acct.getErr = appwrite.ErrUnavailable
	assert.False(t, h.store.CheckVerificationStatus(ctx))
	assert.Equal(t, before, h.store.Snapshot())

	h.acct.getErr = nil
	h.acct.verify("ada@example.com")
	assert.True(t, h.store.CheckVerificationStatus(ctx))
	snap := h.store.Snapshot()
	assert.Equal(t, StateVerified, snap.State)
	assert.True(t, snap.Identity.EmailVerified)
}

func TestCompleteVerification(t *testing.T) {
	h := newHarness(t)
	h.seed("u1", "ada@example.com", "Passw0rd!", false)
	ctx := context.Background()
	_, err := h.store.Login(ctx, "ada@example.com", "Passw0rd!")
	require.NoError(t, err)

	h.acct.verifyErr = &appwrite.Error{Code: 401, Type: "user_invalid_token"}
	err = h.store.CompleteVerification(ctx, "u1", "bad")
	assert.ErrorIs(t, err, appwrite.ErrUnauthorized)
	assert.Equal(t, StateUnverified, h.store.Snapshot().State)

	h.acct.verifyErr = nil
	require.NoError(t, h.store.CompleteVerification(ctx, "u1", "good"))
	assert.Equal(t, StateVerified, h.store.Snapshot().State)
}

func TestResendVerification(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	assert.ErrorIs(t, h.store.ResendVerification(ctx), ErrNotSignedIn)

	h.seed("u1", "ada@example.com", "Passw0rd!", false)
	_, err := h.store.Login(ctx, "ada@example.com", "Passw0rd!")
	require.NoError(t, err)
	require.NoError(t, h.store.ResendVerification(ctx))
	assert.Equal(t, 1, h.acct.calls["verification"])
}

func TestLoad_SkillsStoredAsJSONString_AreNormalised(t *testing.T) {
	h := newHarness(t)
	h.seed("u1", "ada@example.com", "Passw0rd!", true)
	h.docs.docs["profiles/u1"] = map[string]any{
		"skills":   `["go","sql"]`,
		"projects": `{"name":"a","technologies":["go"]}|{"name":`,
	}

	_, err := h.store.Login(context.Background(), "ada@example.com", "Passw0rd!")
	require.NoError(t, err)

	p := h.store.Snapshot().Profile
	require.NotNil(t, p)
	assert.Equal(t, []string{"go", "sql"}, p.Skills)
	assert.NotNil(t, p.Projects)
	assert.Empty(t, p.Projects)
}

func TestLoad_FallsBackToLocalCache(t *testing.T) {
	h := newHarness(t)
	h.seed("u1", "ada@example.com", "Passw0rd!", true)
	ctx := context.Background()
	require.NoError(t, h.cache.Set(ctx, "u1", cache.KeyProfile, []byte(`{"name":"Cached","skills":"go, sql","resumeVersion":3}`)))
	h.docs.getErr = appwrite.ErrUnavailable

	_, err := h.store.Login(ctx, "ada@example.com", "Passw0rd!")
	require.NoError(t, err)

	p := h.store.Snapshot().Profile
	require.NotNil(t, p)
	assert.Equal(t, "Cached", p.Name)
	assert.Equal(t, []string{"go", "sql"}, p.Skills)
	assert.Equal(t, 3, p.ResumeVersion)
}

func TestClearResumeData_DropsCachedProfileAndSyncTime(t *testing.T) {
	h := newHarness(t)
	h.docs.docs["profiles/u1"] = map[string]any{"name": "Ada", "skills": []any{"go"}}
	signedIn(t, h)
	ctx := context.Background()

	require.NoError(t, h.store.ClearResumeData(ctx))

	cached, err := h.cache.List(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, cached)
	assert.Nil(t, h.store.Snapshot().Profile)
}

func signedIn(t *testing.T, h *harness) {
	t.Helper()
	h.seed("u1", "ada@example.com", "Passw0rd!", true)
	_, err := h.store.Login(context.Background(), "ada@example.com", "Passw0rd!")
	require.NoError(t, err)
}

func TestUpdateProfile_NotSignedIn(t *testing.T) {
	h := newHarness(t)
	err := h.store.UpdateResumeData(context.Background(), profile.Profile{Name: "x"})
	assert.ErrorIs(t, err, ErrNotSignedIn)
	assert.Zero(t, h.docs.updates)
}

func TestUpdateProfile_ReplaceFromResume_BumpsVersion(t *testing.T) {
	h := newHarness(t)
	signedIn(t, h)
	ctx := context.Background()

	p := profile.Profile{Name: "Ada", Skills: []string{"go"}}
	require.NoError(t, h.store.UpdateResumeData(ctx, p))
	require.NoError(t, h.store.UpdateResumeData(ctx, p))

	snap := h.store.Snapshot()
	require.NotNil(t, snap.Profile)
	assert.Equal(t, 2, snap.Profile.ResumeVersion)
	assert.Equal(t, h.clock.t, snap.Profile.UpdatedAt)

	doc := h.docs.docs["profiles/u1"]
	assert.Equal(t, "[]", doc["projects"])
	assert.Equal(t, profile.SchemaVersion, doc["schemaVersion"])

	b, err := h.cache.Get(ctx, "u1", cache.KeyProfile)
	require.NoError(t, err)
	cached, err := profile.DecodeJSON(b)
	require.NoError(t, err)
	assert.Equal(t, 2, cached.ResumeVersion)
}

func TestUpdateProfile_PatchFields(t *testing.T) {
	h := newHarness(t)
	signedIn(t, h)
	ctx := context.Background()
	require.NoError(t, h.store.UpdateResumeData(ctx, profile.Profile{Name: "Ada", Skills: []string{"go"}}))

	require.NoError(t, h.store.UpdateUserProfile(ctx, map[string]any{
		"name":   "Ada Lovelace",
		"skills": "go, rust",
	}))

	snap := h.store.Snapshot()
	assert.Equal(t, "Ada Lovelace", snap.Profile.Name)
	assert.Equal(t, []string{"go", "rust"}, snap.Profile.Skills)
	assert.Equal(t, 1, snap.Profile.ResumeVersion, "edits keep the resume version")
	assert.Equal(t, "Ada Lovelace", snap.Identity.Name)
	assert.Equal(t, []string{"Ada Lovelace"}, h.acct.last["updateName"])
}

func TestUpdateProfile_UnknownField_NoWrite(t *testing.T) {
	h := newHarness(t)
	signedIn(t, h)

	err := h.store.UpdateUserProfile(context.Background(), map[string]any{"salary": 1})
	assert.ErrorIs(t, err, profile.ErrUnknownField)
	assert.Zero(t, h.docs.updates)
	assert.Zero(t, h.docs.creates)
}

func TestUpdateProfile_RemoteFailure_IsReturned(t *testing.T) {
	h := newHarness(t)
	signedIn(t, h)
	ctx := context.Background()
	h.docs.updateErr = &appwrite.Error{Code: 500, Message: "boom"}

	err := h.store.UpdateResumeData(ctx, profile.Profile{Name: "Ada"})
	require.Error(t, err)
	assert.Nil(t, h.store.Snapshot().Profile)

	b, err := h.cache.Get(ctx, "u1", cache.KeyProfile)
	require.NoError(t, err)
	assert.Nil(t, b, "nothing mirrored when the remote write fails")
}

func TestUpdateProfile_CacheFailure_IsLogged(t *testing.T) {
	h := newHarness(t)
	h.seed("u1", "ada@example.com", "Passw0rd!", true)
	s := h.newStore(t, brokenCache{})
	ctx := context.Background()
	_, err := s.Login(ctx, "ada@example.com", "Passw0rd!")
	require.NoError(t, err)

	require.NoError(t, s.UpdateResumeData(ctx, profile.Profile{Name: "Ada"}))
	assert.Equal(t, "Ada", s.Snapshot().Profile.Name)
}

func TestUpdateProfile_InvalidProject_RejectedBeforeWrite(t *testing.T) {
	h := newHarness(t)
	signedIn(t, h)

	err := h.store.UpdateResumeData(context.Background(), profile.Profile{
		Projects: []profile.Project{{Description: "no name"}},
	})
	assert.ErrorIs(t, err, profile.ErrInvalid)
	assert.Zero(t, h.docs.updates)
}

func TestClearResumeData(t *testing.T) {
	h := newHarness(t)
	signedIn(t, h)
	ctx := context.Background()
	require.NoError(t, h.store.UpdateResumeData(ctx, profile.Profile{Name: "Ada"}))

	require.NoError(t, h.store.ClearResumeData(ctx))
	assert.Nil(t, h.store.Snapshot().Profile)
	assert.NotContains(t, h.docs.docs, "profiles/u1")

	b, err := h.cache.Get(ctx, "u1", cache.KeyProfile)
	require.NoError(t, err)
	assert.Nil(t, b)

	require.NoError(t, h.store.ClearResumeData(ctx), "clearing twice is fine")
}

func TestToken_CachedUntilNearExpiry(t *testing.T) {
	h := newHarness(t)
	signedIn(t, h)
	ctx := context.Background()

	exp := h.clock.t.Add(15 * time.Minute)
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"userId": "u1",
		"exp":    exp.Unix(),
	}).SignedString([]byte("k"))
	require.NoError(t, err)
	h.acct.jwt = tok

	got, err := h.store.Token(ctx)
	require.NoError(t, err)
	assert.Equal(t, tok, got)
	_, err = h.store.Token(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, h.acct.calls["jwt"])

	h.clock.t = exp.Add(-30 * time.Second)
	_, err = h.store.Token(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, h.acct.calls["jwt"])
}

func TestToken_NotSignedIn(t *testing.T) {
	h := newHarness(t)
	_, err := h.store.Token(context.Background())
	assert.ErrorIs(t, err, ErrNotSignedIn)
}

func TestSubscribe(t *testing.T) {
	h := newHarness(t)
	var states []State
	unsubscribe := h.store.Subscribe(func(s Snapshot) { states = append(states, s.State) })

	h.store.Init(context.Background())
	unsubscribe()
	h.store.Logout(context.Background())

	assert.Equal(t, []State{StateAnonymous}, states)
}

func TestPasswordOperations(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	require.NoError(t, h.store.RequestPasswordRecovery(ctx, "ada@example.com"))
	assert.Equal(t, []string{"ada@example.com", recoverURL}, h.acct.last["recovery"])

	require.NoError(t, h.store.CompletePasswordRecovery(ctx, "u1", "sec", "N3wPassword"))
	assert.Equal(t, []string{"u1", "sec", "N3wPassword"}, h.acct.last["updateRecovery"])

	assert.ErrorIs(t, h.store.ChangePassword(ctx, "a", "b"), ErrNotSignedIn)

	signedIn(t, h)
	err := h.store.ChangePassword(ctx, "wrong", "N3wPassword")
	assert.ErrorIs(t, err, appwrite.ErrUnauthorized)
	require.NoError(t, h.store.ChangePassword(ctx, "Passw0rd!", "N3wPassword"))
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "loading", StateLoading.String())
	assert.Equal(t, "anonymous", StateAnonymous.String())
	assert.Equal(t, "unverified", StateUnverified.String())
	assert.Equal(t, "verified", StateVerified.String())
	assert.Equal(t, "unknown", State(42).String())
}
