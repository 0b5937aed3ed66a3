package session

import (
	"context"
	"errors"
	"sync"

	"github.com/gigrithm/gigrithm/internal/client/appwrite"
	"github.com/gigrithm/gigrithm/internal/client/profile"
)

// fakeAccount models one BaaS project with a set of registered emails.
type fakeAccount struct {
	mu sync.Mutex

	users    map[string]*appwrite.User // by email
	password map[string]string
	current  *appwrite.User
	secret   string
	keeper   *fakeKeeper

	createErr  error
	getErr     error
	deleteErr  error
	verifyErr  error
	sendErr    error
	jwt        string
	jwtErr     error
	renameErr  error
	recoverErr error

	calls map[string]int
	last  map[string][]string
}

func newFakeAccount() *fakeAccount {
	return &fakeAccount{
		users:    map[string]*appwrite.User{},
		password: map[string]string{},
		calls:    map[string]int{},
		last:     map[string][]string{},
	}
}

func (f *fakeAccount) record(op string, args ...string) {
	f.calls[op]++
	f.last[op] = args
}

func (f *fakeAccount) Create(_ context.Context, userID, email, password, name string) (*appwrite.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("create", userID, email, name)
	if f.createErr != nil {
		return nil, f.createErr
	}
	if _, ok := f.users[email]; ok {
		return nil, &appwrite.Error{Code: 409, Message: "A user with the same email already exists", Type: "user_already_exists"}
	}
	u := &appwrite.User{ID: userID, Email: email, Name: name}
	f.users[email] = u
	f.password[email] = password
	return u, nil
}

func (f *fakeAccount) CreateEmailPasswordSession(_ context.Context, email, password string) (*appwrite.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("session", email)
	u, ok := f.users[email]
	if !ok || f.password[email] != password {
		return nil, &appwrite.Error{Code: 401, Message: "Invalid credentials", Type: "user_invalid_credentials"}
	}
	f.current = u
	if f.keeper != nil {
		f.keeper.SetSession("secret-" + u.ID)
	}
	return &appwrite.Session{ID: "s1", UserID: u.ID, Secret: "secret-" + u.ID}, nil
}

func (f *fakeAccount) Get(context.Context) (*appwrite.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("get")
	if f.getErr != nil {
		return nil, f.getErr
	}
	if f.current == nil {
		if f.keeper != nil && f.keeper.Session() != "" {
			for _, u := range f.users {
				if "secret-"+u.ID == f.keeper.Session() {
					cp := *u
					return &cp, nil
				}
			}
		}
		return nil, &appwrite.Error{Code: 401, Type: "general_unauthorized_scope"}
	}
	cp := *f.current
	return &cp, nil
}

func (f *fakeAccount) DeleteSession(_ context.Context, sessionID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("deleteSession", sessionID)
	f.current = nil
	if f.keeper != nil {
		f.keeper.SetSession("")
	}
	return f.deleteErr
}

func (f *fakeAccount) CreateVerification(_ context.Context, url string) (*appwrite.Token, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("verification", url)
	if f.sendErr != nil {
		return nil, f.sendErr
	}
	return &appwrite.Token{}, nil
}

func (f *fakeAccount) UpdateVerification(_ context.Context, userID, secret string) (*appwrite.Token, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("updateVerification", userID, secret)
	if f.verifyErr != nil {
		return nil, f.verifyErr
	}
	for _, u := range f.users {
		if u.ID == userID {
			u.EmailVerification = true
		}
	}
	return &appwrite.Token{UserID: userID}, nil
}

func (f *fakeAccount) CreateMagicURLToken(_ context.Context, userID, email, url string) (*appwrite.Token, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("magicURL", userID, email, url)
	return &appwrite.Token{}, nil
}

func (f *fakeAccount) CreateRecovery(_ context.Context, email, url string) (*appwrite.Token, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("recovery", email, url)
	return &appwrite.Token{}, f.recoverErr
}

func (f *fakeAccount) UpdateRecovery(_ context.Context, userID, secret, password string) (*appwrite.Token, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("updateRecovery", userID, secret, password)
	if f.recoverErr != nil {
		return nil, f.recoverErr
	}
	return &appwrite.Token{}, nil
}

func (f *fakeAccount) UpdatePassword(_ context.Context, password, oldPassword string) (*appwrite.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("updatePassword", password, oldPassword)
	if f.current == nil || f.password[f.current.Email] != oldPassword {
		return nil, &appwrite.Error{Code: 401, Type: "user_invalid_credentials"}
	}
	f.password[f.current.Email] = password
	cp := *f.current
	return &cp, nil
}

func (f *fakeAccount) UpdateName(_ context.Context, name string) (*appwrite.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("updateName", name)
	if f.renameErr != nil {
		return nil, f.renameErr
	}
	f.current.Name = name
	cp := *f.current
	return &cp, nil
}

func (f *fakeAccount) CreateJWT(context.Context) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("jwt")
	return f.jwt, f.jwtErr
}

// verify flips the verification flag as if the user followed the link.
func (f *fakeAccount) verify(email string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.users[email].EmailVerification = true
}

type fakeKeeper struct {
	mu     sync.Mutex
	secret string
}

func (k *fakeKeeper) Session() string {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.secret
}

func (k *fakeKeeper) SetSession(s string) {
	k.mu.Lock()
	k.secret = s
	k.mu.Unlock()
}

// fakeDocs is an in-memory document collection set.
type fakeDocs struct {
	docs      map[string]map[string]any // collection/id
	createErr error
	updateErr error
	getErr    error
	creates   int
	updates   int
}

func newFakeDocs() *fakeDocs {
	return &fakeDocs{docs: map[string]map[string]any{}}
}

func (f *fakeDocs) CreateDocument(_ context.Context, collectionID, documentID string, data any, _ []string) (*appwrite.Document, error) {
	f.creates++
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.docs[collectionID+"/"+documentID] = data.(map[string]any)
	return &appwrite.Document{ID: documentID, Data: data.(map[string]any)}, nil
}

func (f *fakeDocs) GetDocument(_ context.Context, collectionID, documentID string) (*appwrite.Document, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	d, ok := f.docs[collectionID+"/"+documentID]
	if !ok {
		return nil, &appwrite.Error{Code: 404, Type: "document_not_found"}
	}
	return &appwrite.Document{ID: documentID, Data: d}, nil
}

func (f *fakeDocs) UpdateDocument(_ context.Context, collectionID, documentID string, data any) (*appwrite.Document, error) {
	f.updates++
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	if _, ok := f.docs[collectionID+"/"+documentID]; !ok {
		return nil, &appwrite.Error{Code: 404, Type: "document_not_found"}
	}
	f.docs[collectionID+"/"+documentID] = data.(map[string]any)
	return &appwrite.Document{ID: documentID, Data: data.(map[string]any)}, nil
}

func (f *fakeDocs) DeleteDocument(_ context.Context, collectionID, documentID string) error {
	key := collectionID + "/" + documentID
	if _, ok := f.docs[key]; !ok {
		return &appwrite.Error{Code: 404, Type: "document_not_found"}
	}
	delete(f.docs, key)
	return nil
}

type fakeParser struct {
	p     profile.Profile
	err   error
	calls int
}

func (f *fakeParser) ParseResume(context.Context, string, []byte) (profile.Profile, error) {
	f.calls++
	return f.p, f.err
}

// brokenCache fails every operation.
type brokenCache struct{}

var errDisk = errors.New("disk full")

func (brokenCache) Get(context.Context, string, string) ([]byte, error)      { return nil, errDisk }
func (brokenCache) Set(context.Context, string, string, []byte) error        { return errDisk }
func (brokenCache) SetMany(context.Context, string, map[string][]byte) error { return errDisk }
func (brokenCache) Delete(context.Context, string, string) error             { return errDisk }
func (brokenCache) List(context.Context, string) (map[string][]byte, error)  { return nil, errDisk }
func (brokenCache) ClearUser(context.Context, string) error                  { return errDisk }
