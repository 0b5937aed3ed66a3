package postings

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/gigrithm/gigrithm/internal/client/appwrite"
	"github.com/gigrithm/gigrithm/internal/logging"
	"github.com/google/uuid"
)

// DefaultAutoClose is how long a submitted form stays on screen.
const DefaultAutoClose = 2 * time.Second

var ErrNotSignedIn = errors.New("postings: sign in to post")

// Creator stores documents. *appwrite.Databases satisfies it.
type Creator interface {
	CreateDocument(ctx context.Context, collectionID, documentID string, data any, permissions []string) (*appwrite.Document, error)
}

// Author is the signed-in poster.
type Author struct {
	UserID string
	Email  string
}

// Result describes a published posting.
type Result struct {
	ID         string
	DocumentID string
}

// Status is the editor's display state.
type Status int

const (
	StatusEditing Status = iota
	StatusSubmitted
)

// test seams
var (
	nowFn    = time.Now
	suffixFn = func() string { return strings.ReplaceAll(uuid.NewString(), "-", "")[:6] }
)

// NewID returns a public posting id: PREFIX-<unix-ms>-<6 hex>.
func NewID(prefix string) string {
	return fmt.Sprintf("%s-%d-%s", prefix, nowFn().UnixMilli(), suffixFn())
}

// Editor holds one draft and publishes it.
type Editor[D Draft] struct {
	docs       Creator
	collection string
	autoClose  time.Duration
	logger     logging.Logger

	mu     sync.Mutex
	draft  D
	status Status
	last   *Result
	wg     sync.WaitGroup
}

func newEditor[D Draft](docs Creator, collection string, autoClose time.Duration, logger logging.Logger) *Editor[D] {
	if logger == nil {
		logger = logging.Nop()
	}
	if autoClose <= 0 {
		autoClose = DefaultAutoClose
	}
	return &Editor[D]{docs: docs, collection: collection, autoClose: autoClose, logger: logger.With("component", "postings")}
}

func NewJobEditor(docs Creator, collection string, autoClose time.Duration, logger logging.Logger) *Editor[JobForm] {
	return newEditor[JobForm](docs, collection, autoClose, logger)
}

func NewHackathonEditor(docs Creator, collection string, autoClose time.Duration, logger logging.Logger) *Editor[HackathonForm] {
	return newEditor[HackathonForm](docs, collection, autoClose, logger)
}

func (e *Editor[D]) Draft() D {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.draft
}

func (e *Editor[D]) SetDraft(d D) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.draft = d
	e.status = StatusEditing
}

func (e *Editor[D]) Status() Status {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.status
}

// Last returns the most recent successful submission, if it is still shown.
func (e *Editor[D]) Last() *Result {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.last
}

// Reset clears the draft.
func (e *Editor[D]) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	var zero D
	e.draft = zero
	e.status = StatusEditing
	e.last = nil
}

// Submit validates the draft and creates exactly one document. Validation
// failures never reach the network. On success the form resets after the
// auto-close delay unless ctx ends first; on failure the draft is kept.
func (e *Editor[D]) Submit(ctx context.Context, author Author) (*Result, error) {
	if author.UserID == "" || author.Email == "" {
		return nil, ErrNotSignedIn
	}

	draft := e.Draft()
	if err := draft.Validate(); err != nil {
		return nil, err
	}

	id := NewID(draft.idPrefix())
	doc, err := e.docs.CreateDocument(ctx, e.collection, appwrite.UniqueID,
		draft.document(id, author.Email), appwrite.PublicOwned(author.UserID))
	if err != nil {
		e.logger.Error(ctx, "posting failed", "id", id, "error", err)
		return nil, fmt.Errorf("publish %s: %w", id, err)
	}

	res := &Result{ID: id, DocumentID: doc.ID}
	e.mu.Lock()
	e.status = StatusSubmitted
	e.last = res
	e.mu.Unlock()
	e.logger.Info(ctx, "posting published", "id", id, "document", doc.ID)

	e.wg.Add(1)
	go e.closeAfter(ctx, res)
	return res, nil
}

func (e *Editor[D]) closeAfter(ctx context.Context, res *Result) {
	defer e.wg.Done()
	t := time.NewTimer(e.autoClose)
	defer t.Stop()
	select {
	case <-t.C:
	case <-ctx.Done():
		return
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	// A newer draft or submission wins.
	if e.last != res || e.status != StatusSubmitted {
		return
	}
	var zero D
	e.draft = zero
	e.status = StatusEditing
	e.last = nil
}

// Wait blocks until pending auto-close timers have fired or been cancelled.
func (e *Editor[D]) Wait() {
	e.wg.Wait()
}
