// Package intake drives the resume-first sign-up flow: pick a PDF, extract
// the email address from it, let the user confirm the address and choose a
// password, then register.
//
//	upload -> extracting -> confirm -> registering -> success
//	                 \                       \
//	                  -> upload (retry)       -> failed (retry Confirm or Reset)
package intake

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/dustin/go-humanize"
	"github.com/gabriel-vasile/mimetype"
	"github.com/gigrithm/gigrithm/internal/client/session"
	"github.com/gigrithm/gigrithm/internal/logging"
	"github.com/gigrithm/gigrithm/internal/validation"
)

type Step int

const (
	StepUpload Step = iota
	StepExtracting
	StepConfirm
	StepRegistering
	StepSuccess
	StepFailed
)

var stepNames = [...]string{"upload", "extracting", "confirm", "registering", "success", "failed"}

func (s Step) String() string {
	if s < 0 || int(s) >= len(stepNames) {
		return "unknown"
	}
	return stepNames[s]
}

var (
	ErrInvalidFile = errors.New("invalid resume file")
	ErrWrongStep   = errors.New("operation not allowed in this step")
)

const pdfMIME = "application/pdf"

// Extractor finds the email address in a resume. *gigapi.Client satisfies it.
type Extractor interface {
	ExtractEmail(ctx context.Context, filename string, data []byte) (string, error)
}

// Registrar creates the account. *session.Store satisfies it.
type Registrar interface {
	Register(ctx context.Context, in session.RegisterInput) (*session.RegisterResult, error)
}

// State is what a view renders.
type State struct {
	Step     Step
	FileName string
	FileSize string
	Email    string
	Message  string
	Result   *session.RegisterResult
}

type Workflow struct {
	extractor Extractor
	registrar Registrar
	maxBytes  int64
	logger    logging.Logger

	mu     sync.Mutex
	step   Step
	file   *session.File
	email  string
	msg    string
	result *session.RegisterResult
}

func New(extractor Extractor, registrar Registrar, maxBytes int64, logger logging.Logger) *Workflow {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Workflow{
		extractor: extractor,
		registrar: registrar,
		maxBytes:  maxBytes,
		logger:    logger.With("component", "intake"),
	}
}

func (w *Workflow) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	st := State{Step: w.step, Email: w.email, Message: w.msg, Result: w.result}
	if w.file != nil {
		st.FileName = w.file.Name
		st.FileSize = humanize.IBytes(uint64(len(w.file.Data)))
	}
	return st
}

// Select accepts the resume. It checks name, content and size locally and
// never touches the network.
func (w *Workflow) Select(name string, data []byte) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.step != StepUpload {
		return ErrWrongStep
	}

	if err := w.checkFile(name, data); err != nil {
		w.file = nil
		w.msg = err.Error()
		return err
	}
	w.file = &session.File{Name: filepath.Base(name), Data: data}
	w.msg = ""
	return nil
}

func (w *Workflow) checkFile(name string, data []byte) error {
	if !strings.EqualFold(filepath.Ext(name), ".pdf") {
		return fmt.Errorf("%w: only PDF files are accepted", ErrInvalidFile)
	}
	if len(data) == 0 {
		return fmt.Errorf("%w: file is empty", ErrInvalidFile)
	}
	if w.maxBytes > 0 && int64(len(data)) > w.maxBytes {
		return fmt.Errorf("%w: file is %s, the limit is %s", ErrInvalidFile,
			humanize.IBytes(uint64(len(data))), humanize.IBytes(uint64(w.maxBytes)))
	}
	if mt := mimetype.Detect(data); !mt.Is(pdfMIME) {
		return fmt.Errorf("%w: content is %s, not a PDF", ErrInvalidFile, mt.String())
	}
	return nil
}

// Extract sends the selected file to the extraction endpoint. On success the
// workflow moves to confirm with the address pre-filled; on failure it goes
// back to upload with the file kept, so Extract can simply be retried.
func (w *Workflow) Extract(ctx context.Context) error {
	w.mu.Lock()
	if w.step != StepUpload || w.file == nil {
		w.mu.Unlock()
		return ErrWrongStep
	}
	f := *w.file
	w.step = StepExtracting
	w.msg = ""
	w.mu.Unlock()

	email, err := w.extractor.ExtractEmail(ctx, f.Name, f.Data)

	w.mu.Lock()
	defer w.mu.Unlock()
	if err != nil {
		w.logger.Warn(ctx, "email extraction failed", "file", f.Name, "error", err)
		w.step = StepUpload
		w.msg = "Could not extract an email from the resume: " + err.Error()
		return err
	}
	w.step = StepConfirm
	w.email = email
	return nil
}

type credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,pwd"`
}

// Confirm registers with the (possibly edited) address and the chosen
// password. Invalid input stays in confirm without any network call.
// Exactly one registration is attempted per call.
func (w *Workflow) Confirm(ctx context.Context, email, password string) (*session.RegisterResult, error) {
	email = strings.TrimSpace(email)

	w.mu.Lock()
	if w.step != StepConfirm && w.step != StepFailed {
		w.mu.Unlock()
		return nil, ErrWrongStep
	}
	if err := validation.Struct(credentials{Email: email, Password: password}); err != nil {
		w.email = email
		w.msg = err.Error()
		w.mu.Unlock()
		return nil, err
	}
	f := *w.file
	w.step = StepRegistering
	w.email = email
	w.msg = ""
	w.mu.Unlock()

	res, err := w.registrar.Register(ctx, session.RegisterInput{
		Email:    email,
		Password: password,
		Resume:   &f,
	})

	w.mu.Lock()
	defer w.mu.Unlock()
	if err != nil {
		w.logger.Warn(ctx, "registration failed", "email", email, "error", err)
		w.step = StepFailed
		w.msg = "Registration failed: " + err.Error()
		return nil, err
	}
	w.step = StepSuccess
	w.result = res
	w.msg = res.Message
	return res, nil
}

// Reset returns to upload and forgets everything.
func (w *Workflow) Reset() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.step = StepUpload
	w.file = nil
	w.email = ""
	w.msg = ""
	w.result = nil
}
