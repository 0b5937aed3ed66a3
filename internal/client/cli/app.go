package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/gigrithm/gigrithm/internal/client/bugreport"
	"github.com/gigrithm/gigrithm/internal/client/intake"
	"github.com/gigrithm/gigrithm/internal/client/listings"
	"github.com/gigrithm/gigrithm/internal/client/postings"
	"github.com/gigrithm/gigrithm/internal/client/session"
	"github.com/gigrithm/gigrithm/internal/logging"
)

type Mode string

const (
	ModeOnline  Mode = "online"
	ModeOffline Mode = "offline"
)

// DefaultCheckInterval replaces a non-positive watcher interval.
const DefaultCheckInterval = 30 * time.Second

// Session is the part of *session.Store the shell drives.
type Session interface {
	Snapshot() session.Snapshot
	Login(ctx context.Context, email, password string) (*session.Identity, error)
	Logout(ctx context.Context)
	Register(ctx context.Context, in session.RegisterInput) (*session.RegisterResult, error)
	CheckVerificationStatus(ctx context.Context) bool
	CompleteVerification(ctx context.Context, userID, secret string) error
	ResendVerification(ctx context.Context) error
	RequestPasswordRecovery(ctx context.Context, email string) error
	CompletePasswordRecovery(ctx context.Context, userID, secret, password string) error
	ChangePassword(ctx context.Context, oldPassword, newPassword string) error
	UpdateUserProfile(ctx context.Context, patch map[string]any) error
	ClearResumeData(ctx context.Context) error
}

// Intake is the resume-first registration flow. *intake.Workflow satisfies it.
type Intake interface {
	State() intake.State
	Select(name string, data []byte) error
	Extract(ctx context.Context) error
	Confirm(ctx context.Context, email, password string) (*session.RegisterResult, error)
	Reset()
}

// Deps wires the shell to the client services.
type Deps struct {
	Session    Session
	Intake     Intake
	Jobs       *listings.JobBoard
	Hackathons *listings.HackathonBoard
	Dashboard  *listings.Dashboard
	JobPosts   *postings.Editor[postings.JobForm]
	HackPosts  *postings.Editor[postings.HackathonForm]
	Bugs       *bugreport.Service
	Logger     logging.Logger

	In  io.Reader
	Out io.Writer
}

type App struct {
	session    Session
	intake     Intake
	jobs       *listings.JobBoard
	hackathons *listings.HackathonBoard
	dashboard  *listings.Dashboard
	jobPosts   *postings.Editor[postings.JobForm]
	hackPosts  *postings.Editor[postings.HackathonForm]
	bugs       *bugreport.Service
	saved      *listings.Saved
	logger     logging.Logger

	reader *bufio.Reader
	out    io.Writer

	// root outlives single commands; posting auto-close timers hang off it.
	root context.Context

	mu   sync.Mutex
	mode Mode

	outMu sync.Mutex
}

func NewApp(d Deps) *App {
	if d.In == nil {
		d.In = os.Stdin
	}
	if d.Out == nil {
		d.Out = os.Stdout
	}
	if d.Logger == nil {
		d.Logger = logging.Nop()
	}
	return &App{
		session:    d.Session,
		intake:     d.Intake,
		jobs:       d.Jobs,
		hackathons: d.Hackathons,
		dashboard:  d.Dashboard,
		jobPosts:   d.JobPosts,
		hackPosts:  d.HackPosts,
		bugs:       d.Bugs,
		saved:      listings.NewSaved(),
		logger:     d.Logger.With("component", "cli"),
		reader:     bufio.NewReader(d.In),
		out:        d.Out,
		root:       context.Background(),
	}
}

// Run starts the status watcher and blocks in the REPL until the user exits
// or ctx is cancelled.
func (a *App) Run(ctx context.Context, interval time.Duration) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	a.root = ctx

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		a.StartOnlineStatusWatcher(ctx, interval)
	}()

	a.printf("Welcome to Gigrithm (type 'help' for commands)\n")
	runREPL(ctx, a, a.getStatus, bufio.NewScanner(a.reader))

	cancel()
	wg.Wait()
	if a.jobPosts != nil {
		a.jobPosts.Wait()
	}
	if a.hackPosts != nil {
		a.hackPosts.Wait()
	}
}

func (a *App) snapshot() session.Snapshot {
	return a.session.Snapshot()
}

func (a *App) Mode() Mode {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.mode
}

func (a *App) setMode(mode Mode) {
	a.mu.Lock()
	changed := a.mode != mode
	a.mode = mode
	a.mu.Unlock()
	if changed {
		a.logger.Info(context.Background(), "connectivity changed", "mode", mode)
	}
}

func (a *App) getStatus() string {
	s := ""
	if snap := a.snapshot(); snap.Identity != nil {
		s = snap.Identity.Email + " "
		if !snap.Verified {
			s += "unverified "
		}
	}
	if m := a.Mode(); m != "" {
		s += string(m)
	}
	if s != "" {
		s = fmt.Sprintf("(%s)", s)
	}
	return s
}

// StartOnlineStatusWatcher probes the Gig API and, while the user is
// unverified, the verification state every interval until ctx is done.
func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		a.logger.Warn(ctx, "invalid online check interval, using default", "interval", interval, "default", DefaultCheckInterval)
		interval = DefaultCheckInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			a.probe(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (a *App) probe(ctx context.Context) {
	pctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	if a.hackathons.Online(pctx) {
		a.setMode(ModeOnline)
	} else {
		a.setMode(ModeOffline)
	}

	if snap := a.snapshot(); snap.State == session.StateUnverified {
		if a.session.CheckVerificationStatus(pctx) {
			a.printf("\nYour email address is now verified.\n")
		}
	}
}

func (a *App) printf(format string, args ...any) {
	a.outMu.Lock()
	defer a.outMu.Unlock()
	fmt.Fprintf(a.out, format, args...)
}
