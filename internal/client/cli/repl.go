package cli

import (
	"bufio"
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/gigrithm/gigrithm/internal/client/session"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// access is what a command needs from the session.
type access int

const (
	public access = iota
	signedIn
	verified
)

// Redirect targets printed when a gated command is refused.
const (
	RedirectLogin  = "login"
	RedirectVerify = "verify-email"
)

// execIface defines the command surface the REPL dispatches to. The real
// App satisfies it; tests provide a recording stub.
type execIface interface {
	snapshot() session.Snapshot

	Login(ctx context.Context, args []string) error
	Register(ctx context.Context, args []string) error
	Upload(ctx context.Context, args []string) error
	Verify(ctx context.Context, args []string) error
	Forgot(ctx context.Context, args []string) error
	Reset(ctx context.Context, args []string) error
	Jobs(ctx context.Context, args []string) error
	Hackathons(ctx context.Context, args []string) error
	Save(ctx context.Context, args []string) error
	Bug(ctx context.Context, args []string) error

	Dashboard(ctx context.Context, args []string) error
	Profile(ctx context.Context, args []string) error
	EditProfile(ctx context.Context, args []string) error
	PostJob(ctx context.Context, args []string) error
	PostHackathon(ctx context.Context, args []string) error
	Delete(ctx context.Context, args []string) error
	Password(ctx context.Context, args []string) error
	Logout(ctx context.Context, args []string) error
}

type command struct {
	need access
	run  func(execIface, context.Context, []string) error
}

var commands = map[string]command{
	"login":      {public, execIface.Login},
	"register":   {public, execIface.Register},
	"upload":     {public, execIface.Upload},
	"verify":     {public, execIface.Verify},
	"forgot":     {public, execIface.Forgot},
	"reset":      {public, execIface.Reset},
	"jobs":       {public, execIface.Jobs},
	"hackathons": {public, execIface.Hackathons},
	"save":       {public, execIface.Save},
	"bug":        {public, execIface.Bug},

	"profile":       {signedIn, execIface.Profile},
	"editprofile":   {signedIn, execIface.EditProfile},
	"password":      {signedIn, execIface.Password},
	"logout":        {signedIn, execIface.Logout},
	"dashboard":     {verified, execIface.Dashboard},
	"postjob":       {verified, execIface.PostJob},
	"posthackathon": {verified, execIface.PostHackathon},
	"delete":        {verified, execIface.Delete},
}

// redirectFor returns where a user has to go before running a command that
// needs need, or "" when the session already qualifies.
func redirectFor(snap session.Snapshot, need access) string {
	switch {
	case need == public:
		return ""
	case snap.Identity == nil:
		return RedirectLogin
	case need == verified && !snap.Verified:
		return RedirectVerify
	default:
		return ""
	}
}

// available lists the commands the session may run, sorted.
func available(snap session.Snapshot) []string {
	names := []string{"help", "exit"}
	for name, c := range commands {
		if redirectFor(snap, c.need) == "" {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// runREPL reads commands from scanner and dispatches them to a until EOF,
// "exit"/"quit" or ctx cancellation. Each command runs with its own context
// that is cancelled when the command returns. Handler errors are printed and
// never end the loop.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		if ctx.Err() != nil {
			return
		}
		printlnFn(fmt.Sprintf("gigrithm %s> ", statusFn()))
		if !scanner.Scan() {
			return
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}
		name, args := parts[0], parts[1:]

		switch name {
		case "help":
			printlnFn("Available commands: " + strings.Join(available(a.snapshot()), ", "))
			continue
		case "exit", "quit":
			printlnFn("Bye!")
			return
		}

		c, ok := commands[name]
		if !ok {
			printlnFn("Unknown command:", name)
			continue
		}
		switch redirectFor(a.snapshot(), c.need) {
		case RedirectLogin:
			printlnFn(fmt.Sprintf("'%s' needs a signed-in account. Run 'login' or 'register' first.", name))
			continue
		case RedirectVerify:
			printlnFn(fmt.Sprintf("'%s' needs a verified email address. Run 'verify' to check or resend the link.", name))
			continue
		}

		cctx, cancel := context.WithCancel(ctx)
		err := c.run(a, cctx, args)
		cancel()
		if err != nil {
			printlnFn(errorText(err))
		}
	}
}
