package cli

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gigrithm/gigrithm/internal/client/intake"
	"github.com/gigrithm/gigrithm/internal/client/session"
	"github.com/gigrithm/gigrithm/internal/validation"
)

var ErrPasswordMismatch = errors.New("passwords do not match")

type credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,pwd"`
}

// argOrPrompt returns args[i] when present, else asks for it.
func (a *App) argOrPrompt(args []string, i int, prompt string) (string, error) {
	if len(args) > i {
		return args[i], nil
	}
	return getSimpleText(a.reader, prompt, a.out)
}

// newPassword asks twice and checks the confirmation.
func (a *App) newPassword(prompt string) (string, error) {
	pw, err := getPassword(a.out, prompt)
	if err != nil {
		return "", err
	}
	again, err := getPassword(a.out, "Repeat password")
	if err != nil {
		return "", err
	}
	if pw != again {
		return "", ErrPasswordMismatch
	}
	return pw, nil
}

// Login signs in with email and password.
func (a *App) Login(ctx context.Context, args []string) error {
	email, err := a.argOrPrompt(args, 0, "Enter email")
	if err != nil {
		return err
	}
	password, err := getPassword(a.out, "Enter password")
	if err != nil {
		return err
	}

	id, err := a.session.Login(ctx, email, password)
	if err != nil {
		return err
	}
	a.printf("%s\n", okColor.Sprintf("Signed in as %s.", id.Email))
	if !id.EmailVerified {
		a.printf("Your email address is not verified yet. Run 'verify' once you have clicked the link.\n")
	}
	return nil
}

// Register creates an account from typed details and an optional resume.
func (a *App) Register(ctx context.Context, args []string) error {
	email, err := a.argOrPrompt(args, 0, "Enter email")
	if err != nil {
		return err
	}
	name, err := getSimpleText(a.reader, "Enter your name (optional)", a.out)
	if err != nil {
		return err
	}
	password, err := a.newPassword("Choose a password (at least 8 characters)")
	if err != nil {
		return err
	}
	if err := validation.Struct(credentials{Email: email, Password: password}); err != nil {
		return err
	}

	path, err := getSimpleText(a.reader, "Path to your resume PDF (optional)", a.out)
	if err != nil {
		return err
	}
	in := session.RegisterInput{Email: email, Password: password, Name: name}
	if path != "" {
		data, err := readFile(path)
		if err != nil {
			return fmt.Errorf("read resume: %w", err)
		}
		in.Resume = &session.File{Name: filepath.Base(path), Data: data}
	}

	res, err := a.session.Register(ctx, in)
	if err != nil {
		return err
	}
	a.printRegistered(res)
	return nil
}

func (a *App) printRegistered(res *session.RegisterResult) {
	if res.Fallback {
		a.printf("%s\n", noticeColor.Sprintf("%s is already registered. We sent a sign-in link to it instead.", res.Email))
		return
	}
	a.printf("%s\n", okColor.Sprintf("Account created. Check %s for a verification link.", res.Email))
}

// Upload runs the resume-first flow: the address is read from the PDF and
// only confirmed by the user.
func (a *App) Upload(ctx context.Context, args []string) error {
	a.intake.Reset()

	path, err := a.argOrPrompt(args, 0, "Path to your resume PDF")
	if err != nil {
		return err
	}
	data, err := readFile(path)
	if err != nil {
		return fmt.Errorf("read resume: %w", err)
	}
	if err := a.intake.Select(filepath.Base(path), data); err != nil {
		return err
	}
	st := a.intake.State()
	a.printf("Reading %s (%s)...\n", st.FileName, st.FileSize)

	if err := a.intake.Extract(ctx); err != nil {
		renderNotice(a.out, a.intake.State().Message)
		return err
	}

	for {
		st = a.intake.State()
		email, err := getSimpleText(a.reader, fmt.Sprintf("We found %s. Press Enter to use it or type another address", st.Email), a.out)
		if err != nil {
			return err
		}
		if email == "" {
			email = st.Email
		}
		password, err := a.newPassword("Choose a password (at least 8 characters)")
		if err != nil {
			return err
		}

		res, err := a.intake.Confirm(ctx, email, password)
		if err == nil {
			a.printRegistered(res)
			return nil
		}

		a.printf("%s\n", errorText(err))
		if a.intake.State().Step != intake.StepFailed && a.intake.State().Step != intake.StepConfirm {
			return nil
		}
		again, rerr := getSimpleText(a.reader, "Try again? (y/N)", a.out)
		if rerr != nil || !strings.EqualFold(again, "y") {
			a.intake.Reset()
			return nil
		}
	}
}

// Verify completes a verification link (verify <userId> <secret>), resends
// it (verify resend) or refreshes the verification state (verify).
func (a *App) Verify(ctx context.Context, args []string) error {
	if len(args) >= 2 {
		if err := a.session.CompleteVerification(ctx, args[0], args[1]); err != nil {
			return err
		}
		a.printf("%s\n", okColor.Sprint("Email address verified."))
		return nil
	}

	if a.snapshot().Identity == nil {
		a.printf("Sign in first, or run 'verify <userId> <secret>' with the values from the link.\n")
		return nil
	}

	if len(args) == 1 && args[0] == "resend" {
		if err := a.session.ResendVerification(ctx); err != nil {
			return err
		}
		a.printf("A new verification link is on its way.\n")
		return nil
	}

	if a.session.CheckVerificationStatus(ctx) {
		a.printf("%s\n", okColor.Sprint("Your email address is verified."))
		return nil
	}
	a.printf("Not verified yet. Click the link in your inbox or run 'verify resend'.\n")
	return nil
}

// Forgot mails a password recovery link.
func (a *App) Forgot(ctx context.Context, args []string) error {
	email, err := a.argOrPrompt(args, 0, "Enter your account email")
	if err != nil {
		return err
	}
	if err := a.session.RequestPasswordRecovery(ctx, email); err != nil {
		return err
	}
	a.printf("If %s has an account, a recovery link was sent to it.\n", email)
	return nil
}

// Reset completes a recovery link: reset <userId> <secret>.
func (a *App) Reset(ctx context.Context, args []string) error {
	if len(args) < 2 {
		a.printf("Usage: reset <userId> <secret> (both are in the recovery link)\n")
		return nil
	}
	password, err := a.newPassword("New password (at least 8 characters)")
	if err != nil {
		return err
	}
	if err := a.session.CompletePasswordRecovery(ctx, args[0], args[1], password); err != nil {
		return err
	}
	a.printf("%s\n", okColor.Sprint("Password updated. You can sign in now."))
	return nil
}

// Password changes the password of the signed-in user.
func (a *App) Password(ctx context.Context, _ []string) error {
	old, err := getPassword(a.out, "Current password")
	if err != nil {
		return err
	}
	pw, err := a.newPassword("New password (at least 8 characters)")
	if err != nil {
		return err
	}
	if err := a.session.ChangePassword(ctx, old, pw); err != nil {
		return err
	}
	a.printf("%s\n", okColor.Sprint("Password changed."))
	return nil
}

// Logout always succeeds locally.
func (a *App) Logout(ctx context.Context, _ []string) error {
	a.session.Logout(ctx)
	a.printf("Signed out.\n")
	return nil
}
