package cli

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/gigrithm/gigrithm/internal/client/bugreport"
)

// Bug files a bug report with an optional screenshot.
func (a *App) Bug(ctx context.Context, _ []string) error {
	var r bugreport.Report
	var shotPath string
	err := a.fill([]field{
		{prompt: "Short title", dst: &r.Title},
		{prompt: "Severity (low, medium, high, critical)", dst: &r.Severity},
		{prompt: "Where did it happen? (optional)", dst: &r.Page},
		{prompt: "What happened?", dst: &r.Description, multi: true},
		{prompt: "Screenshot path (optional)", dst: &shotPath},
	})
	if err != nil {
		return err
	}
	if id := a.snapshot().Identity; id != nil {
		r.ReporterEmail = id.Email
	} else if r.ReporterEmail, err = getSimpleText(a.reader, "Your email, if we may follow up (optional)", a.out); err != nil {
		return err
	}

	var shot *bugreport.Screenshot
	if shotPath != "" {
		data, err := readFile(shotPath)
		if err != nil {
			return fmt.Errorf("read screenshot: %w", err)
		}
		shot = &bugreport.Screenshot{Name: filepath.Base(shotPath), Data: data}
	}

	report, err := a.bugs.Submit(ctx, r, shot)
	if report != nil {
		a.printf("Report %s recorded.\n", report.ID)
	}
	if err != nil {
		return err
	}
	a.printf("%s\n", okColor.Sprint("Thanks! The team has been notified."))
	return nil
}
