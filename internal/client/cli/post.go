package cli

import (
	"context"
	"errors"

	"github.com/gigrithm/gigrithm/internal/client/postings"
)

type field struct {
	prompt string
	dst    *string
	multi  bool
}

func (a *App) fill(fields []field) error {
	for _, f := range fields {
		var (
			v   string
			err error
		)
		if f.multi {
			v, err = GetMultiline(a.reader, f.prompt, a.out)
		} else {
			v, err = getSimpleText(a.reader, f.prompt, a.out)
		}
		if err != nil {
			return err
		}
		*f.dst = v
	}
	return nil
}

func (a *App) author() postings.Author {
	snap := a.snapshot()
	return postings.Author{UserID: snap.Identity.ID, Email: snap.Identity.Email}
}

// PostJob publishes a job. "postjob retry" resubmits the draft kept after a
// failed attempt. Submissions use the shell context so the form's
// auto-close timer outlives the command.
func (a *App) PostJob(_ context.Context, args []string) error {
	if len(args) == 0 || args[0] != "retry" {
		var f postings.JobForm
		var tags string
		err := a.fill([]field{
			{prompt: "Job title", dst: &f.Title},
			{prompt: "Company", dst: &f.Company},
			{prompt: "Location", dst: &f.Location},
			{prompt: "Type (full-time, part-time, internship, contract)", dst: &f.Type},
			{prompt: "Description", dst: &f.Description, multi: true},
			{prompt: "Salary (optional)", dst: &f.Salary},
			{prompt: "Apply link (http:// or https://)", dst: &f.ApplyLink},
			{prompt: "Tags (comma separated)", dst: &tags},
			{prompt: "Deadline YYYY-MM-DD (optional)", dst: &f.Deadline},
		})
		if err != nil {
			return err
		}
		f.Tags = postings.ParseTags(tags)
		a.jobPosts.SetDraft(f)
	}

	res, err := a.jobPosts.Submit(a.root, a.author())
	if err != nil {
		return retryHint(err, "postjob")
	}
	a.printf("%s\n", okColor.Sprintf("Job posted as %s.", res.ID))
	return nil
}

// PostHackathon publishes a hackathon; "posthackathon retry" resubmits.
func (a *App) PostHackathon(_ context.Context, args []string) error {
	if len(args) == 0 || args[0] != "retry" {
		var f postings.HackathonForm
		var tags string
		err := a.fill([]field{
			{prompt: "Hackathon title", dst: &f.Title},
			{prompt: "Organizer", dst: &f.Organizer},
			{prompt: "Location", dst: &f.Location},
			{prompt: "Mode (online, offline, hybrid)", dst: &f.Mode},
			{prompt: "Start date YYYY-MM-DD", dst: &f.StartDate},
			{prompt: "End date YYYY-MM-DD", dst: &f.EndDate},
			{prompt: "Registration deadline YYYY-MM-DD (optional)", dst: &f.RegistrationDeadline},
			{prompt: "Link (http:// or https://)", dst: &f.Link},
			{prompt: "Prize (optional)", dst: &f.Prize},
			{prompt: "Tags (comma separated)", dst: &tags},
		})
		if err != nil {
			return err
		}
		f.Tags = postings.ParseTags(tags)
		a.hackPosts.SetDraft(f)
	}

	res, err := a.hackPosts.Submit(a.root, a.author())
	if err != nil {
		return retryHint(err, "posthackathon")
	}
	a.printf("%s\n", okColor.Sprintf("Hackathon posted as %s.", res.ID))
	return nil
}

type hintError struct {
	err  error
	hint string
}

func (e *hintError) Error() string { return e.err.Error() + "\n" + e.hint }
func (e *hintError) Unwrap() error { return e.err }

func retryHint(err error, cmd string) error {
	if errors.Is(err, postings.ErrNotSignedIn) {
		return err
	}
	return &hintError{err: err, hint: "Your draft was kept. Run '" + cmd + " retry' to submit it again."}
}
