package cli

import (
	"context"
	"strings"

	"github.com/gigrithm/gigrithm/internal/client/listings"
	"github.com/gigrithm/gigrithm/internal/client/models"
)

// parseQuery splits args into free text and name=value options.
func parseQuery(args []string) (string, map[string]string) {
	opts := make(map[string]string)
	var words []string
	for _, a := range args {
		if k, v, ok := strings.Cut(a, "="); ok && k != "" {
			opts[strings.ToLower(k)] = v
			continue
		}
		words = append(words, a)
	}
	return strings.Join(words, " "), opts
}

// Jobs searches jobs: jobs [text] [location=..] [type=..].
func (a *App) Jobs(ctx context.Context, args []string) error {
	text, opts := parseQuery(args)
	page := a.jobs.Load(ctx, listings.JobQuery{Q: text, Location: opts["location"], Type: opts["type"]})
	renderJobs(a.out, page, a.saved)
	return nil
}

// Hackathons lists hackathons: hackathons [text] [location=..] [mode=..].
func (a *App) Hackathons(ctx context.Context, args []string) error {
	text, opts := parseQuery(args)
	page := a.hackathons.Load(ctx, listings.HackathonQuery{Q: text, Location: opts["location"], Mode: opts["mode"]})
	renderHackathons(a.out, page, a.saved)
	return nil
}

// Save toggles a bookmark (save <key>) or lists bookmarks (save).
func (a *App) Save(_ context.Context, args []string) error {
	if len(args) == 0 {
		keys := a.saved.List()
		if len(keys) == 0 {
			a.printf("Nothing saved yet. Use 'save <key>' with a key from a listing.\n")
			return nil
		}
		for _, k := range keys {
			a.printf("* %s\n", k)
		}
		return nil
	}
	if a.saved.Toggle(args[0]) {
		a.printf("Saved %s.\n", args[0])
	} else {
		a.printf("Removed %s from saved.\n", args[0])
	}
	return nil
}

// Dashboard shows recommendations, upcoming hackathons and the user's own
// postings.
func (a *App) Dashboard(ctx context.Context, _ []string) error {
	snap := a.snapshot()
	data := a.dashboard.Load(ctx, snap.Identity.Email, snap.Profile)

	a.printf("\n== Recommended for you ==\n")
	renderJobs(a.out, data.Recommended, a.saved)
	a.printf("\n== Upcoming hackathons ==\n")
	renderHackathons(a.out, data.Hackathons, a.saved)
	a.printf("\n== Your job postings ==\n")
	a.renderOwn(data.MyJobs.Notice, len(data.MyJobs.Items), func() { renderJobs(a.out, data.MyJobs, a.saved) })
	a.printf("\n== Your hackathon postings ==\n")
	a.renderOwn(data.MyHackathons.Notice, len(data.MyHackathons.Items), func() { renderHackathons(a.out, data.MyHackathons, a.saved) })
	return nil
}

func (a *App) renderOwn(notice string, n int, render func()) {
	if n == 0 && notice == "" {
		a.printf("You have not posted anything yet.\n")
		return
	}
	render()
}

// Delete removes one of the user's postings: delete job|hackathon <documentId>.
func (a *App) Delete(ctx context.Context, args []string) error {
	if len(args) < 2 {
		a.printf("Usage: delete job|hackathon <documentId>\n")
		return nil
	}
	if err := a.dashboard.DeletePosting(ctx, models.Kind(args[0]), args[1]); err != nil {
		return err
	}
	a.printf("Deleted %s %s.\n", args[0], args[1])
	return nil
}

// Profile prints the stored profile.
func (a *App) Profile(_ context.Context, _ []string) error {
	snap := a.snapshot()
	a.printf("%s <%s>\n", snap.Identity.Name, snap.Identity.Email)
	if snap.Profile == nil || snap.Profile.Empty() {
		a.printf("No profile yet. Run 'editprofile' or register with a resume.\n")
		return nil
	}
	renderProfile(a.out, snap.Profile)
	return nil
}

// EditProfile patches profile fields (editprofile) or removes the resume
// data (editprofile clear).
func (a *App) EditProfile(ctx context.Context, args []string) error {
	if len(args) == 1 && args[0] == "clear" {
		if err := a.session.ClearResumeData(ctx); err != nil {
			return err
		}
		a.printf("Resume data cleared.\n")
		return nil
	}

	fields, err := GetFields(a.reader,
		"Fields: name, location, experienceLevel, education, summary, phone, skills (comma separated)", a.out)
	if err != nil {
		return err
	}
	if len(fields) == 0 {
		a.printf("Nothing to change.\n")
		return nil
	}
	patch := make(map[string]any, len(fields))
	for k, v := range fields {
		patch[k] = v
	}
	if err := a.session.UpdateUserProfile(ctx, patch); err != nil {
		return err
	}
	a.printf("%s\n", okColor.Sprint("Profile updated."))
	return nil
}
