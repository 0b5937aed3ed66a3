package cli

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/gigrithm/gigrithm/internal/client/appwrite"
	"github.com/gigrithm/gigrithm/internal/client/gigapi"
	"github.com/gigrithm/gigrithm/internal/client/listings"
	"github.com/gigrithm/gigrithm/internal/client/models"
	"github.com/gigrithm/gigrithm/internal/client/profile"
	"github.com/gigrithm/gigrithm/internal/validation"
)

var (
	errColor    = color.New(color.FgRed)
	noticeColor = color.New(color.FgYellow)
	okColor     = color.New(color.FgGreen)
)

// errorText turns a command error into a user-facing line.
func errorText(err error) string {
	var hint *hintError
	if errors.As(err, &hint) {
		return errorText(hint.err) + "\n" + hint.hint
	}

	var verr *validation.Error
	switch {
	case errors.As(err, &verr):
		keys := make([]string, 0, len(verr.Fields))
		for k := range verr.Fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		lines := make([]string, 0, len(keys))
		for _, k := range keys {
			lines = append(lines, fmt.Sprintf("  %s %s", k, verr.Fields[k]))
		}
		return errColor.Sprint("Please fix the following:\n" + strings.Join(lines, "\n"))
	case errors.Is(err, appwrite.ErrUnavailable), errors.Is(err, gigapi.ErrUnavailable):
		return errColor.Sprint("The service is unavailable right now. Try again later.")
	case errors.Is(err, appwrite.ErrUnauthorized):
		return errColor.Sprint("Not authorised: check your credentials or request a new link.")
	case errors.Is(err, appwrite.ErrConflict):
		return errColor.Sprint("That record already exists.")
	default:
		return errColor.Sprint("Error: " + err.Error())
	}
}

func renderJobs(w io.Writer, page listings.Page[models.Job], saved *listings.Saved) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if len(page.Items) > 0 {
		fmt.Fprintln(tw, " \tKEY\tTITLE\tCOMPANY\tLOCATION\tTYPE\tSOURCE")
	}
	for _, j := range page.Items {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			mark(saved, j.Key()), j.Key(), j.Title, j.Company, j.Location, j.Type, j.Source)
	}
	_ = tw.Flush()
	renderNotice(w, page.Notice)
}

func renderHackathons(w io.Writer, page listings.Page[models.Hackathon], saved *listings.Saved) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if len(page.Items) > 0 {
		fmt.Fprintln(tw, " \tKEY\tTITLE\tORGANIZER\tMODE\tDATES\tLOCATION")
	}
	for _, h := range page.Items {
		dates := h.StartDate
		if h.EndDate != "" && h.EndDate != h.StartDate {
			dates += " - " + h.EndDate
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			mark(saved, h.Key()), h.Key(), h.Title, h.Organizer, h.Mode, dates, h.Location)
	}
	_ = tw.Flush()
	renderNotice(w, page.Notice)
}

func renderNotice(w io.Writer, notice string) {
	if notice != "" {
		fmt.Fprintln(w, noticeColor.Sprint(notice))
	}
}

func renderProfile(w io.Writer, p *profile.Profile) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	row := func(k, v string) {
		if v != "" {
			fmt.Fprintf(tw, "%s\t%s\n", k, v)
		}
	}
	row("Name", p.Name)
	row("Location", p.Location)
	row("Experience", p.ExperienceLevel)
	row("Education", p.Education)
	row("Phone", p.Phone)
	row("Skills", strings.Join(p.Skills, ", "))
	_ = tw.Flush()
	if p.Summary != "" {
		fmt.Fprintf(w, "\n%s\n", p.Summary)
	}
	for _, pr := range p.Projects {
		fmt.Fprintf(w, "\n- %s", pr.Name)
		if pr.Duration != "" {
			fmt.Fprintf(w, " (%s)", pr.Duration)
		}
		fmt.Fprintln(w)
		if pr.Description != "" {
			fmt.Fprintf(w, "  %s\n", pr.Description)
		}
		if len(pr.Technologies) > 0 {
			fmt.Fprintf(w, "  %s\n", strings.Join(pr.Technologies, ", "))
		}
	}
}

func mark(saved *listings.Saved, key string) string {
	if saved.Has(key) {
		return "*"
	}
	return " "
}
