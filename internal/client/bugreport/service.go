// Package bugreport files user bug reports: screenshot upload, a stored
// report document and an email to the maintainers.
package bugreport

import (
	"context"
	"fmt"
	"strings"

	"github.com/gigrithm/gigrithm/internal/client/appwrite"
	"github.com/gigrithm/gigrithm/internal/client/imagehost"
	"github.com/gigrithm/gigrithm/internal/client/mailer"
	"github.com/gigrithm/gigrithm/internal/client/models"
	"github.com/gigrithm/gigrithm/internal/logging"
	"github.com/gigrithm/gigrithm/internal/validation"
	"github.com/google/uuid"
)

// Report is what the user fills in.
type Report struct {
	Title         string `json:"title" validate:"required,max=120"`
	Description   string `json:"description" validate:"required"`
	Severity      string `json:"severity" validate:"required,oneof=low medium high critical"`
	Page          string `json:"page"`
	ReporterEmail string `json:"reporterEmail" validate:"omitempty,email"`
}

// Screenshot is an optional attached image.
type Screenshot struct {
	Name string
	Data []byte
}

type Creator interface {
	CreateDocument(ctx context.Context, collectionID, documentID string, data any, permissions []string) (*appwrite.Document, error)
}

type Service struct {
	images     imagehost.Uploader
	docs       Creator
	mail       mailer.Sender
	collection string
	recipient  string
	logger     logging.Logger
}

func NewService(images imagehost.Uploader, docs Creator, mail mailer.Sender, collection, recipient string, logger logging.Logger) *Service {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Service{
		images:     images,
		docs:       docs,
		mail:       mail,
		collection: collection,
		recipient:  recipient,
		logger:     logger.With("component", "bugreport"),
	}
}

// Submit validates r, uploads shot (if any), stores the report and mails
// it. The document is written only after a successful upload.
func (s *Service) Submit(ctx context.Context, r Report, shot *Screenshot) (*models.BugReport, error) {
	r.Title = strings.TrimSpace(r.Title)
	r.Description = strings.TrimSpace(r.Description)
	r.Severity = strings.ToLower(strings.TrimSpace(r.Severity))
	r.ReporterEmail = strings.TrimSpace(r.ReporterEmail)
	if err := validation.Struct(r); err != nil {
		return nil, err
	}

	report := &models.BugReport{
		ID:            uuid.NewString(),
		Title:         r.Title,
		Description:   r.Description,
		Severity:      r.Severity,
		Page:          r.Page,
		ReporterEmail: r.ReporterEmail,
	}

	if shot != nil && len(shot.Data) > 0 {
		if s.images == nil {
			return nil, fmt.Errorf("%w: no image host configured", imagehost.ErrUpload)
		}
		img, err := s.images.Upload(ctx, shot.Name, shot.Data)
		if err != nil {
			return nil, fmt.Errorf("upload screenshot: %w", err)
		}
		report.ScreenshotURL = img.URL
		report.ThumbURL = img.ThumbURL
	}

	if _, err := s.docs.CreateDocument(ctx, s.collection, appwrite.UniqueID, report.Document(), nil); err != nil {
		return nil, fmt.Errorf("store bug report: %w", err)
	}
	s.logger.Info(ctx, "bug report stored", "id", report.ID, "severity", report.Severity)

	if s.mail == nil || s.recipient == "" {
		return report, nil
	}
	msg, err := message(s.recipient, report)
	if err != nil {
		s.logger.Error(ctx, "bug report email not rendered", "id", report.ID, "error", err)
		return report, fmt.Errorf("email bug report %s: %w", report.ID, err)
	}
	if err := s.mail.Send(ctx, msg); err != nil {
		s.logger.Error(ctx, "bug report email failed", "id", report.ID, "error", err)
		return report, fmt.Errorf("email bug report %s: %w", report.ID, err)
	}
	return report, nil
}

func message(to string, r *models.BugReport) (mailer.Message, error) {
	subject, err := render("bug_report.subject.tmpl", false, r)
	if err != nil {
		return mailer.Message{}, err
	}
	text, err := render("bug_report.text.tmpl", false, r)
	if err != nil {
		return mailer.Message{}, err
	}
	body, err := render("bug_report.html.tmpl", true, r)
	if err != nil {
		return mailer.Message{}, err
	}
	shot, err := render("screenshot.html.tmpl", true, r)
	if err != nil {
		return mailer.Message{}, err
	}

	return mailer.Message{
		To:      []string{to},
		Subject: subject,
		Text:    text,
		HTML:    body,
		Params: map[string]any{
			"report_id":       r.ID,
			"title":           r.Title,
			"severity":        r.Severity,
			"page":            r.Page,
			"reporter_email":  r.ReporterEmail,
			"screenshot_url":  r.ScreenshotURL,
			"screenshot_html": shot,
		},
	}, nil
}
