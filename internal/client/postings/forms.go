package postings

import (
	"strings"
	"time"

	"github.com/gigrithm/gigrithm/internal/client/models"
	"github.com/gigrithm/gigrithm/internal/validation"
)

// ErrValidation is matched by every local validation failure.
var ErrValidation = validation.ErrInvalid

const dateLayout = "2006-01-02"

// Draft is a form that can be validated and rendered as a document.
type Draft interface {
	Validate() error
	document(id, createdBy string) map[string]any
	idPrefix() string
}

// JobForm is a community job posting draft.
type JobForm struct {
	Title       string   `json:"title" validate:"required"`
	Company     string   `json:"company" validate:"required"`
	Location    string   `json:"location" validate:"required"`
	Type        string   `json:"type" validate:"required,oneof=full-time part-time internship contract"`
	Description string   `json:"description" validate:"required"`
	Salary      string   `json:"salary"`
	ApplyLink   string   `json:"applyLink" validate:"required,httpurl"`
	Tags        []string `json:"tags" validate:"min=1,dive,required"`
	Deadline    string   `json:"deadline" validate:"omitempty,datetime=2006-01-02"`
}

func (f JobForm) Validate() error {
	return validation.Struct(f.trimmed())
}

func (f JobForm) trimmed() JobForm {
	f.Title = strings.TrimSpace(f.Title)
	f.Company = strings.TrimSpace(f.Company)
	f.Location = strings.TrimSpace(f.Location)
	f.Type = strings.ToLower(strings.TrimSpace(f.Type))
	f.Description = strings.TrimSpace(f.Description)
	f.Salary = strings.TrimSpace(f.Salary)
	f.ApplyLink = strings.TrimSpace(f.ApplyLink)
	f.Deadline = strings.TrimSpace(f.Deadline)
	f.Tags = models.Strings(f.Tags)
	return f
}

func (f JobForm) idPrefix() string { return "JOB" }

func (f JobForm) document(id, createdBy string) map[string]any {
	f = f.trimmed()
	return models.Job{
		ID:          id,
		Title:       f.Title,
		Company:     f.Company,
		Location:    f.Location,
		Type:        f.Type,
		Description: f.Description,
		Salary:      f.Salary,
		ApplyLink:   f.ApplyLink,
		Tags:        f.Tags,
		Deadline:    f.Deadline,
		Source:      "community",
		CreatedBy:   createdBy,
	}.Document()
}

// HackathonForm is a community hackathon posting draft.
type HackathonForm struct {
	Title                string   `json:"title" validate:"required"`
	Organizer            string   `json:"organizer" validate:"required"`
	Location             string   `json:"location" validate:"required"`
	Mode                 string   `json:"mode" validate:"required,oneof=online offline hybrid"`
	StartDate            string   `json:"startDate" validate:"required,datetime=2006-01-02"`
	EndDate              string   `json:"endDate" validate:"required,datetime=2006-01-02"`
	RegistrationDeadline string   `json:"registrationDeadline" validate:"omitempty,datetime=2006-01-02"`
	Link                 string   `json:"link" validate:"required,httpurl"`
	Prize                string   `json:"prize"`
	Tags                 []string `json:"tags" validate:"min=1,dive,required"`
}

// Validate also checks that the event does not end before it starts.
func (f HackathonForm) Validate() error {
	t := f.trimmed()
	err := validation.Struct(t)
	details := validation.ToDetails(err)
	if details == nil {
		details = map[string]string{}
	}

	start, serr := time.Parse(dateLayout, t.StartDate)
	end, eerr := time.Parse(dateLayout, t.EndDate)
	if serr == nil && eerr == nil && end.Before(start) {
		details["endDate"] = "must not be before startDate"
	}
	if len(details) == 0 {
		return nil
	}
	return &validation.Error{Fields: details}
}

func (f HackathonForm) trimmed() HackathonForm {
	f.Title = strings.TrimSpace(f.Title)
	f.Organizer = strings.TrimSpace(f.Organizer)
	f.Location = strings.TrimSpace(f.Location)
	f.Mode = strings.ToLower(strings.TrimSpace(f.Mode))
	f.StartDate = strings.TrimSpace(f.StartDate)
	f.EndDate = strings.TrimSpace(f.EndDate)
	f.RegistrationDeadline = strings.TrimSpace(f.RegistrationDeadline)
	f.Link = strings.TrimSpace(f.Link)
	f.Prize = strings.TrimSpace(f.Prize)
	f.Tags = models.Strings(f.Tags)
	return f
}

func (f HackathonForm) idPrefix() string { return "HACK" }

func (f HackathonForm) document(id, createdBy string) map[string]any {
	f = f.trimmed()
	return models.Hackathon{
		ID:                   id,
		Title:                f.Title,
		Organizer:            f.Organizer,
		Location:             f.Location,
		Mode:                 f.Mode,
		StartDate:            f.StartDate,
		EndDate:              f.EndDate,
		RegistrationDeadline: f.RegistrationDeadline,
		Link:                 f.Link,
		Prize:                f.Prize,
		Tags:                 f.Tags,
		CreatedBy:            createdBy,
	}.Document()
}

// ParseTags splits comma-separated input into tags.
func ParseTags(s string) []string {
	return models.Strings(s)
}
