package models

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Kind classifies a listing.
type Kind string

const (
	KindJob       Kind = "job"
	KindHackathon Kind = "hackathon"
)

// Listing is what filtering and rendering code needs from a record.
type Listing interface {
	Kind() Kind
	// Key identifies the listing for saving and de-duplication.
	Key() string
	// Haystack returns the texts free-text search matches against.
	Haystack() []string
	// Category is the value category filters compare with (job type or
	// hackathon mode).
	Category() string
	// Where is the listing's location.
	Where() string
}

// Job is a job or internship opening.
type Job struct {
	// ID is the public id ("JOB-...") for community postings or the upstream
	// id for aggregated ones.
	ID string `json:"id"`
	// DocumentID is the store's primary key; empty for aggregated jobs.
	DocumentID string `json:"-"`

	Title       string   `json:"title"`
	Company     string   `json:"company"`
	Location    string   `json:"location"`
	Type        string   `json:"type"`
	Description string   `json:"description"`
	Salary      string   `json:"salary"`
	ApplyLink   string   `json:"applyLink"`
	Tags        []string `json:"tags"`
	Deadline    string   `json:"deadline"`

	// Source names the upstream board, or "community" for postings.
	Source string `json:"source"`
	// CreatedBy is the poster's email; there is no reference to the identity.
	CreatedBy string `json:"createdBy"`
}

func (j Job) Kind() Kind       { return KindJob }
func (j Job) Key() string      { return key(j.ID, j.DocumentID, j.Title, j.Company) }
func (j Job) Category() string { return j.Type }
func (j Job) Where() string    { return j.Location }

func (j Job) Haystack() []string {
	return append([]string{j.Title, j.Company, j.Location}, j.Tags...)
}

func (j *Job) UnmarshalJSON(b []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	*j = DecodeJob(raw)
	return nil
}

// DecodeJob reads a job from either wire shape. Missing fields come out
// empty; Tags is never nil.
func DecodeJob(raw map[string]any) Job {
	return Job{
		ID:          pick(raw, "jobId", "job_id", "id"),
		DocumentID:  pick(raw, "$id"),
		Title:       pick(raw, "title", "job_title", "role"),
		Company:     pick(raw, "company", "company_name", "employer_name"),
		Location:    pick(raw, "location", "job_location"),
		Type:        pick(raw, "type", "job_type", "employment_type"),
		Description: pick(raw, "description", "job_description"),
		Salary:      pick(raw, "salary", "salary_range"),
		ApplyLink:   pick(raw, "applyLink", "apply_link", "job_apply_link", "url", "link"),
		Tags:        Strings(first(raw, "tags", "skills")),
		Deadline:    pick(raw, "deadline"),
		Source:      pick(raw, "source", "job_publisher"),
		CreatedBy:   pick(raw, "createdBy", "created_by"),
	}
}

// Document renders j for the store.
func (j Job) Document() map[string]any {
	return map[string]any{
		"jobId":       j.ID,
		"title":       j.Title,
		"company":     j.Company,
		"location":    j.Location,
		"type":        j.Type,
		"description": j.Description,
		"salary":      j.Salary,
		"applyLink":   j.ApplyLink,
		"tags":        nonNil(j.Tags),
		"deadline":    j.Deadline,
		"source":      j.Source,
		"createdBy":   j.CreatedBy,
	}
}

// Hackathon is a hackathon or coding event.
type Hackathon struct {
	ID         string `json:"id"`
	DocumentID string `json:"-"`

	Title                string   `json:"title"`
	Organizer            string   `json:"organizer"`
	Location             string   `json:"location"`
	Mode                 string   `json:"mode"`
	StartDate            string   `json:"startDate"`
	EndDate              string   `json:"endDate"`
	RegistrationDeadline string   `json:"registrationDeadline"`
	Link                 string   `json:"link"`
	Prize                string   `json:"prize"`
	Tags                 []string `json:"tags"`
	CreatedBy            string   `json:"createdBy"`
}

func (h Hackathon) Kind() Kind       { return KindHackathon }
func (h Hackathon) Key() string      { return key(h.ID, h.DocumentID, h.Title, h.Organizer) }
func (h Hackathon) Category() string { return h.Mode }
func (h Hackathon) Where() string    { return h.Location }

func (h Hackathon) Haystack() []string {
	return append([]string{h.Title, h.Organizer, h.Location}, h.Tags...)
}

func (h *Hackathon) UnmarshalJSON(b []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	*h = DecodeHackathon(raw)
	return nil
}

func DecodeHackathon(raw map[string]any) Hackathon {
	return Hackathon{
		ID:                   pick(raw, "hackathonId", "hackathon_id", "id"),
		DocumentID:           pick(raw, "$id"),
		Title:                pick(raw, "title", "name"),
		Organizer:            pick(raw, "organizer", "organiser", "host"),
		Location:             pick(raw, "location", "venue"),
		Mode:                 pick(raw, "mode"),
		StartDate:            pick(raw, "startDate", "start_date"),
		EndDate:              pick(raw, "endDate", "end_date"),
		RegistrationDeadline: pick(raw, "registrationDeadline", "registration_deadline"),
		Link:                 pick(raw, "link", "url", "website"),
		Prize:                pick(raw, "prize", "prizes", "prize_pool"),
		Tags:                 Strings(first(raw, "tags", "themes")),
		CreatedBy:            pick(raw, "createdBy", "created_by"),
	}
}

func (h Hackathon) Document() map[string]any {
	return map[string]any{
		"hackathonId":          h.ID,
		"title":                h.Title,
		"organizer":            h.Organizer,
		"location":             h.Location,
		"mode":                 h.Mode,
		"startDate":            h.StartDate,
		"endDate":              h.EndDate,
		"registrationDeadline": h.RegistrationDeadline,
		"link":                 h.Link,
		"prize":                h.Prize,
		"tags":                 nonNil(h.Tags),
		"createdBy":            h.CreatedBy,
	}
}

// BugReport is a user-submitted problem report.
type BugReport struct {
	ID            string `json:"reportId"`
	Title         string `json:"title"`
	Description   string `json:"description"`
	Severity      string `json:"severity"`
	Page          string `json:"page"`
	ScreenshotURL string `json:"screenshotUrl"`
	ThumbURL      string `json:"thumbUrl"`
	ReporterEmail string `json:"reporterEmail"`
}

func (r BugReport) Document() map[string]any {
	return map[string]any{
		"reportId":      r.ID,
		"title":         r.Title,
		"description":   r.Description,
		"severity":      r.Severity,
		"page":          r.Page,
		"screenshotUrl": r.ScreenshotURL,
		"thumbUrl":      r.ThumbURL,
		"reporterEmail": r.ReporterEmail,
	}
}

// Strings normalises a list value: an array, a JSON-encoded array or a
// comma-separated string. Blank entries are dropped; the result is never nil.
func Strings(v any) []string {
	out := []string{}
	switch t := v.(type) {
	case []string:
		for _, s := range t {
			out = appendTrimmed(out, s)
		}
	case []any:
		for _, e := range t {
			if s, ok := e.(string); ok {
				out = appendTrimmed(out, s)
			}
		}
	case string:
		s := strings.TrimSpace(t)
		if strings.HasPrefix(s, "[") {
			var list []string
			if err := json.Unmarshal([]byte(s), &list); err == nil {
				return Strings(list)
			}
		}
		for _, part := range strings.Split(s, ",") {
			out = appendTrimmed(out, part)
		}
	}
	return out
}

// key prefers the public id, then the document id, then title@org.
func key(id, docID, title, org string) string {
	switch {
	case id != "":
		return id
	case docID != "":
		return docID
	default:
		return strings.ToLower(title + "@" + org)
	}
}

func appendTrimmed(out []string, s string) []string {
	if s = strings.TrimSpace(s); s != "" {
		out = append(out, s)
	}
	return out
}

func nonNil(ss []string) []string {
	if ss == nil {
		return []string{}
	}
	return ss
}

func first(raw map[string]any, keys ...string) any {
	for _, k := range keys {
		if v, ok := raw[k]; ok && v != nil {
			return v
		}
	}
	return nil
}

// pick returns the first key holding a non-empty scalar, rendered as text.
func pick(raw map[string]any, keys ...string) string {
	for _, k := range keys {
		switch v := raw[k].(type) {
		case string:
			if v != "" {
				return v
			}
		case float64:
			return strconv.FormatFloat(v, 'f', -1, 64)
		case bool:
			if v {
				return "true"
			}
		}
	}
	return ""
}
