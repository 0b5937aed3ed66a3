package gigapi

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/gigrithm/gigrithm/internal/client/models"
	"github.com/gigrithm/gigrithm/internal/client/profile"
)

type JobQuery struct {
	Q        string
	Location string
	Type     string
}

type HackathonQuery struct {
	Q        string
	Location string
	Mode     string
}

// PersonalizedQuery is the body of /api/get-personalized-jobs.
type PersonalizedQuery struct {
	Skills          []string `json:"skills"`
	Location        string   `json:"location"`
	JobType         string   `json:"job_type"`
	ExperienceLevel string   `json:"experience_level"`
}

// QueryFromProfile builds a recommendation query from a profile.
func QueryFromProfile(p profile.Profile, jobType string) PersonalizedQuery {
	skills := p.Skills
	if skills == nil {
		skills = []string{}
	}
	return PersonalizedQuery{
		Skills:          skills,
		Location:        p.Location,
		JobType:         jobType,
		ExperienceLevel: p.ExperienceLevel,
	}
}

type envelope struct {
	Success    *bool              `json:"success"`
	Error      string             `json:"error"`
	Message    string             `json:"message"`
	Jobs       []models.Job       `json:"jobs"`
	Hackathons []models.Hackathon `json:"hackathons"`
	Data       []models.Hackathon `json:"data"`
}

// check turns {success:false} into an error.
func (e envelope) check() error {
	if e.Success != nil && !*e.Success {
		msg := e.Error
		if msg == "" {
			msg = e.Message
		}
		return &APIError{Status: http.StatusOK, Message: msg}
	}
	return nil
}

// ExtractEmail sends a resume to /api/extract-email and returns the address
// found in it. A response without an address is ErrNoEmail.
func (c *Client) ExtractEmail(ctx context.Context, filename string, data []byte) (string, error) {
	var out struct {
		Email string `json:"email"`
		Error string `json:"error"`
	}
	if err := c.postFile(ctx, "/api/extract-email", filename, data, &out); err != nil {
		return "", err
	}
	if out.Error != "" {
		return "", &APIError{Status: http.StatusOK, Message: out.Error}
	}
	email := strings.TrimSpace(out.Email)
	if email == "" {
		return "", ErrNoEmail
	}
	return email, nil
}

// ParseResume sends a resume to /api/parse-resume and decodes the profile
// it returns.
func (c *Client) ParseResume(ctx context.Context, filename string, data []byte) (profile.Profile, error) {
	var out struct {
		Success *bool          `json:"success"`
		Error   string         `json:"error"`
		Data    map[string]any `json:"data"`
	}
	if err := c.postFile(ctx, "/api/parse-resume", filename, data, &out); err != nil {
		return profile.Profile{}, err
	}
	if (out.Success != nil && !*out.Success) || out.Data == nil {
		return profile.Profile{}, &APIError{Status: http.StatusOK, Message: out.Error}
	}
	return profile.Decode(out.Data), nil
}

func (c *Client) SearchJobs(ctx context.Context, q JobQuery) ([]models.Job, error) {
	v := url.Values{}
	set(v, "q", q.Q)
	set(v, "location", q.Location)
	set(v, "type", q.Type)

	var out envelope
	if err := c.get(ctx, "/api/search-jobs", v, &out); err != nil {
		return nil, err
	}
	if err := out.check(); err != nil {
		return nil, err
	}
	return jobs(out.Jobs), nil
}

func (c *Client) PersonalizedJobs(ctx context.Context, q PersonalizedQuery) ([]models.Job, error) {
	var out envelope
	if err := c.postJSON(ctx, "/api/get-personalized-jobs", q, &out); err != nil {
		return nil, err
	}
	if err := out.check(); err != nil {
		return nil, err
	}
	return jobs(out.Jobs), nil
}

// Hackathons lists events; the array may come as "hackathons" or "data".
func (c *Client) Hackathons(ctx context.Context, q HackathonQuery) ([]models.Hackathon, error) {
	v := url.Values{}
	set(v, "q", q.Q)
	set(v, "location", q.Location)
	set(v, "mode", q.Mode)

	var out envelope
	if err := c.get(ctx, "/api/hackathons", v, &out); err != nil {
		return nil, err
	}
	if err := out.check(); err != nil {
		return nil, err
	}
	list := out.Hackathons
	if list == nil {
		list = out.Data
	}
	if list == nil {
		list = []models.Hackathon{}
	}
	return list, nil
}

// Health probes /api/health.
func (c *Client) Health(ctx context.Context) error {
	return c.get(ctx, "/api/health", nil, nil)
}

func set(v url.Values, key, value string) {
	if value != "" {
		v.Set(key, value)
	}
}

func jobs(list []models.Job) []models.Job {
	if list == nil {
		return []models.Job{}
	}
	return list
}
