// Package profile holds the resume-derived profile model and its storage
// contract.
//
// Schema version 2 stores skills as an array of strings and projects as a
// JSON-encoded array of records. Older documents wrote skills as JSON or
// comma-separated strings and projects as pipe-joined JSON objects; Decode
// reads all of them and always yields slices, never nil.
package profile

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// SchemaVersion is written into every stored document.
const SchemaVersion = 2

var (
	ErrInvalid      = errors.New("invalid profile")
	ErrUnknownField = errors.New("unknown profile field")
)

type Project struct {
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	Technologies []string `json:"technologies"`
	Duration     string   `json:"duration"`
}

type Profile struct {
	Name            string    `json:"name"`
	Location        string    `json:"location"`
	ExperienceLevel string    `json:"experienceLevel"`
	Education       string    `json:"education"`
	Summary         string    `json:"summary"`
	Phone           string    `json:"phone"`
	Skills          []string  `json:"skills"`
	Projects        []Project `json:"projects"`
	ResumeVersion   int       `json:"resumeVersion"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// Empty reports whether p carries no resume data.
func (p Profile) Empty() bool {
	return p.Name == "" && p.Location == "" && p.ExperienceLevel == "" && p.Education == "" &&
		p.Summary == "" && p.Phone == "" && len(p.Skills) == 0 && len(p.Projects) == 0
}

// Clone returns a deep copy.
func (p Profile) Clone() Profile {
	out := p
	out.Skills = append([]string{}, p.Skills...)
	out.Projects = make([]Project, len(p.Projects))
	for i, pr := range p.Projects {
		pr.Technologies = append([]string{}, pr.Technologies...)
		out.Projects[i] = pr
	}
	return out
}

var patchable = map[string]struct{}{
	"name": {}, "location": {}, "experienceLevel": {}, "education": {},
	"summary": {}, "phone": {}, "skills": {}, "projects": {},
}

// Apply shallow-merges fields into p. Values go through the same
// normalisation as Decode, so "skills": "go, sql" is accepted.
func Apply(p Profile, fields map[string]any) (Profile, error) {
	raw := Canonical(p)
	for k, v := range fields {
		if _, ok := patchable[k]; !ok {
			return p, fmt.Errorf("%w: %s", ErrUnknownField, k)
		}
		raw[k] = v
	}
	out := Decode(raw)
	out.ResumeVersion = p.ResumeVersion
	out.UpdatedAt = p.UpdatedAt
	return out, nil
}

// Canonical renders p with projects as an array of records. This is the
// form validated against the schema and cached locally.
func Canonical(p Profile) map[string]any {
	p = withSlices(p)
	projects := make([]any, len(p.Projects))
	for i, pr := range p.Projects {
		projects[i] = map[string]any{
			"name":         pr.Name,
			"description":  pr.Description,
			"technologies": toAny(pr.Technologies),
			"duration":     pr.Duration,
		}
	}
	m := map[string]any{
		"schemaVersion":   SchemaVersion,
		"resumeVersion":   p.ResumeVersion,
		"name":            p.Name,
		"location":        p.Location,
		"experienceLevel": p.ExperienceLevel,
		"education":       p.Education,
		"summary":         p.Summary,
		"phone":           p.Phone,
		"skills":          toAny(p.Skills),
		"projects":        projects,
	}
	if !p.UpdatedAt.IsZero() {
		m["updatedAt"] = p.UpdatedAt.UTC().Format(time.RFC3339)
	}
	return m
}

// Document renders p for the document store: Canonical with projects
// JSON-encoded into a single string attribute.
func Document(p Profile) (map[string]any, error) {
	m := Canonical(p)
	b, err := json.Marshal(m["projects"])
	if err != nil {
		return nil, err
	}
	m["projects"] = string(b)
	return m, nil
}

// withSlices fills nil slices of p so encoders never emit null.
func withSlices(p Profile) Profile {
	if p.Skills == nil {
		p.Skills = []string{}
	}
	if p.Projects == nil {
		p.Projects = []Project{}
	}
	projects := make([]Project, len(p.Projects))
	for i, pr := range p.Projects {
		if pr.Technologies == nil {
			pr.Technologies = []string{}
		}
		projects[i] = pr
	}
	p.Projects = projects
	return p
}

// DecodeJSON decodes a stored or cached profile.
func DecodeJSON(b []byte) (Profile, error) {
	var raw map[string]any
	if err := json.Unmarshal(b, &raw); err != nil {
		return Profile{}, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return Decode(raw), nil
}

// Decode normalises a loosely typed document into a Profile. It never fails:
// fields it cannot interpret come out empty.
func Decode(raw map[string]any) Profile {
	p := Profile{
		Name:            str(raw["name"]),
		Location:        str(raw["location"]),
		ExperienceLevel: firstNonEmpty(str(raw["experienceLevel"]), str(raw["experience_level"])),
		Education:       str(raw["education"]),
		Summary:         str(raw["summary"]),
		Phone:           str(raw["phone"]),
		Skills:          Skills(raw["skills"]),
		Projects:        Projects(raw["projects"]),
		ResumeVersion:   integer(raw["resumeVersion"]),
	}
	if s := str(raw["updatedAt"]); s != "" {
		if t, err := time.Parse(time.RFC3339, s); err == nil {
			p.UpdatedAt = t
		}
	}
	return p
}

// Skills normalises a skills value: an array, a JSON-encoded array, or a
// comma-separated string. Blank entries are dropped.
func Skills(v any) []string {
	out := []string{}
	switch val := v.(type) {
	case []string:
		for _, s := range val {
			out = appendTrimmed(out, s)
		}
	case []any:
		for _, s := range val {
			out = appendTrimmed(out, str(s))
		}
	case string:
		s := strings.TrimSpace(val)
		if strings.HasPrefix(s, "[") {
			var list []any
			if err := json.Unmarshal([]byte(s), &list); err == nil {
				return Skills(list)
			}
			return out
		}
		for _, part := range strings.Split(s, ",") {
			out = appendTrimmed(out, part)
		}
	}
	return out
}

// Projects normalises a projects value: an array of records, a JSON-encoded
// array, or the legacy pipe-joined JSON objects. Malformed legacy strings
// yield an empty list.
func Projects(v any) []Project {
	out := []Project{}
	switch val := v.(type) {
	case []Project:
		for _, p := range val {
			p.Technologies = Skills(p.Technologies)
			out = append(out, p)
		}
	case []any:
		for _, item := range val {
			m, ok := item.(map[string]any)
			if !ok {
				continue
			}
			if p, ok := project(m); ok {
				out = append(out, p)
			}
		}
	case string:
		s := strings.TrimSpace(val)
		switch {
		case s == "":
		case strings.HasPrefix(s, "["):
			var list []any
			if err := json.Unmarshal([]byte(s), &list); err == nil {
				return Projects(list)
			}
		default:
			return legacyProjects(s)
		}
	}
	return out
}

func legacyProjects(s string) []Project {
	out := []Project{}
	for _, part := range splitObjects(s) {
		var m map[string]any
		if err := json.Unmarshal([]byte(part), &m); err != nil {
			return []Project{}
		}
		if p, ok := project(m); ok {
			out = append(out, p)
		}
	}
	return out
}

// splitObjects splits "{...}|{...}" on pipes that sit between top-level
// objects, so pipes inside string values survive.
func splitObjects(s string) []string {
	var (
		parts    []string
		depth    int
		inString bool
		escaped  bool
		start    int
	)
	for i, r := range s {
		switch {
		case escaped:
			escaped = false
		case inString && r == '\\':
			escaped = true
		case r == '"':
			inString = !inString
		case inString:
		case r == '{':
			depth++
		case r == '}':
			depth--
		case r == '|' && depth == 0:
			parts = append(parts, strings.TrimSpace(s[start:i]))
			start = i + 1
		}
	}
	return append(parts, strings.TrimSpace(s[start:]))
}

func project(m map[string]any) (Project, bool) {
	p := Project{
		Name:         str(m["name"]),
		Description:  str(m["description"]),
		Technologies: Skills(m["technologies"]),
		Duration:     str(m["duration"]),
	}
	return p, p.Name != ""
}

func str(v any) string {
	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case int:
		return strconv.Itoa(val)
	case bool:
		return strconv.FormatBool(val)
	}
	return ""
}

func integer(v any) int {
	switch val := v.(type) {
	case float64:
		return int(val)
	case int:
		return val
	case string:
		n, _ := strconv.Atoi(strings.TrimSpace(val))
		return n
	}
	return 0
}

func appendTrimmed(out []string, s string) []string {
	if s = strings.TrimSpace(s); s != "" {
		out = append(out, s)
	}
	return out
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

func toAny(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}
