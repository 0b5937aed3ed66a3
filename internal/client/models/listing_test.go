package models

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeJob_APIShape(t *testing.T) {
	var j Job
	err := json.Unmarshal([]byte(`{
		"job_id": "abc",
		"job_title": "Go Intern",
		"employer_name": "Acme",
		"job_location": "Remote",
		"job_type": "internship",
		"url": "https://acme.example/jobs/1",
		"skills": ["go", " sql "],
		"salary": 1200
	}`), &j)
	require.NoError(t, err)

	want := Job{
		ID:        "abc",
		Title:     "Go Intern",
		Company:   "Acme",
		Location:  "Remote",
		Type:      "internship",
		ApplyLink: "https://acme.example/jobs/1",
		Tags:      []string{"go", "sql"},
		Salary:    "1200",
	}
	if diff := cmp.Diff(want, j); diff != "" {
		t.Errorf("job mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeJob_DocumentShape(t *testing.T) {
	j := DecodeJob(map[string]any{
		"$id":       "doc1",
		"jobId":     "JOB-1-abcdef",
		"title":     "Backend",
		"applyLink": "http://x.example",
		"tags":      "go, k8s,",
		"createdBy": "ada@example.com",
	})

	assert.Equal(t, "doc1", j.DocumentID)
	assert.Equal(t, "JOB-1-abcdef", j.ID)
	assert.Equal(t, []string{"go", "k8s"}, j.Tags)
	assert.Equal(t, "ada@example.com", j.CreatedBy)
}

func TestDecodeJob_MissingTags_EmptySlice(t *testing.T) {
	j := DecodeJob(map[string]any{"title": "x"})
	assert.NotNil(t, j.Tags)
	assert.Empty(t, j.Tags)
}

func TestJob_DocumentRoundTrip(t *testing.T) {
	in := Job{ID: "JOB-1-a1b2c3", Title: "SRE", Company: "Acme", ApplyLink: "https://a.example", CreatedBy: "a@b.com"}
	out := DecodeJob(in.Document())

	in.Tags = []string{}
	if diff := cmp.Diff(in, out); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeHackathon_Aliases(t *testing.T) {
	var h Hackathon
	require.NoError(t, json.Unmarshal([]byte(`{
		"name": "HackX",
		"host": "Club",
		"mode": "online",
		"start_date": "2025-05-01",
		"end_date": "2025-05-03",
		"website": "https://hackx.example",
		"themes": "[\"ai\",\"web\"]"
	}`), &h))

	assert.Equal(t, "HackX", h.Title)
	assert.Equal(t, "Club", h.Organizer)
	assert.Equal(t, "2025-05-01", h.StartDate)
	assert.Equal(t, "https://hackx.example", h.Link)
	assert.Equal(t, []string{"ai", "web"}, h.Tags)
	assert.Equal(t, "online", h.Category())
	assert.Equal(t, KindHackathon, h.Kind())
}

func TestHaystack(t *testing.T) {
	j := Job{Title: "t", Company: "c", Location: "l", Tags: []string{"x"}}
	assert.Equal(t, []string{"t", "c", "l", "x"}, j.Haystack())
}

func TestStrings(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, Strings([]any{"a", 1, " b "}))
	assert.Equal(t, []string{"a"}, Strings(`["a", ""]`))
	assert.Equal(t, []string{}, Strings(nil))
	assert.Equal(t, []string{"[broken"}, Strings("[broken"))
}

func TestKey(t *testing.T) {
	assert.Equal(t, "JOB-1", Job{ID: "JOB-1", DocumentID: "d"}.Key())
	assert.Equal(t, "d", Hackathon{DocumentID: "d"}.Key())
	assert.Equal(t, "go dev@acme", Job{Title: "Go Dev", Company: "Acme"}.Key())
}
