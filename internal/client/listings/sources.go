package listings

import (
	"context"
	"slices"

	"github.com/gigrithm/gigrithm/internal/client/appwrite"
	"github.com/gigrithm/gigrithm/internal/client/gigapi"
	"github.com/gigrithm/gigrithm/internal/client/models"
)

type (
	JobQuery       = gigapi.JobQuery
	HackathonQuery = gigapi.HackathonQuery
)

// JobSource is the job search API. *gigapi.Client satisfies it.
type JobSource interface {
	SearchJobs(ctx context.Context, q gigapi.JobQuery) ([]models.Job, error)
	PersonalizedJobs(ctx context.Context, q gigapi.PersonalizedQuery) ([]models.Job, error)
}

// HackathonSource is the hackathon API. *gigapi.Client satisfies it.
type HackathonSource interface {
	Hackathons(ctx context.Context, q gigapi.HackathonQuery) ([]models.Hackathon, error)
	Health(ctx context.Context) error
}

// Documents reads and deletes community postings. *appwrite.Databases
// satisfies it.
type Documents interface {
	ListDocuments(ctx context.Context, collectionID string, queries ...string) (*appwrite.DocumentList, error)
	DeleteDocument(ctx context.Context, collectionID, documentID string) error
}

// Page is one rendered result set.
type Page[T models.Listing] struct {
	Items  []T
	Notice string
}

const (
	pageSize       = 50
	communityLimit = 200
)

// listPaged reads up to communityLimit documents, pageSize at a time.
func listPaged(ctx context.Context, docs Documents, collection string, queries ...string) ([]appwrite.Document, error) {
	var out []appwrite.Document
	for offset := 0; offset < communityLimit; offset += pageSize {
		qs := append(slices.Clone(queries), appwrite.Limit(pageSize), appwrite.Offset(offset))
		list, err := docs.ListDocuments(ctx, collection, qs...)
		if err != nil {
			return nil, err
		}
		out = append(out, list.Documents...)
		if len(list.Documents) < pageSize || len(out) >= list.Total {
			break
		}
	}
	return out, nil
}

func listJobs(ctx context.Context, docs Documents, collection string, queries ...string) ([]models.Job, error) {
	list, err := listPaged(ctx, docs, collection, queries...)
	if err != nil {
		return nil, err
	}
	out := make([]models.Job, 0, len(list))
	for _, d := range list {
		j := models.DecodeJob(d.Data)
		j.DocumentID = d.ID
		if j.Source == "" {
			j.Source = "community"
		}
		out = append(out, j)
	}
	return out, nil
}

func listHackathons(ctx context.Context, docs Documents, collection string, queries ...string) ([]models.Hackathon, error) {
	list, err := listPaged(ctx, docs, collection, queries...)
	if err != nil {
		return nil, err
	}
	out := make([]models.Hackathon, 0, len(list))
	for _, d := range list {
		h := models.DecodeHackathon(d.Data)
		h.DocumentID = d.ID
		out = append(out, h)
	}
	return out, nil
}

// merge concatenates lists, dropping later items whose Key was already seen.
func merge[T models.Listing](lists ...[]T) []T {
	seen := make(map[string]struct{})
	out := []T{}
	for _, l := range lists {
		for _, it := range l {
			k := it.Key()
			if _, ok := seen[k]; ok {
				continue
			}
			seen[k] = struct{}{}
			out = append(out, it)
		}
	}
	return out
}
