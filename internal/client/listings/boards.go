package listings

import (
	"context"
	"strings"

	"github.com/gigrithm/gigrithm/internal/client/appwrite"
	"github.com/gigrithm/gigrithm/internal/client/gigapi"
	"github.com/gigrithm/gigrithm/internal/client/models"
	"github.com/gigrithm/gigrithm/internal/client/profile"
	"github.com/gigrithm/gigrithm/internal/logging"
)

const (
	NoticeJobsUnavailable       = "Job search is unavailable right now."
	NoticeCommunityUnavailable  = "Community postings could not be loaded."
	NoticeHackathonsOffline     = "The hackathon service is offline."
	NoticeHackathonsUnavailable = "Hackathons could not be loaded."
	NoticeNoProfile             = "Upload a resume to get personalised recommendations."
	NoticeNoMatches             = "No listings match your search."
)

// JobBoard merges community postings with aggregated search results.
type JobBoard struct {
	api        JobSource
	docs       Documents
	collection string
	logger     logging.Logger
}

// NewJobBoard builds a board. docs may be nil to show aggregated jobs only.
func NewJobBoard(api JobSource, docs Documents, collection string, logger logging.Logger) *JobBoard {
	if logger == nil {
		logger = logging.Nop()
	}
	return &JobBoard{api: api, docs: docs, collection: collection, logger: logger.With("component", "jobs")}
}

func (b *JobBoard) Load(ctx context.Context, q JobQuery) Page[models.Job] {
	var notices []string

	var community []models.Job
	if b.docs != nil {
		list, err := listJobs(ctx, b.docs, b.collection, appwrite.OrderDesc("$createdAt"))
		if err != nil {
			b.logger.Warn(ctx, "community jobs unavailable", "error", err)
			notices = append(notices, NoticeCommunityUnavailable)
		} else {
			community = Filter(list, q.Q, q.Type)
			community = FilterLocation(community, q.Location)
		}
	}

	found, err := b.api.SearchJobs(ctx, q)
	if err != nil {
		b.logger.Warn(ctx, "job search failed", "q", q.Q, "error", err)
		notices = append(notices, NoticeJobsUnavailable)
	}

	return page(merge(community, found), notices)
}

// Personalized recommends jobs for p. A missing profile yields an empty
// page with a hint instead of a request.
func (b *JobBoard) Personalized(ctx context.Context, p *profile.Profile, jobType string) Page[models.Job] {
	if p == nil || p.Empty() {
		return Page[models.Job]{Items: []models.Job{}, Notice: NoticeNoProfile}
	}
	jobs, err := b.api.PersonalizedJobs(ctx, gigapi.QueryFromProfile(*p, jobType))
	if err != nil {
		b.logger.Warn(ctx, "recommendations failed", "error", err)
		return Page[models.Job]{Items: []models.Job{}, Notice: NoticeJobsUnavailable}
	}
	return page(jobs, nil)
}

// HackathonBoard merges community hackathons with the hackathon API.
type HackathonBoard struct {
	api        HackathonSource
	docs       Documents
	collection string
	logger     logging.Logger
}

func NewHackathonBoard(api HackathonSource, docs Documents, collection string, logger logging.Logger) *HackathonBoard {
	if logger == nil {
		logger = logging.Nop()
	}
	return &HackathonBoard{api: api, docs: docs, collection: collection, logger: logger.With("component", "hackathons")}
}

// Online probes the hackathon API.
func (b *HackathonBoard) Online(ctx context.Context) bool {
	return b.api.Health(ctx) == nil
}

// Load skips the API when its health probe fails.
func (b *HackathonBoard) Load(ctx context.Context, q HackathonQuery) Page[models.Hackathon] {
	var notices []string

	var community []models.Hackathon
	if b.docs != nil {
		list, err := listHackathons(ctx, b.docs, b.collection, appwrite.OrderDesc("$createdAt"))
		if err != nil {
			b.logger.Warn(ctx, "community hackathons unavailable", "error", err)
			notices = append(notices, NoticeCommunityUnavailable)
		} else {
			community = Filter(list, q.Q, q.Mode)
			community = FilterLocation(community, q.Location)
		}
	}

	var found []models.Hackathon
	if err := b.api.Health(ctx); err != nil {
		b.logger.Warn(ctx, "hackathon api offline", "error", err)
		notices = append(notices, NoticeHackathonsOffline)
	} else if found, err = b.api.Hackathons(ctx, q); err != nil {
		b.logger.Warn(ctx, "hackathon listing failed", "error", err)
		notices = append(notices, NoticeHackathonsUnavailable)
	}

	return page(merge(community, found), notices)
}

func page[T models.Listing](items []T, notices []string) Page[T] {
	p := Page[T]{Items: items}
	if p.Items == nil {
		p.Items = []T{}
	}
	switch {
	case len(notices) > 0:
		p.Notice = strings.Join(notices, " ")
	case len(p.Items) == 0:
		p.Notice = NoticeNoMatches
	}
	return p
}
