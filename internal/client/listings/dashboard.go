package listings

import (
	"context"
	"fmt"

	"github.com/gigrithm/gigrithm/internal/client/appwrite"
	"github.com/gigrithm/gigrithm/internal/client/models"
	"github.com/gigrithm/gigrithm/internal/client/profile"
	"github.com/gigrithm/gigrithm/internal/logging"
	"golang.org/x/sync/errgroup"
)

// Collections names where community postings live.
type Collections struct {
	Jobs       string
	Hackathons string
}

// Dashboard is the signed-in landing view: recommendations, upcoming
// hackathons and the user's own postings.
type Dashboard struct {
	jobs        *JobBoard
	hackathons  *HackathonBoard
	docs        Documents
	collections Collections
	logger      logging.Logger
}

func NewDashboard(jobs *JobBoard, hackathons *HackathonBoard, docs Documents, c Collections, logger logging.Logger) *Dashboard {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Dashboard{jobs: jobs, hackathons: hackathons, docs: docs, collections: c, logger: logger.With("component", "dashboard")}
}

type DashboardData struct {
	Recommended  Page[models.Job]
	Hackathons   Page[models.Hackathon]
	MyJobs       Page[models.Job]
	MyHackathons Page[models.Hackathon]
}

// Load fetches every section concurrently. Each goroutine writes only its
// own field and never returns an error, so one failing section leaves the
// others intact.
func (d *Dashboard) Load(ctx context.Context, email string, p *profile.Profile) DashboardData {
	var data DashboardData
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		data.Recommended = d.jobs.Personalized(ctx, p, "")
		return nil
	})
	g.Go(func() error {
		data.Hackathons = d.hackathons.Load(ctx, HackathonQuery{})
		return nil
	})
	g.Go(func() error {
		list, err := listJobs(ctx, d.docs, d.collections.Jobs,
			appwrite.Equal("createdBy", email), appwrite.OrderDesc("$createdAt"))
		if err != nil {
			d.logger.Warn(ctx, "own jobs unavailable", "error", err)
			data.MyJobs = Page[models.Job]{Items: []models.Job{}, Notice: NoticeCommunityUnavailable}
			return nil
		}
		data.MyJobs = Page[models.Job]{Items: list}
		return nil
	})
	g.Go(func() error {
		list, err := listHackathons(ctx, d.docs, d.collections.Hackathons,
			appwrite.Equal("createdBy", email), appwrite.OrderDesc("$createdAt"))
		if err != nil {
			d.logger.Warn(ctx, "own hackathons unavailable", "error", err)
			data.MyHackathons = Page[models.Hackathon]{Items: []models.Hackathon{}, Notice: NoticeCommunityUnavailable}
			return nil
		}
		data.MyHackathons = Page[models.Hackathon]{Items: list}
		return nil
	})

	_ = g.Wait()
	return data
}

// DeletePosting removes one of the user's postings.
func (d *Dashboard) DeletePosting(ctx context.Context, kind models.Kind, documentID string) error {
	var collection string
	switch kind {
	case models.KindJob:
		collection = d.collections.Jobs
	case models.KindHackathon:
		collection = d.collections.Hackathons
	default:
		return fmt.Errorf("unknown listing kind %q", kind)
	}
	if err := d.docs.DeleteDocument(ctx, collection, documentID); err != nil {
		return fmt.Errorf("delete %s %s: %w", kind, documentID, err)
	}
	return nil
}
