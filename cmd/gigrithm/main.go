package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gigrithm/gigrithm/internal/client/appwrite"
	"github.com/gigrithm/gigrithm/internal/client/bugreport"
	"github.com/gigrithm/gigrithm/internal/client/cache"
	"github.com/gigrithm/gigrithm/internal/client/cli"
	"github.com/gigrithm/gigrithm/internal/client/config"
	"github.com/gigrithm/gigrithm/internal/client/gigapi"
	"github.com/gigrithm/gigrithm/internal/client/imagehost"
	"github.com/gigrithm/gigrithm/internal/client/intake"
	"github.com/gigrithm/gigrithm/internal/client/listings"
	"github.com/gigrithm/gigrithm/internal/client/mailer"
	"github.com/gigrithm/gigrithm/internal/client/postings"
	"github.com/gigrithm/gigrithm/internal/client/session"
	"github.com/gigrithm/gigrithm/internal/logging"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.LoadConfig()
	logger := logging.New(os.Stderr, cfg.LogLevel)

	if err := run(ctx, cfg, logger); err != nil {
		log.Fatalf("%v", err)
	}
}

func run(ctx context.Context, cfg *config.Config, logger logging.Logger) error {
	httpClient := &http.Client{Timeout: cfg.HTTPTimeout}

	store, err := cache.Open(ctx, cfg.CacheDSN)
	if err != nil {
		return err
	}
	defer store.Close()

	aw, err := appwrite.New(appwrite.Config{Endpoint: cfg.AppwriteEndpoint, ProjectID: cfg.AppwriteProjectID}, httpClient, logger)
	if err != nil {
		return err
	}
	db := aw.Databases(cfg.AppwriteDatabaseID)

	gig, err := gigapi.New(cfg.GigAPIBaseURL, httpClient, logger)
	if err != nil {
		return err
	}

	sess, err := session.New(session.Deps{
		Account:         aw.Account(),
		Profiles:        session.NewDocumentProfiles(db, cfg.Collections.Profiles),
		Cache:           store,
		Parser:          gig,
		Sessions:        aw,
		Logger:          logger,
		VerificationURL: cfg.VerificationURL(),
		RecoveryURL:     cfg.RecoveryURL(),
	})
	if err != nil {
		return err
	}
	// The Gig API authenticates with the session's JWT, so the store is
	// attached once it exists.
	gigapi.WithTokenSource(sess)(gig)
	sess.Init(ctx)

	images, err := newUploader(ctx, cfg, httpClient, logger)
	if err != nil {
		return err
	}

	jobs := listings.NewJobBoard(gig, db, cfg.Collections.Jobs, logger)
	hackathons := listings.NewHackathonBoard(gig, db, cfg.Collections.Hackathons, logger)

	app := cli.NewApp(cli.Deps{
		Session:    sess,
		Intake:     intake.New(gig, sess, cfg.ResumeMaxBytes, logger),
		Jobs:       jobs,
		Hackathons: hackathons,
		Dashboard: listings.NewDashboard(jobs, hackathons, db, listings.Collections{
			Jobs:       cfg.Collections.Jobs,
			Hackathons: cfg.Collections.Hackathons,
		}, logger),
		JobPosts:  postings.NewJobEditor(db, cfg.Collections.Jobs, cfg.PostingAutoClose, logger),
		HackPosts: postings.NewHackathonEditor(db, cfg.Collections.Hackathons, cfg.PostingAutoClose, logger),
		Bugs: bugreport.NewService(images, db, newSender(cfg, httpClient, logger),
			cfg.Collections.BugReports, cfg.BugReportRecipient, logger),
		Logger: logger,
	})

	app.Run(ctx, cfg.OnlineCheckInterval)
	return nil
}

func newUploader(ctx context.Context, cfg *config.Config, httpClient *http.Client, logger logging.Logger) (imagehost.Uploader, error) {
	switch cfg.ImageHost {
	case config.ImageHostS3:
		return imagehost.NewS3Uploader(ctx, imagehost.S3Config{
			Bucket:    cfg.S3Bucket,
			Region:    cfg.S3Region,
			Endpoint:  cfg.S3BaseEndpoint,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
		}, logger)
	case config.ImageHostImgBB:
		if cfg.ImgBBAPIKey == "" {
			return nil, nil
		}
		return imagehost.NewImgBB(cfg.ImgBBEndpoint, cfg.ImgBBAPIKey, httpClient, logger), nil
	default:
		return nil, nil
	}
}

func newSender(cfg *config.Config, httpClient *http.Client, logger logging.Logger) mailer.Sender {
	switch cfg.Mailer {
	case config.MailerMailgun:
		return mailer.NewMailgun(cfg.MailgunDomain, cfg.MailgunAPIKey, cfg.MailgunSender)
	case config.MailerSMTP:
		return mailer.NewSMTP(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword, cfg.SMTPFrom)
	case config.MailerEmailJS:
		if cfg.EmailJSServiceID == "" {
			return nil
		}
		return mailer.NewEmailJS(cfg.EmailJSEndpoint, cfg.EmailJSServiceID, cfg.EmailJSTemplateID, cfg.EmailJSPublicKey, httpClient, logger)
	default:
		return nil
	}
}
