package config

import (
	"os"
	"time"

	"github.com/gigrithm/gigrithm/internal/flagx"
)

// Image host and mail provider names accepted in Config.
const (
	ImageHostImgBB = "imgbb"
	ImageHostS3    = "s3"

	MailerEmailJS = "emailjs"
	MailerMailgun = "mailgun"
	MailerSMTP    = "smtp"
)

// Collections holds the BaaS collection ids used by each feature.
type Collections struct {
	Profiles   string `json:"profiles" env:"PROFILES"`
	Jobs       string `json:"jobs" env:"JOBS"`
	Hackathons string `json:"hackathons" env:"HACKATHONS"`
	BugReports string `json:"bug_reports" env:"BUG_REPORTS"`
}

// Config holds runtime settings for the Gigrithm client. The env tags name
// the variables read by parseEnv, minus the GIGRITHM_ prefix.
type Config struct {
	AppwriteEndpoint   string      `env:"APPWRITE_ENDPOINT"`
	AppwriteProjectID  string      `env:"APPWRITE_PROJECT_ID"`
	AppwriteDatabaseID string      `env:"APPWRITE_DATABASE_ID"`
	Collections        Collections `envPrefix:"COLLECTION_"`

	// GigAPIBaseURL serves /api/extract-email, /api/search-jobs, etc.
	GigAPIBaseURL string `env:"API_BASE_URL"`
	// AppURL is the public web origin used to build verification and
	// password-recovery callback links.
	AppURL string `env:"APP_URL"`

	HTTPTimeout         time.Duration `env:"HTTP_TIMEOUT"`
	OnlineCheckInterval time.Duration `env:"ONLINE_CHECK_INTERVAL"`
	PostingAutoClose    time.Duration `env:"POSTING_AUTO_CLOSE"`
	ResumeMaxBytes      int64         `env:"RESUME_MAX_BYTES"`

	CacheDSN string `env:"CACHE_DSN"`
	LogLevel string `env:"LOG_LEVEL"`

	ImageHost      string `env:"IMAGE_HOST"`
	ImgBBAPIKey    string `env:"IMGBB_API_KEY"`
	ImgBBEndpoint  string `env:"IMGBB_ENDPOINT"`
	S3Bucket       string `env:"S3_BUCKET"`
	S3Region       string `env:"S3_REGION"`
	S3BaseEndpoint string `env:"S3_ENDPOINT"`
	S3AccessKey    string `env:"S3_ACCESS_KEY"`
	S3SecretKey    string `env:"S3_SECRET_KEY"`

	Mailer             string `env:"MAILER"`
	EmailJSEndpoint    string `env:"EMAILJS_ENDPOINT"`
	EmailJSServiceID   string `env:"EMAILJS_SERVICE_ID"`
	EmailJSTemplateID  string `env:"EMAILJS_TEMPLATE_ID"`
	EmailJSPublicKey   string `env:"EMAILJS_PUBLIC_KEY"`
	MailgunDomain      string `env:"MAILGUN_DOMAIN"`
	MailgunAPIKey      string `env:"MAILGUN_API_KEY"`
	MailgunSender      string `env:"MAILGUN_SENDER"`
	SMTPHost           string `env:"SMTP_HOST"`
	SMTPPort           int    `env:"SMTP_PORT"`
	SMTPUsername       string `env:"SMTP_USERNAME"`
	SMTPPassword       string `env:"SMTP_PASSWORD"`
	SMTPFrom           string `env:"SMTP_FROM"`
	BugReportRecipient string `env:"BUG_REPORT_RECIPIENT"`
}

// LoadDefaults populates c with development defaults.
func (c *Config) LoadDefaults() {
	c.AppwriteEndpoint = "https://cloud.appwrite.io/v1"
	c.AppwriteProjectID = "gigrithm"
	c.AppwriteDatabaseID = "gigrithm"
	c.Collections = Collections{
		Profiles:   "profiles",
		Jobs:       "jobs",
		Hackathons: "hackathons",
		BugReports: "bug_reports",
	}
	c.GigAPIBaseURL = "http://127.0.0.1:5000"
	c.AppURL = "http://localhost:5173"
	c.HTTPTimeout = 15 * time.Second
	c.OnlineCheckInterval = 30 * time.Second
	c.PostingAutoClose = 2 * time.Second
	c.ResumeMaxBytes = 5 << 20
	c.CacheDSN = "gigrithm.db"
	c.LogLevel = "info"
	c.ImageHost = ImageHostImgBB
	c.ImgBBEndpoint = "https://api.imgbb.com/1/upload"
	c.S3Region = "us-east-1"
	c.Mailer = MailerEmailJS
	c.EmailJSEndpoint = "https://api.emailjs.com/api/v1.0/email/send"
	c.SMTPPort = 587
}

// VerificationURL is the page the emailed verification link points to.
func (c *Config) VerificationURL() string {
	return c.AppURL + "/verify-email"
}

// RecoveryURL is the page the emailed password-recovery link points to.
func (c *Config) RecoveryURL() string {
	return c.AppURL + "/reset-password"
}

// LoadConfig constructs a Config, applies defaults, then overlays values
// from the environment, JSON (if present) and command-line flags.
// Later sources take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	src := flagx.SourceFlags(os.Args[1:])
	parseEnv(cfg, src.DotEnv)
	parseJson(cfg, src.JSON)
	parseFlags(cfg)
	return cfg
}
