package config

import (
	"encoding/json"
	"os"

	"github.com/gigrithm/gigrithm/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Zero values
// mean "not set" and leave the corresponding Config field untouched.
type JsonConfig struct {
	AppwriteEndpoint    string         `json:"appwrite_endpoint"`
	AppwriteProjectID   string         `json:"appwrite_project_id"`
	AppwriteDatabaseID  string         `json:"appwrite_database_id"`
	Collections         Collections    `json:"collections"`
	GigAPIBaseURL       string         `json:"api_base_url"`
	AppURL              string         `json:"app_url"`
	HTTPTimeout         timex.Duration `json:"http_timeout"`
	OnlineCheckInterval timex.Duration `json:"online_check_interval"`
	PostingAutoClose    timex.Duration `json:"posting_auto_close"`
	ResumeMaxBytes      int64          `json:"resume_max_bytes"`
	CacheDSN            string         `json:"cache_dsn"`
	LogLevel            string         `json:"log_level"`

	ImageHost      string `json:"image_host"`
	ImgBBAPIKey    string `json:"imgbb_api_key"`
	S3Bucket       string `json:"s3_bucket"`
	S3Region       string `json:"s3_region"`
	S3BaseEndpoint string `json:"s3_endpoint"`

	Mailer             string `json:"mailer"`
	EmailJSServiceID   string `json:"emailjs_service_id"`
	EmailJSTemplateID  string `json:"emailjs_template_id"`
	EmailJSPublicKey   string `json:"emailjs_public_key"`
	MailgunDomain      string `json:"mailgun_domain"`
	MailgunSender      string `json:"mailgun_sender"`
	SMTPHost           string `json:"smtp_host"`
	SMTPPort           int    `json:"smtp_port"`
	SMTPFrom           string `json:"smtp_from"`
	BugReportRecipient string `json:"bug_report_recipient"`
}

// parseJson overlays cfg with values loaded from the JSON file at path.
// An empty path is a no-op. Read or unmarshal errors panic; secrets such as
// the S3 secret or Mailgun API key are only read from the environment.
func parseJson(cfg *Config, path string) {
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}
	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	overlay(&cfg.AppwriteEndpoint, jc.AppwriteEndpoint)
	overlay(&cfg.AppwriteProjectID, jc.AppwriteProjectID)
	overlay(&cfg.AppwriteDatabaseID, jc.AppwriteDatabaseID)
	overlay(&cfg.Collections.Profiles, jc.Collections.Profiles)
	overlay(&cfg.Collections.Jobs, jc.Collections.Jobs)
	overlay(&cfg.Collections.Hackathons, jc.Collections.Hackathons)
	overlay(&cfg.Collections.BugReports, jc.Collections.BugReports)
	overlay(&cfg.GigAPIBaseURL, jc.GigAPIBaseURL)
	overlay(&cfg.AppURL, jc.AppURL)
	overlay(&cfg.HTTPTimeout, jc.HTTPTimeout.Duration)
	overlay(&cfg.OnlineCheckInterval, jc.OnlineCheckInterval.Duration)
	overlay(&cfg.PostingAutoClose, jc.PostingAutoClose.Duration)
	overlay(&cfg.ResumeMaxBytes, jc.ResumeMaxBytes)
	overlay(&cfg.CacheDSN, jc.CacheDSN)
	overlay(&cfg.LogLevel, jc.LogLevel)
	overlay(&cfg.ImageHost, jc.ImageHost)
	overlay(&cfg.ImgBBAPIKey, jc.ImgBBAPIKey)
	overlay(&cfg.S3Bucket, jc.S3Bucket)
	overlay(&cfg.S3Region, jc.S3Region)
	overlay(&cfg.S3BaseEndpoint, jc.S3BaseEndpoint)
	overlay(&cfg.Mailer, jc.Mailer)
	overlay(&cfg.EmailJSServiceID, jc.EmailJSServiceID)
	overlay(&cfg.EmailJSTemplateID, jc.EmailJSTemplateID)
	overlay(&cfg.EmailJSPublicKey, jc.EmailJSPublicKey)
	overlay(&cfg.MailgunDomain, jc.MailgunDomain)
	overlay(&cfg.MailgunSender, jc.MailgunSender)
	overlay(&cfg.SMTPHost, jc.SMTPHost)
	overlay(&cfg.SMTPPort, jc.SMTPPort)
	overlay(&cfg.SMTPFrom, jc.SMTPFrom)
	overlay(&cfg.BugReportRecipient, jc.BugReportRecipient)
}

func overlay[T comparable](dst *T, v T) {
	var zero T
	if v != zero {
		*dst = v
	}
}
