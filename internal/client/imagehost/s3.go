package imagehost

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gigrithm/gigrithm/internal/logging"
	"github.com/google/uuid"
)

// PutObjectAPI is the part of *s3.Client the uploader needs.
type PutObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type S3Config struct {
	Bucket    string
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string
}

// S3Uploader stores images in a public-read bucket.
type S3Uploader struct {
	api    PutObjectAPI
	cfg    S3Config
	logger logging.Logger
	now    func() time.Time
}

// NewS3Uploader builds an S3 client from cfg. Static credentials are used
// when both keys are set; otherwise the default AWS chain applies.
func NewS3Uploader(ctx context.Context, cfg S3Config, logger logging.Logger) (*S3Uploader, error) {
	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.Region)}
	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load s3 config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})
	return NewS3UploaderWithAPI(client, cfg, logger), nil
}

func NewS3UploaderWithAPI(api PutObjectAPI, cfg S3Config, logger logging.Logger) *S3Uploader {
	if logger == nil {
		logger = logging.Nop()
	}
	return &S3Uploader{api: api, cfg: cfg, logger: logger.With("component", "s3"), now: time.Now}
}

// objectKey is bug-reports/<yyyy>/<mm>/<dd>/<uuid><ext>.
func (u *S3Uploader) objectKey(ext string) string {
	d := u.now().UTC()
	return fmt.Sprintf("bug-reports/%04d/%02d/%02d/%s%s", d.Year(), d.Month(), d.Day(), uuid.NewString(), ext)
}

// publicURL is path-style for custom endpoints and virtual-hosted for AWS.
func (u *S3Uploader) publicURL(key string) string {
	if u.cfg.Endpoint != "" {
		return strings.TrimRight(u.cfg.Endpoint, "/") + "/" + u.cfg.Bucket + "/" + key
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", u.cfg.Bucket, u.cfg.Region, key)
}

func (u *S3Uploader) Upload(ctx context.Context, name string, data []byte) (*Image, error) {
	m, err := sniff(data)
	if err != nil {
		return nil, err
	}

	key := u.objectKey(m.Extension())
	_, err = u.api.PutObject(ctx, &s3.PutObjectInput{
		Bucket:             aws.String(u.cfg.Bucket),
		Key:                aws.String(key),
		Body:               bytes.NewReader(data),
		ContentType:        aws.String(m.String()),
		ContentDisposition: aws.String(fmt.Sprintf("inline; filename=%q", name)),
	})
	if err != nil {
		u.logger.Warn(ctx, "put object failed", "bucket", u.cfg.Bucket, "key", key, "error", err)
		return nil, fmt.Errorf("%w: %v", ErrUpload, err)
	}

	url := u.publicURL(key)
	return &Image{URL: url, ThumbURL: url}, nil
}
