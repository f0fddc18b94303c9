package mediaclient

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"path"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/google/uuid"

	"github.com/carabineros/intranet/internal/config"
)

var (
	ErrFileTooLarge    = errors.New("file exceeds the maximum upload size")
	ErrUnsupportedType = errors.New("file type not allowed")
	ErrNotConfigured   = errors.New("media bucket is not configured")
)

// Content types accepted as announcement attachments
var allowedContentTypes = map[string]bool{
	"image/jpeg":         true,
	"image/png":          true,
	"image/gif":          true,
	"image/webp":         true,
	"application/pdf":    true,
	"application/msword": true,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
	"application/vnd.ms-excel": true,
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet": true,
}

var unsafeNameChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// Client uploads attachments to an S3-compatible bucket
type Client struct {
	api           s3iface.S3API
	bucket        string
	publicBaseURL string
	maxBytes      int64
}

// NewClient creates a media client from config. Credentials come from the
// environment-provided keys when set, otherwise from the default AWS chain.
func NewClient(cfg config.MediaConfig) (*Client, error) {
	if cfg.Bucket == "" {
		return nil, ErrNotConfigured
	}

	awsCfg := &aws.Config{
		Region: aws.String(cfg.Region),
	}
	if cfg.AccessKeyID != "" {
		awsCfg.Credentials = credentials.NewStaticCredentials(cfg.AccessKeyID, cfg.SecretAccessKey, "")
	}
	if cfg.Endpoint != "" {
		awsCfg.Endpoint = aws.String(cfg.Endpoint)
		awsCfg.S3ForcePathStyle = aws.Bool(true)
	}

	sess, err := session.NewSession(awsCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create aws session: %w", err)
	}

	publicBaseURL := cfg.PublicBaseURL
	if publicBaseURL == "" {
		if cfg.Endpoint != "" {
			publicBaseURL = strings.TrimRight(cfg.Endpoint, "/") + "/" + cfg.Bucket
		} else {
			publicBaseURL = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, cfg.Region)
		}
	}

	return NewWithAPI(s3.New(sess), cfg.Bucket, publicBaseURL, cfg.MaxUploadBytes), nil
}

// NewWithAPI creates a media client over an existing S3 API implementation
func NewWithAPI(api s3iface.S3API, bucket, publicBaseURL string, maxBytes int64) *Client {
	if maxBytes <= 0 {
		maxBytes = config.DefaultMaxUploadBytes
	}
	return &Client{
		api:           api,
		bucket:        bucket,
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
		maxBytes:      maxBytes,
	}
}

// Upload stores data under a fresh key and returns its public URL.
// contentType may be empty, in which case it is derived from the name or the data.
func (c *Client) Upload(ctx context.Context, name string, contentType string, data []byte) (string, error) {
	if int64(len(data)) > c.maxBytes {
		return "", fmt.Errorf("%s is %d bytes, limit %d: %w", name, len(data), c.maxBytes, ErrFileTooLarge)
	}

	contentType = resolveContentType(name, contentType, data)
	if !allowedContentTypes[contentType] {
		return "", fmt.Errorf("%s has type %s: %w", name, contentType, ErrUnsupportedType)
	}

	key := path.Join("posts", uuid.New().String(), safeName(name))
	_, err := c.api.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:             aws.String(c.bucket),
		Key:                aws.String(key),
		Body:               bytes.NewReader(data),
		ContentType:        aws.String(contentType),
		ContentDisposition: aws.String(fmt.Sprintf("inline; filename=%q", filepath.Base(name))),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", name, err)
	}

	return c.publicBaseURL + "/" + key, nil
}

// Remove deletes an object previously returned by Upload
func (c *Client) Remove(ctx context.Context, url string) error {
	key, ok := strings.CutPrefix(url, c.publicBaseURL+"/")
	if !ok || key == "" {
		return fmt.Errorf("%s is not in bucket %s", url, c.bucket)
	}

	_, err := c.api.DeleteObjectWithContext(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}

func resolveContentType(name, contentType string, data []byte) string {
	if contentType == "" {
		contentType = mime.TypeByExtension(strings.ToLower(filepath.Ext(name)))
	}
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return contentType
	}
	return mediaType
}

func safeName(name string) string {
	base := unsafeNameChars.ReplaceAllString(filepath.Base(name), "_")
	if base == "" || base == "." || base == "_" {
		return "attachment"
	}
	return base
}
