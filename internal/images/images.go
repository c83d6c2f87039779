// Package images delegates image hosting to an S3-compatible object
// store. Uploads return a public URL plus the object key, which acts as
// the opaque asset identifier used later for deletion.
package images

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/ovasilenko/campsite/internal/config"
	"github.com/ovasilenko/campsite/internal/logger"
)

// allowedExtensions is the upload allow-list.
var allowedExtensions = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
	".png":  {},
	".gif":  {},
}

// AllowedExtension reports whether the filename carries an accepted
// image extension.
func AllowedExtension(filename string) bool {
	ext := strings.ToLower(path.Ext(filename))
	_, ok := allowedExtensions[ext]
	return ok
}

// Store uploads and deletes hosted image assets.
type Store interface {
	Upload(ctx context.Context, filename string, body io.Reader) (url, assetID string, err error)
	Delete(ctx context.Context, assetID string) error
}

// S3Store implements Store on an S3-compatible bucket.
type S3Store struct {
	client        *s3.Client
	bucket        string
	publicBaseURL string
}

// NewS3Store builds an S3 client from static credentials and the
// optional custom endpoint (MinIO and friends).
func NewS3Store(ctx context.Context, cfg config.ImagesConfig) (*S3Store, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKey, cfg.SecretKey, "",
		)))
	if err != nil {
		return nil, err
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	base := cfg.PublicBaseURL
	if base == "" {
		base = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, cfg.Region)
	}

	return &S3Store{
		client:        client,
		bucket:        cfg.Bucket,
		publicBaseURL: strings.TrimRight(base, "/"),
	}, nil
}

// storageKey spreads objects by date and keeps the original extension.
func storageKey(filename string) string {
	d := time.Now()
	return fmt.Sprintf("campgrounds/%d/%02d/%s%s",
		d.Year(), d.Month(), uuid.NewString(), strings.ToLower(path.Ext(filename)))
}

// Upload stores the image and returns its public URL and object key.
func (s *S3Store) Upload(ctx context.Context, filename string, body io.Reader) (string, string, error) {
	key := storageKey(filename)

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Body:   body,
	})

	logger.Log.Infow("image uploaded",
		"bucket", s.bucket,
		"key", key,
		"error", err,
	)

	if err != nil {
		return "", "", err
	}
	return fmt.Sprintf("%s/%s", s.publicBaseURL, key), key, nil
}

// Delete removes the hosted asset by its object key.
func (s *S3Store) Delete(ctx context.Context, assetID string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(assetID),
	})

	logger.Log.Infow("image deleted",
		"bucket", s.bucket,
		"key", assetID,
		"error", err,
	)

	return err
}
