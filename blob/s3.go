// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package blob

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"github.com/aws/aws-sdk-go/service/s3/s3manager/s3manageriface"
)

// S3Store uploads to an S3 bucket. Objects must be publicly readable
// through the bucket policy; the returned URL is the object location.
type S3Store struct {
	bucket   string
	uploader s3manageriface.UploaderAPI
	now      func() time.Time
}

// NewS3Store uses the default AWS credential chain: environment, shared
// config, then instance role.
func NewS3Store(bucket, region string) (*S3Store, error) {
	sess, err := session.NewSessionWithOptions(session.Options{
		Config:            aws.Config{Region: aws.String(region)},
		SharedConfigState: session.SharedConfigEnable,
	})
	if err != nil {
		return nil, fmt.Errorf("aws session: %w", err)
	}
	return newS3Store(bucket, s3manager.NewUploader(sess)), nil
}

func newS3Store(bucket string, uploader s3manageriface.UploaderAPI) *S3Store {
	return &S3Store{bucket: bucket, uploader: uploader, now: time.Now}
}

func (s *S3Store) Upload(ctx context.Context, folder string, r io.Reader, contentType string) (string, error) {
	key, err := ObjectKey(folder, s.now())
	if err != nil {
		return "", err
	}
	if contentType == "" {
		contentType = "image/jpeg"
	}
	out, err := s.uploader.UploadWithContext(ctx, &s3manager.UploadInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        r,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("s3 upload %s: %w", key, err)
	}
	return out.Location, nil
}
