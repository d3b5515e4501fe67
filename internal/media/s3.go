package media

import (
	"context"
	"time"

	"backend-smartdiary/internal/config"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
)

const presignTTL = time.Hour

const presignExpirySeconds = int64(presignTTL / time.Second)

// ObjectStore abstracts the bucket so tests can substitute a fake.
type ObjectStore interface {
	PresignPut(key, contentType string) (string, error)
	PresignGet(key string) (string, error)
	DeleteObject(ctx context.Context, key string) error
}

type S3Store struct {
	client *s3.S3
	bucket string
}

func NewS3Store(cfg config.Config) *S3Store {
	sess := session.Must(session.NewSession(&aws.Config{
		Region:           aws.String(cfg.S3Region),
		Endpoint:         aws.String(cfg.S3Endpoint),
		Credentials:      credentials.NewStaticCredentials(cfg.S3AccessKey, cfg.S3SecretKey, ""),
		S3ForcePathStyle: aws.Bool(true),
	}))
	return &S3Store{client: s3.New(sess), bucket: cfg.S3Bucket}
}

func (s *S3Store) PresignPut(key, contentType string) (string, error) {
	input := &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}
	req, _ := s.client.PutObjectRequest(input)
	return req.Presign(presignTTL)
}

func (s *S3Store) PresignGet(key string) (string, error) {
	req, _ := s.client.GetObjectRequest(&s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	return req.Presign(presignTTL)
}

func (s *S3Store) DeleteObject(ctx context.Context, key string) error {
	_, err := s.client.DeleteObjectWithContext(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	return err
}
