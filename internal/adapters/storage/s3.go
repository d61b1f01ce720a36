package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime"
	"path"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"eventsapi/internal/domain"
)

// objectAPI is the subset of *s3.Client used by the store.
type objectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

type s3Store struct {
	client objectAPI
	bucket string
	prefix string
}

func newS3Store(config S3Config) (domain.ImageStore, error) {
	if config.Bucket == "" {
		return nil, fmt.Errorf("s3 image store: bucket is required")
	}
	awsCfg := aws.Config{
		Region: config.Region,
	}
	if config.AccessKeyID != "" {
		awsCfg.Credentials = aws.NewCredentialsCache(
			credentials.NewStaticCredentialsProvider(
				config.AccessKeyID,
				config.SecretAccessKey,
				"",
			),
		)
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if config.Endpoint != "" {
			o.BaseEndpoint = aws.String(config.Endpoint)
			o.UsePathStyle = true
		}
	})
	return &s3Store{client: client, bucket: config.Bucket, prefix: config.Prefix}, nil
}

func (s *s3Store) Save(ctx context.Context, filename string, r io.Reader) (*domain.StoredFile, error) {
	key := path.Join(s.prefix, objectName(filename))

	body, ok := r.(io.ReadSeeker)
	if !ok {
		buf, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("read image: %w", err)
		}
		body = bytes.NewReader(buf)
	}

	input := &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Body:   body,
	}
	if ct := mime.TypeByExtension(filepath.Ext(key)); ct != "" {
		input.ContentType = aws.String(ct)
	}
	if _, err := s.client.PutObject(ctx, input); err != nil {
		return nil, fmt.Errorf("put image object: %w", err)
	}
	return &domain.StoredFile{Path: fmt.Sprintf("s3://%s/%s", s.bucket, key)}, nil
}

func (s *s3Store) Delete(ctx context.Context, file *domain.StoredFile) error {
	key, ok := strings.CutPrefix(file.Path, "s3://"+s.bucket+"/")
	if !ok {
		return fmt.Errorf("image %q is not in bucket %s", file.Path, s.bucket)
	}
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("delete image object: %w", err)
	}
	return nil
}
