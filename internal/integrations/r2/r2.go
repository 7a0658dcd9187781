package r2

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/vlatan/reels-mixer/internal/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
)

// How long PutObject waits for the object to show up
const existsTimeout = time.Minute

type Service interface {
	// PutObject puts object to bucket and waits for it to exist
	PutObject(
		ctx context.Context,
		bucket string,
		key string,
		body io.Reader,
		contentType string,
		metadata map[string]string,
	) error
	// ObjectExists checks if the object exists in the bucket
	ObjectExists(ctx context.Context, timeout time.Duration, bucket, key string) error
	// ListKeys lists the keys under a prefix in lexical order
	ListKeys(ctx context.Context, bucket, prefix string) ([]string, error)
	// DeleteObject removes an object from bucket
	DeleteObject(ctx context.Context, bucket, key string) error
}

type service struct {
	client *s3.Client
}

// New creates a new R2 client
func New(ctx context.Context, cfg *config.Config) (Service, error) {

	if cfg.R2AccountId == "" || cfg.R2BackupBucketName == "" {
		return nil, errors.New("R2_ACCOUNT_ID and R2_BACKUP_BUCKET_NAME must be set")
	}

	// Create SDK config for an R2 service
	// An ordinary AWS SDK config would look like:
	// sdkConfig, err := awsConfig.LoadDefaultConfig(ctx)
	sdkConfig, err := awsConfig.LoadDefaultConfig(ctx,
		awsConfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(
				cfg.R2AccessKeyId, cfg.R2SecretAccessKey, ""),
		),
		awsConfig.WithRegion("auto"),
	)

	if err != nil {
		return nil, fmt.Errorf("failed to load AWS/R2 SDK configuration; %w", err)
	}

	// Create the R2 client
	// An ordinary AWS client would look like:
	// client := s3.NewFromConfig(sdkConfig)
	client := s3.NewFromConfig(sdkConfig, func(o *s3.Options) {
		baseEndpoint := fmt.Sprintf("https://%s.r2.cloudflarestorage.com", cfg.R2AccountId)
		o.BaseEndpoint = aws.String(baseEndpoint)
	})

	return &service{client}, nil
}

// DeleteObject removes an object from bucket
func (s *service) DeleteObject(ctx context.Context, bucket, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	return err
}

// ObjectExists checks if the object exists in the bucket
func (s *service) ObjectExists(ctx context.Context, timeout time.Duration, bucket, key string) error {
	return s3.NewObjectExistsWaiter(s.client).Wait(
		ctx,
		&s3.HeadObjectInput{
			Bucket: aws.String(bucket),
			Key:    aws.String(key),
		},
		timeout,
	)
}

// ListKeys lists the keys under a prefix, following every page
func (s *service) ListKeys(ctx context.Context, bucket, prefix string) ([]string, error) {

	paginator := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(bucket),
		Prefix: aws.String(prefix),
	})

	var keys []string
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("couldn't list objects in %s/%s; %w", bucket, prefix, err)
		}

		for _, object := range page.Contents {
			keys = append(keys, aws.ToString(object.Key))
		}
	}

	return keys, nil
}

// PutObject puts object to bucket having the content
func (s *service) PutObject(
	ctx context.Context,
	bucket string,
	key string,
	body io.Reader,
	contentType string,
	metadata map[string]string,
) error {

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
		Metadata:    metadata,
	})

	if err != nil {
		var apiErr smithy.APIError
		if errors.As(err, &apiErr) && apiErr.ErrorCode() == "EntityTooLarge" {
			return fmt.Errorf(
				"error while uploading object to %s; The object is too large: %w",
				bucket, err,
			)

		}

		return fmt.Errorf(
			"couldn't upload object %s:%s: %w",
			bucket, key, err,
		)
	}

	if err = s.ObjectExists(ctx, existsTimeout, bucket, key); err != nil {
		return fmt.Errorf(
			"failed attempt to wait for object %s:%s to exist: %w",
			bucket, key, err,
		)
	}

	return nil
}
