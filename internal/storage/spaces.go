package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"

	"agenticv-server/internal/config"
	"agenticv-server/internal/logging"
	"agenticv-server/pkg/models"
)

// SpacesStore implements Store against a DigitalOcean Spaces bucket
type SpacesStore struct {
	client     *s3.S3
	bucketName string
	bucketURL  string
	cdnURL     string
	logger     logging.Logger
}

// NewSpacesStore creates a Spaces-backed store
func NewSpacesStore(cfg *config.Config) (*SpacesStore, error) {
	logger := logging.GetGlobalLogger()

	if cfg.Storage.AccessKeyID == "" || cfg.Storage.AccessKeySecret == "" {
		return nil, fmt.Errorf("storage credentials are required")
	}

	// Region-based endpoint, e.g. https://blr1.digitaloceanspaces.com
	endpoint := fmt.Sprintf("https://%s.digitaloceanspaces.com", cfg.Storage.Region)

	sess, err := session.NewSession(&aws.Config{
		Credentials: credentials.NewStaticCredentials(
			cfg.Storage.AccessKeyID,
			cfg.Storage.AccessKeySecret,
			"",
		),
		Endpoint:         aws.String(endpoint),
		Region:           aws.String(cfg.Storage.Region),
		S3ForcePathStyle: aws.Bool(false),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create storage session: %w", err)
	}

	logger.Info("Object storage client initialized", map[string]interface{}{
		"bucket_name": cfg.Storage.BucketName,
		"region":      cfg.Storage.Region,
		"endpoint":    endpoint,
	})

	return &SpacesStore{
		client:     s3.New(sess),
		bucketName: cfg.Storage.BucketName,
		bucketURL:  cfg.Storage.BucketURL,
		cdnURL:     cfg.Storage.CDNEndpoint,
		logger:     logger,
	}, nil
}

// Upload stores the file under a fresh object key and returns its public URL
func (s *SpacesStore) Upload(ctx context.Context, in UploadInput) (*UploadResult, error) {
	objectKey := ObjectKey(in.Filename)

	s.logger.Info("Uploading file to object storage", map[string]interface{}{
		"object_key": objectKey,
		"size_bytes": in.Size,
		"mime_type":  in.MimeType,
	})

	_, err := s.client.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucketName),
		Key:           aws.String(objectKey),
		Body:          aws.ReadSeekCloser(in.Body),
		ContentType:   aws.String(in.MimeType),
		ContentLength: aws.Int64(in.Size),
		ACL:           aws.String("public-read"),
	})
	if err != nil {
		s.logger.Error("Failed to upload file to object storage", map[string]interface{}{
			"object_key": objectKey,
			"error":      err.Error(),
		})
		return nil, fmt.Errorf("storage upload failed: %w", err)
	}

	return &UploadResult{
		URL:      s.publicURL(objectKey),
		Path:     objectKey,
		Filename: SanitizeFilename(in.Filename),
		Metadata: map[string]string{
			"bucket": s.bucketName,
			"mime":   in.MimeType,
		},
	}, nil
}

// Delete removes the object at the given key
func (s *SpacesStore) Delete(ctx context.Context, path string) error {
	_, err := s.client.DeleteObjectWithContext(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucketName),
		Key:    aws.String(path),
	})
	if err != nil {
		s.logger.Error("Failed to delete object", map[string]interface{}{
			"object_key": path,
			"error":      err.Error(),
		})
		return fmt.Errorf("storage delete failed: %w", err)
	}

	s.logger.Info("Deleted object", map[string]interface{}{"object_key": path})
	return nil
}

// List returns metadata for objects under the given prefix
func (s *SpacesStore) List(ctx context.Context, prefix string) ([]models.FileInfo, error) {
	result, err := s.client.ListObjectsV2WithContext(ctx, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucketName),
		Prefix: aws.String(prefix),
	})
	if err != nil {
		return nil, fmt.Errorf("storage list failed: %w", err)
	}

	files := make([]models.FileInfo, 0, len(result.Contents))
	for _, obj := range result.Contents {
		files = append(files, models.FileInfo{
			Path:         aws.StringValue(obj.Key),
			SizeBytes:    aws.Int64Value(obj.Size),
			LastModified: aws.TimeValue(obj.LastModified),
		})
	}

	return files, nil
}

// IsHealthy checks whether the bucket is reachable
func (s *SpacesStore) IsHealthy(ctx context.Context) bool {
	_, err := s.client.HeadBucketWithContext(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(s.bucketName),
	})
	if err != nil {
		s.logger.Error("Object storage health check failed", map[string]interface{}{
			"bucket_name": s.bucketName,
			"error":       err.Error(),
		})
		return false
	}
	return true
}

// Name identifies the backing implementation
func (s *SpacesStore) Name() string {
	return "spaces"
}

// publicURL builds a browsable URL for the object, preferring the CDN
func (s *SpacesStore) publicURL(objectKey string) string {
	if s.cdnURL != "" {
		return fmt.Sprintf("%s/%s", strings.TrimRight(s.cdnURL, "/"), objectKey)
	}

	if s.bucketURL != "" {
		base := strings.TrimRight(s.bucketURL, "/")
		if !strings.HasPrefix(base, "https://") {
			base = "https://" + base
		}
		return fmt.Sprintf("%s/%s", base, objectKey)
	}

	region := ""
	if s.client.Config.Region != nil {
		region = *s.client.Config.Region
	}
	return fmt.Sprintf("https://%s.%s.digitaloceanspaces.com/%s", s.bucketName, region, objectKey)
}
