package storage

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/google/uuid"

	"github.com/kraakman/autoservice-backend/pkg/logger"
)

// PhotoStorage stores car photos in an S3 bucket under cars/<carID>/.
type PhotoStorage struct {
	client  *s3.Client
	bucket  string
	baseURL string
}

// UploadResult is the stored location of one uploaded photo.
type UploadResult struct {
	URL string
	Key string
}

func NewPhotoStorage(region, bucket, accessKeyID, secretAccessKey, baseURL string) *PhotoStorage {
	var cfg aws.Config
	var err error

	// If credentials are provided, use them. Otherwise, use default credential chain
	if accessKeyID != "" && secretAccessKey != "" {
		cfg = aws.Config{
			Region: region,
			Credentials: credentials.NewStaticCredentialsProvider(
				accessKeyID,
				secretAccessKey,
				"",
			),
		}
	} else {
		cfg, err = awsconfig.LoadDefaultConfig(context.TODO(),
			awsconfig.WithRegion(region),
		)
		if err != nil {
			cfg = aws.Config{
				Region: region,
			}
		}
	}

	client := s3.NewFromConfig(cfg)

	return &PhotoStorage{
		client:  client,
		bucket:  bucket,
		baseURL: baseURL,
	}
}

// Upload stores one photo and returns its public URL and object key.
func (s *PhotoStorage) Upload(ctx context.Context, carID uint, filename, contentType string, body io.Reader) (*UploadResult, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	key := fmt.Sprintf("cars/%d/%s%s", carID, uuid.New().String(), ext)

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
		Body:        body,
	})
	if err != nil {
		logger.Error("Failed to upload photo to S3", err, map[string]interface{}{
			"car_id": carID,
			"key":    key,
		})
		return nil, fmt.Errorf("failed to upload photo: %w", err)
	}

	logger.Debug("Photo uploaded to S3", map[string]interface{}{
		"car_id": carID,
		"key":    key,
	})

	return &UploadResult{
		URL: s.publicURL(key),
		Key: key,
	}, nil
}

// Remove deletes stored photos. Missing keys are not an error.
func (s *PhotoStorage) Remove(ctx context.Context, keys []string) error {
	if len(keys) == 0 {
		return nil
	}

	objects := make([]types.ObjectIdentifier, 0, len(keys))
	for _, key := range keys {
		objects = append(objects, types.ObjectIdentifier{Key: aws.String(key)})
	}

	_, err := s.client.DeleteObjects(ctx, &s3.DeleteObjectsInput{
		Bucket: aws.String(s.bucket),
		Delete: &types.Delete{
			Objects: objects,
			Quiet:   aws.Bool(true),
		},
	})
	if err != nil {
		logger.Error("Failed to delete photos from S3", err, map[string]interface{}{
			"count": len(keys),
		})
		return fmt.Errorf("failed to delete photos: %w", err)
	}

	logger.Debug("Photos deleted from S3", map[string]interface{}{
		"count": len(keys),
	})
	return nil
}

func (s *PhotoStorage) publicURL(key string) string {
	if s.baseURL != "" {
		// CloudFront or custom domain
		return fmt.Sprintf("%s/%s", s.baseURL, key)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.client.Options().Region, key)
}

// ValidateFileSize validates the file size
func ValidateFileSize(size int64, maxSize int64) error {
	if size > maxSize {
		return fmt.Errorf("file size exceeds maximum allowed size of %d bytes", maxSize)
	}
	return nil
}

// ValidateContentType validates the content type
func ValidateContentType(contentType string, allowedTypes []string) error {
	for _, allowed := range allowedTypes {
		if contentType == allowed {
			return nil
		}
	}
	return fmt.Errorf("content type %s is not allowed", contentType)
}
