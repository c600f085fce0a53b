// Package media stores uploaded images in S3 and hands out presigned URLs.
// It is optional infrastructure: when no bucket is configured the rest of
// the application simply skips uploads.
package media

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"

	"github.com/doggofresh/backend/config"
)

const presignTTL = 24 * time.Hour

// Service uploads media objects to the configured bucket.
type Service struct {
	s3cfg  *config.S3Config
	logger *zap.Logger
}

// NewService creates a media service. Returns nil when s3cfg is nil so
// callers can treat the service as absent.
func NewService(s3cfg *config.S3Config, logger *zap.Logger) *Service {
	if s3cfg == nil {
		return nil
	}
	return &Service{s3cfg: s3cfg, logger: logger}
}

// UploadQuizPhoto stores a base64-encoded quiz photo under the submission id
// and returns a presigned URL for it.
func (s *Service) UploadQuizPhoto(ctx context.Context, submissionID, base64Data, mimeType string) (string, error) {
	key := fmt.Sprintf("quiz/%s%s", submissionID, extensionFor(mimeType))
	return s.upload(ctx, key, base64Data, mimeType)
}

// UploadPetPhoto stores a base64-encoded pet photo under the owning user.
func (s *Service) UploadPetPhoto(ctx context.Context, userID, petID, base64Data, mimeType string) (string, error) {
	key := fmt.Sprintf("pets/%s/%s%s", userID, petID, extensionFor(mimeType))
	return s.upload(ctx, key, base64Data, mimeType)
}

func (s *Service) upload(ctx context.Context, key, base64Data, mimeType string) (string, error) {
	data, err := base64.StdEncoding.DecodeString(base64Data)
	if err != nil {
		return "", fmt.Errorf("invalid base64 payload: %w", err)
	}

	_, err = s.s3cfg.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.s3cfg.BucketName),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(mimeType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", key, err)
	}

	url, err := s.s3cfg.GeneratePresignedURL(ctx, key, presignTTL)
	if err != nil {
		return "", fmt.Errorf("failed to presign %s: %w", key, err)
	}

	s.logger.Info("uploaded media object", zap.String("key", key))
	return url, nil
}

func extensionFor(mimeType string) string {
	switch mimeType {
	case "image/png":
		return ".png"
	case "image/webp":
		return ".webp"
	default:
		return ".jpg"
	}
}
