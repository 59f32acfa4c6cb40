package storage

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/rs/zerolog"
)

// Config contains credentials required to talk to Cloudinary.
type Config struct {
	CloudName string
	APIKey    string
	APISecret string
	Folder    string
}

// Service uploads exam artifacts to Cloudinary and returns their public URLs.
type Service struct {
	client *cloudinary.Cloudinary
	folder string
	logger zerolog.Logger
}

// New constructs a Cloudinary-backed storage service.
func New(cfg Config, logger zerolog.Logger) (*Service, error) {
	if cfg.CloudName == "" || cfg.APIKey == "" || cfg.APISecret == "" {
		return nil, fmt.Errorf("cloudinary credentials must be provided")
	}

	cld, err := cloudinary.NewFromParams(cfg.CloudName, cfg.APIKey, cfg.APISecret)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cloudinary: %w", err)
	}

	return &Service{
		client: cld,
		folder: cfg.Folder,
		logger: logger.With().Str("component", "storage").Logger(),
	}, nil
}

// Upload stores the payload under the given path and returns a retrievable
// public URL. The path is deterministic: re-uploading the same path
// overwrites the previous asset instead of accumulating copies.
func (s *Service) Upload(ctx context.Context, path string, reader io.Reader) (string, error) {
	folder := strings.Trim(s.folder, "/")

	overwrite := true
	params := uploader.UploadParams{
		Folder:       folder,
		PublicID:     SanitizePath(path),
		Overwrite:    &overwrite,
		ResourceType: "auto",
	}

	result, err := s.client.Upload.Upload(ctx, reader, params)
	if err != nil {
		return "", fmt.Errorf("failed to upload asset: %w", err)
	}

	s.logger.Info().Str("public_id", result.PublicID).Msg("file uploaded")

	return result.SecureURL, nil
}

// SanitizePath normalizes a storage path, keeping slashes as segment
// separators and replacing any other unsafe rune.
func SanitizePath(path string) string {
	path = strings.TrimSuffix(path, filepath.Ext(path))

	segments := strings.Split(path, "/")
	for i, segment := range segments {
		segments[i] = strings.Trim(strings.Map(func(r rune) rune {
			if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '_' {
				return r
			}
			return '-'
		}, segment), "-")
	}

	return strings.Trim(strings.Join(segments, "/"), "/")
}

// QuestionFilePath derives the storage path for a question attachment.
func QuestionFilePath(examID uint, filename string) string {
	return fmt.Sprintf("questions/%d_%s", examID, filename)
}

// AnswerFilePath derives the storage path for an answer attachment from the
// exam, student, and original filename.
func AnswerFilePath(examID uint, studentID, filename string) string {
	return fmt.Sprintf("answers/%d_%s_%s", examID, studentID, filename)
}
