package service

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"

	"github.com/gabriel-vasile/mimetype"
)

// FileUploader stores a named payload and returns its public URL.
type FileUploader interface {
	Upload(ctx context.Context, path string, reader io.Reader) (string, error)
}

// allowed types for question and answer attachments
var allowedUploadTypes = []string{
	"application/pdf",
	"application/zip",
	"application/x-zip-compressed",
	"text/plain",
	"image/png",
	"image/jpeg",
}

func validateFileType(file *multipart.FileHeader) error {
	reader, err := file.Open()
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer reader.Close()

	mime, err := mimetype.DetectReader(reader)
	if err != nil {
		return fmt.Errorf("failed to detect file type: %w", err)
	}

	for _, allowed := range allowedUploadTypes {
		if mime.Is(allowed) {
			return nil
		}
	}

	return fmt.Errorf("unsupported file type: %s", mime.String())
}

func uploadAttachment(ctx context.Context, uploader FileUploader, path string, file *multipart.FileHeader) (string, error) {
	if err := validateFileType(file); err != nil {
		return "", err
	}

	reader, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open file: %w", err)
	}
	defer reader.Close()

	url, err := uploader.Upload(ctx, path, reader)
	if err != nil {
		return "", fmt.Errorf("failed to upload file: %w", err)
	}

	return url, nil
}
