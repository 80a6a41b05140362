package storage

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

const logoFolder = "cupbot/logos"

// ErrUploadFailed wraps every failure reported by the media provider.
var ErrUploadFailed = errors.New("upload failed")

// CloudinaryStorage implements StorageService on Cloudinary.
type CloudinaryStorage struct {
	uploader  Uploader
	cloudName string
}

func NewCloudinaryStorage(u Uploader, cloudName string) *CloudinaryStorage {
	return &CloudinaryStorage{uploader: u, cloudName: cloudName}
}

// UploadLogo uploads under a fixed public id per business so a new logo
// overwrites the old one.
func (s *CloudinaryStorage) UploadLogo(ctx context.Context, businessID string, file io.Reader) (string, string, error) {
	if businessID == "" {
		return "", "", errors.New("CloudinaryStorage: business id is required")
	}
	overwrite := true
	result, err := s.uploader.Upload(ctx, file, uploader.UploadParams{
		Folder:       logoFolder,
		PublicID:     businessID,
		Overwrite:    &overwrite,
		ResourceType: "image",
	})
	if err != nil {
		return "", "", fmt.Errorf("CloudinaryStorage: %w: %w", ErrUploadFailed, err)
	}
	if result.Error.Message != "" {
		return "", "", fmt.Errorf("CloudinaryStorage: %w: %s", ErrUploadFailed, result.Error.Message)
	}
	if result.PublicID == "" {
		return "", "", fmt.Errorf("CloudinaryStorage: %w: no public ID returned", ErrUploadFailed)
	}
	return result.SecureURL, result.PublicID, nil
}

func (s *CloudinaryStorage) DeleteFile(ctx context.Context, publicID string) error {
	result, err := s.uploader.Destroy(ctx, uploader.DestroyParams{PublicID: publicID})
	if err != nil {
		return fmt.Errorf("CloudinaryStorage: failed to delete file: %w", err)
	}
	if result != nil && result.Error.Message != "" {
		return fmt.Errorf("CloudinaryStorage: delete rejected: %s", result.Error.Message)
	}
	return nil
}
