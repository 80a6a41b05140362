package storage

import (
	"context"
	"io"

	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// StorageService stores business media.
type StorageService interface {
	// UploadLogo replaces a business logo and returns its public URL and id.
	UploadLogo(ctx context.Context, businessID string, file io.Reader) (url, publicID string, err error)
	DeleteFile(ctx context.Context, publicID string) error
}

// Uploader is the part of the Cloudinary upload API the service uses.
type Uploader interface {
	Upload(ctx context.Context, file interface{}, params uploader.UploadParams) (*uploader.UploadResult, error)
	Destroy(ctx context.Context, params uploader.DestroyParams) (*uploader.DestroyResult, error)
}
