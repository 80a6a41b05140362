package storage

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUploader struct {
	params    uploader.UploadParams
	destroyed string
	err       error
}

func (f *fakeUploader) Upload(_ context.Context, _ interface{}, p uploader.UploadParams) (*uploader.UploadResult, error) {
	f.params = p
	if f.err != nil {
		return nil, f.err
	}
	return &uploader.UploadResult{
		PublicID:  p.Folder + "/" + p.PublicID,
		SecureURL: "https://res.cloudinary.com/demo/image/upload/" + p.Folder + "/" + p.PublicID + ".png",
	}, nil
}

func (f *fakeUploader) Destroy(_ context.Context, p uploader.DestroyParams) (*uploader.DestroyResult, error) {
	f.destroyed = p.PublicID
	return &uploader.DestroyResult{Result: "ok"}, f.err
}

func TestUploadLogo(t *testing.T) {
	up := &fakeUploader{}
	s := NewCloudinaryStorage(up, "demo")

	url, id, err := s.UploadLogo(context.Background(), "biz-1", strings.NewReader("png"))
	require.NoError(t, err)
	assert.Equal(t, "cupbot/logos/biz-1", id)
	assert.Equal(t, "https://res.cloudinary.com/demo/image/upload/cupbot/logos/biz-1.png", url)
	require.NotNil(t, up.params.Overwrite)
	assert.True(t, *up.params.Overwrite)
}

func TestUploadLogo_Errors(t *testing.T) {
	s := NewCloudinaryStorage(&fakeUploader{}, "demo")
	_, _, err := s.UploadLogo(context.Background(), "", strings.NewReader("png"))
	assert.Error(t, err)

	s = NewCloudinaryStorage(&fakeUploader{err: errors.New("timeout")}, "demo")
	_, _, err = s.UploadLogo(context.Background(), "biz-1", strings.NewReader("png"))
	assert.ErrorContains(t, err, "timeout")
	assert.ErrorIs(t, err, ErrUploadFailed)
}

func TestDeleteFile(t *testing.T) {
	up := &fakeUploader{}
	require.NoError(t, NewCloudinaryStorage(up, "demo").DeleteFile(context.Background(), "cupbot/logos/biz-1"))
	assert.Equal(t, "cupbot/logos/biz-1", up.destroyed)
}
