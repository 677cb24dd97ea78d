package service

import (
	"bytes"
	"context"
	"fmt"

	"tamvems/internal/entities"
	"tamvems/internal/httperr"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// MaxUploadSize caps every upload class at 5MB.
const MaxUploadSize = 5 << 20

var documentMimeTypes = map[string]bool{
	"application/pdf": true,
	"image/jpeg":      true,
	"image/png":       true,
}

var photoMimeTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/tiff": true,
}

// ValidateDocument checks a booking supporting document against its size and
// mime allow-list before anything touches the media host.
func ValidateDocument(u *entities.Upload) error {
	return validateUpload(u, documentMimeTypes, "document")
}

// ValidatePhoto checks a vehicle photo against its allow-list.
func ValidatePhoto(u *entities.Upload) error {
	return validateUpload(u, photoMimeTypes, "photo")
}

func validateUpload(u *entities.Upload, allowed map[string]bool, field string) error {
	if u.Size > MaxUploadSize {
		return httperr.Validation(field, "file exceeds the 5MB limit")
	}
	if !allowed[u.ContentType] {
		return httperr.Validation(field, "unsupported file type "+u.ContentType)
	}
	return nil
}

// CloudinaryUploader stores uploads on Cloudinary and keeps only the secure
// URL it returns.
type CloudinaryUploader struct {
	cld *cloudinary.Cloudinary
	log *zap.Logger
}

func NewCloudinaryUploader(cloudinaryURL string, log *zap.Logger) (*CloudinaryUploader, error) {
	cld, err := cloudinary.NewFromURL(cloudinaryURL)
	if err != nil {
		return nil, fmt.Errorf("init cloudinary: %w", err)
	}
	return &CloudinaryUploader{cld: cld, log: log}, nil
}

func (c *CloudinaryUploader) UploadDocument(ctx context.Context, u *entities.Upload) (string, error) {
	return c.upload(ctx, u, "tamvems/documents")
}

func (c *CloudinaryUploader) UploadPhoto(ctx context.Context, u *entities.Upload) (string, error) {
	return c.upload(ctx, u, "tamvems/vehicles")
}

func (c *CloudinaryUploader) upload(ctx context.Context, u *entities.Upload, folder string) (string, error) {
	resp, err := c.cld.Upload.Upload(ctx, bytes.NewReader(u.Data), uploader.UploadParams{
		Folder:   folder,
		PublicID: uuid.NewString(),
	})
	if err != nil {
		return "", fmt.Errorf("cloudinary upload: %w", err)
	}
	c.log.Debug("uploaded file",
		zap.String("folder", folder),
		zap.String("filename", u.Filename),
		zap.Int64("size", u.Size))
	return resp.SecureURL, nil
}

// DisabledUploader stands in when CLOUDINARY_URL is not configured; every
// upload fails as an upstream error.
type DisabledUploader struct{}

func (DisabledUploader) UploadDocument(context.Context, *entities.Upload) (string, error) {
	return "", fmt.Errorf("media storage is not configured")
}

func (DisabledUploader) UploadPhoto(context.Context, *entities.Upload) (string, error) {
	return "", fmt.Errorf("media storage is not configured")
}
