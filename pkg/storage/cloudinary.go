package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// ImageStorage defines the contract for the image storage provider.
// Category images and user avatars are kept in separate logical folders.
type ImageStorage interface {
	// UploadImage uploads an image from the reader and returns its URL.
	// folder is the logical folder in storage (e.g. "categories", "avatars").
	UploadImage(ctx context.Context, r io.Reader, folder, fileName string) (string, error)
	// DeleteImage deletes an image from storage using its URL.
	DeleteImage(ctx context.Context, fileURL string) error
}

type cloudinaryStorage struct {
	cld        *cloudinary.Cloudinary
	baseFolder string
}

// NewCloudinaryStorage creates a Cloudinary-backed ImageStorage.
// It expects CLOUDINARY_URL or the individual CLOUDINARY_CLOUD_NAME /
// CLOUDINARY_API_KEY / CLOUDINARY_API_SECRET environment variables.
func NewCloudinaryStorage() (ImageStorage, error) {
	// cloudinary.New() reads CLOUDINARY_URL from the environment if present.
	cld, err := cloudinary.New()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cloudinary client: %w", err)
	}

	cld.Config.URL.Secure = true

	if cloudName := os.Getenv("CLOUDINARY_CLOUD_NAME"); cloudName != "" {
		cld.Config.Cloud.CloudName = cloudName
	}

	baseFolder := os.Getenv("CLOUDINARY_UPLOAD_FOLDER")
	if baseFolder == "" {
		baseFolder = "inventory"
	}

	return &cloudinaryStorage{cld: cld, baseFolder: baseFolder}, nil
}

func (s *cloudinaryStorage) UploadImage(ctx context.Context, r io.Reader, folder, fileName string) (string, error) {
	if s == nil || s.cld == nil {
		return "", fmt.Errorf("cloudinary storage is not initialized")
	}

	if ctx == nil {
		ctx = context.Background()
	}

	publicID := fmt.Sprintf("%d-%s", time.Now().UnixNano(), strings.TrimSuffix(fileName, filepath.Ext(fileName)))

	params := uploader.UploadParams{
		Folder:         s.baseFolder + "/" + folder,
		PublicID:       publicID,
		UseFilename:    api.Bool(true),
		UniqueFilename: api.Bool(true),
		Overwrite:      api.Bool(false),
	}

	// Compress known raster formats; anything else is uploaded as-is.
	ext := strings.ToLower(filepath.Ext(fileName))
	switch ext {
	case ".jpg", ".jpeg", ".png", ".bmp", ".tiff", ".gif", ".webp":
		params.Format = "webp"
		params.Transformation = "q_auto"
	}

	resp, err := s.cld.Upload.Upload(ctx, r, params)
	if err != nil {
		return "", fmt.Errorf("failed to upload image to cloudinary: %w", err)
	}

	if resp.SecureURL == "" {
		return "", fmt.Errorf("cloudinary upload succeeded but secure URL is empty")
	}

	return resp.SecureURL, nil
}

func (s *cloudinaryStorage) DeleteImage(ctx context.Context, fileURL string) error {
	if s == nil || s.cld == nil {
		return fmt.Errorf("cloudinary storage is not initialized")
	}

	publicID := extractPublicID(fileURL)
	if publicID == "" {
		return fmt.Errorf("could not extract public ID from URL: %s", fileURL)
	}

	// Invalidate clears the CDN cache for the deleted asset
	params := uploader.DestroyParams{
		PublicID:   publicID,
		Invalidate: api.Bool(true),
	}

	resp, err := s.cld.Upload.Destroy(ctx, params)
	if err != nil {
		return fmt.Errorf("failed to delete image from cloudinary: %w", err)
	}

	if resp.Result != "ok" && resp.Result != "not found" {
		return fmt.Errorf("cloudinary destroy api returned result: %s", resp.Result)
	}

	return nil
}

// extractPublicID extracts the public ID from a Cloudinary delivery URL.
// Example: https://res.cloudinary.com/demo/image/upload/v123/inventory/categories/x.webp
// -> inventory/categories/x
func extractPublicID(fileURL string) string {
	u, err := url.Parse(fileURL)
	if err != nil {
		return ""
	}

	parts := strings.Split(u.Path, "/")
	uploadIndex := -1
	for i, p := range parts {
		if p == "upload" {
			uploadIndex = i
			break
		}
	}

	if uploadIndex == -1 || uploadIndex+1 >= len(parts) {
		return ""
	}

	relevant := parts[uploadIndex+1:]

	// Skip the optional v<version> segment
	if len(relevant) > 0 && strings.HasPrefix(relevant[0], "v") {
		allDigits := len(relevant[0]) > 1
		for _, r := range relevant[0][1:] {
			if r < '0' || r > '9' {
				allDigits = false
				break
			}
		}
		if allDigits {
			relevant = relevant[1:]
		}
	}

	if len(relevant) == 0 {
		return ""
	}

	publicIDWithExt := strings.Join(relevant, "/")
	return strings.TrimSuffix(publicIDWithExt, filepath.Ext(publicIDWithExt))
}
