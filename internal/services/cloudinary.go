package services

import (
	"context"
	"fmt"
	"mime/multipart"

	"github.com/TripTally/TripTally-backend/internal/config"
	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// CloudinaryService héberge les visuels de badges d'achievements
type CloudinaryService struct {
	cld *cloudinary.Cloudinary
}

func NewCloudinaryService(cfg *config.Config) (*CloudinaryService, error) {
	if cfg.Cloudinary.CloudName == "" || cfg.Cloudinary.APIKey == "" || cfg.Cloudinary.APISecret == "" {
		return nil, fmt.Errorf("cloudinary configuration is missing")
	}

	cld, err := cloudinary.NewFromParams(
		cfg.Cloudinary.CloudName,
		cfg.Cloudinary.APIKey,
		cfg.Cloudinary.APISecret,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cloudinary: %w", err)
	}

	return &CloudinaryService{cld: cld}, nil
}

// UploadBadge upload le visuel d'un badge d'achievement
func (s *CloudinaryService) UploadBadge(ctx context.Context, file multipart.File, achievementID string) (string, error) {
	publicID := fmt.Sprintf("badges/%s", achievementID)
	overwrite := true

	uploadResult, err := s.cld.Upload.Upload(ctx, file, uploader.UploadParams{
		PublicID:       publicID,
		Folder:         "triptally/badges",
		Overwrite:      &overwrite,
		ResourceType:   "image",
		Format:         "png",
		Transformation: "c_fit,h_256,w_256", // format carré pour les badges
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload badge to cloudinary: %w", err)
	}

	return uploadResult.SecureURL, nil
}

// DeleteBadge supprime le visuel d'un badge
func (s *CloudinaryService) DeleteBadge(ctx context.Context, achievementID string) error {
	_, err := s.cld.Upload.Destroy(ctx, uploader.DestroyParams{
		PublicID:     fmt.Sprintf("badges/%s", achievementID),
		ResourceType: "image",
	})
	if err != nil {
		return fmt.Errorf("failed to delete badge: %w", err)
	}
	return nil
}
