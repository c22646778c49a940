package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"

	"github.com/owndesign/owndesign/internal/domain"
)

var _ domain.GalleryRepository = (*GalleryStore)(nil)

// GalleryStore persists gallery image metadata.
type GalleryStore struct {
	client Client[domain.GalleryImage]
	now    func() time.Time
}

// NewGalleryStore creates a new GalleryStore with the given database client.
func NewGalleryStore(client Client[domain.GalleryImage]) *GalleryStore {
	return &GalleryStore{client: client, now: time.Now}
}

// ListByOwner returns the owner's images, newest first.
func (s *GalleryStore) ListByOwner(ctx context.Context, ownerID string) ([]*domain.GalleryImage, error) {
	query := "SELECT * FROM gallery_image WHERE profile_id = $profile ORDER BY uploaded_at DESC"
	rows, err := s.client.Query(ctx, query, map[string]any{
		"profile": domain.ProfileRecordID(ownerID),
	})
	if err != nil {
		return nil, err
	}
	out := make([]*domain.GalleryImage, 0, len(rows))
	for i := range rows {
		out = append(out, &rows[i])
	}
	return out, nil
}

// Create inserts a new image record.
func (s *GalleryStore) Create(ctx context.Context, image *domain.GalleryImage) (*domain.GalleryImage, error) {
	if image == nil {
		return nil, errors.New("image to create cannot be nil")
	}
	if err := image.Validate(); err != nil {
		return nil, fmt.Errorf("validation failed for gallery image: %w", err)
	}
	if image.UploadedAt == nil {
		image.UploadedAt = &surrealmodels.CustomDateTime{Time: s.now().UTC()}
	}

	data := map[string]any{
		"profile_id":   image.ProfileID,
		"image_url":    image.ImageURL,
		"storage_path": image.StoragePath,
		"title":        image.Title,
		"description":  image.Description,
		"uploaded_at":  image.UploadedAt,
	}

	created, err := s.client.Create(ctx, domain.GalleryImageTable, data)
	if err != nil {
		return nil, fmt.Errorf("failed to create gallery image: %w", err)
	}
	return created, nil
}

// FindByKey retrieves an image by its record key.
func (s *GalleryStore) FindByKey(ctx context.Context, key string) (*domain.GalleryImage, error) {
	if key == "" {
		return nil, domain.ErrNotFound
	}
	image, err := s.client.Select(ctx, domain.GalleryImageTable+":"+key)
	if err != nil {
		if errors.Is(err, ErrNotFound) || errors.Is(err, ErrInvalidID) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return image, nil
}

// DeleteByKey removes an image record.
func (s *GalleryStore) DeleteByKey(ctx context.Context, key string) error {
	return s.client.Delete(ctx, domain.GalleryImageTable+":"+key)
}
