package domain

import (
	"context"
	"fmt"

	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"
)

// GalleryImageTable is the table holding gallery entries.
const GalleryImageTable = "gallery_image"

// GalleryImage is one picture in a creator's portfolio. The bytes live in
// object storage under StoragePath; ImageURL is its public address.
type GalleryImage struct {
	ID          *surrealmodels.RecordID       `json:"id,omitempty"`
	ProfileID   *surrealmodels.RecordID       `json:"profile_id,omitempty" validate:"required"`
	ImageURL    string                        `json:"image_url" validate:"required"`
	StoragePath string                        `json:"storage_path,omitempty" validate:"omitempty,safepath"`
	Title       string                        `json:"title" validate:"max=255"`
	Description string                        `json:"description" validate:"max=2000"`
	UploadedAt  *surrealmodels.CustomDateTime `json:"uploaded_at,omitempty"`
}

// Validate runs validation checks on the GalleryImage using the defined tags.
func (g *GalleryImage) Validate() error {
	return validatorInstance.Struct(g)
}

// Key returns the record key without the table prefix, for use in URLs.
func (g *GalleryImage) Key() string {
	if g == nil || g.ID == nil {
		return ""
	}
	return recordKey(g.ID)
}

// OwnerID returns the owner identity of the profile the image belongs to.
func (g *GalleryImage) OwnerID() string {
	if g == nil || g.ProfileID == nil {
		return ""
	}
	return recordKey(g.ProfileID)
}

// GalleryRepository defines the contract for gallery metadata storage.
type GalleryRepository interface {
	// ListByOwner returns the owner's images, newest first.
	ListByOwner(ctx context.Context, ownerID string) ([]*GalleryImage, error)
	Create(ctx context.Context, image *GalleryImage) (*GalleryImage, error)
	// FindByKey returns ErrNotFound when no image has the given key.
	FindByKey(ctx context.Context, key string) (*GalleryImage, error)
	DeleteByKey(ctx context.Context, key string) error
}

func recordKey(id *surrealmodels.RecordID) string {
	return fmt.Sprint(id.ID)
}
