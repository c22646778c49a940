package domain

import (
	"context"

	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"
)

// ProfileTable is the table holding one profile row per user.
const ProfileTable = "profile"

// Profile is the public portfolio record of a creator. Presentation settings
// are stored beside the identity fields. Numeric settings are kept untyped
// because older rows stored them as strings.
type Profile struct {
	ID                *surrealmodels.RecordID       `json:"id,omitempty"`
	Name              *string                       `json:"name,omitempty"`
	About             *string                       `json:"about,omitempty"`
	ProfilePictureURL *string                       `json:"profile_picture_url,omitempty"`
	FontFamily        *string                       `json:"font_family,omitempty"`
	FontSize          any                           `json:"font_size,omitempty"`
	PrimaryColor      *string                       `json:"primary_color,omitempty"`
	SecondaryColor    *string                       `json:"secondary_color,omitempty"`
	GalleryFrameColor *string                       `json:"gallery_frame_color,omitempty"`
	GalleryFrameWidth any                           `json:"gallery_frame_width,omitempty"`
	GalleryGap        any                           `json:"gallery_gap,omitempty"`
	GalleryEffect     *string                       `json:"gallery_effect,omitempty"`
	CreatedAt         *surrealmodels.CustomDateTime `json:"created_at,omitempty"`
	UpdatedAt         *surrealmodels.CustomDateTime `json:"updated_at,omitempty"`
}

// OwnerID returns the record key shared by the profile and its user.
func (p *Profile) OwnerID() string {
	if p == nil || p.ID == nil {
		return ""
	}
	return recordKey(p.ID)
}

// Attributes returns the stored attributes keyed by column name. Attributes
// that are null in storage are absent from the map.
func (p *Profile) Attributes() map[string]any {
	attrs := make(map[string]any, 12)
	putString := func(name string, v *string) {
		if v != nil {
			attrs[name] = *v
		}
	}
	putAny := func(name string, v any) {
		if v != nil {
			attrs[name] = v
		}
	}
	putString("name", p.Name)
	putString("about", p.About)
	putString("profile_picture_url", p.ProfilePictureURL)
	putString("font_family", p.FontFamily)
	putAny("font_size", p.FontSize)
	putString("primary_color", p.PrimaryColor)
	putString("secondary_color", p.SecondaryColor)
	putString("gallery_frame_color", p.GalleryFrameColor)
	putAny("gallery_frame_width", p.GalleryFrameWidth)
	putAny("gallery_gap", p.GalleryGap)
	putString("gallery_effect", p.GalleryEffect)
	return attrs
}

// ProfileRepository defines the contract for profile storage.
type ProfileRepository interface {
	// FindByOwner returns ErrNotFound when the owner has no profile row.
	FindByOwner(ctx context.Context, ownerID string) (*Profile, error)
	Create(ctx context.Context, ownerID, name string) (*Profile, error)
	// Update merges the given column values into the owner's profile.
	Update(ctx context.Context, ownerID string, updates map[string]any) (*Profile, error)
	List(ctx context.Context) ([]*Profile, error)
}

// ProfileRecordID builds the record id of an owner's profile.
func ProfileRecordID(ownerID string) surrealmodels.RecordID {
	return surrealmodels.NewRecordID(ProfileTable, ownerID)
}
