// Package events declares the typed messages exchanged over the in-process bus.
package events

import (
	"time"

	"github.com/owndesign/owndesign/internal/pubsub"
)

// ProfileChanged is published after a creator's stored profile changed.
type ProfileChanged struct {
	OwnerID    string    `json:"owner_id"`
	Attributes []string  `json:"attributes,omitempty"`
	At         time.Time `json:"at"`
}

// GalleryChanged is published after an image was added to or removed from a
// creator's gallery.
type GalleryChanged struct {
	OwnerID  string `json:"owner_id"`
	ImageKey string `json:"image_key"`
}

var (
	ProfileSaved  = pubsub.NewEvent[ProfileChanged]("profile.saved")
	AvatarUpdated = pubsub.NewEvent[ProfileChanged]("profile.avatar_updated")

	ImageAdded   = pubsub.NewEvent[GalleryChanged]("gallery.image_added")
	ImageDeleted = pubsub.NewEvent[GalleryChanged]("gallery.image_deleted")
)
