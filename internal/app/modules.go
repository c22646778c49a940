package app

import (
	"github.com/owndesign/owndesign/internal/domain"
	"github.com/owndesign/owndesign/internal/filestore"
	"github.com/owndesign/owndesign/internal/module"
	"github.com/owndesign/owndesign/internal/modules/community"
	"github.com/owndesign/owndesign/internal/modules/gallery"
	"github.com/owndesign/owndesign/internal/modules/portfolio"
	"github.com/owndesign/owndesign/internal/modules/settings"
	"github.com/owndesign/owndesign/internal/pubsub"
	"github.com/owndesign/owndesign/internal/storage"
)

// Dependencies holds the core services that are required by the application's modules.
// This struct is passed from the main application entrypoint to wire up the modules.
type Dependencies struct {
	Users      domain.UserRepository
	Profiles   domain.ProfileRepository
	Gallery    domain.GalleryRepository
	Objects    storage.ObjectStore
	Media      *filestore.Service
	Publisher  pubsub.Publisher
	Subscriber pubsub.Subscriber
}

// NewModules creates and returns the list of all active modules for the application.
// This is the single source of truth for which features are enabled.
func NewModules(deps Dependencies) []module.Module {
	return []module.Module{
		settings.New(settings.Dependencies{
			Users:     deps.Users,
			Profiles:  deps.Profiles,
			Avatars:   deps.Media,
			Publisher: deps.Publisher,
		}),
		portfolio.New(portfolio.Dependencies{
			Users:      deps.Users,
			Profiles:   deps.Profiles,
			Gallery:    deps.Gallery,
			Objects:    deps.Objects,
			Publisher:  deps.Publisher,
			Subscriber: deps.Subscriber,
		}),
		gallery.New(gallery.Dependencies{
			Users:     deps.Users,
			Gallery:   deps.Gallery,
			Media:     deps.Media,
			Publisher: deps.Publisher,
		}),
		community.New(community.Dependencies{
			Users:    deps.Users,
			Profiles: deps.Profiles,
		}),
	}
}
