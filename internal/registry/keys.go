package registry

import (
	"github.com/owndesign/owndesign/internal/domain"
	"github.com/owndesign/owndesign/internal/filestore"
	"github.com/owndesign/owndesign/internal/pubsub"
	"github.com/owndesign/owndesign/internal/storage"
)

// Service keys shared between modules. Using typed constants prevents typos
// and lets Get return the right type.
const (
	UserRepositoryKey    Key[domain.UserRepository]    = "core.users"
	ProfileRepositoryKey Key[domain.ProfileRepository] = "core.profiles"
	GalleryRepositoryKey Key[domain.GalleryRepository] = "core.gallery"
	ObjectStoreKey       Key[storage.ObjectStore]      = "core.objects"
	MediaServiceKey      Key[*filestore.Service]       = "core.media"
	PublisherKey         Key[pubsub.Publisher]         = "core.publisher"
	SubscriberKey        Key[pubsub.Subscriber]        = "core.subscriber"
)
