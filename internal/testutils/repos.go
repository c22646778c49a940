package testutils

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"

	"github.com/owndesign/owndesign/internal/domain"
)

// NewTestRecordID creates a new RecordID with a random key.
func NewTestRecordID(table string) *surrealmodels.RecordID {
	id := surrealmodels.NewRecordID(table, strings.ReplaceAll(uuid.NewString(), "-", ""))
	return &id
}

// ProfileRepo is an in-memory domain.ProfileRepository. Set FindErr or
// UpdateErr to make the next calls fail.
type ProfileRepo struct {
	mu        sync.Mutex
	profiles  map[string]map[string]any
	FindErr   error
	UpdateErr error
	Updates   []map[string]any
}

var _ domain.ProfileRepository = (*ProfileRepo)(nil)

// NewProfileRepo creates an empty repository.
func NewProfileRepo() *ProfileRepo {
	return &ProfileRepo{profiles: make(map[string]map[string]any)}
}

// Put stores raw attributes for an owner, replacing what was there.
func (r *ProfileRepo) Put(ownerID string, attrs map[string]any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := make(map[string]any, len(attrs))
	for k, v := range attrs {
		copied[k] = v
	}
	r.profiles[ownerID] = copied
}

// Attr returns one stored attribute.
func (r *ProfileRepo) Attr(ownerID, name string) any {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.profiles[ownerID][name]
}

func (r *ProfileRepo) FindByOwner(ctx context.Context, ownerID string) (*domain.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.FindErr != nil {
		return nil, r.FindErr
	}
	attrs, ok := r.profiles[ownerID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return toProfile(ownerID, attrs), nil
}

func (r *ProfileRepo) Create(ctx context.Context, ownerID, name string) (*domain.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	attrs := map[string]any{"name": name}
	r.profiles[ownerID] = attrs
	return toProfile(ownerID, attrs), nil
}

func (r *ProfileRepo) Update(ctx context.Context, ownerID string, updates map[string]any) (*domain.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Updates = append(r.Updates, updates)
	if r.UpdateErr != nil {
		return nil, r.UpdateErr
	}
	attrs, ok := r.profiles[ownerID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	for k, v := range updates {
		attrs[k] = v
	}
	return toProfile(ownerID, attrs), nil
}

func (r *ProfileRepo) List(ctx context.Context) ([]*domain.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.FindErr != nil {
		return nil, r.FindErr
	}
	out := make([]*domain.Profile, 0, len(r.profiles))
	for owner, attrs := range r.profiles {
		out = append(out, toProfile(owner, attrs))
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].OwnerID() < out[j].OwnerID()
	})
	return out, nil
}

// UpdateCount returns how many updates were attempted.
func (r *ProfileRepo) UpdateCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.Updates)
}

func toProfile(ownerID string, attrs map[string]any) *domain.Profile {
	id := domain.ProfileRecordID(ownerID)
	p := &domain.Profile{ID: &id}
	str := func(name string) *string {
		if s, ok := attrs[name].(string); ok {
			return &s
		}
		return nil
	}
	p.Name = str("name")
	p.About = str("about")
	p.ProfilePictureURL = str("profile_picture_url")
	p.FontFamily = str("font_family")
	p.PrimaryColor = str("primary_color")
	p.SecondaryColor = str("secondary_color")
	p.GalleryFrameColor = str("gallery_frame_color")
	p.GalleryEffect = str("gallery_effect")
	p.FontSize = attrs["font_size"]
	p.GalleryFrameWidth = attrs["gallery_frame_width"]
	p.GalleryGap = attrs["gallery_gap"]
	if t, ok := attrs["updated_at"].(time.Time); ok {
		p.UpdatedAt = &surrealmodels.CustomDateTime{Time: t}
	}
	return p
}

// GalleryRepo is an in-memory domain.GalleryRepository.
type GalleryRepo struct {
	mu        sync.Mutex
	images    []*domain.GalleryImage
	CreateErr error
	ListErr   error
}

var _ domain.GalleryRepository = (*GalleryRepo)(nil)

// NewGalleryRepo creates an empty repository.
func NewGalleryRepo() *GalleryRepo {
	return &GalleryRepo{}
}

func (r *GalleryRepo) ListByOwner(ctx context.Context, ownerID string) ([]*domain.GalleryImage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.ListErr != nil {
		return nil, r.ListErr
	}
	var out []*domain.GalleryImage
	for _, img := range r.images {
		if img.OwnerID() == ownerID {
			out = append(out, img)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].UploadedAt.After(out[j].UploadedAt.Time)
	})
	return out, nil
}

func (r *GalleryRepo) Create(ctx context.Context, image *domain.GalleryImage) (*domain.GalleryImage, error) {
	if err := image.Validate(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.CreateErr != nil {
		return nil, r.CreateErr
	}
	stored := *image
	stored.ID = NewTestRecordID(domain.GalleryImageTable)
	if stored.UploadedAt == nil {
		stored.UploadedAt = &surrealmodels.CustomDateTime{Time: time.Now().UTC()}
	}
	r.images = append(r.images, &stored)
	return &stored, nil
}

func (r *GalleryRepo) FindByKey(ctx context.Context, key string) (*domain.GalleryImage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, img := range r.images {
		if img.Key() == key {
			return img, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *GalleryRepo) DeleteByKey(ctx context.Context, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, img := range r.images {
		if img.Key() == key {
			r.images = append(r.images[:i], r.images[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

// UserRepo is an in-memory domain.UserRepository. Tokens are "token-<key>".
type UserRepo struct {
	mu        sync.Mutex
	users     map[string]*domain.User
	passwords map[string]string
}

var _ domain.UserRepository = (*UserRepo)(nil)

// NewUserRepo creates an empty repository.
func NewUserRepo() *UserRepo {
	return &UserRepo{users: make(map[string]*domain.User), passwords: make(map[string]string)}
}

func (r *UserRepo) SignUp(ctx context.Context, user *domain.User, password string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.Email]; ok {
		return "", domain.ErrUserAlreadyExists
	}
	stored := *user
	stored.Password = ""
	stored.ID = NewTestRecordID("user")
	r.users[user.Email] = &stored
	r.passwords[user.Email] = password
	return "token-" + stored.OwnerID(), nil
}

func (r *UserRepo) SignIn(ctx context.Context, user *domain.User, password string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.users[user.Email]
	if !ok || r.passwords[user.Email] != password {
		return "", domain.ErrInvalidCredentials
	}
	return "token-" + stored.OwnerID(), nil
}

func (r *UserRepo) Authenticate(ctx context.Context, token string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if "token-"+u.OwnerID() == token {
			copied := *u
			return &copied, nil
		}
	}
	return nil, domain.ErrInvalidCredentials
}

func (r *UserRepo) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[email]; ok {
		copied := *u
		return &copied, nil
	}
	return nil, domain.ErrNotFound
}
