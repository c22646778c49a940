package settings

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/owndesign/owndesign/internal/domain"
	"github.com/owndesign/owndesign/internal/events"
	"github.com/owndesign/owndesign/internal/filestore"
	"github.com/owndesign/owndesign/internal/pubsub"
)

// AvatarPrefix is the object storage folder holding profile pictures.
const AvatarPrefix = "avatars/"

// ErrNotLoaded is returned when saving a form whose profile was never loaded.
var ErrNotLoaded = errors.New("profile has not been loaded")

// Profiles is the part of the profile repository the form needs.
type Profiles interface {
	FindByOwner(ctx context.Context, ownerID string) (*domain.Profile, error)
	Update(ctx context.Context, ownerID string, updates map[string]any) (*domain.Profile, error)
}

// AvatarStore places validated uploads in public storage.
type AvatarStore interface {
	Store(ctx context.Context, path string, u filestore.Upload) (string, error)
	Remove(ctx context.Context, path string) error
}

// Option configures a Controller.
type Option func(*Controller)

// WithClock replaces the time source used for timestamps and object names.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

// WithPublisher announces saves and avatar changes on the bus.
func WithPublisher(p pubsub.Publisher) Option {
	return func(c *Controller) { c.publisher = p }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) { c.logger = l }
}

// Controller owns the settings form of one creator: its values, the derived
// preview and the dirty tracker. Each open editor has its own Controller.
type Controller struct {
	owner     string
	profiles  Profiles
	avatars   AvatarStore
	publisher pubsub.Publisher
	logger    *slog.Logger
	now       func() time.Time

	mu      sync.RWMutex
	values  Values
	preview Preview
	loaded  bool
	// edits counts accepted inputs so a save only clears the flag when
	// nothing changed while it was in flight.
	edits uint64

	tracker *Tracker

	loading   sync.Mutex
	saving    sync.Mutex
	uploading sync.Mutex
}

// NewController creates the form for owner populated with default values.
func NewController(owner string, profiles Profiles, avatars AvatarStore, opts ...Option) *Controller {
	c := &Controller{
		owner:    owner,
		profiles: profiles,
		avatars:  avatars,
		logger:   slog.Default(),
		now:      time.Now,
		values:   DefaultValues(),
		tracker:  NewTracker(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.preview = Render(c.values)
	return c
}

// Owner returns the identity the form edits.
func (c *Controller) Owner() string {
	return c.owner
}

// Values returns a copy of the current form values.
func (c *Controller) Values() Values {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.values
}

// Preview returns the preview derived from the current values.
func (c *Controller) Preview() Preview {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.preview
}

// Loaded reports whether a profile has been loaded into the form.
func (c *Controller) Loaded() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loaded
}

// Tracker exposes the dirty tracker for the navigation guards.
func (c *Controller) Tracker() *Tracker {
	return c.tracker
}

// Load fetches the owner's profile and replaces the form values. On failure
// the form keeps its current values and dirty state.
func (c *Controller) Load(ctx context.Context) error {
	if !c.loading.TryLock() {
		return ErrBusy
	}
	defer c.loading.Unlock()
	return c.load(ctx)
}

func (c *Controller) load(ctx context.Context) error {
	profile, err := c.profiles.FindByOwner(ctx, c.owner)
	if err == nil && profile == nil {
		err = domain.ErrNotFound
	}
	if err != nil {
		c.logger.Warn("Failed to load profile for settings", "owner", c.owner, "error", err)
		return &LoadError{Owner: c.owner, Err: err}
	}

	c.mu.Lock()
	c.values = DefaultValues().Apply(profile.Attributes())
	c.preview = Render(c.values)
	c.loaded = true
	c.mu.Unlock()

	c.tracker.MarkClean()
	return nil
}

// Input applies an edit of the field with the given form id and returns the
// refreshed preview.
func (c *Controller) Input(id, value string) (Preview, error) {
	f, ok := Lookup(id)
	if !ok {
		return c.Preview(), fmt.Errorf("%w: %q", ErrUnknownField, id)
	}

	c.mu.Lock()
	c.values.Set(f, value)
	c.preview = Render(c.values)
	c.edits++
	p := c.preview
	c.mu.Unlock()

	c.tracker.MarkDirty(f)
	return p, nil
}

// Save writes every registry field and the update timestamp in one update.
// A rejected update leaves the form dirty and returns a *SaveError carrying
// the backend's message.
func (c *Controller) Save(ctx context.Context) error {
	if !c.saving.TryLock() {
		return ErrBusy
	}
	defer c.saving.Unlock()

	c.mu.RLock()
	if !c.loaded {
		c.mu.RUnlock()
		return &SaveError{Message: "The profile has not been loaded yet.", Err: ErrNotLoaded}
	}
	updates := c.values.Updates()
	snapshot := c.edits
	c.mu.RUnlock()

	at := c.now().UTC()
	updates[UpdatedAtAttribute] = at

	if _, err := c.profiles.Update(ctx, c.owner, updates); err != nil {
		c.logger.Error("Failed to save settings", "owner", c.owner, "error", err)
		return &SaveError{Message: rootMessage(err), Err: err}
	}

	c.mu.RLock()
	unchanged := c.edits == snapshot
	c.mu.RUnlock()
	if unchanged {
		c.tracker.MarkClean()
	}

	c.publish(ctx, events.ProfileSaved, events.ProfileChanged{
		OwnerID:    c.owner,
		Attributes: attributeNames(updates),
		At:         at,
	})
	return nil
}

// Reset discards unsaved edits by reloading the stored profile.
func (c *Controller) Reset(ctx context.Context) error {
	if !c.saving.TryLock() {
		return ErrBusy
	}
	defer c.saving.Unlock()
	if !c.loading.TryLock() {
		return ErrBusy
	}
	defer c.loading.Unlock()
	return c.load(ctx)
}

// UploadAvatar stores a new profile picture and writes its public URL to the
// profile right away. The form is marked dirty as soon as a file is chosen.
// When any step fails the previous avatar stays in place.
func (c *Controller) UploadAvatar(ctx context.Context, u filestore.Upload) (string, error) {
	if !c.uploading.TryLock() {
		return "", ErrBusy
	}
	defer c.uploading.Unlock()

	c.mu.Lock()
	c.edits++
	c.mu.Unlock()
	c.tracker.MarkDirty()

	at := c.now()
	objectPath := fmt.Sprintf("%s%s-%d%s", AvatarPrefix, c.owner, at.UnixMilli(), filestore.Ext(u.Filename, u.ContentType))

	url, err := c.avatars.Store(ctx, objectPath, u)
	if err != nil {
		c.logger.Error("Failed to store avatar", "owner", c.owner, "path", objectPath, "error", err)
		return "", &UploadError{Stage: "upload", Err: err}
	}

	if _, err := c.profiles.Update(ctx, c.owner, map[string]any{AvatarAttribute: url}); err != nil {
		c.logger.Error("Failed to record avatar", "owner", c.owner, "error", err)
		if rmErr := c.avatars.Remove(ctx, objectPath); rmErr != nil {
			c.logger.Warn("Failed to remove orphaned avatar", "path", objectPath, "error", rmErr)
		}
		return "", &UploadError{Stage: "update", Err: err}
	}

	c.mu.Lock()
	c.values.Avatar = url
	c.preview = Render(c.values)
	c.mu.Unlock()

	c.publish(ctx, events.AvatarUpdated, events.ProfileChanged{
		OwnerID:    c.owner,
		Attributes: []string{AvatarAttribute},
		At:         at.UTC(),
	})
	return url, nil
}

// Navigate reports whether following link must wait for the user to confirm
// leaving. The first target captured while waiting is kept.
func (c *Controller) Navigate(link Link) bool {
	return c.tracker.Intercept(link)
}

// ConfirmLeave drops the unsaved edits and returns the captured target.
func (c *Controller) ConfirmLeave() (string, bool) {
	return c.tracker.ConfirmLeave()
}

// CancelLeave keeps editing.
func (c *Controller) CancelLeave() {
	c.tracker.CancelLeave()
}

func (c *Controller) publish(ctx context.Context, ev pubsub.Event[events.ProfileChanged], payload events.ProfileChanged) {
	if c.publisher == nil {
		return
	}
	if err := ev.Publish(ctx, c.publisher, c.owner, payload); err != nil {
		c.logger.Warn("Failed to publish profile event", "topic", ev.Topic(), "error", err)
	}
}

// rootMessage returns the text of the innermost wrapped error, which is the
// message the backend produced.
func rootMessage(err error) string {
	for {
		next := errors.Unwrap(err)
		if next == nil {
			return err.Error()
		}
		err = next
	}
}

func attributeNames(updates map[string]any) []string {
	names := make([]string, 0, len(updates))
	for _, f := range Fields() {
		if _, ok := updates[f.Attribute()]; ok {
			names = append(names, f.Attribute())
		}
	}
	if _, ok := updates[UpdatedAtAttribute]; ok {
		names = append(names, UpdatedAtAttribute)
	}
	return names
}
