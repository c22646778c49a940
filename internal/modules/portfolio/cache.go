package portfolio

import (
	"context"
	"sync"

	"github.com/owndesign/owndesign/internal/domain"
	"github.com/owndesign/owndesign/internal/events"
	"github.com/owndesign/owndesign/internal/pubsub"
	form "github.com/owndesign/owndesign/internal/settings"
)

// styled is a profile together with the presentation derived from it.
type styled struct {
	Profile *domain.Profile
	Preview form.Preview
}

// styleCache keeps the derived presentation of recently viewed portfolios.
// Entries are dropped when the owner saves settings or changes the avatar.
type styleCache struct {
	mu      sync.RWMutex
	entries map[string]styled
}

func newStyleCache() *styleCache {
	return &styleCache{entries: make(map[string]styled)}
}

func (c *styleCache) get(owner string) (styled, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	s, ok := c.entries[owner]
	return s, ok
}

func (c *styleCache) put(owner string, s styled) {
	c.mu.Lock()
	c.entries[owner] = s
	c.mu.Unlock()
}

func (c *styleCache) invalidate(owner string) {
	c.mu.Lock()
	delete(c.entries, owner)
	c.mu.Unlock()
}

func (c *styleCache) len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// load returns the cached entry or fetches and derives it.
func (c *styleCache) load(ctx context.Context, profiles domain.ProfileRepository, owner string) (styled, error) {
	if s, ok := c.get(owner); ok {
		return s, nil
	}
	p, err := profiles.FindByOwner(ctx, owner)
	if err != nil {
		return styled{}, err
	}
	if p == nil {
		return styled{}, domain.ErrNotFound
	}
	s := styled{
		Profile: p,
		Preview: form.Render(form.DefaultValues().Apply(p.Attributes())),
	}
	c.put(owner, s)
	return s, nil
}

// subscribe drops entries whenever a profile change is announced.
func (c *styleCache) subscribe(ctx context.Context, sub pubsub.Subscriber) error {
	drop := func(ctx context.Context, ev events.ProfileChanged) error {
		c.invalidate(ev.OwnerID)
		return nil
	}
	if err := events.ProfileSaved.Subscribe(ctx, sub, drop); err != nil {
		return err
	}
	return events.AvatarUpdated.Subscribe(ctx, sub, drop)
}
