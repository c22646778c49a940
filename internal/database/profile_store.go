package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"

	"github.com/owndesign/owndesign/internal/domain"
)

var _ domain.ProfileRepository = (*ProfileStore)(nil)

// ProfileStore persists creator profiles. A profile shares its record key with
// the user that owns it.
type ProfileStore struct {
	client Client[domain.Profile]
	now    func() time.Time
}

// NewProfileStore creates a new ProfileStore with the given database client.
func NewProfileStore(client Client[domain.Profile]) *ProfileStore {
	return &ProfileStore{client: client, now: time.Now}
}

func profileID(ownerID string) string {
	return domain.ProfileTable + ":" + ownerID
}

// FindByOwner returns the owner's profile or domain.ErrNotFound.
func (s *ProfileStore) FindByOwner(ctx context.Context, ownerID string) (*domain.Profile, error) {
	if ownerID == "" {
		return nil, domain.ErrInvalidInput
	}
	profile, err := s.client.Select(ctx, profileID(ownerID))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return profile, nil
}

// Create inserts the profile of a newly registered user.
func (s *ProfileStore) Create(ctx context.Context, ownerID, name string) (*domain.Profile, error) {
	if ownerID == "" {
		return nil, domain.ErrInvalidInput
	}
	now := &surrealmodels.CustomDateTime{Time: s.now().UTC()}
	data := map[string]any{
		"name":       name,
		"created_at": now,
		"updated_at": now,
	}

	query := "CREATE type::thing($tb, $key) CONTENT $data"
	profile, err := s.client.QueryOne(ctx, query, map[string]any{
		"tb":   domain.ProfileTable,
		"key":  ownerID,
		"data": data,
	})
	if err != nil {
		return nil, NewDBError(err, "failed to create profile")
	}
	if profile == nil {
		return nil, NewDBError(ErrQueryFailed, "create returned no profile")
	}
	return profile, nil
}

// Update merges the given column values into the owner's profile. time.Time
// values are stored as datetimes.
func (s *ProfileStore) Update(ctx context.Context, ownerID string, updates map[string]any) (*domain.Profile, error) {
	if ownerID == "" || len(updates) == 0 {
		return nil, domain.ErrInvalidInput
	}
	data := make(map[string]any, len(updates))
	for k, v := range updates {
		if t, ok := v.(time.Time); ok {
			v = &surrealmodels.CustomDateTime{Time: t}
		}
		data[k] = v
	}

	profile, err := s.client.Update(ctx, profileID(ownerID), data)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("profile %s: %w", ownerID, domain.ErrNotFound)
		}
		return nil, err
	}
	return profile, nil
}

// List returns every profile ordered by name.
func (s *ProfileStore) List(ctx context.Context) ([]*domain.Profile, error) {
	rows, err := s.client.Query(ctx, "SELECT * FROM profile ORDER BY name ASC", nil)
	if err != nil {
		return nil, err
	}
	out := make([]*domain.Profile, 0, len(rows))
	for i := range rows {
		out = append(out, &rows[i])
	}
	return out, nil
}
