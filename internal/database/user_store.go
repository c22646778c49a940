package database

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/surrealdb/surrealdb.go"

	"github.com/owndesign/owndesign/internal/domain"
)

const accessMethod = "account"

var _ domain.UserRepository = (*UserStore)(nil)

// UserStore implements the user repository. Record user sign-up, sign-in and
// token checks change the authentication state of the connection they run
// on, so they use a dedicated session connection. Lookups use the regular
// client.
type UserStore struct {
	client  Client[domain.User]
	session DBConnection
	ns      string
	dbName  string
	// mu serializes work on the session connection.
	mu sync.Mutex
}

// NewUserStore creates a new UserStore.
func NewUserStore(client Client[domain.User], session DBConnection) *UserStore {
	return &UserStore{
		client:  client,
		session: session,
		ns:      session.GetDBNs(),
		dbName:  session.GetDBDb(),
	}
}

// FindUserByEmail returns the user with the given email or domain.ErrNotFound.
func (s *UserStore) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	user, err := s.client.QueryOne(ctx, "SELECT * FROM user WHERE email = $email", map[string]any{"email": email})
	if err != nil {
		return nil, fmt.Errorf("database query failed: %w", err)
	}
	if user == nil {
		return nil, domain.ErrNotFound
	}
	user.Password = ""
	return user, nil
}

// SignUp registers a record user and returns its session token.
func (s *UserStore) SignUp(ctx context.Context, user *domain.User, password string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var token string
	err := s.session.WithConnection(ctx, func(db *surrealdb.DB) error {
		var err error
		token, err = db.SignUp(ctx, map[string]any{
			"ns":       s.ns,
			"db":       s.dbName,
			"ac":       accessMethod,
			"email":    user.Email,
			"password": password,
			"name":     user.DisplayName(),
		})
		return err
	})
	if err != nil {
		if strings.Contains(err.Error(), "already exists") || strings.Contains(err.Error(), "already contains") {
			return "", domain.ErrUserAlreadyExists
		}
		return "", err
	}

	slog.InfoContext(ctx, "Successfully signed up user", "email", user.Email)
	return token, nil
}

// SignIn checks the credentials of a record user and returns a session token.
func (s *UserStore) SignIn(ctx context.Context, user *domain.User, password string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var token string
	err := s.session.WithConnection(ctx, func(db *surrealdb.DB) error {
		var err error
		token, err = db.SignIn(ctx, map[string]any{
			"ns":       s.ns,
			"db":       s.dbName,
			"ac":       accessMethod,
			"email":    user.Email,
			"password": password,
		})
		return err
	})
	if err != nil {
		if isConnectionError(err) {
			return "", err
		}
		return "", domain.ErrInvalidCredentials
	}

	slog.InfoContext(ctx, "Successfully signed in user", "email", user.Email)
	return token, nil
}

// Authenticate validates a session token and returns the associated user.
func (s *UserStore) Authenticate(ctx context.Context, token string) (*domain.User, error) {
	if token == "" {
		return nil, domain.ErrInvalidCredentials
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var user *domain.User
	err := s.session.WithConnection(ctx, func(db *surrealdb.DB) error {
		if err := db.Authenticate(ctx, token); err != nil {
			return domain.ErrInvalidCredentials
		}
		results, err := surrealdb.Query[[]domain.User](ctx, db, "SELECT * FROM $auth", nil)
		if err != nil {
			return fmt.Errorf("failed to get authenticated user: %w", err)
		}
		if results == nil || len(*results) == 0 || len((*results)[0].Result) == 0 {
			return domain.ErrInvalidCredentials
		}
		u := (*results)[0].Result[0]
		user = &u
		return db.Invalidate(ctx)
	})
	if err != nil {
		return nil, err
	}
	if user.ID == nil {
		return nil, domain.ErrInvalidCredentials
	}

	user.Password = ""
	return user, nil
}
