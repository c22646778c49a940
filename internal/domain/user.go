package domain

import (
	"context"
	"fmt"

	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"
)

// User represents an account in the identity collaborator.
type User struct {
	ID       *surrealmodels.RecordID `json:"id,omitempty"`
	Email    string                  `json:"email"`
	Password string                  `json:"password,omitempty"`
	Name     *string                 `json:"name,omitempty"`
}

// OwnerID returns the identity used to key the user's profile and gallery.
// It is the record key of the user without the table prefix.
func (u *User) OwnerID() string {
	if u == nil || u.ID == nil {
		return ""
	}
	return fmt.Sprint(u.ID.ID)
}

// DisplayName returns the user's name, falling back to the email address.
func (u *User) DisplayName() string {
	if u == nil {
		return ""
	}
	if u.Name != nil && *u.Name != "" {
		return *u.Name
	}
	return u.Email
}

// Registration is the sign-up form as submitted by a visitor.
type Registration struct {
	FullName string `form:"full_name" validate:"required,min=5"`
	Email    string `form:"email" validate:"required,email,emailprefix=7"`
	Password string `form:"password" validate:"required,min=9"`
}

// Validate runs the registration rules.
func (r *Registration) Validate() error {
	return validatorInstance.Struct(r)
}

// UserRepository defines the contract for user data storage operations.
// It lives in the domain because it's a requirement OF the domain, not
// of the database implementation.
type UserRepository interface {
	SignUp(ctx context.Context, user *User, password string) (string, error)
	SignIn(ctx context.Context, user *User, password string) (string, error)
	Authenticate(ctx context.Context, token string) (*User, error)
	FindUserByEmail(ctx context.Context, email string) (*User, error)
}
