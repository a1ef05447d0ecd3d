package ports

import (
	"context"

	"github.com/sirpyerre/pizza-delivery-api/internal/core/domain"
)

// UserRepository is the credential store.
// Find methods return domain.ErrUserNotFound when nothing matches.
type UserRepository interface {
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	// Create assigns the user's ID. A unique-key violation is reported as domain.ErrConflict.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
}

// PasswordHasher derives and checks opaque password hashes.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, hash string) bool
}
