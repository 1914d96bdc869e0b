package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/iliyamo/realestate-listing/internal/model"
	"github.com/iliyamo/realestate-listing/internal/repository"
	"github.com/iliyamo/realestate-listing/internal/utils"
)

// UserFinder looks an identity up by primary key.
type UserFinder interface {
	GetByID(ctx context.Context, id uint64) (model.User, error)
}

// IdentityResolver turns verified token claims into the live user record.
// The token only proves who authenticated; the current role always comes
// from the store.
type IdentityResolver struct {
	Users UserFinder
}

func NewIdentityResolver(users UserFinder) *IdentityResolver {
	return &IdentityResolver{Users: users}
}

// Resolve returns ErrUnauthorized when the subject no longer exists.  Store
// failures are returned wrapped so the caller can report a server fault.
func (r *IdentityResolver) Resolve(ctx context.Context, claims *utils.Claims) (model.User, error) {
	if claims == nil || claims.UserID == 0 {
		return model.User{}, ErrUnauthorized
	}
	u, err := r.Users.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return model.User{}, ErrUnauthorized
		}
		return model.User{}, fmt.Errorf("resolve identity %d: %w", claims.UserID, err)
	}
	return u, nil
}
