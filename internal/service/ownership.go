package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/iliyamo/realestate-listing/internal/model"
	"github.com/iliyamo/realestate-listing/internal/repository"
)

// OwnerFinder returns the owning identity id of a resource.
type OwnerFinder interface {
	FindOwner(ctx context.Context, resourceID uint64) (uint64, error)
}

// CheckOwnership verifies that requester owns resourceID.  It runs after the
// role gate and is never cached: the owner is read on every call.
//
// The read here and the caller's later write are not one transaction, so an
// ownership transfer landing in between is not detected.
func CheckOwnership(ctx context.Context, finder OwnerFinder, resourceID uint64, requester model.User) error {
	owner, err := finder.FindOwner(ctx, resourceID)
	if err != nil {
		if errors.Is(err, repository.ErrHomeNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("find owner of %d: %w", resourceID, err)
	}
	if requester.ID == 0 || owner != requester.ID {
		return ErrForbidden
	}
	return nil
}
