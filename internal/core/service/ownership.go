package service

import "github.com/fitexperts/experts-api/internal/core/domain"

// Authorize permits a mutation only when actorID owns the resource. Callers
// load the resource first so a missing resource surfaces as not-found before
// ownership is considered.
func Authorize(actorID string, resource domain.Owned) error {
	if actorID == "" || resource == nil || resource.Owner() != actorID {
		return domain.ErrNotOwner
	}
	return nil
}
