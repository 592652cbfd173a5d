package repo

import "github.com/pkg/errors"

var (
	// ErrStaleEntry reports a delete against an entity that no longer exists.
	ErrStaleEntry = errors.New("entity is stale or already deleted")
)
