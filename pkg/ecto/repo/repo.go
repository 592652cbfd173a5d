// Package repo declares the persistence provider contract consumed by the
// transactional acts. Query generation, connections and schema belong to the
// provider; the acts only need the transactional primitives below.
package repo

import (
	"context"

	"github.com/bonfire-networks/bonfire-ecto/pkg/ecto/changeset"
)

// Entity is anything the provider can persist and address by id.
type Entity interface {
	EntityID() string
}

// Repo is the storage-access collaborator.
//
// Insert, Update and Upsert may return a refreshed entity exposing generated
// ids, defaults or version counters; a nil return leaves the caller's value
// as is. Delete returns the number of rows affected and reports a stale or
// already-deleted entity with ErrStaleEntry.
type Repo interface {
	// InTransaction reports whether the provider currently runs inside an
	// open transaction scope.
	InTransaction() bool
	// Transact opens a transaction, runs fn inside it, commits when fn
	// returns nil and rolls every change back otherwise. The error returned
	// by fn is passed through.
	Transact(ctx context.Context, fn func(ctx context.Context) error) error
	Insert(ctx context.Context, cs *changeset.Changeset) (any, error)
	Update(ctx context.Context, cs *changeset.Changeset) (any, error)
	Upsert(ctx context.Context, cs *changeset.Changeset, policy changeset.ConflictPolicy) (any, error)
	Delete(ctx context.Context, entity any) (int64, error)
	// LoadAssociation returns the current value of the named association of
	// entity: a single entity, a slice, or nil when empty.
	LoadAssociation(ctx context.Context, entity any, name string) (any, error)
}
