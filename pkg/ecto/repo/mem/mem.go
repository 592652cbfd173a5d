// Package mem provides an in-memory persistence provider with snapshot-based
// transactions. It backs the package tests and serves as the reference
// implementation of the repo contract.
package mem

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/bonfire-networks/bonfire-ecto/pkg/ecto/changeset"
	"github.com/bonfire-networks/bonfire-ecto/pkg/ecto/repo"
)

var (
	ErrUnsupportedEntity  = errors.New("entity type is not supported")
	ErrNotFound           = errors.New("entity not found")
	ErrConflict           = errors.New("entity already exists")
	ErrNestedTransaction  = errors.New("transaction already open")
	ErrEntityMustBeSet    = errors.New("entity must be set")
	ErrChangesetMustBeSet = errors.New("changeset must be set")
)

// Entity is the record shape the in-memory repo persists.
type Entity struct {
	ID     string
	Fields map[string]any
}

// EntityID implements repo.Entity.
func (e *Entity) EntityID() string {
	return e.ID
}

// Repo is an in-memory implementation of repo.Repo.
//
// Transact snapshots the whole state on begin and restores it on rollback.
// Transactions are serialised: concurrent callers queue on the transaction
// lock, which is what lets independently-running epics share one instance.
type Repo struct {
	txMu sync.Mutex

	mu       sync.Mutex
	entities map[string]*Entity
	assocs   map[string]map[string]any
	inTx     bool
	calls    []string
}

// New creates an empty repo.
func New() *Repo {
	return &Repo{
		entities: make(map[string]*Entity),
		assocs:   make(map[string]map[string]any),
	}
}

// InTransaction implements repo.Repo.
func (r *Repo) InTransaction() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.inTx
}

type txCtxKey struct{}

// Transact implements repo.Repo. The context passed to fn carries an
// in-transaction marker: only a genuinely nested call, arriving on a context
// descended from an open transaction, is rejected. Independent concurrent
// callers queue on the transaction lock instead.
func (r *Repo) Transact(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(txCtxKey{}) != nil {
		return ErrNestedTransaction
	}

	r.txMu.Lock()
	defer r.txMu.Unlock()

	r.mu.Lock()
	snapEntities := make(map[string]*Entity, len(r.entities))
	for id, entity := range r.entities {
		snapEntities[id] = entity
	}
	snapAssocs := make(map[string]map[string]any, len(r.assocs))
	for id, byName := range r.assocs {
		snapAssocs[id] = byName
	}
	r.inTx = true
	r.calls = append(r.calls, "begin")
	r.mu.Unlock()

	err := fn(context.WithValue(ctx, txCtxKey{}, struct{}{}))

	r.mu.Lock()
	defer r.mu.Unlock()
	r.inTx = false
	if err != nil {
		r.entities = snapEntities
		r.assocs = snapAssocs
		r.calls = append(r.calls, "rollback")

		return err
	}
	r.calls = append(r.calls, "commit")

	return nil
}

// Insert implements repo.Repo. It assigns a UUID to entities without one and
// returns the refreshed entity.
func (r *Repo) Insert(_ context.Context, cs *changeset.Changeset) (any, error) {
	entity, err := entityOf(cs)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if entity.ID == "" {
		entity = &Entity{ID: uuid.NewString(), Fields: entity.Fields}
	}
	if _, exists := r.entities[entity.ID]; exists {
		return nil, errors.Wrapf(ErrConflict, "id %s", entity.ID)
	}
	r.entities[entity.ID] = entity
	r.calls = append(r.calls, "insert "+entity.ID)

	return entity, nil
}

// Update implements repo.Repo.
func (r *Repo) Update(_ context.Context, cs *changeset.Changeset) (any, error) {
	entity, err := entityOf(cs)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.entities[entity.ID]; !exists {
		return nil, errors.Wrapf(ErrNotFound, "id %s", entity.ID)
	}
	r.entities[entity.ID] = entity
	r.calls = append(r.calls, "update "+entity.ID)

	return entity, nil
}

// Upsert implements repo.Repo.
func (r *Repo) Upsert(_ context.Context, cs *changeset.Changeset, policy changeset.ConflictPolicy) (any, error) {
	entity, err := entityOf(cs)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if entity.ID == "" {
		entity = &Entity{ID: uuid.NewString(), Fields: entity.Fields}
	}
	r.calls = append(r.calls, "upsert "+entity.ID)

	existing, exists := r.entities[entity.ID]
	if !exists {
		r.entities[entity.ID] = entity

		return entity, nil
	}

	switch policy {
	case changeset.ConflictNothing:
		return existing, nil
	case changeset.ConflictReplaceAll:
		r.entities[entity.ID] = entity

		return entity, nil
	case changeset.ConflictRaise:
	}

	return nil, errors.Wrapf(ErrConflict, "id %s", entity.ID)
}

// Delete implements repo.Repo. Deleting an entity that is not stored reports
// repo.ErrStaleEntry with affected count 0.
func (r *Repo) Delete(_ context.Context, entity any) (int64, error) {
	persisted, ok := entity.(repo.Entity)
	if !ok {
		return 0, ErrUnsupportedEntity
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	id := persisted.EntityID()
	if _, exists := r.entities[id]; !exists {
		return 0, errors.Wrapf(repo.ErrStaleEntry, "id %s", id)
	}
	delete(r.entities, id)
	delete(r.assocs, id)
	r.calls = append(r.calls, "delete "+id)

	return 1, nil
}

// LoadAssociation implements repo.Repo. Absent associations return nil.
func (r *Repo) LoadAssociation(_ context.Context, entity any, name string) (any, error) {
	persisted, ok := entity.(repo.Entity)
	if !ok {
		return nil, ErrUnsupportedEntity
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	return r.assocs[persisted.EntityID()][name], nil
}

// Seed stores entity directly, bypassing changesets. Test setup helper.
func (r *Repo) Seed(entity *Entity) error {
	if entity == nil || entity.ID == "" {
		return ErrEntityMustBeSet
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.entities[entity.ID] = entity

	return nil
}

// SetAssociation binds an association value for the entity with the given id.
func (r *Repo) SetAssociation(id, name string, value any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.assocs[id] == nil {
		r.assocs[id] = make(map[string]any)
	}
	r.assocs[id][name] = value
}

// Get returns the stored entity with the given id.
func (r *Repo) Get(id string) (*Entity, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	entity, ok := r.entities[id]

	return entity, ok
}

// Len returns the number of stored entities.
func (r *Repo) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.entities)
}

// Calls returns the ordered provider calls seen so far, entries like
// "begin", "insert <id>" or "rollback".
func (r *Repo) Calls() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.calls))
	copy(out, r.calls)

	return out
}

func entityOf(cs *changeset.Changeset) (*Entity, error) {
	if cs == nil {
		return nil, ErrChangesetMustBeSet
	}
	entity, ok := cs.Entity.(*Entity)
	if !ok {
		return nil, ErrUnsupportedEntity
	}

	return entity, nil
}
