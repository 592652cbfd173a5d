package ecto

import (
	"context"
	"unicode"

	"github.com/pkg/errors"

	"github.com/bonfire-networks/bonfire-ecto/pkg/ecto/repo"
	"github.com/bonfire-networks/bonfire-ecto/pkg/epic"
)

// ExtraAssociationsKey is the assign under which an epic can request extra
// associations for a single Delete invocation, as a []string.
const ExtraAssociationsKey = "delete_extra_associations"

// Delete expands the deletion of the entity bound under a target key into a
// cascade: each configured association is loaded, bound under a derived key
// and registered with the work queue, and the primary entity is registered
// last. Combined with the flush applying entries in registration order, the
// associations are deleted before the entity they reference.
type Delete struct {
	repo   repo.Repo
	key    string
	assocs []string
}

// DeleteOption configures a Delete act.
type DeleteOption func(*Delete)

// WithAssociations sets the default association names the cascade covers.
func WithAssociations(names ...string) DeleteOption {
	return func(d *Delete) {
		d.assocs = names
	}
}

// NewDelete creates a Delete act for the entity bound under key.
func NewDelete(r repo.Repo, key string, opts ...DeleteOption) *Delete {
	del := &Delete{repo: r, key: key}
	for _, opt := range opts {
		opt(del)
	}

	return del
}

// Info implements epic.Act.
func (d *Delete) Info() epic.Info {
	return epic.Info{Name: "delete", Kind: epic.KindDelete}
}

// Run implements epic.Act.
func (d *Delete) Run(ctx context.Context, ectx *epic.Context) (*epic.Context, error) {
	if d.repo == nil {
		return ectx, ErrRepoMustBeSet
	}
	if ectx.HasErrors() {
		return ectx, nil
	}
	if !validKey(d.key) {
		ectx.AddError(errors.Wrapf(ErrInvalidKey, "%q", d.key))

		return ectx, nil
	}

	value, ok := ectx.Value(d.key)
	entity, isEntity := value.(repo.Entity)
	if !ok || !isEntity {
		ectx.Logger.Error("delete target is not a persisted entity", "key", d.key)

		return ectx, nil
	}

	for _, name := range d.associations(ectx) {
		loaded, err := d.repo.LoadAssociation(ctx, entity, name)
		if err != nil {
			ectx.AddError(errors.Wrapf(err, "unable to load association %q", name))

			return ectx, nil
		}
		if isEmpty(loaded) {
			continue
		}
		derived := d.key + ":" + name
		ectx.Assign(derived, loaded)
		ectx.Register(derived)
	}

	ectx.Assign(d.key, entity)
	ectx.Register(d.key)

	return ectx, nil
}

// associations merges the configured defaults with the per-invocation extras
// from the context, dropping duplicates and keeping a stable order.
func (d *Delete) associations(ectx *epic.Context) []string {
	names := append(make([]string, 0, len(d.assocs)), d.assocs...)
	if extras, ok := ectx.Value(ExtraAssociationsKey); ok {
		if extraNames, isList := extras.([]string); isList {
			names = append(names, extraNames...)
		}
	}

	seen := make(map[string]struct{}, len(names))
	merged := names[:0]
	for _, name := range names {
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		merged = append(merged, name)
	}

	return merged
}

// DirectDelete deletes an entity, or every element of a list of entities,
// through the provider. Deleting an already-removed entity is a successful
// no-op with affected count 0, tolerating concurrent or duplicate deletion
// requests. The returned count is the total number of rows affected.
func DirectDelete(ctx context.Context, r repo.Repo, value any) (int64, error) {
	if r == nil {
		return 0, ErrRepoMustBeSet
	}

	switch val := value.(type) {
	case []any:
		return deleteAll(ctx, r, val)
	case []repo.Entity:
		entities := make([]any, 0, len(val))
		for _, e := range val {
			entities = append(entities, e)
		}

		return deleteAll(ctx, r, entities)
	}

	return deleteOne(ctx, r, value)
}

// deleteAll deletes element-wise and succeeds only if every element succeeds;
// the first failure aborts the remainder.
func deleteAll(ctx context.Context, r repo.Repo, entities []any) (int64, error) {
	var total int64
	for _, entity := range entities {
		affected, err := deleteOne(ctx, r, entity)
		if err != nil {
			return total, err
		}
		total += affected
	}

	return total, nil
}

func deleteOne(ctx context.Context, r repo.Repo, entity any) (int64, error) {
	affected, err := r.Delete(ctx, entity)
	if errors.Is(err, repo.ErrStaleEntry) {
		return 0, nil
	}
	if err != nil {
		return affected, errors.Wrap(err, "unable to delete entity")
	}

	return affected, nil
}

// isEmpty reports whether a loaded association carries nothing to delete:
// nil, or a nil/zero-length []any or []repo.Entity, matching the shapes
// resolveKey and DirectDelete accept.
func isEmpty(value any) bool {
	switch val := value.(type) {
	case nil:
		return true
	case []any:
		return len(val) == 0
	case []repo.Entity:
		return len(val) == 0
	}

	return false
}

// validKey accepts non-empty identifiers: a letter or underscore followed by
// letters, digits or underscores.
func validKey(key string) bool {
	if key == "" {
		return false
	}
	for idx, r := range key {
		switch {
		case unicode.IsLetter(r) || r == '_':
		case unicode.IsDigit(r) && idx > 0:
		default:
			return false
		}
	}

	return true
}
