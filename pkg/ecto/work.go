package ecto

import (
	"context"

	"github.com/pkg/errors"

	"github.com/bonfire-networks/bonfire-ecto/pkg/ecto/changeset"
	"github.com/bonfire-networks/bonfire-ecto/pkg/ecto/repo"
	"github.com/bonfire-networks/bonfire-ecto/pkg/epic"
)

// Register queues the assign under key for the next flush. Any act may call
// it; the value only has to be in place by the time a Work act runs.
func Register(ectx *epic.Context, key string) *epic.Context {
	return ectx.Register(key)
}

// Work flushes every mutation registered so far, applying them to the
// provider strictly in registration order inside one transaction. When the
// provider already runs inside a transaction, for instance under a Begin
// boundary, the open scope is reused; a standalone Work opens its own.
type Work struct {
	repo repo.Repo
}

// NewWork creates a Work act using r.
func NewWork(r repo.Repo) *Work {
	return &Work{repo: r}
}

// Info implements epic.Act.
func (w *Work) Info() epic.Info {
	return epic.Info{Name: "work", Kind: epic.KindWork}
}

// Run implements epic.Act.
func (w *Work) Run(ctx context.Context, ectx *epic.Context) (*epic.Context, error) {
	if w.repo == nil {
		return ectx, ErrRepoMustBeSet
	}

	kept := w.resolvePending(ectx)
	w.promoteValidationErrors(ectx, kept)

	if ectx.HasErrors() || len(kept) == 0 {
		return ectx, nil
	}

	if w.repo.InTransaction() {
		w.apply(ctx, ectx, kept)
		if !ectx.HasErrors() {
			ectx.ClearPending()
		}

		return ectx, nil
	}

	txErr := w.repo.Transact(ctx, func(txCtx context.Context) error {
		w.apply(txCtx, ectx, kept)
		if ectx.HasErrors() {
			return errRollback
		}

		return nil
	})
	if txErr != nil && !errors.Is(txErr, errRollback) {
		ectx.AddError(errors.Wrap(txErr, "unable to run transaction"))
	}
	if !ectx.HasErrors() {
		ectx.ClearPending()
	}

	return ectx, nil
}

// resolvePending resolves each registered key in order and keeps the entries
// the flush can act on. Everything else is dropped with a diagnostic, never
// silently applied.
func (w *Work) resolvePending(ectx *epic.Context) []resolution {
	kept := make([]resolution, 0, len(ectx.Pending))
	for _, key := range ectx.Pending {
		res := resolveKey(ectx, key)
		switch res.kind {
		case resolvedChangeset:
			if !res.changeset.Op.Recognized() {
				ectx.Logger.Warn("dropping changeset without a recognized operation", "key", key, "op", string(res.changeset.Op))

				continue
			}
			kept = append(kept, res)
		case resolvedEntity, resolvedEntityList:
			// Raw entities resolve to direct deletion. Only deletion epics
			// should register them; that is a caller contract, not enforced
			// here.
			kept = append(kept, res)
		case resolvedMissing:
			ectx.Logger.Warn("dropping registered key, nothing to do", "key", key)
		case resolvedUnknown:
			ectx.Logger.Error("dropping registered key", "key", key, "error", ErrUnexpectedShape.Error())
		}
	}

	return kept
}

func (w *Work) promoteValidationErrors(ectx *epic.Context, kept []resolution) {
	for _, res := range kept {
		if res.kind != resolvedChangeset || res.changeset.Valid {
			continue
		}
		for _, fieldErr := range res.changeset.Errors {
			ectx.AddError(errors.Wrapf(fieldErr, "invalid changeset %q", res.key))
		}
	}
}

// apply runs the kept entries in registration order and stops at the first
// failure. Partial progress is rolled back by the enclosing transaction.
func (w *Work) apply(ctx context.Context, ectx *epic.Context, kept []resolution) {
	for _, res := range kept {
		err := w.applyOne(ctx, ectx, res)
		if err != nil {
			ectx.AddError(errors.Wrapf(err, "unable to apply mutation %q", res.key))

			return
		}
	}
}

func (w *Work) applyOne(ctx context.Context, ectx *epic.Context, res resolution) error {
	switch res.kind {
	case resolvedEntity:
		_, err := DirectDelete(ctx, w.repo, res.entity)

		return err
	case resolvedEntityList:
		_, err := DirectDelete(ctx, w.repo, res.entities)

		return err
	case resolvedChangeset:
		return w.applyChangeset(ctx, ectx, res)
	case resolvedMissing, resolvedUnknown:
	}

	return nil
}

func (w *Work) applyChangeset(ctx context.Context, ectx *epic.Context, res resolution) error {
	var (
		refreshed any
		err       error
	)

	changes := res.changeset
	switch changes.Op {
	case changeset.OpInsert:
		refreshed, err = w.repo.Insert(ctx, changes)
	case changeset.OpUpdate:
		refreshed, err = w.repo.Update(ctx, changes)
	case changeset.OpUpsert:
		policy := changes.OnConflict
		changes.ClearOp()
		refreshed, err = w.repo.Upsert(ctx, changes, policy)
	case changeset.OpDelete:
		return w.deleteChangeset(ctx, changes)
	case changeset.OpNone:
	}
	if err != nil {
		return err
	}

	if refreshed != nil {
		// Expose generated ids, defaults and version counters to later acts.
		ectx.Assign(res.key, refreshed)
	}

	return nil
}

// deleteChangeset deletes the changeset target. A sequence deletes
// element-wise and succeeds only if every element succeeds; the first failure
// aborts the remainder.
func (w *Work) deleteChangeset(ctx context.Context, changes *changeset.Changeset) error {
	entities := []any{changes.Entity}
	switch list := changes.Entity.(type) {
	case []any:
		entities = list
	case []repo.Entity:
		entities = make([]any, 0, len(list))
		for _, entity := range list {
			entities = append(entities, entity)
		}
	}

	for _, entity := range entities {
		_, err := w.repo.Delete(ctx, entity)
		if err != nil {
			return err
		}
	}

	return nil
}
