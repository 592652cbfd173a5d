package ecto

import (
	"context"

	"github.com/pkg/errors"

	"github.com/bonfire-networks/bonfire-ecto/pkg/ecto/repo"
	"github.com/bonfire-networks/bonfire-ecto/pkg/epic"
)

// Begin opens one storage transaction around every remaining act up to the
// next Commit sentinel. The sentinel is consumed while splitting; acts after
// it resume outside the transaction. Without a sentinel the whole remainder
// runs inside the boundary.
type Begin struct {
	repo repo.Repo
}

// NewBegin creates a Begin act using r.
func NewBegin(r repo.Repo) *Begin {
	return &Begin{repo: r}
}

// Info implements epic.Act.
func (b *Begin) Info() epic.Info {
	return epic.Info{Name: "begin", Kind: epic.KindBegin}
}

// Run implements epic.Act.
func (b *Begin) Run(ctx context.Context, ectx *epic.Context) (*epic.Context, error) {
	if b.repo == nil {
		return ectx, ErrRepoMustBeSet
	}

	nested, rest := splitAtCommit(ectx.Acts)
	ectx.Acts = nested

	var err error
	switch {
	case ectx.HasErrors(), pendingInvalid(ectx):
		// Nothing to commit once the run has failed or the queued work is
		// already known to be invalid; the nested acts still execute so the
		// flush can promote the validation errors and later acts can observe
		// them.
		ectx.Logger.Debug("skipping transaction", "errors", len(ectx.Errors()))
		ectx, err = epic.RunActs(ctx, ectx)

	case b.repo.InTransaction():
		// Most providers lack true nested-transaction isolation, so reuse
		// the open scope instead of opening a second one.
		ectx.Logger.Warn("already inside a transaction, reusing the open scope")
		ectx, err = epic.RunActs(ctx, ectx)

	default:
		ectx, err = b.transact(ctx, ectx)
	}
	if err != nil {
		return ectx, err
	}

	ectx.Acts = rest

	return ectx, nil
}

func (b *Begin) transact(ctx context.Context, ectx *epic.Context) (*epic.Context, error) {
	var fatal error
	txErr := b.repo.Transact(ctx, func(txCtx context.Context) error {
		out, err := epic.RunActs(txCtx, ectx)
		if out != nil {
			ectx = out
		}
		if err != nil {
			fatal = err

			return err
		}
		if ectx.HasErrors() {
			return errRollback
		}

		return nil
	})
	if fatal != nil {
		return ectx, fatal
	}
	// The rollback sentinel only confirms what the error list already says;
	// anything else is the transaction machinery itself failing.
	if txErr != nil && !errors.Is(txErr, errRollback) {
		ectx.AddError(errors.Wrap(txErr, "unable to run transaction"))
	}

	return ectx, nil
}

// splitAtCommit splits acts at the first Commit-identity act. The sentinel
// itself is dropped.
func splitAtCommit(acts []epic.Act) (nested, rest []epic.Act) {
	for idx, act := range acts {
		if _, ok := act.(*Commit); ok {
			return acts[:idx], acts[idx+1:]
		}
	}

	return acts, nil
}
