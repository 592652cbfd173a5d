package ecto

import "github.com/pkg/errors"

var (
	// ErrCommitOutsideTransaction reports a Commit act reached directly by
	// the executor instead of being consumed by a preceding Begin.
	ErrCommitOutsideTransaction = errors.New("commit reached without a preceding begin")
	// ErrInvalidKey reports a delete target key that is not a well-formed
	// identifier.
	ErrInvalidKey = errors.New("target key is not a valid identifier")
	// ErrUnexpectedShape reports a registered key resolving to a value that
	// is neither a changeset nor a persisted entity.
	ErrUnexpectedShape = errors.New("registered key resolved to an unexpected value shape")
	// ErrRepoMustBeSet reports an act constructed without a provider.
	ErrRepoMustBeSet = errors.New("repo must be set")

	// errRollback signals Transact to roll back after a flush failed; the
	// failure itself already lives in the context error list.
	errRollback = errors.New("rolling back transaction")
)
