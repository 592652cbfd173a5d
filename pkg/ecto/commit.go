package ecto

import (
	"context"

	"github.com/pkg/errors"

	"github.com/bonfire-networks/bonfire-ecto/pkg/epic"
)

// Commit marks the end of a transaction boundary. A preceding Begin consumes
// it while splitting the act sequence, so it must never run directly; when
// the executor reaches one anyway the act sequence is malformed and the run
// aborts.
type Commit struct{}

// NewCommit creates the Commit sentinel.
func NewCommit() *Commit {
	return &Commit{}
}

// Info implements epic.Act.
func (c *Commit) Info() epic.Info {
	return epic.Info{Name: "commit", Kind: epic.KindCommit}
}

// Run implements epic.Act. It always fails fatally.
func (c *Commit) Run(_ context.Context, ectx *epic.Context) (*epic.Context, error) {
	return ectx, errors.Wrap(ErrCommitOutsideTransaction, "malformed act sequence")
}
