package changeset_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bonfire-networks/bonfire-ecto/pkg/ecto/changeset"
)

func TestNewIsValid(t *testing.T) {
	t.Parallel()

	cs := changeset.New("entity", changeset.OpInsert)
	assert.True(t, cs.Valid)
	assert.Empty(t, cs.Errors)
	assert.Equal(t, changeset.ConflictRaise, cs.OnConflict)
}

func TestAddErrorInvalidates(t *testing.T) {
	t.Parallel()

	cs := changeset.New("entity", changeset.OpInsert)
	cs.AddError("name", "is required").AddError("age", "must be positive")

	assert.False(t, cs.Valid)
	require.Len(t, cs.Errors, 2)
	assert.Equal(t, "name: is required", cs.Errors[0].Error())
}

func TestOperationRecognized(t *testing.T) {
	t.Parallel()

	for _, op := range []changeset.Operation{changeset.OpInsert, changeset.OpUpdate, changeset.OpUpsert, changeset.OpDelete} {
		assert.True(t, op.Recognized(), string(op))
	}
	assert.False(t, changeset.OpNone.Recognized())
	assert.False(t, changeset.Operation("frobnicate").Recognized())
}

func TestClearOp(t *testing.T) {
	t.Parallel()

	cs := changeset.New("entity", changeset.OpUpsert)
	cs.ClearOp()
	assert.Equal(t, changeset.OpNone, cs.Op)
}
