package epic_test

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bonfire-networks/bonfire-ecto/pkg/epic"
)

func TestGroupRunsAllEpics(t *testing.T) {
	t.Parallel()

	var total atomic.Int64

	counting := func() epic.Act {
		return epic.NewAct("count", func(_ context.Context, ectx *epic.Context) (*epic.Context, error) {
			total.Add(1)

			return ectx, nil
		})
	}

	grp := &epic.Group{}
	for idx := 0; idx < 3; idx++ {
		e, err := epic.New([]epic.Act{counting()})
		require.NoError(t, err)
		require.NoError(t, grp.Add(e, epic.NewContext()))
	}

	results, err := grp.Run(context.Background())
	require.NoError(t, err)
	assert.Len(t, results, 3)
	assert.Equal(t, int64(3), total.Load())
}

func TestGroupPropagatesFirstError(t *testing.T) {
	t.Parallel()

	failing := epic.NewAct("failing", func(_ context.Context, ectx *epic.Context) (*epic.Context, error) {
		return ectx, assert.AnError
	})

	fine, err := epic.New(nil)
	require.NoError(t, err)
	broken, err := epic.New([]epic.Act{failing})
	require.NoError(t, err)

	grp := &epic.Group{}
	require.NoError(t, grp.Add(fine, epic.NewContext()))
	require.NoError(t, grp.Add(broken, epic.NewContext()))

	results, err := grp.Run(context.Background())
	assert.ErrorIs(t, err, assert.AnError)
	assert.Len(t, results, 2)
	assert.NotNil(t, results[1])
}

func TestGroupAddValidation(t *testing.T) {
	t.Parallel()

	grp := &epic.Group{}
	assert.ErrorIs(t, grp.Add(nil, epic.NewContext()), epic.ErrEpicMustBeSet)

	e, err := epic.New(nil)
	require.NoError(t, err)
	assert.ErrorIs(t, grp.Add(e, nil), epic.ErrContextMustBeSet)
}
