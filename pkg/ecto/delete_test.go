package ecto_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bonfire-networks/bonfire-ecto/pkg/ecto"
	"github.com/bonfire-networks/bonfire-ecto/pkg/ecto/repo"
	"github.com/bonfire-networks/bonfire-ecto/pkg/ecto/repo/mem"
	"github.com/bonfire-networks/bonfire-ecto/pkg/epic"
)

func runDelete(t *testing.T, del *ecto.Delete, ectx *epic.Context) *epic.Context {
	t.Helper()

	e, err := epic.New([]epic.Act{del})
	require.NoError(t, err)

	out, err := e.Run(context.Background(), ectx)
	require.NoError(t, err)

	return out
}

func TestDeleteCascadeOrder(t *testing.T) {
	t.Parallel()

	r := mem.New()
	primary := &mem.Entity{ID: "p1"}
	require.NoError(t, r.Seed(primary))
	r.SetAssociation("p1", "comments", []repo.Entity{&mem.Entity{ID: "c1"}, &mem.Entity{ID: "c2"}})
	r.SetAssociation("p1", "posts", &mem.Entity{ID: "po1"})

	ectx := epic.NewContext()
	ectx.Assign("user", primary)

	out := runDelete(t, ecto.NewDelete(r, "user", ecto.WithAssociations("comments", "posts")), ectx)
	assert.False(t, out.HasErrors())

	// Associations first, primary last, so referential constraints hold.
	assert.Equal(t, []string{"user:comments", "user:posts", "user"}, out.Pending)

	comments, ok := out.Value("user:comments")
	require.True(t, ok)
	assert.Len(t, comments, 2)
}

func TestDeleteSkipsEmptyAssociations(t *testing.T) {
	t.Parallel()

	r := mem.New()
	primary := &mem.Entity{ID: "p1"}
	require.NoError(t, r.Seed(primary))
	r.SetAssociation("p1", "posts", &mem.Entity{ID: "po1"})

	ectx := epic.NewContext()
	ectx.Assign("user", primary)

	out := runDelete(t, ecto.NewDelete(r, "user", ecto.WithAssociations("comments", "posts")), ectx)
	assert.False(t, out.HasErrors())
	assert.Equal(t, []string{"user:posts", "user"}, out.Pending)
}

func TestDeleteMergesExtraAssociations(t *testing.T) {
	t.Parallel()

	r := mem.New()
	primary := &mem.Entity{ID: "p1"}
	require.NoError(t, r.Seed(primary))
	r.SetAssociation("p1", "comments", &mem.Entity{ID: "c1"})
	r.SetAssociation("p1", "posts", &mem.Entity{ID: "po1"})
	r.SetAssociation("p1", "flags", &mem.Entity{ID: "f1"})

	ectx := epic.NewContext()
	ectx.Assign("user", primary)
	// "posts" is both a default and an extra; it must load once.
	ectx.Assign(ecto.ExtraAssociationsKey, []string{"posts", "flags"})

	out := runDelete(t, ecto.NewDelete(r, "user", ecto.WithAssociations("comments", "posts")), ectx)
	assert.False(t, out.HasErrors())
	assert.Equal(t, []string{"user:comments", "user:posts", "user:flags", "user"}, out.Pending)
}

func TestDeleteInvalidKey(t *testing.T) {
	t.Parallel()

	out := runDelete(t, ecto.NewDelete(mem.New(), "not a key!"), epic.NewContext())
	require.True(t, out.HasErrors())
	assert.ErrorIs(t, out.Errors()[0], ecto.ErrInvalidKey)
	assert.Empty(t, out.Pending)
}

func TestDeleteNoOpOnExistingErrors(t *testing.T) {
	t.Parallel()

	ectx := epic.NewContext()
	ectx.AddError(assert.AnError)

	out := runDelete(t, ecto.NewDelete(mem.New(), "user"), ectx)
	assert.Len(t, out.Errors(), 1)
	assert.Empty(t, out.Pending)
}

func TestDeleteUnrecognizableTarget(t *testing.T) {
	t.Parallel()

	logger := newRecordLogger()
	ectx := epic.NewContext()
	ectx.Logger = logger
	ectx.Assign("user", "not an entity")

	out := runDelete(t, ecto.NewDelete(mem.New(), "user"), ectx)
	assert.False(t, out.HasErrors())
	assert.Empty(t, out.Pending)
	assert.True(t, logger.has("error", "user"))
}

func TestDeleteThenWorkRemovesEverything(t *testing.T) {
	t.Parallel()

	r := mem.New()
	primary := &mem.Entity{ID: "p1"}
	child := &mem.Entity{ID: "c1"}
	require.NoError(t, r.Seed(primary))
	require.NoError(t, r.Seed(child))
	r.SetAssociation("p1", "comments", child)

	ectx := epic.NewContext()
	ectx.Assign("user", primary)

	acts := []epic.Act{
		ecto.NewBegin(r),
		ecto.NewDelete(r, "user", ecto.WithAssociations("comments")),
		ecto.NewWork(r),
		ecto.NewCommit(),
	}
	e, err := epic.New(acts)
	require.NoError(t, err)

	out, err := e.Run(context.Background(), ectx)
	require.NoError(t, err)
	assert.False(t, out.HasErrors())
	assert.Equal(t, 0, r.Len())

	calls := r.Calls()
	require.NotEmpty(t, calls)
	assert.Equal(t, "commit", calls[len(calls)-1])
	// The association is deleted before the entity referencing it.
	assert.Equal(t, []string{"begin", "delete c1", "delete p1", "commit"}, calls)
}

func TestDirectDeleteIdempotent(t *testing.T) {
	t.Parallel()

	r := mem.New()

	affected, err := ecto.DirectDelete(context.Background(), r, &mem.Entity{ID: "ghost"})
	require.NoError(t, err)
	assert.Equal(t, int64(0), affected)
}

func TestDirectDeleteList(t *testing.T) {
	t.Parallel()

	r := mem.New()
	require.NoError(t, r.Seed(&mem.Entity{ID: "a"}))
	require.NoError(t, r.Seed(&mem.Entity{ID: "b"}))

	affected, err := ecto.DirectDelete(context.Background(), r, []any{
		&mem.Entity{ID: "a"},
		&mem.Entity{ID: "ghost"},
		&mem.Entity{ID: "b"},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), affected)
	assert.Equal(t, 0, r.Len())
}

func TestDirectDeleteListAbortsOnFailure(t *testing.T) {
	t.Parallel()

	r := mem.New()
	require.NoError(t, r.Seed(&mem.Entity{ID: "a"}))

	_, err := ecto.DirectDelete(context.Background(), r, []any{42, &mem.Entity{ID: "a"}})
	require.Error(t, err)

	// The failure aborted the remainder of the list.
	_, stillThere := r.Get("a")
	assert.True(t, stillThere)
}

func TestDirectDeleteNilRepo(t *testing.T) {
	t.Parallel()

	_, err := ecto.DirectDelete(context.Background(), nil, &mem.Entity{ID: "a"})
	assert.ErrorIs(t, err, ecto.ErrRepoMustBeSet)
}
