package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/hibernator/service/dao"
)

type record struct {
	ID    string
	State string
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	srv := NewMemoryStore[string, record](func(r *record) string { return r.ID },
		WithStateSelector[string, record](func(r *record) string { return r.State }))

	require.NoError(t, srv.Save(ctx, &record{ID: "r1", State: "PENDING"}))
	require.NoError(t, srv.Save(ctx, &record{ID: "r2", State: "APPROVED"}))
	assert.ErrorIs(t, srv.Save(ctx, nil), dao.ErrNilEntity)
	assert.ErrorIs(t, srv.Save(ctx, &record{}), dao.ErrInvalidID)

	loaded, err := srv.Load(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, &record{ID: "r1", State: "PENDING"}, loaded)

	loaded.State = "mutated"
	again, _ := srv.Load(ctx, "r1")
	assert.Equal(t, "PENDING", again.State)

	list, err := srv.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 2)

	list, err = srv.List(ctx, dao.NewParameter(dao.StateParameter, "APPROVED"))
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "r2", list[0].ID)

	require.NoError(t, srv.Delete(ctx, "r1"))
	_, err = srv.Load(ctx, "r1")
	assert.True(t, dao.IsNotFound(err))
	assert.ErrorIs(t, srv.Delete(ctx, "r1"), dao.ErrNotFound)
}
