package ecs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type hull struct{ name string }

func TestEntityPoolStaleHandle(t *testing.T) {
	p := NewEntityPool()
	a := p.Create()
	require.False(t, a.IsZero(), "first handle must not be the zero id")
	require.True(t, p.Alive(a))

	require.True(t, p.Destroy(a))
	assert.False(t, p.Alive(a))
	assert.False(t, p.Destroy(a), "second destroy of a stale handle")

	b := p.Create()
	assert.Equal(t, a.Index(), b.Index(), "slot is reused")
	assert.NotEqual(t, a, b)
	assert.False(t, p.Alive(a))
	assert.Equal(t, 1, p.Live())
}

func TestStoreKeepsInsertionOrder(t *testing.T) {
	w := NewWorld()
	s := NewStore[hull]()
	ids := make([]EntityID, 5)
	for i := range ids {
		ids[i] = w.CreateEntity()
		s.Set(ids[i], &hull{name: string(rune('a' + i))})
	}
	s.Remove(ids[1])
	s.Set(ids[3], &hull{name: "D"})

	var got []string
	s.Each(func(_ EntityID, h *hull) { got = append(got, h.name) })
	assert.Equal(t, []string{"a", "c", "D", "e"}, got)

	h, ok := s.Get(ids[4])
	require.True(t, ok)
	assert.Equal(t, "e", h.name)
}

func TestStoreEachSkipsComponentsAddedDuringPass(t *testing.T) {
	w := NewWorld()
	s := NewStore[hull]()
	s.Set(w.CreateEntity(), &hull{name: "first"})

	visited := 0
	s.Each(func(_ EntityID, _ *hull) {
		visited++
		s.Set(w.CreateEntity(), &hull{name: "spawned"})
	})
	assert.Equal(t, 1, visited)
	assert.Equal(t, 2, s.Len())
}

func TestWorldDeferredDestroy(t *testing.T) {
	w := NewWorld()
	ships := NewStore[hull]()
	ctl := NewStore[int]()
	w.Registry().Register(ships)
	w.Registry().Register(ctl)

	id := w.CreateEntity()
	ships.Set(id, &hull{name: "escort"})
	v := 7
	ctl.Set(id, &v)

	w.MarkForDestruction(id)
	w.MarkForDestruction(id)
	assert.True(t, w.Doomed(id))
	assert.True(t, ships.Has(id), "still present until flush")

	assert.Equal(t, 1, w.FlushDestroyQueue())
	assert.False(t, ships.Has(id))
	assert.False(t, ctl.Has(id), "controller removed with its parent")
	assert.False(t, w.Alive(id))
	assert.Equal(t, 0, w.FlushDestroyQueue())
}
