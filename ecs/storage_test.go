package ecs_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plus3/yulebrawl/ecs"
)

func TestSpawnAndGetComponent(t *testing.T) {
	storage := newTestStorage()

	id := storage.Spawn(Position{X: 3, Y: 4}, Name("bob"))
	require.True(t, id.Valid())
	assert.True(t, storage.Alive(id))
	assert.Equal(t, 1, storage.Len())

	pos := storage.GetComponent(id, typeOf[Position]()).(*Position)
	assert.Equal(t, Position{X: 3, Y: 4}, *pos)
	assert.Equal(t, Name("bob"), *storage.GetComponent(id, typeOf[Name]()).(*Name))
	assert.Nil(t, storage.GetComponent(id, typeOf[Velocity]()))
}

func TestSpawnAcceptsPointers(t *testing.T) {
	storage := newTestStorage()

	src := &Position{X: 1, Y: 2}
	id := storage.Spawn(src)
	src.X = 100

	pos := ecs.MustGet[Position](storage, id)
	assert.Equal(t, 1.0, pos.X, "storage keeps its own copy")
}

func TestCreateHasNoComponents(t *testing.T) {
	storage := newTestStorage()

	id := storage.Create()
	assert.True(t, storage.Alive(id))
	assert.Empty(t, storage.ComponentTypes(id))
}

func TestComponentMutationPersists(t *testing.T) {
	storage := newTestStorage()
	id := storage.Spawn(Position{X: 1, Y: 1})

	pos := ecs.MustGet[Position](storage, id)
	pos.X, pos.Y = 10, 20

	assert.Equal(t, Position{X: 10, Y: 20}, *ecs.MustGet[Position](storage, id))
}

func TestAddComponentReplaces(t *testing.T) {
	storage := newTestStorage()
	id := storage.Spawn(Health{Current: 5, Max: 10})
	before := ecs.MustGet[Health](storage, id)

	require.True(t, storage.AddComponent(id, Health{Current: 9, Max: 10}))

	after := ecs.MustGet[Health](storage, id)
	assert.Equal(t, 9, after.Current)
	assert.Same(t, before, after, "replacing keeps the component in place")
	assert.Len(t, storage.ComponentTypes(id), 1)
}

func TestAddAndRemoveKeepEntityId(t *testing.T) {
	storage := newTestStorage()
	id := storage.Spawn(Position{X: 1})

	require.True(t, storage.AddComponent(id, Velocity{DX: 2}))
	assert.True(t, ecs.Has[Velocity](storage, id))
	assert.Equal(t, 1.0, ecs.MustGet[Position](storage, id).X)

	ecs.Remove[Velocity](storage, id)
	assert.False(t, ecs.Has[Velocity](storage, id))
	assert.True(t, storage.Alive(id), "removing the last optional component leaves the entity alive")

	ecs.Remove[Position](storage, id)
	assert.True(t, storage.Alive(id))
	assert.Empty(t, storage.ComponentTypes(id))

	// Removing an absent component is a no-op.
	ecs.Remove[Health](storage, id)
}

func TestDeleteEntity(t *testing.T) {
	storage := newTestStorage()
	id := storage.Spawn(Position{X: 1}, Health{Current: 1})
	other := storage.Spawn(Position{X: 2})

	storage.Delete(id)

	assert.False(t, storage.Alive(id))
	assert.Nil(t, storage.GetComponent(id, typeOf[Position]()))
	assert.Equal(t, 1, storage.Len())
	assert.Equal(t, 2.0, ecs.MustGet[Position](storage, other).X)
}

func TestDoubleDeleteIsNoop(t *testing.T) {
	storage := newTestStorage()
	id := storage.Spawn(Position{})
	storage.Spawn(Position{})

	storage.Delete(id)
	storage.Delete(id)

	assert.Equal(t, 1, storage.Len())
	// The freed index must only be handed out once.
	a := storage.Create()
	b := storage.Create()
	assert.NotEqual(t, a.Index(), b.Index())
}

func TestAddComponentToDeadEntity(t *testing.T) {
	storage := newTestStorage()
	id := storage.Spawn(Position{})
	storage.Delete(id)

	assert.False(t, storage.AddComponent(id, Velocity{}))

	err := ecs.Add(storage, id, Velocity{})
	assert.ErrorIs(t, err, ecs.ErrDeadEntity)
}

func TestAddUnregisteredComponentPanics(t *testing.T) {
	type unregistered struct{}
	storage := newTestStorage()
	id := storage.Create()

	assert.Panics(t, func() {
		storage.AddComponent(id, unregistered{})
	})
}

func TestRegisterRejectsReferenceKinds(t *testing.T) {
	registry := ecs.NewComponentRegistry()

	assert.Panics(t, func() { ecs.RegisterComponent[*Position](registry) })
	assert.Panics(t, func() { ecs.RegisterComponent[map[string]int](registry) })
	assert.Panics(t, func() { ecs.RegisterComponent[func()](registry) })
	assert.NotPanics(t, func() { ecs.RegisterComponent[Inventory](registry) })
	assert.True(t, registry.IsRegistered(typeOf[Inventory]()))
	assert.False(t, registry.IsRegistered(typeOf[Position]()))
}

func TestGetReportsMissingComponent(t *testing.T) {
	storage := newTestStorage()
	id := storage.Spawn(Position{})

	pos, err := ecs.Get[Position](storage, id)
	require.NoError(t, err)
	assert.NotNil(t, pos)

	vel, err := ecs.Get[Velocity](storage, id)
	assert.Nil(t, vel)
	assert.True(t, errors.Is(err, ecs.ErrMissingComponent))
	assert.Contains(t, err.Error(), "Velocity")

	assert.Panics(t, func() { ecs.MustGet[Velocity](storage, id) })
}

func TestReadComponent(t *testing.T) {
	storage := newTestStorage()
	id := storage.Spawn(Score(7))

	assert.Equal(t, Score(7), *ecs.ReadComponent[Score](storage, id))
	assert.Nil(t, ecs.ReadComponent[Health](storage, id))
}

func TestEntitiesAscendingIndexOrder(t *testing.T) {
	storage := newTestStorage()

	ids := make([]ecs.EntityId, 5)
	for i := range ids {
		ids[i] = storage.Spawn(Score(i))
	}
	storage.Delete(ids[1])
	storage.Delete(ids[3])
	reused := storage.Spawn(Score(99))

	var got []ecs.EntityId
	for id := range storage.Entities() {
		got = append(got, id)
	}

	// The recycled index slots back into its place in index order.
	assert.Len(t, got, 4)
	for i := 1; i < len(got); i++ {
		assert.Less(t, got[i-1].Index(), got[i].Index())
	}
	assert.Contains(t, got, reused)
}

func TestComponentTypesSortedByName(t *testing.T) {
	storage := newTestStorage()
	id := storage.Spawn(Velocity{}, Position{}, Health{})

	types := storage.ComponentTypes(id)
	require.Len(t, types, 3)
	assert.Equal(t, typeOf[Health](), types[0])
	assert.Equal(t, typeOf[Position](), types[1])
	assert.Equal(t, typeOf[Velocity](), types[2])
}

func TestComponentPointersStayStable(t *testing.T) {
	storage := newTestStorage()
	first := storage.Spawn(Position{X: 1})
	ptr := ecs.MustGet[Position](storage, first)

	// Enough spawns to allocate several more blocks.
	for i := range 1000 {
		storage.Spawn(Position{X: float64(i)})
	}

	assert.Same(t, ptr, ecs.MustGet[Position](storage, first))
	assert.Equal(t, 1.0, ptr.X)
}

func TestDeletedSlotIsReused(t *testing.T) {
	storage := newTestStorage()
	a := storage.Spawn(Health{Current: 1})
	ptr := ecs.MustGet[Health](storage, a)
	storage.Delete(a)

	assert.Equal(t, Health{}, *ptr, "freed slots are zeroed")

	b := storage.Spawn(Health{Current: 2})
	assert.Same(t, ptr, ecs.MustGet[Health](storage, b))
}

func TestReferenceFieldComponents(t *testing.T) {
	storage := newTestStorage()
	id := storage.Spawn(
		Inventory{Items: []string{"coal"}},
		Attributes{Values: map[string]int{"str": 3}},
	)

	inv := ecs.MustGet[Inventory](storage, id)
	inv.Items = append(inv.Items, "mug")
	ecs.MustGet[Attributes](storage, id).Values["str"]++

	assert.Equal(t, []string{"coal", "mug"}, ecs.MustGet[Inventory](storage, id).Items)
	assert.Equal(t, 4, ecs.MustGet[Attributes](storage, id).Values["str"])
}

func TestEntityReferenceComponent(t *testing.T) {
	storage := newTestStorage()
	target := storage.Spawn(Name("target"))
	seeker := storage.Spawn(Target{Entity: target})

	ref := ecs.MustGet[Target](storage, seeker).Entity
	assert.True(t, storage.Alive(ref))

	storage.Delete(target)
	storage.Spawn(Name("impostor"))

	assert.False(t, storage.Alive(ref), "a reference to a destroyed entity never resolves to its successor")
}

func TestBuiltinComponent(t *testing.T) {
	storage := newTestStorage()
	id := storage.Spawn(3.5)

	*ecs.MustGet[float64](storage, id) *= 2
	assert.Equal(t, 7.0, *ecs.MustGet[float64](storage, id))
}

func TestLargeNumberOfEntities(t *testing.T) {
	storage := newTestStorage()

	const n = 5000
	ids := make([]ecs.EntityId, n)
	for i := range ids {
		ids[i] = storage.Spawn(Position{X: float64(i)}, Score(i))
	}
	for i := 0; i < n; i += 2 {
		storage.Delete(ids[i])
	}

	assert.Equal(t, n/2, storage.Len())
	for i := 1; i < n; i += 2 {
		assert.Equal(t, float64(i), ecs.MustGet[Position](storage, ids[i]).X)
	}
}

func TestSingletons(t *testing.T) {
	storage := newTestStorage()

	clock := ecs.NewSingleton(storage, Clock{Ticks: 3})
	assert.Equal(t, 3, clock.Get().Ticks)

	// A second accessor sees the same value.
	other := ecs.NewSingleton[Clock](storage)
	other.Get().Ticks++
	assert.Equal(t, 4, clock.Get().Ticks)

	ptr := clock.Get()
	storage.AddSingleton(Clock{Ticks: 10})
	assert.Same(t, ptr, clock.Get(), "re-adding replaces in place")
	assert.Equal(t, 10, ptr.Ticks)

	clock.Set(Clock{Ticks: 1})
	assert.Equal(t, 1, other.Get().Ticks)
	assert.True(t, clock.Exists())

	assert.Equal(t, 0, storage.Len(), "singletons are not entities")
}
