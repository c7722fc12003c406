package arena_test

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/plus3/yulebrawl/arena"
	"github.com/plus3/yulebrawl/ecs"
)

func TestPipelineOrder(t *testing.T) {
	var names []string
	for _, system := range arena.NewPipeline().Systems() {
		names = append(names, reflect.TypeOf(system).Elem().Name())
	}

	assert.Equal(t, []string{
		"JobScheduleUpdateSystem",
		"PlayerUpdateSystem",
		"AmmoUpdateSystem",
		"PositionBoundSystem",
		"CollideSystem",
		"KnockoutSystem",
		"PositionUpdateSystem",
		"OutOfBoundsKillSystem",
		"VelocityAttenuateSystem",
		"LifetimeUpdateSystem",
		"DeadCleanupSystem",
		"PlayerAnimateUpdateSystem",
		"AnimateUpdateSystem",
		"DrawUpdateSystem",
	}, names)
}

func TestPipelineRegistersInOrder(t *testing.T) {
	h := newHarness()
	arena.NewPipeline().Register(h.scheduler)

	h.tick(1)

	var names []string
	for _, s := range h.scheduler.GetStats().Systems {
		names = append(names, s.Name)
		assert.Equal(t, int64(1), s.ExecutionCount)
	}
	assert.Len(t, names, 14)
	assert.Equal(t, "JobScheduleUpdateSystem", names[0])
	assert.Equal(t, "DrawUpdateSystem", names[len(names)-1])
}

// A projectile fired this tick is seen by Collide in the same tick.
func TestPipelineFreshShotCanHit(t *testing.T) {
	h := newHarness()
	arena.NewPipeline().Register(h.scheduler)

	shooter := h.storage.Spawn(
		arena.Position{X: 0, Y: 0},
		arena.Velocity{X: 11},
		mustAmmo(testRound(5)),
		arena.DefaultTopControls(),
	)
	target := spawnTarget(h.storage, 11, 0)
	h.keys.Press("Space")

	h.tick(1)

	assert.Equal(t, 9, health(h.storage, target))
	assert.Equal(t, 2, h.storage.Len(), "the shot is spent")
	assert.False(t, ecs.Has[arena.Ammo](h.storage, shooter))
}
