package arena_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plus3/yulebrawl/arena"
	"github.com/plus3/yulebrawl/ecs"
)

func noopJob(*ecs.UpdateFrame, ecs.EntityId) {}

func TestJobScheduleRunsEveryPeriod(t *testing.T) {
	h := newHarness(&arena.JobScheduleUpdateSystem{})

	var ran []int64
	schedule, err := arena.NewJobSchedule(func(frame *ecs.UpdateFrame, id ecs.EntityId) {
		ran = append(ran, frame.Tick)
	}, 3, 0)
	require.NoError(t, err)
	h.storage.Spawn(schedule)

	h.tick(10)

	assert.Equal(t, []int64{3, 6, 9}, ran)
}

func TestJobScheduleJitterIsSeeded(t *testing.T) {
	nextTicks := func() []float64 {
		h := newHarness(&arena.JobScheduleUpdateSystem{})
		schedule, err := arena.NewJobSchedule(noopJob, 2, 5)
		require.NoError(t, err)
		id := h.storage.Spawn(schedule)

		var out []float64
		for range 50 {
			h.tick(1)
			next := ecs.MustGet[arena.JobSchedule](h.storage, id).NextTick
			require.Greater(t, next, float64(h.scheduler.Ticks()-1), "a job never runs twice in one tick")
			out = append(out, next)
		}
		return out
	}

	assert.Equal(t, nextTicks(), nextTicks())
}

func TestResupplyReplacesAmmo(t *testing.T) {
	h := newHarness(&arena.JobScheduleUpdateSystem{})
	schedule, err := arena.NewJobSchedule(mustResupply(testRound(5), 4), 2, 0)
	require.NoError(t, err)
	id := h.storage.Spawn(schedule, mustAmmo(testRound(5)))

	h.tick(2)
	assert.Equal(t, 1, ecs.MustGet[arena.Ammo](h.storage, id).Len())

	h.tick(1)
	assert.Equal(t, 4, ecs.MustGet[arena.Ammo](h.storage, id).Len())
}

func TestResupplyRestoresRemovedAmmo(t *testing.T) {
	h := newHarness(&arena.JobScheduleUpdateSystem{})
	schedule, err := arena.NewJobSchedule(mustResupply(testRound(5), 2), 1, 0)
	require.NoError(t, err)
	id := h.storage.Spawn(schedule)

	h.tick(2)

	assert.Equal(t, 2, ecs.MustGet[arena.Ammo](h.storage, id).Len())
}
