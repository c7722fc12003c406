package arena_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plus3/yulebrawl/arena"
	"github.com/plus3/yulebrawl/ecs"
)

func TestPositionBoundClampsAndBounces(t *testing.T) {
	h := newHarness(&arena.PositionBoundSystem{})
	bound := arena.PositionBound{X: 0, Y: 0, W: 100, H: 100}
	size := arena.Size{W: 10, H: 10}

	right := h.storage.Spawn(arena.Position{X: 85, Y: 50}, arena.Velocity{X: 10}, size, bound)
	left := h.storage.Spawn(arena.Position{X: 5, Y: 50}, arena.Velocity{X: -10}, size, bound)
	down := h.storage.Spawn(arena.Position{X: 50, Y: 85}, arena.Velocity{Y: 20}, size, bound)
	inside := h.storage.Spawn(arena.Position{X: 20, Y: 20}, arena.Velocity{X: 1, Y: 2}, size, bound)

	h.tick(1)

	assert.Equal(t, arena.Position{X: 90, Y: 50}, *ecs.MustGet[arena.Position](h.storage, right))
	assert.Equal(t, arena.Velocity{X: -100}, *ecs.MustGet[arena.Velocity](h.storage, right))

	assert.Equal(t, arena.Position{X: 0, Y: 50}, *ecs.MustGet[arena.Position](h.storage, left))
	assert.Equal(t, arena.Velocity{X: 100}, *ecs.MustGet[arena.Velocity](h.storage, left))

	assert.Equal(t, arena.Position{X: 50, Y: 90}, *ecs.MustGet[arena.Position](h.storage, down))
	assert.Equal(t, arena.Velocity{Y: -200}, *ecs.MustGet[arena.Velocity](h.storage, down))

	assert.Equal(t, arena.Position{X: 21, Y: 22}, *ecs.MustGet[arena.Position](h.storage, inside))
	assert.Equal(t, arena.Velocity{X: 1, Y: 2}, *ecs.MustGet[arena.Velocity](h.storage, inside))
}

func TestPositionBoundKeepsEntitiesInside(t *testing.T) {
	h := newHarness(&arena.PositionBoundSystem{}, &arena.VelocityAttenuateSystem{})
	bound := arena.PositionBound{X: 10, Y: 20, W: 60, H: 40}
	size := arena.Size{W: 8, H: 4}

	velocities := []arena.Velocity{{X: 50}, {X: -50}, {Y: 70}, {Y: -70}, {X: 33, Y: -41}}
	var ids []ecs.EntityId
	for _, v := range velocities {
		ids = append(ids, h.storage.Spawn(arena.Position{X: 30, Y: 30}, v, size, bound, arena.VelocityAttenuateFlag{}))
	}

	for range 20 {
		h.tick(1)
		for _, id := range ids {
			pos := ecs.MustGet[arena.Position](h.storage, id)
			assert.GreaterOrEqual(t, pos.X, bound.X)
			assert.LessOrEqual(t, pos.X, bound.X+bound.W-size.W)
			assert.GreaterOrEqual(t, pos.Y, bound.Y)
			assert.LessOrEqual(t, pos.Y, bound.Y+bound.H-size.H)
		}
	}
}

func TestPositionBoundMultiplierOverride(t *testing.T) {
	h := newHarness(&arena.PositionBoundSystem{})
	id := h.storage.Spawn(
		arena.Position{X: 95},
		arena.Velocity{X: 10},
		arena.Size{W: 5, H: 5},
		arena.PositionBound{W: 100, H: 100},
		arena.BounceMultiplier{Multiplier: -1},
	)

	h.tick(1)

	assert.Equal(t, 95.0, ecs.MustGet[arena.Position](h.storage, id).X)
	assert.Equal(t, -10.0, ecs.MustGet[arena.Velocity](h.storage, id).X)
}

func TestPositionUpdateIntegratesFreeEntities(t *testing.T) {
	h := newHarness(&arena.PositionBoundSystem{}, &arena.PositionUpdateSystem{})

	free := h.storage.Spawn(arena.Position{X: 1, Y: 2}, arena.Velocity{X: 3, Y: 4})
	far := h.storage.Spawn(arena.Position{X: -1000, Y: 5000}, arena.Velocity{X: -500, Y: 500})
	bounded := h.storage.Spawn(
		arena.Position{X: 20, Y: 20},
		arena.Velocity{X: 1, Y: 1},
		arena.Size{W: 1, H: 1},
		arena.PositionBound{W: 100, H: 100},
	)

	h.tick(2)

	assert.Equal(t, arena.Position{X: 7, Y: 10}, *ecs.MustGet[arena.Position](h.storage, free))
	assert.Equal(t, arena.Position{X: -2000, Y: 6000}, *ecs.MustGet[arena.Position](h.storage, far), "no clamping without a bound")
	assert.Equal(t, arena.Position{X: 22, Y: 22}, *ecs.MustGet[arena.Position](h.storage, bounded), "bounded entities move once per tick")
}

func TestVelocityAttenuate(t *testing.T) {
	h := newHarness(&arena.VelocityAttenuateSystem{})

	moving := h.storage.Spawn(arena.Velocity{X: 4, Y: -2}, arena.VelocityAttenuateFlag{})
	still := h.storage.Spawn(arena.Velocity{}, arena.VelocityAttenuateFlag{})
	unflagged := h.storage.Spawn(arena.Velocity{X: 4, Y: 4})

	h.tick(1)

	assert.Equal(t, arena.Velocity{X: 2, Y: -1}, *ecs.MustGet[arena.Velocity](h.storage, moving))
	assert.Equal(t, arena.Velocity{}, *ecs.MustGet[arena.Velocity](h.storage, still))
	assert.Equal(t, arena.Velocity{X: 4, Y: 4}, *ecs.MustGet[arena.Velocity](h.storage, unflagged))

	h.tick(1)
	assert.Equal(t, arena.Velocity{}, *ecs.MustGet[arena.Velocity](h.storage, still))
}

func TestAnimateCyclesFrames(t *testing.T) {
	h := newHarness(&arena.AnimateUpdateSystem{})
	draw, err := arena.NewDraw("a", "b")
	require.NoError(t, err)
	animate, err := arena.NewAnimate(2)
	require.NoError(t, err)
	id := h.storage.Spawn(draw, animate)

	index := func() int { return ecs.MustGet[arena.Draw](h.storage, id).Index }

	h.tick(1)
	assert.Equal(t, 0, index())
	h.tick(1)
	assert.Equal(t, 1, index())
	h.tick(1)
	assert.Equal(t, 1, index())
	h.tick(1)
	assert.Equal(t, 0, index())
}

func TestPlayerAnimatePicksDelay(t *testing.T) {
	h := newHarness(&arena.PlayerAnimateUpdateSystem{})
	tuning := arena.DefaultTuning()

	idle := h.storage.Spawn(arena.Velocity{X: 0.05}, arena.Draw{Frames: []string{"a"}}, arena.Animate{Delay: 1})
	moving := h.storage.Spawn(arena.Velocity{Y: -1}, arena.Draw{Frames: []string{"a"}}, arena.Animate{Delay: 1})

	h.tick(1)

	assert.Equal(t, tuning.IdleAnimDelay, ecs.MustGet[arena.Animate](h.storage, idle).Delay)
	assert.Equal(t, tuning.MovingAnimDelay, ecs.MustGet[arena.Animate](h.storage, moving).Delay)
}

func TestDrawUpdateCopiesPosition(t *testing.T) {
	h := newHarness(&arena.DrawUpdateSystem{})
	id := h.storage.Spawn(arena.Position{X: 3, Y: 4}, arena.Draw{Frames: []string{"a"}})

	h.tick(1)

	draw := ecs.MustGet[arena.Draw](h.storage, id)
	assert.Equal(t, 3.0, draw.X)
	assert.Equal(t, 4.0, draw.Y)
}

func spawnTarget(s *ecs.Storage, x, y float64) ecs.EntityId {
	return s.Spawn(
		arena.Position{X: x, Y: y},
		arena.Velocity{},
		arena.Size{W: 2, H: 2},
		arena.CollideFlag{},
		arena.Player{CurrHealth: 10, MaxHealth: 10},
	)
}

func spawnShot(s *ecs.Storage, x, y, xv, yv float64, extra ...any) ecs.EntityId {
	components := append([]any{
		arena.Position{X: x, Y: y},
		arena.Velocity{X: xv, Y: yv},
		arena.Size{W: 2, H: 2},
		arena.CollideFlag{},
		arena.ProjectileFlag{},
	}, extra...)
	return s.Spawn(components...)
}

func health(s *ecs.Storage, id ecs.EntityId) int {
	return ecs.MustGet[arena.Player](s, id).CurrHealth
}

func TestCollideHitsPlayer(t *testing.T) {
	h := newHarness(&arena.CollideSystem{})
	player := spawnTarget(h.storage, 11, 10)
	shot := spawnShot(h.storage, 10, 10, 1, 0)

	h.tick(1)

	assert.False(t, h.storage.Alive(shot))
	assert.Equal(t, 9, health(h.storage, player))
}

func TestCollideIgnoresOwner(t *testing.T) {
	h := newHarness(&arena.CollideSystem{})
	player := spawnTarget(h.storage, 11, 10)
	shot := spawnShot(h.storage, 10, 10, 1, 0, arena.Owner{Entity: player})

	h.tick(1)

	assert.True(t, h.storage.Alive(shot))
	assert.Equal(t, 10, health(h.storage, player))
}

func TestCollideUsesPredictedPositions(t *testing.T) {
	h := newHarness(&arena.CollideSystem{})
	player := spawnTarget(h.storage, 20, 10)
	// Overlaps now, but is moving away fast enough to miss next tick.
	fleeing := spawnShot(h.storage, 19, 10, -10, 0)
	// Apart now, but lands on the player next tick.
	incoming := spawnShot(h.storage, 10, 10, 10, 0)

	h.tick(1)

	assert.True(t, h.storage.Alive(fleeing))
	assert.False(t, h.storage.Alive(incoming))
	assert.Equal(t, 9, health(h.storage, player))
}

func TestCollideProjectileHitsOnce(t *testing.T) {
	h := newHarness(&arena.CollideSystem{})
	first := spawnTarget(h.storage, 11, 10)
	second := spawnTarget(h.storage, 11, 10)
	spawnShot(h.storage, 10, 10, 1, 0)

	h.tick(1)

	assert.Equal(t, 19, health(h.storage, first)+health(h.storage, second))
}

func TestCollideEachProjectileCosts(t *testing.T) {
	h := newHarness(&arena.CollideSystem{})
	player := spawnTarget(h.storage, 11, 10)
	spawnShot(h.storage, 10, 10, 1, 0)
	spawnShot(h.storage, 12, 10, -1, 0)
	other := spawnShot(h.storage, 11, 40, 0, 0)
	stray := spawnShot(h.storage, 11, 40, 0, 0)

	h.tick(1)

	assert.Equal(t, 8, health(h.storage, player))
	assert.True(t, h.storage.Alive(other), "projectiles do not collide with each other")
	assert.True(t, h.storage.Alive(stray))
}

// aliveObserver records what a system running between Knockout and
// DeadCleanup can still see.
type aliveObserver struct {
	target ecs.EntityId
	alive  bool
	dead   bool
}

func (p *aliveObserver) Execute(frame *ecs.UpdateFrame) {
	p.alive = frame.Storage.Alive(p.target)
	p.dead = ecs.Has[arena.DeadFlag](frame.Storage, p.target)
}

func TestKnockoutDefersRemoval(t *testing.T) {
	var knockedOut []string
	knockout := &arena.KnockoutSystem{OnKnockout: func(id ecs.EntityId, player *arena.Player) {
		knockedOut = append(knockedOut, player.Name)
	}}
	observer := &aliveObserver{}
	h := newHarness(knockout, observer, &arena.DeadCleanupSystem{})

	loser := h.storage.Spawn(arena.Player{Name: "Josh", CurrHealth: 0, MaxHealth: 10})
	winner := h.storage.Spawn(arena.Player{Name: "Santa", CurrHealth: 1, MaxHealth: 10})
	observer.target = loser

	h.tick(1)

	assert.True(t, observer.alive, "a knocked out player is visible until cleanup")
	assert.True(t, observer.dead)
	assert.False(t, h.storage.Alive(loser))
	assert.True(t, h.storage.Alive(winner))
	assert.Equal(t, []string{"Josh"}, knockedOut)
}

func TestOutOfBoundsKill(t *testing.T) {
	h := newHarness(&arena.OutOfBoundsKillSystem{}, &arena.DeadCleanupSystem{})
	region := arena.OutOfBounds{X: 0, Y: 0, W: 10, H: 10}

	outside := h.storage.Spawn(arena.Position{X: -1}, region, arena.OutOfBoundsKillFlag{})
	edge := h.storage.Spawn(arena.Position{X: 10, Y: 5}, region, arena.OutOfBoundsKillFlag{})
	inside := h.storage.Spawn(arena.Position{X: 5, Y: 5}, region, arena.OutOfBoundsKillFlag{})
	unflagged := h.storage.Spawn(arena.Position{X: -1}, region)

	h.tick(1)

	assert.False(t, h.storage.Alive(outside))
	assert.False(t, h.storage.Alive(edge))
	assert.True(t, h.storage.Alive(inside))
	assert.True(t, h.storage.Alive(unflagged))
}

func TestLifetimeExpiry(t *testing.T) {
	h := newHarness(&arena.LifetimeUpdateSystem{})
	short := h.storage.Spawn(arena.Lifetime{Ticks: 1})
	long := h.storage.Spawn(arena.Lifetime{Ticks: 2})

	h.tick(1)

	assert.False(t, h.storage.Alive(short))
	require.True(t, h.storage.Alive(long))
	assert.Equal(t, 1, ecs.MustGet[arena.Lifetime](h.storage, long).Ticks)

	h.tick(1)
	assert.False(t, h.storage.Alive(long))
}

func TestAmmoFiresOnePerTick(t *testing.T) {
	h := newHarness(&arena.AmmoUpdateSystem{})
	shooter := h.storage.Spawn(
		arena.Position{X: 5, Y: 6},
		arena.Velocity{X: 1, Y: 2},
		mustAmmo(arena.Rounds(testRound(10), 3)...),
		arena.DefaultTopControls(),
	)

	h.tick(1)
	assert.Equal(t, 3, ecs.MustGet[arena.Ammo](h.storage, shooter).Len(), "no fire without the key")
	assert.Equal(t, 1, h.storage.Len())

	h.keys.Press("Space")
	h.tick(1)
	assert.Equal(t, 2, ecs.MustGet[arena.Ammo](h.storage, shooter).Len())
	assert.Equal(t, 2, h.storage.Len())
}

func TestAmmoExhaustionRemovesComponent(t *testing.T) {
	h := newHarness(&arena.AmmoUpdateSystem{})
	shooter := h.storage.Spawn(
		arena.Position{X: 5, Y: 6},
		arena.Velocity{X: 1, Y: 2},
		mustAmmo(testRound(10)),
		arena.DefaultTopControls(),
	)
	h.keys.Press("Space")

	h.tick(1)

	assert.False(t, ecs.Has[arena.Ammo](h.storage, shooter))
	assert.True(t, h.storage.Alive(shooter))

	var shots []ecs.EntityId
	for id := range h.storage.Entities() {
		if id != shooter {
			shots = append(shots, id)
		}
	}
	require.Len(t, shots, 1)
	shot := shots[0]
	assert.Equal(t, arena.Owner{Entity: shooter}, *ecs.MustGet[arena.Owner](h.storage, shot))
	assert.Equal(t, arena.Position{X: 5, Y: 6}, *ecs.MustGet[arena.Position](h.storage, shot))
	assert.Equal(t, arena.Velocity{X: 1, Y: 2}, *ecs.MustGet[arena.Velocity](h.storage, shot))
	assert.Equal(t, 10, ecs.MustGet[arena.Lifetime](h.storage, shot).Ticks)
	assert.True(t, ecs.Has[arena.ProjectileFlag](h.storage, shot))
	assert.True(t, ecs.Has[arena.CollideFlag](h.storage, shot))

	h.tick(1)
	assert.Equal(t, 2, h.storage.Len(), "nothing left to fire")
}

func TestAmmoNilRoundDoesNotFire(t *testing.T) {
	h := newHarness(&arena.AmmoUpdateSystem{})
	shooter := h.storage.Spawn(
		arena.Position{},
		arena.Velocity{},
		arena.Ammo{Rounds: []arena.ProjectileConstructor{nil, testRound(3)}},
		arena.DefaultTopControls(),
	)
	h.keys.Press("Space")

	require.NotPanics(t, func() { h.tick(1) })
	assert.Equal(t, 1, h.storage.Len())
	assert.Equal(t, 1, ecs.MustGet[arena.Ammo](h.storage, shooter).Len())

	h.tick(1)
	assert.Equal(t, 2, h.storage.Len())
	assert.False(t, ecs.Has[arena.Ammo](h.storage, shooter))
}

func TestAmmoEmptyQueueIsRemoved(t *testing.T) {
	h := newHarness(&arena.AmmoUpdateSystem{})
	shooter := h.storage.Spawn(arena.Position{}, arena.Velocity{}, arena.Ammo{}, arena.DefaultTopControls())

	h.tick(1)

	assert.False(t, ecs.Has[arena.Ammo](h.storage, shooter))
	assert.Equal(t, 1, h.storage.Len())
}

func TestPlayerUpdateAppliesIntents(t *testing.T) {
	h := newHarness(&arena.PlayerUpdateSystem{})
	bottom := h.storage.Spawn(arena.Velocity{}, arena.DefaultBottomControls())
	slow := h.storage.Spawn(arena.Velocity{}, arena.DefaultBottomControls(), arena.MoveSpeed{Speed: 2})
	top := h.storage.Spawn(arena.Velocity{}, arena.DefaultTopControls())

	h.keys.Press("W", "D")
	h.tick(1)

	assert.Equal(t, arena.Velocity{X: 5, Y: -5}, *ecs.MustGet[arena.Velocity](h.storage, bottom))
	assert.Equal(t, arena.Velocity{X: 2, Y: -2}, *ecs.MustGet[arena.Velocity](h.storage, slow))
	assert.Equal(t, arena.Velocity{}, *ecs.MustGet[arena.Velocity](h.storage, top), "other schemes are unaffected")

	h.keys.Reset()
	h.keys.Press("ArrowDown", "ArrowLeft", "ArrowRight")
	h.tick(1)
	assert.Equal(t, arena.Velocity{Y: 5}, *ecs.MustGet[arena.Velocity](h.storage, top), "opposite directions cancel")
}
