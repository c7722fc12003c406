package arena

import (
	"math"

	"github.com/plus3/yulebrawl/ecs"
)

// PlayerUpdateSystem turns held direction intents into velocity.
type PlayerUpdateSystem struct {
	Entities ecs.Query[struct {
		*Velocity
		*InputConfig
		MoveSpeed *MoveSpeed `ecs:"optional"`
	}]
	Input  ecs.Singleton[Input]
	Tuning ecs.Singleton[Tuning]
}

func (s *PlayerUpdateSystem) Execute(frame *ecs.UpdateFrame) {
	input := s.Input.Get()
	speed := s.Tuning.Get().MoveSpeed

	for e := range s.Entities.Values() {
		step := speed
		if e.MoveSpeed != nil {
			step = e.MoveSpeed.Speed
		}
		if input.Down(e.InputConfig, IntentUp) {
			e.Velocity.Y -= step
		}
		if input.Down(e.InputConfig, IntentDown) {
			e.Velocity.Y += step
		}
		if input.Down(e.InputConfig, IntentLeft) {
			e.Velocity.X -= step
		}
		if input.Down(e.InputConfig, IntentRight) {
			e.Velocity.X += step
		}
	}
}

// AmmoUpdateSystem fires one queued projectile per tick while FIRE is held.
// An entity whose queue runs dry loses its Ammo component. A nil round, which
// only a hand-built Ammo can hold, is spent without firing.
type AmmoUpdateSystem struct {
	Entities ecs.Query[struct {
		*Position
		*Velocity
		*Ammo
		*InputConfig
	}]
	Input ecs.Singleton[Input]
}

func (s *AmmoUpdateSystem) Execute(frame *ecs.UpdateFrame) {
	input := s.Input.Get()

	for id, e := range s.Entities.Iter() {
		if e.Ammo.Len() == 0 {
			ecs.Remove[Ammo](frame.Storage, id)
			continue
		}
		if !input.Down(e.InputConfig, IntentFire) {
			continue
		}

		round, _ := e.Ammo.Pop()
		x, y := e.Position.X, e.Position.Y
		xv, yv := e.Velocity.X, e.Velocity.Y
		if e.Ammo.Len() == 0 {
			ecs.Remove[Ammo](frame.Storage, id)
		}

		if round == nil {
			continue
		}
		projectile := frame.Storage.Create()
		round(frame.Storage, projectile, id, x, y, xv, yv)
	}
}

// PositionBoundSystem keeps bounded entities inside their PositionBound.
// An entity about to cross an edge is clamped to it and the offending velocity
// axis is multiplied by the bounce multiplier. It commits the position of every
// entity it handles, so PositionUpdateSystem skips them.
type PositionBoundSystem struct {
	Entities ecs.Query[struct {
		*Position
		*Velocity
		*Size
		*PositionBound
		Bounce *BounceMultiplier `ecs:"optional"`
	}]
	Tuning ecs.Singleton[Tuning]
}

func (s *PositionBoundSystem) Execute(frame *ecs.UpdateFrame) {
	defaultBounce := s.Tuning.Get().BounceMultiplier

	for e := range s.Entities.Values() {
		bounce := defaultBounce
		if e.Bounce != nil {
			bounce = e.Bounce.Multiplier
		}
		bound := e.PositionBound

		e.Position.X, e.Velocity.X = boundAxis(e.Position.X, e.Velocity.X, e.Size.W, bound.X, bound.W, bounce)
		e.Position.Y, e.Velocity.Y = boundAxis(e.Position.Y, e.Velocity.Y, e.Size.H, bound.Y, bound.H, bounce)
	}
}

func boundAxis(pos, vel, size, lo, extent, bounce float64) (float64, float64) {
	next := pos + vel
	switch {
	case next < lo:
		return lo, vel * bounce
	case next+size > lo+extent:
		return lo + extent - size, vel * bounce
	}
	return next, vel
}

// CollideSystem resolves projectile hits on players.
// Boxes are compared at their predicted next-tick positions. A hit destroys the
// projectile immediately and costs the player one health; projectiles never hit
// their owner, and a destroyed projectile takes no part in later pairs.
type CollideSystem struct {
	Entities ecs.Query[struct {
		*Position
		*Velocity
		*Size
		*CollideFlag
		Projectile *ProjectileFlag `ecs:"optional"`
		Owner      *Owner          `ecs:"optional"`
		Player     *Player         `ecs:"optional"`
	}]

	colliders []collider
}

type collider struct {
	id         ecs.EntityId
	box        rect
	projectile bool
	owner      ecs.EntityId
	player     *Player
}

type rect struct {
	x, y, w, h float64
}

func (r rect) overlaps(o rect) bool {
	return r.x < o.x+o.w && o.x < r.x+r.w && r.y < o.y+o.h && o.y < r.y+r.h
}

func (s *CollideSystem) Execute(frame *ecs.UpdateFrame) {
	s.colliders = s.colliders[:0]
	for id, e := range s.Entities.Iter() {
		c := collider{
			id: id,
			box: rect{
				x: e.Position.X + e.Velocity.X,
				y: e.Position.Y + e.Velocity.Y,
				w: e.Size.W,
				h: e.Size.H,
			},
			projectile: e.Projectile != nil,
			player:     e.Player,
		}
		if e.Owner != nil {
			c.owner = e.Owner.Entity
		}
		s.colliders = append(s.colliders, c)
	}

	for i := range s.colliders {
		for j := i + 1; j < len(s.colliders); j++ {
			projectile, target, ok := pairUp(&s.colliders[i], &s.colliders[j])
			if !ok {
				continue
			}
			if !frame.Storage.Alive(projectile.id) || !frame.Storage.Alive(target.id) {
				continue
			}
			if !projectile.box.overlaps(target.box) {
				continue
			}
			if projectile.owner == target.id {
				continue
			}

			frame.Storage.Delete(projectile.id)
			target.player.CurrHealth--
		}
	}
}

// pairUp orders a pair as (projectile, player). Any other pairing is ignored.
func pairUp(a, b *collider) (*collider, *collider, bool) {
	switch {
	case a.projectile && b.player != nil:
		return a, b, true
	case b.projectile && a.player != nil:
		return b, a, true
	}
	return nil, nil, false
}

// KnockoutSystem marks players with no health left as dead.
type KnockoutSystem struct {
	Entities ecs.Query[struct {
		*Player
	}]
	// OnKnockout, if set, is called once per knocked out player.
	OnKnockout func(id ecs.EntityId, player *Player)
}

func (s *KnockoutSystem) Execute(frame *ecs.UpdateFrame) {
	for id, e := range s.Entities.Iter() {
		if e.Player.CurrHealth > 0 || ecs.Has[DeadFlag](frame.Storage, id) {
			continue
		}
		Kill(frame.Storage, id)
		if s.OnKnockout != nil {
			s.OnKnockout(id, e.Player)
		}
	}
}

// PositionUpdateSystem integrates velocity into position for every entity
// that PositionBoundSystem did not already move.
type PositionUpdateSystem struct {
	Entities ecs.Query[struct {
		*Position
		*Velocity
		Size  *Size          `ecs:"optional"`
		Bound *PositionBound `ecs:"optional"`
	}]
}

func (s *PositionUpdateSystem) Execute(frame *ecs.UpdateFrame) {
	for e := range s.Entities.Values() {
		if e.Bound != nil && e.Size != nil {
			continue
		}
		e.Position.X += e.Velocity.X
		e.Position.Y += e.Velocity.Y
	}
}

// OutOfBoundsKillSystem marks entities that left their OutOfBounds region as dead.
type OutOfBoundsKillSystem struct {
	Entities ecs.Query[struct {
		*Position
		*OutOfBounds
		*OutOfBoundsKillFlag
	}]
}

func (s *OutOfBoundsKillSystem) Execute(frame *ecs.UpdateFrame) {
	for id, e := range s.Entities.Iter() {
		if !e.OutOfBounds.contains(e.Position.X, e.Position.Y) {
			Kill(frame.Storage, id)
		}
	}
}

// VelocityAttenuateSystem damps velocity every tick.
type VelocityAttenuateSystem struct {
	Entities ecs.Query[struct {
		*Velocity
		*VelocityAttenuateFlag
	}]
	Tuning ecs.Singleton[Tuning]
}

func (s *VelocityAttenuateSystem) Execute(frame *ecs.UpdateFrame) {
	factor := s.Tuning.Get().VelocityAttenuation
	for e := range s.Entities.Values() {
		e.Velocity.X *= factor
		e.Velocity.Y *= factor
	}
}

// LifetimeUpdateSystem counts down lifetimes and destroys expired entities immediately.
type LifetimeUpdateSystem struct {
	Entities ecs.Query[struct {
		*Lifetime
	}]
}

func (s *LifetimeUpdateSystem) Execute(frame *ecs.UpdateFrame) {
	for id, e := range s.Entities.Iter() {
		e.Lifetime.Ticks--
		if e.Lifetime.Ticks <= 0 {
			frame.Storage.Delete(id)
		}
	}
}

// DeadCleanupSystem removes every entity marked with DeadFlag.
// It is the only system that finalizes deferred destruction.
type DeadCleanupSystem struct {
	Entities ecs.Query[struct {
		*DeadFlag
	}]
}

func (s *DeadCleanupSystem) Execute(frame *ecs.UpdateFrame) {
	for id := range s.Entities.Iter() {
		frame.Storage.Delete(id)
	}
}

// PlayerAnimateUpdateSystem picks a slow frame delay for idle entities and a
// fast one for moving entities.
type PlayerAnimateUpdateSystem struct {
	Entities ecs.Query[struct {
		*Velocity
		*Draw
		*Animate
	}]
	Tuning ecs.Singleton[Tuning]
}

func (s *PlayerAnimateUpdateSystem) Execute(frame *ecs.UpdateFrame) {
	tuning := s.Tuning.Get()
	for e := range s.Entities.Values() {
		if math.Abs(e.Velocity.X) < tuning.IdleVelocityThreshold && math.Abs(e.Velocity.Y) < tuning.IdleVelocityThreshold {
			e.Animate.Delay = tuning.IdleAnimDelay
		} else {
			e.Animate.Delay = tuning.MovingAnimDelay
		}
	}
}

// AnimateUpdateSystem advances the displayed frame every Delay ticks, wrapping around.
type AnimateUpdateSystem struct {
	Entities ecs.Query[struct {
		*Draw
		*Animate
	}]
}

func (s *AnimateUpdateSystem) Execute(frame *ecs.UpdateFrame) {
	for e := range s.Entities.Values() {
		if len(e.Draw.Frames) == 0 {
			continue
		}
		e.Animate.Clock++
		if e.Animate.Clock >= e.Animate.Delay {
			e.Draw.Index = (e.Draw.Index + 1) % len(e.Draw.Frames)
			e.Animate.Clock = 0
		}
	}
}

// DrawUpdateSystem copies positions into the renderer-facing Draw placement.
type DrawUpdateSystem struct {
	Entities ecs.Query[struct {
		*Position
		*Draw
	}]
}

func (s *DrawUpdateSystem) Execute(frame *ecs.UpdateFrame) {
	for e := range s.Entities.Values() {
		e.Draw.X = e.Position.X
		e.Draw.Y = e.Position.Y
	}
}
