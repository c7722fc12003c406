package arena

import "github.com/plus3/yulebrawl/ecs"

// Pipeline holds the systems of one tick in execution order.
type Pipeline struct {
	JobSchedule       *JobScheduleUpdateSystem
	PlayerUpdate      *PlayerUpdateSystem
	AmmoUpdate        *AmmoUpdateSystem
	PositionBound     *PositionBoundSystem
	Collide           *CollideSystem
	Knockout          *KnockoutSystem
	PositionUpdate    *PositionUpdateSystem
	OutOfBoundsKill   *OutOfBoundsKillSystem
	VelocityAttenuate *VelocityAttenuateSystem
	LifetimeUpdate    *LifetimeUpdateSystem
	DeadCleanup       *DeadCleanupSystem
	PlayerAnimate     *PlayerAnimateUpdateSystem
	Animate           *AnimateUpdateSystem
	DrawUpdate        *DrawUpdateSystem
}

// NewPipeline builds the systems in execution order.
func NewPipeline() *Pipeline {
	return &Pipeline{
		JobSchedule:       &JobScheduleUpdateSystem{},
		PlayerUpdate:      &PlayerUpdateSystem{},
		AmmoUpdate:        &AmmoUpdateSystem{},
		PositionBound:     &PositionBoundSystem{},
		Collide:           &CollideSystem{},
		Knockout:          &KnockoutSystem{},
		PositionUpdate:    &PositionUpdateSystem{},
		OutOfBoundsKill:   &OutOfBoundsKillSystem{},
		VelocityAttenuate: &VelocityAttenuateSystem{},
		LifetimeUpdate:    &LifetimeUpdateSystem{},
		DeadCleanup:       &DeadCleanupSystem{},
		PlayerAnimate:     &PlayerAnimateUpdateSystem{},
		Animate:           &AnimateUpdateSystem{},
		DrawUpdate:        &DrawUpdateSystem{},
	}
}

// Systems returns the systems in the order they must run.
//
// Input turns into velocity before anything moves; projectiles are spawned
// before collision so a fresh shot can hit on the tick it is fired; bounded
// entities commit their position before collision and free integration;
// lifetime expiry and deferred deaths are finalized before animation and the
// draw placement are updated for the renderer.
func (p *Pipeline) Systems() []ecs.System {
	return []ecs.System{
		p.JobSchedule,
		p.PlayerUpdate,
		p.AmmoUpdate,
		p.PositionBound,
		p.Collide,
		p.Knockout,
		p.PositionUpdate,
		p.OutOfBoundsKill,
		p.VelocityAttenuate,
		p.LifetimeUpdate,
		p.DeadCleanup,
		p.PlayerAnimate,
		p.Animate,
		p.DrawUpdate,
	}
}

// Register adds every system to the scheduler in pipeline order.
func (p *Pipeline) Register(scheduler *ecs.Scheduler) {
	for _, system := range p.Systems() {
		scheduler.Register(system)
	}
}
