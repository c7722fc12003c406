package arena_test

import (
	"github.com/plus3/yulebrawl/arena"
	"github.com/plus3/yulebrawl/ecs"
)

// harness runs a hand-picked subset of systems against a fresh storage.
type harness struct {
	storage   *ecs.Storage
	scheduler *ecs.Scheduler
	keys      *arena.KeyState
}

func newHarness(systems ...ecs.System) *harness {
	registry := ecs.NewComponentRegistry()
	arena.RegisterComponents(registry)
	storage := ecs.NewStorage(registry)

	keys := arena.NewKeyState()
	ecs.NewSingleton(storage, arena.Input{Handler: keys})
	ecs.NewSingleton(storage, arena.DefaultTuning())
	ecs.NewSingleton(storage, arena.NewRandom(1))

	scheduler := ecs.NewScheduler(storage)
	for _, system := range systems {
		scheduler.Register(system)
	}
	return &harness{storage: storage, scheduler: scheduler, keys: keys}
}

func (h *harness) tick(n int) {
	for range n {
		h.scheduler.Once(1)
	}
}

func testRound(life int) arena.ProjectileConstructor {
	round, err := arena.NewProjectile(arena.ProjectileSpec{Life: life, W: 2, H: 2, Frames: []string{"shot"}})
	if err != nil {
		panic(err)
	}
	return round
}

func mustAmmo(rounds ...arena.ProjectileConstructor) arena.Ammo {
	ammo, err := arena.NewAmmo(rounds...)
	if err != nil {
		panic(err)
	}
	return ammo
}

func mustResupply(round arena.ProjectileConstructor, n int) func(*ecs.UpdateFrame, ecs.EntityId) {
	job, err := arena.ResupplyJob(round, n)
	if err != nil {
		panic(err)
	}
	return job
}
