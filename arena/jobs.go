package arena

import (
	"math"
	"math/rand/v2"

	"github.com/plus3/yulebrawl/ecs"
)

// Random is the singleton source of randomness for the pipeline, seeded so
// that runs can be replayed.
type Random struct {
	Rand *rand.Rand
}

// NewRandom seeds a PCG source.
func NewRandom(seed uint64) Random {
	return Random{Rand: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// JobScheduleUpdateSystem runs scheduled jobs whose time has come.
// Jobs get the frame so they can queue their structural changes on
// frame.Commands; those land after the last system of the tick.
type JobScheduleUpdateSystem struct {
	Entities ecs.Query[struct {
		*JobSchedule
	}]
	Random ecs.Singleton[Random]
}

func (s *JobScheduleUpdateSystem) Execute(frame *ecs.UpdateFrame) {
	now := float64(frame.Tick)
	for id, e := range s.Entities.Iter() {
		job := e.JobSchedule
		if now < job.NextTick {
			continue
		}
		job.Job(frame, id)
		job.NextTick = now + s.nextDelay(job)
	}
}

// nextDelay draws the ticks until the next run, never less than one.
func (s *JobScheduleUpdateSystem) nextDelay(job *JobSchedule) float64 {
	delay := job.Period
	if random := s.Random.Get(); random != nil && random.Rand != nil && job.StdDev > 0 {
		delay += random.Rand.NormFloat64() * job.StdDev
	}
	return math.Max(1, delay)
}

// ResupplyJob refills the entity's Ammo with n copies of round, replacing
// whatever is left in the queue.
func ResupplyJob(round ProjectileConstructor, n int) (func(frame *ecs.UpdateFrame, id ecs.EntityId), error) {
	if round == nil || n < 1 {
		return nil, invalid("resupply needs a round and a positive count, got %d", n)
	}
	return func(frame *ecs.UpdateFrame, id ecs.EntityId) {
		frame.Commands.AddComponent(id, Ammo{Rounds: Rounds(round, n)})
	}, nil
}
