// Command ecs-stress runs a crowded headless arena and reports tick timings.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"os"
	"runtime"
	"time"

	"github.com/plus3/yulebrawl/arena"
)

func main() {
	duration := flag.Duration("duration", 10*time.Second, "The total duration the test should run for.")
	entityCount := flag.Int("entities", 1000, "The number of fighters to spawn.")
	seed := flag.Uint64("seed", 1, "Seed for placement, input and resupply jitter.")
	gcPauseMetrics := flag.Bool("gc-pause-metrics", false, "Enable detailed GC pause metrics in the report.")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	logger.Info("starting arena stress test", "fighters", *entityCount, "duration", *duration)

	rng := rand.New(rand.NewPCG(*seed, *seed))
	input := newChaosInput(rng)
	world := arena.NewWorld(arena.WithInput(input), arena.WithSeed(*seed))

	if err := populate(world, rng, *entityCount); err != nil {
		logger.Error("failed to populate arena", "error", err)
		os.Exit(1)
	}
	logger.Info("population complete", "entities", world.Storage().Len())

	report := &Report{
		Duration:       *duration,
		Entities:       *entityCount,
		Systems:        world.Scheduler().GetStats().SystemCount,
		GCPauseMetrics: *gcPauseMetrics,
	}

	runtime.ReadMemStats(&report.MemStatsStart)

	ctx, cancel := context.WithTimeout(context.Background(), *duration)
	defer cancel()

	startTime := time.Now()
Loop:
	for {
		select {
		case <-ctx.Done():
			break Loop
		default:
			input.Shuffle()

			updateStart := time.Now()
			world.Tick()
			report.UpdateTime.Samples = append(report.UpdateTime.Samples, time.Since(updateStart))

			report.PeakEntities = max(report.PeakEntities, world.Storage().Len())
		}
	}

	report.TotalTime = time.Since(startTime)
	report.TotalUpdates = world.Scheduler().Ticks()
	report.UpdateTime.Finalize()
	report.FinalEntities = world.Storage().Len()
	report.SystemStats = world.Scheduler().GetStats().Systems
	runtime.ReadMemStats(&report.MemStatsEnd)

	logger.Info("simulation finished", "ticks", report.TotalUpdates)

	fmt.Println("\n\n--- Stress Test Report ---")
	if err := report.Generate(os.Stdout); err != nil {
		logger.Error("failed to generate report", "error", err)
		os.Exit(1)
	}
	fmt.Println("--- End of Report ---")
}

const (
	arenaW = 1920
	arenaH = 1080
)

// populate spawns bounded, armed, animated fighters spread over the arena,
// alternating control schemes so both sides fire.
func populate(world *arena.World, rng *rand.Rand, n int) error {
	bound := arena.PositionBound{W: arenaW, H: arenaH}
	schemes := []arena.InputConfig{arena.DefaultTopControls(), arena.DefaultBottomControls()}

	for i := range n {
		side := arena.Side(i % 2)
		_, err := world.SpawnPlayer(arena.PlayerSpec{
			Profile:  arena.PlayerProfile{Name: fmt.Sprintf("fighter-%d", i), MaxHealth: 1000},
			Side:     side,
			X:        rng.Float64() * (arenaW - 16),
			Y:        rng.Float64() * (arenaH - 16),
			W:        16,
			H:        16,
			Bound:    bound,
			Frames:   []string{"a", "b", "c"},
			Controls: schemes[side],
			Ammo:     arena.Rounds(arena.CoalProjectile, 20),
			Resupply: &arena.ResupplySpec{Round: arena.CoalProjectile, Rounds: 20, Period: 60, StdDev: 10},
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// chaosInput holds a random half of the known keys, re-rolled every tick.
type chaosInput struct {
	rng  *rand.Rand
	keys []arena.Key
	down map[arena.Key]bool
}

func newChaosInput(rng *rand.Rand) *chaosInput {
	in := &chaosInput{rng: rng, down: make(map[arena.Key]bool)}
	for _, scheme := range []arena.InputConfig{arena.DefaultTopControls(), arena.DefaultBottomControls()} {
		for _, key := range scheme.KeyMap {
			in.keys = append(in.keys, key)
		}
	}
	return in
}

func (in *chaosInput) Shuffle() {
	for _, key := range in.keys {
		in.down[key] = in.rng.IntN(2) == 0
	}
}

func (in *chaosInput) IsKeyDown(key arena.Key) bool {
	return in.down[key]
}
