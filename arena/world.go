package arena

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/plus3/yulebrawl/ecs"
)

// World is the game context: it owns the live entity set, the input handler
// and the tick pipeline. Frontends create entities and read drawable state
// through it; systems only see the storage through their queries.
type World struct {
	registry  *ecs.ComponentRegistry
	storage   *ecs.Storage
	scheduler *ecs.Scheduler
	pipeline  *Pipeline

	input  *ecs.Singleton[Input]
	tuning *ecs.Singleton[Tuning]
	random *ecs.Singleton[Random]

	players   *ecs.View[playerView]
	drawables *ecs.View[drawableView]

	logger *slog.Logger
}

type playerView struct {
	*Player
	Position *Position `ecs:"optional"`
	Ammo     *Ammo     `ecs:"optional"`
}

type drawableView struct {
	*Draw
	Size *Size `ecs:"optional"`
}

type worldOptions struct {
	logger *slog.Logger
	tuning Tuning
	input  InputHandler
	seed   uint64
}

// Option configures a World.
type Option func(*worldOptions)

// WithLogger sets the logger for lifecycle events. The default discards.
func WithLogger(logger *slog.Logger) Option {
	return func(o *worldOptions) { o.logger = logger }
}

// WithTuning replaces DefaultTuning. Invalid constants are logged and ignored.
func WithTuning(tuning Tuning) Option {
	return func(o *worldOptions) { o.tuning = tuning }
}

// WithInput sets the handler the pipeline reads keys from.
func WithInput(handler InputHandler) Option {
	return func(o *worldOptions) { o.input = handler }
}

// WithSeed makes job jitter reproducible. The default seed is time based.
func WithSeed(seed uint64) Option {
	return func(o *worldOptions) { o.seed = seed }
}

// NewWorld registers every arena component and the pipeline on a fresh storage.
func NewWorld(opts ...Option) *World {
	options := worldOptions{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		tuning: DefaultTuning(),
		seed:   uint64(time.Now().UnixNano()),
	}
	for _, opt := range opts {
		opt(&options)
	}
	if err := options.tuning.Validate(); err != nil {
		options.logger.Warn("ignoring invalid tuning", "error", err)
		options.tuning = DefaultTuning()
	}

	registry := ecs.NewComponentRegistry()
	RegisterComponents(registry)
	storage := ecs.NewStorage(registry)

	w := &World{
		registry:  registry,
		storage:   storage,
		scheduler: ecs.NewScheduler(storage),
		pipeline:  NewPipeline(),
		input:     ecs.NewSingleton(storage, Input{Handler: options.input}),
		tuning:    ecs.NewSingleton(storage, options.tuning),
		random:    ecs.NewSingleton(storage, NewRandom(options.seed)),
		players:   ecs.NewView[playerView](storage),
		drawables: ecs.NewView[drawableView](storage),
		logger:    options.logger,
	}

	w.pipeline.Knockout.OnKnockout = func(id ecs.EntityId, player *Player) {
		w.logger.Info("player knocked out", "entity", id, "name", player.Name, "health", player.CurrHealth)
	}
	w.pipeline.Register(w.scheduler)
	return w
}

// Storage is the entity store every system reads.
func (w *World) Storage() *ecs.Storage {
	return w.storage
}

// Registry holds the component kinds registered by NewWorld.
func (w *World) Registry() *ecs.ComponentRegistry {
	return w.registry
}

// Scheduler runs the system pipeline once per Tick.
func (w *World) Scheduler() *ecs.Scheduler {
	return w.scheduler
}

// AddSystem appends a system after the pipeline, e.g. a debug overlay.
func (w *World) AddSystem(system ecs.System) {
	w.scheduler.Register(system)
}

// Tick runs the pipeline once.
func (w *World) Tick() {
	w.scheduler.Once(1)
}

// Run ticks at the given interval until ctx is cancelled.
func (w *World) Run(ctx context.Context, interval time.Duration) {
	w.logger.Debug("world running", "interval", interval)
	w.scheduler.Run(ctx, interval)
}

// Tuning returns a copy of the current tuning constants.
func (w *World) Tuning() Tuning {
	return *w.tuning.Get()
}

// SetTuning replaces the tuning constants from the next tick on.
func (w *World) SetTuning(tuning Tuning) error {
	if err := tuning.Validate(); err != nil {
		return err
	}
	w.tuning.Set(tuning)
	w.logger.Info("tuning updated", "tuning", tuning)
	return nil
}

// SetInput swaps the input handler, e.g. after a frontend restarts.
func (w *World) SetInput(handler InputHandler) {
	w.input.Get().Handler = handler
}

// Kill marks the entity for removal at the end of the next pipeline pass.
func (w *World) Kill(id ecs.EntityId) {
	Kill(w.storage, id)
}

// Destroy removes the entity immediately.
func (w *World) Destroy(id ecs.EntityId) {
	w.storage.Delete(id)
}

// Side is the half of the arena a player fights from.
type Side uint8

const (
	SideTop Side = iota
	SideBottom
)

func (s Side) String() string {
	if s == SideBottom {
		return "bottom"
	}
	return "top"
}

// PlayerSpec describes a player entity to spawn.
type PlayerSpec struct {
	Profile   PlayerProfile
	Side      Side
	X, Y      float64
	W, H      float64
	Bound     PositionBound
	Frames    []string
	AnimDelay int
	Controls  InputConfig
	// MoveSpeed overrides Tuning.MoveSpeed when positive.
	MoveSpeed float64
	// BounceMultiplier overrides Tuning.BounceMultiplier when non-zero.
	BounceMultiplier float64
	Ammo             []ProjectileConstructor
	Resupply         *ResupplySpec
}

// ResupplySpec refills a player's ammo on a jittered schedule.
type ResupplySpec struct {
	Round  ProjectileConstructor
	Rounds int
	Period float64
	StdDev float64
}

// SpawnPlayer creates a controllable, bounded, collidable fighter.
func (w *World) SpawnPlayer(spec PlayerSpec) (ecs.EntityId, error) {
	player, err := NewPlayer(spec.Profile)
	if err != nil {
		return 0, err
	}
	size, err := NewSize(spec.W, spec.H)
	if err != nil {
		return 0, err
	}
	bound, err := NewPositionBound(spec.Bound.X, spec.Bound.Y, spec.Bound.W, spec.Bound.H)
	if err != nil {
		return 0, err
	}
	draw, err := NewDraw(spec.Frames...)
	if err != nil {
		return 0, err
	}
	animate, err := NewAnimate(max(spec.AnimDelay, 1))
	if err != nil {
		return 0, err
	}
	controls, err := NewInputConfig(spec.Controls.KeyMap)
	if err != nil {
		return 0, err
	}
	ammo, err := NewAmmo(spec.Ammo...)
	if err != nil {
		return 0, err
	}
	var bounce *BounceMultiplier
	if spec.BounceMultiplier != 0 {
		b, err := NewBounceMultiplier(spec.BounceMultiplier)
		if err != nil {
			return 0, err
		}
		bounce = &b
	}
	var schedule *JobSchedule
	if spec.Resupply != nil {
		job, err := ResupplyJob(spec.Resupply.Round, spec.Resupply.Rounds)
		if err != nil {
			return 0, fmt.Errorf("resupply for %q: %w", spec.Profile.Name, err)
		}
		js, err := NewJobSchedule(job, spec.Resupply.Period, spec.Resupply.StdDev)
		if err != nil {
			return 0, err
		}
		schedule = &js
	}

	components := []any{
		Position{X: spec.X, Y: spec.Y},
		Velocity{},
		size,
		bound,
		draw,
		animate,
		player,
		controls,
		Character{Name: spec.Profile.Name},
		CollideFlag{},
		VelocityAttenuateFlag{},
	}
	if spec.Side == SideBottom {
		components = append(components, BottomPlayerFlag{})
	} else {
		components = append(components, TopPlayerFlag{})
	}
	if spec.MoveSpeed > 0 {
		components = append(components, MoveSpeed{Speed: spec.MoveSpeed})
	}
	if ammo.Len() > 0 {
		components = append(components, ammo)
	}
	if bounce != nil {
		components = append(components, *bounce)
	}
	if schedule != nil {
		components = append(components, *schedule)
	}

	id := w.storage.Spawn(components...)
	w.logger.Info("player spawned", "entity", id, "name", player.Name, "side", spec.Side, "ammo", len(spec.Ammo))
	return id, nil
}

// SpawnMug creates a stationary animated portrait, e.g. a fighter's mug shot.
func (w *World) SpawnMug(x, y float64, frames []string, delay int) (ecs.EntityId, error) {
	draw, err := NewDraw(frames...)
	if err != nil {
		return 0, err
	}
	animate, err := NewAnimate(delay)
	if err != nil {
		return 0, err
	}
	id := w.storage.Spawn(Position{X: x, Y: y}, draw, animate)
	w.logger.Debug("mug spawned", "entity", id, "frames", len(frames))
	return id, nil
}

// SpawnProjectile creates a projectile outside of the ammo pipeline.
func (w *World) SpawnProjectile(round ProjectileConstructor, owner ecs.EntityId, x, y, xv, yv float64) ecs.EntityId {
	id := w.storage.Create()
	round(w.storage, id, owner, x, y, xv, yv)
	return id
}

// Equip appends rounds to the entity's ammo, giving it an Ammo component if it ran dry.
// Nothing is added when any round is nil.
func (w *World) Equip(id ecs.EntityId, rounds ...ProjectileConstructor) error {
	if !w.storage.Alive(id) {
		return fmt.Errorf("equip: %w", ecs.ErrDeadEntity)
	}
	fresh, err := NewAmmo(rounds...)
	if err != nil {
		return fmt.Errorf("equip: %w", err)
	}
	if ammo := ecs.ReadComponent[Ammo](w.storage, id); ammo != nil {
		ammo.Rounds = append(ammo.Rounds, fresh.Rounds...)
	} else if err := ecs.Add(w.storage, id, fresh); err != nil {
		return err
	}
	w.logger.Debug("entity equipped", "entity", id, "rounds", len(rounds))
	return nil
}

// PlayerState is a read-only snapshot of a player for HUDs.
type PlayerState struct {
	Entity     ecs.EntityId
	Name       string
	CurrHealth int
	MaxHealth  int
	X, Y       float64
	Ammo       int
}

// Players returns every live player in entity order.
func (w *World) Players() []PlayerState {
	var states []PlayerState
	for id, p := range w.players.Iter() {
		state := PlayerState{
			Entity:     id,
			Name:       p.Player.Name,
			CurrHealth: p.Player.CurrHealth,
			MaxHealth:  p.Player.MaxHealth,
		}
		if p.Position != nil {
			state.X, state.Y = p.Position.X, p.Position.Y
		}
		if p.Ammo != nil {
			state.Ammo = p.Ammo.Len()
		}
		states = append(states, state)
	}
	return states
}

// Stats pairs the storage census with per-system timings.
type Stats struct {
	Storage   ecs.StorageStats
	Scheduler *ecs.SchedulerStats
}

// Stats counts live entities by role.
func (w *World) Stats() Stats {
	return Stats{
		Storage:   w.storage.CollectStats(),
		Scheduler: w.scheduler.GetStats(),
	}
}
