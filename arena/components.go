package arena

import (
	"errors"
	"fmt"
	"math"

	"github.com/plus3/yulebrawl/ecs"
)

// ErrInvalidComponent is returned by component constructors given out-of-domain values.
var ErrInvalidComponent = errors.New("arena: invalid component")

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrInvalidComponent}, args...)...)
}

func finite(values ...float64) bool {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// validRect rejects non-finite coordinates and negative extents.
func validRect(what string, x, y, w, h float64) error {
	if !finite(x, y, w, h) {
		return invalid("%s (%g, %g, %g, %g) is not finite", what, x, y, w, h)
	}
	if w < 0 || h < 0 {
		return invalid("%s %gx%g has a negative dimension", what, w, h)
	}
	return nil
}

// Position is the top-left corner of an entity in arena coordinates.
type Position struct {
	X, Y float64
}

// Velocity is the per-tick displacement of an entity.
type Velocity struct {
	X, Y float64
}

// Size is the extent of an entity's bounding box.
type Size struct {
	W, H float64
}

// NewSize rejects negative or non-finite dimensions.
func NewSize(w, h float64) (Size, error) {
	if err := validRect("size", 0, 0, w, h); err != nil {
		return Size{}, err
	}
	return Size{W: w, H: h}, nil
}

// PositionBound is the rectangle an entity's bounding box is confined to.
type PositionBound struct {
	X, Y, W, H float64
}

// NewPositionBound rejects negative or non-finite rectangles.
func NewPositionBound(x, y, w, h float64) (PositionBound, error) {
	if err := validRect("position bound", x, y, w, h); err != nil {
		return PositionBound{}, err
	}
	return PositionBound{X: x, Y: y, W: w, H: h}, nil
}

// BounceMultiplier overrides Tuning.BounceMultiplier for one entity.
type BounceMultiplier struct {
	Multiplier float64
}

// NewBounceMultiplier accepts only finite negative factors, so a bounce
// always reverses the axis that hit the wall.
func NewBounceMultiplier(m float64) (BounceMultiplier, error) {
	if err := validBounce(m); err != nil {
		return BounceMultiplier{}, err
	}
	return BounceMultiplier{Multiplier: m}, nil
}

func validBounce(m float64) error {
	if !finite(m) || m >= 0 {
		return invalid("bounce multiplier %g must be finite and negative", m)
	}
	return nil
}

// OutOfBounds is the region outside of which an OutOfBoundsKillFlag entity dies.
type OutOfBounds struct {
	X, Y, W, H float64
}

// NewOutOfBounds rejects non-finite values and negative dimensions.
func NewOutOfBounds(x, y, w, h float64) (OutOfBounds, error) {
	if err := validRect("out of bounds region", x, y, w, h); err != nil {
		return OutOfBounds{}, err
	}
	return OutOfBounds{X: x, Y: y, W: w, H: h}, nil
}

func (o OutOfBounds) contains(x, y float64) bool {
	return x >= o.X && x < o.X+o.W && y >= o.Y && y < o.Y+o.H
}

// Lifetime is the number of ticks an entity has left.
type Lifetime struct {
	Ticks int
}

// NewLifetime rejects negative tick counts. A zero lifetime expires on the next pass.
func NewLifetime(ticks int) (Lifetime, error) {
	if ticks < 0 {
		return Lifetime{}, invalid("lifetime %d is negative", ticks)
	}
	return Lifetime{Ticks: ticks}, nil
}

// Ammo is a FIFO queue of projectiles waiting to be fired.
// An entity that has run dry loses the component entirely.
type Ammo struct {
	Rounds []ProjectileConstructor
}

// NewAmmo copies rounds into a fresh queue. Every round must be non-nil.
func NewAmmo(rounds ...ProjectileConstructor) (Ammo, error) {
	for i, round := range rounds {
		if round == nil {
			return Ammo{}, invalid("ammo round %d is nil", i)
		}
	}
	return Ammo{Rounds: append([]ProjectileConstructor(nil), rounds...)}, nil
}

// Push appends a round to the back of the queue. Nil rounds are rejected.
func (a *Ammo) Push(round ProjectileConstructor) error {
	if round == nil {
		return invalid("ammo round is nil")
	}
	a.Rounds = append(a.Rounds, round)
	return nil
}

// Pop removes and returns the front round.
func (a *Ammo) Pop() (ProjectileConstructor, bool) {
	if len(a.Rounds) == 0 {
		return nil, false
	}
	round := a.Rounds[0]
	a.Rounds[0] = nil
	a.Rounds = a.Rounds[1:]
	return round, true
}

// Len is the number of rounds left.
func (a *Ammo) Len() int {
	return len(a.Rounds)
}

// Owner points back at the entity that fired a projectile.
// It is only used to stop a projectile from hitting its shooter.
type Owner struct {
	Entity ecs.EntityId
}

// MoveSpeed overrides Tuning.MoveSpeed for one entity.
type MoveSpeed struct {
	Speed float64
}

// Draw is the state handed to the renderer: a list of frame keys, the frame
// currently shown, and where to place it.
type Draw struct {
	Frames []string
	Index  int
	X, Y   float64
}

// NewDraw needs at least one frame; the first one is shown initially.
func NewDraw(frames ...string) (Draw, error) {
	if len(frames) == 0 {
		return Draw{}, invalid("draw needs at least one frame")
	}
	return Draw{Frames: append([]string(nil), frames...)}, nil
}

// Current returns the frame key being displayed.
func (d *Draw) Current() string {
	if len(d.Frames) == 0 {
		return ""
	}
	return d.Frames[d.Index%len(d.Frames)]
}

// Animate is a per-entity frame timer counted in ticks.
type Animate struct {
	Clock int
	Delay int
}

// NewAnimate sets the ticks between frame advances, at least one.
func NewAnimate(delay int) (Animate, error) {
	if delay < 1 {
		return Animate{}, invalid("animation delay %d must be at least 1", delay)
	}
	return Animate{Delay: delay}, nil
}

// MoveOption describes one of a character's special moves.
type MoveOption struct {
	Name        string
	Description string
}

const (
	DefaultMaxHealth      = 10
	DefaultMaxPower       = 10
	DefaultMaxDrunkenness = 10
)

// Player holds a fighter's stats and descriptive metadata.
type Player struct {
	CurrHealth      int
	MaxHealth       int
	CurrPower       int
	MaxPower        int
	CurrDrunkenness int
	MaxDrunkenness  int

	Name         string
	Quotes       []string
	Moves        []MoveOption
	MugFrames    []string
	OpponentName string
}

// PlayerProfile is the descriptive half of a Player. Zero maxima take the defaults.
type PlayerProfile struct {
	Name           string
	Quotes         []string
	Moves          []MoveOption
	MugFrames      []string
	MaxHealth      int
	MaxPower       int
	MaxDrunkenness int
}

// NewPlayer builds a Player at full health with no power or drunkenness.
func NewPlayer(profile PlayerProfile) (Player, error) {
	if profile.MaxHealth < 0 || profile.MaxPower < 0 || profile.MaxDrunkenness < 0 {
		return Player{}, invalid("player %q has a negative maximum", profile.Name)
	}
	maxHealth := orDefault(profile.MaxHealth, DefaultMaxHealth)
	return Player{
		CurrHealth:     maxHealth,
		MaxHealth:      maxHealth,
		MaxPower:       orDefault(profile.MaxPower, DefaultMaxPower),
		MaxDrunkenness: orDefault(profile.MaxDrunkenness, DefaultMaxDrunkenness),
		Name:           profile.Name,
		Quotes:         profile.Quotes,
		Moves:          profile.Moves,
		MugFrames:      profile.MugFrames,
	}, nil
}

func orDefault(v, def int) int {
	if v == 0 {
		return def
	}
	return v
}

// Character identifies which fighter an entity is.
type Character struct {
	Name string
}

// JobSchedule runs Job roughly every Period ticks, jittered by a normal
// distribution with standard deviation StdDev.
type JobSchedule struct {
	Job      func(frame *ecs.UpdateFrame, id ecs.EntityId)
	Period   float64
	StdDev   float64
	NextTick float64
}

// NewJobSchedule first runs the job at tick period.
func NewJobSchedule(job func(frame *ecs.UpdateFrame, id ecs.EntityId), period, stdDev float64) (JobSchedule, error) {
	if job == nil {
		return JobSchedule{}, invalid("job schedule needs a job")
	}
	if !finite(period, stdDev) || period < 1 || stdDev < 0 {
		return JobSchedule{}, invalid("job schedule period %g / stddev %g out of range", period, stdDev)
	}
	return JobSchedule{Job: job, Period: period, StdDev: stdDev, NextTick: period}, nil
}

// Flags
type (
	CollideFlag           struct{}
	ProjectileFlag        struct{}
	VelocityAttenuateFlag struct{}
	OutOfBoundsKillFlag   struct{}
	DeadFlag              struct{}
	TopPlayerFlag         struct{}
	BottomPlayerFlag      struct{}
)

// Kill marks the entity for removal by DeadCleanupSystem at the end of the
// current pipeline pass. Killing a dead or already-marked entity is a no-op.
func Kill(s *ecs.Storage, id ecs.EntityId) {
	if !s.Alive(id) || ecs.Has[DeadFlag](s, id) {
		return
	}
	s.AddComponent(id, DeadFlag{})
}

// RegisterComponents registers every arena component kind.
func RegisterComponents(registry *ecs.ComponentRegistry) {
	ecs.RegisterComponent[Position](registry)
	ecs.RegisterComponent[Velocity](registry)
	ecs.RegisterComponent[Size](registry)
	ecs.RegisterComponent[PositionBound](registry)
	ecs.RegisterComponent[BounceMultiplier](registry)
	ecs.RegisterComponent[OutOfBounds](registry)
	ecs.RegisterComponent[Lifetime](registry)
	ecs.RegisterComponent[Ammo](registry)
	ecs.RegisterComponent[Owner](registry)
	ecs.RegisterComponent[MoveSpeed](registry)
	ecs.RegisterComponent[InputConfig](registry)
	ecs.RegisterComponent[Draw](registry)
	ecs.RegisterComponent[Animate](registry)
	ecs.RegisterComponent[Player](registry)
	ecs.RegisterComponent[Character](registry)
	ecs.RegisterComponent[JobSchedule](registry)
	ecs.RegisterComponent[CollideFlag](registry)
	ecs.RegisterComponent[ProjectileFlag](registry)
	ecs.RegisterComponent[VelocityAttenuateFlag](registry)
	ecs.RegisterComponent[OutOfBoundsKillFlag](registry)
	ecs.RegisterComponent[DeadFlag](registry)
	ecs.RegisterComponent[TopPlayerFlag](registry)
	ecs.RegisterComponent[BottomPlayerFlag](registry)
}
