// Package config loads the arena setup from YAML.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/plus3/yulebrawl/arena"
	"github.com/plus3/yulebrawl/ecs"
)

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("config: invalid")

// Config is the whole arena setup: window, tuning, projectile and fighters.
type Config struct {
	LogLevel   string         `yaml:"log_level"`
	TickRate   int            `yaml:"tick_rate"`
	Seed       uint64         `yaml:"seed"`
	Arena      RectSpec       `yaml:"arena"`
	Tuning     TuningSpec     `yaml:"tuning"`
	Projectile ProjectileSpec `yaml:"projectile"`
	Players    []PlayerSpec   `yaml:"players"`
	Mugs       []MugSpec      `yaml:"mugs"`
}

// RectSpec is an axis-aligned rectangle in arena coordinates.
type RectSpec struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
	W float64 `yaml:"w"`
	H float64 `yaml:"h"`
}

// TuningSpec mirrors arena.Tuning with YAML keys.
type TuningSpec struct {
	MoveSpeed             float64 `yaml:"move_speed"`
	VelocityAttenuation   float64 `yaml:"velocity_attenuation"`
	BounceMultiplier      float64 `yaml:"bounce_multiplier"`
	IdleVelocityThreshold float64 `yaml:"idle_velocity_threshold"`
	IdleAnimDelay         int     `yaml:"idle_anim_delay"`
	MovingAnimDelay       int     `yaml:"moving_anim_delay"`
}

// Tuning converts the spec without validating it.
func (t TuningSpec) Tuning() arena.Tuning {
	return arena.Tuning{
		MoveSpeed:             t.MoveSpeed,
		VelocityAttenuation:   t.VelocityAttenuation,
		BounceMultiplier:      t.BounceMultiplier,
		IdleVelocityThreshold: t.IdleVelocityThreshold,
		IdleAnimDelay:         t.IdleAnimDelay,
		MovingAnimDelay:       t.MovingAnimDelay,
	}
}

// ProjectileSpec describes the single round every player fires.
type ProjectileSpec struct {
	Life   int      `yaml:"life"`
	W      float64  `yaml:"w"`
	H      float64  `yaml:"h"`
	Frames []string `yaml:"frames"`
}

func (p ProjectileSpec) spec() arena.ProjectileSpec {
	return arena.ProjectileSpec{Life: p.Life, W: p.W, H: p.H, Frames: p.Frames}
}

// ResupplySpec refills a player's ammo roughly every period ticks.
type ResupplySpec struct {
	Rounds int     `yaml:"rounds"`
	Period float64 `yaml:"period"`
	StdDev float64 `yaml:"stddev"`
}

// PlayerSpec is one fighter. Controls maps intent names to key names.
// A non-empty MugFrames spawns an animated portrait in the fighter's corner.
type PlayerSpec struct {
	Name             string            `yaml:"name"`
	Side             string            `yaml:"side"`
	X                float64           `yaml:"x"`
	Y                float64           `yaml:"y"`
	W                float64           `yaml:"w"`
	H                float64           `yaml:"h"`
	Frames           []string          `yaml:"frames"`
	MugFrames        []string          `yaml:"mug_frames"`
	Quotes           []string          `yaml:"quotes"`
	Moves            []MoveSpec        `yaml:"moves"`
	MaxHealth        int               `yaml:"max_health"`
	MoveSpeed        float64           `yaml:"move_speed"`
	BounceMultiplier float64           `yaml:"bounce_multiplier"`
	Ammo             int               `yaml:"ammo"`
	Resupply         *ResupplySpec     `yaml:"resupply"`
	Controls         map[string]string `yaml:"controls"`
}

// MoveSpec is a named special move shown on the fighter's card.
type MoveSpec struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
}

// MugSpec is a free-standing animated portrait.
type MugSpec struct {
	X      float64  `yaml:"x"`
	Y      float64  `yaml:"y"`
	Frames []string `yaml:"frames"`
	Delay  int      `yaml:"delay"`
}

// Default is the two-player Christmas brawl.
func Default() Config {
	tuning := arena.DefaultTuning()
	return Config{
		LogLevel: "info",
		TickRate: 30,
		Seed:     1,
		Arena:    RectSpec{X: 0, Y: 0, W: 640, H: 480},
		Tuning: TuningSpec{
			MoveSpeed:             tuning.MoveSpeed,
			VelocityAttenuation:   tuning.VelocityAttenuation,
			BounceMultiplier:      tuning.BounceMultiplier,
			IdleVelocityThreshold: tuning.IdleVelocityThreshold,
			IdleAnimDelay:         tuning.IdleAnimDelay,
			MovingAnimDelay:       tuning.MovingAnimDelay,
		},
		Projectile: ProjectileSpec{
			Life:   arena.CoalSpec.Life,
			W:      arena.CoalSpec.W,
			H:      arena.CoalSpec.H,
			Frames: []string{"black"},
		},
		Players: []PlayerSpec{
			{
				Name:      "Santa",
				Side:      "top",
				X:         304,
				Y:         40,
				W:         32,
				H:         32,
				Frames:    []string{"red", "darkred"},
				MugFrames: []string{"firebrick", "maroon"},
				Quotes:    []string{"Hey, you came here to fight!", "Woah. I sure can take a punch."},
				Moves:     []MoveSpec{{Name: "COAL", Description: "Coal for the naughty."}},
				Ammo:      10,
				Resupply:  &ResupplySpec{Rounds: 10, Period: 150, StdDev: 30},
				Controls:  controls(arena.DefaultTopControls()),
			},
			{
				Name:      "Josh",
				Side:      "bottom",
				X:         304,
				Y:         408,
				W:         32,
				H:         32,
				Frames:    []string{"green", "darkgreen"},
				MugFrames: []string{"forestgreen", "olive"},
				Quotes:    []string{"You guys aren't well read.", "I'm tall."},
				Moves: []MoveSpec{
					{Name: "5G", Description: "Radio waves never hurt so good."},
					{Name: "LITERATURE", Description: "A package of knowledge. But this time, it be deadly."},
				},
				Ammo:     10,
				Resupply: &ResupplySpec{Rounds: 10, Period: 150, StdDev: 30},
				Controls: controls(arena.DefaultBottomControls()),
			},
		},
	}
}

func controls(cfg arena.InputConfig) map[string]string {
	out := make(map[string]string, len(cfg.KeyMap))
	for intent, key := range cfg.KeyMap {
		out[intent.String()] = string(key)
	}
	return out
}

// Parse reads YAML over the defaults. A players list in the document replaces
// the default players entirely.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: unmarshal: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Load reads and parses the file at path.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: load %s: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrInvalidConfig}, args...)...)
}

// Validate checks every field. All failures wrap ErrInvalidConfig.
func (c Config) Validate() error {
	if _, err := parseLevel(c.LogLevel); err != nil {
		return err
	}
	if c.TickRate < 1 {
		return invalid("tick_rate %d must be positive", c.TickRate)
	}
	if c.Arena.W <= 0 || c.Arena.H <= 0 {
		return invalid("arena %gx%g must have a positive size", c.Arena.W, c.Arena.H)
	}
	if err := c.Tuning.Tuning().Validate(); err != nil {
		return fmt.Errorf("%w: tuning: %w", ErrInvalidConfig, err)
	}
	if _, err := arena.NewProjectile(c.Projectile.spec()); err != nil {
		return fmt.Errorf("%w: projectile: %w", ErrInvalidConfig, err)
	}
	for i, p := range c.Players {
		if err := p.validate(); err != nil {
			return fmt.Errorf("%w: players[%d]: %w", ErrInvalidConfig, i, err)
		}
	}
	for i, m := range c.Mugs {
		if len(m.Frames) == 0 || m.Delay < 1 {
			return invalid("mugs[%d] needs frames and a positive delay", i)
		}
	}
	return nil
}

func (p PlayerSpec) validate() error {
	if p.Name == "" {
		return errors.New("missing name")
	}
	if _, err := parseSide(p.Side); err != nil {
		return err
	}
	if p.Ammo < 0 {
		return fmt.Errorf("ammo %d is negative", p.Ammo)
	}
	if p.BounceMultiplier != 0 {
		if _, err := arena.NewBounceMultiplier(p.BounceMultiplier); err != nil {
			return err
		}
	}
	for i, m := range p.Moves {
		if m.Name == "" {
			return fmt.Errorf("moves[%d] is missing a name", i)
		}
	}
	if p.Resupply != nil && (p.Resupply.Rounds < 1 || p.Resupply.Period < 1 || p.Resupply.StdDev < 0) {
		return fmt.Errorf("resupply %+v out of range", *p.Resupply)
	}
	_, err := p.inputConfig()
	return err
}

func parseSide(s string) (arena.Side, error) {
	switch strings.ToLower(s) {
	case "top", "":
		return arena.SideTop, nil
	case "bottom":
		return arena.SideBottom, nil
	}
	return 0, fmt.Errorf("unknown side %q", s)
}

func (p PlayerSpec) inputConfig() (arena.InputConfig, error) {
	keys := make(map[arena.Intent]arena.Key, len(p.Controls))
	for name, key := range p.Controls {
		intent, err := arena.ParseIntent(name)
		if err != nil {
			return arena.InputConfig{}, err
		}
		keys[intent] = arena.Key(key)
	}
	return arena.NewInputConfig(keys)
}

// Level returns the slog level named by log_level.
func (c Config) Level() slog.Level {
	level, _ := parseLevel(c.LogLevel)
	return level
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if s == "" {
		return slog.LevelInfo, nil
	}
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, invalid("log_level %q", s)
	}
	return level, nil
}

// Spawn populates the world with the configured players and mugs.
// It assumes the config has been validated.
func (c Config) Spawn(w *arena.World) ([]ecs.EntityId, error) {
	round, err := arena.NewProjectile(c.Projectile.spec())
	if err != nil {
		return nil, fmt.Errorf("config: projectile: %w", err)
	}

	bound := arena.PositionBound{X: c.Arena.X, Y: c.Arena.Y, W: c.Arena.W, H: c.Arena.H}
	var ids []ecs.EntityId
	for _, p := range c.Players {
		side, _ := parseSide(p.Side)
		controls, err := p.inputConfig()
		if err != nil {
			return ids, fmt.Errorf("config: player %s: %w", p.Name, err)
		}
		spec := arena.PlayerSpec{
			Profile: arena.PlayerProfile{
				Name:      p.Name,
				Quotes:    p.Quotes,
				Moves:     p.moves(),
				MugFrames: p.MugFrames,
				MaxHealth: p.MaxHealth,
			},
			Side:             side,
			X:                p.X,
			Y:                p.Y,
			W:                p.W,
			H:                p.H,
			Bound:            bound,
			Frames:           p.Frames,
			Controls:         controls,
			MoveSpeed:        p.MoveSpeed,
			BounceMultiplier: p.BounceMultiplier,
			Ammo:             arena.Rounds(round, p.Ammo),
		}
		if p.Resupply != nil {
			spec.Resupply = &arena.ResupplySpec{
				Round:  round,
				Rounds: p.Resupply.Rounds,
				Period: p.Resupply.Period,
				StdDev: p.Resupply.StdDev,
			}
		}
		id, err := w.SpawnPlayer(spec)
		if err != nil {
			return ids, fmt.Errorf("config: player %s: %w", p.Name, err)
		}
		ids = append(ids, id)

		if len(p.MugFrames) > 0 {
			x, y := c.mugCorner(side)
			if _, err := w.SpawnMug(x, y, p.MugFrames, mugAnimDelay); err != nil {
				return ids, fmt.Errorf("config: player %s mug: %w", p.Name, err)
			}
		}
	}

	linkOpponents(w, ids)

	for _, m := range c.Mugs {
		if _, err := w.SpawnMug(m.X, m.Y, m.Frames, m.Delay); err != nil {
			return ids, fmt.Errorf("config: mug: %w", err)
		}
	}
	return ids, nil
}

const (
	mugAnimDelay = 10
	mugSize      = 16
	mugInset     = 8
)

// mugCorner is the right-hand corner on a fighter's side of the arena.
func (c Config) mugCorner(side arena.Side) (float64, float64) {
	x := c.Arena.X + c.Arena.W - mugSize - mugInset
	if side == arena.SideBottom {
		return x, c.Arena.Y + c.Arena.H - mugSize - mugInset
	}
	return x, c.Arena.Y + mugInset
}

func (p PlayerSpec) moves() []arena.MoveOption {
	if len(p.Moves) == 0 {
		return nil
	}
	moves := make([]arena.MoveOption, len(p.Moves))
	for i, m := range p.Moves {
		moves[i] = arena.MoveOption{Name: m.Name, Description: m.Description}
	}
	return moves
}

// linkOpponents points each of exactly two players at the other by name.
func linkOpponents(w *arena.World, ids []ecs.EntityId) {
	if len(ids) != 2 {
		return
	}
	a := ecs.ReadComponent[arena.Player](w.Storage(), ids[0])
	b := ecs.ReadComponent[arena.Player](w.Storage(), ids[1])
	if a == nil || b == nil {
		return
	}
	a.OpponentName, b.OpponentName = b.Name, a.Name
}
