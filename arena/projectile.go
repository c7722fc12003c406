package arena

import "github.com/plus3/yulebrawl/ecs"

// ProjectileConstructor attaches a projectile's components to the freshly
// created entity e, fired by owner from (x, y) with velocity (xv, yv).
type ProjectileConstructor func(s *ecs.Storage, e, owner ecs.EntityId, x, y, xv, yv float64)

// ProjectileSpec describes a kind of projectile.
type ProjectileSpec struct {
	Life   int
	W, H   float64
	Frames []string
}

// CoalSpec is the stock round.
var CoalSpec = ProjectileSpec{
	Life:   40,
	W:      8,
	H:      8,
	Frames: []string{"coal"},
}

// NewProjectile validates the spec once and returns a constructor that
// can be queued in Ammo any number of times.
func NewProjectile(spec ProjectileSpec) (ProjectileConstructor, error) {
	size, err := NewSize(spec.W, spec.H)
	if err != nil {
		return nil, err
	}
	if spec.Life < 1 {
		return nil, invalid("projectile life %d must be at least 1", spec.Life)
	}
	if _, err := NewDraw(spec.Frames...); err != nil {
		return nil, err
	}
	frames := append([]string(nil), spec.Frames...)

	return func(s *ecs.Storage, e, owner ecs.EntityId, x, y, xv, yv float64) {
		s.AddComponent(e, Position{X: x, Y: y})
		s.AddComponent(e, Velocity{X: xv, Y: yv})
		s.AddComponent(e, size)
		s.AddComponent(e, Lifetime{Ticks: spec.Life})
		s.AddComponent(e, Draw{Frames: frames, X: x, Y: y})
		s.AddComponent(e, Owner{Entity: owner})
		s.AddComponent(e, ProjectileFlag{})
		s.AddComponent(e, CollideFlag{})
	}, nil
}

// Rounds returns n copies of the constructor, ready for NewAmmo.
func Rounds(round ProjectileConstructor, n int) []ProjectileConstructor {
	rounds := make([]ProjectileConstructor, n)
	for i := range rounds {
		rounds[i] = round
	}
	return rounds
}

// CoalProjectile fires CoalSpec rounds.
var CoalProjectile = mustProjectile(CoalSpec)

func mustProjectile(spec ProjectileSpec) ProjectileConstructor {
	round, err := NewProjectile(spec)
	if err != nil {
		panic(err)
	}
	return round
}
