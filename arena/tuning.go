package arena

// Tuning holds the per-tick physics and animation constants shared by the pipeline.
type Tuning struct {
	// MoveSpeed is added to velocity per tick for each held direction.
	MoveSpeed float64
	// VelocityAttenuation is the per-tick velocity damping factor.
	VelocityAttenuation float64
	// BounceMultiplier scales the velocity axis that hit a PositionBound edge.
	BounceMultiplier float64
	// IdleVelocityThreshold is the speed below which an entity animates as idle.
	IdleVelocityThreshold float64
	IdleAnimDelay         int
	MovingAnimDelay       int
}

// DefaultTuning returns the stock constants.
func DefaultTuning() Tuning {
	return Tuning{
		MoveSpeed:             5.0,
		VelocityAttenuation:   0.5,
		BounceMultiplier:      -10,
		IdleVelocityThreshold: 0.1,
		IdleAnimDelay:         5,
		MovingAnimDelay:       2,
	}
}

// Validate rejects constants that would break movement, bounds or animation.
func (t Tuning) Validate() error {
	switch {
	case !finite(t.MoveSpeed, t.VelocityAttenuation, t.BounceMultiplier, t.IdleVelocityThreshold):
		return invalid("tuning %+v has a non-finite value", t)
	case t.MoveSpeed < 0:
		return invalid("move speed %g is negative", t.MoveSpeed)
	case t.VelocityAttenuation < 0 || t.VelocityAttenuation >= 1:
		return invalid("velocity attenuation %g is outside [0, 1)", t.VelocityAttenuation)
	case t.BounceMultiplier >= 0:
		return validBounce(t.BounceMultiplier)
	case t.IdleVelocityThreshold < 0:
		return invalid("idle velocity threshold %g is negative", t.IdleVelocityThreshold)
	case t.IdleAnimDelay < 1 || t.MovingAnimDelay < 1:
		return invalid("animation delays %d/%d must be at least 1", t.IdleAnimDelay, t.MovingAnimDelay)
	}
	return nil
}
