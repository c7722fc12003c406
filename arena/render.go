package arena

import "github.com/plus3/yulebrawl/ecs"

// Drawable is everything a renderer needs to draw one entity. The core never
// draws; frontends resolve Frame to an image, glyph or color.
type Drawable struct {
	Entity ecs.EntityId
	Frame  string
	X, Y   float64
	W, H   float64
}

// Drawables returns the drawable state of every entity with a Draw component,
// in entity order. Placement is the one DrawUpdateSystem committed last tick.
func (w *World) Drawables() []Drawable {
	var out []Drawable
	for id, d := range w.drawables.Iter() {
		drawable := Drawable{
			Entity: id,
			Frame:  d.Draw.Current(),
			X:      d.Draw.X,
			Y:      d.Draw.Y,
		}
		if d.Size != nil {
			drawable.W, drawable.H = d.Size.W, d.Size.H
		}
		out = append(out, drawable)
	}
	return out
}
