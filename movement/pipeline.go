package movement

import (
	"github.com/oomph-ac/predmove/flags"
)

// Pipeline is the ordered stack of modifiers running on a component. Index 0 is the innermost
// (ancestor) modifier and the last index the outermost.
type Pipeline struct {
	registry  *flags.Registry
	modifiers []Modifier
}

// NewPipeline returns a pipeline running the given modifiers, innermost first. Each modifier's bit is
// claimed in a fresh registry, so two modifiers owning the same bit panic here.
func NewPipeline(mods ...Modifier) *Pipeline {
	p := &Pipeline{registry: flags.NewRegistry()}
	for _, m := range mods {
		p.registry.Claim(m.Bit(), m.Name())
		p.modifiers = append(p.modifiers, m)
	}
	return p
}

// Modifiers returns the modifiers of the pipeline, innermost first.
func (p *Pipeline) Modifiers() []Modifier {
	return p.modifiers
}

// Registry returns the flag registry the pipeline claimed its bits in.
func (p *Pipeline) Registry() *flags.Registry {
	return p.registry
}

// EncodeFlags folds every modifier's intent into f, innermost first.
func (p *Pipeline) EncodeFlags(f flags.Flags) flags.Flags {
	for _, m := range p.modifiers {
		f = m.EncodeFlags(f)
	}
	return f
}

// DecodeFlags hands f to every modifier, innermost first, mirroring EncodeFlags.
func (p *Pipeline) DecodeFlags(f flags.Flags) {
	for _, m := range p.modifiers {
		m.DecodeFlags(f)
	}
}

// ActiveFlags returns a bitset of the modifiers that are currently engaged, keyed by their own bits.
func (p *Pipeline) ActiveFlags() flags.Flags {
	var f flags.Flags
	for _, m := range p.modifiers {
		f = f.With(m.Bit(), m.Active())
	}
	return f
}

// RestoreActive sets every modifier's engaged marker from f without notifications.
func (p *Pipeline) RestoreActive(f flags.Flags) {
	for _, m := range p.modifiers {
		m.SetActive(f.Has(m.Bit()))
	}
}

func (p *Pipeline) beforeMovement(dt float32) {
	for _, m := range p.modifiers {
		m.BeforeMovement(dt)
	}
}

func (p *Pipeline) afterMovement(dt float32) {
	for _, m := range p.modifiers {
		m.AfterMovement(dt)
	}
}

// friction runs the friction decision of every modifier from the outermost to the innermost one, so
// an active ancestor has the final say.
func (p *Pipeline) friction(friction float32, braking bool) float32 {
	for i := len(p.modifiers) - 1; i >= 0; i-- {
		friction = p.modifiers[i].Friction(friction, braking)
	}
	return friction
}

// limits returns the limits of the outermost active modifier.
func (p *Pipeline) limits() (Limits, bool) {
	for i := len(p.modifiers) - 1; i >= 0; i-- {
		if l, ok := p.modifiers[i].Limits(); ok {
			return l, true
		}
	}
	return Limits{}, false
}

// halfHeight returns the capsule half height of the outermost shape modifier overriding it.
func (p *Pipeline) halfHeight() (float32, bool) {
	for i := len(p.modifiers) - 1; i >= 0; i-- {
		if sm, ok := p.modifiers[i].(ShapeModifier); ok {
			if h, ok := sm.HalfHeight(); ok {
				return h, true
			}
		}
	}
	return 0, false
}
