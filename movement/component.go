package movement

import (
	"github.com/ethaniccc/float32-cube/cube"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/predmove/flags"
	"github.com/oomph-ac/predmove/game"
)

// State is the physical state a move starts or ends with. It is everything a replay needs to
// reproduce a tick besides the move's own input.
type State struct {
	Pos  mgl32.Vec3
	Vel  mgl32.Vec3
	Mode Mode
	// Active holds the engaged markers of the modifiers, keyed by each modifier's flag bit.
	Active flags.Flags
}

// Component is a character movement component with a stack of modifiers layered on it.
type Component struct {
	Tunables Tunables
	Role     Role

	Env    Environment
	Shapes ShapeValidator

	// Debugf receives simulation trace logs. It may be nil.
	Debugf func(format string, args ...any)

	pipeline *Pipeline

	pos   mgl32.Vec3
	vel   mgl32.Vec3
	accel mgl32.Vec3
	mode  Mode

	replaying bool
}

// NewComponent creates a component using the given tunables and modifiers, innermost modifier first.
func NewComponent(t Tunables, env Environment, shapes ShapeValidator, mods ...Modifier) *Component {
	c := &Component{
		Tunables: t,
		Env:      env,
		Shapes:   shapes,
		pipeline: NewPipeline(mods...),
		mode:     ModeWalking,
	}
	for _, m := range mods {
		m.Attach(c)
	}
	return c
}

// Pipeline returns the modifier pipeline of the component.
func (c *Component) Pipeline() *Pipeline {
	return c.pipeline
}

// HasValidData returns true if the component has everything it needs to simulate. Every per-tick
// operation is a no-op while it returns false.
func (c *Component) HasValidData() bool {
	return c != nil && c.pipeline != nil && c.Env != nil &&
		c.Tunables.CapsuleRadius > 0 && c.Tunables.CapsuleHalfHeight > 0
}

// ClientSimulation returns true if transitions run by this component must not produce side effects:
// either the component is a simulated proxy, or it is replaying saved moves.
func (c *Component) ClientSimulation() bool {
	return c.Role == RoleSimulatedProxy || c.replaying
}

// Replaying returns true while saved moves are being replayed after a correction.
func (c *Component) Replaying() bool {
	return c.replaying
}

// Pos returns the feet position of the component.
func (c *Component) Pos() mgl32.Vec3 {
	return c.pos
}

// SetPos sets the feet position of the component.
func (c *Component) SetPos(pos mgl32.Vec3) {
	c.pos = pos
}

// Vel returns the velocity of the component.
func (c *Component) Vel() mgl32.Vec3 {
	return c.vel
}

// SetVel sets the velocity of the component.
func (c *Component) SetVel(vel mgl32.Vec3) {
	c.vel = vel
}

// Acceleration returns the input acceleration used by the current or last tick.
func (c *Component) Acceleration() mgl32.Vec3 {
	return c.accel
}

// Mode returns the current movement mode.
func (c *Component) Mode() Mode {
	return c.mode
}

// SetMode changes the movement mode.
func (c *Component) SetMode(mode Mode) {
	if c.mode == mode {
		return
	}
	old := c.mode
	c.mode = mode
	if mode.Grounded() && !old.Grounded() {
		c.vel[2] = 0
	}
	c.debugf("mode %s -> %s", old, mode)
}

// IsMovingOnGround returns true while walking on a floor.
func (c *Component) IsMovingOnGround() bool {
	return c.mode.Grounded()
}

// IsFalling returns true while airborne.
func (c *Component) IsFalling() bool {
	return c.mode == ModeFalling
}

// State returns a snapshot of the physical state of the component.
func (c *Component) State() State {
	return State{
		Pos:    c.pos,
		Vel:    c.vel,
		Mode:   c.mode,
		Active: c.pipeline.ActiveFlags(),
	}
}

// SetState restores a snapshot. Modifier markers are restored without notifications.
func (c *Component) SetState(s State) {
	c.pos = s.Pos
	c.vel = s.Vel
	c.mode = s.Mode
	c.pipeline.RestoreActive(s.Active)
}

// CompressedFlags returns the current intent of every modifier packed into a flags byte.
func (c *Component) CompressedFlags() flags.Flags {
	return c.pipeline.EncodeFlags(0)
}

// UpdateFromCompressedFlags sets the intent of every modifier from a received flags byte. It never runs
// transitions; those happen in the next tick's hooks.
func (c *Component) UpdateFromCompressedFlags(f flags.Flags) {
	c.pipeline.DecodeFlags(f)
}

// HalfHeight returns the current capsule half height.
func (c *Component) HalfHeight() float32 {
	if h, ok := c.pipeline.halfHeight(); ok {
		return h
	}
	return c.Tunables.CapsuleHalfHeight
}

// BoundingBox returns the box around the current capsule.
func (c *Component) BoundingBox() cube.BBox {
	return c.box(c.HalfHeight())
}

// StandingBoundingBox returns the box around the unconstrained capsule at the current position.
func (c *Component) StandingBoundingBox() cube.BBox {
	return c.box(c.Tunables.CapsuleHalfHeight)
}

func (c *Component) box(halfHeight float32) cube.BBox {
	r := c.Tunables.CapsuleRadius
	return cube.Box(
		c.pos[0]-r,
		c.pos[1]-r,
		c.pos[2],
		c.pos[0]+r,
		c.pos[1]+r,
		c.pos[2]+halfHeight*2,
	)
}

// Encroached returns true if the given box overlaps blocking geometry. Without a shape validator nothing
// ever encroaches.
func (c *Component) Encroached(box cube.BBox) bool {
	if c.Shapes == nil {
		return false
	}
	return c.Shapes.Encroached(box)
}

// MaxAcceleration returns the maximum acceleration for the current state.
func (c *Component) MaxAcceleration() float32 {
	if l, ok := c.pipeline.limits(); ok {
		return l.MaxAcceleration
	}
	return c.Tunables.MaxAcceleration
}

// MaxSpeed returns the maximum speed for the current state and movement mode.
func (c *Component) MaxSpeed() float32 {
	if l, ok := c.pipeline.limits(); ok {
		return l.MaxSpeed
	}
	switch c.mode {
	case ModeWalking, ModeNavWalking, ModeFalling:
		return c.Tunables.MaxWalkSpeed
	case ModeSwimming:
		return c.Tunables.MaxSwimSpeed
	case ModeFlying:
		return c.Tunables.MaxFlySpeed
	case ModeCustom:
		return c.Tunables.MaxCustomSpeed
	}
	return 0
}

// MaxBrakingDeceleration returns the braking deceleration for the current state and movement mode.
func (c *Component) MaxBrakingDeceleration() float32 {
	if l, ok := c.pipeline.limits(); ok {
		return l.MaxBrakingDeceleration
	}
	switch c.mode {
	case ModeWalking, ModeNavWalking:
		return c.Tunables.BrakingDecelerationWalking
	case ModeFalling:
		return c.Tunables.BrakingDecelerationFalling
	case ModeSwimming:
		return c.Tunables.BrakingDecelerationSwimming
	case ModeFlying:
		return c.Tunables.BrakingDecelerationFlying
	}
	return 0
}

// ConstrainAcceleration removes the vertical part of an acceleration for modes that cannot use it and
// clamps it to the maximum acceleration of the current state.
func (c *Component) ConstrainAcceleration(accel mgl32.Vec3) mgl32.Vec3 {
	if c.mode.Grounded() || c.mode == ModeFalling {
		accel[2] = 0
	}
	return game.ClampMaxSize(accel, c.MaxAcceleration())
}

// ScaleInput converts a raw input vector (length at most 1) into an acceleration.
func (c *Component) ScaleInput(input mgl32.Vec3) mgl32.Vec3 {
	if c.mode.Grounded() || c.mode == ModeFalling {
		input[2] = 0
	}
	return game.ClampMaxSize(input, 1).Mul(c.MaxAcceleration())
}

func (c *Component) debugf(format string, args ...any) {
	if c.Debugf != nil {
		c.Debugf(format, args...)
	}
}
