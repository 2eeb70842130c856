package movement

import (
	"github.com/ethaniccc/float32-cube/cube"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/predmove/flags"
)

// Environment bridges the world the component moves through. Positions are feet positions with Z up.
type Environment interface {
	// FloorZ returns the height of the highest walkable surface under the given position that lies
	// within the horizontal footprint of radius. ok is false if there is no floor at all.
	FloorZ(pos mgl32.Vec3, radius float32) (z float32, ok bool)
	// InWater returns true if the given position is inside a water volume.
	InWater(pos mgl32.Vec3) bool
}

// ShapeValidator answers whether a collision shape overlaps blocking geometry.
type ShapeValidator interface {
	Encroached(box cube.BBox) bool
}

// Modifier is a boolean movement state stacked on top of the base component. Modifiers run in the order
// they were added to the Pipeline: the first is the innermost (ancestor) state.
type Modifier interface {
	// Name identifies the modifier in logs and in the flag registry.
	Name() string
	// Bit is the compressed flags bit the modifier owns.
	Bit() flags.Bit
	// Attach binds the modifier to the component it runs on.
	Attach(c *Component)

	// EncodeFlags returns f with the modifier's bit set from its current intent. No other bit may change.
	EncodeFlags(f flags.Flags) flags.Flags
	// DecodeFlags reads the modifier's bit from f into its intent without running any transition.
	DecodeFlags(f flags.Flags)

	// Active returns true while the state is engaged.
	Active() bool
	// SetActive forces the engaged marker without notifying anyone. It is used to restore snapshots.
	SetActive(active bool)
	// Notify fires the owner notification for an edge into (true) or out of (false) the state.
	Notify(active bool)

	// BeforeMovement starts or stops the state before the physics step of a tick.
	BeforeMovement(dt float32)
	// AfterMovement re-validates the state after the physics step of a tick.
	AfterMovement(dt float32)

	// Friction returns the friction to integrate with, given the friction supplied by the layer outside it.
	// braking is true for the zero-input braking path.
	Friction(friction float32, braking bool) float32
	// Limits returns the modifier's limits and true while it overrides the base limits.
	Limits() (Limits, bool)
}

// ShapeModifier is implemented by modifiers that change the collision capsule while active.
type ShapeModifier interface {
	// HalfHeight returns the capsule half height to use and true while the modifier overrides it.
	HalfHeight() (float32, bool)
}
