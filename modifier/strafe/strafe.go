// Package strafe implements the strafing movement modifier. Strafing is requested through an intent flag
// that travels with every move in the compressed flags byte; the engaged state is derived from that
// intent and the movement mode on every tick, so a replayed move reproduces it exactly.
package strafe

import (
	"github.com/oomph-ac/predmove/flags"
	"github.com/oomph-ac/predmove/movement"
)

// Tunables are the movement constants used while strafing.
type Tunables struct {
	// MaxAcceleration is the max rate of change of velocity.
	MaxAcceleration float32 `toml:"max_acceleration"`
	// MaxWalkSpeed is the max ground speed.
	MaxWalkSpeed float32 `toml:"max_walk_speed"`
	// BrakingDeceleration is the constant deceleration applied without input.
	BrakingDeceleration float32 `toml:"braking_deceleration"`
	// GroundFriction controls how fast direction changes, and braking unless separate braking friction
	// is enabled on the component.
	GroundFriction float32 `toml:"ground_friction"`
	// BrakingFriction is the braking drag, used only with separate braking friction enabled.
	BrakingFriction float32 `toml:"braking_friction"`
}

// DefaultTunables returns the stock strafing constants.
func DefaultTunables() Tunables {
	return Tunables{
		MaxAcceleration:     2048,
		MaxWalkSpeed:        300,
		BrakingDeceleration: 2048,
		GroundFriction:      8,
		BrakingFriction:     4,
	}
}

// Owner is notified when the component starts or stops strafing.
type Owner interface {
	OnStartStrafe()
	OnEndStrafe()
}

// Movement is the strafing modifier.
type Movement struct {
	Tunables Tunables

	owner Owner
	c     *movement.Component

	wantsToStrafe bool
	strafing      bool
}

// New returns a strafing modifier notifying owner, which may be nil.
func New(t Tunables, owner Owner) *Movement {
	return &Movement{Tunables: t, owner: owner}
}

func (m *Movement) Name() string {
	return "strafe"
}

func (m *Movement) Bit() flags.Bit {
	return flags.BitStrafe
}

func (m *Movement) Attach(c *movement.Component) {
	m.c = c
}

// HasValidData returns true if the modifier is attached to a component able to simulate.
func (m *Movement) HasValidData() bool {
	return m.c != nil && m.c.HasValidData()
}

// WantsToStrafe returns the current intent.
func (m *Movement) WantsToStrafe() bool {
	return m.wantsToStrafe
}

// SetWantsToStrafe sets the intent. If true the component tries to strafe (or keep strafing) on its next
// tick, otherwise it tries to stop.
func (m *Movement) SetWantsToStrafe(wants bool) {
	m.wantsToStrafe = wants
}

// IsStrafing returns true while strafing is engaged.
func (m *Movement) IsStrafing() bool {
	return m.strafing
}

// CanStrafeInCurrentState returns true if the component may strafe in its current mode: walking or
// falling.
func (m *Movement) CanStrafeInCurrentState() bool {
	if m.c == nil {
		return false
	}
	return m.c.IsMovingOnGround() || m.c.IsFalling()
}

// Strafe starts strafing if the current state allows it, and does nothing otherwise. The owner is
// notified unless clientSimulation is true.
func (m *Movement) Strafe(clientSimulation bool) {
	if !m.HasValidData() || !m.CanStrafeInCurrentState() {
		return
	}
	if m.strafing {
		return
	}
	m.strafing = true
	if !clientSimulation {
		m.Notify(true)
	}
}

// UnStrafe stops strafing and reports whether the unconstrained capsule encroaches on blocking geometry
// at the current position. Encroachment is not resolved here; that is up to the owner of the shape. The
// owner is notified unless clientSimulation is true.
func (m *Movement) UnStrafe(clientSimulation bool) (encroached bool) {
	if !m.HasValidData() || !m.strafing {
		return false
	}
	m.strafing = false
	encroached = m.c.Encroached(m.c.StandingBoundingBox())
	if !clientSimulation {
		m.Notify(false)
	}
	return encroached
}

func (m *Movement) EncodeFlags(f flags.Flags) flags.Flags {
	return f.With(flags.BitStrafe, m.wantsToStrafe)
}

func (m *Movement) DecodeFlags(f flags.Flags) {
	m.wantsToStrafe = f.Has(flags.BitStrafe)
}

func (m *Movement) Active() bool {
	return m.strafing
}

func (m *Movement) SetActive(active bool) {
	m.strafing = active
}

func (m *Movement) Notify(active bool) {
	if m.owner == nil {
		return
	}
	if active {
		m.owner.OnStartStrafe()
	} else {
		m.owner.OnEndStrafe()
	}
}

// BeforeMovement enters strafing when it is wanted and allowed, and leaves it when it is no longer
// wanted or allowed.
func (m *Movement) BeforeMovement(float32) {
	if !m.HasValidData() {
		return
	}
	clientSimulation := m.c.ClientSimulation()
	allowed := m.CanStrafeInCurrentState()
	if m.strafing && (!m.wantsToStrafe || !allowed) {
		m.UnStrafe(clientSimulation)
	} else if !m.strafing && m.wantsToStrafe && allowed {
		m.Strafe(clientSimulation)
	}
}

// AfterMovement leaves strafing if the physics step moved the component into a mode that does not
// allow it.
func (m *Movement) AfterMovement(float32) {
	if !m.HasValidData() {
		return
	}
	if m.strafing && (!m.wantsToStrafe || !m.CanStrafeInCurrentState()) {
		m.UnStrafe(m.c.ClientSimulation())
	}
}

// Friction substitutes the strafing friction while strafing on the ground. Strafing while falling keeps
// the friction supplied to it.
func (m *Movement) Friction(friction float32, braking bool) float32 {
	if !m.strafing || m.c == nil || !m.c.IsMovingOnGround() {
		return friction
	}
	if braking && m.c.Tunables.UseSeparateBrakingFriction {
		return m.Tunables.BrakingFriction
	}
	return m.Tunables.GroundFriction
}

func (m *Movement) Limits() (movement.Limits, bool) {
	if !m.strafing {
		return movement.Limits{}, false
	}
	return movement.Limits{
		MaxAcceleration:        m.Tunables.MaxAcceleration,
		MaxSpeed:               m.Tunables.MaxWalkSpeed,
		MaxBrakingDeceleration: m.Tunables.BrakingDeceleration,
	}, true
}
