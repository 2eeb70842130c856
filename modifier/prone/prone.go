// Package prone implements the prone movement modifier: a ground-only state that lowers the capsule and
// uses its own speed and friction constants.
package prone

import (
	"github.com/oomph-ac/predmove/flags"
	"github.com/oomph-ac/predmove/movement"
)

// Tunables are the movement constants used while prone.
type Tunables struct {
	MaxAcceleration     float32 `toml:"max_acceleration"`
	MaxWalkSpeed        float32 `toml:"max_walk_speed"`
	BrakingDeceleration float32 `toml:"braking_deceleration"`
	GroundFriction      float32 `toml:"ground_friction"`
	BrakingFriction     float32 `toml:"braking_friction"`
	HalfHeight          float32 `toml:"half_height"`
}

// DefaultTunables returns the stock prone constants.
func DefaultTunables() Tunables {
	return Tunables{
		MaxAcceleration:     1024,
		MaxWalkSpeed:        120,
		BrakingDeceleration: 2048,
		GroundFriction:      10,
		BrakingFriction:     6,
		HalfHeight:          34,
	}
}

// Owner is notified when the component enters or leaves the prone state.
type Owner interface {
	OnStartProne()
	OnEndProne()
}

// Movement is the prone modifier.
type Movement struct {
	Tunables Tunables

	owner Owner
	c     *movement.Component

	wantsToProne bool
	prone        bool
}

// New returns a prone modifier notifying owner, which may be nil.
func New(t Tunables, owner Owner) *Movement {
	return &Movement{Tunables: t, owner: owner}
}

func (m *Movement) Name() string {
	return "prone"
}

func (m *Movement) Bit() flags.Bit {
	return flags.BitProne
}

func (m *Movement) Attach(c *movement.Component) {
	m.c = c
}

// HasValidData returns true if the modifier is attached to a component able to simulate.
func (m *Movement) HasValidData() bool {
	return m.c != nil && m.c.HasValidData()
}

// WantsToProne returns the current intent.
func (m *Movement) WantsToProne() bool {
	return m.wantsToProne
}

// SetWantsToProne sets the intent. The state itself changes on the next tick.
func (m *Movement) SetWantsToProne(wants bool) {
	m.wantsToProne = wants
}

// IsProne returns true while the prone state is engaged.
func (m *Movement) IsProne() bool {
	return m.prone
}

// CanProneInCurrentState returns true if the component may be prone in its current mode: only while
// moving on the ground.
func (m *Movement) CanProneInCurrentState() bool {
	return m.c != nil && m.c.IsMovingOnGround()
}

// Prone enters the prone state if allowed. The owner is not notified when clientSimulation is true.
func (m *Movement) Prone(clientSimulation bool) {
	if !m.HasValidData() || m.prone || !m.CanProneInCurrentState() {
		return
	}
	m.prone = true
	if !clientSimulation {
		m.Notify(true)
	}
}

// UnProne leaves the prone state if the standing capsule fits at the current position. When it does not
// fit the component stays prone and the exit is retried on the next tick. The owner is not notified when
// clientSimulation is true.
func (m *Movement) UnProne(clientSimulation bool) {
	if !m.HasValidData() || !m.prone {
		return
	}
	if m.c.Encroached(m.c.StandingBoundingBox()) {
		return
	}
	m.prone = false
	if !clientSimulation {
		m.Notify(false)
	}
}

func (m *Movement) EncodeFlags(f flags.Flags) flags.Flags {
	return f.With(flags.BitProne, m.wantsToProne)
}

func (m *Movement) DecodeFlags(f flags.Flags) {
	m.wantsToProne = f.Has(flags.BitProne)
}

func (m *Movement) Active() bool {
	return m.prone
}

func (m *Movement) SetActive(active bool) {
	m.prone = active
}

func (m *Movement) Notify(active bool) {
	if m.owner == nil {
		return
	}
	if active {
		m.owner.OnStartProne()
	} else {
		m.owner.OnEndProne()
	}
}

func (m *Movement) BeforeMovement(float32) {
	if !m.HasValidData() {
		return
	}
	clientSimulation := m.c.ClientSimulation()
	if m.prone && (!m.wantsToProne || !m.CanProneInCurrentState()) {
		m.UnProne(clientSimulation)
	} else if !m.prone && m.wantsToProne && m.CanProneInCurrentState() {
		m.Prone(clientSimulation)
	}
}

func (m *Movement) AfterMovement(float32) {
	if !m.HasValidData() {
		return
	}
	if m.prone && !m.CanProneInCurrentState() {
		m.UnProne(m.c.ClientSimulation())
	}
}

func (m *Movement) Friction(friction float32, braking bool) float32 {
	if !m.prone || m.c == nil || !m.c.IsMovingOnGround() {
		return friction
	}
	if braking && m.c.Tunables.UseSeparateBrakingFriction {
		return m.Tunables.BrakingFriction
	}
	return m.Tunables.GroundFriction
}

func (m *Movement) Limits() (movement.Limits, bool) {
	if !m.prone {
		return movement.Limits{}, false
	}
	return movement.Limits{
		MaxAcceleration:        m.Tunables.MaxAcceleration,
		MaxSpeed:               m.Tunables.MaxWalkSpeed,
		MaxBrakingDeceleration: m.Tunables.BrakingDeceleration,
	}, true
}

// HalfHeight returns the prone capsule half height while prone.
func (m *Movement) HalfHeight() (float32, bool) {
	return m.Tunables.HalfHeight, m.prone
}
