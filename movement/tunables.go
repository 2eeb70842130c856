package movement

import "github.com/oomph-ac/predmove/game"

// Tunables are the base movement constants. They are only changed by configuration, never by a tick.
type Tunables struct {
	MaxAcceleration float32 `toml:"max_acceleration"`
	MaxWalkSpeed    float32 `toml:"max_walk_speed"`
	MaxSwimSpeed    float32 `toml:"max_swim_speed"`
	MaxFlySpeed     float32 `toml:"max_fly_speed"`
	MaxCustomSpeed  float32 `toml:"max_custom_speed"`

	GroundFriction             float32 `toml:"ground_friction"`
	BrakingFriction            float32 `toml:"braking_friction"`
	BrakingFrictionFactor      float32 `toml:"braking_friction_factor"`
	UseSeparateBrakingFriction bool    `toml:"use_separate_braking_friction"`
	FallingLateralFriction     float32 `toml:"falling_lateral_friction"`
	FluidFriction              float32 `toml:"fluid_friction"`

	BrakingDecelerationWalking  float32 `toml:"braking_deceleration_walking"`
	BrakingDecelerationFalling  float32 `toml:"braking_deceleration_falling"`
	BrakingDecelerationSwimming float32 `toml:"braking_deceleration_swimming"`
	BrakingDecelerationFlying   float32 `toml:"braking_deceleration_flying"`

	AirControl    float32 `toml:"air_control"`
	GravityZ      float32 `toml:"gravity_z"`
	MaxStepHeight float32 `toml:"max_step_height"`

	CapsuleRadius     float32 `toml:"capsule_radius"`
	CapsuleHalfHeight float32 `toml:"capsule_half_height"`
}

// DefaultTunables returns the stock character movement constants.
func DefaultTunables() Tunables {
	return Tunables{
		MaxAcceleration: 2048,
		MaxWalkSpeed:    600,
		MaxSwimSpeed:    300,
		MaxFlySpeed:     600,
		MaxCustomSpeed:  600,

		GroundFriction:         8,
		BrakingFriction:        0,
		BrakingFrictionFactor:  2,
		FallingLateralFriction: 0,
		FluidFriction:          0.3,

		BrakingDecelerationWalking:  2048,
		BrakingDecelerationFalling:  0,
		BrakingDecelerationSwimming: 0,
		BrakingDecelerationFlying:   0,

		AirControl:    0.05,
		GravityZ:      game.DefaultGravityZ,
		MaxStepHeight: game.DefaultMaxStepHeight,

		CapsuleRadius:     game.DefaultCapsuleRadius,
		CapsuleHalfHeight: game.DefaultCapsuleHalfHeight,
	}
}

// Limits are the per-state overrides a modifier supplies while it is active.
type Limits struct {
	MaxAcceleration        float32
	MaxSpeed               float32
	MaxBrakingDeceleration float32
}
