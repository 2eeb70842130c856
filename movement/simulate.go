package movement

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/predmove/game"
)

// Move runs one simulation tick: the modifiers' before-movement hooks, the physics step for the current
// mode, then the after-movement hooks. accel is constrained to the current state before use.
func (c *Component) Move(dt float32, accel mgl32.Vec3) {
	if !c.HasValidData() || dt < game.MinTickTime {
		return
	}

	c.accel = c.ConstrainAcceleration(accel)
	c.debugf("BEGIN move (dt=%f accel=%v pos=%v vel=%v mode=%s replay=%v)", dt, c.accel, c.pos, c.vel, c.mode, c.replaying)

	c.pipeline.beforeMovement(dt)
	c.startPhysics(dt)
	c.pipeline.afterMovement(dt)

	c.debugf("END move (pos=%v vel=%v mode=%s active=%08b)", c.pos, c.vel, c.mode, c.pipeline.ActiveFlags())
}

func (c *Component) startPhysics(dt float32) {
	switch c.mode {
	case ModeWalking, ModeNavWalking:
		c.physWalking(dt)
	case ModeFalling:
		c.physFalling(dt)
	case ModeSwimming:
		c.physSwimming(dt)
	case ModeFlying:
		c.physFlying(dt)
	}
}

func (c *Component) physWalking(dt float32) {
	c.vel[2] = 0
	c.CalcVelocity(dt, c.Tunables.GroundFriction, false, c.MaxBrakingDeceleration())
	c.pos = c.pos.Add(c.vel.Mul(dt))

	if c.Env.InWater(c.pos) {
		c.SetMode(ModeSwimming)
		return
	}

	floor, ok := c.Env.FloorZ(c.pos, c.Tunables.CapsuleRadius)
	if !ok || c.pos[2]-floor > game.FloorSnapDistance || floor-c.pos[2] > c.Tunables.MaxStepHeight {
		c.debugf("walked off floor (floor=%f ok=%v)", floor, ok)
		c.SetMode(ModeFalling)
		return
	}
	c.pos[2] = floor
}

func (c *Component) physFalling(dt float32) {
	// Lateral velocity is integrated on its own, with air control scaling the input.
	velZ := c.vel[2]
	accel := c.accel
	c.vel = game.Horizontal(c.vel)
	c.accel = game.Horizontal(accel).Mul(c.Tunables.AirControl)
	c.CalcVelocity(dt, c.Tunables.FallingLateralFriction, false, c.MaxBrakingDeceleration())
	c.accel = accel

	c.vel[2] = velZ + c.Tunables.GravityZ*dt
	c.pos = c.pos.Add(c.vel.Mul(dt))

	if c.Env.InWater(c.pos) {
		c.SetMode(ModeSwimming)
		return
	}

	if floor, ok := c.Env.FloorZ(c.pos, c.Tunables.CapsuleRadius); ok && c.vel[2] <= 0 && c.pos[2] <= floor {
		c.pos[2] = floor
		c.SetMode(ModeWalking)
	}
}

func (c *Component) physSwimming(dt float32) {
	c.CalcVelocity(dt, 0.5*c.Tunables.FluidFriction, true, c.MaxBrakingDeceleration())
	c.pos = c.pos.Add(c.vel.Mul(dt))

	if !c.Env.InWater(c.pos) {
		c.SetMode(ModeFalling)
	}
}

func (c *Component) physFlying(dt float32) {
	c.CalcVelocity(dt, 0.5*c.Tunables.FluidFriction, true, c.MaxBrakingDeceleration())
	c.pos = c.pos.Add(c.vel.Mul(dt))
}
