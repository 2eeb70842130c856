package movement

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/predmove/game"
)

// overVelocityPercent is how far above the max speed velocity may be before braking kicks in.
const overVelocityPercent = float32(1.01)

// CalcVelocity updates the velocity of the component from its acceleration, friction and braking. The
// modifier pipeline first decides the friction to use, then the shared integration runs.
func (c *Component) CalcVelocity(dt, friction float32, fluid bool, brakingDeceleration float32) {
	if !c.HasValidData() || dt < game.MinTickTime {
		return
	}
	friction = c.pipeline.friction(friction, false)
	c.integrateVelocity(dt, friction, fluid, brakingDeceleration)
}

// ApplyVelocityBraking slows the component down when there is no input acceleration, or when it moves
// faster than its max speed. The modifier pipeline decides the braking friction first.
func (c *Component) ApplyVelocityBraking(dt, friction, brakingDeceleration float32) {
	if !c.HasValidData() {
		return
	}
	friction = c.pipeline.friction(friction, true)
	c.brake(dt, friction, brakingDeceleration)
}

// IsExceedingMaxSpeed returns true if the velocity is above max by more than a small tolerance.
func (c *Component) IsExceedingMaxSpeed(max float32) bool {
	max = math32.Max(0, max)
	return c.vel.LenSqr() > max*max*overVelocityPercent
}

func (c *Component) integrateVelocity(dt, friction float32, fluid bool, brakingDeceleration float32) {
	friction = math32.Max(0, friction)
	maxSpeed := c.MaxSpeed()

	zeroAccel := game.IsZeroVec3(c.accel)
	overMax := c.IsExceedingMaxSpeed(maxSpeed)

	// Only brake without input, or to slow down to the max speed.
	if zeroAccel || overMax {
		oldVel := c.vel
		brakingFriction := friction
		if c.Tunables.UseSeparateBrakingFriction {
			brakingFriction = c.Tunables.BrakingFriction
		}
		c.ApplyVelocityBraking(dt, brakingFriction, brakingDeceleration)

		// Braking may not take us below the max speed if we started above it.
		if overMax && c.vel.LenSqr() < maxSpeed*maxSpeed && c.accel.Dot(oldVel) > 0 {
			c.vel = game.SafeNormal(oldVel).Mul(maxSpeed)
		}
	} else {
		// Friction turns the velocity toward the acceleration direction.
		accelDir := game.SafeNormal(c.accel)
		velSize := c.vel.Len()
		c.vel = c.vel.Sub(c.vel.Sub(accelDir.Mul(velSize)).Mul(math32.Min(dt*friction, 1)))
	}

	if fluid {
		c.vel = c.vel.Mul(1 - math32.Min(friction*dt, 1))
	}

	if !zeroAccel {
		maxInputSpeed := maxSpeed
		if c.IsExceedingMaxSpeed(maxSpeed) {
			maxInputSpeed = c.vel.Len()
		}
		c.vel = game.ClampMaxSize(c.vel.Add(c.accel.Mul(dt)), maxInputSpeed)
	}
}

func (c *Component) brake(dt, friction, brakingDeceleration float32) {
	if game.IsZeroVec3(c.vel) || dt < game.MinTickTime {
		return
	}

	friction = math32.Max(0, friction*math32.Max(0, c.Tunables.BrakingFrictionFactor))
	brakingDeceleration = math32.Max(0, brakingDeceleration)
	zeroFriction := friction == 0
	zeroBraking := brakingDeceleration == 0
	if zeroFriction && zeroBraking {
		return
	}

	oldVel := c.vel
	maxStep := game.ClampFloat(game.BrakingSubStepTime, game.MinBrakingSubStep, game.MaxBrakingSubStep)

	var revAccel mgl32.Vec3
	if !zeroBraking {
		revAccel = game.SafeNormal(c.vel).Mul(-brakingDeceleration)
	}

	remaining := dt
	for remaining >= game.MinTickTime {
		// Constant deceleration without friction needs no sub-steps.
		step := remaining
		if remaining > maxStep && !zeroFriction {
			step = math32.Min(maxStep, remaining*0.5)
		}
		remaining -= step

		c.vel = c.vel.Add(c.vel.Mul(-friction).Add(revAccel).Mul(step))

		// Braking never reverses direction.
		if c.vel.Dot(oldVel) <= 0 {
			c.vel = mgl32.Vec3{}
			return
		}
	}

	sq := c.vel.LenSqr()
	if sq <= game.KindaSmallNumber || (!zeroBraking && sq <= game.BrakeToStopVelocity*game.BrakeToStopVelocity) {
		c.vel = mgl32.Vec3{}
	}
}
