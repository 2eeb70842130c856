package game

const (
	SmallNumber      = float32(1e-8)
	KindaSmallNumber = float32(1e-4)

	// MinTickTime is the smallest delta time a movement step will integrate.
	MinTickTime = float32(1e-6)
	// BrakeToStopVelocity is the speed below which braking snaps velocity to zero.
	BrakeToStopVelocity = float32(10)
	// BrakingSubStepTime is the preferred sub-step used while braking with friction.
	BrakingSubStepTime = float32(1.0 / 33.0)
	MinBrakingSubStep  = float32(1.0 / 75.0)
	MaxBrakingSubStep  = float32(1.0 / 20.0)

	DefaultGravityZ      = float32(-980)
	DefaultMaxStepHeight = float32(45)
	// FloorSnapDistance is how far below the feet a floor may be while still walking on it.
	FloorSnapDistance = float32(2.4)

	DefaultCapsuleRadius     = float32(34)
	DefaultCapsuleHalfHeight = float32(88)
)

const (
	// MaxMoveDeltaTime bounds the delta time of a single (possibly combined) move.
	MaxMoveDeltaTime = float32(0.125)
	// MaxSavedMoveCount is the upper bound on unacknowledged moves a client keeps.
	MaxSavedMoveCount = 96
	// AccelDotThresholdCombine is the minimum dot product of acceleration directions for two moves to combine.
	AccelDotThresholdCombine = float32(0.996)
	// AccelDotThresholdImportant is the dot product under which a direction change makes a move important.
	AccelDotThresholdImportant = float32(0.9)
	// MaxPositionErrorSquared is the squared distance the server tolerates between its result and the client's.
	MaxPositionErrorSquared = float32(3 * 3)
	// NetSendInterval is how long a client may hold an unimportant move waiting to combine it.
	NetSendInterval = float32(1.0 / 60.0)
)
