package movement

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/predmove/flags"
	"github.com/oomph-ac/predmove/game"
)

// accelMagThresholdCombine is the largest difference in acceleration magnitude two combinable moves may have.
const accelMagThresholdCombine = float32(1)

// SavedMove is the record of one predicted tick kept by the owning client until the server acknowledges
// or corrects it. Records are pooled: Clear resets one for reuse.
type SavedMove struct {
	Timestamp    float32
	DeltaTime    float32
	Acceleration mgl32.Vec3

	// Flags holds the intent of every modifier captured when the move was set up.
	Flags flags.Flags

	Start State
	End   State

	// ForceNoCombine prevents the move from being folded into its successor.
	ForceNoCombine bool
}

// Clear resets the move to its zero state.
func (m *SavedMove) Clear() {
	*m = SavedMove{}
}

// SetMoveFor captures the state of c and the input of the tick about to be simulated. Every modifier's
// intent is read exactly once, here.
func (m *SavedMove) SetMoveFor(c *Component, dt float32, accel mgl32.Vec3, timestamp float32) {
	m.Timestamp = timestamp
	m.DeltaTime = dt
	m.Acceleration = accel
	m.Start = c.State()
	m.Flags = c.CompressedFlags()
}

// CompressedFlags returns the flags byte to send for the move: the captured intent of every modifier,
// innermost first.
func (m *SavedMove) CompressedFlags() flags.Flags {
	return m.Flags
}

// Wants returns the captured intent for the modifier owning bit b.
func (m *SavedMove) Wants(b flags.Bit) bool {
	return m.Flags.Has(b)
}

// CanCombineWith returns true if next may be folded into this move before sending. Moves combine only
// when their captured intents are equal; the engaged state of a modifier is not compared, since it may
// differ for the same intent when the environment changes.
func (m *SavedMove) CanCombineWith(next *SavedMove, maxDelta float32) bool {
	if next == nil || m.ForceNoCombine || next.ForceNoCombine {
		return false
	}
	if m.CompressedFlags() != next.CompressedFlags() {
		return false
	}
	if m.Start.Mode != next.Start.Mode || m.End.Mode != m.Start.Mode {
		return false
	}

	zero, nextZero := game.IsZeroVec3(m.Acceleration), game.IsZeroVec3(next.Acceleration)
	if zero != nextZero {
		return false
	}
	if !zero {
		if game.SafeNormal(m.Acceleration).Dot(game.SafeNormal(next.Acceleration)) < game.AccelDotThresholdCombine {
			return false
		}
		if math32.Abs(m.Acceleration.Len()-next.Acceleration.Len()) > accelMagThresholdCombine {
			return false
		}
	}
	return m.DeltaTime+next.DeltaTime <= maxDelta
}

// CombineWith folds prev, the move simulated just before this one, into this move. The caller must
// reset the component to prev's start state before simulating the combined move.
func (m *SavedMove) CombineWith(prev *SavedMove) {
	m.DeltaTime += prev.DeltaTime
	m.Start = prev.Start
}

// IsImportantMove returns true if the move must reach the server even if it could be delayed: its flags
// or mode differ from the last acknowledged move, or its acceleration direction changed noticeably.
func (m *SavedMove) IsImportantMove(lastAcked *SavedMove) bool {
	if lastAcked == nil {
		return true
	}
	if m.CompressedFlags() != lastAcked.CompressedFlags() {
		return true
	}
	if m.Start.Mode != lastAcked.End.Mode || m.End.Mode != lastAcked.End.Mode {
		return true
	}
	if game.IsZeroVec3(m.Acceleration) != game.IsZeroVec3(lastAcked.Acceleration) {
		return true
	}
	if !game.IsZeroVec3(m.Acceleration) {
		return game.SafeNormal(m.Acceleration).Dot(game.SafeNormal(lastAcked.Acceleration)) < game.AccelDotThresholdImportant
	}
	return false
}

// PrepMoveFor sets the intents of c to the ones captured in the move, ready to replay it.
func (m *SavedMove) PrepMoveFor(c *Component) {
	c.UpdateFromCompressedFlags(m.Flags)
}

// PostUpdate captures the state c ended the move with.
func (m *SavedMove) PostUpdate(c *Component) {
	m.End = c.State()
}
