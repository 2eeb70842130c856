// Package authority runs movement on the server: it simulates the moves an owning client sends,
// decides whether the client's prediction was correct and produces the state replicated to observers.
package authority

import (
	"github.com/chewxy/math32"
	"github.com/elliotchance/orderedmap/v2"
	"github.com/oomph-ac/predmove/game"
	"github.com/oomph-ac/predmove/movement"
	"github.com/oomph-ac/predmove/oerror"
	"github.com/oomph-ac/predmove/protocol"
	"github.com/oomph-ac/predmove/recording"
	"github.com/oomph-ac/predmove/utils"
	"github.com/sirupsen/logrus"
)

// errorHistorySize is the number of recent position errors kept for diagnostics.
const errorHistorySize = 64

// Authority simulates one component with authority.
type Authority struct {
	c   *movement.Component
	log logrus.FieldLogger

	// MaxPositionErrorSquared is the largest squared distance between the client's and the server's
	// end location that is still acknowledged as correct.
	MaxPositionErrorSquared float32
	// MaxMoveDeltaTime is the largest delta time a single move may simulate.
	MaxMoveDeltaTime float32
	// Recorder receives every move the authority runs. It may be nil.
	Recorder *recording.Recorder

	lastTimestamp float32
	hasMoved      bool

	errorHistory   *utils.CircularQueue[float32]
	corrections    uint64
	lastReplicated uint64
	replicatedOnce bool
}

// New returns an authority for c, switching it to the authority role.
func New(c *movement.Component, log logrus.FieldLogger) *Authority {
	c.Role = movement.RoleAuthority
	return &Authority{
		c:   c,
		log: log,

		MaxPositionErrorSquared: game.MaxPositionErrorSquared,
		MaxMoveDeltaTime:        game.MaxMoveDeltaTime,

		errorHistory: utils.NewCircularQueue[float32](errorHistorySize),
	}
}

// Component returns the simulated component.
func (a *Authority) Component() *movement.Component {
	return a.c
}

// Corrections returns the number of moves the authority corrected.
func (a *Authority) Corrections() uint64 {
	return a.corrections
}

// ErrorHistory returns the position errors of the most recent moves, oldest first.
func (a *Authority) ErrorHistory() []float32 {
	errs := make([]float32, 0, a.errorHistory.Len())
	for e := range a.errorHistory.Iter() {
		errs = append(errs, e)
	}
	return errs
}

// HandleServerMove runs a move received from the owning client and returns the reply to send back:
// a *protocol.ClientAckGoodMove when the client's prediction matches, or a *protocol.ClientAdjustPosition
// carrying the server's state otherwise. Moves that cannot be run return an error and leave the
// component untouched.
func (a *Authority) HandleServerMove(pk *protocol.ServerMove) (protocol.Packet, error) {
	c := a.c
	if !c.HasValidData() {
		return nil, oerror.New(game.ErrorNoValidData)
	}
	if !game.IsFinite(pk.Timestamp) || !game.IsFiniteVec3(pk.Acceleration) || !game.IsFiniteVec3(pk.ClientLoc) {
		return nil, oerror.New(game.ErrorNonFiniteMove, pk.Timestamp)
	}
	if a.hasMoved && pk.Timestamp <= a.lastTimestamp {
		return nil, oerror.New(game.ErrorStaleMove, pk.Timestamp, a.lastTimestamp)
	}
	if math32.IsNaN(pk.DeltaTime) || pk.DeltaTime < game.MinTickTime {
		return nil, oerror.New(game.ErrorInvalidDeltaTime, pk.DeltaTime)
	}
	a.lastTimestamp, a.hasMoved = pk.Timestamp, true

	dt := math32.Min(pk.DeltaTime, a.MaxMoveDeltaTime)
	c.UpdateFromCompressedFlags(pk.Flags)
	c.Move(dt, pk.Acceleration)
	if a.Recorder != nil {
		if err := a.Recorder.Append(pk.Timestamp, dt, pk.Acceleration, pk.Flags, c.State()); err != nil {
			a.log.Errorf("unable to record move: %v", err)
		}
	}

	posErr := c.Pos().Sub(pk.ClientLoc).LenSqr()
	_ = a.errorHistory.Append(posErr)
	if posErr <= a.MaxPositionErrorSquared && c.Mode() == pk.ClientMode {
		return &protocol.ClientAckGoodMove{Timestamp: pk.Timestamp}, nil
	}

	a.corrections++
	data := orderedmap.NewOrderedMap[string, any]()
	data.Set("timestamp", game.Round32(pk.Timestamp, 3))
	data.Set("error", game.Round32(math32.Sqrt(posErr), 3))
	data.Set("server", game.RoundVec32(c.Pos(), 2))
	data.Set("client", game.RoundVec32(pk.ClientLoc, 2))
	data.Set("serverMode", c.Mode())
	data.Set("clientMode", pk.ClientMode)
	a.log.Debugf("correcting move %s", utils.OrderedMapToString(data))

	s := c.State()
	return &protocol.ClientAdjustPosition{
		Timestamp: pk.Timestamp,
		Pos:       s.Pos,
		Vel:       s.Vel,
		Mode:      s.Mode,
		Active:    s.Active,
	}, nil
}

// Replicate returns the state observers should apply. The boolean is false if the state did not change
// since the last packet Replicate returned, in which case nothing needs to be sent.
func (a *Authority) Replicate() (*protocol.ReplicatedMovement, bool) {
	s := a.c.State()
	fp := s.Fingerprint()
	if a.replicatedOnce && fp == a.lastReplicated {
		return nil, false
	}
	a.lastReplicated, a.replicatedOnce = fp, true

	return &protocol.ReplicatedMovement{
		ServerTime: a.lastTimestamp,
		Flags:      a.c.CompressedFlags(),
		Pos:        s.Pos,
		Vel:        s.Vel,
		Mode:       s.Mode,
		Active:     s.Active,
	}, true
}
