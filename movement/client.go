package movement

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/predmove/game"
)

// Client drives a component in the owning (autonomous proxy) role: it predicts each tick locally,
// records a saved move for it and reconciles with the server's acknowledgements and corrections.
type Client struct {
	c    *Component
	data *PredictionData

	lastSendTimestamp float32
}

// NewClient wraps c, switching it to the autonomous proxy role.
func NewClient(c *Component) *Client {
	c.Role = RoleAutonomousProxy
	return &Client{c: c, data: NewPredictionData()}
}

// Component returns the predicted component.
func (cl *Client) Component() *Component {
	return cl.c
}

// Data returns the prediction buffer of the client.
func (cl *Client) Data() *PredictionData {
	return cl.data
}

// ReplicateMove predicts one tick using the raw input vector and returns the moves that should be sent
// to the server now, oldest first. A move that may still combine with the next one is held back, in
// which case fewer moves (possibly none) are returned.
func (cl *Client) ReplicateMove(dt float32, input mgl32.Vec3) []*SavedMove {
	c, data := cl.c, cl.data
	if !c.HasValidData() || dt < game.MinTickTime {
		return nil
	}

	var send []*SavedMove
	newMove := data.AllocateNewMove()
	newMove.SetMoveFor(c, dt, c.ScaleInput(input), data.UpdateTimestamp(dt))

	if pending := data.PendingMove; pending != nil {
		data.PendingMove = nil
		if pending.CanCombineWith(newMove, data.MaxMoveDeltaTime) {
			c.debugf("combining move %f into %f", pending.Timestamp, newMove.Timestamp)
			c.SetState(pending.Start)
			newMove.CombineWith(pending)
			data.RemoveMove(pending.Timestamp)
			data.FreeMove(pending)
		} else {
			send = append(send, pending)
		}
	}

	c.Move(newMove.DeltaTime, newMove.Acceleration)
	newMove.PostUpdate(c)
	if newMove.Start.Active != newMove.End.Active {
		// A move that engaged or released a modifier is never re-simulated by combining.
		newMove.ForceNoCombine = true
	}
	if data.AddMove(newMove) {
		c.debugf("saved move buffer full, dropped oldest moves")
	}

	if len(send) == 0 && !newMove.IsImportantMove(data.LastAckedMove) &&
		newMove.Timestamp-cl.lastSendTimestamp < game.NetSendInterval {
		data.PendingMove = newMove
		return send
	}

	cl.lastSendTimestamp = newMove.Timestamp
	return append(send, newMove)
}

// FlushPending returns the held-back move, if any, so it can be sent immediately.
func (cl *Client) FlushPending() *SavedMove {
	m := cl.data.PendingMove
	cl.data.PendingMove = nil
	if m != nil {
		cl.lastSendTimestamp = m.Timestamp
	}
	return m
}

// AckMove handles the server acknowledging the move with the given timestamp.
func (cl *Client) AckMove(timestamp float32) {
	cl.data.AckMove(timestamp)
}

// Correct handles the server rejecting the move with the given timestamp: the component is moved to the
// authoritative state and every later move is replayed on top of it. Owner notifications are suppressed
// while replaying; afterwards a single edge is fired for each modifier whose engaged state differs from
// before the correction.
func (cl *Client) Correct(timestamp float32, authoritative State) {
	c := cl.c
	if !c.HasValidData() {
		return
	}

	before := c.pipeline.ActiveFlags()
	cl.data.AckMove(timestamp)
	c.SetState(authoritative)
	cl.replayMoves()

	after := c.pipeline.ActiveFlags()
	if before == after {
		return
	}
	for _, m := range c.pipeline.Modifiers() {
		if was, is := before.Has(m.Bit()), after.Has(m.Bit()); was != is {
			m.Notify(is)
		}
	}
}

// replayMoves re-simulates every buffered move from the current state. The live intents are saved first
// and restored afterwards, since each move decodes its own captured intents before running.
func (cl *Client) replayMoves() {
	c := cl.c
	live := c.CompressedFlags()

	c.replaying = true
	for m := range cl.data.Moves() {
		m.PrepMoveFor(c)
		m.Start = c.State()
		c.Move(m.DeltaTime, m.Acceleration)
		m.PostUpdate(c)
	}
	c.replaying = false

	c.UpdateFromCompressedFlags(live)
	c.debugf("replayed %d moves (pos=%v vel=%v)", cl.data.Len(), c.pos, c.vel)
}
