package movement_test

import (
	"testing"

	"github.com/ethaniccc/float32-cube/cube"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/predmove/flags"
	"github.com/oomph-ac/predmove/modifier/prone"
	"github.com/oomph-ac/predmove/modifier/strafe"
	"github.com/oomph-ac/predmove/movement"
	"github.com/oomph-ac/predmove/world"
	"github.com/stretchr/testify/require"
)

type strafeOwner struct {
	starts, ends int
}

func (o *strafeOwner) OnStartStrafe() { o.starts++ }
func (o *strafeOwner) OnEndStrafe()   { o.ends++ }

func newClient(owner strafe.Owner) (*movement.Client, *strafe.Movement) {
	w := world.Flat(0, 100000)
	s := strafe.New(strafe.DefaultTunables(), owner)
	c := movement.NewComponent(movement.DefaultTunables(), w, w, prone.New(prone.DefaultTunables(), nil), s)
	return movement.NewClient(c), s
}

func predict(cl *movement.Client, s *strafe.Movement, ticks int, strafing bool) {
	s.SetWantsToStrafe(strafing)
	for i := 0; i < ticks; i++ {
		cl.ReplicateMove(1.0/60, mgl32.Vec3{1, 0, 0})
	}
}

func firstMove(cl *movement.Client) *movement.SavedMove {
	for m := range cl.Data().Moves() {
		return m
	}
	return nil
}

func TestCorrectionReplayIsDeterministic(t *testing.T) {
	owner := &strafeOwner{}
	cl, s := newClient(owner)
	predict(cl, s, 10, false)
	predict(cl, s, 10, true)
	require.Equal(t, 1, owner.starts)

	c := cl.Component()
	before := c.State()
	first := firstMove(cl)
	require.NotNil(t, first)

	// Correcting to the exact state the client predicted must reproduce every later move bit for bit.
	cl.Correct(first.Timestamp, first.End)
	require.Equal(t, before, c.State())
	require.Equal(t, 1, owner.starts, "replays never notify")
	require.Zero(t, owner.ends)
	require.True(t, s.WantsToStrafe(), "live intent survives the replay")
}

func TestCorrectionMovesReplayedMoves(t *testing.T) {
	cl, s := newClient(nil)
	predict(cl, s, 20, true)

	c := cl.Component()
	before := c.Pos()
	first := firstMove(cl)
	authoritative := first.End
	authoritative.Pos[1] += 50

	cl.Correct(first.Timestamp, authoritative)
	require.Equal(t, before[0], c.Pos()[0])
	require.Equal(t, float32(50), c.Pos()[1])
	require.True(t, s.IsStrafing())
}

func TestCorrectionFiresSingleEdge(t *testing.T) {
	owner := &strafeOwner{}
	cl, s := newClient(owner)
	predict(cl, s, 20, true)
	require.True(t, s.IsStrafing())
	require.Equal(t, 1, owner.starts)

	// The server never saw the strafe: the last move is corrected to a state without it.
	last := cl.Data().CurrentTimestamp
	cl.FlushPending()
	cl.Correct(last, movement.State{Mode: movement.ModeWalking})

	require.False(t, s.IsStrafing())
	require.Equal(t, 1, owner.ends)
	require.Zero(t, cl.Data().Len())
}

type proneOwner struct {
	starts, ends int
}

func (o *proneOwner) OnStartProne() { o.starts++ }
func (o *proneOwner) OnEndProne()   { o.ends++ }

func TestCorrectionReplaysRefusedUnProne(t *testing.T) {
	w := world.Flat(0, 100000)
	w.AddSolid(cube.Box(-50, -50, 100, 50, 50, 110))
	owner := &proneOwner{}
	p := prone.New(prone.DefaultTunables(), owner)
	c := movement.NewComponent(movement.DefaultTunables(), w, w, p, strafe.New(strafe.DefaultTunables(), nil))
	cl := movement.NewClient(c)

	p.SetWantsToProne(true)
	for i := 0; i < 3; i++ {
		cl.ReplicateMove(1.0/60, mgl32.Vec3{})
	}
	p.SetWantsToProne(false)
	for i := 0; i < 3; i++ {
		cl.ReplicateMove(1.0/60, mgl32.Vec3{})
	}
	require.True(t, p.IsProne(), "no room to stand up under the slab")
	require.Equal(t, 1, owner.starts)

	before := c.State()
	first := firstMove(cl)
	require.NotNil(t, first)

	cl.Correct(first.Timestamp, first.End)
	require.Equal(t, before, c.State())
	require.True(t, p.IsProne())
	require.Equal(t, 1, owner.starts)
	require.Zero(t, owner.ends)
}

func TestReplicateMoveCombinesAndSends(t *testing.T) {
	cl, s := newClient(nil)
	s.SetWantsToStrafe(true)

	var (
		sent  int
		total float32
	)
	send := func(m *movement.SavedMove) {
		sent++
		total += m.DeltaTime
		require.True(t, m.Wants(flags.BitStrafe))
		cl.AckMove(m.Timestamp)
	}
	for i := 0; i < 60; i++ {
		for _, m := range cl.ReplicateMove(1.0/240, mgl32.Vec3{1, 0, 0}) {
			send(m)
		}
	}
	if m := cl.FlushPending(); m != nil {
		send(m)
	}
	require.Less(t, sent, 60, "moves within the send interval are combined")
	require.InDelta(t, 0.25, total, 1e-4)
}

func TestReplicateMoveIgnoresInvalidDelta(t *testing.T) {
	cl, _ := newClient(nil)
	require.Nil(t, cl.ReplicateMove(0, mgl32.Vec3{1, 0, 0}))
	require.Zero(t, cl.Data().Len())
}
