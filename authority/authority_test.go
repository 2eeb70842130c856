package authority

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/predmove/flags"
	"github.com/oomph-ac/predmove/game"
	"github.com/oomph-ac/predmove/modifier/prone"
	"github.com/oomph-ac/predmove/modifier/strafe"
	"github.com/oomph-ac/predmove/movement"
	"github.com/oomph-ac/predmove/protocol"
	"github.com/oomph-ac/predmove/world"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	starts, ends int
}

func (r *recorder) OnStartStrafe() { r.starts++ }
func (r *recorder) OnEndStrafe()   { r.ends++ }

func newComponent(w *world.World, owner strafe.Owner) (*movement.Component, *strafe.Movement) {
	s := strafe.New(strafe.DefaultTunables(), owner)
	c := movement.NewComponent(movement.DefaultTunables(), w, w, prone.New(prone.DefaultTunables(), nil), s)
	return c, s
}

func serverMoveFor(m *movement.SavedMove) *protocol.ServerMove {
	return &protocol.ServerMove{
		Timestamp:    m.Timestamp,
		DeltaTime:    m.DeltaTime,
		Acceleration: m.Acceleration,
		Flags:        m.CompressedFlags(),
		ClientLoc:    m.End.Pos,
		ClientMode:   m.End.Mode,
	}
}

func TestPredictionMatchesAuthority(t *testing.T) {
	w := world.Flat(0, 100000)

	clientComponent, clientStrafe := newComponent(w, nil)
	cl := movement.NewClient(clientComponent)

	serverOwner := &recorder{}
	serverComponent, serverStrafe := newComponent(w, serverOwner)
	a := New(serverComponent, logrus.New())

	send := func(m *movement.SavedMove) {
		reply, err := a.HandleServerMove(serverMoveFor(m))
		require.NoError(t, err)
		ack, ok := reply.(*protocol.ClientAckGoodMove)
		require.True(t, ok, "move %f should be acknowledged", m.Timestamp)
		cl.AckMove(ack.Timestamp)
	}
	for i := 0; i < 120; i++ {
		clientStrafe.SetWantsToStrafe(i >= 30 && i < 90)
		for _, m := range cl.ReplicateMove(1.0/60, mgl32.Vec3{1, 0, 0}) {
			send(m)
		}
	}
	if m := cl.FlushPending(); m != nil {
		send(m)
	}

	require.Zero(t, a.Corrections())
	require.Equal(t, 1, serverOwner.starts)
	require.Equal(t, 1, serverOwner.ends)
	require.False(t, serverStrafe.IsStrafing())
	require.Equal(t, clientComponent.Pos(), serverComponent.Pos())
}

func TestHandleServerMoveCorrection(t *testing.T) {
	w := world.Flat(0, 100000)
	c, s := newComponent(w, nil)
	a := New(c, logrus.New())

	reply, err := a.HandleServerMove(&protocol.ServerMove{
		Timestamp:    0.1,
		DeltaTime:    0.1,
		Acceleration: mgl32.Vec3{2048, 0, 0},
		Flags:        flags.Flags(0).With(flags.BitStrafe, true),
		ClientLoc:    mgl32.Vec3{500, 0, 0},
		ClientMode:   movement.ModeWalking,
	})
	require.NoError(t, err)

	adjust, ok := reply.(*protocol.ClientAdjustPosition)
	require.True(t, ok)
	require.Equal(t, float32(0.1), adjust.Timestamp)
	require.Equal(t, c.Pos(), adjust.Pos)
	require.True(t, adjust.Active.Has(flags.BitStrafe))
	require.True(t, s.IsStrafing())
	require.Equal(t, uint64(1), a.Corrections())
	require.Len(t, a.ErrorHistory(), 1)
}

func TestHandleServerMoveRejects(t *testing.T) {
	w := world.Flat(0, 100000)
	c, _ := newComponent(w, nil)
	a := New(c, logrus.New())

	_, err := a.HandleServerMove(&protocol.ServerMove{Timestamp: 1, DeltaTime: 0})
	require.Error(t, err)

	_, err = a.HandleServerMove(&protocol.ServerMove{Timestamp: 1, DeltaTime: 1.0 / 60})
	require.NoError(t, err)

	pos := c.Pos()
	_, err = a.HandleServerMove(&protocol.ServerMove{Timestamp: 1, DeltaTime: 1.0 / 60, Acceleration: mgl32.Vec3{2048, 0, 0}})
	require.Error(t, err, "stale timestamp")
	require.Equal(t, pos, c.Pos())

	nan := math32.NaN()
	for _, pk := range []*protocol.ServerMove{
		{Timestamp: 2, DeltaTime: 1.0 / 60, Acceleration: mgl32.Vec3{nan, 0, 0}},
		{Timestamp: nan, DeltaTime: 1.0 / 60},
		{Timestamp: 2, DeltaTime: 1.0 / 60, ClientLoc: mgl32.Vec3{0, math32.Inf(1), 0}},
	} {
		_, err = a.HandleServerMove(pk)
		require.Error(t, err, "non-finite move %+v", pk)
	}
	require.Equal(t, pos, c.Pos())
	require.True(t, game.IsFiniteVec3(c.Vel()))

	_, err = a.HandleServerMove(&protocol.ServerMove{Timestamp: 0.5, DeltaTime: 1.0 / 60})
	require.Error(t, err, "stale check survives rejected moves")
	_, err = a.HandleServerMove(&protocol.ServerMove{Timestamp: 2, DeltaTime: 1.0 / 60})
	require.NoError(t, err)

	invalid := New(movement.NewComponent(movement.DefaultTunables(), nil, nil), logrus.New())
	_, err = invalid.HandleServerMove(&protocol.ServerMove{Timestamp: 1, DeltaTime: 1.0 / 60})
	require.Error(t, err)
}

func TestReplicateOnlyOnChange(t *testing.T) {
	w := world.Flat(0, 100000)
	c, _ := newComponent(w, nil)
	a := New(c, logrus.New())

	pk, ok := a.Replicate()
	require.True(t, ok)
	require.Equal(t, movement.ModeWalking, pk.Mode)

	_, ok = a.Replicate()
	require.False(t, ok)

	_, err := a.HandleServerMove(&protocol.ServerMove{Timestamp: 0.1, DeltaTime: 0.1, Acceleration: mgl32.Vec3{2048, 0, 0}})
	require.NoError(t, err)
	pk, ok = a.Replicate()
	require.True(t, ok)
	require.Equal(t, float32(0.1), pk.ServerTime)
}

func TestProxyFollowsReplicatedStrafe(t *testing.T) {
	w := world.Flat(0, 100000)
	owner := &recorder{}
	c, s := newComponent(w, owner)
	p := NewProxy(c)

	p.Tick(1.0 / 60)
	require.Equal(t, mgl32.Vec3{}, c.Pos(), "no extrapolation before the first update")

	p.HandleReplicatedMovement(&protocol.ReplicatedMovement{
		ServerTime: 2,
		Flags:      flags.Flags(0).With(flags.BitStrafe, true),
		Vel:        mgl32.Vec3{600, 0, 0},
		Mode:       movement.ModeWalking,
	})
	for i := 0; i < 60; i++ {
		p.Tick(1.0 / 60)
	}
	require.True(t, s.IsStrafing())
	require.InDelta(t, 300, c.Vel().Len(), 1)
	require.Zero(t, owner.starts)

	p.HandleReplicatedMovement(&protocol.ReplicatedMovement{ServerTime: 1, Mode: movement.ModeFalling})
	require.Equal(t, movement.ModeWalking, c.Mode(), "older updates are ignored")
}
