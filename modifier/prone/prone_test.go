package prone_test

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

type owner struct {
	starts, ends int
}

func (o *owner) OnStartProne() { o.starts++ }
func (o *owner) OnEndProne()   { o.ends++ }

func setup(w *world.World) (*movement.Component, *prone.Movement, *strafe.Movement, *owner) {
	o := &owner{}
	p := prone.New(prone.DefaultTunables(), o)
	s := strafe.New(strafe.DefaultTunables(), nil)
	return movement.NewComponent(movement.DefaultTunables(), w, w, p, s), p, s, o
}

func TestProneShrinksCapsule(t *testing.T) {
	c, p, _, o := setup(world.Flat(0, 1000))
	require.Equal(t, float32(88), c.HalfHeight())

	p.SetWantsToProne(true)
	require.Equal(t, flags.Flags(1<<4), c.CompressedFlags())
	c.Move(1.0/60, mgl32.Vec3{})
	require.True(t, p.IsProne())
	require.Equal(t, 1, o.starts)
	require.Equal(t, float32(34), c.HalfHeight())
	require.Equal(t, float32(68), c.BoundingBox().Max()[2])
	require.Equal(t, float32(176), c.StandingBoundingBox().Max()[2])
}

func TestUnProneWaitsForRoom(t *testing.T) {
	w := world.Flat(0, 1000)
	w.AddSolid(cube.Box(-50, -50, 100, 50, 50, 110))
	c, p, _, o := setup(w)

	p.SetWantsToProne(true)
	c.Move(1.0/60, mgl32.Vec3{})
	require.True(t, p.IsProne())

	p.SetWantsToProne(false)
	c.Move(1.0/60, mgl32.Vec3{})
	require.True(t, p.IsProne(), "standing up under the slab is refused")
	require.Zero(t, o.ends)

	c.SetPos(mgl32.Vec3{500, 0, 0})
	c.Move(1.0/60, mgl32.Vec3{})
	require.False(t, p.IsProne())
	require.Equal(t, 1, o.ends)
}

func TestProneOnlyOnGround(t *testing.T) {
	c, p, _, o := setup(world.Flat(0, 1000))
	c.SetMode(movement.ModeFalling)

	p.SetWantsToProne(true)
	p.Prone(false)
	require.False(t, p.IsProne())
	require.Zero(t, o.starts)
}

func TestProneAndStrafeStack(t *testing.T) {
	c, p, s, _ := setup(world.Flat(0, 1000))
	p.SetWantsToProne(true)
	s.SetWantsToStrafe(true)
	require.Equal(t, flags.Flags(1<<4|1<<5), c.CompressedFlags())

	for i := 0; i < 120; i++ {
		c.Move(1.0/60, mgl32.Vec3{2048, 0, 0})
	}
	require.True(t, p.IsProne())
	require.True(t, s.IsStrafing())

	// Strafe is the outer modifier, so its limits win; prone is the inner one, so its friction wins.
	require.Equal(t, float32(300), c.MaxSpeed())
	require.Equal(t, p.Tunables.GroundFriction, p.Friction(s.Friction(8, false), false))
	require.InDelta(t, 300, c.Vel().Len(), 0.01)
}
