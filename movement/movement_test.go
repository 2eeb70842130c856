package movement

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/predmove/flags"
	"github.com/stretchr/testify/require"
)

type flatEnv struct {
	water bool
}

func (flatEnv) FloorZ(mgl32.Vec3, float32) (float32, bool) { return 0, true }
func (e flatEnv) InWater(mgl32.Vec3) bool                  { return e.water }

// fakeModifier is a minimal modifier whose decisions are fixed by its fields.
type fakeModifier struct {
	name     string
	bit      flags.Bit
	wants    bool
	active   bool
	friction float32
	limits   Limits
	calls    *[]string
}

func (m *fakeModifier) Name() string                          { return m.name }
func (m *fakeModifier) Bit() flags.Bit                        { return m.bit }
func (m *fakeModifier) Attach(*Component)                     {}
func (m *fakeModifier) EncodeFlags(f flags.Flags) flags.Flags { return f.With(m.bit, m.wants) }
func (m *fakeModifier) DecodeFlags(f flags.Flags)             { m.wants = f.Has(m.bit) }
func (m *fakeModifier) Active() bool                          { return m.active }
func (m *fakeModifier) SetActive(active bool)                 { m.active = active }
func (m *fakeModifier) Notify(bool)                           {}
func (m *fakeModifier) AfterMovement(float32)                 {}

func (m *fakeModifier) BeforeMovement(float32) {
	if m.calls != nil {
		*m.calls = append(*m.calls, m.name)
	}
}

func (m *fakeModifier) Friction(friction float32, _ bool) float32 {
	if !m.active {
		return friction
	}
	return m.friction
}

func (m *fakeModifier) Limits() (Limits, bool) {
	return m.limits, m.active
}

func newTestComponent(mods ...Modifier) *Component {
	return NewComponent(DefaultTunables(), flatEnv{}, nil, mods...)
}

func TestPipelineOrder(t *testing.T) {
	var calls []string
	inner := &fakeModifier{name: "inner", bit: flags.BitCustom0, friction: 10, limits: Limits{MaxSpeed: 120}, calls: &calls}
	outer := &fakeModifier{name: "outer", bit: flags.BitCustom1, friction: 3, limits: Limits{MaxSpeed: 300}, calls: &calls}
	c := newTestComponent(inner, outer)

	c.Move(1.0/60, mgl32.Vec3{})
	require.Equal(t, []string{"inner", "outer"}, calls, "hooks run innermost first")

	require.Equal(t, float32(600), c.MaxSpeed())
	outer.active = true
	require.Equal(t, float32(300), c.MaxSpeed())
	require.Equal(t, float32(3), c.pipeline.friction(8, false))

	inner.active = true
	require.Equal(t, float32(300), c.MaxSpeed(), "outermost active limits win")
	require.Equal(t, float32(10), c.pipeline.friction(8, false), "innermost active friction wins")

	outer.active = false
	require.Equal(t, float32(120), c.MaxSpeed())
}

func TestPipelineFlags(t *testing.T) {
	inner := &fakeModifier{name: "inner", bit: flags.BitCustom0}
	outer := &fakeModifier{name: "outer", bit: flags.BitCustom1, wants: true}
	c := newTestComponent(inner, outer)

	f := c.CompressedFlags()
	require.Equal(t, flags.Flags(1<<5), f)

	outer.wants = false
	c.UpdateFromCompressedFlags(f)
	require.True(t, outer.wants)
	require.False(t, inner.wants)

	inner.active = true
	s := c.State()
	inner.active = false
	c.SetState(s)
	require.True(t, inner.active)
	require.False(t, outer.active)
}

func TestPipelineDuplicateBitPanics(t *testing.T) {
	require.Panics(t, func() {
		NewPipeline(&fakeModifier{name: "a", bit: flags.BitCustom1}, &fakeModifier{name: "b", bit: flags.BitCustom1})
	})
}

func TestHasValidData(t *testing.T) {
	c := NewComponent(DefaultTunables(), nil, nil)
	require.False(t, c.HasValidData())

	c.SetVel(mgl32.Vec3{100, 0, 0})
	c.Move(1.0/60, mgl32.Vec3{2048, 0, 0})
	require.Equal(t, mgl32.Vec3{}, c.Pos(), "invalid components never move")

	var nilComponent *Component
	require.False(t, nilComponent.HasValidData())
}

func TestWalkingReachesMaxSpeed(t *testing.T) {
	c := newTestComponent()
	for i := 0; i < 120; i++ {
		c.Move(1.0/60, mgl32.Vec3{2048, 0, 0})
	}
	require.Equal(t, ModeWalking, c.Mode())
	require.InDelta(t, 600, c.Vel().Len(), 0.01)
	require.Zero(t, c.Pos()[2])
}

func TestBrakingStopsWithoutReversing(t *testing.T) {
	c := newTestComponent()
	c.SetVel(mgl32.Vec3{600, 0, 0})

	for i := 0; i < 120; i++ {
		c.Move(1.0/60, mgl32.Vec3{})
		require.GreaterOrEqual(t, c.Vel()[0], float32(0), "braking must never reverse the velocity")
	}
	require.Equal(t, mgl32.Vec3{}, c.Vel())
}

func TestOverMaxSpeedBrakesToMax(t *testing.T) {
	c := newTestComponent()
	c.SetVel(mgl32.Vec3{1200, 0, 0})
	require.True(t, c.IsExceedingMaxSpeed(c.MaxSpeed()))

	for i := 0; i < 60; i++ {
		c.Move(1.0/60, mgl32.Vec3{2048, 0, 0})
	}
	require.InDelta(t, 600, c.Vel().Len(), 0.01)
	require.False(t, c.IsExceedingMaxSpeed(c.MaxSpeed()))
}

func TestWalkingIntoWaterSwims(t *testing.T) {
	c := NewComponent(DefaultTunables(), flatEnv{water: true}, nil)
	c.Move(1.0/60, mgl32.Vec3{2048, 0, 0})
	require.Equal(t, ModeSwimming, c.Mode())
}

func TestSetModeLandingClearsVerticalVelocity(t *testing.T) {
	c := newTestComponent()
	c.SetMode(ModeFalling)
	c.SetVel(mgl32.Vec3{10, 0, -300})
	c.SetMode(ModeWalking)
	require.Equal(t, mgl32.Vec3{10, 0, 0}, c.Vel())
}

func TestConstrainAcceleration(t *testing.T) {
	c := newTestComponent()
	a := c.ConstrainAcceleration(mgl32.Vec3{4096, 0, 500})
	require.Zero(t, a[2])
	require.InDelta(t, 2048, a.Len(), 0.01)

	require.InDelta(t, 2048, c.ScaleInput(mgl32.Vec3{3, 0, 0}).Len(), 0.01)
}
