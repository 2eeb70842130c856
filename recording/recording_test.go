package recording

import (
	"bytes"
	"testing"

	"github.com/fxamacker/cbor/v2"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/predmove/modifier/prone"
	"github.com/oomph-ac/predmove/modifier/strafe"
	"github.com/oomph-ac/predmove/movement"
	"github.com/oomph-ac/predmove/world"
	"github.com/stretchr/testify/require"
)

func newComponent(w *world.World) (*movement.Component, *strafe.Movement) {
	s := strafe.New(strafe.DefaultTunables(), nil)
	c := movement.NewComponent(movement.DefaultTunables(), w, w, prone.New(prone.DefaultTunables(), nil), s)
	return c, s
}

func record(t *testing.T, w *world.World) *bytes.Buffer {
	c, s := newComponent(w)
	buf := &bytes.Buffer{}
	r, err := NewRecorder(buf, Header{
		Movement: c.Tunables,
		Prone:    prone.DefaultTunables(),
		Strafe:   s.Tunables,
		Start:    c.State(),
	})
	require.NoError(t, err)

	data := movement.NewPredictionData()
	for i := 0; i < 90; i++ {
		s.SetWantsToStrafe(i%40 > 15)

		m := data.AllocateNewMove()
		m.SetMoveFor(c, 1.0/60, mgl32.Vec3{1400, 1400, 0}, data.UpdateTimestamp(1.0/60))
		c.Move(m.DeltaTime, m.Acceleration)
		m.PostUpdate(c)
		require.NoError(t, r.Record(m))
		data.FreeMove(m)
	}
	require.Equal(t, 90, r.Frames())
	return buf
}

func TestRecordingReplaysDeterministically(t *testing.T) {
	w := world.Flat(0, 100000)
	rec, err := Decode(record(t, w))
	require.NoError(t, err)
	require.Len(t, rec.Frames, 90)
	require.Equal(t, CurrentRecordingVer, rec.Header.Version)

	c, _ := newComponent(w)
	c.Role = movement.RoleSimulatedProxy
	require.NoError(t, rec.Verify(c))
}

func TestRecordingDivergence(t *testing.T) {
	w := world.Flat(0, 100000)
	rec, err := Decode(record(t, w))
	require.NoError(t, err)

	rec.Frames[42].Fingerprint++
	c, _ := newComponent(w)
	err = rec.Verify(c)
	require.Error(t, err)
	require.Contains(t, err.Error(), "frame 42")
}

func TestRecordingVersion(t *testing.T) {
	buf := &bytes.Buffer{}
	require.NoError(t, cbor.NewEncoder(buf).Encode(Header{Version: "0"}))

	_, err := Decode(buf)
	require.Error(t, err)
}
