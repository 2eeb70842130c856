// Package recording stores the moves of a component so they can be replayed and checked for
// determinism later. A recording is a cbor stream: a header followed by one frame per move.
package recording

import (
	"errors"
	"io"
	"os"

	"github.com/fxamacker/cbor/v2"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/predmove/flags"
	"github.com/oomph-ac/predmove/game"
	"github.com/oomph-ac/predmove/modifier/prone"
	"github.com/oomph-ac/predmove/modifier/strafe"
	"github.com/oomph-ac/predmove/movement"
	"github.com/oomph-ac/predmove/oerror"
)

const CurrentRecordingVer = "1"

// Header describes the component a recording was made with.
type Header struct {
	Version string `cbor:"version"`

	Movement movement.Tunables `cbor:"movement"`
	Prone    prone.Tunables    `cbor:"prone"`
	Strafe   strafe.Tunables   `cbor:"strafe"`

	Start movement.State `cbor:"start"`
}

// Frame is a single recorded move along with the fingerprint of the state it ended with.
type Frame struct {
	Timestamp    float32     `cbor:"ts"`
	DeltaTime    float32     `cbor:"dt"`
	Acceleration mgl32.Vec3  `cbor:"accel"`
	Flags        flags.Flags `cbor:"flags"`
	Fingerprint  uint64      `cbor:"fp"`
}

type Recording struct {
	Header Header
	Frames []Frame
}

// Recorder writes a recording to an underlying writer.
type Recorder struct {
	enc    *cbor.Encoder
	frames int
}

// NewRecorder writes the header of a new recording to w and returns a recorder appending to it.
func NewRecorder(w io.Writer, h Header) (*Recorder, error) {
	h.Version = CurrentRecordingVer
	enc := cbor.NewEncoder(w)
	if err := enc.Encode(h); err != nil {
		return nil, oerror.New("unable to encode recording header: %v", err)
	}
	return &Recorder{enc: enc}, nil
}

// Record appends m to the recording. m must have been post-updated.
func (r *Recorder) Record(m *movement.SavedMove) error {
	if m == nil {
		return oerror.New(game.ErrorInternalNilMove)
	}
	return r.Append(m.Timestamp, m.DeltaTime, m.Acceleration, m.CompressedFlags(), m.End)
}

// Append appends a move that was simulated with the given input and ended in the state end.
func (r *Recorder) Append(timestamp, dt float32, accel mgl32.Vec3, f flags.Flags, end movement.State) error {
	r.frames++
	return r.enc.Encode(Frame{
		Timestamp:    timestamp,
		DeltaTime:    dt,
		Acceleration: accel,
		Flags:        f,
		Fingerprint:  end.Fingerprint(),
	})
}

// Frames returns the number of frames recorded so far.
func (r *Recorder) Frames() int {
	return r.frames
}

// Decode reads a recording from r. It returns an error if the stream could not be parsed, or if the
// version of the recording is not supported.
func Decode(r io.Reader) (*Recording, error) {
	dec := cbor.NewDecoder(r)

	rec := &Recording{}
	if err := dec.Decode(&rec.Header); err != nil {
		return nil, oerror.New("unable to decode recording header: %v", err)
	}
	if rec.Header.Version != CurrentRecordingVer {
		return nil, oerror.New(game.ErrorRecordingVersion, rec.Header.Version)
	}

	for {
		var f Frame
		if err := dec.Decode(&f); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, oerror.New("unable to decode frame %d: %v", len(rec.Frames), err)
		}
		rec.Frames = append(rec.Frames, f)
	}
	return rec, nil
}

// DecodeFile reads the recording stored in file.
func DecodeFile(file string) (*Recording, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, oerror.New("unable to open recording file: %v", err)
	}
	defer f.Close()
	return Decode(f)
}

// Verify replays the recording on c, starting from the recorded start state, and returns an error
// naming the first frame whose end state does not match the recorded fingerprint. c must be set up
// with the tunables of the header and a world equal to the one the recording was made in.
func (rec *Recording) Verify(c *movement.Component) error {
	if !c.HasValidData() {
		return oerror.New(game.ErrorNoValidData)
	}
	c.SetState(rec.Header.Start)
	for i, f := range rec.Frames {
		c.UpdateFromCompressedFlags(f.Flags)
		c.Move(f.DeltaTime, f.Acceleration)
		if fp := c.State().Fingerprint(); fp != f.Fingerprint {
			return oerror.New(game.ErrorRecordingDiverged, i, f.Fingerprint, fp)
		}
	}
	return nil
}
