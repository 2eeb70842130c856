package movement

import (
	"bytes"

	"github.com/oomph-ac/predmove/internal"
	"github.com/sandertv/gophertunnel/minecraft/protocol"
	"github.com/zeebo/xxh3"
)

// Fingerprint returns a hash of the state. Two states have the same fingerprint only if every float in
// them is bit-for-bit equal.
func (s State) Fingerprint() uint64 {
	buf := internal.BufferPool.Get().(*bytes.Buffer)
	defer internal.BufferPool.Put(buf)

	buf.Reset()
	w := protocol.NewWriter(buf, 0)
	w.Vec3(&s.Pos)
	w.Vec3(&s.Vel)
	mode, active := uint8(s.Mode), uint8(s.Active)
	w.Uint8(&mode)
	w.Uint8(&active)
	return xxh3.Hash(buf.Bytes())
}
