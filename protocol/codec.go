package protocol

import (
	"bytes"

	"github.com/oomph-ac/predmove/game"
	"github.com/oomph-ac/predmove/internal"
	"github.com/oomph-ac/predmove/oerror"
	mcprotocol "github.com/sandertv/gophertunnel/minecraft/protocol"
)

// Encode returns the datagram for pk: its ID followed by its body. The returned slice is owned by the
// caller.
func Encode(pk Packet) []byte {
	if pk == nil {
		panic(oerror.New(game.ErrorInternalNilPacket))
	}

	buf := internal.BufferPool.Get().(*bytes.Buffer)
	defer internal.BufferPool.Put(buf)

	buf.Reset()
	buf.WriteByte(pk.ID())
	pk.Marshal(mcprotocol.NewWriter(buf, 0))

	out := make([]byte, buf.Len())
	copy(out, buf.Bytes())
	return out
}

// Decode reads a datagram produced by Encode.
func Decode(b []byte) (pk Packet, err error) {
	if len(b) == 0 {
		return nil, oerror.New(game.ErrorUnknownPacket, 0)
	}
	newPacket, ok := pool[b[0]]
	if !ok {
		return nil, oerror.New(game.ErrorUnknownPacket, b[0])
	}
	pk = newPacket()

	buf := internal.BufferPool.Get().(*bytes.Buffer)
	defer internal.BufferPool.Put(buf)

	buf.Reset()
	buf.Write(b[1:])

	defer func() {
		if r := recover(); r != nil {
			pk, err = nil, oerror.New(game.ErrorMalformedPacket, pk, r)
		}
	}()
	pk.Marshal(mcprotocol.NewReader(buf, 0, false))
	return pk, nil
}
