// Package protocol implements the movement packets exchanged between an owning client and the server,
// and the codec that frames them in datagrams.
package protocol

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/predmove/flags"
	"github.com/oomph-ac/predmove/movement"
	mcprotocol "github.com/sandertv/gophertunnel/minecraft/protocol"
)

const (
	IDServerMove uint8 = iota + 1
	IDClientAckGoodMove
	IDClientAdjustPosition
	IDReplicatedMovement
)

// Packet is a movement packet. Marshal both reads and writes the packet depending on the IO passed.
type Packet interface {
	ID() uint8
	Marshal(io mcprotocol.IO)
}

// pool holds a constructor for every packet, keyed by its ID.
var pool = map[uint8]func() Packet{
	IDServerMove:           func() Packet { return &ServerMove{} },
	IDClientAckGoodMove:    func() Packet { return &ClientAckGoodMove{} },
	IDClientAdjustPosition: func() Packet { return &ClientAdjustPosition{} },
	IDReplicatedMovement:   func() Packet { return &ReplicatedMovement{} },
}

// ServerMove is sent by the owning client for every move it wants the server to run.
type ServerMove struct {
	Timestamp    float32
	DeltaTime    float32
	Acceleration mgl32.Vec3
	// Flags is the compressed intent byte of the move.
	Flags flags.Flags
	// ClientLoc and ClientMode are where the client ended up after predicting the move.
	ClientLoc  mgl32.Vec3
	ClientMode movement.Mode
}

func (*ServerMove) ID() uint8 {
	return IDServerMove
}

func (pk *ServerMove) Marshal(io mcprotocol.IO) {
	io.Float32(&pk.Timestamp)
	io.Float32(&pk.DeltaTime)
	io.Vec3(&pk.Acceleration)
	byteOf(io, &pk.Flags)
	io.Vec3(&pk.ClientLoc)
	byteOf(io, &pk.ClientMode)
}

// ClientAckGoodMove tells the client the move with the given timestamp matched the server.
type ClientAckGoodMove struct {
	Timestamp float32
}

func (*ClientAckGoodMove) ID() uint8 {
	return IDClientAckGoodMove
}

func (pk *ClientAckGoodMove) Marshal(io mcprotocol.IO) {
	io.Float32(&pk.Timestamp)
}

// ClientAdjustPosition tells the client the move with the given timestamp diverged, and carries the
// state the server ended that move with.
type ClientAdjustPosition struct {
	Timestamp float32
	Pos       mgl32.Vec3
	Vel       mgl32.Vec3
	Mode      movement.Mode
	// Active holds the engaged modifiers, keyed by their flag bits.
	Active flags.Flags
}

func (*ClientAdjustPosition) ID() uint8 {
	return IDClientAdjustPosition
}

func (pk *ClientAdjustPosition) Marshal(io mcprotocol.IO) {
	io.Float32(&pk.Timestamp)
	io.Vec3(&pk.Pos)
	io.Vec3(&pk.Vel)
	byteOf(io, &pk.Mode)
	byteOf(io, &pk.Active)
}

// State returns the authoritative state carried by the packet.
func (pk *ClientAdjustPosition) State() movement.State {
	return movement.State{Pos: pk.Pos, Vel: pk.Vel, Mode: pk.Mode, Active: pk.Active}
}

// ReplicatedMovement is broadcast to observers of a component so their simulated proxies can follow it.
type ReplicatedMovement struct {
	// EntityID identifies the replicated component among the ones an observer follows.
	EntityID uint32
	// ServerTime is the timestamp of the last move the server ran for the component.
	ServerTime float32
	Flags      flags.Flags
	Pos        mgl32.Vec3
	Vel        mgl32.Vec3
	Mode       movement.Mode
	Active     flags.Flags
}

func (*ReplicatedMovement) ID() uint8 {
	return IDReplicatedMovement
}

func (pk *ReplicatedMovement) Marshal(io mcprotocol.IO) {
	io.Varuint32(&pk.EntityID)
	io.Float32(&pk.ServerTime)
	byteOf(io, &pk.Flags)
	io.Vec3(&pk.Pos)
	io.Vec3(&pk.Vel)
	byteOf(io, &pk.Mode)
	byteOf(io, &pk.Active)
}

// State returns the replicated state carried by the packet.
func (pk *ReplicatedMovement) State() movement.State {
	return movement.State{Pos: pk.Pos, Vel: pk.Vel, Mode: pk.Mode, Active: pk.Active}
}

// byteOf reads or writes a single byte sized value through io.
func byteOf[T ~uint8](io mcprotocol.IO, x *T) {
	v := uint8(*x)
	io.Uint8(&v)
	*x = T(v)
}
