package authority

import (
	"github.com/oomph-ac/predmove/game"
	"github.com/oomph-ac/predmove/movement"
	"github.com/oomph-ac/predmove/protocol"
)

// Proxy follows a component simulated elsewhere. Between replicated updates it extrapolates the last
// known state using the replicated intents. Modifier transitions run as client simulation, so owners are
// never notified by a proxy.
type Proxy struct {
	c *movement.Component

	serverTime float32
	received   bool
}

// NewProxy returns a proxy driving c, switching it to the simulated proxy role.
func NewProxy(c *movement.Component) *Proxy {
	c.Role = movement.RoleSimulatedProxy
	return &Proxy{c: c}
}

// Component returns the proxied component.
func (p *Proxy) Component() *movement.Component {
	return p.c
}

// HandleReplicatedMovement applies a replicated state. Updates older than the last applied one are
// ignored, since datagrams may arrive out of order.
func (p *Proxy) HandleReplicatedMovement(pk *protocol.ReplicatedMovement) {
	if p.received && pk.ServerTime < p.serverTime {
		return
	}
	p.serverTime, p.received = pk.ServerTime, true

	p.c.SetState(pk.State())
	p.c.UpdateFromCompressedFlags(pk.Flags)
}

// Tick extrapolates the proxied component by dt. The acceleration is assumed to point along the
// horizontal velocity, which keeps a moving proxy at speed without inventing turns.
func (p *Proxy) Tick(dt float32) {
	if !p.received {
		return
	}
	c := p.c
	accel := game.SafeNormal(game.Horizontal(c.Vel())).Mul(c.MaxAcceleration())
	c.Move(dt, accel)
}
