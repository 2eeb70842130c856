package transport

import (
	"net"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/predmove/authority"
	"github.com/oomph-ac/predmove/game"
	"github.com/oomph-ac/predmove/movement"
	"github.com/oomph-ac/predmove/oerror"
	"github.com/oomph-ac/predmove/protocol"
	"github.com/oomph-ac/predmove/recording"
	"github.com/sandertv/go-raknet"
	"github.com/sirupsen/logrus"
	"go.uber.org/atomic"
)

// Client is an owning client connected to a server. It predicts its own component and follows every
// other component the server replicates to it through simulated proxies.
type Client struct {
	// Recorder receives every move when it is sent. Moves corrected after being sent are recorded as
	// they were predicted. It may be nil.
	Recorder *recording.Recorder

	log logrus.FieldLogger

	sess   *session
	client *movement.Client

	newProxy func() *movement.Component
	proxies  map[uint32]*authority.Proxy

	acks        atomic.Uint64
	corrections atomic.Uint64
}

// Dial connects to the server at address. c is the predicted component, newProxy creates the component
// of every replicated entity.
func Dial(address string, log logrus.FieldLogger, c *movement.Component, newProxy func() *movement.Component) (*Client, error) {
	conn, err := raknet.Dial(address)
	if err != nil {
		return nil, err
	}
	return NewClient(conn, log, c, newProxy), nil
}

// NewClient starts a client on an established connection.
func NewClient(conn net.Conn, log logrus.FieldLogger, c *movement.Component, newProxy func() *movement.Component) *Client {
	cl := &Client{
		log:      log,
		sess:     newSession(0, conn, log),
		client:   movement.NewClient(c),
		newProxy: newProxy,
		proxies:  make(map[uint32]*authority.Proxy),
	}
	go cl.sess.readLoop(nil)
	return cl
}

// Movement returns the predicting client.
func (cl *Client) Movement() *movement.Client {
	return cl.client
}

// Proxy returns the proxy following the entity with the given id.
func (cl *Client) Proxy(id uint32) (*authority.Proxy, bool) {
	p, ok := cl.proxies[id]
	return p, ok
}

// Acks returns the number of moves the server acknowledged.
func (cl *Client) Acks() uint64 {
	return cl.acks.Load()
}

// Corrections returns the number of corrections received from the server.
func (cl *Client) Corrections() uint64 {
	return cl.corrections.Load()
}

// Tick handles every packet received since the last tick, then predicts one tick with the given input
// and sends the resulting moves.
func (cl *Client) Tick(dt float32, input mgl32.Vec3) error {
	if err := cl.Poll(); err != nil {
		return err
	}
	for _, m := range cl.client.ReplicateMove(dt, input) {
		if err := cl.send(m); err != nil {
			return err
		}
	}
	for _, p := range cl.proxies {
		p.Tick(dt)
	}
	return nil
}

// Flush sends the move held back for combining, if any.
func (cl *Client) Flush() error {
	if m := cl.client.FlushPending(); m != nil {
		return cl.send(m)
	}
	return nil
}

// Poll handles every packet received so far without predicting. It returns an error once the
// connection is closed and every queued packet was handled.
func (cl *Client) Poll() error {
	for {
		select {
		case pk, ok := <-cl.sess.incoming:
			if !ok {
				return oerror.New(game.ErrorSessionClosed)
			}
			cl.handlePacket(pk)
		default:
			return nil
		}
	}
}

func (cl *Client) handlePacket(pk protocol.Packet) {
	switch pk := pk.(type) {
	case *protocol.ClientAckGoodMove:
		cl.acks.Inc()
		cl.client.AckMove(pk.Timestamp)
	case *protocol.ClientAdjustPosition:
		cl.corrections.Inc()
		cl.log.Debugf("correction at %f (pos=%v mode=%s)", pk.Timestamp, pk.Pos, pk.Mode)
		cl.client.Correct(pk.Timestamp, pk.State())
	case *protocol.ReplicatedMovement:
		p, ok := cl.proxies[pk.EntityID]
		if !ok {
			p = authority.NewProxy(cl.newProxy())
			cl.proxies[pk.EntityID] = p
		}
		p.HandleReplicatedMovement(pk)
	default:
		cl.log.Debugf("unexpected %T from server", pk)
	}
}

func (cl *Client) send(m *movement.SavedMove) error {
	if cl.Recorder != nil {
		if err := cl.Recorder.Record(m); err != nil {
			cl.log.Errorf("unable to record move: %v", err)
		}
	}
	return cl.sess.WritePacket(&protocol.ServerMove{
		Timestamp:    m.Timestamp,
		DeltaTime:    m.DeltaTime,
		Acceleration: m.Acceleration,
		Flags:        m.CompressedFlags(),
		ClientLoc:    m.End.Pos,
		ClientMode:   m.End.Mode,
	})
}

// Close closes the connection.
func (cl *Client) Close() error {
	cl.sess.stop()
	return cl.sess.conn.Close()
}
