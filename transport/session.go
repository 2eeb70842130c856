package transport

import (
	"net"

	"github.com/oomph-ac/predmove/game"
	"github.com/oomph-ac/predmove/oerror"
	"github.com/oomph-ac/predmove/protocol"
	"github.com/sirupsen/logrus"
	"go.uber.org/atomic"
)

// session is one connection and the queue of packets decoded from it.
type session struct {
	id   uint32
	conn net.Conn
	log  logrus.FieldLogger

	incoming chan protocol.Packet
	closed   atomic.Bool

	done    chan struct{}
	stopped atomic.Bool
}

func newSession(id uint32, conn net.Conn, log logrus.FieldLogger) *session {
	return &session{
		id:       id,
		conn:     conn,
		log:      log,
		incoming: make(chan protocol.Packet, queueSize),
		done:     make(chan struct{}),
	}
}

// readLoop decodes datagrams from the connection into the incoming queue until the connection fails or
// the session is stopped, then closes the queue. Malformed datagrams are counted and skipped.
func (sess *session) readLoop(malformed *atomic.Uint64) {
	defer recoverSession(sess.log, "reader", sess.id)
	defer close(sess.incoming)

	buf := make([]byte, maxDatagramSize)
	for {
		n, err := sess.conn.Read(buf)
		if err != nil {
			sess.closed.Store(true)
			return
		}
		pk, err := protocol.Decode(buf[:n])
		if err != nil {
			if malformed != nil {
				malformed.Inc()
			}
			sess.log.Debugf("malformed datagram: %v", err)
			continue
		}
		select {
		case sess.incoming <- pk:
		case <-sess.done:
			return
		}
	}
}

// stop marks the session closed and releases a reader blocked on a full queue. It may be called more
// than once.
func (sess *session) stop() {
	sess.closed.Store(true)
	if sess.stopped.CompareAndSwap(false, true) {
		close(sess.done)
	}
}

// WritePacket encodes pk and writes it as a single datagram.
func (sess *session) WritePacket(pk protocol.Packet) error {
	if sess.closed.Load() {
		return oerror.New(game.ErrorSessionClosed)
	}
	_, err := sess.conn.Write(protocol.Encode(pk))
	return err
}
