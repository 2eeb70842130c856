// Package transport carries movement packets over raknet. Every packet is a single datagram. Network
// goroutines only decode and queue packets; components are only ever touched by the goroutine that
// owns them.
package transport

import (
	"net"
	"time"

	"github.com/oomph-ac/predmove/authority"
	"github.com/oomph-ac/predmove/movement"
	"github.com/oomph-ac/predmove/protocol"
	"github.com/sandertv/go-raknet"
	"github.com/sasha-s/go-deadlock"
	"github.com/sirupsen/logrus"
	"go.uber.org/atomic"
)

const (
	// DefaultReplicationInterval is how often the state of every session is replicated to the others.
	DefaultReplicationInterval = time.Second / 20

	// maxDatagramSize bounds the size of a single received packet.
	maxDatagramSize = 1500
	// queueSize is the number of decoded packets a session buffers before the reader blocks.
	queueSize = 256
)

// Stats is a snapshot of the counters of a server.
type Stats struct {
	Sessions     int
	MovesHandled uint64
	Corrections  uint64
	Malformed    uint64
}

// Server accepts owning clients and runs an authority for each of them.
type Server struct {
	log          logrus.FieldLogger
	newComponent func() *movement.Component

	// ReplicationInterval is how often sessions replicate their state to each other.
	ReplicationInterval time.Duration
	// OnSession is called with the authority of every new session before it handles any packet. The
	// function it returns, if not nil, is called once the session closes. OnSession may be nil.
	OnSession func(id uint32, a *authority.Authority) (closed func())

	listener net.Listener

	sessions map[uint32]*session
	deadlock.RWMutex

	nextID       atomic.Uint32
	movesHandled atomic.Uint64
	corrections  atomic.Uint64
	malformed    atomic.Uint64
	closed       atomic.Bool
}

// NewServer returns a server creating each session's component with newComponent.
func NewServer(log logrus.FieldLogger, newComponent func() *movement.Component) *Server {
	return &Server{
		log:                 log,
		newComponent:        newComponent,
		ReplicationInterval: DefaultReplicationInterval,
		sessions:            make(map[uint32]*session),
	}
}

// Listen starts listening for raknet connections on address.
func (s *Server) Listen(address string) error {
	l, err := raknet.Listen(address)
	if err != nil {
		return err
	}
	s.listener = l
	s.log.Infof("listening on %s", l.Addr())
	return nil
}

// Serve accepts connections until the server is closed.
func (s *Server) Serve() error {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			if s.closed.Load() {
				return nil
			}
			return err
		}
		go s.Handle(conn)
	}
}

// Handle runs a session on conn until it is closed. It blocks.
func (s *Server) Handle(conn net.Conn) {
	id := s.nextID.Inc()
	log := s.log.WithField("session", id)
	defer recoverSession(log, "server", id)

	a := authority.New(s.newComponent(), log)
	if s.OnSession != nil {
		if closed := s.OnSession(id, a); closed != nil {
			defer closed()
		}
	}
	sess := newSession(id, conn, log)

	s.Lock()
	s.sessions[id] = sess
	s.Unlock()
	log.Infof("session started (addr=%v)", conn.RemoteAddr())

	defer func() {
		s.Lock()
		delete(s.sessions, id)
		s.Unlock()
		sess.stop()
		_ = conn.Close()
		log.Infof("session closed (corrections=%d)", a.Corrections())
	}()

	go sess.readLoop(&s.malformed)

	ticker := time.NewTicker(s.ReplicationInterval)
	defer ticker.Stop()
	for {
		select {
		case pk, ok := <-sess.incoming:
			if !ok {
				return
			}
			s.handlePacket(sess, a, pk)
		case <-ticker.C:
			if pk, ok := a.Replicate(); ok {
				pk.EntityID = id
				s.broadcast(id, pk)
			}
		}
	}
}

func (s *Server) handlePacket(sess *session, a *authority.Authority, pk protocol.Packet) {
	move, ok := pk.(*protocol.ServerMove)
	if !ok {
		sess.log.Debugf("unexpected %T from client", pk)
		return
	}

	reply, err := a.HandleServerMove(move)
	if err != nil {
		sess.log.Debugf("dropped move: %v", err)
		return
	}
	s.movesHandled.Inc()
	if _, adjust := reply.(*protocol.ClientAdjustPosition); adjust {
		s.corrections.Inc()
	}
	if err := sess.WritePacket(reply); err != nil {
		sess.log.Debugf("unable to write %T: %v", reply, err)
	}
}

// broadcast writes pk to every session except the one with the id from.
func (s *Server) broadcast(from uint32, pk protocol.Packet) {
	s.RLock()
	targets := make([]*session, 0, len(s.sessions))
	for id, sess := range s.sessions {
		if id != from {
			targets = append(targets, sess)
		}
	}
	s.RUnlock()

	for _, sess := range targets {
		if err := sess.WritePacket(pk); err != nil {
			sess.log.Debugf("unable to replicate to session: %v", err)
		}
	}
}

// Stats returns the current counters of the server.
func (s *Server) Stats() Stats {
	s.RLock()
	n := len(s.sessions)
	s.RUnlock()

	return Stats{
		Sessions:     n,
		MovesHandled: s.movesHandled.Load(),
		Corrections:  s.corrections.Load(),
		Malformed:    s.malformed.Load(),
	}
}

// Close stops the listener and closes every session.
func (s *Server) Close() error {
	s.closed.Store(true)

	s.RLock()
	for _, sess := range s.sessions {
		_ = sess.conn.Close()
	}
	s.RUnlock()

	if s.listener != nil {
		return s.listener.Close()
	}
	return nil
}
