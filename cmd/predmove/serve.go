package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/oomph-ac/predmove/authority"
	"github.com/oomph-ac/predmove/config"
	"github.com/oomph-ac/predmove/movement"
	"github.com/oomph-ac/predmove/recording"
	"github.com/oomph-ac/predmove/transport"
	"github.com/sirupsen/logrus"
)

// statsInterval is how often the server logs its counters.
const statsInterval = 30 * time.Second

func serveCommand(log *logrus.Logger, cfg config.Config, recordDir string) error {
	w := cfg.NewWorld()
	srv := transport.NewServer(log, func() *movement.Component {
		c, _, _ := cfg.NewComponent(w, nil, nil)
		c.Debugf = log.Debugf
		return c
	})
	srv.ReplicationInterval = cfg.ReplicationInterval()

	if recordDir != "" {
		if err := os.MkdirAll(recordDir, 0755); err != nil {
			return err
		}
		srv.OnSession = func(id uint32, a *authority.Authority) func() {
			return recordSession(log, cfg, filepath.Join(recordDir, fmt.Sprintf("session-%d-%d.rec", id, time.Now().Unix())), a)
		}
	}

	if err := srv.Listen(cfg.Network.Address); err != nil {
		return err
	}

	go func() {
		t := time.NewTicker(statsInterval)
		defer t.Stop()
		for range t.C {
			st := srv.Stats()
			log.Infof("sessions=%d moves=%d corrections=%d malformed=%d", st.Sessions, st.MovesHandled, st.Corrections, st.Malformed)
		}
	}()

	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
		<-sig
		log.Info("shutting down")
		_ = srv.Close()
	}()

	return srv.Serve()
}

// recordSession starts recording the moves a runs into file, and returns the function closing the
// recording.
func recordSession(log logrus.FieldLogger, cfg config.Config, file string, a *authority.Authority) func() {
	f, err := os.OpenFile(file, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0644)
	if err != nil {
		log.Errorf("unable to open recording file: %v", err)
		return nil
	}
	r, err := recording.NewRecorder(f, recording.Header{
		Movement: cfg.Movement,
		Prone:    cfg.Prone,
		Strafe:   cfg.Strafe,
		Start:    a.Component().State(),
	})
	if err != nil {
		log.Errorf("unable to start recording: %v", err)
		_ = f.Close()
		return nil
	}
	a.Recorder = r
	log.Infof("recording session to %s", file)

	return func() {
		_ = f.Close()
		log.Infof("recorded %d moves to %s", r.Frames(), file)
	}
}
