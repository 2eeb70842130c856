package main

import (
	"os"
	"time"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/predmove/config"
	"github.com/oomph-ac/predmove/movement"
	"github.com/oomph-ac/predmove/recording"
	"github.com/oomph-ac/predmove/transport"
	"github.com/sirupsen/logrus"
)

// botOwner logs the transitions of the bot's modifiers.
type botOwner struct {
	log logrus.FieldLogger
}

func (o botOwner) OnStartStrafe() { o.log.Info("started strafing") }
func (o botOwner) OnEndStrafe()   { o.log.Info("stopped strafing") }
func (o botOwner) OnStartProne()  { o.log.Info("went prone") }
func (o botOwner) OnEndProne()    { o.log.Info("got up") }

func botCommand(log *logrus.Logger, cfg config.Config, duration time.Duration, recordFile string) error {
	w := cfg.NewWorld()
	owner := botOwner{log: log}
	c, p, s := cfg.NewComponent(w, owner, owner)
	c.Debugf = log.Debugf

	cl, err := transport.Dial(cfg.Network.Address, log, c, func() *movement.Component {
		proxy, _, _ := cfg.NewComponent(w, nil, nil)
		return proxy
	})
	if err != nil {
		return err
	}
	defer cl.Close()

	if recordFile != "" {
		f, err := os.OpenFile(recordFile, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0644)
		if err != nil {
			return err
		}
		defer f.Close()
		if cl.Recorder, err = recording.NewRecorder(f, recording.Header{
			Movement: cfg.Movement,
			Prone:    cfg.Prone,
			Strafe:   cfg.Strafe,
			Start:    c.State(),
		}); err != nil {
			return err
		}
	}

	dt := cfg.TickDelta()
	ticker := time.NewTicker(time.Second / time.Duration(cfg.Network.TickRate))
	defer ticker.Stop()

	var elapsed float32
	for start := time.Now(); time.Since(start) < duration; <-ticker.C {
		elapsed += dt

		// Walk in a slow circle, strafing for two seconds out of every four and going prone for one
		// second out of every seven.
		yaw := elapsed * 0.5
		s.SetWantsToStrafe(math32.Mod(elapsed, 4) >= 2)
		p.SetWantsToProne(math32.Mod(elapsed, 7) >= 6)

		if err := cl.Tick(dt, mgl32.Vec3{math32.Cos(yaw), math32.Sin(yaw), 0}); err != nil {
			return err
		}
	}
	if err := cl.Flush(); err != nil {
		return err
	}

	log.Infof("bot finished (pos=%v acks=%d corrections=%d)", c.Pos(), cl.Acks(), cl.Corrections())
	return nil
}
