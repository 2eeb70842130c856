package main

import (
	"sync"

	"github.com/oomph-ac/predmove/config"
	"github.com/oomph-ac/predmove/oerror"
	"github.com/oomph-ac/predmove/recording"
	"github.com/oomph-ac/predmove/worker"
	"github.com/sirupsen/logrus"
)

func verifyCommand(log *logrus.Logger, cfg config.Config, files []string) error {
	pool := worker.New(0)
	defer pool.Close()

	var (
		mu     sync.Mutex
		failed int
	)
	for _, file := range files {
		pool.Submit(func() {
			l := log.WithField("file", file)
			if err := verifyFile(cfg, file); err != nil {
				l.Errorf("verification failed: %v", err)
				mu.Lock()
				failed++
				mu.Unlock()
				return
			}
			l.Info("recording replays deterministically")
		})
	}
	pool.Wait()

	if failed > 0 {
		return oerror.New("%d of %d recordings failed verification", failed, len(files))
	}
	return nil
}

// verifyFile replays the recording in file on a component set up with the recorded tunables, in the
// world described by cfg.
func verifyFile(cfg config.Config, file string) error {
	rec, err := recording.DecodeFile(file)
	if err != nil {
		return err
	}

	cfg.Movement = rec.Header.Movement
	cfg.Prone = rec.Header.Prone
	cfg.Strafe = rec.Header.Strafe
	c, _, _ := cfg.NewComponent(cfg.NewWorld(), nil, nil)
	return rec.Verify(c)
}
