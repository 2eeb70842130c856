// Package config holds the user configuration of the predmove binary, stored as TOML.
package config

import (
	"os"
	"time"

	"github.com/oomph-ac/predmove/modifier/prone"
	"github.com/oomph-ac/predmove/modifier/strafe"
	"github.com/oomph-ac/predmove/movement"
	"github.com/oomph-ac/predmove/oerror"
	"github.com/oomph-ac/predmove/world"
	"github.com/pelletier/go-toml"
)

type Config struct {
	Network struct {
		// Address is the address the server listens on and the bot connects to.
		Address string `toml:"address"`
		// ReplicationRate is the number of times per second the server replicates each session.
		ReplicationRate int `toml:"replication_rate"`
		// TickRate is the number of moves per second the bot simulates.
		TickRate int `toml:"tick_rate"`
	} `toml:"network"`
	World struct {
		// FloorZ is the height of the flat floor every component walks on.
		FloorZ float32 `toml:"floor_z"`
		// Size is the half extent of the floor.
		Size float32 `toml:"size"`
	} `toml:"world"`
	Movement movement.Tunables `toml:"movement"`
	Prone    prone.Tunables    `toml:"prone"`
	Strafe   strafe.Tunables   `toml:"strafe"`
	Sentry   struct {
		// DSN is the sentry project to report panics to. Reporting is disabled while it is empty.
		DSN         string `toml:"dsn"`
		Environment string `toml:"environment"`
	} `toml:"sentry"`
}

// Default returns the default configuration.
func Default() Config {
	c := Config{
		Movement: movement.DefaultTunables(),
		Prone:    prone.DefaultTunables(),
		Strafe:   strafe.DefaultTunables(),
	}
	c.Network.Address = ":19133"
	c.Network.ReplicationRate = 20
	c.Network.TickRate = 60
	c.World.Size = 100000
	c.Sentry.Environment = "development"
	return c
}

// Load reads the configuration from the file at path, or creates the file with the default
// configuration if it does not yet exist.
func Load(path string) (Config, error) {
	c := Default()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		data, err := toml.Marshal(c)
		if err != nil {
			return c, oerror.New("encode default config: %v", err)
		}
		if err := os.WriteFile(path, data, 0644); err != nil {
			return c, oerror.New("create default config: %v", err)
		}
		return c, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return c, oerror.New("read config: %v", err)
	}
	if err := toml.Unmarshal(data, &c); err != nil {
		return c, oerror.New("decode config: %v", err)
	}
	return c, c.Validate()
}

// Validate returns an error if the configuration cannot be used.
func (c Config) Validate() error {
	if c.Network.ReplicationRate <= 0 || c.Network.TickRate <= 0 {
		return oerror.New("config: network rates must be positive")
	}
	if c.Movement.CapsuleRadius <= 0 || c.Movement.CapsuleHalfHeight <= 0 {
		return oerror.New("config: capsule dimensions must be positive")
	}
	if c.Prone.HalfHeight <= 0 || c.Prone.HalfHeight > c.Movement.CapsuleHalfHeight {
		return oerror.New("config: prone half height must be in (0, %f]", c.Movement.CapsuleHalfHeight)
	}
	return nil
}

// ReplicationInterval returns the interval between two replications of a session.
func (c Config) ReplicationInterval() time.Duration {
	return time.Second / time.Duration(c.Network.ReplicationRate)
}

// TickDelta returns the delta time of a single bot move in seconds.
func (c Config) TickDelta() float32 {
	return 1 / float32(c.Network.TickRate)
}

// NewWorld returns the world described by the configuration.
func (c Config) NewWorld() *world.World {
	return world.Flat(c.World.FloorZ, c.World.Size)
}

// NewComponent returns a component on w with a prone and a strafe modifier configured from c. The
// owners may be nil.
func (c Config) NewComponent(w *world.World, proneOwner prone.Owner, strafeOwner strafe.Owner) (*movement.Component, *prone.Movement, *strafe.Movement) {
	p := prone.New(c.Prone, proneOwner)
	s := strafe.New(c.Strafe, strafeOwner)
	return movement.NewComponent(c.Movement, w, w, p, s), p, s
}
