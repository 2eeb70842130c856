package main

import (
	"fmt"
	"os"
	"time"

	"github.com/alecthomas/kong"
	"github.com/getsentry/sentry-go"
	"github.com/go-echarts/statsview"
	"github.com/go-echarts/statsview/viewer"
	"github.com/oomph-ac/predmove/config"
	"github.com/pelletier/go-toml"
	"github.com/sirupsen/logrus"
)

var CLI struct {
	Debug      bool   `help:"Whether to enable debug logging."`
	ConfigPath string `name:"config" help:"Path of the configuration file. It is created if it does not exist." default:"config.toml" type:"path"`
	Statsview  string `help:"Address to serve the runtime stats dashboard on. Disabled if empty."`

	Serve struct {
		Record string `help:"Directory to record every session's moves into." type:"path"`
	} `cmd:"" help:"Run the movement server."`

	Bot struct {
		Duration time.Duration `help:"How long the bot runs for." default:"10s"`
		Record   string        `help:"File to record the bot's moves into." type:"path"`
	} `cmd:"" help:"Connect a scripted client to a server."`

	Verify struct {
		Files []string `arg:"" name:"files" help:"Recordings to replay." type:"existingfile"`
	} `cmd:"" help:"Replay recordings and check that they are deterministic."`

	Config struct {
	} `cmd:"" help:"Write the default configuration to standard output."`
}

func writeError(err error) {
	fmt.Fprintf(os.Stderr, "%s\n", err)
	os.Exit(1)
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("predmove"),
		kong.Description("predicted character movement server and tools"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
			Summary: true,
		}))

	log := logrus.New()
	log.Formatter = &logrus.TextFormatter{ForceColors: true}
	log.Level = logrus.InfoLevel
	if CLI.Debug {
		log.Level = logrus.DebugLevel
		log.Warn("debug logging enabled")
	}

	if ctx.Command() == "config" {
		data, err := toml.Marshal(config.Default())
		if err != nil {
			writeError(err)
		}
		os.Stdout.Write(data)
		return
	}

	cfg, err := config.Load(CLI.ConfigPath)
	if err != nil {
		writeError(err)
	}

	if cfg.Sentry.DSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:         cfg.Sentry.DSN,
			Environment: cfg.Sentry.Environment,
		}); err != nil {
			log.Errorf("unable to initialize sentry: %v", err)
		}
		defer sentry.Flush(time.Second * 5)
	}

	if CLI.Statsview != "" {
		// set configurations before calling `statsview.New()` method
		viewer.SetConfiguration(viewer.WithTheme(viewer.ThemeWesteros), viewer.WithAddr(CLI.Statsview))

		mgr := statsview.New()
		go mgr.Start()
		defer mgr.Stop()
	}

	switch ctx.Command() {
	case "serve":
		err = serveCommand(log, cfg, CLI.Serve.Record)
	case "bot":
		err = botCommand(log, cfg, CLI.Bot.Duration, CLI.Bot.Record)
	case "verify <files>":
		err = verifyCommand(log, cfg, CLI.Verify.Files)
	}
	if err != nil {
		writeError(err)
	}
}
