// Command minka sends one command to a Minka Aire ceiling fan receiver.
//
//	minka --cmd off
//	minka --cmd light2 --profile dual --max --sw8 1111
//	minka --radio emulator --debug --cmd fast
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/radio-control/minka/internal/audit"
	"github.com/radio-control/minka/internal/config"
	"github.com/radio-control/minka/internal/logging"
	"github.com/radio-control/minka/internal/protocol"
	"github.com/radio-control/minka/internal/radio"
	"github.com/radio-control/minka/internal/transmit"
)

// Exit codes.
const (
	exitOK      = 0
	exitFailure = 1 // radio or audit failure
	exitUsage   = 2 // bad flags, configuration, command or switch setting
)

func main() {
	a := &app{
		stdout:     os.Stdout,
		stderr:     os.Stderr,
		newManager: radio.NewManager,
	}
	os.Exit(a.run(os.Args[1:]))
}

type app struct {
	stdout     io.Writer
	stderr     io.Writer
	newManager func(log logrus.FieldLogger) *radio.Manager
}

type options struct {
	cmd        string
	configPath string
	debug      bool
	list       bool

	// Overrides, applied only when the flag is given.
	maxPower bool
	sw8      string
	sw9      string
	profile  string
	backend  string
	freqHz   int64
}

func parseFlags(args []string, stderr io.Writer) (*options, map[string]bool, error) {
	fs := flag.NewFlagSet("minka", flag.ContinueOnError)
	fs.SetOutput(stderr)

	o := &options{}
	fs.StringVar(&o.cmd, "cmd", "", "command to send: off, slow, medium, fast, light (single) or light1, light2 (dual)")
	fs.BoolVar(&o.debug, "debug", false, "enable debugging output")
	fs.BoolVar(&o.maxPower, "max", false, "transmit at maximum power")
	fs.StringVar(&o.sw8, "sw8", "", "SW8 jumpers as 4 bits (0000) or 12 symbol characters")
	fs.StringVar(&o.sw9, "sw9", "", "SW9 jumpers as 4 bits (0011) or 12 symbol characters")
	fs.StringVar(&o.configPath, "config", "", "YAML configuration file (default $"+config.EnvConfigFile+")")
	fs.StringVar(&o.profile, "profile", "", "receiver profile: single or dual")
	fs.StringVar(&o.backend, "radio", "", "radio backend: cc1101 or emulator")
	fs.Int64Var(&o.freqHz, "freq", 0, "carrier frequency in Hz, overriding the profile")
	fs.BoolVar(&o.list, "list", false, "list the profile's commands and exit")

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	if fs.NArg() > 0 {
		return nil, nil, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	return o, set, nil
}

// applyFlags overlays the flags that were given onto cfg.
func applyFlags(cfg *config.Config, o *options, set map[string]bool) {
	if set["max"] {
		cfg.Radio.MaxPower = o.maxPower
	}
	if set["sw8"] {
		cfg.Switches.SW8 = o.sw8
	}
	if set["sw9"] {
		cfg.Switches.SW9 = o.sw9
	}
	if set["profile"] {
		cfg.Radio.Profile = o.profile
	}
	if set["radio"] {
		cfg.Radio.Backend = o.backend
	}
	if set["freq"] {
		cfg.Radio.FrequencyHz = o.freqHz
	}
}

func (a *app) run(args []string) int {
	o, set, err := parseFlags(args, a.stderr)
	if errors.Is(err, flag.ErrHelp) {
		return exitOK
	}
	if err != nil {
		fmt.Fprintf(a.stderr, "minka: %v\n", err)
		return exitUsage
	}

	cfg, err := config.Load(o.configPath)
	if err != nil {
		fmt.Fprintf(a.stderr, "minka: %v\n", err)
		return exitUsage
	}
	applyFlags(cfg, o, set)

	logger, closeLog, err := logging.Setup(logging.Options{
		Level:      cfg.Logging.Level,
		Debug:      o.debug,
		Output:     a.stderr,
		File:       cfg.Logging.File,
		MaxSizeMB:  cfg.Logging.MaxSizeMB,
		MaxBackups: cfg.Logging.MaxBackups,
		MaxAgeDays: cfg.Logging.MaxAgeDays,
	})
	if err != nil {
		fmt.Fprintf(a.stderr, "minka: %v\n", err)
		return exitUsage
	}
	defer func() { _ = closeLog() }()

	if err := config.Validate(cfg); err != nil {
		logger.WithError(err).Error("invalid configuration")
		return exitUsage
	}

	profile, _ := cfg.ReceiverProfile()
	if o.list {
		for _, name := range profile.Names() {
			fmt.Fprintln(a.stdout, name)
		}
		return exitOK
	}

	if o.cmd == "" {
		logger.Error("--cmd is required")
		return exitUsage
	}
	cmd, err := profile.Lookup(o.cmd)
	if err != nil {
		logger.WithField("profile", profile.String()).Errorf("%s is invalid.", o.cmd)
		return exitUsage
	}
	sw8, sw9, _ := cfg.SwitchNibbles()
	packet := protocol.NewPacket(sw8, sw9, cmd)

	driverOpts := transmit.Options{
		Profile:     profile,
		FrequencyHz: cfg.Radio.FrequencyHz,
		MaxPower:    cfg.Radio.MaxPower,
		Logger:      logger,
	}
	if cfg.Audit.Enabled {
		auditLogger, err := audit.NewLogger(audit.Options{
			Dir:        cfg.Audit.Dir,
			MaxSizeMB:  cfg.Audit.MaxSizeMB,
			MaxBackups: cfg.Audit.MaxBackups,
			Logger:     logger,
		})
		if err != nil {
			logger.WithError(err).Error("failed to initialize audit logger")
			return exitFailure
		}
		defer func() { _ = auditLogger.Close() }()
		driverOpts.Audit = auditLogger
	}

	logger.WithFields(logrus.Fields{
		"cmd":     o.cmd,
		"sw8":     sw8.String(),
		"sw9":     sw9.String(),
		"profile": profile.String(),
	}).Info("sending command")

	r, err := a.newManager(logger).Open(cfg)
	if err != nil {
		logger.WithError(err).Error("failed to open radio")
		return exitFailure
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := transmit.NewDriver(r, driverOpts).Send(ctx, packet); err != nil {
		return exitFailure
	}
	return exitOK
}
