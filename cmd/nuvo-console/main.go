// Command nuvo-console is an interactive console for Nuvo multi-zone
// amplifiers.
//
// It connects to an amplifier through a serial-over-TCP bridge (ser2net,
// iTach Flex or similar) and exposes the full command surface of the
// controller as an interactive shell. A built-in demo mode runs against a
// simulated amplifier so the console can be explored without hardware.
//
// Usage:
//
//	nuvo-console [flags]
//
// Flags:
//
//	-config string    TOML configuration file path
//	-addr string      Bridge address (host:port)
//	-discover         Find a bridge via mDNS instead of -addr
//	-model string     Amplifier model: Grand_Concerto, Essentia_G
//	-timeout duration Reply timeout (default 1s)
//	-log-file string  Protocol log file (.nlog)
//	-verbose          Echo protocol events to stderr
//	-demo             Run against a simulated amplifier
//
// Examples:
//
//	# Connect to a ser2net bridge
//	nuvo-console -addr 192.168.1.50:4999
//
//	# Discover the bridge via mDNS and record a protocol log
//	nuvo-console -discover -log-file session.nlog
//
//	# Explore the console without hardware
//	nuvo-console -demo -model Essentia_G
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/nuvo-protocol/nuvo-go/cmd/nuvo-console/interactive"
	"github.com/nuvo-protocol/nuvo-go/internal/mockamp"
	"github.com/nuvo-protocol/nuvo-go/pkg/discovery"
	"github.com/nuvo-protocol/nuvo-go/pkg/log"
	"github.com/nuvo-protocol/nuvo-go/pkg/nuvo"
	"github.com/nuvo-protocol/nuvo-go/pkg/profile"
	"github.com/nuvo-protocol/nuvo-go/pkg/transport"
)

func main() {
	configFile := flag.String("config", "", "TOML configuration file path")
	addr := flag.String("addr", "", "Bridge address (host:port)")
	discover := flag.Bool("discover", false, "Find a bridge via mDNS instead of -addr")
	model := flag.String("model", "", "Amplifier model: Grand_Concerto, Essentia_G")
	timeout := flag.Duration("timeout", 0, "Reply timeout")
	logFile := flag.String("log-file", "", "Protocol log file (.nlog)")
	verbose := flag.Bool("verbose", false, "Echo protocol events to stderr")
	demo := flag.Bool("demo", false, "Run against a simulated amplifier")
	flag.Parse()

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly}).
		With().Timestamp().Logger()

	cfg := defaultConsoleConfig()
	if *configFile != "" {
		var err error
		cfg, err = loadConsoleConfig(*configFile)
		if err != nil {
			logger.Fatal().Err(err).Msg("invalid configuration")
		}
	}

	// Flags override the config file.
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "addr":
			cfg.Addr = *addr
		case "model":
			cfg.Model = *model
		case "timeout":
			cfg.Timeout = *timeout
		case "log-file":
			cfg.LogFile = *logFile
		case "verbose":
			cfg.Verbose = *verbose
		case "demo":
			cfg.Demo = *demo
		}
	})

	if !cfg.Demo && !*discover && cfg.Addr == "" {
		logger.Fatal().Msg("no bridge address: use -addr, -discover, -demo or a config file")
	}

	// Protocol event capture.
	protocolLog, closeLog, err := buildProtocolLogger(cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to open protocol log")
	}
	defer closeLog()

	ctrlConfig := nuvo.DefaultConfig(profile.Model(cfg.Model))
	ctrlConfig.Timeout = cfg.Timeout
	ctrlConfig.Logger = protocolLog

	ctrl, err := nuvo.NewController(ctrlConfig)
	if err != nil {
		logger.Fatal().Err(err).Msg("invalid controller configuration")
	}
	defer ctrl.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	conn, amp, err := openTransport(ctx, cfg, *discover, ctrl.Profile(), logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to open transport")
	}

	if err := ctrl.Connect(ctx, conn); err != nil {
		logger.Fatal().Err(err).Msg("failed to connect")
	}

	version := ctrl.Version()
	logger.Info().
		Str("model", version.Model).
		Str("firmware", version.FirmwareVersion).
		Msg("connected")

	console, err := interactive.New(ctrl, amp)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to start console")
	}

	console.Run(ctx, cancel)

	if err := ctrl.Disconnect(); err != nil {
		logger.Warn().Err(err).Msg("disconnect failed")
	}
}

// buildProtocolLogger assembles the protocol event capture chain from the
// configuration. The returned close function flushes the log file.
func buildProtocolLogger(cfg consoleConfig, logger zerolog.Logger) (log.Logger, func(), error) {
	var loggers []log.Logger
	closeLog := func() {}

	if cfg.LogFile != "" {
		fl, err := log.NewFileLogger(cfg.LogFile)
		if err != nil {
			return nil, nil, err
		}
		loggers = append(loggers, fl)
		closeLog = func() {
			if err := fl.Close(); err != nil {
				logger.Warn().Err(err).Msg("failed to close protocol log")
			}
		}
	}

	if cfg.Verbose {
		loggers = append(loggers, log.NewZerologAdapter(logger))
	}

	switch len(loggers) {
	case 0:
		return nil, closeLog, nil
	case 1:
		return loggers[0], closeLog, nil
	default:
		return log.NewMultiLogger(loggers...), closeLog, nil
	}
}

// openTransport opens the configured transport: a simulated amplifier in
// demo mode, a discovered bridge, or a direct bridge address. The returned
// amp is non-nil only in demo mode.
func openTransport(ctx context.Context, cfg consoleConfig, discover bool, p *profile.Profile, logger zerolog.Logger) (*transport.Conn, *mockamp.Amp, error) {
	if cfg.Demo {
		amp := mockamp.New(p)
		return transport.NewConn(mockamp.Pipe(amp), "demo"), amp, nil
	}

	addr := cfg.Addr
	if discover {
		bridge, err := findBridge(ctx, logger)
		if err != nil {
			return nil, nil, err
		}
		addr = bridge.Addr()
		logger.Info().Str("instance", bridge.InstanceName).Str("addr", addr).Msg("bridge found")
	}

	conn, err := transport.Dial(ctx, addr)
	if err != nil {
		return nil, nil, err
	}
	return conn, nil, nil
}

// findBridge browses for serial bridges and returns the first one found.
func findBridge(ctx context.Context, logger zerolog.Logger) (*discovery.Bridge, error) {
	browser := discovery.NewBrowser(discovery.DefaultBrowserConfig())
	defer browser.Stop()

	browseCtx, cancel := context.WithTimeout(ctx, discovery.BrowseTimeout)
	defer cancel()

	logger.Info().Msg("browsing for serial bridges...")
	bridges, err := browser.Browse(browseCtx)
	if err != nil {
		return nil, err
	}

	for bridge := range bridges {
		if bridge.Addr() != "" {
			return bridge, nil
		}
	}
	return nil, fmt.Errorf("no serial bridge found within %s", discovery.BrowseTimeout)
}
