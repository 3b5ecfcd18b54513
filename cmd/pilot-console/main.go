// Command pilot-console runs a ranging host with a simulated UWB stack.
//
// It accepts accessory control links, drives the configuration handshake
// per device and prints live readings. Without UWB hardware the ranging
// side is simulated; accessories (real or simulated with
// pilot-accessory) connect over TCP.
//
// Usage:
//
//	pilot-console [flags]
//
// Flags:
//
//	-config string        Configuration file path (YAML)
//	-listen string        Control-link listen address (default ":5554")
//	-name string          Host display name for discovery (default "pilot-host")
//	-advertise            Advertise the host over mDNS
//	-protocol-log string  Write CBOR protocol events to this file
//	-log-level string     Log level: debug, info, warn, error (default "info")
//	-interactive          Enable the interactive console
//
// Interactive commands:
//
//	devices              - List connected devices and their states
//	readings             - Show the latest reading per device
//	reading <device>     - Show one device's reading
//	stop <device>        - Ask the device's accessory to stop ranging
//	disconnect <device>  - Close the device's session
//	status               - Show host status
//	quit                 - Exit
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/pilot-uwb/pilot-go/cmd/pilot-console/interactive"
	"github.com/pilot-uwb/pilot-go/pkg/discovery"
	"github.com/pilot-uwb/pilot-go/pkg/engine"
	"github.com/pilot-uwb/pilot-go/pkg/examples"
	"github.com/pilot-uwb/pilot-go/pkg/log"
	"github.com/pilot-uwb/pilot-go/pkg/transport"
)

type options struct {
	configFile  string
	listen      string
	name        string
	advertise   bool
	protocolLog string
	logLevel    string
	interactive bool
}

func main() {
	var opts options
	flag.StringVar(&opts.configFile, "config", "", "Configuration file path (YAML)")
	flag.StringVar(&opts.listen, "listen", "", "Control-link listen address")
	flag.StringVar(&opts.name, "name", "pilot-host", "Host display name for discovery")
	flag.BoolVar(&opts.advertise, "advertise", false, "Advertise the host over mDNS")
	flag.StringVar(&opts.protocolLog, "protocol-log", "", "Write CBOR protocol events to this file")
	flag.StringVar(&opts.logLevel, "log-level", "info", "Log level: debug, info, warn, error")
	flag.BoolVar(&opts.interactive, "interactive", false, "Enable the interactive console")
	flag.Parse()

	if err := run(opts); err != nil {
		fmt.Fprintf(os.Stderr, "pilot-console: %v\n", err)
		os.Exit(1)
	}
}

func run(opts options) error {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: parseLogLevel(opts.logLevel),
	}))

	cfg := engine.DefaultConfig()
	if opts.configFile != "" {
		loaded, err := engine.LoadConfig(opts.configFile)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	if opts.listen != "" {
		cfg.ListenAddress = opts.listen
	}
	if opts.protocolLog != "" {
		cfg.ProtocolLogPath = opts.protocolLog
	}

	var protocol log.Logger = log.NoopLogger{}
	if cfg.ProtocolLogPath != "" {
		fileLogger, err := log.NewFileLogger(cfg.ProtocolLogPath)
		if err != nil {
			return fmt.Errorf("failed to open protocol log: %w", err)
		}
		defer fileLogger.Close()
		protocol = fileLogger
	}

	server := transport.NewServer(transport.ServerConfig{
		Address:        cfg.ListenAddress,
		Logger:         logger,
		ProtocolLogger: protocol,
	})

	rangingEngine := examples.NewSimulatedRangingEngine()
	defer rangingEngine.Close()

	e := engine.New(cfg, server, rangingEngine)
	e.SetLogger(logger)
	e.SetProtocolLogger(protocol)
	e.SetHeadingProvider(engine.FixedHeading(0))

	if err := e.Start(); err != nil {
		return err
	}
	defer e.Close()

	logger.Info("host started", "listen", server.Addr())

	if opts.advertise {
		advertiser := discovery.NewAdvertiser(discovery.DefaultAdvertiserConfig())
		port := uint16(transport.DefaultPort)
		if tcpAddr, ok := server.Addr().(*net.TCPAddr); ok {
			port = uint16(tcpAddr.Port)
		}
		err := advertiser.Advertise(&discovery.HostInfo{
			InstanceName: opts.name,
			Name:         opts.name,
			Port:         port,
			MaxSessions:  cfg.MaxSessions,
		})
		if err != nil {
			logger.Warn("mDNS advertising failed", "error", err)
		} else {
			defer advertiser.Stop()
			logger.Info("advertising host", "name", opts.name)
		}
	}

	if opts.interactive {
		console, err := interactive.New(e, opts.name)
		if err != nil {
			return err
		}
		console.Run()
		return nil
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	logger.Info("shutting down")
	return nil
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
