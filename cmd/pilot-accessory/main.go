// Command pilot-accessory runs a simulated UWB accessory.
//
// It connects to a ranging host over the control link and answers the
// configuration handshake the way accessory firmware would. The host is
// given explicitly with -host or found over mDNS with -browse.
//
// Usage:
//
//	pilot-accessory [flags]
//
// Flags:
//
//	-host string        Host address (e.g. "192.168.1.10:5554")
//	-browse             Discover the host over mDNS instead of -host
//	-address string     Accessory address identifier (default random)
//	-name string        Accessory display name (default "pilot-tag")
//	-capability string  Angle capability: full or horizontal (default "full")
//	-rate int           Preferred sample rate in milliseconds
//	-log-level string   Log level: debug, info, warn, error (default "info")
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/pilot-uwb/pilot-go/pkg/discovery"
	"github.com/pilot-uwb/pilot-go/pkg/examples"
	"github.com/pilot-uwb/pilot-go/pkg/ranging"
)

const browseTimeout = 10 * time.Second

func main() {
	var (
		host       string
		browse     bool
		address    string
		name       string
		capability string
		rate       int
		logLevel   string
	)
	flag.StringVar(&host, "host", "", "Host address (e.g. \"192.168.1.10:5554\")")
	flag.BoolVar(&browse, "browse", false, "Discover the host over mDNS instead of -host")
	flag.StringVar(&address, "address", "", "Accessory address identifier (default random)")
	flag.StringVar(&name, "name", "pilot-tag", "Accessory display name")
	flag.StringVar(&capability, "capability", "full", "Angle capability: full or horizontal")
	flag.IntVar(&rate, "rate", 0, "Preferred sample rate in milliseconds")
	flag.StringVar(&logLevel, "log-level", "info", "Log level: debug, info, warn, error")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: parseLogLevel(logLevel),
	}))

	if err := run(host, browse, address, name, capability, rate, logger); err != nil &&
		!errors.Is(err, context.Canceled) {
		fmt.Fprintf(os.Stderr, "pilot-accessory: %v\n", err)
		os.Exit(1)
	}
}

func run(host string, browse bool, address, name, capability string, rate int, logger *slog.Logger) error {
	angleCap, err := parseCapability(capability)
	if err != nil {
		return err
	}
	if address == "" {
		address = uuid.NewString()
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if browse {
		host, err = discoverHost(ctx, logger)
		if err != nil {
			return err
		}
	}
	if host == "" {
		return fmt.Errorf("no host given, use -host or -browse")
	}

	logger.Info("connecting to host", "host", host, "address", address, "capability", angleCap)

	return examples.RunAccessory(ctx, host, examples.AccessoryConfig{
		Address:               address,
		Name:                  name,
		Capability:            angleCap,
		PreferredUpdateRateMs: uint16(rate),
		Logger:                logger,
	})
}

func discoverHost(ctx context.Context, logger *slog.Logger) (string, error) {
	logger.Info("browsing for ranging hosts")
	browser := discovery.NewBrowser(discovery.BrowserConfig{})
	service, err := browser.FindFirst(ctx, browseTimeout)
	if err != nil {
		return "", fmt.Errorf("host discovery failed: %w", err)
	}
	logger.Info("found host", "name", service.Name, "addr", service.Addr())
	return service.Addr(), nil
}

func parseCapability(s string) (ranging.Capability, error) {
	switch s {
	case "full":
		return ranging.CapabilityFullDirection, nil
	case "horizontal":
		return ranging.CapabilityHorizontalAngleOnly, nil
	default:
		return 0, fmt.Errorf("unknown capability %q, want full or horizontal", s)
	}
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
