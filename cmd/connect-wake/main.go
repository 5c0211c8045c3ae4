// Command connect-wake installs a previously captured credential on a
// Spotify Connect receiver, logging it into the captured account and
// pulling it out of standby.
//
// The credential must have been captured by connect-receiver using the
// same state file; the identity stored at capture time is part of the
// credential's key material, so the two commands must share state.
//
// Usage:
//
//	connect-wake [flags] <name-or-host>
//
// Flags:
//
//	-state string      State file path (default "connect-state.json")
//	-port int          Receiver port, skips discovery when set with a host
//	-path string       Handshake path hint (probed first)
//	-timeout duration  Discovery wait before giving up (default 10s)
//	-log-level string  Log level: debug, info, warn, error (default "info")
//
// Examples:
//
//	# Wake a receiver by its discovered name
//	connect-wake "Living Room"
//
//	# Wake a known host directly, skipping discovery
//	connect-wake -port 36963 -path /zc 192.168.1.40
package main

import (
	"context"
	"flag"
	"fmt"
	stdlog "log"
	"log/slog"
	"os"
	"time"

	"github.com/PendoNL/spotify-connect-go/pkg/persistence"
	"github.com/PendoNL/spotify-connect-go/pkg/service"
)

var (
	stateFile string
	port      int
	pathHint  string
	timeout   time.Duration
	logLevel  string
)

func init() {
	flag.StringVar(&stateFile, "state", "connect-state.json", "State file path")
	flag.IntVar(&port, "port", 0, "Receiver port, skips discovery when set with a host")
	flag.StringVar(&pathHint, "path", "", "Handshake path hint (probed first)")
	flag.DurationVar(&timeout, "timeout", 10*time.Second, "Discovery wait before giving up")
	flag.StringVar(&logLevel, "log-level", "info", "Log level: debug, info, warn, error")
}

func main() {
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Usage: connect-wake [flags] <name-or-host>")
		flag.PrintDefaults()
		os.Exit(2)
	}
	target := flag.Arg(0)

	var level slog.Level
	switch logLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	store := persistence.NewStateStore(stateFile)

	svcConfig := service.DefaultConfig()
	svcConfig.RefreshTimeout = timeout
	svcConfig.Logger = logger

	svc, err := service.NewService(store, svcConfig)
	if err != nil {
		stdlog.Fatalf("Failed to create service: %v", err)
	}
	if !svc.HasUsableCredential() {
		stdlog.Fatalf("No usable credential in %s; capture one with connect-receiver first", stateFile)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var result *service.WakeResult
	if port > 0 {
		// Known address, no discovery needed.
		result, err = svc.WakeByAddress(ctx, target, port, pathHint)
	} else {
		if err := svc.Start(ctx); err != nil {
			stdlog.Fatalf("Failed to start discovery: %v", err)
		}
		defer svc.Stop()
		stdlog.Printf("Looking for %q...", target)
		result, err = svc.Wake(ctx, target, 0)
	}
	if err != nil {
		stdlog.Fatalf("Wake failed: %v", err)
	}

	stdlog.Printf("Woke %q (device %s) as %s", result.RemoteName, result.DeviceID, svc.Credential().UserName)
}
