// Command connect-receiver emulates a Spotify Connect receiver to
// capture a reusable login credential from an official client on the
// local network.
//
// The emulator advertises itself over mDNS, serves the ZeroConf
// handshake endpoints, and persists the first credential an official
// client submits. The stored credential can later drive connect-wake
// (or the wake command in interactive mode) to log a real receiver in.
//
// Usage:
//
//	connect-receiver [flags]
//
// Flags:
//
//	-name string       Advertised receiver name (default "Connect Receiver")
//	-state string      State file path (default "connect-state.json")
//	-listen string     Listen address, port 0 for ephemeral (default ":0")
//	-cpath string      Handshake HTTP path (default "/zc")
//	-config string     Optional YAML configuration file
//	-log-level string  Log level: debug, info, warn, error (default "info")
//	-log-file string   Optional CBOR protocol event log file
//	-interactive       Enter the interactive console
//
// Examples:
//
//	# Publish under a tempting name and wait for a capture
//	connect-receiver -name "Living Room"
//
//	# Run with a config file and protocol event log
//	connect-receiver -config receiver.yaml -log-file events.cbor
package main

import (
	"context"
	"flag"
	"fmt"
	stdlog "log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"gopkg.in/yaml.v3"

	"github.com/PendoNL/spotify-connect-go/cmd/connect-receiver/interactive"
	"github.com/PendoNL/spotify-connect-go/pkg/log"
	"github.com/PendoNL/spotify-connect-go/pkg/persistence"
	"github.com/PendoNL/spotify-connect-go/pkg/service"
)

// Config holds the receiver configuration. YAML fields mirror the
// flags; flags set explicitly on the command line win.
type Config struct {
	Name       string `yaml:"name"`
	StateFile  string `yaml:"state_file"`
	Listen     string `yaml:"listen"`
	CPath      string `yaml:"cpath"`
	Brand      string `yaml:"brand"`
	Model      string `yaml:"model"`
	DeviceType string `yaml:"device_type"`
	LogLevel   string `yaml:"log_level"`
	LogFile    string `yaml:"log_file"`
}

var (
	config          Config
	configFile      string
	interactiveMode bool
)

func init() {
	flag.StringVar(&config.Name, "name", "Connect Receiver", "Advertised receiver name")
	flag.StringVar(&config.StateFile, "state", "connect-state.json", "State file path")
	flag.StringVar(&config.Listen, "listen", ":0", "Listen address, port 0 for ephemeral")
	flag.StringVar(&config.CPath, "cpath", "/zc", "Handshake HTTP path")
	flag.StringVar(&configFile, "config", "", "Optional YAML configuration file")
	flag.StringVar(&config.LogLevel, "log-level", "info", "Log level: debug, info, warn, error")
	flag.StringVar(&config.LogFile, "log-file", "", "Optional CBOR protocol event log file")
	flag.BoolVar(&interactiveMode, "interactive", false, "Enter the interactive console")
}

func main() {
	flag.Parse()

	if configFile != "" {
		if err := loadConfigFile(configFile); err != nil {
			stdlog.Fatalf("Failed to load config file: %v", err)
		}
	}

	logger := newLogger(config.LogLevel)

	store := persistence.NewStateStore(config.StateFile)

	svcConfig := service.DefaultConfig()
	svcConfig.RemoteName = config.Name
	svcConfig.ListenAddress = config.Listen
	svcConfig.CPath = config.CPath
	svcConfig.Logger = logger
	if config.Brand != "" {
		svcConfig.Brand = config.Brand
	}
	if config.Model != "" {
		svcConfig.Model = config.Model
	}
	if config.DeviceType != "" {
		svcConfig.DeviceType = config.DeviceType
	}

	var fileLogger *log.FileLogger
	if config.LogFile != "" {
		var err error
		fileLogger, err = log.NewFileLogger(config.LogFile)
		if err != nil {
			stdlog.Fatalf("Failed to open protocol log: %v", err)
		}
		defer fileLogger.Close()
		svcConfig.ProtocolLogger = log.NewMultiLogger(fileLogger, log.NewSlogAdapter(logger))
	} else {
		svcConfig.ProtocolLogger = log.NewSlogAdapter(logger)
	}

	svc, err := service.NewService(store, svcConfig)
	if err != nil {
		stdlog.Fatalf("Failed to create service: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := svc.Start(ctx); err != nil {
		stdlog.Fatalf("Failed to start discovery: %v", err)
	}

	if interactiveMode {
		runInteractive(ctx, cancel, svc)
		_ = svc.Stop()
		return
	}

	svc.OnEvent(handleEvent)

	info, err := svc.StartCapture(ctx, config.Name)
	if err != nil {
		stdlog.Fatalf("Failed to start capture: %v", err)
	}

	stdlog.Printf("Publishing %q on port %d (identity %s)", config.Name, info.Port, info.Identity)
	if svc.HasUsableCredential() {
		stdlog.Printf("A usable credential for %q is already stored", svc.Credential().UserName)
	} else {
		stdlog.Println("Waiting for a client to submit a credential...")
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh

	stdlog.Printf("Received signal: %v", sig)
	if err := svc.Stop(); err != nil {
		stdlog.Printf("Error stopping service: %v", err)
	}
}

func runInteractive(ctx context.Context, cancel context.CancelFunc, svc *service.Service) {
	console, err := interactive.New(svc)
	if err != nil {
		stdlog.Fatalf("Failed to create console: %v", err)
	}
	console.Run(ctx, cancel)
}

func loadConfigFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	// Remember which flags the user set explicitly; file values must not
	// override them.
	set := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })

	var fileConfig Config
	if err := yaml.Unmarshal(data, &fileConfig); err != nil {
		return fmt.Errorf("invalid YAML: %w", err)
	}

	merge := func(flagName string, dst *string, src string) {
		if !set[flagName] && src != "" {
			*dst = src
		}
	}
	merge("name", &config.Name, fileConfig.Name)
	merge("state", &config.StateFile, fileConfig.StateFile)
	merge("listen", &config.Listen, fileConfig.Listen)
	merge("cpath", &config.CPath, fileConfig.CPath)
	merge("log-level", &config.LogLevel, fileConfig.LogLevel)
	merge("log-file", &config.LogFile, fileConfig.LogFile)
	config.Brand = fileConfig.Brand
	config.Model = fileConfig.Model
	config.DeviceType = fileConfig.DeviceType
	return nil
}

func newLogger(level string) *slog.Logger {
	var l slog.Level
	switch level {
	case "debug":
		l = slog.LevelDebug
	case "warn":
		l = slog.LevelWarn
	case "error":
		l = slog.LevelError
	default:
		l = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: l}))
}

func handleEvent(event service.Event) {
	switch event.Type {
	case service.EventCaptureStarted:
		stdlog.Printf("[EVENT] Publishing as %q", event.Name)
	case service.EventCaptureStopped:
		stdlog.Printf("[EVENT] Withdrew %q", event.Name)
	case service.EventCredentialCaptured:
		if event.Usable {
			stdlog.Printf("[EVENT] Captured usable credential for %q", event.UserName)
		} else {
			stdlog.Printf("[EVENT] Received submission for %q (decrypt failed, raw material kept)", event.UserName)
		}
	case service.EventPeerDiscovered:
		stdlog.Printf("[EVENT] Discovered receiver %q at %s", event.Peer.Name, event.Peer.HostPort())
	case service.EventWakeCompleted:
		if event.Err != nil {
			stdlog.Printf("[EVENT] Wake of %s failed: %v", event.Target, event.Err)
		} else {
			stdlog.Printf("[EVENT] Wake of %s completed", event.Target)
		}
	}
}
