// relink-chat is a minimal line-oriented chat client built on relink. It
// connects to a websocket endpoint, forwards stdin lines as text frames and
// prints whatever the server pushes back, riding out server restarts through
// the automatic reconnection in the library.
package main

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/induro/relink"
)

type fileConfig struct {
	URL               string        `yaml:"url"`
	Subprotocols      []string      `yaml:"subprotocols"`
	RetryLimit        int           `yaml:"retry_limit"`
	RetryDelay        time.Duration `yaml:"retry_delay"`
	HeartbeatInterval time.Duration `yaml:"heartbeat_interval"`
	HeartbeatPayload  string        `yaml:"heartbeat_payload"`
	RefreshInterval   time.Duration `yaml:"refresh_interval"`
	HandshakeTimeout  time.Duration `yaml:"handshake_timeout"`
}

// loadConfig reads a YAML config file, expanding ${VAR} references first.
func loadConfig(path string) (fileConfig, error) {
	var cfg fileConfig

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config file: %w", err)
	}

	expanded := os.ExpandEnv(string(data))
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return cfg, fmt.Errorf("parse config yaml: %w", err)
	}

	return cfg, nil
}

// stderrNotifier puts client notices in front of the user.
type stderrNotifier struct{}

func (stderrNotifier) Warn(msg string)  { fmt.Fprintf(os.Stderr, "! %s\n", msg) }
func (stderrNotifier) Error(msg string) { fmt.Fprintf(os.Stderr, "!! %s\n", msg) }

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		configPath string
		urlFlag    string
		verbose    bool
	)

	flagSet := pflag.NewFlagSet("relink-chat", pflag.ContinueOnError)
	flagSet.StringVar(&configPath, "config", "", "path to YAML config file")
	flagSet.StringVar(&urlFlag, "url", "", "websocket URL (overrides the config file)")
	flagSet.BoolVarP(&verbose, "verbose", "v", false, "log every frame")

	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if err == pflag.ErrHelp {
			return nil
		}
		return err
	}

	var fc fileConfig
	if configPath != "" {
		loaded, err := loadConfig(configPath)
		if err != nil {
			return err
		}
		fc = loaded
	}
	if urlFlag != "" {
		fc.URL = urlFlag
	}
	if fc.URL == "" {
		return fmt.Errorf("no websocket url, pass --url or set url in the config file")
	}

	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	client, err := relink.New(relink.Config{
		URL:               fc.URL,
		Subprotocols:      fc.Subprotocols,
		RetryLimit:        fc.RetryLimit,
		RetryDelay:        fc.RetryDelay,
		HeartbeatInterval: fc.HeartbeatInterval,
		HeartbeatPayload:  fc.HeartbeatPayload,
		RefreshInterval:   fc.RefreshInterval,
		HandshakeTimeout:  fc.HandshakeTimeout,
	},
		relink.WithLogger(relink.NewSlogLogger(logger)),
		relink.WithNotifier(stderrNotifier{}),
		relink.WithOnMessage(func(_ relink.Client, m relink.Message) {
			fmt.Printf("<< %s\n", m.Data())
		}),
		relink.WithOnOpen(func(relink.Event) {
			fmt.Fprintf(os.Stderr, "* connected to %s\n", fc.URL)
		}),
		relink.WithOnReconnecting(func(ev relink.Event) {
			fmt.Fprintf(os.Stderr, "* connection lost, retrying (attempt %d)\n", ev.Attempt)
		}),
		relink.WithOnDisconnect(func(relink.Event) {
			fmt.Fprintln(os.Stderr, "* disconnected")
		}),
	)
	if err != nil {
		return err
	}

	client.Connect()

	fmt.Fprintln(os.Stderr, "type to send, /status, /reconnect or /quit")

	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		switch {
		case line == "":
			continue
		case line == "/quit":
			client.Disconnect()
			return nil
		case line == "/reconnect":
			client.Reconnect()
		case line == "/status":
			fmt.Fprintf(os.Stderr, "* state=%s retries=%d\n", client.State(), client.Retries())
		default:
			client.Send(line)
		}
	}

	client.Disconnect()
	return scanner.Err()
}
