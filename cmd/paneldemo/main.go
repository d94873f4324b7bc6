// Package main is a terminal demo embedding a panelkit panel.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/dshills/panelkit/internal/backend"
	"github.com/dshills/panelkit/internal/config"
	"github.com/dshills/panelkit/internal/logging"
	"github.com/dshills/panelkit/internal/panel"
	"github.com/dshills/panelkit/internal/script"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
)

// frameInterval paces Update at 60 frames per second.
const frameInterval = time.Second / 60

type options struct {
	ConfigPath string
	ScriptPath string
	LogLevel   string
	LogFile    string
}

func main() {
	os.Exit(run())
}

func run() int {
	opts := parseFlags()

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: loading configuration: %v\n", err)
		return 1
	}
	if opts.LogLevel != "" {
		cfg.Log.Level = opts.LogLevel
	}

	logger, closeLog, err := openLogger(opts.LogFile, cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: opening log file: %v\n", err)
		return 1
	}
	defer closeLog()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	stopMetrics := serveMetrics(cfg.Metrics.Addr, reg, logger)
	defer stopMetrics()

	term, err := backend.NewTerminal()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to create terminal: %v\n", err)
		return 1
	}
	if err := term.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to initialize terminal: %v\n", err)
		return 1
	}
	defer term.Shutdown()

	d := &demo{term: term}
	p, err := panel.New(
		panel.WithName("demo"),
		panel.WithLogger(logger),
		panel.WithConfig(cfg),
		panel.WithRegisterer(reg),
		panel.WithRepainter(panel.RepainterFunc(d.repaint)),
	)
	if err != nil {
		term.Shutdown()
		fmt.Fprintf(os.Stderr, "Error: creating panel: %v\n", err)
		return 1
	}
	d.build(p)

	if opts.ScriptPath != "" {
		host := script.New(p, script.WithLogger(logging.WithComponent(logger, "script")))
		defer host.Close()
		if err := host.DoFile(opts.ScriptPath); err != nil {
			term.Shutdown()
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
	}

	if opts.ConfigPath != "" {
		w, err := config.NewWatcher(opts.ConfigPath, p.ApplyConfig,
			config.WithWatcherLogger(logging.WithComponent(logger, "config")))
		if err != nil {
			logger.Warn().Err(err).Msg("config hot reload disabled")
		} else {
			defer w.Close()
		}
	}

	return loop(term, p, d, logger)
}

// loop feeds terminal events to the panel and runs frames until quit.
func loop(term *backend.Terminal, p *panel.Panel, d *demo, logger zerolog.Logger) int {
	done := make(chan struct{})
	defer close(done)
	events := pump(term.PollEvent, done)

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(signals)

	tr := backend.NewTranslator(p)
	bindKeys(tr)

	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()

	w, h := term.Size()
	d.resize(p, w, h)

	for !d.quit {
		select {
		case ev, ok := <-events:
			if !ok {
				return 0
			}
			if err := tr.Deliver(p, ev); err != nil {
				logger.Debug().Err(err).Msg("event not delivered")
			}
		case now := <-ticker.C:
			p.Update(now)
		case <-signals:
			return 0
		}
	}
	return 0
}

func openLogger(path string, cfg config.LogConfig) (zerolog.Logger, func(), error) {
	if path == "" {
		return logging.Nop(), func() {}, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return logging.Nop(), func() {}, err
	}
	logger := logging.New(logging.Config{
		Level:     cfg.Level,
		Output:    f,
		Component: "paneldemo",
		Console:   cfg.Console,
	})
	return logger, func() { _ = f.Close() }, nil
}

func serveMetrics(addr string, reg *prometheus.Registry, logger zerolog.Logger) func() {
	if addr == "" {
		return func() {}
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Str("addr", addr).Msg("metrics endpoint failed")
		}
	}()
	logger.Info().Str("addr", addr).Msg("serving metrics")

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}
}

func parseFlags() options {
	var opts options
	var showVersion bool

	flag.StringVar(&opts.ConfigPath, "config", "", "Path to configuration file (.toml or .yaml)")
	flag.StringVar(&opts.ConfigPath, "c", "", "Path to configuration file (shorthand)")
	flag.StringVar(&opts.ScriptPath, "script", "", "Lua script with event handlers")
	flag.StringVar(&opts.LogLevel, "log-level", "", "Log level (debug, info, warn, error); overrides the config file")
	flag.StringVar(&opts.LogFile, "log-file", "", "Write logs to this file (logging is off otherwise)")
	flag.BoolVar(&showVersion, "version", false, "Show version information")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "paneldemo - panelkit event dispatch and focus demo\n\n")
		fmt.Fprintf(os.Stderr, "Usage: paneldemo [options]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nKeys: Tab/Shift-Tab move focus, q or Ctrl-C quits.\n")
	}

	flag.Parse()

	if showVersion {
		fmt.Printf("paneldemo %s (%s)\n", version, commit)
		os.Exit(0)
	}

	switch opts.LogLevel {
	case "", "debug", "info", "warn", "error":
	default:
		fmt.Fprintf(os.Stderr, "Error: invalid log level %q (must be debug, info, warn, or error)\n", opts.LogLevel)
		os.Exit(1)
	}
	return opts
}
