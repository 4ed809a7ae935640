package main

import (
	"database/sql"
	"fmt"
	"log/slog"
	"os"

	"github.com/vmunix/submux/internal/command"
	"github.com/vmunix/submux/internal/config"
	"github.com/vmunix/submux/internal/engine"
	"github.com/vmunix/submux/internal/events"
	"github.com/vmunix/submux/internal/mux"
	"github.com/vmunix/submux/internal/probe"
)

// app holds what a command needs to run the engine.
type app struct {
	cfg    *config.Config
	log    *slog.Logger
	engine *engine.Engine
	bus    *events.Bus
	db     *sql.DB // nil when history is disabled
}

// newApp validates cfg and wires the engine. Invalid options fail here,
// before anything is scanned.
func newApp(cfg *config.Config) (*app, error) {
	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, &config.ConfigError{Errors: errs}
	}
	logger := newLogger(cfg.Log, os.Stderr)

	a := &app{cfg: cfg, log: logger}
	var eventLog *events.EventLog
	if cfg.History.Path != "" {
		db, err := events.OpenDB(cfg.History.Path)
		if err != nil {
			return nil, err
		}
		a.db = db
		eventLog = events.NewEventLog(db)
	}
	a.bus = events.NewBus(eventLog, logger)

	runner := command.ExecRunner{}
	prober := probe.New(cfg.Mux.FFprobe, cfg.Mux.Mkvmerge, runner, logger)
	muxer := mux.NewMuxer(cfg.Mux.Mkvmerge, runner, logger)

	eng, err := engine.New(engine.Config{
		Match:          cfg.MatchOptions(),
		ReleaseTag:     cfg.Mux.ReleaseTag,
		OutputDir:      cfg.Mux.OutputDir,
		Workers:        cfg.Mux.Workers,
		VideoTrackName: cfg.Mux.VideoTrackName,
		SubTrackName:   cfg.Mux.SubTrackName,
	}, prober, muxer, a.bus, logger)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("configure: %w", err)
	}
	a.engine = eng
	return a, nil
}

func (a *app) Close() {
	if a.bus != nil {
		_ = a.bus.Close()
	}
	if a.db != nil {
		_ = a.db.Close()
	}
}
