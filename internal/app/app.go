// Package app wires configuration, logging, persistence and the list
// services into one handle used by the command line.
package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/nhle/hammer-list/internal/graph"
	"github.com/nhle/hammer-list/internal/hierarchy"
	"github.com/nhle/hammer-list/internal/logging"
	"github.com/nhle/hammer-list/internal/metrics"
	"github.com/nhle/hammer-list/internal/model"
	"github.com/nhle/hammer-list/internal/mutate"
	"github.com/nhle/hammer-list/internal/store"
)

// App holds everything a command needs.
type App struct {
	Config   *model.AppConfig
	Log      logging.Logger
	Store    store.Store
	Graph    *graph.Graph
	Service  *mutate.Service
	Nav      *hierarchy.Navigator
	Registry *prometheus.Registry
	Metrics  *metrics.Recorder
}

// Option customizes Open.
type Option func(*options)

type options struct {
	log       logging.Logger
	graphOpts []graph.Option
}

// WithLogger replaces the logger built from cfg.Log.
func WithLogger(l logging.Logger) Option {
	return func(o *options) { o.log = l }
}

// WithGraphOptions passes options through to graph.Load.
func WithGraphOptions(opts ...graph.Option) Option {
	return func(o *options) { o.graphOpts = append(o.graphOpts, opts...) }
}

// Open builds the logger and store described by cfg, loads the graph and
// persists any repairs made while loading.
func Open(ctx context.Context, cfg *model.AppConfig, opts ...Option) (*App, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	log := o.log
	if log == nil {
		var err error
		log, err = logging.New(logging.Config{
			Level:    cfg.Log.Level,
			Encoding: cfg.Log.Encoding,
			Mode:     cfg.Log.Mode,
		})
		if err != nil {
			return nil, err
		}
	}

	if cfg.Store.Driver == model.StoreDriverSQLite && cfg.Store.Path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(cfg.Store.Path), 0o755); err != nil {
			return nil, fmt.Errorf("creating data directory: %w", err)
		}
	}
	st, err := store.Open(cfg.Store)
	if err != nil {
		return nil, fmt.Errorf("opening store: %w", err)
	}

	g, warnings, err := graph.Load(ctx, st, o.graphOpts...)
	if err != nil {
		st.Close()
		return nil, err
	}
	for _, w := range warnings {
		log.Warn(ctx, w)
	}
	if g.HasPending() {
		if err := g.Save(ctx); err != nil {
			log.Errorf(ctx, "saving load repairs: %v", err)
		}
	}

	nav, err := hierarchy.NewNavigator(g, cfg.Navigator.CacheSize)
	if err != nil {
		st.Close()
		return nil, err
	}

	reg := prometheus.NewRegistry()
	rec := metrics.NewRecorder(reg)

	return &App{
		Config:   cfg,
		Log:      log,
		Store:    st,
		Graph:    g,
		Service:  mutate.New(g, log, rec, MutationOptions(cfg.Mutation)),
		Nav:      nav,
		Registry: reg,
		Metrics:  rec,
	}, nil
}

// MutationOptions maps the config section onto service options.
func MutationOptions(c model.MutationConfig) mutate.Options {
	return mutate.Options{
		Strict:           c.Strict,
		RenumberOnDelete: c.RenumberOnDelete,
	}
}

// Close flushes the logger and closes the store.
func (a *App) Close() error {
	_ = a.Log.Sync()
	return a.Store.Close()
}
