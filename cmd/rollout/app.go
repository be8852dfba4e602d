package main

import (
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/alexisbeaulieu97/rollout/internal/adapter"
	"github.com/alexisbeaulieu97/rollout/internal/adapter/local"
	"github.com/alexisbeaulieu97/rollout/internal/collector"
	"github.com/alexisbeaulieu97/rollout/internal/config"
	"github.com/alexisbeaulieu97/rollout/internal/event"
	"github.com/alexisbeaulieu97/rollout/internal/logger"
	"github.com/alexisbeaulieu97/rollout/internal/report"
	"github.com/alexisbeaulieu97/rollout/internal/strategy"
	"github.com/alexisbeaulieu97/rollout/internal/task"
)

type appOptions struct {
	ConfigPath string
	Verbose    bool
	Stdout     io.Writer
	Stderr     io.Writer
}

// app is one fully wired run: configuration, bus, collectors, tasks and the
// selected strategy.
type app struct {
	cfg       *config.Config
	bus       *event.Bus
	log       *logger.Logger
	data      *collector.EventData
	profiler  *collector.Profiler
	inventory *config.Inventory
	strategy  strategy.Strategy
	stdout    io.Writer
}

func newApp(opts appOptions) (*app, error) {
	if err := validateConfigPath(opts.ConfigPath); err != nil {
		return nil, err
	}
	cfg, err := config.ParseConfig(opts.ConfigPath)
	if err != nil {
		return nil, err
	}

	bus := event.NewBus()
	data := collector.NewEventData()
	data.Register(bus)

	level := "info"
	if cfg.Settings.LogLevel != "" {
		level = cfg.Settings.LogLevel
	}
	if opts.Verbose || cfg.Settings.Verbose {
		level = "debug"
	}
	log, err := logger.New(logger.Options{
		Level:         level,
		HumanReadable: true,
		NoColor:       !isTerminal(opts.Stderr),
		Writer:        opts.Stderr,
		Fields:        map[string]any{"run": uuid.NewString()},
		Hooks:         []zerolog.Hook{logger.NewBusHook(bus)},
	})
	if err != nil {
		return nil, err
	}
	collector.NewEventLogger(log).Register(bus)

	adapters := adapter.NewRegistry()
	if err := local.Register(adapters); err != nil {
		return nil, err
	}
	inventory, err := config.NewInventory(cfg, adapters)
	if err != nil {
		return nil, err
	}

	task.Register(bus, task.Settings{
		InstallCommands: cfg.Install,
		DeployCommands:  cfg.Deploy,
		Timeout:         cfg.Settings.CommandTimeout(),
	}, log)
	profiler := collector.NewProfiler()
	profiler.Register(bus)

	s, err := strategy.NewRegistry().New(cfg.StrategyName(), strategy.Base{
		Bus:       bus,
		Inventory: inventory,
		Logger:    log,
	}, strategy.Options{ReinstallOn: cfg.ReinstallOn})
	if err != nil {
		_ = inventory.Close()
		return nil, err
	}

	return &app{
		cfg:       cfg,
		bus:       bus,
		log:       log,
		data:      data,
		profiler:  profiler,
		inventory: inventory,
		strategy:  s,
		stdout:    opts.Stdout,
	}, nil
}

type runFunc func(s strategy.Strategy, ctx context.Context, version, stage string) (*strategy.Outcome, error)

// run executes one strategy command, prints the summary and turns a failed
// grade into a non-zero exit.
func (a *app) run(ctx context.Context, fn runFunc, version, stage string) error {
	defer a.inventory.Close() //nolint:errcheck

	out, err := fn(a.strategy, ctx, version, stage)
	if out == nil {
		if err != nil {
			return err
		}
		return fmt.Errorf("strategy %s returned no outcome", a.strategy.Name())
	}

	summary := report.NewSummary(a.cfg.Name, out, a.data, a.profiler)
	if renderErr := report.Render(a.stdout, summary, isTerminal(a.stdout)); renderErr != nil {
		return renderErr
	}
	if err != nil {
		return err
	}
	if code := summary.Grade.ExitCode(); code != 0 {
		return &exitError{code: code}
	}
	return nil
}
