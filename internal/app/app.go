// Package app implements the application layer for pmake.
package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"

	"go.trai.ch/pmake/internal/core/domain"
	"go.trai.ch/pmake/internal/core/ports"
	"go.trai.ch/pmake/internal/engine/resolver"
	"go.trai.ch/pmake/internal/engine/scheduler"
)

// Console controls how action output reaches the terminal.
type Console interface {
	// SetPrefix toggles "[target]" prefixes on action output.
	SetPrefix(on bool)
	// SetMuted stops output while a progress display owns the terminal.
	SetMuted(on bool)
}

// ProgressDisplay renders build progress until the recording is closed.
type ProgressDisplay interface {
	Open()
	Run(ctx context.Context) error
}

// LogSettings adjusts the process logger.
type LogSettings interface {
	SetJSON(enable bool)
	SetLevel(level slog.Level)
}

// App represents the main application logic.
type App struct {
	configLoader ports.ConfigLoader
	scheduler    *scheduler.Scheduler
	resolver     *resolver.Resolver
	encoder      ports.GraphEncoder
	logger       ports.Logger
	telemetry    ports.Telemetry
	console      Console
	progress     ProgressDisplay
	logSettings  LogSettings
}

// New creates a new App instance.
func New(
	loader ports.ConfigLoader,
	sched *scheduler.Scheduler,
	res *resolver.Resolver,
	encoder ports.GraphEncoder,
	log ports.Logger,
	telemetry ports.Telemetry,
) *App {
	return &App{
		configLoader: loader,
		scheduler:    sched,
		resolver:     res,
		encoder:      encoder,
		logger:       log,
		telemetry:    telemetry,
	}
}

// WithConsole sets the console whose output is prefixed when several jobs run at once.
func (a *App) WithConsole(console Console) *App {
	a.console = console
	return a
}

// WithProgress sets the display used when a run asks for progress output.
func (a *App) WithProgress(display ProgressDisplay) *App {
	a.progress = display
	return a
}

// WithLogSettings sets the logger that ConfigureLogging adjusts.
func (a *App) WithLogSettings(settings LogSettings) *App {
	a.logSettings = settings
	return a
}

// LoadOptions selects and adjusts the rule file.
type LoadOptions struct {
	// File is the rule file path, relative to Directory.
	File string
	// Directory is entered before anything else when set.
	Directory string
	// Policy overrides the rule file's match policy when set.
	Policy string
}

// RunOptions configuration for the Run method.
type RunOptions struct {
	LoadOptions
	// Jobs bounds how many actions run at once.
	Jobs int
	// Progress replaces streamed action output with a live progress view.
	Progress bool
}

// LogOptions configuration for ConfigureLogging.
type LogOptions struct {
	JSON    bool
	Verbose bool
}

// ConfigureLogging applies output format and verbosity to the logger.
func (a *App) ConfigureLogging(opts LogOptions) {
	if a.logSettings == nil {
		return
	}
	a.logSettings.SetJSON(opts.JSON)
	if opts.Verbose {
		a.logSettings.SetLevel(slog.LevelDebug)
	}
}

// Run builds the requested targets, or the rule file's default target when none are given.
func (a *App) Run(ctx context.Context, targetNames []string, opts RunOptions) error {
	// 1. Load the rules
	reg, err := a.load(opts.LoadOptions)
	if err != nil {
		return err
	}

	if len(targetNames) == 0 {
		targetNames = []string{reg.DefaultTarget()}
	}

	if a.console != nil {
		a.console.SetPrefix(opts.Jobs > 1)
	}

	// 2. Build within a fresh session
	session := domain.NewBuildSession()
	defer session.Close()

	build := func(ctx context.Context) error {
		// Closing the recording ends any progress display.
		defer func() {
			_ = a.telemetry.Close()
		}()
		if err := a.scheduler.Run(ctx, reg, session, targetNames, scheduler.Options{Jobs: opts.Jobs}); err != nil {
			return zerr.Wrap(err, domain.ErrBuildFailed.Error())
		}
		return nil
	}

	if opts.Progress && a.progress != nil {
		err = a.runWithProgress(ctx, build)
	} else {
		err = build(ctx)
	}
	if err != nil {
		return err
	}

	a.logger.Info("Success!")
	return nil
}

func (a *App) runWithProgress(ctx context.Context, build func(context.Context) error) error {
	if a.console != nil {
		a.console.SetMuted(true)
		defer a.console.SetMuted(false)
	}
	a.progress.Open()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := a.progress.Run(gctx); err != nil {
			a.logger.Warn("progress display stopped", "error", err.Error())
		}
		return nil
	})
	g.Go(func() error {
		return build(ctx)
	})
	return g.Wait()
}

// Graph resolves the requested targets without building them and writes the graph to w.
func (a *App) Graph(ctx context.Context, w io.Writer, targetNames []string, opts LoadOptions) error {
	reg, err := a.load(opts)
	if err != nil {
		return err
	}

	if len(targetNames) == 0 {
		targetNames = []string{reg.DefaultTarget()}
	}

	session := domain.NewBuildSession()
	defer session.Close()

	if err := a.resolver.ResolveAll(ctx, reg, session, targetNames); err != nil {
		return err
	}
	a.logger.Debug("resolved build graph", "targets", session.Len())

	return a.encoder.Encode(w, session)
}

// Rules writes the registered rules to w, highest priority first.
func (a *App) Rules(w io.Writer, opts LoadOptions) error {
	reg, err := a.load(opts)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "PATTERN\tKIND\tPREREQUISITES\tSOURCE")
	for rule := range reg.Rules() {
		prereqs := make([]string, 0, len(rule.Prerequisites)+len(rule.OrderOnly))
		for _, p := range rule.Prerequisites {
			prereqs = append(prereqs, p.String())
		}
		for _, p := range rule.OrderOnly {
			prereqs = append(prereqs, "|"+p.String())
		}
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
			rule.Pattern.String(), rule.Kind, strings.Join(prereqs, " "), rule.Source)
	}
	if err := tw.Flush(); err != nil {
		return zerr.Wrap(err, "failed to write rules")
	}
	return nil
}

func (a *App) load(opts LoadOptions) (*domain.Registry, error) {
	if opts.Directory != "" {
		if err := os.Chdir(opts.Directory); err != nil {
			return nil, zerr.With(zerr.Wrap(err, domain.ErrDirectoryChangeFailed.Error()), "directory", opts.Directory)
		}
		dir, err := os.Getwd()
		if err != nil {
			dir = opts.Directory
		}
		a.logger.Info("Entering directory", "directory", dir)
	}

	file := opts.File
	if file == "" {
		file = domain.DefaultRuleFile
	}

	reg, err := a.configLoader.Load(filepath.Clean(file))
	if err != nil {
		return nil, zerr.Wrap(err, "failed to load rules")
	}

	if opts.Policy != "" {
		policy, err := domain.ParseMatchPolicy(opts.Policy)
		if err != nil {
			return nil, err
		}
		reg.SetPolicy(policy)
	}

	return reg, nil
}
