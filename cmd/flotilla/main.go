// Command flotilla loads a scene of planes and ships and runs it in a
// raylib 3D window, an ebiten plan view, or headless.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/plus3/flotilla/backend/raylib"
	"github.com/plus3/flotilla/backend/topdown"
	"github.com/plus3/flotilla/ecs"
	"github.com/plus3/flotilla/gfx"
	"github.com/plus3/flotilla/logging"
	"github.com/plus3/flotilla/profiling"
	"github.com/plus3/flotilla/scene"
	"go.uber.org/zap"
)

type options struct {
	scene         string
	backend       string
	logLevel      string
	logJSON       bool
	profile       string
	profileDir    string
	duration      time.Duration
	debug         bool
	pixelsPerUnit float64
}

var backends = []string{"raylib", "topdown", "headless"}

func parseFlags(args []string, output io.Writer) (options, error) {
	var opts options
	fs := flag.NewFlagSet("flotilla", flag.ContinueOnError)
	fs.SetOutput(output)
	fs.StringVar(&opts.scene, "scene", "", "Scene file (YAML). The built-in plane and destroyer scene when empty.")
	fs.StringVar(&opts.backend, "backend", "raylib", "Backend: raylib, topdown or headless.")
	fs.StringVar(&opts.logLevel, "log-level", "info", "Log level (debug, info, warn, error).")
	fs.BoolVar(&opts.logJSON, "log-json", false, "Log as JSON instead of console text.")
	fs.StringVar(&opts.profile, "profile", "", "Profile mode (cpu, mem, block, mutex, goroutine, trace).")
	fs.StringVar(&opts.profileDir, "profile-dir", ".", "Directory for profile output.")
	fs.DurationVar(&opts.duration, "duration", 0, "Headless run time. Zero runs until interrupted.")
	fs.BoolVar(&opts.debug, "debug", false, "Show the Dear ImGui overlay (topdown backend).")
	fs.Float64Var(&opts.pixelsPerUnit, "pixels-per-unit", 1, "Initial plan view scale (topdown backend).")
	if err := fs.Parse(args); err != nil {
		return opts, err
	}

	valid := false
	for _, b := range backends {
		valid = valid || b == opts.backend
	}
	if !valid {
		return opts, fmt.Errorf("unknown backend %q (want one of %v)", opts.backend, backends)
	}
	if opts.duration < 0 {
		return opts, errors.New("duration must not be negative")
	}
	return opts, nil
}

func main() {
	opts, err := parseFlags(os.Args[1:], os.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	logger, err := logging.New(opts.logLevel, opts.logJSON)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	defer logger.Sync()

	if err := run(opts, logger); err != nil {
		logger.Error("flotilla failed", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
}

func run(opts options, logger *zap.Logger) error {
	cfg, err := loadScene(opts.scene)
	if err != nil {
		return err
	}
	logger.Info("scene loaded",
		zap.String("path", opts.scene),
		zap.Int("entities", len(cfg.Entities)),
		zap.String("backend", opts.backend),
	)

	profiler, err := profiling.Start(opts.profile, opts.profileDir)
	if err != nil {
		return err
	}
	defer profiler.Stop()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch opts.backend {
	case "raylib":
		return runRaylib(ctx, cfg, logger)
	case "topdown":
		return runTopdown(cfg, opts, logger)
	default:
		if opts.duration > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, opts.duration)
			defer cancel()
		}
		stats, err := runHeadless(ctx, cfg, logger)
		if err != nil {
			return err
		}
		logger.Info("headless run finished",
			zap.Int64("frames", stats.Frames),
			zap.Float64("simulated", stats.SimulatedTime),
			zap.Duration("avg_tick", stats.AvgDuration),
			zap.Duration("max_tick", stats.MaxDuration),
		)
		return nil
	}
}

func loadScene(path string) (*scene.Config, error) {
	if path == "" {
		return scene.Default(), nil
	}
	return scene.Load(path)
}

func runRaylib(ctx context.Context, cfg *scene.Config, logger *zap.Logger) error {
	window := raylib.Open(cfg, logger)
	defer window.Close()

	cache := gfx.NewModelCache(window, logger)
	defer cache.Close()

	world := ecs.NewWorld(ecs.WithLogger(logger))
	defer teardown(world)

	if _, err := cfg.Build(world, scene.Deps{Cache: cache, Drawer: window, Device: window.Keyboard(), Logger: logger}); err != nil {
		return err
	}
	return window.Run(ctx, world)
}

func runTopdown(cfg *scene.Config, opts options, logger *zap.Logger) error {
	view := topdown.New(cfg, topdown.Options{
		PixelsPerUnit: float32(opts.pixelsPerUnit),
		Debug:         opts.debug,
		Logger:        logger,
	})

	cache := gfx.NewModelCache(view, logger)
	defer cache.Close()

	world := ecs.NewWorld(ecs.WithLogger(logger))
	defer teardown(world)

	if _, err := cfg.Build(world, scene.Deps{Cache: cache, Drawer: view, Device: view.Keyboard(), Logger: logger}); err != nil {
		return err
	}
	return view.Run(world)
}

// runHeadless ticks the scene at the window's target rate into a discarding
// recorder until ctx is done. Nothing takes input.
func runHeadless(ctx context.Context, cfg *scene.Config, logger *zap.Logger) (ecs.WorldStats, error) {
	recorder := &gfx.Recorder{Discard: true}
	cache := gfx.NewModelCache(recorder, logger)
	defer cache.Close()

	world := ecs.NewWorld(ecs.WithLogger(logger))
	defer teardown(world)

	if _, err := cfg.Build(world, scene.Deps{Cache: cache, Drawer: recorder, Logger: logger}); err != nil {
		return ecs.WorldStats{}, err
	}

	interval := time.Second / time.Duration(max(cfg.Window.TargetFPS, 1))
	world.Run(ctx, interval)
	return world.Stats(), nil
}

// teardown despawns every entity so render components hand their models back
// to the cache before it closes.
func teardown(world *ecs.World) {
	for _, id := range world.Roster() {
		world.Despawn(id)
	}
}
