package main

import (
	"context"
	"flag"
	"fmt"
	"math"
	"math/rand"
	"os"
	"runtime"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/plus3/flotilla/ecs"
	"github.com/plus3/flotilla/gfx"
	"github.com/plus3/flotilla/input"
	"github.com/plus3/flotilla/logging"
	"github.com/plus3/flotilla/profiling"
	"github.com/plus3/flotilla/vehicle"
	"go.uber.org/zap"
)

func main() {
	duration := flag.Duration("duration", 10*time.Second, "The total duration the test should run for.")
	entityCount := flag.Int("entities", 10000, "The initial number of vehicles to create.")
	modelCount := flag.Int("models", 8, "The number of distinct model paths shared by the vehicles.")
	piloted := flag.Float64("piloted", 0.1, "Fraction of vehicles with a randomly pressed input component.")
	churn := flag.Float64("churn", 0.01, "Fraction of vehicles despawned and respawned every frame.")
	gcPauseMetrics := flag.Bool("gc-pause-metrics", false, "Enable detailed GC pause metrics in the report.")
	logLevel := flag.String("log-level", "info", "Log level (debug, info, warn, error).")
	profileMode := flag.String("profile", "", "Profile mode (cpu, mem, block, mutex, goroutine, trace).")
	flag.Parse()

	logger, err := logging.New(*logLevel, false)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	defer logger.Sync()

	profiler, err := profiling.Start(*profileMode, ".")
	if err != nil {
		logger.Fatal("profiling", zap.Error(err))
	}
	defer profiler.Stop()

	logger.Info("starting stress test")

	// 1. Setup the world and a headless backend
	recorder := &gfx.Recorder{Discard: true}
	cache := gfx.NewModelCache(recorder, logger)
	defer cache.Close()
	world := ecs.NewWorld(ecs.WithLogger(logger), ecs.WithCapacity(*entityCount))

	fleet := &Fleet{
		World:   world,
		Cache:   cache,
		Drawer:  recorder,
		Rand:    rand.New(rand.NewSource(time.Now().UnixNano())),
		Models:  max(*modelCount, 1),
		Piloted: *piloted,
	}

	// 2. Populate the world with vehicles
	logger.Info("populating world", zap.Int("entities", *entityCount))
	for i := 0; i < *entityCount; i++ {
		if _, err := fleet.Spawn(); err != nil {
			logger.Fatal("spawn", zap.Error(err))
		}
	}
	logger.Info("population complete", zap.Int("models", cache.Len()))

	// 3. Run the simulation loop
	report := &Report{
		Duration:       *duration,
		Entities:       *entityCount,
		Models:         cache.Len(),
		Piloted:        *piloted,
		Churn:          *churn,
		GCPauseMetrics: *gcPauseMetrics,
		UpdateTime: Stats{
			Samples: make([]time.Duration, 0),
		},
	}

	runtime.ReadMemStats(&report.MemStatsStart)

	logger.Info("running simulation", zap.Duration("duration", *duration))
	ctx, cancel := context.WithTimeout(context.Background(), *duration)
	defer cancel()

	startTime := time.Now()
	var totalUpdates int64
	lastFrameTime := time.Now()

Loop:
	for {
		select {
		case <-ctx.Done():
			break Loop
		default:
			deltaTime := time.Since(lastFrameTime)
			lastFrameTime = time.Now()

			fleet.Churn(*churn)

			updateStart := time.Now()
			world.Tick(deltaTime.Seconds())
			updateDuration := time.Since(updateStart)

			report.UpdateTime.Samples = append(report.UpdateTime.Samples, updateDuration)
			totalUpdates++
		}
	}

	report.TotalTime = time.Since(startTime)
	report.TotalUpdates = totalUpdates
	report.UpdateTime.Finalize()
	report.World = world.Stats()
	report.Spawned = fleet.Spawned
	report.Despawned = fleet.Despawned
	runtime.ReadMemStats(&report.MemStatsEnd)

	logger.Info("simulation finished")

	// 4. Generate Report to Console
	fmt.Println("\n\n--- Stress Test Report ---")
	if err := report.Generate(os.Stdout); err != nil {
		logger.Fatal("failed to generate report", zap.Error(err))
	}
	fmt.Println("--- End of Report ---")

	logger.Info("stress test complete")
}

// Fleet spawns randomized vehicles into a world.
type Fleet struct {
	World   *ecs.World
	Cache   *gfx.ModelCache
	Drawer  gfx.Drawer
	Rand    *rand.Rand
	Models  int
	Piloted float64

	Spawned   int
	Despawned int
}

// Spawn creates one vehicle with random placement, targets and model.
func (f *Fleet) Spawn() (ecs.EntityId, error) {
	render, err := vehicle.NewRender(f.Cache, f.Drawer, fmt.Sprintf("meshes/hull-%d.glb", f.Rand.Intn(f.Models)))
	if err != nil {
		return 0, err
	}

	physics := vehicle.NewPhysics(vehicle.PhysicsConfig{
		Acceleration: 0.5 + f.Rand.Float32()*2,
		Turning:      0.1 + f.Rand.Float32(),
		MaxSpeed:     40,
		ClampSpeed:   true,
	})
	physics.TargetSpeed = f.Rand.Float32() * 40

	transform := ecs.NewTransform(
		mgl32.Vec3{f.Rand.Float32()*2000 - 1000, 0, f.Rand.Float32()*2000 - 1000},
		mgl32.QuatIdent(),
	)
	transform.Heading = f.Rand.Float32() * 2 * math.Pi

	components := []ecs.Component{render, physics}
	if f.Rand.Float64() < f.Piloted {
		components = append(components, vehicle.NewInput(f.randomDevice(), vehicle.DefaultInputConfig()))
	}

	f.Spawned++
	return f.World.SpawnWithTransform(transform, components...), nil
}

// randomDevice presses each key on roughly one frame in a hundred.
func (f *Fleet) randomDevice() input.Device {
	return input.DeviceFunc(func(input.Key) bool {
		return f.Rand.Intn(100) == 0
	})
}

// Churn despawns a random fraction of the roster and spawns as many
// replacements, keeping the population constant.
func (f *Fleet) Churn(fraction float64) {
	roster := f.World.Roster()
	n := int(float64(len(roster)) * fraction)
	for i := 0; i < n; i++ {
		if f.World.Despawn(roster[f.Rand.Intn(len(roster))]) {
			f.Despawned++
			if _, err := f.Spawn(); err != nil {
				f.World.Logger().Warn("respawn failed", zap.Error(err))
			}
		}
	}
}
