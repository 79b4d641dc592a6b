package scene

import (
	"fmt"
	"maps"
	"path/filepath"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/plus3/flotilla/ecs"
	"github.com/plus3/flotilla/gfx"
	"github.com/plus3/flotilla/input"
	"github.com/plus3/flotilla/vehicle"
	"go.uber.org/zap"
)

// Deps are the collaborators Build wires into components.
type Deps struct {
	Cache  *gfx.ModelCache
	Drawer gfx.Drawer
	// Device may be nil; entities asking for input then spawn without it.
	Device input.Device
	Logger *zap.Logger
}

// Build spawns every entity of the scene into world in file order and
// returns their ids. On error, entities spawned so far are despawned again.
func (c *Config) Build(world *ecs.World, deps Deps) ([]ecs.EntityId, error) {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	inputConfig, err := c.VehicleInput()
	if err != nil {
		return nil, err
	}

	ids := make([]ecs.EntityId, 0, len(c.Entities))
	for i, e := range c.Entities {
		id, err := c.spawn(world, deps, inputConfig, e)
		if err != nil {
			for _, spawned := range ids {
				world.Despawn(spawned)
			}
			return nil, fmt.Errorf("entity %d (%s): %w", i, e.Name, err)
		}
		ids = append(ids, id)

		if e.Input && deps.Device == nil {
			logger.Warn("no input device, entity spawned without controls", zap.String("name", e.Name))
		}
		logger.Info("entity spawned",
			zap.String("name", e.Name),
			zap.String("model", e.Model),
			zap.Stringer("entity", id),
		)
	}
	return ids, nil
}

func (c *Config) spawn(world *ecs.World, deps Deps, inputConfig vehicle.InputConfig, e Entity) (ecs.EntityId, error) {
	render, err := vehicle.NewRender(deps.Cache, deps.Drawer, c.Resolve(e.Model))
	if err != nil {
		return 0, err
	}

	components := []ecs.Component{render}
	if !e.Static {
		physics := vehicle.NewPhysics(c.vehiclePhysics(e))
		physics.Speed = e.Speed
		physics.TargetSpeed = e.Speed
		components = append(components, physics)
	}
	if e.Input && deps.Device != nil {
		components = append(components, vehicle.NewInput(deps.Device, inputConfig))
	}

	return world.SpawnWithTransform(e.Transform(), components...), nil
}

// Transform returns the initial placement of the entity.
func (e Entity) Transform() *ecs.Transform {
	rotation := mgl32.QuatIdent()
	if e.Rotation != nil {
		axis := mgl32.Vec3(e.Rotation.Axis).Normalize()
		rotation = mgl32.QuatRotate(mgl32.DegToRad(e.Rotation.Degrees), axis)
	}

	t := ecs.NewTransform(mgl32.Vec3(e.Position), rotation)
	if e.Scale != nil {
		t.Scale = mgl32.Vec3(*e.Scale)
	}
	t.Heading = mgl32.DegToRad(e.HeadingDegrees)
	return t
}

// VehicleInput converts the input section into component configuration.
func (c *Config) VehicleInput() (vehicle.InputConfig, error) {
	config := vehicle.InputConfig{
		RosterSize: c.Input.RosterSize,
		SpeedStep:  c.Input.SpeedStep,
		TurnStep:   mgl32.DegToRad(c.Input.TurnStepDegrees),
	}
	if len(c.Input.Bindings) == 0 {
		config.Bindings = maps.Clone(vehicle.DefaultBindings)
		return config, nil
	}

	config.Bindings = make(map[string]input.Key, len(c.Input.Bindings))
	for action, name := range c.Input.Bindings {
		if _, ok := vehicle.DefaultBindings[action]; !ok {
			return config, fmt.Errorf("%w: input.bindings: unknown action %q", ErrInvalid, action)
		}
		key, err := input.ParseKey(name)
		if err != nil {
			return config, fmt.Errorf("%w: input.bindings.%s: %w", ErrInvalid, action, err)
		}
		config.Bindings[action] = key
	}
	return config, nil
}

func (c *Config) vehiclePhysics(e Entity) vehicle.PhysicsConfig {
	p := c.Physics
	if e.Physics != nil {
		p = *e.Physics
	}
	return vehicle.PhysicsConfig{
		Acceleration: p.Acceleration,
		Turning:      p.Turning,
		MaxSpeed:     p.MaxSpeed,
		ClampSpeed:   p.ClampSpeed,
	}
}

// Resolve joins path onto the asset root unless it is absolute.
func (c *Config) Resolve(path string) string {
	if path == "" || c.AssetRoot == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(c.AssetRoot, path)
}
