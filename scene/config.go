// Package scene describes a world of vehicles in YAML and builds it.
package scene

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// ErrInvalid is wrapped by every validation error.
var ErrInvalid = errors.New("invalid scene")

//go:embed default.yaml
var defaultScene []byte

// Config is the root of a scene file.
type Config struct {
	Window    WindowConfig  `yaml:"window"`
	Camera    CameraConfig  `yaml:"camera"`
	Ground    GroundConfig  `yaml:"ground"`
	Skybox    string        `yaml:"skybox"`
	AssetRoot string        `yaml:"asset_root"`
	Physics   PhysicsConfig `yaml:"physics"`
	Input     InputConfig   `yaml:"input"`
	Entities  []Entity      `yaml:"entities"`
}

type WindowConfig struct {
	Width     int    `yaml:"width"`
	Height    int    `yaml:"height"`
	Title     string `yaml:"title"`
	TargetFPS int    `yaml:"target_fps"`
}

type CameraConfig struct {
	Position [3]float32 `yaml:"position"`
	Target   [3]float32 `yaml:"target"`
	Fovy     float32    `yaml:"fovy"`
}

type GroundConfig struct {
	Size    float32 `yaml:"size"`
	Texture string  `yaml:"texture"`
}

type PhysicsConfig struct {
	Acceleration float32 `yaml:"acceleration"`
	Turning      float32 `yaml:"turning"`
	MaxSpeed     float32 `yaml:"max_speed"`
	ClampSpeed   bool    `yaml:"clamp_speed"`
}

type InputConfig struct {
	RosterSize      int               `yaml:"roster_size"`
	SpeedStep       float32           `yaml:"speed_step"`
	TurnStepDegrees float32           `yaml:"turn_step_degrees"`
	Bindings        map[string]string `yaml:"bindings"`
}

// Entity is one vehicle. Physics overrides the scene-wide physics when set;
// Static entities get no physics at all.
type Entity struct {
	Name           string         `yaml:"name"`
	Model          string         `yaml:"model"`
	Position       [3]float32     `yaml:"position"`
	Scale          *[3]float32    `yaml:"scale"`
	Rotation       *Rotation      `yaml:"rotation"`
	HeadingDegrees float32        `yaml:"heading_degrees"`
	Speed          float32        `yaml:"speed"`
	Physics        *PhysicsConfig `yaml:"physics"`
	Static         bool           `yaml:"static"`
	Input          bool           `yaml:"input"`
}

// Rotation is an axis-angle orientation.
type Rotation struct {
	Axis    [3]float32 `yaml:"axis"`
	Degrees float32    `yaml:"degrees"`
}

// Default returns the built-in scene: one plane under keyboard control and
// one destroyer.
func Default() *Config {
	c, err := Parse(defaultScene)
	if err != nil {
		panic("embedded scene: " + err.Error())
	}
	return c
}

// Load reads and validates a scene file.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Decode(f)
}

// Decode reads and validates a scene from r.
func Decode(r io.Reader) (*Config, error) {
	var c Config
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil {
		return nil, fmt.Errorf("decode scene: %w", err)
	}
	c.applyDefaults()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Parse is Decode over a byte slice.
func Parse(data []byte) (*Config, error) {
	return Decode(bytes.NewReader(data))
}

func (c *Config) applyDefaults() {
	if c.Window.Width == 0 {
		c.Window.Width = 1600
	}
	if c.Window.Height == 0 {
		c.Window.Height = 900
	}
	if c.Window.Title == "" {
		c.Window.Title = "flotilla"
	}
	if c.Window.TargetFPS == 0 {
		c.Window.TargetFPS = 60
	}
	if c.Camera.Fovy == 0 {
		c.Camera.Fovy = 45
	}
	if c.Input.RosterSize == 0 {
		c.Input.RosterSize = 10
	}
	if c.Input.SpeedStep == 0 {
		c.Input.SpeedStep = 20
	}
	if c.Input.TurnStepDegrees == 0 {
		c.Input.TurnStepDegrees = 60
	}
}

// Validate reports the first problem with the scene.
func (c *Config) Validate() error {
	if c.Window.Width < 0 || c.Window.Height < 0 {
		return fmt.Errorf("%w: negative window size", ErrInvalid)
	}
	if c.Window.TargetFPS < 0 {
		return fmt.Errorf("%w: window.target_fps must not be negative", ErrInvalid)
	}
	if c.Ground.Size < 0 {
		return fmt.Errorf("%w: ground.size must not be negative", ErrInvalid)
	}
	if err := c.Physics.validate("physics"); err != nil {
		return err
	}
	if c.Input.RosterSize < 0 {
		return fmt.Errorf("%w: input.roster_size must be positive", ErrInvalid)
	}
	for i, e := range c.Entities {
		name := e.Name
		if name == "" {
			name = fmt.Sprintf("entities[%d]", i)
		}
		if e.Model == "" {
			return fmt.Errorf("%w: %s: model is required", ErrInvalid, name)
		}
		if e.Rotation != nil && e.Rotation.Axis == [3]float32{} {
			return fmt.Errorf("%w: %s: rotation axis must be non-zero", ErrInvalid, name)
		}
		if e.Physics != nil {
			if err := e.Physics.validate(name + ".physics"); err != nil {
				return err
			}
		}
		if e.Static && e.Input {
			return fmt.Errorf("%w: %s: static entities cannot take input", ErrInvalid, name)
		}
	}
	if _, err := c.VehicleInput(); err != nil {
		return err
	}
	return nil
}

func (p PhysicsConfig) validate(field string) error {
	if p.Acceleration < 0 || p.Turning < 0 || p.MaxSpeed < 0 {
		return fmt.Errorf("%w: %s: rates must not be negative", ErrInvalid, field)
	}
	return nil
}
