package vehicle

import (
	"maps"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/plus3/flotilla/ecs"
	"github.com/plus3/flotilla/input"
	"go.uber.org/zap"
)

const (
	ActionForward    = "forward"
	ActionBackward   = "backward"
	ActionLeft       = "left"
	ActionRight      = "right"
	ActionSelectNext = "select-next"
)

// DefaultBindings maps each action to its key.
var DefaultBindings = map[string]input.Key{
	ActionForward:    input.KeyW,
	ActionBackward:   input.KeyS,
	ActionLeft:       input.KeyA,
	ActionRight:      input.KeyD,
	ActionSelectNext: input.KeyTab,
}

// InputConfig describes how key presses steer the vehicle.
type InputConfig struct {
	RosterSize int
	SpeedStep  float32
	// TurnStep is in radians.
	TurnStep float32
	Bindings map[string]input.Key
}

// DefaultInputConfig returns the stock W/S/A/D/Tab layout.
func DefaultInputConfig() InputConfig {
	return InputConfig{
		RosterSize: 10,
		SpeedStep:  20,
		TurnStep:   mgl32.DegToRad(60),
		Bindings:   maps.Clone(DefaultBindings),
	}
}

// Input turns key presses into changes of the sibling Physics targets.
// Selected cycles through the roster on select-next; it does not change
// which physics component the bindings drive.
type Input struct {
	ecs.Base

	Selected int

	config  InputConfig
	actions *input.Actions
}

// NewInput creates an input component polling device.
func NewInput(device input.Device, config InputConfig) *Input {
	defaults := DefaultInputConfig()
	if config.RosterSize <= 0 {
		config.RosterSize = defaults.RosterSize
	}
	if config.Bindings == nil {
		config.Bindings = defaults.Bindings
	}
	return &Input{
		config:  config,
		actions: input.NewActions(device),
	}
}

func (*Input) Kind() ecs.Kind { return ecs.KindInput }

// Actions returns the bound action table.
func (in *Input) Actions() *input.Actions {
	return in.actions
}

// Setup binds the actions to the sibling physics component.
func (in *Input) Setup() {
	physics := ecs.FindComponent[*Physics](in.Owner())
	if physics == nil {
		in.Logger().Debug("input not bound: entity has no physics")
		return
	}

	in.bind(ActionForward, func() { physics.TargetSpeed += in.config.SpeedStep })
	in.bind(ActionBackward, func() { physics.TargetSpeed -= in.config.SpeedStep })
	in.bind(ActionLeft, func() { physics.TargetHeading += in.config.TurnStep })
	in.bind(ActionRight, func() { physics.TargetHeading -= in.config.TurnStep })
	in.bind(ActionSelectNext, func() {
		in.Selected = (in.Selected + 1) % in.config.RosterSize
	})
}

func (in *Input) Tick(dt float64) {
	in.actions.Poll()
}

func (in *Input) bind(name string, fn func()) {
	key, ok := in.config.Bindings[name]
	if !ok || key == input.KeyNone {
		in.Logger().Debug("action left unbound", zap.String("action", name))
		return
	}
	in.actions.Bind(name, key, fn)
}
