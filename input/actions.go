package input

import "slices"

// Action binds a key to a callback fired once per press.
type Action struct {
	Name    string
	Key     Key
	Pressed func()
}

// Actions is an ordered table of named actions polled against a Device.
type Actions struct {
	device  Device
	actions []Action
}

// NewActions creates an empty table polling device.
func NewActions(device Device) *Actions {
	return &Actions{device: device}
}

// Bind adds or replaces the action called name.
func (a *Actions) Bind(name string, key Key, pressed func()) {
	action := Action{Name: name, Key: key, Pressed: pressed}
	if i := a.index(name); i >= 0 {
		a.actions[i] = action
		return
	}
	a.actions = append(a.actions, action)
}

// Unbind removes the action called name.
func (a *Actions) Unbind(name string) bool {
	i := a.index(name)
	if i < 0 {
		return false
	}
	a.actions = slices.Delete(a.actions, i, i+1)
	return true
}

// Lookup returns the action called name.
func (a *Actions) Lookup(name string) (Action, bool) {
	i := a.index(name)
	if i < 0 {
		return Action{}, false
	}
	return a.actions[i], true
}

// Names returns bound action names in bind order.
func (a *Actions) Names() []string {
	names := make([]string, len(a.actions))
	for i, action := range a.actions {
		names[i] = action.Name
	}
	return names
}

// Len returns the number of bound actions.
func (a *Actions) Len() int {
	return len(a.actions)
}

// Poll fires every action whose key was pressed this frame, in bind order,
// and returns how many fired.
func (a *Actions) Poll() int {
	if a.device == nil {
		return 0
	}
	fired := 0
	for _, action := range a.actions {
		if action.Pressed == nil || !a.device.JustPressed(action.Key) {
			continue
		}
		action.Pressed()
		fired++
	}
	return fired
}

func (a *Actions) index(name string) int {
	return slices.IndexFunc(a.actions, func(action Action) bool {
		return action.Name == name
	})
}
