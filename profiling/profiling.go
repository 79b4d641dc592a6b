// Package profiling starts a pkg/profile session selected by name.
package profiling

import (
	"fmt"
	"sort"

	"github.com/pkg/profile"
)

// Stopper ends a profiling session and writes its output.
type Stopper interface {
	Stop()
}

type nopStopper struct{}

func (nopStopper) Stop() {}

var modes = map[string]func(*profile.Profile){
	"cpu":       profile.CPUProfile,
	"mem":       profile.MemProfileAllocs,
	"block":     profile.BlockProfile,
	"mutex":     profile.MutexProfile,
	"goroutine": profile.GoroutineProfile,
	"trace":     profile.TraceProfile,
}

// Modes lists the accepted mode names.
func Modes() []string {
	names := make([]string, 0, len(modes))
	for name := range modes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Start begins profiling in mode, writing into dir. An empty mode profiles
// nothing and returns a no-op Stopper.
func Start(mode, dir string) (Stopper, error) {
	if mode == "" {
		return nopStopper{}, nil
	}
	option, ok := modes[mode]
	if !ok {
		return nil, fmt.Errorf("unknown profile mode %q (want one of %v)", mode, Modes())
	}
	return profile.Start(option, profile.ProfilePath(dir), profile.NoShutdownHook, profile.Quiet), nil
}
