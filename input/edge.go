package input

// EdgeDetector turns a level-state source ("is the key down now") into an
// edge-triggered Device. Update must be called exactly once per frame,
// before any polling.
type EdgeDetector struct {
	down    func(Key) bool
	current map[Key]bool
	prev    map[Key]bool
}

// NewEdgeDetector creates a detector sampling down.
func NewEdgeDetector(down func(Key) bool) *EdgeDetector {
	return &EdgeDetector{
		down:    down,
		current: make(map[Key]bool),
		prev:    make(map[Key]bool),
	}
}

// Update samples every key.
func (d *EdgeDetector) Update() {
	d.prev, d.current = d.current, d.prev
	for _, k := range Keys() {
		d.current[k] = d.down(k)
	}
}

// JustPressed reports whether k is down this frame and was up the frame before.
func (d *EdgeDetector) JustPressed(k Key) bool {
	return d.current[k] && !d.prev[k]
}
