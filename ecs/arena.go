package ecs

import "iter"

const (
	arenaBlockSize = 64
)

// arena stores values of type T in fixed-size blocks and hands out slot
// indices that stay valid until the slot is freed. Growing the block list
// relocates the stored values, so callers must hold indices, not pointers.
// Each slot carries a generation that is bumped on free to detect stale
// handles.
type arena[T any] struct {
	blocks    [][arenaBlockSize]T
	filled    [][arenaBlockSize]bool
	gens      [][arenaBlockSize]uint32
	freeSlots []int
	nextIndex int
	count     int
}

func newArena[T any](capacity int) *arena[T] {
	a := &arena[T]{}
	if capacity > 0 {
		blocks := (capacity + arenaBlockSize - 1) / arenaBlockSize
		a.blocks = make([][arenaBlockSize]T, 0, blocks)
		a.filled = make([][arenaBlockSize]bool, 0, blocks)
		a.gens = make([][arenaBlockSize]uint32, 0, blocks)
	}
	return a
}

// alloc reserves a slot and returns its index and current generation.
// Freed slots are reused before new ones are appended.
func (a *arena[T]) alloc() (int, uint32) {
	var index int
	if len(a.freeSlots) > 0 {
		index = a.freeSlots[len(a.freeSlots)-1]
		a.freeSlots = a.freeSlots[:len(a.freeSlots)-1]
	} else {
		index = a.nextIndex
		a.nextIndex++

		if index/arenaBlockSize >= len(a.blocks) {
			a.blocks = append(a.blocks, [arenaBlockSize]T{})
			a.filled = append(a.filled, [arenaBlockSize]bool{})
			a.gens = append(a.gens, [arenaBlockSize]uint32{})
		}
	}

	blockIdx := index / arenaBlockSize
	slotIdx := index % arenaBlockSize

	if a.gens[blockIdx][slotIdx] == 0 {
		a.gens[blockIdx][slotIdx] = 1
	}
	a.filled[blockIdx][slotIdx] = true
	a.count++
	return index, a.gens[blockIdx][slotIdx]
}

// get returns a pointer to the value at index if the slot is filled and
// its generation matches. The pointer is invalidated by the next alloc.
func (a *arena[T]) get(index int, gen uint32) *T {
	if index < 0 || index >= a.nextIndex {
		return nil
	}

	blockIdx := index / arenaBlockSize
	slotIdx := index % arenaBlockSize

	if !a.filled[blockIdx][slotIdx] || a.gens[blockIdx][slotIdx] != gen {
		return nil
	}
	return &a.blocks[blockIdx][slotIdx]
}

// free zeroes the slot and bumps its generation.
func (a *arena[T]) free(index int) {
	if index < 0 || index >= a.nextIndex {
		return
	}

	blockIdx := index / arenaBlockSize
	slotIdx := index % arenaBlockSize

	if !a.filled[blockIdx][slotIdx] {
		return
	}

	var zero T
	a.blocks[blockIdx][slotIdx] = zero
	a.filled[blockIdx][slotIdx] = false
	a.gens[blockIdx][slotIdx]++
	if a.gens[blockIdx][slotIdx] == 0 {
		a.gens[blockIdx][slotIdx] = 1
	}
	a.freeSlots = append(a.freeSlots, index)
	a.count--
}

func (a *arena[T]) len() int {
	return a.count
}

func (a *arena[T]) iter() iter.Seq[int] {
	return func(yield func(int) bool) {
		for i := 0; i < a.nextIndex; i++ {
			if a.filled[i/arenaBlockSize][i%arenaBlockSize] {
				if !yield(i) {
					return
				}
			}
		}
	}
}
