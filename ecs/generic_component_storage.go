package ecs

import (
	"iter"
	"reflect"
)

// componentStorage is the type-erased view an Archetype has of one column.
type componentStorage interface {
	Append(item any) int
	Delete(index int)
	Get(index int) any
	Len() int
	Iter() iter.Seq[int]
}

// ComponentRegistry maps component types to column factories. Every Storage
// owns one, so independent worlds never share registrations.
type ComponentRegistry struct {
	factories map[reflect.Type]func() componentStorage
}

// NewComponentRegistry returns an empty registry.
func NewComponentRegistry() *ComponentRegistry {
	return &ComponentRegistry{
		factories: make(map[reflect.Type]func() componentStorage),
	}
}

// RegisterComponent makes T usable as a component or singleton in storages
// built from r. Registering the same type twice is harmless.
func RegisterComponent[T any](r *ComponentRegistry) {
	r.factories[reflect.TypeFor[T]()] = func() componentStorage {
		return &column[T]{}
	}
}

// Registered reports whether t has a factory in r.
func (r *ComponentRegistry) Registered(t reflect.Type) bool {
	_, ok := r.factories[t]
	return ok
}

func (r *ComponentRegistry) getFactory(t reflect.Type) func() componentStorage {
	return r.factories[t]
}

const blockSize = 64

// column stores values of T in fixed-size blocks. Slots are reused through a
// free list so indices of live entities never shift, and blocks are never
// reallocated so component pointers stay valid while the slot is live.
type column[T any] struct {
	blocks []*[blockSize]T
	filled [][blockSize]bool
	free   []int
	next   int
	live   int
}

func slotOf(index int) (int, int) {
	return index / blockSize, index % blockSize
}

func (c *column[T]) Append(item any) int {
	var value T
	switch v := item.(type) {
	case *T:
		value = *v
	case T:
		value = v
	default:
		return -1
	}

	var index int
	if n := len(c.free); n > 0 {
		index = c.free[n-1]
		c.free = c.free[:n-1]
	} else {
		index = c.next
		c.next++
	}

	block, slot := slotOf(index)
	for block >= len(c.blocks) {
		c.blocks = append(c.blocks, new([blockSize]T))
		c.filled = append(c.filled, [blockSize]bool{})
	}

	c.blocks[block][slot] = value
	c.filled[block][slot] = true
	c.live++
	return index
}

func (c *column[T]) has(index int) bool {
	if index < 0 {
		return false
	}
	block, slot := slotOf(index)
	return block < len(c.filled) && c.filled[block][slot]
}

// Get returns a *T for the slot, or nil when the slot is empty.
func (c *column[T]) Get(index int) any {
	if !c.has(index) {
		return nil
	}
	block, slot := slotOf(index)
	return &c.blocks[block][slot]
}

func (c *column[T]) Delete(index int) {
	if !c.has(index) {
		return
	}
	block, slot := slotOf(index)
	var zero T
	c.blocks[block][slot] = zero
	c.filled[block][slot] = false
	c.free = append(c.free, index)
	c.live--
}

func (c *column[T]) Len() int {
	return c.live
}

func (c *column[T]) Iter() iter.Seq[int] {
	return func(yield func(int) bool) {
		for i := 0; i < c.next; i++ {
			if c.has(i) && !yield(i) {
				return
			}
		}
	}
}
