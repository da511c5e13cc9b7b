package ecs

import "iter"

// Query is a View whose results are materialized once per system run. The
// Scheduler calls Execute right before the owning system, so Iter always
// reflects the commands flushed by earlier systems in the same frame.
type Query[T any] struct {
	view          *View[T]
	storage       *Storage
	archetypes    []*Archetype
	archetypeSeen int

	ids    []EntityId
	values []T
	ready  bool
}

// NewQuery creates a standalone query; call Execute before iterating.
func NewQuery[T any](storage *Storage) *Query[T] {
	q := &Query[T]{}
	q.Init(storage)
	return q
}

// Init binds the query to storage. Scheduler.Register calls this.
func (q *Query[T]) Init(storage *Storage) {
	q.view = NewView[T](storage)
	q.storage = storage
	q.archetypes = nil
	q.archetypeSeen = -1
	q.ready = false
}

// Execute rebuilds the result set from the current storage contents.
func (q *Query[T]) Execute() {
	if n := len(q.storage.archetypes); n != q.archetypeSeen {
		q.archetypes = q.archetypes[:0]
		for _, archetype := range q.storage.archetypes {
			if q.view.matchesArchetype(archetype) {
				q.archetypes = append(q.archetypes, archetype)
			}
		}
		q.archetypeSeen = n
	}

	q.ids = q.ids[:0]
	q.values = q.values[:0]
	for _, archetype := range q.archetypes {
		for id, item := range q.view.iterArchetype(archetype) {
			q.ids = append(q.ids, id)
			q.values = append(q.values, item)
		}
	}
	q.ready = true
}

func (q *Query[T]) mustBeReady() {
	if !q.ready {
		panic("Query used before Query.Execute()")
	}
}

// Iter yields the matched view structs.
func (q *Query[T]) Iter() iter.Seq[T] {
	q.mustBeReady()
	return func(yield func(T) bool) {
		for i := range q.values {
			if !yield(q.values[i]) {
				return
			}
		}
	}
}

// Entries yields the matched entity IDs with their view structs.
func (q *Query[T]) Entries() iter.Seq2[EntityId, T] {
	q.mustBeReady()
	return func(yield func(EntityId, T) bool) {
		for i := range q.values {
			if !yield(q.ids[i], q.values[i]) {
				return
			}
		}
	}
}

// Len returns the number of matched entities.
func (q *Query[T]) Len() int {
	q.mustBeReady()
	return len(q.values)
}

// First returns the first match, if any. Handy for queries that by
// construction match at most one entity.
func (q *Query[T]) First() (T, bool) {
	q.mustBeReady()
	if len(q.values) == 0 {
		var zero T
		return zero, false
	}
	return q.values[0], true
}
