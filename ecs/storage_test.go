package ecs_test

import (
	"fmt"
	"reflect"
	"testing"

	"github.com/plus3/colorsquares/ecs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEntityIdEncoding(t *testing.T) {
	tests := []struct {
		archetypeId uint32
		index       uint32
	}{
		{0, 0},
		{0xFFFFFFFF, 0xFFFFFFFF},
		{1, 0},
		{0, 1},
		{0x12345678, 0x9ABCDEF0},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("archetype=%d,index=%d", tt.archetypeId, tt.index), func(t *testing.T) {
			id := ecs.NewEntityId(tt.archetypeId, tt.index)
			assert.Equal(t, tt.archetypeId, id.ArchetypeId())
			assert.Equal(t, tt.index, id.Index())
		})
	}
}

func TestSpawnAndGetComponent(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	id := storage.Spawn(&Position{X: 3, Y: 4}, Tag("crate"))
	assert.True(t, storage.Alive(id))

	pos := ecs.ReadComponent[Position](storage, id)
	require.NotNil(t, pos)
	assert.Equal(t, float32(3), pos.X)
	assert.Equal(t, float32(4), pos.Y)

	tag := ecs.ReadComponent[Tag](storage, id)
	require.NotNil(t, tag)
	assert.Equal(t, Tag("crate"), *tag)

	assert.Nil(t, ecs.ReadComponent[Velocity](storage, id))
	assert.True(t, storage.HasComponent(id, reflect.TypeFor[Tag]()))
	assert.False(t, storage.HasComponent(id, reflect.TypeFor[Velocity]()))
}

func TestSpawnSameArchetype(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	id1 := storage.Spawn(Position{X: 1}, Velocity{DX: 1})
	id2 := storage.Spawn(Velocity{DX: 2}, Position{X: 2})

	assert.Equal(t, id1.ArchetypeId(), id2.ArchetypeId(), "component order must not matter")
	assert.NotEqual(t, id1.Index(), id2.Index())
	assert.Equal(t, float32(2), ecs.ReadComponent[Position](storage, id2).X)
}

func TestDeleteReusesSlot(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	id1 := storage.Spawn(Position{X: 1})
	storage.Delete(id1)
	assert.False(t, storage.Alive(id1))
	assert.Nil(t, ecs.ReadComponent[Position](storage, id1))

	id2 := storage.Spawn(Position{X: 2})
	assert.Equal(t, id1, id2)
	assert.Equal(t, float32(2), ecs.ReadComponent[Position](storage, id2).X)

	storage.Delete(ecs.NewEntityId(42, 42))
}

func TestSpawnWithoutComponentsPanics(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	assert.Panics(t, func() { storage.Spawn() })
}

func TestSpawnUnregisteredPanics(t *testing.T) {
	storage := ecs.NewStorage(ecs.NewComponentRegistry())
	assert.Panics(t, func() { storage.Spawn(Position{}) })
}

func TestManyEntitiesCrossBlocks(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	ids := make([]ecs.EntityId, 200)
	for i := range ids {
		ids[i] = storage.Spawn(Score(i))
	}
	for i, id := range ids {
		assert.Equal(t, Score(i), *ecs.ReadComponent[Score](storage, id))
	}
	assert.Equal(t, 200, storage.CollectStats().TotalEntityCount)
}

func TestAddRemoveComponent(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	id := storage.Spawn(Position{X: 7, Y: 8})
	moved := storage.AddComponent(id, Velocity{DX: 1, DY: 2})

	assert.NotEqual(t, id.ArchetypeId(), moved.ArchetypeId())
	assert.False(t, storage.Alive(id))
	assert.Equal(t, float32(7), ecs.ReadComponent[Position](storage, moved).X)
	assert.Equal(t, float32(2), ecs.ReadComponent[Velocity](storage, moved).DY)

	back := storage.RemoveComponent(moved, reflect.TypeFor[Velocity]())
	assert.Equal(t, id.ArchetypeId(), back.ArchetypeId())
	assert.Nil(t, ecs.ReadComponent[Velocity](storage, back))
	assert.Equal(t, float32(8), ecs.ReadComponent[Position](storage, back).Y)

	gone := storage.RemoveComponent(back, reflect.TypeFor[Position]())
	assert.Equal(t, ecs.EntityId(0), gone)
	assert.False(t, storage.Alive(back))
}

func TestSingletons(t *testing.T) {
	type Config struct {
		Lanes int
	}

	storage := ecs.NewStorage(newTestRegistry())

	var cfg *Config
	assert.False(t, storage.ReadSingleton(&cfg))

	storage.AddSingleton(Config{Lanes: 4})
	require.True(t, storage.ReadSingleton(&cfg))
	assert.Equal(t, 4, cfg.Lanes)

	accessor := ecs.NewSingleton[Config](storage)
	assert.Same(t, cfg, accessor.Get())

	storage.AddSingleton(&Config{Lanes: 6})
	assert.Equal(t, 6, accessor.Get().Lanes, "replacing a singleton keeps existing accessors valid")

	missing := &ecs.Singleton[Health]{}
	missing.Init(storage)
	assert.False(t, missing.Exists())
	assert.Nil(t, missing.Get())
}

func TestStorageStats(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	stats := storage.CollectStats()
	assert.Equal(t, 0, stats.ArchetypeCount)
	assert.Equal(t, 0, stats.TotalEntityCount)
	assert.Equal(t, 0, stats.SingletonCount)

	storage.Spawn(42, "hello")
	storage.Spawn(100, "world")
	storage.Spawn(200.0, "test")

	ecs.NewSingleton[float64](storage, 3.14)
	ecs.NewSingleton[string](storage, "singleton")

	stats = storage.CollectStats()
	assert.Equal(t, 2, stats.ArchetypeCount)
	assert.Equal(t, 3, stats.TotalEntityCount)
	assert.Equal(t, 2, stats.SingletonCount)
	assert.Equal(t, []string{"float64", "string"}, stats.SingletonTypes)

	require.Len(t, stats.ArchetypeBreakdown, 2)
	assert.Equal(t, 2, stats.ArchetypeBreakdown[0].EntityCount)
	assert.Equal(t, []string{"int", "string"}, stats.ArchetypeBreakdown[0].ComponentTypes)
	assert.Equal(t, 1, stats.ArchetypeBreakdown[1].EntityCount)
}
