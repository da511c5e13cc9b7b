package ecs_test

import (
	"fmt"
	"reflect"

	"github.com/plus3/colorsquares/ecs"
)

type Block struct {
	Y float64
}

type Falling struct {
	Rate float64
}

type Floor struct {
	Y      float64
	Landed int
}

type DropSystem struct {
	Blocks ecs.Query[struct {
		ecs.EntityId
		*Block
		*Falling
	}]
	Floor ecs.Singleton[Floor]
}

func (s *DropSystem) Execute(frame *ecs.UpdateFrame) {
	floor := s.Floor.Get()
	for b := range s.Blocks.Iter() {
		b.Block.Y = min(b.Block.Y+b.Falling.Rate*frame.DeltaTime, floor.Y)
		if b.Block.Y == floor.Y {
			frame.Commands.RemoveComponent(b.EntityId, reflect.TypeFor[Falling]())
			floor.Landed++
		}
	}
}

// ExampleScheduler moves a block until it lands. Landing removes the Falling
// component through the command buffer, so the query stops matching it on
// the next frame.
func ExampleScheduler() {
	registry := ecs.NewComponentRegistry()
	ecs.RegisterComponent[Block](registry)
	ecs.RegisterComponent[Falling](registry)
	storage := ecs.NewStorage(registry)
	floor := ecs.NewSingleton(storage, Floor{Y: 25})

	id := storage.Spawn(Block{}, Falling{Rate: 10})
	ref := storage.CreateEntityRef(id)

	scheduler := ecs.NewScheduler(storage)
	scheduler.Register(&DropSystem{})

	for frame := 1; frame <= 4; frame++ {
		scheduler.Once(1.0)
		id, _ := storage.ResolveEntityRef(ref)
		block := ecs.ReadComponent[Block](storage, id)
		fmt.Printf("frame %d: y=%.0f falling=%v landed=%d\n",
			frame, block.Y, storage.HasComponent(id, reflect.TypeFor[Falling]()), floor.Get().Landed)
	}

	// Output:
	// frame 1: y=10 falling=true landed=0
	// frame 2: y=20 falling=true landed=0
	// frame 3: y=25 falling=false landed=1
	// frame 4: y=25 falling=false landed=1
}
