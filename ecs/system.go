package ecs

// System is one step of the frame pipeline. Query and Singleton fields on the
// implementing struct are wired by Scheduler.Register; any other fields are
// private state that survives between frames.
type System interface {
	Execute(frame *UpdateFrame)
}

// UpdateFrame is handed to every system during Scheduler.Once.
type UpdateFrame struct {
	// DeltaTime is the simulated time step in seconds.
	DeltaTime float64
	// Tick counts calls to Scheduler.Once, starting at 1.
	Tick     uint64
	Commands *Commands
	Storage  *Storage
}

func newUpdateFrame(dt float64, tick uint64, storage *Storage) *UpdateFrame {
	return &UpdateFrame{
		DeltaTime: dt,
		Tick:      tick,
		Commands:  newCommands(),
		Storage:   storage,
	}
}
