package ecs

// UpdateFrame is the per-tick context handed to every system.
type UpdateFrame struct {
	DeltaTime float64
	Tick      int64
	Commands  *Commands
	Storage   *Storage
}

func newUpdateFrame(dt float64, tick int64, storage *Storage) *UpdateFrame {
	return &UpdateFrame{
		DeltaTime: dt,
		Tick:      tick,
		Commands:  newCommands(),
		Storage:   storage,
	}
}
