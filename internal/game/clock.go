package game

// Phase is the coarse state of the game window.
type Phase string

const (
	PhasePending  Phase = "pending"
	PhaseRunning  Phase = "running"
	PhaseFinished Phase = "finished"
)

// Phase resolves the game phase at now. The window is inclusive at
// TimeStart and exclusive at TimeStop.
func (c Config) Phase(now int64) Phase {
	switch {
	case now < c.TimeStart:
		return PhasePending
	case now >= c.TimeStop:
		return PhaseFinished
	default:
		return PhaseRunning
	}
}

// Clamp bounds an evaluation instant to the game window, so score
// integration never extrapolates outside it and a finished game yields a
// stable final score.
func (c Config) Clamp(now int64) int64 {
	if now < c.TimeStart {
		return c.TimeStart
	}
	if now > c.TimeStop {
		return c.TimeStop
	}
	return now
}

// CheckRunning returns a *PhaseError unless the game is running at now.
func (c Config) CheckRunning(now int64) error {
	if phase := c.Phase(now); phase != PhaseRunning {
		return &PhaseError{Phase: phase}
	}
	return nil
}
