package metrics

// Noop is a Recorder that discards all events.
// Useful as a default when no metrics backend is configured.
type Noop struct{}

// NewNoop creates a no-op metrics recorder.
func NewNoop() *Noop {
	return &Noop{}
}

func (n *Noop) IncUserRegistered() {}
func (n *Noop) IncLoginSuccess()   {}
func (n *Noop) IncLoginFailure()   {}
func (n *Noop) IncTaskCreated()    {}
func (n *Noop) IncTaskUpdated()    {}
func (n *Noop) IncTaskDeleted()    {}
