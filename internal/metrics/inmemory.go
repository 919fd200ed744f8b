package metrics

import "sync/atomic"

// InMemory is a Recorder backed by atomic counters.
// Suitable for tests and single-process deployments.
type InMemory struct {
	usersRegistered atomic.Int64
	loginSuccesses  atomic.Int64
	loginFailures   atomic.Int64
	tasksCreated    atomic.Int64
	tasksUpdated    atomic.Int64
	tasksDeleted    atomic.Int64
}

// NewInMemory creates an in-memory metrics recorder.
func NewInMemory() *InMemory {
	return &InMemory{}
}

func (m *InMemory) IncUserRegistered() { m.usersRegistered.Add(1) }
func (m *InMemory) IncLoginSuccess()   { m.loginSuccesses.Add(1) }
func (m *InMemory) IncLoginFailure()   { m.loginFailures.Add(1) }
func (m *InMemory) IncTaskCreated()    { m.tasksCreated.Add(1) }
func (m *InMemory) IncTaskUpdated()    { m.tasksUpdated.Add(1) }
func (m *InMemory) IncTaskDeleted()    { m.tasksDeleted.Add(1) }

// Snapshot returns a point-in-time view of all counters.
func (m *InMemory) Snapshot() Snapshot {
	return Snapshot{
		UsersRegistered: m.usersRegistered.Load(),
		LoginSuccesses:  m.loginSuccesses.Load(),
		LoginFailures:   m.loginFailures.Load(),
		TasksCreated:    m.tasksCreated.Load(),
		TasksUpdated:    m.tasksUpdated.Load(),
		TasksDeleted:    m.tasksDeleted.Load(),
	}
}
