// Package metrics provides lightweight hooks for instrumentation.
package metrics

// Recorder captures metric events for the application.
// Implementations can expose these to Prometheus, StatsD, etc.
type Recorder interface {
	// Account metrics
	IncUserRegistered()
	IncLoginSuccess()
	IncLoginFailure()

	// Task management metrics
	IncTaskCreated()
	IncTaskUpdated()
	IncTaskDeleted()
}

// Snapshotter exposes a snapshot of current metrics.
type Snapshotter interface {
	Snapshot() Snapshot
}

// Snapshot is a point-in-time view of recorded counters.
type Snapshot struct {
	UsersRegistered int64 `json:"users_registered"`
	LoginSuccesses  int64 `json:"login_successes"`
	LoginFailures   int64 `json:"login_failures"`
	TasksCreated    int64 `json:"tasks_created"`
	TasksUpdated    int64 `json:"tasks_updated"`
	TasksDeleted    int64 `json:"tasks_deleted"`
}
