package job

import "errors"

var (
	// ErrUnknownTask is returned when a job references a task that is not registered.
	ErrUnknownTask = errors.New("job: unknown task")

	// ErrInvalidSchedule is returned for cron expressions that cannot be parsed.
	ErrInvalidSchedule = errors.New("job: invalid schedule")

	// ErrAlreadyStarted is returned when attempting to start a manager
	// that is already running.
	ErrAlreadyStarted = errors.New("job: already started")

	// ErrNotStarted is returned when attempting to stop a manager
	// that is not running.
	ErrNotStarted = errors.New("job: not started")

	// ErrPoolRequired is returned when a manager is created without a database pool.
	ErrPoolRequired = errors.New("job: pool is required")
)
