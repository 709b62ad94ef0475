package job

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/riverqueue/river"
	"github.com/riverqueue/river/riverdriver/riverpgxv5"
	"github.com/riverqueue/river/rivermigrate"
	"github.com/robfig/cron/v3"
)

const defaultMaxWorkers = 2

// Manager runs periodic maintenance tasks through River.
// Scheduling is coordinated in Postgres, so with several router
// instances sharing a database each tick runs on a single instance.
type Manager struct {
	client  *river.Client[pgx.Tx]
	pool    *pgxpool.Pool
	tasks   map[string]scheduledHandler
	logger  *slog.Logger
	mu      sync.Mutex
	started bool
}

// NewManager creates a job manager for the given pool. Call Migrate
// once before Start so River's tables exist.
func NewManager(pool *pgxpool.Pool, opts ...Option) (*Manager, error) {
	if pool == nil {
		return nil, ErrPoolRequired
	}

	cfg := &config{maxWorkers: defaultMaxWorkers}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.logger == nil {
		cfg.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	tasks, periodic, err := buildSchedules(cfg)
	if err != nil {
		return nil, err
	}

	workers := river.NewWorkers()
	river.AddWorker(workers, &taskWorker{tasks: tasks, logger: cfg.logger})

	client, err := river.NewClient(riverpgxv5.New(pool), &river.Config{
		Queues:       map[string]river.QueueConfig{river.QueueDefault: {MaxWorkers: cfg.maxWorkers}},
		Workers:      workers,
		PeriodicJobs: periodic,
		Logger:       cfg.logger,
	})
	if err != nil {
		return nil, fmt.Errorf("job: create client: %w", err)
	}

	return &Manager{
		client: client,
		pool:   pool,
		tasks:  tasks,
		logger: cfg.logger,
	}, nil
}

func buildSchedules(cfg *config) (map[string]scheduledHandler, []*river.PeriodicJob, error) {
	tasks := make(map[string]scheduledHandler, len(cfg.schedules))
	periodic := make([]*river.PeriodicJob, 0, len(cfg.schedules))

	for _, sched := range cfg.schedules {
		schedule, err := parseCronSchedule(sched.schedule)
		if err != nil {
			return nil, nil, fmt.Errorf("%w %q: %w", ErrInvalidSchedule, sched.schedule, err)
		}

		name := sched.name
		tasks[name] = sched.handler
		periodic = append(periodic, river.NewPeriodicJob(
			schedule,
			func() (river.JobArgs, *river.InsertOpts) {
				return taskArgs{TaskName: name}, nil
			},
			&river.PeriodicJobOpts{RunOnStart: cfg.runOnStart},
		))
	}

	return tasks, periodic, nil
}

// Migrate applies River's schema migrations.
func (m *Manager) Migrate(ctx context.Context) error {
	migrator, err := rivermigrate.New(riverpgxv5.New(m.pool), nil)
	if err != nil {
		return fmt.Errorf("job: create migrator: %w", err)
	}
	res, err := migrator.Migrate(ctx, rivermigrate.DirectionUp, nil)
	if err != nil {
		return fmt.Errorf("job: migrate: %w", err)
	}
	m.logger.InfoContext(ctx, "job tables migrated", slog.Int("applied", len(res.Versions)))
	return nil
}

// Start begins processing scheduled tasks.
func (m *Manager) Start(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.started {
		return ErrAlreadyStarted
	}
	if err := m.client.Start(ctx); err != nil {
		return fmt.Errorf("job: start client: %w", err)
	}

	m.started = true
	m.logger.Info("job manager started", slog.Int("tasks", len(m.tasks)))
	return nil
}

// Stop waits for running tasks to complete and stops the manager.
func (m *Manager) Stop(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.started {
		return ErrNotStarted
	}
	if err := m.client.Stop(ctx); err != nil {
		return fmt.Errorf("job: stop client: %w", err)
	}

	m.started = false
	m.logger.Info("job manager stopped")
	return nil
}

// Shutdown returns a shutdown hook for the job manager.
func (m *Manager) Shutdown() func(context.Context) error {
	return m.Stop
}

// taskArgs is the River job payload shared by every scheduled task.
type taskArgs struct {
	TaskName string `json:"task_name"`
}

func (taskArgs) Kind() string {
	return "approuter:task"
}

type taskWorker struct {
	river.WorkerDefaults[taskArgs]
	tasks  map[string]scheduledHandler
	logger *slog.Logger
}

func (w *taskWorker) Work(ctx context.Context, job *river.Job[taskArgs]) error {
	return w.run(ctx, job.Args.TaskName)
}

func (w *taskWorker) run(ctx context.Context, name string) error {
	handler, ok := w.tasks[name]
	if !ok || handler == nil {
		return fmt.Errorf("%w: %s", ErrUnknownTask, name)
	}

	if err := handler(ctx); err != nil {
		w.logger.ErrorContext(ctx, "task failed", slog.String("task", name), slog.Any("error", err))
		return err
	}

	w.logger.DebugContext(ctx, "task completed", slog.String("task", name))
	return nil
}

type cronScheduleAdapter struct {
	schedule cron.Schedule
}

func (a *cronScheduleAdapter) Next(current time.Time) time.Time {
	return a.schedule.Next(current)
}

func parseCronSchedule(expr string) (river.PeriodicSchedule, error) {
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	schedule, err := parser.Parse(expr)
	if err != nil {
		return nil, err
	}
	return &cronScheduleAdapter{schedule: schedule}, nil
}
