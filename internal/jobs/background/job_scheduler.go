package background

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/softline/vitrine/internal/jobs"

	"github.com/go-co-op/gocron/v2"
	"go.uber.org/zap"
)

const reconcileJobName = "image-reconcile"

// Reconciler runs one pass of the image reconciliation.
type Reconciler interface {
	Run(ctx context.Context) (*jobs.ReconcileReport, error)
}

// JobScheduler runs the background jobs of the API process
type JobScheduler struct {
	scheduler  gocron.Scheduler
	reconciler Reconciler
	interval   time.Duration
	jobs       map[string]gocron.Job
	mu         sync.RWMutex
}

// NewJobScheduler creates a new job scheduler. An interval of zero disables
// the reconcile job.
func NewJobScheduler(reconciler Reconciler, interval time.Duration) (*JobScheduler, error) {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("create scheduler: %w", err)
	}

	js := &JobScheduler{
		scheduler:  scheduler,
		reconciler: reconciler,
		interval:   interval,
		jobs:       make(map[string]gocron.Job),
	}

	if err := js.registerJobs(); err != nil {
		_ = scheduler.Shutdown()
		return nil, err
	}
	return js, nil
}

// Start starts the job scheduler
func (js *JobScheduler) Start() {
	zap.S().Infow("starting background job scheduler", "jobs", len(js.jobs))
	js.scheduler.Start()
}

// Stop stops the job scheduler and waits for running jobs
func (js *JobScheduler) Stop() error {
	zap.S().Info("stopping background job scheduler")
	return js.scheduler.Shutdown()
}

func (js *JobScheduler) registerJobs() error {
	if js.interval <= 0 {
		zap.S().Info("image reconciliation disabled")
		return nil
	}

	job, err := js.scheduler.NewJob(
		gocron.DurationJob(js.interval),
		gocron.NewTask(js.reconcileImages, context.Background()),
		gocron.WithName(reconcileJobName),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return fmt.Errorf("create %s job: %w", reconcileJobName, err)
	}

	js.mu.Lock()
	js.jobs[reconcileJobName] = job
	js.mu.Unlock()
	return nil
}

func (js *JobScheduler) reconcileImages(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, js.interval)
	defer cancel()

	_, err := js.reconciler.Run(ctx)
	return err
}

// GetJobStatus returns the last and next run of every registered job
func (js *JobScheduler) GetJobStatus() map[string]interface{} {
	js.mu.RLock()
	defer js.mu.RUnlock()

	status := make(map[string]interface{}, len(js.jobs))
	for name, job := range js.jobs {
		lastRun, _ := job.LastRun()
		nextRun, _ := job.NextRun()
		status[name] = map[string]interface{}{
			"id":       job.ID().String(),
			"last_run": lastRun,
			"next_run": nextRun,
		}
	}
	return status
}

// RunNow triggers a registered job outside its schedule.
func (js *JobScheduler) RunNow(name string) error {
	js.mu.RLock()
	job, ok := js.jobs[name]
	js.mu.RUnlock()
	if !ok {
		return fmt.Errorf("job %q not registered", name)
	}
	return job.RunNow()
}
