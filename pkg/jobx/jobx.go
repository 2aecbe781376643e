package jobx

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/ItmeRoa/Expense-Tracking-App/pkg/logx"
)

// HandlerFunc processes a job. A returned error triggers retry or failure.
type HandlerFunc func(ctx context.Context, job *JobInfo) error

// Enqueuer is what producers depend on.
type Enqueuer interface {
	Enqueue(ctx context.Context, job Job) (string, error)
}

// Queue is the storage backend driven by the worker loop.
type Queue interface {
	Enqueuer
	GetJob(ctx context.Context, jobID string) (*JobInfo, error)
	Dequeue(ctx context.Context, queues []string, timeout time.Duration) (*JobInfo, error)
	Complete(ctx context.Context, jobID string) error
	Fail(ctx context.Context, jobID string, errMsg string) (retry bool, err error)
	Retry(ctx context.Context, jobID string, delay time.Duration) error
	PromoteScheduled(ctx context.Context, queues []string) error
}

// Client enqueues jobs and runs the worker pool that processes them.
type Client struct {
	queue    Queue
	opts     WorkerOptions
	logger   *logx.Logger
	handlers map[string]HandlerFunc
	outcomes *prometheus.CounterVec
	mu       sync.RWMutex
	running  bool
}

// Job outcomes recorded by the worker.
const (
	OutcomeCompleted = "completed"
	OutcomeRetried   = "retried"
	OutcomeFailed    = "failed"
	OutcomeUnhandled = "unhandled"
)

func NewClient(queue Queue, logger *logx.Logger, options ...WorkerOption) *Client {
	opts := defaultWorkerOptions()
	for _, o := range options {
		o(&opts)
	}
	return &Client{
		queue:    queue,
		opts:     opts,
		logger:   logger.Named("jobx"),
		handlers: make(map[string]HandlerFunc),
		outcomes: newOutcomeCounter(opts.Registerer),
	}
}

func newOutcomeCounter(reg prometheus.Registerer) *prometheus.CounterVec {
	counter := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "expense_tracker",
		Subsystem: "jobs",
		Name:      "processed_total",
		Help:      "Background jobs processed, by type and outcome",
	}, []string{"type", "outcome"})
	if reg == nil {
		return counter
	}
	if err := reg.Register(counter); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			return are.ExistingCollector.(*prometheus.CounterVec)
		}
	}
	return counter
}

// Outcomes returns the counter for jobType and outcome.
func (c *Client) Outcomes(jobType, outcome string) prometheus.Counter {
	return c.outcomes.WithLabelValues(jobType, outcome)
}

// Register adds the handler for jobType, replacing any previous one.
func (c *Client) Register(jobType string, handler HandlerFunc) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.handlers[jobType] = handler
}

// Enqueue fills defaults and enqueues job for immediate processing.
func (c *Client) Enqueue(ctx context.Context, job Job) (string, error) {
	if job.Type == "" {
		return "", ErrRegistry.New(CodeInvalidJob).WithDetail("reason", "empty type")
	}
	if job.Queue == "" {
		job.Queue = c.opts.Queues[0]
	}
	if job.MaxRetries == 0 {
		job.MaxRetries = 3
	}
	return c.queue.Enqueue(ctx, job)
}

// Start runs the workers and the scheduler until ctx is cancelled, then
// waits up to the shutdown timeout for in-flight jobs.
func (c *Client) Start(ctx context.Context) error {
	c.mu.Lock()
	if c.running {
		c.mu.Unlock()
		return ErrRegistry.New(CodeAlreadyRunning)
	}
	c.running = true
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.running = false
		c.mu.Unlock()
	}()

	c.logger.WithFields(logx.Fields{
		"workers": c.opts.Concurrency,
		"queues":  c.opts.Queues,
	}).Info("starting workers")

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		c.schedulerLoop(ctx)
	}()
	for i := range c.opts.Concurrency {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.workerLoop(ctx, i)
		}()
	}

	<-ctx.Done()

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		c.logger.Info("all workers stopped")
	case <-time.After(c.opts.ShutdownTimeout):
		c.logger.Warn("shutdown timed out, some jobs may not have completed")
	}
	return nil
}

func (c *Client) schedulerLoop(ctx context.Context) {
	ticker := time.NewTicker(c.opts.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := c.queue.PromoteScheduled(ctx, c.opts.Queues); err != nil && ctx.Err() == nil {
				c.logger.WithError(err).Warn("failed to promote scheduled jobs")
			}
		}
	}
}

func (c *Client) workerLoop(ctx context.Context, id int) {
	for ctx.Err() == nil {
		job, err := c.queue.Dequeue(ctx, c.opts.Queues, c.opts.DequeueTimeout)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			c.logger.WithError(err).WithField("worker", id).Warn("dequeue failed")
			select {
			case <-ctx.Done():
				return
			case <-time.After(c.opts.PollInterval):
			}
			continue
		}
		if job == nil {
			continue
		}

		// In-flight jobs finish even if shutdown starts meanwhile.
		c.process(context.WithoutCancel(ctx), job)
	}
}

func (c *Client) process(ctx context.Context, job *JobInfo) {
	log := c.logger.WithFields(logx.Fields{"job_id": job.ID, "type": job.Type, "attempt": job.Attempts})

	c.mu.RLock()
	handler, ok := c.handlers[job.Type]
	c.mu.RUnlock()

	if !ok {
		log.Warn("no handler registered")
		c.Outcomes(job.Type, OutcomeUnhandled).Inc()
		_, _ = c.queue.Fail(ctx, job.ID, "no handler registered for job type")
		return
	}

	if err := c.run(ctx, handler, job); err != nil {
		log.WithError(err).Warn("job failed")

		retry, failErr := c.queue.Fail(ctx, job.ID, err.Error())
		if failErr != nil {
			log.WithError(failErr).Error("could not mark job as failed")
			return
		}
		if !retry {
			c.Outcomes(job.Type, OutcomeFailed).Inc()
			log.Error("job exhausted its retries")
			return
		}
		c.Outcomes(job.Type, OutcomeRetried).Inc()
		if retryErr := c.queue.Retry(ctx, job.ID, c.opts.DefaultRetryDelay); retryErr != nil {
			log.WithError(retryErr).Error("could not schedule retry")
		}
		return
	}

	if err := c.queue.Complete(ctx, job.ID); err != nil {
		log.WithError(err).Error("could not complete job")
		return
	}
	c.Outcomes(job.Type, OutcomeCompleted).Inc()
}

// run calls handler under the job timeout. A panic is reported as an error so
// the job goes through the normal retry path.
func (c *Client) run(ctx context.Context, handler HandlerFunc, job *JobInfo) (err error) {
	ctx, cancel := context.WithTimeout(ctx, c.opts.JobTimeout)
	defer cancel()
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("jobx: handler panic: %v", p)
		}
	}()
	return handler(ctx, job)
}
