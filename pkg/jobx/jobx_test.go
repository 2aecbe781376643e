package jobx_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/ItmeRoa/Expense-Tracking-App/pkg/errx"
	"github.com/ItmeRoa/Expense-Tracking-App/pkg/jobx"
	"github.com/ItmeRoa/Expense-Tracking-App/pkg/logx"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memQueue hands out each enqueued job once.
type memQueue struct {
	mu        sync.Mutex
	ready     chan *jobx.JobInfo
	jobs      map[string]*jobx.JobInfo
	completed []string
	failed    []string
	retried   []string
}

func newMemQueue() *memQueue {
	return &memQueue{ready: make(chan *jobx.JobInfo, 16), jobs: map[string]*jobx.JobInfo{}}
}

func (m *memQueue) Enqueue(_ context.Context, job jobx.Job) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := job.Type + "-" + string(rune('a'+len(m.jobs)))
	info := &jobx.JobInfo{ID: id, Type: job.Type, Queue: job.Queue, Payload: job.Payload, MaxRetries: job.MaxRetries}
	m.jobs[id] = info
	m.ready <- info
	return id, nil
}

func (m *memQueue) GetJob(_ context.Context, id string) (*jobx.JobInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.jobs[id], nil
}

func (m *memQueue) Dequeue(ctx context.Context, _ []string, timeout time.Duration) (*jobx.JobInfo, error) {
	select {
	case info := <-m.ready:
		m.mu.Lock()
		info.Attempts++
		m.mu.Unlock()
		return info, nil
	case <-time.After(timeout):
		return nil, nil
	case <-ctx.Done():
		return nil, nil
	}
}

func (m *memQueue) Complete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.completed = append(m.completed, id)
	return nil
}

func (m *memQueue) Fail(_ context.Context, id string, _ string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failed = append(m.failed, id)
	info := m.jobs[id]
	return info.Attempts < info.MaxRetries, nil
}

func (m *memQueue) Retry(_ context.Context, id string, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.retried = append(m.retried, id)
	return nil
}

func (m *memQueue) PromoteScheduled(context.Context, []string) error { return nil }

func (m *memQueue) snapshot() (completed, failed, retried []string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.completed...), append([]string(nil), m.failed...), append([]string(nil), m.retried...)
}

type greeting struct {
	To string `json:"to"`
}

func TestClientProcessesJobs(t *testing.T) {
	q := newMemQueue()
	client := jobx.NewClient(q, logx.Discard(),
		jobx.WithConcurrency(2),
		jobx.WithQueues("email"),
		jobx.WithDequeueTimeout(10*time.Millisecond),
		jobx.WithPollInterval(10*time.Millisecond),
		jobx.WithShutdownTimeout(time.Second))

	got := make(chan string, 1)
	client.Register("greet", func(_ context.Context, job *jobx.JobInfo) error {
		g, err := jobx.Decode[greeting](job)
		if err != nil {
			return err
		}
		got <- g.To
		return nil
	})
	client.Register("flaky", func(context.Context, *jobx.JobInfo) error {
		return errors.New("provider down")
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- client.Start(ctx) }()

	job, err := jobx.NewJob("greet", "", greeting{To: "ana@example.com"})
	require.NoError(t, err)
	_, err = client.Enqueue(ctx, job)
	require.NoError(t, err)

	flaky, err := jobx.NewJob("flaky", "email", greeting{})
	require.NoError(t, err)
	_, err = client.Enqueue(ctx, flaky)
	require.NoError(t, err)

	select {
	case to := <-got:
		assert.Equal(t, "ana@example.com", to)
	case <-time.After(2 * time.Second):
		t.Fatal("job was not processed")
	}

	require.Eventually(t, func() bool {
		completed, failed, retried := q.snapshot()
		return len(completed) == 1 && len(failed) == 1 && len(retried) == 1
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	require.NoError(t, <-done)
}

func TestEnqueueRejectsUntypedJobs(t *testing.T) {
	client := jobx.NewClient(newMemQueue(), logx.Discard())

	_, err := client.Enqueue(context.Background(), jobx.Job{})
	assert.True(t, errx.HasCode(err, jobx.CodeInvalidJob))

	_, err = jobx.NewJob("", "q", nil)
	assert.True(t, errx.HasCode(err, jobx.CodeInvalidJob))
}

func TestDecodeRejectsBadPayload(t *testing.T) {
	_, err := jobx.Decode[greeting](&jobx.JobInfo{ID: "1", Payload: []byte("not json")})
	assert.True(t, errx.HasCode(err, jobx.CodeInvalidPayload))
}

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	require.NoError(t, c.Write(&m))
	return m.GetCounter().GetValue()
}

func TestClientRecoversPanickingHandlers(t *testing.T) {
	q := newMemQueue()
	client := jobx.NewClient(q, logx.Discard(),
		jobx.WithDequeueTimeout(10*time.Millisecond),
		jobx.WithPollInterval(10*time.Millisecond),
		jobx.WithJobTimeout(time.Second),
		jobx.WithMetrics(prometheus.NewRegistry()))

	client.Register("explode", func(context.Context, *jobx.JobInfo) error {
		panic("template missing")
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- client.Start(ctx) }()

	job, err := jobx.NewJob("explode", "", nil)
	require.NoError(t, err)
	job.MaxRetries = 1
	_, err = client.Enqueue(ctx, job)
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		_, failed, retried := q.snapshot()
		return len(failed) == 1 && len(retried) == 0
	}, 2*time.Second, 10*time.Millisecond)
	require.Eventually(t, func() bool {
		return counterValue(t, client.Outcomes("explode", jobx.OutcomeFailed)) == 1
	}, time.Second, 10*time.Millisecond)

	cancel()
	require.NoError(t, <-done)
}

func TestClientCountsUnhandledJobs(t *testing.T) {
	q := newMemQueue()
	client := jobx.NewClient(q, logx.Discard(),
		jobx.WithDequeueTimeout(10*time.Millisecond),
		jobx.WithPollInterval(10*time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- client.Start(ctx) }()

	job, err := jobx.NewJob("orphan", "", nil)
	require.NoError(t, err)
	_, err = client.Enqueue(ctx, job)
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		return counterValue(t, client.Outcomes("orphan", jobx.OutcomeUnhandled)) == 1
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	require.NoError(t, <-done)
}
