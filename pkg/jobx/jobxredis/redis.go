package jobxredis

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/ItmeRoa/Expense-Tracking-App/pkg/jobx"
)

// Queue implements jobx.Queue on Redis: a list per ready queue, a sorted set
// per queue for delayed retries and one string key per job.
type Queue struct {
	rdb    redis.Cmdable
	prefix string
	now    func() time.Time
	newID  func() string
}

// Option customizes a Queue.
type Option func(*Queue)

// WithKeyPrefix namespaces every key (default "jobx:").
func WithKeyPrefix(prefix string) Option {
	return func(q *Queue) { q.prefix = prefix }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(q *Queue) { q.now = now }
}

func NewQueue(rdb redis.Cmdable, opts ...Option) *Queue {
	q := &Queue{
		rdb:    rdb,
		prefix: "jobx:",
		now:    time.Now,
		newID:  func() string { return uuid.New().String() },
	}
	for _, o := range opts {
		o(q)
	}
	return q
}

func (q *Queue) queueKey(name string) string     { return q.prefix + "queue:" + name }
func (q *Queue) scheduledKey(name string) string { return q.prefix + "scheduled:" + name }
func (q *Queue) jobKey(id string) string         { return q.prefix + "job:" + id }

func (q *Queue) Enqueue(ctx context.Context, job jobx.Job) (string, error) {
	now := q.now().UTC()
	info := jobx.JobInfo{
		ID:         q.newID(),
		Type:       job.Type,
		Queue:      job.Queue,
		Payload:    job.Payload,
		Status:     jobx.JobStatusPending,
		MaxRetries: job.MaxRetries,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	data, err := json.Marshal(info)
	if err != nil {
		return "", ErrRegistry.NewWithCause(CodeCodec, err)
	}

	pipe := q.rdb.TxPipeline()
	pipe.Set(ctx, q.jobKey(info.ID), data, 0)
	pipe.LPush(ctx, q.queueKey(job.Queue), info.ID)
	if _, err := pipe.Exec(ctx); err != nil {
		return "", ErrRegistry.NewWithCause(CodeCommand, err).WithDetail("queue", job.Queue)
	}
	return info.ID, nil
}

func (q *Queue) GetJob(ctx context.Context, jobID string) (*jobx.JobInfo, error) {
	data, err := q.rdb.Get(ctx, q.jobKey(jobID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrRegistry.New(CodeNotFound).WithDetail("job_id", jobID)
	}
	if err != nil {
		return nil, ErrRegistry.NewWithCause(CodeCommand, err).WithDetail("job_id", jobID)
	}

	var info jobx.JobInfo
	if err := json.Unmarshal(data, &info); err != nil {
		return nil, ErrRegistry.NewWithCause(CodeCodec, err).WithDetail("job_id", jobID)
	}
	return &info, nil
}

// update loads a job, applies fn and writes it back.
func (q *Queue) update(ctx context.Context, jobID string, fn func(*jobx.JobInfo)) (*jobx.JobInfo, error) {
	info, err := q.GetJob(ctx, jobID)
	if err != nil {
		return nil, err
	}
	fn(info)
	info.UpdatedAt = q.now().UTC()

	data, err := json.Marshal(info)
	if err != nil {
		return nil, ErrRegistry.NewWithCause(CodeCodec, err).WithDetail("job_id", jobID)
	}
	if err := q.rdb.Set(ctx, q.jobKey(jobID), data, 0).Err(); err != nil {
		return nil, ErrRegistry.NewWithCause(CodeCommand, err).WithDetail("job_id", jobID)
	}
	return info, nil
}

// Dequeue blocks up to timeout; it returns (nil, nil) when nothing arrived.
func (q *Queue) Dequeue(ctx context.Context, queues []string, timeout time.Duration) (*jobx.JobInfo, error) {
	keys := make([]string, len(queues))
	for i, name := range queues {
		keys[i] = q.queueKey(name)
	}

	result, err := q.rdb.BRPop(ctx, timeout, keys...).Result()
	if errors.Is(err, redis.Nil) || ctx.Err() != nil {
		return nil, nil
	}
	if err != nil {
		return nil, ErrRegistry.NewWithCause(CodeCommand, err)
	}

	// result[0] is the list key, result[1] the job id.
	return q.update(ctx, result[1], func(info *jobx.JobInfo) {
		info.Status = jobx.JobStatusActive
		info.Attempts++
	})
}

func (q *Queue) Complete(ctx context.Context, jobID string) error {
	_, err := q.update(ctx, jobID, func(info *jobx.JobInfo) {
		info.Status = jobx.JobStatusCompleted
		info.Error = ""
	})
	return err
}

// Fail records errMsg and reports whether attempts remain.
func (q *Queue) Fail(ctx context.Context, jobID string, errMsg string) (bool, error) {
	var retry bool
	_, err := q.update(ctx, jobID, func(info *jobx.JobInfo) {
		retry = info.Attempts < info.MaxRetries
		info.Status = jobx.JobStatusFailed
		if retry {
			info.Status = jobx.JobStatusRetrying
		}
		info.Error = errMsg
	})
	if err != nil {
		return false, err
	}
	return retry, nil
}

// Retry schedules jobID to re-enter its queue after delay.
func (q *Queue) Retry(ctx context.Context, jobID string, delay time.Duration) error {
	info, err := q.GetJob(ctx, jobID)
	if err != nil {
		return err
	}

	score := float64(q.now().UTC().Add(delay).Unix())
	if err := q.rdb.ZAdd(ctx, q.scheduledKey(info.Queue), redis.Z{Score: score, Member: jobID}).Err(); err != nil {
		return ErrRegistry.NewWithCause(CodeCommand, err).WithDetail("job_id", jobID)
	}
	return nil
}

// promoteScript moves due members of the scheduled set onto the ready list
// atomically.
var promoteScript = redis.NewScript(`
local ids = redis.call('ZRANGEBYSCORE', KEYS[1], '-inf', ARGV[1])
for _, id in ipairs(ids) do
    redis.call('LPUSH', KEYS[2], id)
end
if #ids > 0 then
    redis.call('ZREMRANGEBYSCORE', KEYS[1], '-inf', ARGV[1])
end
return #ids
`)

func (q *Queue) PromoteScheduled(ctx context.Context, queues []string) error {
	now := strconv.FormatInt(q.now().UTC().Unix(), 10)
	for _, name := range queues {
		err := promoteScript.Run(ctx, q.rdb, []string{q.scheduledKey(name), q.queueKey(name)}, now).Err()
		if err != nil && !errors.Is(err, redis.Nil) {
			return ErrRegistry.NewWithCause(CodeCommand, err).WithDetail("queue", name)
		}
	}
	return nil
}
