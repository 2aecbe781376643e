package signupinfra

import (
	"context"

	"github.com/ItmeRoa/Expense-Tracking-App/pkg/iam/signup"
	"github.com/ItmeRoa/Expense-Tracking-App/pkg/jobx"
)

// JobTypeVerificationEmail is processed by VerificationEmailHandler.
const JobTypeVerificationEmail = "signup.verification_email"

// QueueMailer enqueues verification emails for a jobx worker.
type QueueMailer struct {
	jobs  jobx.Enqueuer
	queue string
}

func NewQueueMailer(jobs jobx.Enqueuer, queue string) *QueueMailer {
	return &QueueMailer{jobs: jobs, queue: queue}
}

func (m *QueueMailer) SendVerification(ctx context.Context, email signup.VerificationEmail) error {
	job, err := jobx.NewJob(JobTypeVerificationEmail, m.queue, email)
	if err != nil {
		return err
	}
	_, err = m.jobs.Enqueue(ctx, job)
	return err
}

// VerificationEmailHandler decodes queued emails and delivers them through
// next. Errors are returned so jobx can retry.
func VerificationEmailHandler(next signup.Mailer) jobx.HandlerFunc {
	return func(ctx context.Context, job *jobx.JobInfo) error {
		email, err := jobx.Decode[signup.VerificationEmail](job)
		if err != nil {
			return err
		}
		return next.SendVerification(ctx, email)
	}
}
