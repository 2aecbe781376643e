// Package asyncx provides the small set of concurrency helpers the service
// relies on.
//
// [AllSettled] fans out independent checks (the health endpoint checks the
// database, the cache and template storage this way) and always returns one
// [Result] per function.
//
// [Detach] moves work off the request path. The verification mailer uses it
// so the signup response never waits on the mail provider:
//
//	asyncx.Detach(ctx, 10*time.Second, func(ctx context.Context) error {
//	    return mailer.SendVerification(ctx, msg)
//	}, func(err error) {
//	    logger.WithError(err).Warn("verification email failed")
//	})
//
// [RetryWithBackoff] retries transient provider failures inside a detached
// send, and [WithTimeout] bounds a single health check.
package asyncx
