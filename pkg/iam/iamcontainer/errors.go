package iamcontainer

import "github.com/ItmeRoa/Expense-Tracking-App/pkg/errx"

// emailQueue is the jobx queue verification emails are enqueued on.
const emailQueue = "email"

func errMissingQueue() *errx.Error {
	return errx.New("mailer mode queue requires a job queue", errx.TypeInternal)
}
