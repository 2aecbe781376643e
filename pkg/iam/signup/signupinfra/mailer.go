package signupinfra

import (
	"context"
	"embed"
	"time"

	"github.com/ItmeRoa/Expense-Tracking-App/pkg/asyncx"
	"github.com/ItmeRoa/Expense-Tracking-App/pkg/fsx"
	"github.com/ItmeRoa/Expense-Tracking-App/pkg/iam/signup"
	"github.com/ItmeRoa/Expense-Tracking-App/pkg/logx"
	"github.com/ItmeRoa/Expense-Tracking-App/pkg/notifx"
)

// VerificationTemplate is the template name rendered for verification emails.
const VerificationTemplate = "email_verification"

//go:embed templates/*.html
var embeddedTemplates embed.FS

// EmbeddedTemplates exposes the bundled templates under "templates".
func EmbeddedTemplates() fsx.FileReader {
	return fsx.NewIOFS(embeddedTemplates)
}

// LoadTemplates registers the templates found in dir of files. The bundled
// verification template is registered first so a remote source only needs to
// carry overrides.
func LoadTemplates(ctx context.Context, registry *notifx.TemplateRegistry, files fsx.FileReader, dir string) ([]string, error) {
	names, err := registry.Load(ctx, EmbeddedTemplates(), "templates")
	if err != nil {
		return names, err
	}
	if files == nil {
		return names, nil
	}
	extra, err := registry.Load(ctx, files, dir)
	return append(names, extra...), err
}

// NotifxMailer renders and sends verification emails inline.
type NotifxMailer struct {
	client  *notifx.Client
	subject string
}

func NewNotifxMailer(client *notifx.Client, subject string) *NotifxMailer {
	if subject == "" {
		subject = "Email Verification"
	}
	return &NotifxMailer{client: client, subject: subject}
}

func (m *NotifxMailer) SendVerification(ctx context.Context, email signup.VerificationEmail) error {
	return m.client.SendTemplatedEmail(ctx, VerificationTemplate, email, notifx.EmailMessage{
		To:      []string{email.To},
		Subject: m.subject,
	}, notifx.WithTags(map[string]string{"category": "email_verification"}))
}

const (
	asyncAttempts     = 3
	asyncInitialDelay = 200 * time.Millisecond
)

// AsyncMailer hands each email to a detached goroutine bounded by timeout and
// returns immediately. Sends are retried with backoff and the final failure is
// logged.
type AsyncMailer struct {
	next    signup.Mailer
	timeout time.Duration
	logger  *logx.Logger
}

func NewAsyncMailer(next signup.Mailer, timeout time.Duration, logger *logx.Logger) *AsyncMailer {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &AsyncMailer{next: next, timeout: timeout, logger: logger.Named("async_mailer")}
}

func (m *AsyncMailer) SendVerification(ctx context.Context, email signup.VerificationEmail) error {
	asyncx.Detach(ctx, m.timeout,
		func(ctx context.Context) error {
			_, err := asyncx.RetryWithBackoff(ctx, asyncAttempts, asyncInitialDelay, func(ctx context.Context) (struct{}, error) {
				return struct{}{}, m.next.SendVerification(ctx, email)
			})
			return err
		},
		func(err error) {
			m.logger.WithError(err).WithField("to", email.To).Error("Verification email failed")
		},
	)
	return nil
}
