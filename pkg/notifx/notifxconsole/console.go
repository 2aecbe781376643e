package notifxconsole

import (
	"context"
	"strings"

	"github.com/ItmeRoa/Expense-Tracking-App/pkg/logx"
	"github.com/ItmeRoa/Expense-Tracking-App/pkg/notifx"
)

// ConsoleProvider logs emails instead of sending them. Development only.
type ConsoleProvider struct {
	logger *logx.Logger
}

func NewConsoleProvider(logger *logx.Logger) *ConsoleProvider {
	return &ConsoleProvider{logger: logger.Named("notifx.console")}
}

func (p *ConsoleProvider) SendEmail(_ context.Context, msg notifx.EmailMessage, opts ...notifx.Option) error {
	so := notifx.ApplyOptions(opts)
	p.logger.WithFields(logx.Fields{
		"from":    msg.From,
		"to":      strings.Join(msg.To, ", "),
		"subject": msg.Subject,
		"tags":    so.Tags,
	}).Info("email sent (console)")

	if msg.HTMLBody != "" {
		p.logger.WithField("subject", msg.Subject).Debug(msg.HTMLBody)
	}
	return nil
}
