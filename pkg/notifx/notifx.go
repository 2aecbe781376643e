package notifx

import (
	"context"
	"fmt"
)

// EmailSender sends a single email. Providers implement it.
type EmailSender interface {
	SendEmail(ctx context.Context, msg EmailMessage, opts ...Option) error
}

// Client validates messages, renders templates and hands the result to a
// provider.
type Client struct {
	provider    EmailSender
	templates   *TemplateRegistry
	fromAddress string
	defaults    []Option
}

// NewClient creates a client. from is used when a message has no sender;
// defaults are applied before per-call options.
func NewClient(provider EmailSender, templates *TemplateRegistry, fromName, fromAddress string, defaults ...Option) *Client {
	if templates == nil {
		templates = NewTemplateRegistry()
	}
	from := fromAddress
	if fromName != "" && fromAddress != "" {
		from = fmt.Sprintf("%s <%s>", fromName, fromAddress)
	}
	return &Client{
		provider:    provider,
		templates:   templates,
		fromAddress: from,
		defaults:    defaults,
	}
}

func (c *Client) Templates() *TemplateRegistry {
	return c.templates
}

func (c *Client) SendEmail(ctx context.Context, msg EmailMessage, opts ...Option) error {
	if len(msg.To) == 0 {
		return ErrRegistry.New(CodeInvalidMessage).WithDetail("reason", "no recipients")
	}
	if msg.Subject == "" {
		return ErrRegistry.New(CodeInvalidMessage).WithDetail("reason", "empty subject")
	}
	if msg.From == "" {
		msg.From = c.fromAddress
	}
	all := append(append([]Option{}, c.defaults...), opts...)
	return c.provider.SendEmail(ctx, msg, all...)
}

// SendTemplatedEmail renders templateName into the HTML body and sends msg.
func (c *Client) SendTemplatedEmail(ctx context.Context, templateName string, data any, msg EmailMessage, opts ...Option) error {
	body, err := c.templates.Render(templateName, data)
	if err != nil {
		return err
	}
	msg.HTMLBody = body
	return c.SendEmail(ctx, msg, opts...)
}
