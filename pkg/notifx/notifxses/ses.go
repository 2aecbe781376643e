package notifxses

import (
	"context"
	"sort"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"

	"github.com/ItmeRoa/Expense-Tracking-App/pkg/notifx"
)

// API is the subset of the SES client used by the provider.
type API interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

// SESProvider implements notifx.EmailSender using AWS SES.
type SESProvider struct {
	client      API
	fromAddress string
}

func NewSESProvider(client API, fromAddress string) *SESProvider {
	return &SESProvider{
		client:      client,
		fromAddress: fromAddress,
	}
}

func utf8(s string) *types.Content {
	return &types.Content{Data: aws.String(s), Charset: aws.String("UTF-8")}
}

func (p *SESProvider) SendEmail(ctx context.Context, msg notifx.EmailMessage, opts ...notifx.Option) error {
	so := notifx.ApplyOptions(opts)

	from := msg.From
	if from == "" {
		from = p.fromAddress
	}

	body := &types.Body{}
	if msg.TextBody != "" {
		body.Text = utf8(msg.TextBody)
	}
	if msg.HTMLBody != "" {
		body.Html = utf8(msg.HTMLBody)
	}

	input := &ses.SendEmailInput{
		Source:      aws.String(from),
		Destination: &types.Destination{ToAddresses: msg.To},
		Message: &types.Message{
			Subject: utf8(msg.Subject),
			Body:    body,
		},
	}
	if msg.ReplyTo != "" {
		input.ReplyToAddresses = []string{msg.ReplyTo}
	}
	if so.ConfigurationSet != "" {
		input.ConfigurationSetName = aws.String(so.ConfigurationSet)
	}
	if len(so.Tags) > 0 {
		names := make([]string, 0, len(so.Tags))
		for k := range so.Tags {
			names = append(names, k)
		}
		sort.Strings(names)
		for _, k := range names {
			input.Tags = append(input.Tags, types.MessageTag{Name: aws.String(k), Value: aws.String(so.Tags[k])})
		}
	}

	if _, err := p.client.SendEmail(ctx, input); err != nil {
		return ErrRegistry.NewWithCause(CodeSendFailed, err).
			WithDetail("subject", msg.Subject)
	}
	return nil
}
