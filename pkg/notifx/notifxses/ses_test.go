package notifxses_test

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ItmeRoa/Expense-Tracking-App/pkg/errx"
	"github.com/ItmeRoa/Expense-Tracking-App/pkg/notifx"
	"github.com/ItmeRoa/Expense-Tracking-App/pkg/notifx/notifxses"
)

type fakeSES struct {
	input *ses.SendEmailInput
	err   error
}

func (f *fakeSES) SendEmail(_ context.Context, in *ses.SendEmailInput, _ ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
	f.input = in
	if f.err != nil {
		return nil, f.err
	}
	return &ses.SendEmailOutput{MessageId: aws.String("m-1")}, nil
}

func TestSESProviderBuildsInput(t *testing.T) {
	api := &fakeSES{}
	p := notifxses.NewSESProvider(api, "noreply@roa.io")

	err := p.SendEmail(context.Background(), notifx.EmailMessage{
		To:       []string{"ana@example.com"},
		Subject:  "Email Verification",
		HTMLBody: "<p>123456</p>",
	}, notifx.WithConfigurationSet("tracking"), notifx.WithTags(map[string]string{"flow": "signup", "app": "et"}))
	require.NoError(t, err)

	in := api.input
	require.NotNil(t, in)
	assert.Equal(t, "noreply@roa.io", aws.ToString(in.Source))
	assert.Equal(t, []string{"ana@example.com"}, in.Destination.ToAddresses)
	assert.Equal(t, "<p>123456</p>", aws.ToString(in.Message.Body.Html.Data))
	assert.Nil(t, in.Message.Body.Text)
	assert.Equal(t, "tracking", aws.ToString(in.ConfigurationSetName))
	require.Len(t, in.Tags, 2)
	assert.Equal(t, "app", aws.ToString(in.Tags[0].Name))
}

func TestSESProviderWrapsFailures(t *testing.T) {
	p := notifxses.NewSESProvider(&fakeSES{err: errors.New("throttled")}, "noreply@roa.io")

	err := p.SendEmail(context.Background(), notifx.EmailMessage{To: []string{"a@b.io"}, Subject: "s"})
	assert.True(t, errx.HasCode(err, notifxses.CodeSendFailed))
}
