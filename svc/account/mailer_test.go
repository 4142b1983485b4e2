package account_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/accountkit/pkg/email"
	"github.com/dmitrymomot/accountkit/svc/account"
)

type captureSender struct {
	sent []email.SendEmailParams
	err  error
}

func (c *captureSender) SendEmail(_ context.Context, p email.SendEmailParams) error {
	c.sent = append(c.sent, p)
	return c.err
}

func TestEmailMailer(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("activation mail shows the code", func(t *testing.T) {
		t.Parallel()
		sender := &captureSender{}
		m := account.NewEmailMailer(sender, 5*time.Minute, time.Hour)

		err := m.SendMail(ctx, account.Mail{
			Recipient:  "alice@example.com",
			Subject:    account.SubjectActivation,
			Template:   account.TemplateActivation,
			Name:       "Alice",
			CodeOrLink: "4821",
		})
		require.NoError(t, err)
		require.Len(t, sender.sent, 1)

		p := sender.sent[0]
		assert.Equal(t, "alice@example.com", p.SendTo)
		assert.Equal(t, account.SubjectActivation, p.Subject)
		assert.Equal(t, account.TemplateActivation, p.Tag)
		assert.Contains(t, p.BodyHTML, "Hello Alice!")
		assert.Contains(t, p.BodyHTML, "4821")
		assert.Contains(t, p.BodyHTML, "5 minutes")
	})

	t.Run("reset mail links to the client", func(t *testing.T) {
		t.Parallel()
		sender := &captureSender{}
		m := account.NewEmailMailer(sender, 5*time.Minute, time.Hour)

		err := m.SendMail(ctx, account.Mail{
			Recipient:  "alice@example.com",
			Subject:    account.SubjectForgotPassword,
			Template:   account.TemplateForgotPassword,
			Name:       "Alice",
			CodeOrLink: "https://app.example.com/reset-password?token=abc",
		})
		require.NoError(t, err)
		assert.Contains(t, sender.sent[0].BodyHTML, `href="https://app.example.com/reset-password?token=abc"`)
		assert.Contains(t, sender.sent[0].BodyHTML, "1 hour")
	})

	t.Run("names are escaped", func(t *testing.T) {
		t.Parallel()
		sender := &captureSender{}
		m := account.NewEmailMailer(sender, time.Minute, time.Minute)

		err := m.SendMail(ctx, account.Mail{
			Recipient: "a@example.com", Subject: "s", Template: account.TemplateActivation,
			Name: "<script>", CodeOrLink: "1234",
		})
		require.NoError(t, err)
		assert.NotContains(t, sender.sent[0].BodyHTML, "<script>")
	})

	t.Run("unknown template", func(t *testing.T) {
		t.Parallel()
		sender := &captureSender{}
		err := account.NewEmailMailer(sender, time.Minute, time.Minute).SendMail(ctx, account.Mail{Template: "welcome"})
		require.Error(t, err)
		assert.Empty(t, sender.sent)
	})

	t.Run("sender error is returned", func(t *testing.T) {
		t.Parallel()
		sender := &captureSender{err: email.ErrFailedToSendEmail}
		err := account.NewEmailMailer(sender, time.Minute, time.Minute).SendMail(ctx, account.Mail{
			Recipient: "a@example.com", Subject: "s", Template: account.TemplateActivation, CodeOrLink: "1234",
		})
		assert.ErrorIs(t, err, email.ErrFailedToSendEmail)
	})
}
