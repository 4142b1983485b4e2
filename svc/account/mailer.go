package account

import (
	"context"
	"fmt"
	"time"

	"github.com/a-h/templ"

	"github.com/dmitrymomot/accountkit/pkg/email"
	"github.com/dmitrymomot/accountkit/pkg/email/templates"
)

// Template names understood by EmailMailer.
const (
	TemplateActivation     = "activation-mail"
	TemplateForgotPassword = "forgot-password"
)

// Mail is the outbound message contract. CodeOrLink holds the activation
// code or the reset link depending on Template.
type Mail struct {
	Recipient  string
	Subject    string
	Template   string
	Name       string
	CodeOrLink string
}

// Mailer delivers account mail.
type Mailer interface {
	SendMail(ctx context.Context, mail Mail) error
}

// EmailMailer renders Mail with the built-in templates and hands it to an email.EmailSender.
type EmailMailer struct {
	sender   email.EmailSender
	validity map[string]time.Duration
}

// NewEmailMailer creates a Mailer on top of sender. activationTTL and resetTTL
// are only used to tell the recipient how long the code or link stays valid.
func NewEmailMailer(sender email.EmailSender, activationTTL, resetTTL time.Duration) *EmailMailer {
	return &EmailMailer{
		sender: sender,
		validity: map[string]time.Duration{
			TemplateActivation:     activationTTL,
			TemplateForgotPassword: resetTTL,
		},
	}
}

// SendMail renders mail.Template and sends it.
func (m *EmailMailer) SendMail(ctx context.Context, mail Mail) error {
	body, err := m.component(mail)
	if err != nil {
		return err
	}

	html, err := templates.Render(ctx, body)
	if err != nil {
		return fmt.Errorf("failed to render %s: %w", mail.Template, err)
	}

	return m.sender.SendEmail(ctx, email.SendEmailParams{
		SendTo:   mail.Recipient,
		Subject:  mail.Subject,
		BodyHTML: html,
		Tag:      mail.Template,
	})
}

func (m *EmailMailer) component(mail Mail) (templ.Component, error) {
	expiry := templates.TextSecondary(fmt.Sprintf("This expires in %s.", humanDuration(m.validity[mail.Template])))

	switch mail.Template {
	case TemplateActivation:
		return templates.Layout(mail.Subject,
			templates.Heading("Hello "+mail.Name+"!"),
			templates.Text("Thank you for registering. Use the code below to activate your account."),
			templates.OTP(mail.CodeOrLink),
			expiry,
		), nil
	case TemplateForgotPassword:
		return templates.Layout(mail.Subject,
			templates.Heading("Hello "+mail.Name+"!"),
			templates.Text("We received a request to reset your password. Click the button below to choose a new one."),
			templates.PrimaryButton("Reset password", mail.CodeOrLink),
			templates.Text("If you did not request this, you can ignore this email."),
			expiry,
		), nil
	default:
		return nil, fmt.Errorf("unknown mail template %q", mail.Template)
	}
}

func humanDuration(d time.Duration) string {
	switch {
	case d <= 0:
		return "a few minutes"
	case d%time.Hour == 0:
		return pluralize(int(d/time.Hour), "hour")
	case d%time.Minute == 0:
		return pluralize(int(d/time.Minute), "minute")
	default:
		return d.String()
	}
}

func pluralize(n int, unit string) string {
	if n == 1 {
		return "1 " + unit
	}
	return fmt.Sprintf("%d %ss", n, unit)
}
