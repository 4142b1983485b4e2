// Package email sends transactional messages through a provider-agnostic
// EmailSender interface.
//
// Two implementations are provided:
//   - a Postmark sender (NewPostmarkClient) for production delivery
//   - DevSender, which writes every message to disk as HTML plus a JSON envelope
//
// NewSender picks between them based on Config: Postmark when both tokens are
// set, DevSender otherwise.
//
// # Usage
//
//	cfg := email.Config{
//	    PostmarkServerToken:  "server-token",
//	    PostmarkAccountToken: "account-token",
//	    SenderEmail:          "noreply@example.com",
//	    SupportEmail:         "support@example.com",
//	}
//
//	sender, err := email.NewSender(cfg)
//	if err != nil {
//	    // handle configuration error
//	}
//
//	html, err := templates.Render(ctx, templates.Layout("Activate your account",
//	    templates.Text("Your activation code:"),
//	    templates.OTP("4821"),
//	))
//
//	err = sender.SendEmail(ctx, email.SendEmailParams{
//	    SendTo:   "user@example.com",
//	    Subject:  "Activate your account",
//	    BodyHTML: html,
//	    Tag:      "activation-mail",
//	})
//
// # Error Handling
//
//   - ErrInvalidConfig: configuration validation failed
//   - ErrInvalidParams: message parameters validation failed
//   - ErrFailedToSendEmail: delivery failed
//
// All errors can be checked with errors.Is.
package email
