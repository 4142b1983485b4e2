package templates

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

// Layout wraps body components into a minimal, inline-styled HTML document.
func Layout(title string, body ...templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, `<!DOCTYPE html><html><head><meta charset="utf-8"><title>`+
			templ.EscapeString(title)+
			`</title></head><body style="margin:0;padding:24px;background:#f6f7f9;font-family:Helvetica,Arial,sans-serif;">`+
			`<table role="presentation" width="100%" cellpadding="0" cellspacing="0"><tr><td align="center">`+
			`<table role="presentation" width="560" cellpadding="0" cellspacing="0" style="background:#ffffff;border-radius:8px;padding:32px;">`+
			`<tr><td>`); err != nil {
			return err
		}
		for _, c := range body {
			if err := c.Render(ctx, w); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, `</td></tr></table></td></tr></table></body></html>`)
		return err
	})
}

// Heading renders a top-level title.
func Heading(text string) templ.Component {
	return element(`<h1 style="font-size:22px;color:#111827;margin:0 0 16px;">`, text, `</h1>`)
}

// Text renders a body paragraph.
func Text(text string) templ.Component {
	return element(`<p style="font-size:16px;line-height:24px;color:#374151;margin:0 0 16px;">`, text, `</p>`)
}

// TextSecondary renders a muted paragraph, e.g. expiry notes.
func TextSecondary(text string) templ.Component {
	return element(`<p style="font-size:13px;line-height:20px;color:#6b7280;margin:16px 0 0;">`, text, `</p>`)
}

// OTP renders a one-time code in a large monospace box.
func OTP(code string) templ.Component {
	return element(`<p style="font-family:Menlo,Consolas,monospace;font-size:32px;letter-spacing:8px;text-align:center;background:#f3f4f6;border-radius:6px;padding:16px;margin:0 0 16px;color:#111827;">`, code, `</p>`)
}

// PrimaryButton renders a call-to-action link styled as a button.
func PrimaryButton(label, href string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, `<p style="text-align:center;margin:24px 0;"><a href="`+
			templ.EscapeString(string(templ.URL(href)))+
			`" style="display:inline-block;background:#2563eb;color:#ffffff;text-decoration:none;padding:12px 24px;border-radius:6px;font-weight:bold;">`+
			templ.EscapeString(label)+`</a></p>`)
		return err
	})
}

func element(open, text, closing string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, open+templ.EscapeString(text)+closing)
		return err
	})
}
