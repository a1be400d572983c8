// Package mailer sends transactional email over SMTP.
package mailer

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"log/slog"

	gomail "github.com/wneessen/go-mail"
)

//go:embed templates/*.html
var templateFS embed.FS

// Config holds SMTP connection settings. Port 465 uses implicit TLS.
type Config struct {
	Host     string
	Port     int
	Email    string
	Password string
}

// Mailer sends email through a single SMTP account.
type Mailer struct {
	client    *gomail.Client
	from      string
	logger    *slog.Logger
	templates *template.Template
}

// New creates a Mailer for the given SMTP account. Returns an error if the
// config is incomplete or the templates fail to parse.
func New(cfg Config, logger *slog.Logger) (*Mailer, error) {
	if cfg.Host == "" || cfg.Port == 0 || cfg.Email == "" || cfg.Password == "" {
		return nil, fmt.Errorf("mailer: incomplete SMTP configuration")
	}
	if logger == nil {
		logger = slog.Default()
	}

	templates, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("mailer: parse templates: %w", err)
	}

	opts := []gomail.Option{
		gomail.WithPort(cfg.Port),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(cfg.Email),
		gomail.WithPassword(cfg.Password),
	}
	if cfg.Port == 465 {
		opts = append(opts, gomail.WithSSLPort(false))
	} else {
		opts = append(opts, gomail.WithTLSPolicy(gomail.TLSMandatory))
	}
	client, err := gomail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("mailer: client: %w", err)
	}

	return &Mailer{
		client:    client,
		from:      cfg.Email,
		logger:    logger,
		templates: templates,
	}, nil
}

// SendVerificationEmail sends the verification email containing link to the
// given address.
func (m *Mailer) SendVerificationEmail(ctx context.Context, to, link string) error {
	var body bytes.Buffer
	data := struct{ VerificationLink string }{VerificationLink: link}
	if err := m.templates.ExecuteTemplate(&body, "verification_email.html", data); err != nil {
		return fmt.Errorf("mailer: render verification email: %w", err)
	}
	return m.send(ctx, to, "Verify Your Email Address", body.String())
}

func (m *Mailer) send(ctx context.Context, to, subject, htmlBody string) error {
	msg := gomail.NewMsg()
	if err := msg.From(m.from); err != nil {
		return fmt.Errorf("mailer: from address: %w", err)
	}
	if err := msg.To(to); err != nil {
		return fmt.Errorf("mailer: to address: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(gomail.TypeTextHTML, htmlBody)

	if err := m.client.DialAndSendWithContext(ctx, msg); err != nil {
		m.logger.Error("failed to send email", "to", to, "subject", subject, "error", err)
		return fmt.Errorf("mailer: send: %w", err)
	}
	m.logger.Info("email sent", "to", to, "subject", subject)
	return nil
}
