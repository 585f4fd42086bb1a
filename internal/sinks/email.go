package sinks

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"html/template"
	"net"
	"net/smtp"

	"github.com/bizmate/automation/pkg/config"
	"github.com/bizmate/automation/pkg/logger"
)

// SMTPEmailSink renders a named template and delivers it over SMTP.
type SMTPEmailSink struct {
	cfg       config.EmailConfig
	logger    *logger.Logger
	templates map[string]*template.Template
}

// NewSMTPEmailSink creates an email sink using the configured SMTP relay.
func NewSMTPEmailSink(cfg config.EmailConfig, log *logger.Logger) (*SMTPEmailSink, error) {
	templates, err := loadEmailTemplates()
	if err != nil {
		return nil, fmt.Errorf("failed to load email templates: %w", err)
	}

	return &SMTPEmailSink{
		cfg:       cfg,
		logger:    log,
		templates: templates,
	}, nil
}

// SendEmail renders the named template with data and sends the result.
func (s *SMTPEmailSink) SendEmail(ctx context.Context, to, subject, templateName string, data map[string]interface{}) error {
	if to == "" {
		return fmt.Errorf("email requires a recipient")
	}

	tmpl, ok := s.templates[templateName]
	if !ok {
		return fmt.Errorf("unknown email template: %q", templateName)
	}

	var body bytes.Buffer
	if err := tmpl.Execute(&body, data); err != nil {
		return fmt.Errorf("failed to render template %q: %w", templateName, err)
	}

	msg := fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/html; charset=UTF-8\r\n\r\n%s",
		s.cfg.FromAddress, to, subject, body.String(),
	)

	if err := s.deliver(ctx, to, []byte(msg)); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", to, err)
	}

	s.logger.Debug("Email sent",
		logger.String("to", to),
		logger.String("template", templateName),
	)
	return nil
}

// deliver speaks SMTP over a connection dialed under ctx. The context
// deadline is applied to the connection so a stalled relay cannot outlive the
// caller's timeout.
func (s *SMTPEmailSink) deliver(ctx context.Context, to string, msg []byte) error {
	addr := fmt.Sprintf("%s:%d", s.cfg.SMTPHost, s.cfg.SMTPPort)

	conn, err := (&net.Dialer{}).DialContext(ctx, "tcp", addr)
	if err != nil {
		return err
	}
	if deadline, ok := ctx.Deadline(); ok {
		conn.SetDeadline(deadline)
	}

	client, err := smtp.NewClient(conn, s.cfg.SMTPHost)
	if err != nil {
		conn.Close()
		return err
	}
	defer client.Close()

	if ok, _ := client.Extension("STARTTLS"); ok {
		if err := client.StartTLS(&tls.Config{ServerName: s.cfg.SMTPHost}); err != nil {
			return err
		}
	}
	if s.cfg.SMTPUser != "" {
		auth := smtp.PlainAuth("", s.cfg.SMTPUser, s.cfg.SMTPPassword, s.cfg.SMTPHost)
		if err := client.Auth(auth); err != nil {
			return err
		}
	}

	if err := client.Mail(s.cfg.FromAddress); err != nil {
		return err
	}
	if err := client.Rcpt(to); err != nil {
		return err
	}
	w, err := client.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(msg); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	return client.Quit()
}

// loadEmailTemplates parses the built-in message bodies. Rule actions select
// one by name through the "template" parameter.
func loadEmailTemplates() (map[string]*template.Template, error) {
	sources := map[string]string{
		"task_overdue": `
<h2>Task overdue</h2>
<p>The task <strong>{{.title}}</strong> is past its due date.</p>
{{if .due_date}}<p>Due: {{.due_date}}</p>{{end}}
<p>Please review and update its status.</p>`,

		"invoice_overdue": `
<h2>Invoice overdue</h2>
<p>Invoice <strong>{{.invoice_number}}</strong> for {{.client_name}} is overdue.</p>
{{if .amount}}<p>Amount: {{.amount}}</p>{{end}}`,

		"generic": `
<h2>{{.heading}}</h2>
<p>{{.body}}</p>`,
	}

	templates := make(map[string]*template.Template, len(sources))
	for name, src := range sources {
		tmpl, err := template.New(name).Parse(src)
		if err != nil {
			return nil, fmt.Errorf("failed to parse template %q: %w", name, err)
		}
		templates[name] = tmpl
	}
	return templates, nil
}
