package mail

import (
	"bytes"
	"context"
	"crypto/tls"
	"embed"
	"fmt"
	"html/template"
	"mime"
	"net"
	"net/smtp"
	"strings"
	"time"

	"go.uber.org/zap"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

const (
	dialTimeout = 8 * time.Second
	connTimeout = 15 * time.Second
)

type SMTPConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
	FromName string
}

// SMTPMailer sends account emails straight to an SMTP relay.
type SMTPMailer struct {
	cfg SMTPConfig
	log *zap.Logger
}

func NewSMTPMailer(cfg SMTPConfig, log *zap.Logger) *SMTPMailer {
	if cfg.Port == 0 {
		cfg.Port = 587
	}
	return &SMTPMailer{cfg: cfg, log: log}
}

func (s *SMTPMailer) SendPasswordReset(ctx context.Context, to string, link string) error {
	return s.send(ctx, to, "Reset Password Request", "reset-password.html", link)
}

func (s *SMTPMailer) SendVerifyEmail(ctx context.Context, to string, link string) error {
	return s.send(ctx, to, "Verify your email", "verify-email.html", link)
}

func (s *SMTPMailer) send(ctx context.Context, to, subject, tmpl, link string) error {
	body, err := render(tmpl, to, link)
	if err != nil {
		return err
	}
	msg := buildMessage(s.cfg.FromName, s.cfg.From, to, subject, body)

	addr := net.JoinHostPort(s.cfg.Host, fmt.Sprint(s.cfg.Port))
	s.log.Info("smtp sending", zap.String("to", to), zap.String("via", addr))
	if err := s.sendSMTP(ctx, addr, to, msg); err != nil {
		return err
	}
	s.log.Info("smtp sent", zap.String("to", to))
	return nil
}

func render(name, email, link string) (string, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, map[string]string{
		"Email": email,
		"Link":  link,
	}); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func buildMessage(fromName, from, to, subject, htmlBody string) []byte {
	fromHeader := from
	if fromName != "" {
		fromHeader = fmt.Sprintf("%s <%s>", mime.QEncoding.Encode("utf-8", fromName), from)
	}
	return []byte(strings.Join([]string{
		"From: " + fromHeader,
		"To: " + to,
		"Subject: " + mime.QEncoding.Encode("utf-8", subject),
		"MIME-Version: 1.0",
		`Content-Type: text/html; charset="UTF-8"`,
		"",
		htmlBody,
	}, "\r\n"))
}

func (s *SMTPMailer) sendSMTP(ctx context.Context, addr, to string, msg []byte) error {
	d := net.Dialer{Timeout: dialTimeout}
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return err
	}
	_ = conn.SetDeadline(time.Now().Add(connTimeout))

	c, err := smtp.NewClient(conn, s.cfg.Host)
	if err != nil {
		_ = conn.Close()
		return err
	}
	defer func() { _ = c.Quit() }()

	if ok, _ := c.Extension("STARTTLS"); ok {
		if err := c.StartTLS(&tls.Config{ServerName: s.cfg.Host}); err != nil {
			return err
		}
	}
	if s.cfg.User != "" {
		if err := c.Auth(smtp.PlainAuth("", s.cfg.User, s.cfg.Password, s.cfg.Host)); err != nil {
			return err
		}
	}

	if err := c.Mail(s.cfg.From); err != nil {
		return err
	}
	if err := c.Rcpt(to); err != nil {
		return err
	}
	w, err := c.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(msg); err != nil {
		_ = w.Close()
		return err
	}
	return w.Close()
}
