package utils

import (
	"context"
	"fmt"
	"log"

	"github.com/wneessen/go-mail"

	"storefront_back_end/internal/config"
)

// Message est un e-mail prêt à partir (HTML + alternative texte).
type Message struct {
	To      string
	Subject string
	HTML    string
	Text    string
	ReplyTo string
}

// Sender envoie un e-mail. Chaque fournisseur a son implémentation.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// NewSender construit le driver choisi par EMAIL_PROVIDER.
func NewSender(cfg config.EmailConfig) (Sender, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	switch cfg.Provider {
	case "smtp":
		return NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.From), nil
	case "resend":
		return NewResendSender(cfg.ResendAPIKey, cfg.From), nil
	case "sendgrid":
		return NewSendGridSender(cfg.SendGridAPIKey, cfg.From)
	case "postmark":
		return NewPostmarkSender(cfg.PostmarkToken, cfg.From), nil
	case "log":
		return LogSender{From: cfg.From}, nil
	}
	return nil, fmt.Errorf("%w: EMAIL_PROVIDER inconnu %q", config.ErrMissingEmailConfig, cfg.Provider)
}

// =============================================
// SMTP (go-mail)
// =============================================

// SMTPSender : STARTTLS obligatoire, TLS implicite sur le port 465.
type SMTPSender struct {
	host     string
	port     int
	username string
	password string
	from     string
}

func NewSMTPSender(host string, port int, username, password, from string) *SMTPSender {
	if port == 0 {
		port = 587
	}
	return &SMTPSender{host: host, port: port, username: username, password: password, from: from}
}

func (s *SMTPSender) buildMessage(m Message) (*mail.Msg, error) {
	msg := mail.NewMsg()
	if err := msg.From(s.from); err != nil {
		return nil, fmt.Errorf("expéditeur invalide: %w", err)
	}
	if err := msg.To(m.To); err != nil {
		return nil, fmt.Errorf("destinataire invalide: %w", err)
	}
	if m.ReplyTo != "" {
		if err := msg.ReplyTo(m.ReplyTo); err != nil {
			return nil, fmt.Errorf("reply-to invalide: %w", err)
		}
	}
	msg.Subject(m.Subject)
	if m.Text != "" {
		msg.SetBodyString(mail.TypeTextPlain, m.Text)
		msg.AddAlternativeString(mail.TypeTextHTML, m.HTML)
	} else {
		msg.SetBodyString(mail.TypeTextHTML, m.HTML)
	}
	return msg, nil
}

func (s *SMTPSender) clientOptions() []mail.Option {
	opts := []mail.Option{
		mail.WithPort(s.port),
		mail.WithSMTPAuth(mail.SMTPAuthLogin),
		mail.WithUsername(s.username),
		mail.WithPassword(s.password),
	}
	if s.port == 465 {
		return append(opts, mail.WithSSL())
	}
	return append(opts, mail.WithTLSPolicy(mail.TLSMandatory))
}

func (s *SMTPSender) Send(ctx context.Context, m Message) error {
	msg, err := s.buildMessage(m)
	if err != nil {
		return err
	}

	client, err := mail.NewClient(s.host, s.clientOptions()...)
	if err != nil {
		return err
	}

	log.Println("📤 Envoi de l'e-mail à", m.To)
	return client.DialAndSendWithContext(ctx, msg)
}
