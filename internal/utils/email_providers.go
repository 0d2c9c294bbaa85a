package utils

import (
	"context"
	"fmt"
	"log"
	netmail "net/mail"

	"github.com/keighl/postmark"
	"github.com/resend/resend-go/v2"
	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
)

// =============================================
// RESEND
// =============================================

type ResendSender struct {
	client *resend.Client
	from   string
}

func NewResendSender(apiKey, from string) *ResendSender {
	return &ResendSender{client: resend.NewClient(apiKey), from: from}
}

func (s *ResendSender) Send(ctx context.Context, m Message) error {
	res, err := s.client.Emails.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    s.from,
		To:      []string{m.To},
		Subject: m.Subject,
		Html:    m.HTML,
		Text:    m.Text,
		ReplyTo: m.ReplyTo,
	})
	if err != nil {
		return fmt.Errorf("resend: %w", err)
	}
	log.Printf("📧 E-mail envoyé via Resend à %s (id %s)", m.To, res.Id)
	return nil
}

// =============================================
// SENDGRID
// =============================================

type SendGridSender struct {
	client *sendgrid.Client
	from   *sgmail.Email
}

func NewSendGridSender(apiKey, from string) (*SendGridSender, error) {
	addr, err := netmail.ParseAddress(from)
	if err != nil {
		return nil, fmt.Errorf("FROM_EMAIL invalide %q: %w", from, err)
	}
	return &SendGridSender{
		client: sendgrid.NewSendClient(apiKey),
		from:   sgmail.NewEmail(addr.Name, addr.Address),
	}, nil
}

func (s *SendGridSender) Send(ctx context.Context, m Message) error {
	to, err := netmail.ParseAddress(m.To)
	if err != nil {
		return fmt.Errorf("destinataire invalide %q: %w", m.To, err)
	}

	msg := sgmail.NewSingleEmail(s.from, m.Subject, sgmail.NewEmail(to.Name, to.Address), m.Text, m.HTML)
	if m.ReplyTo != "" {
		msg.SetReplyTo(sgmail.NewEmail("", m.ReplyTo))
	}

	res, err := s.client.SendWithContext(ctx, msg)
	if err != nil {
		return fmt.Errorf("sendgrid: %w", err)
	}
	if res.StatusCode >= 300 {
		return fmt.Errorf("sendgrid: statut %d: %s", res.StatusCode, res.Body)
	}
	log.Printf("📧 E-mail envoyé via SendGrid à %s", m.To)
	return nil
}

// =============================================
// POSTMARK
// =============================================

type PostmarkSender struct {
	client *postmark.Client
	from   string
}

func NewPostmarkSender(serverToken, from string) *PostmarkSender {
	return &PostmarkSender{client: postmark.NewClient(serverToken, ""), from: from}
}

// Send n'utilise pas ctx : le client Postmark ne le prend pas en charge.
func (s *PostmarkSender) Send(_ context.Context, m Message) error {
	_, err := s.client.SendEmail(postmark.Email{
		From:     s.from,
		To:       m.To,
		Subject:  m.Subject,
		HtmlBody: m.HTML,
		TextBody: m.Text,
		ReplyTo:  m.ReplyTo,
	})
	if err != nil {
		return fmt.Errorf("postmark: %w", err)
	}
	log.Printf("📧 E-mail envoyé via Postmark à %s", m.To)
	return nil
}

// =============================================
// LOG (développement)
// =============================================

// LogSender n'envoie rien : il écrit l'e-mail dans les logs.
type LogSender struct {
	From string
}

func (s LogSender) Send(_ context.Context, m Message) error {
	log.Printf("📧 [log] %s → %s : %s\n%s", s.From, m.To, m.Subject, m.Text)
	return nil
}
