package email

import (
	"context"
	"fmt"
	"html"
	"net/http"

	"github.com/rs/zerolog"
	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
)

var (
	sendgridHost     = "https://api.sendgrid.com"
	sendgridEndpoint = "/v3/mail/send"
)

// EmailService defines the interface for email operations
type EmailService interface {
	SendWelcomeEmail(ctx context.Context, toEmail, toName, roleID string) error
	SendApplicationConfirmation(ctx context.Context, toEmail, toName, applicationType string, applicationID int64) error
	SendContactMessage(ctx context.Context, fromName, fromEmail, message string) error
}

// Config holds sender identity and the SendGrid key. An empty APIKey keeps
// mail in the log instead of sending it.
type Config struct {
	APIKey     string
	FromName   string
	FromEmail  string
	Admissions string
	PortalURL  string
}

// Message is a single outgoing mail
type Message struct {
	ToName  string
	ToEmail string
	ReplyTo string
	Subject string
	Text    string
	HTML    string
}

// Transport delivers a rendered message.
type Transport interface {
	Deliver(ctx context.Context, msg Message) error
}

// EmailServiceImpl renders portal mails and hands them to a Transport
type EmailServiceImpl struct {
	config    Config
	transport Transport
	logger    zerolog.Logger
}

// NewEmailService picks the SendGrid transport when a key is configured and
// the log transport otherwise.
func NewEmailService(config Config, logger zerolog.Logger) *EmailServiceImpl {
	var transport Transport = &LogTransport{logger: logger}
	if config.APIKey != "" {
		transport = &SendGridTransport{
			key:  config.APIKey,
			from: sgmail.NewEmail(config.FromName, config.FromEmail),
		}
	} else {
		logger.Warn().Msg("SendGrid API key not configured - emails will be logged instead of sent")
	}
	return NewEmailServiceWithTransport(config, transport, logger)
}

// NewEmailServiceWithTransport creates a service with an explicit transport.
func NewEmailServiceWithTransport(config Config, transport Transport, logger zerolog.Logger) *EmailServiceImpl {
	return &EmailServiceImpl{config: config, transport: transport, logger: logger}
}

// SendWelcomeEmail tells a new account holder their role ID.
func (s *EmailServiceImpl) SendWelcomeEmail(ctx context.Context, toEmail, toName, roleID string) error {
	subject := "Your Greenfield University portal account"
	text := fmt.Sprintf("Hello %s,\n\nAn account has been created for you on the Greenfield University portal.\nYour ID is %s. Sign in at %s/portal.\n",
		toName, roleID, s.config.PortalURL)
	body := fmt.Sprintf(`<p>Hello %s,</p>
<p>An account has been created for you on the Greenfield University portal.</p>
<p>Your ID is <strong>%s</strong>. <a href="%s/portal">Sign in</a>.</p>`,
		html.EscapeString(toName), html.EscapeString(roleID), s.config.PortalURL)

	return s.transport.Deliver(ctx, Message{ToName: toName, ToEmail: toEmail, Subject: subject, Text: text, HTML: body})
}

// SendApplicationConfirmation acknowledges a submitted application.
func (s *EmailServiceImpl) SendApplicationConfirmation(ctx context.Context, toEmail, toName, applicationType string, applicationID int64) error {
	subject := fmt.Sprintf("Application #%d received", applicationID)
	text := fmt.Sprintf("Dear %s,\n\nWe received your %s application (reference #%d). The admissions office will contact you about next steps.\n",
		toName, applicationType, applicationID)
	body := fmt.Sprintf(`<p>Dear %s,</p>
<p>We received your %s application (reference <strong>#%d</strong>).</p>
<p>The admissions office will contact you about next steps.</p>`,
		html.EscapeString(toName), html.EscapeString(applicationType), applicationID)

	return s.transport.Deliver(ctx, Message{ToName: toName, ToEmail: toEmail, Subject: subject, Text: text, HTML: body})
}

// SendContactMessage forwards a contact form entry to admissions.
func (s *EmailServiceImpl) SendContactMessage(ctx context.Context, fromName, fromEmail, message string) error {
	subject := "Contact form: " + fromName
	text := fmt.Sprintf("From: %s <%s>\n\n%s\n", fromName, fromEmail, message)
	body := fmt.Sprintf("<p>From: %s &lt;%s&gt;</p><p>%s</p>",
		html.EscapeString(fromName), html.EscapeString(fromEmail), html.EscapeString(message))

	return s.transport.Deliver(ctx, Message{
		ToName:  "Admissions",
		ToEmail: s.config.Admissions,
		ReplyTo: fromEmail,
		Subject: subject,
		Text:    text,
		HTML:    body,
	})
}

// SendGridTransport sends through the SendGrid v3 API
type SendGridTransport struct {
	key  string
	from *sgmail.Email
}

// Deliver implements Transport.
func (t *SendGridTransport) Deliver(ctx context.Context, msg Message) error {
	p := sgmail.NewPersonalization()
	p.Subject = msg.Subject
	p.AddTos(sgmail.NewEmail(msg.ToName, msg.ToEmail))

	m := sgmail.NewV3Mail()
	m.SetFrom(t.from)
	m.AddPersonalizations(p)
	if msg.ReplyTo != "" {
		m.SetReplyTo(sgmail.NewEmail("", msg.ReplyTo))
	}
	m.AddContent(
		sgmail.NewContent("text/plain", msg.Text),
		sgmail.NewContent("text/html", msg.HTML),
	)

	req := sendgrid.GetRequest(t.key, sendgridEndpoint, sendgridHost)
	req.Method = http.MethodPost
	req.Body = sgmail.GetRequestBody(m)

	if err := ctx.Err(); err != nil {
		return err
	}
	res, err := sendgrid.API(req)
	if err != nil {
		return fmt.Errorf("sendgrid request failed: %w", err)
	}
	if res.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("sendgrid rejected message: status %d: %s", res.StatusCode, res.Body)
	}
	return nil
}

// LogTransport writes messages to the log. Used when no provider is configured.
type LogTransport struct {
	logger zerolog.Logger
}

// Deliver implements Transport.
func (t *LogTransport) Deliver(_ context.Context, msg Message) error {
	t.logger.Info().
		Str("to", msg.ToEmail).
		Str("subject", msg.Subject).
		Str("body", msg.Text).
		Msg("Email not sent (no provider configured)")
	return nil
}
