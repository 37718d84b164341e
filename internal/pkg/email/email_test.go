package email

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingTransport struct {
	messages []Message
}

func (r *recordingTransport) Deliver(_ context.Context, msg Message) error {
	r.messages = append(r.messages, msg)
	return nil
}

func newTestService() (*EmailServiceImpl, *recordingTransport) {
	transport := &recordingTransport{}
	cfg := Config{
		FromName:   "Greenfield University",
		FromEmail:  "no-reply@greenfield.edu",
		Admissions: "admissions@greenfield.edu",
		PortalURL:  "https://portal.greenfield.edu",
	}
	return NewEmailServiceWithTransport(cfg, transport, zerolog.Nop()), transport
}

func TestSendContactMessageGoesToAdmissions(t *testing.T) {
	svc, transport := newTestService()

	err := svc.SendContactMessage(context.Background(), "Pat <script>", "pat@example.com", "When is the open house?")
	require.NoError(t, err)
	require.Len(t, transport.messages, 1)

	msg := transport.messages[0]
	assert.Equal(t, "admissions@greenfield.edu", msg.ToEmail)
	assert.Equal(t, "pat@example.com", msg.ReplyTo)
	assert.Contains(t, msg.Text, "When is the open house?")
	assert.NotContains(t, msg.HTML, "<script>")
}

func TestSendApplicationConfirmation(t *testing.T) {
	svc, transport := newTestService()

	require.NoError(t, svc.SendApplicationConfirmation(context.Background(), "jo@example.com", "Jo Park", "TRANSFER", 42))
	require.Len(t, transport.messages, 1)
	assert.Equal(t, "Application #42 received", transport.messages[0].Subject)
	assert.Contains(t, transport.messages[0].Text, "TRANSFER")
}

func TestNewEmailServiceFallsBackToLog(t *testing.T) {
	svc := NewEmailService(Config{}, zerolog.Nop())
	_, ok := svc.transport.(*LogTransport)
	assert.True(t, ok)
	assert.NoError(t, svc.SendWelcomeEmail(context.Background(), "a@b.edu", "Ann Lee", "STAL202601"))
}
