package services

import (
	"context"
	"strings"

	"github.com/rs/zerolog"
	"github.com/yigit/greenfield/internal/app/models/dto"
	"github.com/yigit/greenfield/internal/pkg/apperrors"
	"github.com/yigit/greenfield/internal/pkg/email"
	"github.com/yigit/greenfield/internal/pkg/validation"
)

// ContactService forwards public contact form messages to the admissions inbox
type ContactService struct {
	mailer email.EmailService
	logger zerolog.Logger
}

// NewContactService creates a new ContactService
func NewContactService(mailer email.EmailService, logger zerolog.Logger) *ContactService {
	return &ContactService{mailer: mailer, logger: logger}
}

// Send validates and forwards a contact message.
func (s *ContactService) Send(ctx context.Context, req dto.ContactRequest) error {
	name := strings.TrimSpace(req.Name)
	message := strings.TrimSpace(req.Message)
	if name == "" || message == "" || !validation.IsEmail(req.Email) {
		return apperrors.NewValidationError("Name, a valid email and a message are required", nil)
	}
	if err := s.mailer.SendContactMessage(ctx, name, validation.NormalizeEmail(req.Email), message); err != nil {
		s.logger.Error().Err(err).Msg("Failed to forward contact message")
		return err
	}
	s.logger.Info().Str("from", validation.NormalizeEmail(req.Email)).Msg("Contact message forwarded")
	return nil
}
