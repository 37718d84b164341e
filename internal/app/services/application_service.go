package services

import (
	"context"
	"fmt"
	"mime/multipart"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/yigit/greenfield/internal/app/models"
	"github.com/yigit/greenfield/internal/app/models/dto"
	"github.com/yigit/greenfield/internal/app/repositories"
	"github.com/yigit/greenfield/internal/pkg/apperrors"
	"github.com/yigit/greenfield/internal/pkg/email"
	"github.com/yigit/greenfield/internal/pkg/events"
	"github.com/yigit/greenfield/internal/pkg/filestorage"
	"github.com/yigit/greenfield/internal/pkg/helpers"
	"github.com/yigit/greenfield/internal/pkg/validation"
)

// ApplicationService handles admissions applications
type ApplicationService struct {
	appRepo   repositories.IApplicationRepository
	storage   filestorage.FileStorage
	mailer    email.EmailService
	publisher events.Publisher
	logger    zerolog.Logger
	now       func() time.Time
}

// NewApplicationService creates a new ApplicationService
func NewApplicationService(
	appRepo repositories.IApplicationRepository,
	storage filestorage.FileStorage,
	mailer email.EmailService,
	publisher events.Publisher,
	logger zerolog.Logger,
) *ApplicationService {
	return &ApplicationService{
		appRepo:   appRepo,
		storage:   storage,
		mailer:    mailer,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
}

type scoreRange struct {
	min, max float64
	integer  bool
}

var scoreRanges = map[string]scoreRange{
	"gpa":        {0, 5, false},
	"satScore":   {400, 1600, true},
	"actScore":   {1, 36, true},
	"toeflScore": {0, 120, true},
	"ieltsScore": {0, 9, false},
}

// checkScore validates a single optional score against its range.
func checkScore(field string, in dto.NumberInput, fields map[string]interface{}) {
	if !in.IsSet() {
		return
	}
	r := scoreRanges[field]
	v := *in.Float()
	if r.integer {
		if _, ok := in.Int(); !ok {
			fields[field] = "must be a whole number"
			return
		}
	}
	if v < r.min || v > r.max {
		fields[field] = fmt.Sprintf("must be between %g and %g", r.min, r.max)
	}
}

func intScore(in dto.NumberInput) *int {
	v, _ := in.Int()
	return v
}

// buildScores keeps only the scores that belong to the application's track.
func buildScores(t models.ApplicationType, req dto.CreateApplicationRequest) models.TestScores {
	switch t {
	case models.ApplicationUndergraduate:
		return models.UndergraduateScores{SAT: intScore(req.SATScore), ACT: intScore(req.ACTScore)}
	case models.ApplicationTransfer:
		return models.TransferScores{SAT: intScore(req.SATScore), ACT: intScore(req.ACTScore)}
	case models.ApplicationInternational:
		return models.InternationalScores{TOEFL: intScore(req.TOEFLScore), IELTS: req.IELTSScore.Float()}
	}
	return models.GraduateScores{}
}

func (s *ApplicationService) buildApplication(req dto.CreateApplicationRequest) (*models.Application, error) {
	fields := map[string]interface{}{}

	appType := models.ApplicationType(strings.ToUpper(strings.TrimSpace(req.Type)))
	if !appType.IsValid() {
		fields["type"] = "must be one of UNDERGRADUATE, GRADUATE, TRANSFER, INTERNATIONAL"
	}
	if strings.TrimSpace(req.FirstName) == "" {
		fields["firstName"] = "is required"
	}
	if strings.TrimSpace(req.LastName) == "" {
		fields["lastName"] = "is required"
	}
	if !validation.IsEmail(req.Email) {
		fields["email"] = "must be a valid email address"
	}
	dob, err := helpers.ParseOptionalDate(req.DateOfBirth)
	if err != nil {
		fields["dateOfBirth"] = "must be a date (YYYY-MM-DD)"
	}
	checkScore("gpa", req.GPA, fields)
	checkScore("satScore", req.SATScore, fields)
	checkScore("actScore", req.ACTScore, fields)
	checkScore("toeflScore", req.TOEFLScore, fields)
	checkScore("ieltsScore", req.IELTSScore, fields)

	status := models.ApplicationSubmitted
	if req.Status != "" {
		status = models.ApplicationStatus(strings.ToUpper(req.Status))
		if status != models.ApplicationDraft && status != models.ApplicationSubmitted {
			fields["status"] = "must be DRAFT or SUBMITTED"
		}
	}
	if len(fields) > 0 {
		return nil, apperrors.NewValidationError("Invalid application", fields)
	}

	app := &models.Application{
		Type:            appType,
		Status:          status,
		FirstName:       strings.TrimSpace(req.FirstName),
		LastName:        strings.TrimSpace(req.LastName),
		Email:           validation.NormalizeEmail(req.Email),
		PhoneNumber:     req.PhoneNumber,
		DateOfBirth:     dob,
		Address:         req.Address,
		City:            req.City,
		State:           req.State,
		Country:         req.Country,
		PostalCode:      req.PostalCode,
		GPA:             req.GPA.Float(),
		IntendedMajor:   req.IntendedMajor,
		StartTerm:       req.StartTerm,
		Scores:          buildScores(appType, req),
		PreviousSchools: make([]models.PreviousSchool, 0, len(req.PreviousSchools)),
		Documents:       make([]models.Document, 0, len(req.Documents)),
		Essay:           req.Essay,
	}
	for _, ps := range req.PreviousSchools {
		if ps.IsBlank() {
			continue
		}
		app.PreviousSchools = append(app.PreviousSchools, models.PreviousSchool{
			Name:      strings.TrimSpace(ps.Name),
			Location:  ps.Location,
			StartDate: ps.StartDate,
			EndDate:   ps.EndDate,
			Degree:    ps.Degree,
		})
	}
	for _, d := range req.Documents {
		app.Documents = append(app.Documents, models.Document{Type: strings.TrimSpace(d.Type), Status: models.DocumentPending})
	}
	if status == models.ApplicationSubmitted {
		at := s.now().UTC()
		app.SubmittedAt = &at
	}
	return app, nil
}

// Submit stores a new application. Scores that do not belong to the
// application's type are discarded.
func (s *ApplicationService) Submit(ctx context.Context, req dto.CreateApplicationRequest) (*models.Application, error) {
	app, err := s.buildApplication(req)
	if err != nil {
		return nil, err
	}
	if err := s.appRepo.Create(ctx, app); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("applicationID", app.ID).Str("type", string(app.Type)).Str("status", string(app.Status)).Msg("Application received")

	if app.Status == models.ApplicationSubmitted {
		name := app.FirstName + " " + app.LastName
		if err := s.mailer.SendApplicationConfirmation(ctx, app.Email, name, string(app.Type), app.ID); err != nil {
			s.logger.Error().Err(err).Int64("applicationID", app.ID).Msg("Failed to send application confirmation")
		}
		if err := s.publisher.Publish(ctx, events.ApplicationSubmitted, map[string]any{
			"id": app.ID, "type": app.Type, "email": app.Email,
		}); err != nil {
			s.logger.Error().Err(err).Int64("applicationID", app.ID).Msg("Failed to publish application event")
		}
	}
	return app, nil
}

// ListByEmail returns the applications filed under email, newest first.
func (s *ApplicationService) ListByEmail(ctx context.Context, emailAddr string) ([]models.Application, error) {
	if strings.TrimSpace(emailAddr) == "" {
		return nil, apperrors.NewBadRequestError("Email is required")
	}
	return s.appRepo.List(ctx, models.ApplicationFilter{Email: validation.NormalizeEmail(emailAddr)})
}

// List returns every application matching filter
func (s *ApplicationService) List(ctx context.Context, filter models.ApplicationFilter) ([]models.Application, error) {
	return s.appRepo.List(ctx, filter)
}

// Get returns one application
func (s *ApplicationService) Get(ctx context.Context, id int64) (*models.Application, error) {
	return s.appRepo.GetByID(ctx, id)
}

// UpdateStatus moves an application along the review workflow.
func (s *ApplicationService) UpdateStatus(ctx context.Context, id int64, next models.ApplicationStatus) (*models.Application, error) {
	if !next.IsValid() {
		return nil, apperrors.NewValidationError("Invalid status", map[string]interface{}{"status": "unknown application status"})
	}
	app, err := s.appRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !app.Status.CanTransitionTo(next) {
		return nil, apperrors.NewCustomError(apperrors.ErrInvalidTransition,
			fmt.Sprintf("Cannot move application from %s to %s", app.Status, next))
	}

	var submittedAt *time.Time
	if next == models.ApplicationSubmitted {
		at := s.now().UTC()
		submittedAt = &at
	}
	if err := s.appRepo.UpdateStatus(ctx, id, next, submittedAt); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("applicationID", id).Str("from", string(app.Status)).Str("to", string(next)).Msg("Application status changed")
	if err := s.publisher.Publish(ctx, events.ApplicationStatus, map[string]any{
		"id": id, "from": app.Status, "to": next,
	}); err != nil {
		s.logger.Error().Err(err).Int64("applicationID", id).Msg("Failed to publish status event")
	}
	return s.appRepo.GetByID(ctx, id)
}

// UploadDocument attaches a file to one of the application's declared
// documents. The applicant proves ownership with the email the application
// was filed under.
func (s *ApplicationService) UploadDocument(ctx context.Context, id int64, applicantEmail, docType string, file *multipart.FileHeader) (*models.Application, error) {
	app, err := s.appRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if app.Email != validation.NormalizeEmail(applicantEmail) {
		return nil, apperrors.ErrApplicationNotFound
	}

	idx := -1
	for i, d := range app.Documents {
		if strings.EqualFold(d.Type, strings.TrimSpace(docType)) {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, apperrors.NewBadRequestError(fmt.Sprintf("Application has no %q document", docType))
	}

	path, err := s.storage.SaveFileWithPath(file, fmt.Sprintf("applications/%d", id))
	if err != nil {
		app.Documents[idx].Status = models.DocumentError
		if uerr := s.appRepo.UpdateDocuments(ctx, id, app.Documents); uerr != nil {
			s.logger.Error().Err(uerr).Int64("applicationID", id).Msg("Failed to record document error")
		}
		return nil, apperrors.NewBadRequestError(err.Error())
	}

	old := app.Documents[idx].Path
	app.Documents[idx].Status = models.DocumentUploaded
	app.Documents[idx].Path = path
	if err := s.appRepo.UpdateDocuments(ctx, id, app.Documents); err != nil {
		_ = s.storage.DeleteFile(path)
		return nil, err
	}
	if old != "" {
		if err := s.storage.DeleteFile(old); err != nil {
			s.logger.Warn().Err(err).Str("path", old).Msg("Failed to remove replaced document")
		}
	}
	return app, nil
}
