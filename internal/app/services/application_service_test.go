package services

import (
	"context"
	"mime/multipart"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/greenfield/internal/app/models"
	"github.com/yigit/greenfield/internal/app/models/dto"
	"github.com/yigit/greenfield/internal/pkg/apperrors"
	"github.com/yigit/greenfield/internal/pkg/events"
)

func baseApplication(appType string) dto.CreateApplicationRequest {
	return dto.CreateApplicationRequest{
		Type:        appType,
		FirstName:   "John",
		LastName:    "Smith",
		Email:       "John.Smith@Example.com",
		DateOfBirth: "2008-05-15",
		Country:     "USA",
		GPA:         dto.NewNumberInput(3.8),
		Documents:   []dto.DocumentInput{{Type: "transcript"}},
	}
}

func TestApplicationService_SubmitKeepsOnlyTrackScores(t *testing.T) {
	tests := []struct {
		appType string
		want    models.TestScores
	}{
		{"UNDERGRADUATE", models.UndergraduateScores{SAT: ptr(1400), ACT: ptr(30)}},
		{"TRANSFER", models.TransferScores{SAT: ptr(1400), ACT: ptr(30)}},
		{"INTERNATIONAL", models.InternationalScores{TOEFL: ptr(105), IELTS: ptr(7.5)}},
		{"GRADUATE", models.GraduateScores{}},
	}

	for _, tt := range tests {
		t.Run(tt.appType, func(t *testing.T) {
			f := newFixture(t)
			req := baseApplication(tt.appType)
			req.SATScore = dto.NewNumberInput(1400)
			req.ACTScore = dto.NewNumberInput(30)
			req.TOEFLScore = dto.NewNumberInput(105)
			req.IELTSScore = dto.NewNumberInput(7.5)

			app, err := f.apps.Submit(context.Background(), req)
			require.NoError(t, err)
			assert.Equal(t, tt.want, app.Scores)

			stored, err := f.apps.Get(context.Background(), app.ID)
			require.NoError(t, err)
			assert.Equal(t, tt.want, stored.Scores)
		})
	}
}

func ptr[T any](v T) *T { return &v }

func TestApplicationService_SubmitDefaults(t *testing.T) {
	f := newFixture(t)

	app, err := f.apps.Submit(context.Background(), baseApplication("undergraduate"))
	require.NoError(t, err)

	assert.Equal(t, models.ApplicationUndergraduate, app.Type)
	assert.Equal(t, models.ApplicationSubmitted, app.Status)
	assert.Equal(t, "john.smith@example.com", app.Email)
	require.NotNil(t, app.SubmittedAt)
	assert.Equal(t, fixedNow, *app.SubmittedAt)
	require.Len(t, app.Documents, 1)
	assert.Equal(t, models.DocumentPending, app.Documents[0].Status)

	assert.Equal(t, []string{"application"}, f.mailer.kinds())
	assert.Equal(t, []string{events.ApplicationSubmitted}, f.publisher.published())
}

func TestApplicationService_SubmitDropsBlankSchoolRows(t *testing.T) {
	f := newFixture(t)

	req := baseApplication("UNDERGRADUATE")
	req.GPA = dto.NumberInput{}
	req.PreviousSchools = []dto.PreviousSchoolInput{
		{},
		{Name: " ", Location: "", StartDate: " "},
		{Name: " Lincoln High School ", Location: "Springfield, IL", StartDate: "2021-09", EndDate: "2025-06"},
		{Location: "Boston, MA"},
	}
	app, err := f.apps.Submit(context.Background(), req)
	require.NoError(t, err)

	assert.Nil(t, app.GPA)
	assert.Equal(t, []models.PreviousSchool{
		{Name: "Lincoln High School", Location: "Springfield, IL", StartDate: "2021-09", EndDate: "2025-06"},
		{Location: "Boston, MA"},
	}, app.PreviousSchools)
}

func TestApplicationService_DraftIsQuiet(t *testing.T) {
	f := newFixture(t)
	req := baseApplication("GRADUATE")
	req.Status = "DRAFT"

	app, err := f.apps.Submit(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, models.ApplicationDraft, app.Status)
	assert.Nil(t, app.SubmittedAt)
	assert.Empty(t, f.mailer.kinds())
	assert.Empty(t, f.publisher.published())
}

func TestApplicationService_SubmitValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*dto.CreateApplicationRequest)
		field  string
	}{
		{"gpa above 5", func(r *dto.CreateApplicationRequest) { r.GPA = dto.NewNumberInput(5.1) }, "gpa"},
		{"sat too low", func(r *dto.CreateApplicationRequest) { r.SATScore = dto.NewNumberInput(390) }, "satScore"},
		{"act fractional", func(r *dto.CreateApplicationRequest) { r.ACTScore = dto.NewNumberInput(30.5) }, "actScore"},
		{"toefl too high", func(r *dto.CreateApplicationRequest) { r.TOEFLScore = dto.NewNumberInput(121) }, "toeflScore"},
		{"ielts too high", func(r *dto.CreateApplicationRequest) { r.IELTSScore = dto.NewNumberInput(9.5) }, "ieltsScore"},
		{"bad type", func(r *dto.CreateApplicationRequest) { r.Type = "PHD" }, "type"},
		{"bad email", func(r *dto.CreateApplicationRequest) { r.Email = "john" }, "email"},
		{"bad birth date", func(r *dto.CreateApplicationRequest) { r.DateOfBirth = "someday" }, "dateOfBirth"},
		{"admin-only status", func(r *dto.CreateApplicationRequest) { r.Status = "ACCEPTED" }, "status"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			req := baseApplication("UNDERGRADUATE")
			tt.mutate(&req)

			_, err := f.apps.Submit(context.Background(), req)
			require.ErrorIs(t, err, apperrors.ErrValidationFailed)

			var custom *apperrors.CustomError
			require.ErrorAs(t, err, &custom)
			assert.Contains(t, custom.Details, tt.field)
		})
	}
}

func TestApplicationService_ScoresOutsideTrackAreStillRangeChecked(t *testing.T) {
	f := newFixture(t)
	req := baseApplication("GRADUATE")
	req.SATScore = dto.NewNumberInput(2000)

	_, err := f.apps.Submit(context.Background(), req)
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
}

func TestApplicationService_ListByEmail(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.apps.Submit(ctx, baseApplication("UNDERGRADUATE"))
	require.NoError(t, err)
	other := baseApplication("TRANSFER")
	other.Email = "someone@example.com"
	_, err = f.apps.Submit(ctx, other)
	require.NoError(t, err)

	list, err := f.apps.ListByEmail(ctx, "JOHN.smith@example.com")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, models.ApplicationUndergraduate, list[0].Type)

	_, err = f.apps.ListByEmail(ctx, "  ")
	assert.ErrorIs(t, err, apperrors.ErrBadRequest)
}

func TestApplicationService_UpdateStatus(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	req := baseApplication("UNDERGRADUATE")
	req.Status = "DRAFT"
	app, err := f.apps.Submit(ctx, req)
	require.NoError(t, err)

	_, err = f.apps.UpdateStatus(ctx, app.ID, models.ApplicationAccepted)
	assert.ErrorIs(t, err, apperrors.ErrInvalidTransition)

	_, err = f.apps.UpdateStatus(ctx, app.ID, "MAYBE")
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	steps := []models.ApplicationStatus{
		models.ApplicationSubmitted,
		models.ApplicationUnderReview,
		models.ApplicationWaitlisted,
		models.ApplicationAccepted,
	}
	for _, next := range steps {
		app, err = f.apps.UpdateStatus(ctx, app.ID, next)
		require.NoError(t, err, "to %s", next)
		assert.Equal(t, next, app.Status)
	}
	require.NotNil(t, app.SubmittedAt)

	_, err = f.apps.UpdateStatus(ctx, app.ID, models.ApplicationRejected)
	assert.ErrorIs(t, err, apperrors.ErrInvalidTransition)

	_, err = f.apps.UpdateStatus(ctx, 999, models.ApplicationSubmitted)
	assert.ErrorIs(t, err, apperrors.ErrApplicationNotFound)
}

func TestApplicationService_UploadDocument(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	app, err := f.apps.Submit(ctx, baseApplication("UNDERGRADUATE"))
	require.NoError(t, err)

	_, err = f.apps.UploadDocument(ctx, app.ID, "intruder@example.com", "transcript", &multipart.FileHeader{Filename: "t.pdf"})
	assert.ErrorIs(t, err, apperrors.ErrApplicationNotFound)

	_, err = f.apps.UploadDocument(ctx, app.ID, "john.smith@example.com", "passport", &multipart.FileHeader{Filename: "p.pdf"})
	assert.ErrorIs(t, err, apperrors.ErrBadRequest)

	updated, err := f.apps.UploadDocument(ctx, app.ID, "John.Smith@example.com", "Transcript", &multipart.FileHeader{Filename: "t.pdf"})
	require.NoError(t, err)
	first := updated.Documents[0]
	assert.Equal(t, models.DocumentUploaded, first.Status)
	assert.Equal(t, "/uploads/applications/1/t.pdf", first.Path)

	updated, err = f.apps.UploadDocument(ctx, app.ID, "john.smith@example.com", "transcript", &multipart.FileHeader{Filename: "t2.pdf"})
	require.NoError(t, err)
	assert.Equal(t, "/uploads/applications/1/t2.pdf", updated.Documents[0].Path)
	assert.Equal(t, []string{first.Path}, f.storage.deleted)

	f.storage.failOn = "virus.exe"
	_, err = f.apps.UploadDocument(ctx, app.ID, "john.smith@example.com", "transcript", &multipart.FileHeader{Filename: "virus.exe"})
	assert.ErrorIs(t, err, apperrors.ErrBadRequest)
	stored, err := f.apps.Get(ctx, app.ID)
	require.NoError(t, err)
	assert.Equal(t, models.DocumentError, stored.Documents[0].Status)
}
