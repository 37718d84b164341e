package models

import "time"

// ApplicationType selects the admissions track and which test scores apply
type ApplicationType string

const (
	ApplicationUndergraduate ApplicationType = "UNDERGRADUATE"
	ApplicationGraduate      ApplicationType = "GRADUATE"
	ApplicationTransfer      ApplicationType = "TRANSFER"
	ApplicationInternational ApplicationType = "INTERNATIONAL"
)

// IsValid reports whether t is a known application type.
func (t ApplicationType) IsValid() bool {
	switch t {
	case ApplicationUndergraduate, ApplicationGraduate, ApplicationTransfer, ApplicationInternational:
		return true
	}
	return false
}

// ApplicationStatus is the review state of an application
type ApplicationStatus string

const (
	ApplicationDraft       ApplicationStatus = "DRAFT"
	ApplicationSubmitted   ApplicationStatus = "SUBMITTED"
	ApplicationUnderReview ApplicationStatus = "UNDER_REVIEW"
	ApplicationAccepted    ApplicationStatus = "ACCEPTED"
	ApplicationRejected    ApplicationStatus = "REJECTED"
	ApplicationWaitlisted  ApplicationStatus = "WAITLISTED"
)

var applicationTransitions = map[ApplicationStatus][]ApplicationStatus{
	ApplicationDraft:       {ApplicationSubmitted},
	ApplicationSubmitted:   {ApplicationUnderReview},
	ApplicationUnderReview: {ApplicationAccepted, ApplicationRejected, ApplicationWaitlisted},
	ApplicationWaitlisted:  {ApplicationAccepted, ApplicationRejected},
}

// IsValid reports whether s is a known status.
func (s ApplicationStatus) IsValid() bool {
	switch s {
	case ApplicationDraft, ApplicationSubmitted, ApplicationUnderReview,
		ApplicationAccepted, ApplicationRejected, ApplicationWaitlisted:
		return true
	}
	return false
}

// CanTransitionTo reports whether an admin may move an application from s to next.
func (s ApplicationStatus) CanTransitionTo(next ApplicationStatus) bool {
	for _, allowed := range applicationTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// TestScores is the per-track set of standardized test results. The concrete
// type always matches the application's type.
type TestScores interface {
	ApplicationType() ApplicationType
}

// UndergraduateScores are collected for first-year applicants.
type UndergraduateScores struct {
	SAT *int `json:"satScore,omitempty"`
	ACT *int `json:"actScore,omitempty"`
}

// TransferScores are collected for transfer applicants.
type TransferScores struct {
	SAT *int `json:"satScore,omitempty"`
	ACT *int `json:"actScore,omitempty"`
}

// InternationalScores are the English proficiency results of international applicants.
type InternationalScores struct {
	TOEFL *int     `json:"toeflScore,omitempty"`
	IELTS *float64 `json:"ieltsScore,omitempty"`
}

// GraduateScores carries no standardized tests.
type GraduateScores struct{}

func (UndergraduateScores) ApplicationType() ApplicationType { return ApplicationUndergraduate }
func (TransferScores) ApplicationType() ApplicationType      { return ApplicationTransfer }
func (InternationalScores) ApplicationType() ApplicationType { return ApplicationInternational }
func (GraduateScores) ApplicationType() ApplicationType      { return ApplicationGraduate }

// ScoreColumns flattens scores into the nullable table columns.
func ScoreColumns(scores TestScores) (sat, act, toefl *int, ielts *float64) {
	switch s := scores.(type) {
	case UndergraduateScores:
		return s.SAT, s.ACT, nil, nil
	case TransferScores:
		return s.SAT, s.ACT, nil, nil
	case InternationalScores:
		return nil, nil, s.TOEFL, s.IELTS
	}
	return nil, nil, nil, nil
}

// ScoresFromColumns rebuilds the variant for t, keeping only the columns it owns.
func ScoresFromColumns(t ApplicationType, sat, act, toefl *int, ielts *float64) TestScores {
	switch t {
	case ApplicationUndergraduate:
		return UndergraduateScores{SAT: sat, ACT: act}
	case ApplicationTransfer:
		return TransferScores{SAT: sat, ACT: act}
	case ApplicationInternational:
		return InternationalScores{TOEFL: toefl, IELTS: ielts}
	}
	return GraduateScores{}
}

// PreviousSchool is one entry of the applicant's education history
type PreviousSchool struct {
	Name      string `json:"name"`
	Location  string `json:"location"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
	Degree    string `json:"degree,omitempty"`
}

// DocumentStatus tracks an application document upload
type DocumentStatus string

const (
	DocumentPending  DocumentStatus = "pending"
	DocumentUploaded DocumentStatus = "uploaded"
	DocumentError    DocumentStatus = "error"
)

// Document is a supporting document attached to an application
type Document struct {
	Type   string         `json:"type"`
	Status DocumentStatus `json:"status"`
	Path   string         `json:"path,omitempty"`
}

// Application is a prospective student's admissions record
type Application struct {
	ID              int64             `json:"id" db:"id"`
	Type            ApplicationType   `json:"type" db:"type"`
	Status          ApplicationStatus `json:"status" db:"status"`
	FirstName       string            `json:"firstName" db:"first_name"`
	LastName        string            `json:"lastName" db:"last_name"`
	Email           string            `json:"email" db:"email"`
	PhoneNumber     string            `json:"phoneNumber" db:"phone_number"`
	DateOfBirth     *time.Time        `json:"dateOfBirth,omitempty" db:"date_of_birth"`
	Address         string            `json:"address" db:"address"`
	City            string            `json:"city" db:"city"`
	State           string            `json:"state" db:"state"`
	Country         string            `json:"country" db:"country"`
	PostalCode      string            `json:"postalCode" db:"postal_code"`
	GPA             *float64          `json:"gpa,omitempty" db:"gpa"`
	IntendedMajor   string            `json:"intendedMajor" db:"intended_major"`
	StartTerm       string            `json:"startTerm" db:"start_term"`
	Scores          TestScores        `json:"testScores"`
	PreviousSchools []PreviousSchool  `json:"previousSchools" db:"previous_schools"`
	Documents       []Document        `json:"documents" db:"documents"`
	Essay           string            `json:"essay" db:"essay"`
	SubmittedAt     *time.Time        `json:"submittedAt,omitempty" db:"submitted_at"`
	CreatedAt       time.Time         `json:"createdAt" db:"created_at"`
	UpdatedAt       time.Time         `json:"updatedAt" db:"updated_at"`
}

// ApplicationFilter narrows application listings. Zero values are ignored.
type ApplicationFilter struct {
	Email  string
	Status ApplicationStatus
	Type   ApplicationType
}
