package dto

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/yigit/greenfield/internal/app/models"
)

// ErrInvalidNumber is returned when a numeric form field cannot be parsed
var ErrInvalidNumber = errors.New("invalid numeric value")

// NumberInput accepts a JSON number or a numeric string. An empty string and
// null both mean the field was left blank.
type NumberInput struct {
	value *float64
}

// NewNumberInput wraps v.
func NewNumberInput(v float64) NumberInput {
	return NumberInput{value: &v}
}

// UnmarshalJSON implements json.Unmarshaler
func (n *NumberInput) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		n.value = nil
		return nil
	}

	raw := string(data)
	if len(data) > 0 && data[0] == '"' {
		if err := json.Unmarshal(data, &raw); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidNumber, err)
		}
		raw = strings.TrimSpace(raw)
		if raw == "" {
			n.value = nil
			return nil
		}
	}

	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return fmt.Errorf("%w: %q", ErrInvalidNumber, raw)
	}
	n.value = &f
	return nil
}

// MarshalJSON implements json.Marshaler
func (n NumberInput) MarshalJSON() ([]byte, error) {
	if n.value == nil {
		return []byte("null"), nil
	}
	return json.Marshal(*n.value)
}

// IsSet reports whether a value was supplied.
func (n NumberInput) IsSet() bool {
	return n.value != nil
}

// Float returns the value, or nil when blank.
func (n NumberInput) Float() *float64 {
	if n.value == nil {
		return nil
	}
	v := *n.value
	return &v
}

// Int returns the value as an int. ok is false when the value has a fractional part.
func (n NumberInput) Int() (v *int, ok bool) {
	if n.value == nil {
		return nil, true
	}
	if *n.value != math.Trunc(*n.value) {
		return nil, false
	}
	i := int(*n.value)
	return &i, true
}

// PreviousSchoolInput is one row of the education history step. The wizard
// always sends one row, so every field may be empty.
type PreviousSchoolInput struct {
	Name      string `json:"name" binding:"max=200" example:"Lincoln High School"`
	Location  string `json:"location" binding:"max=200" example:"Springfield, IL"`
	StartDate string `json:"startDate" example:"2021-09"`
	EndDate   string `json:"endDate" example:"2025-06"`
	Degree    string `json:"degree,omitempty" example:"High School Diploma"`
}

// IsBlank reports whether the applicant left the row untouched
func (p PreviousSchoolInput) IsBlank() bool {
	for _, v := range []string{p.Name, p.Location, p.StartDate, p.EndDate, p.Degree} {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// DocumentInput declares a supporting document the applicant will upload
type DocumentInput struct {
	Type string `json:"type" binding:"required,max=100" example:"transcript"`
}

// CreateApplicationRequest is the complete draft posted by the final step of the
// application wizard
type CreateApplicationRequest struct {
	Type        string `json:"type" binding:"required,application_type" example:"UNDERGRADUATE" enums:"UNDERGRADUATE,GRADUATE,TRANSFER,INTERNATIONAL"`
	FirstName   string `json:"firstName" binding:"required,max=100" example:"Jordan"`
	LastName    string `json:"lastName" binding:"required,max=100" example:"Rivera"`
	Email       string `json:"email" binding:"required,email" example:"jordan.rivera@example.com"`
	PhoneNumber string `json:"phoneNumber" binding:"max=40" example:"+1 555 0100"`
	DateOfBirth string `json:"dateOfBirth" example:"2007-04-12"`
	Address     string `json:"address" binding:"max=300"`
	City        string `json:"city" binding:"max=100"`
	State       string `json:"state" binding:"max=100"`
	Country     string `json:"country" binding:"max=100" example:"United States"`
	PostalCode  string `json:"postalCode" binding:"max=20"`

	IntendedMajor string      `json:"intendedMajor" binding:"max=200" example:"Computer Science"`
	StartTerm     string      `json:"startTerm" binding:"max=50" example:"Fall 2026"`
	GPA           NumberInput `json:"gpa" swaggertype:"number" example:"3.8"`
	SATScore      NumberInput `json:"satScore" swaggertype:"integer" example:"1420"`
	ACTScore      NumberInput `json:"actScore" swaggertype:"integer" example:"31"`
	TOEFLScore    NumberInput `json:"toeflScore" swaggertype:"integer" example:"105"`
	IELTSScore    NumberInput `json:"ieltsScore" swaggertype:"number" example:"7.5"`

	PreviousSchools []PreviousSchoolInput `json:"previousSchools" binding:"dive"`
	Documents       []DocumentInput       `json:"documents" binding:"dive"`
	Essay           string                `json:"essay" binding:"max=20000"`
	Status          string                `json:"status" binding:"omitempty,oneof=DRAFT SUBMITTED" example:"SUBMITTED"`
}

// UpdateApplicationStatusRequest is an admin review decision
type UpdateApplicationStatusRequest struct {
	Status string `json:"status" binding:"required,application_status" example:"UNDER_REVIEW"`
}

// ApplicationFilterRequest represents admin application filters
type ApplicationFilterRequest struct {
	Status string `form:"status" binding:"omitempty,application_status"`
	Type   string `form:"type" binding:"omitempty,application_type"`
}

// PublicApplication is the applicant-facing copy of app. Stored document
// paths are admin-only and left out.
func PublicApplication(app *models.Application) *models.Application {
	out := *app
	out.Documents = make([]models.Document, len(app.Documents))
	for i, d := range app.Documents {
		out.Documents[i] = models.Document{Type: d.Type, Status: d.Status}
	}
	return &out
}

// PublicApplications applies PublicApplication to every element of apps
func PublicApplications(apps []models.Application) []*models.Application {
	out := make([]*models.Application, 0, len(apps))
	for i := range apps {
		out = append(out, PublicApplication(&apps[i]))
	}
	return out
}
