package validation

import (
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/yigit/greenfield/internal/app/models"
)

// Validation rule patterns
var (
	EmailPattern = `^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`

	// Course codes look like CS150 or MATH201.
	CourseCodePattern = `^[A-Z]{2,5}\d{3,4}[A-Z]?$`

	PasswordMinLength = 8

	NameMinLength = 1
	NameMaxLength = 100
)

// CompiledPatterns caches compiled regex patterns for better performance
var CompiledPatterns = struct {
	Email      *regexp.Regexp
	CourseCode *regexp.Regexp
}{
	Email:      regexp.MustCompile(EmailPattern),
	CourseCode: regexp.MustCompile(CourseCodePattern),
}

// IsEmail reports whether s is a syntactically valid address.
func IsEmail(s string) bool {
	return CompiledPatterns.Email.MatchString(strings.TrimSpace(s))
}

// NormalizeEmail lowercases and trims an address for storage and lookup.
func NormalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// StringValidation checks a single string against length and pattern rules
type StringValidation struct {
	Value    string
	MinLen   int
	MaxLen   int
	Required bool
	Pattern  *regexp.Regexp
}

// NewStringValidation creates a new string validation
func NewStringValidation(value string) *StringValidation {
	return &StringValidation{
		Value:    strings.TrimSpace(value),
		Required: true,
	}
}

// WithMinLength sets minimum length
func (v *StringValidation) WithMinLength(min int) *StringValidation {
	v.MinLen = min
	return v
}

// WithMaxLength sets maximum length
func (v *StringValidation) WithMaxLength(max int) *StringValidation {
	v.MaxLen = max
	return v
}

// WithPattern sets regex pattern
func (v *StringValidation) WithPattern(pattern *regexp.Regexp) *StringValidation {
	v.Pattern = pattern
	return v
}

// WithRequired sets if field is required
func (v *StringValidation) WithRequired(required bool) *StringValidation {
	v.Required = required
	return v
}

// Validate performs validation
func (v *StringValidation) Validate() bool {
	if v.Value == "" {
		return !v.Required
	}
	if v.MinLen > 0 && len(v.Value) < v.MinLen {
		return false
	}
	if v.MaxLen > 0 && len(v.Value) > v.MaxLen {
		return false
	}
	if v.Pattern != nil && !v.Pattern.MatchString(v.Value) {
		return false
	}
	return true
}

// RegisterCustomValidators adds the portal's enum tags to v:
// role, application_type, application_status and report_type.
func RegisterCustomValidators(v *validator.Validate) error {
	rules := map[string]validator.Func{
		"role": func(fl validator.FieldLevel) bool {
			_, ok := models.ParseRole(fl.Field().String())
			return ok
		},
		"application_type": func(fl validator.FieldLevel) bool {
			return models.ApplicationType(strings.ToUpper(fl.Field().String())).IsValid()
		},
		"application_status": func(fl validator.FieldLevel) bool {
			return models.ApplicationStatus(strings.ToUpper(fl.Field().String())).IsValid()
		},
		"report_type": func(fl validator.FieldLevel) bool {
			return models.ReportType(strings.ToUpper(fl.Field().String())).IsValid()
		},
	}
	// Report JSON (or form) names in field errors.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		for _, tag := range []string{"json", "form"} {
			name := strings.SplitN(f.Tag.Get(tag), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
		}
		return f.Name
	})
	for tag, fn := range rules {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return err
		}
	}
	return nil
}
