package applications

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"

	"servicenova/internal/utils"
	"servicenova/pkg/types"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		tag := strings.SplitN(f.Tag.Get("form"), ",", 2)[0]
		if tag == "" || tag == "-" {
			return f.Name
		}
		return tag
	})
	return v
}

// interviewDateLayouts covers datetime-local inputs and full timestamps.
var interviewDateLayouts = []string{
	"2006-01-02T15:04",
	"2006-01-02T15:04:05",
	time.RFC3339,
}

// ParseForm converts the raw form into a Submission. Every field problem,
// parse or validation, is collected into one ValidationError.
func ParseForm(identity types.Identity, form types.ApplicationForm, identityProof, experienceProof *Document) (*Submission, *types.ValidationError) {
	verr := types.NewValidationError()

	sub := &Submission{
		Identity:        identity,
		UserID:          identity.UserID,
		FullName:        strings.TrimSpace(form.FullName),
		Address:         strings.TrimSpace(form.Address),
		PhoneNumber:     strings.TrimSpace(form.PhoneNumber),
		Email:           strings.TrimSpace(form.Email),
		ServiceType:     strings.ToLower(strings.TrimSpace(form.ServiceType)),
		Certifications:  utils.SplitCSV(form.Certifications),
		IdentityProof:   identityProof,
		ExperienceProof: experienceProof,
	}

	if age, ok := parseWholeNumber(form.Age, "age", verr); ok {
		sub.Age = age
	}

	if years, ok := parseWholeNumber(form.YearsExperience, "years_experience", verr); ok {
		sub.YearsExperience = years
	}

	if raw := strings.TrimSpace(form.PreferredInterviewDate); raw != "" {
		parsed, err := parseInterviewDate(raw)
		if err != nil {
			verr.Add("preferred_interview_date", "must be a valid date and time")
		} else {
			sub.PreferredInterviewDate = &parsed
		}
	}

	if err := sub.Validate(); err != nil {
		var fieldErrs *types.ValidationError
		if errors.As(err, &fieldErrs) {
			for field, msg := range fieldErrs.Fields {
				verr.Add(field, msg)
			}
		}
	}

	if verr.HasErrors() {
		return sub, verr
	}

	return sub, nil
}

func parseWholeNumber(raw, field string, verr *types.ValidationError) (int, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		verr.Add(field, "is required")
		return 0, false
	}

	n, err := strconv.Atoi(raw)
	if err != nil {
		verr.Add(field, "must be a whole number")
		return 0, false
	}

	return n, true
}

func parseInterviewDate(raw string) (time.Time, error) {
	for _, layout := range interviewDateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised date %q", raw)
}

// Validate checks field presence and ranges. It returns a
// *types.ValidationError listing every failing field.
func (s *Submission) Validate() error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("validate submission: %w", err)
	}

	verr := types.NewValidationError()
	for _, fe := range fieldErrs {
		verr.Add(fe.Field(), validationMessage(fe))
	}
	return verr
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "gte":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "lte", "max":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", strings.ReplaceAll(fe.Param(), " ", ", "))
	case "email":
		return "must be a valid email address"
	default:
		return "is invalid"
	}
}
