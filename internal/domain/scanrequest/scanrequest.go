// Package scanrequest models the MRI scan request form: its field set,
// validation rules, reference numbers, and the mail payload assembly.
package scanrequest

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/neuroscape/nicsite/internal/domain"
)

// HoneypotField is the hidden anti-spam field. A non-empty value marks the
// submission as automated. Its value must never be persisted or forwarded.
const HoneypotField = "website"

// ExperienceField is the name of the mutually-exclusive MRI experience
// radio group; only the checked option's value travels under this name.
const ExperienceField = "experience"

// requiredFields must be non-empty after trimming for a submission to pass.
var requiredFields = []string{
	"name",
	"email",
	"institution",
	"projectTitle",
	"pi",
	"description",
	"duration",
	"irbStatus",
	ExperienceField,
}

var emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Fields maps form field names to their submitted values.
type Fields map[string]string

// StripHoneypot returns a copy of the fields without the honeypot entry.
func (f Fields) StripHoneypot() Fields {
	out := make(Fields, len(f))
	for k, v := range f {
		if k == HoneypotField {
			continue
		}
		out[k] = v
	}
	return out
}

// ValidationError lists the form fields that failed validation.
type ValidationError struct {
	FieldNames []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", domain.ErrValidationFailed.Error(), strings.Join(e.FieldNames, ", "))
}

func (e *ValidationError) Unwrap() error { return domain.ErrValidationFailed }

// Validate checks the submitted fields.
//
// Returns domain.ErrBotDetected when the honeypot carries a value; this
// outranks ordinary validation so callers can reject silently. Otherwise
// returns a *ValidationError naming every required field that is empty
// after trimming, plus the email field when its value is not of the
// local@domain.tld shape. Returns nil when the form is valid.
func Validate(f Fields) error {
	if strings.TrimSpace(f[HoneypotField]) != "" {
		return domain.ErrBotDetected
	}

	var bad []string
	for _, name := range requiredFields {
		if strings.TrimSpace(f[name]) == "" {
			bad = append(bad, name)
		}
	}
	if email := strings.TrimSpace(f["email"]); email != "" && !emailRegex.MatchString(email) {
		bad = append(bad, "email")
	}
	if len(bad) > 0 {
		sort.Strings(bad)
		return &ValidationError{FieldNames: dedup(bad)}
	}
	return nil
}

// Reference formats a request reference number: NIC-YYYYMMDD-RRRR with a
// zero-padded 4-digit suffix.
func Reference(now time.Time, suffix int) string {
	return fmt.Sprintf("NIC-%s-%04d", now.Format("20060102"), suffix%10000)
}

// SubmissionDate renders a human-readable submission timestamp for the
// mail template.
func SubmissionDate(now time.Time) string {
	return now.Format("1/2/2006, 3:04:05 PM")
}

// MailParams assembles the flat payload handed to the mail provider.
// The key set is fixed by the mail template; optional fields left blank
// get placeholder text so the template never renders an empty slot.
func MailParams(f Fields, reference string, now time.Time) map[string]string {
	clean := f.StripHoneypot()
	return map[string]string{
		"reference_number": reference,
		"submission_date":  SubmissionDate(now),

		"name":        clean["name"],
		"email":       clean["email"],
		"phone":       orPlaceholder(clean["phone"], "Not provided"),
		"institution": clean["institution"],

		"project_title":          clean["projectTitle"],
		"principal_investigator": clean["pi"],
		"participants":           orPlaceholder(clean["participants"], "Not specified"),
		"description":            clean["description"],
		"duration":               clean["duration"],
		"timeline":               orPlaceholder(clean["timeline"], "Not specified"),

		"irb_status":           clean["irbStatus"],
		"mri_experience":       clean[ExperienceField],
		"special_requirements": orPlaceholder(clean["requirements"], "None"),

		"reply_to":  clean["email"],
		"from_name": clean["name"],
	}
}

func orPlaceholder(v, placeholder string) string {
	if strings.TrimSpace(v) == "" {
		return placeholder
	}
	return v
}

func dedup(sorted []string) []string {
	out := sorted[:0]
	for i, s := range sorted {
		if i == 0 || sorted[i-1] != s {
			out = append(out, s)
		}
	}
	return out
}
