package candidate

import (
	"fmt"
	"regexp"
	"strings"
)

var emailPattern = regexp.MustCompile(`[^@]+@[^@]+\.[^@]+`)

// ValidEmail reports whether s looks like an email address.
func ValidEmail(s string) bool {
	return emailPattern.MatchString(s)
}

// ValidPhone reports whether s is at least ten ASCII digits.
func ValidPhone(s string) bool {
	if len(s) < 10 {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// FieldError describes one rejected field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError lists every field that failed validation.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = f.Field + ": " + f.Message
	}
	return "invalid candidate: " + strings.Join(parts, "; ")
}

// Validate checks the fields a submission must carry before it reaches the
// store. It trims text fields first.
func (r Record) Validate() error {
	r = r.Normalize()
	var fields []FieldError
	required := []struct {
		name, value string
	}{
		{"name", r.Name},
		{"location", r.Location},
		{"position", r.Position},
		{"techStack", r.TechStack},
	}
	for _, f := range required {
		if f.value == "" {
			fields = append(fields, FieldError{Field: f.name, Message: "is required"})
		}
	}
	if !ValidEmail(r.Email) {
		fields = append(fields, FieldError{Field: "email", Message: "must be a valid email address"})
	}
	if !ValidPhone(r.Phone) {
		fields = append(fields, FieldError{Field: "phone", Message: "must be at least 10 digits"})
	}
	if r.Experience < 0 {
		fields = append(fields, FieldError{Field: "experience", Message: fmt.Sprintf("must not be negative, got %d", r.Experience)})
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}
