package candidate

import (
	"strings"
	"time"
)

// TimestampLayout is the layout the store writes. Fixed-width fractional
// seconds in UTC keep lexicographic order equal to chronological order.
const TimestampLayout = "2006-01-02T15:04:05.000000Z07:00"

// Status tracks where a candidate is in the assessment process.
type Status string

const (
	// StatusQuestionsSent is set when a record is first stored.
	StatusQuestionsSent Status = "questions_sent"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusQuestionsSent:
		return true
	}
	return false
}

// Record is one candidate submission as stored in the candidates file.
// Timestamp, Status, SubmissionDeadline and AssessmentEmail are stamped by
// the store at save time.
type Record struct {
	Name               string `json:"name"`
	Email              string `json:"email"`
	Phone              string `json:"phone"`
	Location           string `json:"location"`
	Position           string `json:"position"`
	Experience         int    `json:"experience"`
	TechStack          string `json:"techStack"`
	Questions          string `json:"questions"`
	Timestamp          string `json:"timestamp,omitempty"`
	Status             Status `json:"status,omitempty"`
	SubmissionDeadline string `json:"submissionDeadline,omitempty"`
	AssessmentEmail    string `json:"assessmentEmail,omitempty"`
}

// Key returns the identity key of the record.
func (r Record) Key() Key {
	return NewKey(r.Email, r.Phone)
}

// Normalize returns a copy with surrounding whitespace removed from text fields.
func (r Record) Normalize() Record {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.TrimSpace(r.Email)
	r.Phone = strings.TrimSpace(r.Phone)
	r.Location = strings.TrimSpace(r.Location)
	r.Position = strings.TrimSpace(r.Position)
	r.TechStack = strings.TrimSpace(r.TechStack)
	return r
}

// CreatedAt parses the stored timestamp. ok is false when the timestamp is
// missing or in an unknown format.
func (r Record) CreatedAt() (t time.Time, ok bool) {
	return ParseTimestamp(r.Timestamp)
}

// FormatTimestamp renders t in the store's timestamp layout.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// ParseTimestamp accepts the store layout, RFC 3339, and naive ISO-8601
// timestamps (interpreted as local time) written by older tools.
func ParseTimestamp(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, true
	}
	if t, err := time.ParseInLocation("2006-01-02T15:04:05.999999999", s, time.Local); err == nil {
		return t, true
	}
	return time.Time{}, false
}
