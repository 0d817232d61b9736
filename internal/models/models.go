package models

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

var ErrInvalidStatus = errors.New("invalid status")

// Status is the pipeline stage of an application.
type Status string

const (
	StatusApplied     Status = "applied"
	StatusOASent      Status = "oa sent"
	StatusOAReceived  Status = "oa received"
	StatusInterviewed Status = "interviewed"
	StatusOffered     Status = "offered"
	StatusAccepted    Status = "accepted"
	StatusRejected    Status = "rejected"
)

var allStatuses = []Status{
	StatusApplied,
	StatusOASent,
	StatusOAReceived,
	StatusInterviewed,
	StatusOffered,
	StatusAccepted,
	StatusRejected,
}

// AllStatuses returns every status in display order.
func AllStatuses() []Status {
	out := make([]Status, len(allStatuses))
	copy(out, allStatuses)
	return out
}

// ParseStatus accepts any casing and surrounding whitespace.
func ParseStatus(s string) (Status, error) {
	candidate := Status(strings.ToLower(strings.TrimSpace(s)))
	for _, st := range allStatuses {
		if st == candidate {
			return st, nil
		}
	}
	names := make([]string, len(allStatuses))
	for i, st := range allStatuses {
		names[i] = string(st)
	}
	return "", fmt.Errorf("%w: status must be one of: %s", ErrInvalidStatus, strings.Join(names, ", "))
}

// Label is the human form used in dropdowns, e.g. "OA Sent".
func (s Status) Label() string {
	words := strings.Fields(string(s))
	for i, w := range words {
		if w == "oa" {
			words[i] = "OA"
			continue
		}
		r, size := utf8.DecodeRuneInString(w)
		words[i] = string(unicode.ToUpper(r)) + w[size:]
	}
	return strings.Join(words, " ")
}

// ProgressTable maps a status to its progress percentage.
type ProgressTable map[Status]int

// DefaultProgress is the table the tracker ships with.
var DefaultProgress = ProgressTable{
	StatusApplied:     10,
	StatusOASent:      40,
	StatusOAReceived:  25,
	StatusInterviewed: 60,
	StatusOffered:     85,
	StatusAccepted:    100,
	StatusRejected:    0,
}

// OrderedProgress keeps progress monotonic through the OA stages.
var OrderedProgress = ProgressTable{
	StatusApplied:     10,
	StatusOASent:      25,
	StatusOAReceived:  40,
	StatusInterviewed: 60,
	StatusOffered:     85,
	StatusAccepted:    100,
	StatusRejected:    0,
}

// ProgressTableByName resolves the TRACKER_PROGRESS_TABLE setting.
func ProgressTableByName(name string) (ProgressTable, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "default":
		return DefaultProgress, nil
	case "ordered":
		return OrderedProgress, nil
	}
	return nil, fmt.Errorf("unknown progress table %q", name)
}

// For returns the progress of status; unknown statuses map to 0.
func (t ProgressTable) For(status Status) int {
	return t[status]
}

type Application struct {
	ID        uint      `json:"id"`
	Company   string    `json:"company"`
	Position  string    `json:"position"`
	Status    Status    `json:"status"`
	Progress  int       `json:"progress"`
	CreatedAt Timestamp `json:"created_at,omitempty"`
	UpdatedAt Timestamp `json:"updated_at,omitempty"`
}

type Stats struct {
	TotalApplications int            `json:"total_applications"`
	StatusBreakdown   map[string]int `json:"status_breakdown"`
	LatestApplication *Application   `json:"latest_application"`
}

// Timestamp decodes the backend's ISO timestamps, which may lack a zone.
type Timestamp struct {
	time.Time
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999",
	"2006-01-02T15:04:05",
}

func (t *Timestamp) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		t.Time = time.Time{}
		return nil
	}
	for _, layout := range timestampLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time = parsed
			return nil
		}
	}
	return fmt.Errorf("parse timestamp %q", s)
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + t.Format(time.RFC3339Nano) + `"`), nil
}
