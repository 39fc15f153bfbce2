package leads

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/jrsteele09/ironrent/internal/errors"
)

// Status tracks a lead through the sales team's workflow
type Status string

const (
	StatusNew        Status = "NEW"
	StatusProcessing Status = "PROCESSING"
	StatusCompleted  Status = "COMPLETED"
	StatusCancelled  Status = "CANCELLED"
)

// Statuses lists every status in workflow order
var Statuses = []Status{StatusNew, StatusProcessing, StatusCompleted, StatusCancelled}

// DefaultSource is recorded when the form does not say where the lead came from
const DefaultSource = "website"

const (
	minNameLength  = 2
	minPhoneLength = 10
)

// ParseStatus accepts a status name in any case
func ParseStatus(s string) (Status, error) {
	status := Status(strings.ToUpper(strings.TrimSpace(s)))
	for _, known := range Statuses {
		if status == known {
			return status, nil
		}
	}
	return "", errors.Wrapf(errors.ErrInvalidStatus, "%q", s)
}

// Label is the human readable form of the status
func (s Status) Label() string {
	switch s {
	case StatusNew:
		return "New"
	case StatusProcessing:
		return "In progress"
	case StatusCompleted:
		return "Completed"
	case StatusCancelled:
		return "Cancelled"
	default:
		return string(s)
	}
}

// Lead is a rental enquiry left on the public site
type Lead struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	Email     string    `json:"email,omitempty"`
	Machine   string    `json:"machine,omitempty"`  // Machine the visitor was looking at
	Interest  string    `json:"interest,omitempty"` // Free-form category of interest
	Message   string    `json:"message,omitempty"`
	Source    string    `json:"source"` // Which form produced the lead
	Status    Status    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// Submission is the raw form input for a new lead
type Submission struct {
	Name     string
	Phone    string
	Email    string
	Machine  string
	Interest string
	Message  string
	Source   string
}

// ValidationError carries a message that is safe to show to the visitor
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return errors.ErrInvalidLead
}

// NewLead validates a submission and builds a NEW lead from it.
func NewLead(sub Submission, now time.Time) (*Lead, error) {
	name := strings.TrimSpace(sub.Name)
	if utf8.RuneCountInString(name) < minNameLength {
		return nil, &ValidationError{Field: "name", Message: "Please enter your name"}
	}

	phone := strings.TrimSpace(sub.Phone)
	if utf8.RuneCountInString(phone) < minPhoneLength {
		return nil, &ValidationError{Field: "phone", Message: "Please enter a valid phone number"}
	}

	source := strings.TrimSpace(sub.Source)
	if source == "" {
		source = DefaultSource
	}

	return &Lead{
		ID:        uuid.New(),
		Name:      name,
		Phone:     CleanPhone(phone),
		Email:     strings.TrimSpace(sub.Email),
		Machine:   strings.TrimSpace(sub.Machine),
		Interest:  strings.TrimSpace(sub.Interest),
		Message:   strings.TrimSpace(sub.Message),
		Source:    source,
		Status:    StatusNew,
		CreatedAt: now,
	}, nil
}

// CleanPhone keeps only digits and '+' so numbers compare consistently
func CleanPhone(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if (r >= '0' && r <= '9') || r == '+' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
