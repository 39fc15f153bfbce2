package company

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jrsteele09/ironrent/internal/errors"
)

// Document is a licence or certificate shown on the about page
type Document struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	Number    string    `json:"number,omitempty"` // Registration number printed on the document
	ImageURL  string    `json:"image_url,omitempty"`
	SortOrder int       `json:"sort_order"`
	IsActive  bool      `json:"is_active"` // Inactive documents are kept but not published
	CreatedAt time.Time `json:"created_at"`
}

// DocumentInput is the editable part of a document
type DocumentInput struct {
	Title     string
	Number    string
	ImageURL  string
	SortOrder int
	IsActive  bool
}

// ValidationError carries a message that is safe to show to the admin
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return errors.ErrInvalidDocument
}

func NewDocument(in DocumentInput, now time.Time) (*Document, error) {
	d := &Document{ID: uuid.New(), CreatedAt: now}
	if err := d.Apply(in); err != nil {
		return nil, err
	}
	return d, nil
}

// Apply replaces the editable fields. An empty image URL keeps the current
// image.
func (d *Document) Apply(in DocumentInput) error {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return &ValidationError{Field: "title", Message: "Document title is required"}
	}
	d.Title = title
	d.Number = strings.TrimSpace(in.Number)
	if img := strings.TrimSpace(in.ImageURL); img != "" {
		d.ImageURL = img
	}
	d.SortOrder = in.SortOrder
	d.IsActive = in.IsActive
	return nil
}
