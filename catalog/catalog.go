package catalog

import (
	"fmt"
	"maps"
	"math"
	"slices"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/jrsteele09/ironrent/internal/errors"
)

// Category groups machinery on the public catalog, e.g. "Excavators"
type Category struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"` // URL segment, unique across categories
	Description string    `json:"description,omitempty"`
	ImageURL    string    `json:"image_url,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// CategorySummary is a category with the number of machines filed under it
type CategorySummary struct {
	Category
	MachineCount int
}

// CategoryInput is the editable part of a category
type CategoryInput struct {
	Name        string
	Slug        string
	Description string
	ImageURL    string
}

// Machine is a single piece of rentable equipment
type Machine struct {
	ID          uuid.UUID         `json:"id"`
	Title       string            `json:"title"`
	Slug        string            `json:"slug"`
	CategoryID  uuid.UUID         `json:"category_id"`
	ShiftPrice  float64           `json:"shift_price"`            // Price per 8 hour shift
	HourlyPrice *float64          `json:"hourly_price,omitempty"` // Not every machine is let by the hour
	Description string            `json:"description,omitempty"`
	Specs       map[string]string `json:"specs,omitempty"`
	ImageURL    string            `json:"image_url,omitempty"`
	Images      []string          `json:"images,omitempty"`
	IsFeatured  bool              `json:"is_featured"`
	IsAvailable bool              `json:"is_available"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// MachineInput is the editable part of a machine
type MachineInput struct {
	Title       string
	Slug        string
	CategoryID  uuid.UUID
	ShiftPrice  float64
	HourlyPrice *float64
	Description string
	Specs       map[string]string
	ImageURL    string
	Images      []string
	IsFeatured  bool
	IsAvailable bool
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
	return errors.ErrInvalidCatalog
}

// NewCategory validates the input and builds a category. An empty slug is
// derived from the name.
func NewCategory(in CategoryInput, now time.Time) (*Category, error) {
	c := &Category{ID: uuid.New(), CreatedAt: now}
	if err := c.Apply(in); err != nil {
		return nil, err
	}
	slug := Slugify(in.Slug)
	if slug == "" {
		slug = Slugify(c.Name)
	}
	if slug == "" {
		return nil, &ValidationError{Field: "slug", Message: "Category URL must contain letters or digits"}
	}
	c.Slug = slug
	return c, nil
}

// Apply updates the editable fields. The slug is kept so existing links
// keep working.
func (c *Category) Apply(in CategoryInput) error {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return &ValidationError{Field: "name", Message: "Category name is required"}
	}
	c.Name = name
	c.Description = strings.TrimSpace(in.Description)
	c.ImageURL = strings.TrimSpace(in.ImageURL)
	return nil
}

// NewMachine validates the input and builds a machine. An empty slug is
// derived from the title.
func NewMachine(in MachineInput, now time.Time) (*Machine, error) {
	m := &Machine{ID: uuid.New(), CreatedAt: now}
	if err := m.Apply(in, now); err != nil {
		return nil, err
	}
	return m, nil
}

// Apply replaces the editable fields. An empty slug keeps the current one,
// or is derived from the title when there is none yet.
func (m *Machine) Apply(in MachineInput, now time.Time) error {
	title := strings.TrimSpace(in.Title)
	if utf8.RuneCountInString(title) < 2 {
		return &ValidationError{Field: "title", Message: "Machine title is required"}
	}
	if in.CategoryID == uuid.Nil {
		return &ValidationError{Field: "category", Message: "Choose a category"}
	}
	if math.IsNaN(in.ShiftPrice) || in.ShiftPrice <= 0 {
		return &ValidationError{Field: "shiftPrice", Message: "Shift price must be greater than zero"}
	}
	if in.HourlyPrice != nil && (math.IsNaN(*in.HourlyPrice) || *in.HourlyPrice <= 0) {
		return &ValidationError{Field: "hourlyPrice", Message: "Hourly price must be greater than zero"}
	}

	slug := Slugify(in.Slug)
	if slug == "" {
		slug = m.Slug
	}
	if slug == "" {
		slug = Slugify(title)
	}
	if slug == "" {
		return &ValidationError{Field: "slug", Message: "Machine URL must contain letters or digits"}
	}

	m.Title = title
	m.Slug = slug
	m.CategoryID = in.CategoryID
	m.ShiftPrice = in.ShiftPrice
	m.HourlyPrice = nil
	if in.HourlyPrice != nil {
		price := *in.HourlyPrice
		m.HourlyPrice = &price
	}
	m.Description = strings.TrimSpace(in.Description)
	m.Specs = cleanSpecs(in.Specs)
	m.ImageURL = strings.TrimSpace(in.ImageURL)
	m.Images = cleanImages(in.Images)
	m.IsFeatured = in.IsFeatured
	m.IsAvailable = in.IsAvailable
	m.UpdatedAt = now
	return nil
}

// Clone returns a copy that shares no maps or slices with m
func (m *Machine) Clone() *Machine {
	c := *m
	c.Specs = maps.Clone(m.Specs)
	c.Images = slices.Clone(m.Images)
	if m.HourlyPrice != nil {
		price := *m.HourlyPrice
		c.HourlyPrice = &price
	}
	return &c
}

func cleanSpecs(specs map[string]string) map[string]string {
	out := make(map[string]string, len(specs))
	for k, v := range specs {
		k, v = strings.TrimSpace(k), strings.TrimSpace(v)
		if k != "" && v != "" {
			out[k] = v
		}
	}
	return out
}

func cleanImages(images []string) []string {
	out := make([]string, 0, len(images))
	for _, img := range images {
		if img = strings.TrimSpace(img); img != "" {
			out = append(out, img)
		}
	}
	return out
}
