package events

import (
	"errors"
	"reflect"
	"strings"

	"github.com/campus-events/server/internal/sanitize"
	"github.com/campus-events/server/internal/validation"
	"github.com/go-playground/validator/v10"
)

// Draft is the input for creating an event. Identity and feedback ids are
// assigned by the store.
type Draft struct {
	Name               string     `json:"name" validate:"required,max=200"`
	Description        string     `json:"description" validate:"required,max=5000"`
	Date               string     `json:"date" validate:"required,datetime=2006-01-02"`
	Time               string     `json:"time" validate:"required,max=32"`
	Location           string     `json:"location" validate:"required,max=200"`
	BranchID           string     `json:"branchId" validate:"max=64"`
	Organizer          string     `json:"organizer" validate:"required,max=64"`
	Capacity           int        `json:"capacity" validate:"gt=0"`
	VenueID            string     `json:"venueId" validate:"max=64"`
	Status             Status     `json:"status" validate:"omitempty,oneof=upcoming ongoing completed"`
	ImageURL           string     `json:"imageUrl,omitempty" validate:"omitempty,url,max=2048"`
	RegisteredStudents []string   `json:"registeredStudents,omitempty" validate:"omitempty,dive,required"`
	Feedback           []Feedback `json:"feedback,omitempty" validate:"omitempty,dive"`
}

// VenueIndex resolves venue references when an event is created.
type VenueIndex interface {
	VenueCapacity(id string) (int, bool)
}

// BranchIndex resolves branch references when an event is created.
type BranchIndex interface {
	HasBranch(id string) bool
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return field.Name
		}
		return name
	})
	return v
}

// normalize strips markup and whitespace from free-text fields.
func (d Draft) normalize() Draft {
	d.Name = sanitize.Text(d.Name)
	d.Description = sanitize.RichText(d.Description)
	d.Date = strings.TrimSpace(d.Date)
	d.Time = sanitize.Text(d.Time)
	d.Location = sanitize.Text(d.Location)
	d.BranchID = strings.TrimSpace(d.BranchID)
	d.Organizer = strings.TrimSpace(d.Organizer)
	d.VenueID = strings.TrimSpace(d.VenueID)
	d.ImageURL = strings.TrimSpace(d.ImageURL)
	if len(d.Feedback) > 0 {
		fbs := make([]Feedback, len(d.Feedback))
		for i, fb := range d.Feedback {
			fb.ID = strings.TrimSpace(fb.ID)
			fb.StudentID = strings.TrimSpace(fb.StudentID)
			fb.Comment = sanitize.Text(fb.Comment)
			fb.Date = strings.TrimSpace(fb.Date)
			fbs[i] = fb
		}
		d.Feedback = fbs
	}
	if d.Status == "" {
		d.Status = StatusUpcoming
	}
	return d
}

func (d Draft) event() Event {
	ev := Event{
		Name:               d.Name,
		Description:        d.Description,
		Date:               d.Date,
		Time:               d.Time,
		Location:           d.Location,
		BranchID:           d.BranchID,
		Organizer:          d.Organizer,
		Capacity:           d.Capacity,
		RegisteredStudents: d.RegisteredStudents,
		Feedback:           d.Feedback,
		VenueID:            d.VenueID,
		Status:             d.Status,
		ImageURL:           d.ImageURL,
	}
	return ev.Clone()
}

// validateDraft converts the first struct-tag violation into a ValidationError
// and then checks references against the configured indexes.
func validateDraft(v *validator.Validate, d Draft, venues VenueIndex, branches BranchIndex) error {
	if err := v.Struct(d); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return ValidationError{Field: verrs[0].Field(), Message: describeTag(verrs[0])}
		}
		return ValidationError{Message: err.Error()}
	}
	var urlErr validation.URLError
	if err := validation.ValidateURL(d.ImageURL, "imageUrl"); errors.As(err, &urlErr) {
		return ValidationError{Field: urlErr.Field, Message: urlErr.Message}
	}

	if d.BranchID != "" && branches != nil && !branches.HasBranch(d.BranchID) {
		return ValidationError{Field: "branchId", Message: "unknown branch " + d.BranchID}
	}
	if d.VenueID != "" && venues != nil {
		venueCapacity, ok := venues.VenueCapacity(d.VenueID)
		if !ok {
			return ValidationError{Field: "venueId", Message: "unknown venue " + d.VenueID}
		}
		if d.Capacity > venueCapacity {
			return ValidationError{Field: "capacity", Message: "exceeds venue capacity"}
		}
	}
	return nil
}

func describeTag(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "gt":
		return "must be greater than " + fe.Param()
	case "min":
		if fe.Kind() == reflect.Int {
			return "must be at least " + fe.Param()
		}
		return "must be at least " + fe.Param() + " characters"
	case "max":
		if fe.Kind() == reflect.Int {
			return "must be at most " + fe.Param()
		}
		return "must be at most " + fe.Param() + " characters"
	case "datetime":
		return "must be a date in YYYY-MM-DD format"
	case "oneof":
		return "must be one of: " + fe.Param()
	case "url":
		return "must be a valid URL"
	default:
		return "failed " + fe.Tag() + " check"
	}
}
