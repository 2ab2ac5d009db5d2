// Package seed loads the startup dataset of branches, venues and events.
package seed

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/campus-events/server/internal/domain/branches"
	"github.com/campus-events/server/internal/domain/events"
	"github.com/campus-events/server/internal/domain/venues"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
	k8syaml "sigs.k8s.io/yaml"
)

//go:embed default.yaml
var defaultData []byte

type Branch struct {
	ID   string `yaml:"id" json:"id" validate:"required"`
	Name string `yaml:"name" json:"name" validate:"required"`
}

type Venue struct {
	ID        string   `yaml:"id" json:"id" validate:"required"`
	Name      string   `yaml:"name" json:"name" validate:"required"`
	Location  string   `yaml:"location" json:"location"`
	Capacity  int      `yaml:"capacity" json:"capacity" validate:"gt=0"`
	Resources []string `yaml:"resources,omitempty" json:"resources,omitempty"`
}

type Feedback struct {
	ID        string `yaml:"id" json:"id" validate:"required"`
	EventID   string `yaml:"eventId" json:"eventId"`
	StudentID string `yaml:"studentId" json:"studentId" validate:"required"`
	Rating    int    `yaml:"rating" json:"rating" validate:"min=1,max=5"`
	Comment   string `yaml:"comment,omitempty" json:"comment,omitempty"`
	Date      string `yaml:"date" json:"date" validate:"required,datetime=2006-01-02"`
}

type Event struct {
	ID                 string     `yaml:"id" json:"id" validate:"required"`
	Name               string     `yaml:"name" json:"name" validate:"required"`
	Description        string     `yaml:"description" json:"description"`
	Date               string     `yaml:"date" json:"date" validate:"required,datetime=2006-01-02"`
	Time               string     `yaml:"time" json:"time"`
	Location           string     `yaml:"location" json:"location"`
	BranchID           string     `yaml:"branchId,omitempty" json:"branchId,omitempty"`
	Organizer          string     `yaml:"organizer" json:"organizer"`
	Capacity           int        `yaml:"capacity" json:"capacity" validate:"gt=0"`
	RegisteredStudents []string   `yaml:"registeredStudents,omitempty" json:"registeredStudents,omitempty" validate:"dive,required"`
	Feedback           []Feedback `yaml:"feedback,omitempty" json:"feedback,omitempty" validate:"dive"`
	VenueID            string     `yaml:"venueId,omitempty" json:"venueId,omitempty"`
	Status             string     `yaml:"status" json:"status" validate:"required,oneof=upcoming ongoing completed"`
	ImageURL           string     `yaml:"imageUrl,omitempty" json:"imageUrl,omitempty" validate:"omitempty,url"`
}

// Dataset is the full startup state.
type Dataset struct {
	Branches []Branch `yaml:"branches" json:"branches" validate:"dive"`
	Venues   []Venue  `yaml:"venues" json:"venues" validate:"dive"`
	Events   []Event  `yaml:"events" json:"events" validate:"dive"`
}

// Default returns the embedded dataset.
func Default() (*Dataset, error) {
	return Parse(defaultData)
}

// Load reads a dataset from path, or the embedded one when path is empty.
func Load(path string) (*Dataset, error) {
	if strings.TrimSpace(path) == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading seed file %s: %w", path, err)
	}
	ds, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("seed file %s: %w", path, err)
	}
	return ds, nil
}

// Parse decodes YAML (or JSON, which is valid YAML) and validates it.
// Unknown fields are rejected.
func Parse(data []byte) (*Dataset, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var ds Dataset
	if err := dec.Decode(&ds); err != nil {
		return nil, fmt.Errorf("decoding dataset: %w", err)
	}
	if err := ds.Validate(); err != nil {
		return nil, err
	}
	return &ds, nil
}

// Validate reports every problem found in the dataset: malformed records,
// duplicate ids, dangling branch or venue references and events that break
// the event store's invariants.
func (d *Dataset) Validate() error {
	var errs []string

	if err := validator.New().Struct(d); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return err
		}
		for _, fe := range verrs {
			errs = append(errs, fmt.Sprintf("%s: failed %s", fe.Namespace(), fe.Tag()))
		}
	}

	branchIDs := make(map[string]bool, len(d.Branches))
	for _, b := range d.Branches {
		if branchIDs[b.ID] {
			errs = append(errs, fmt.Sprintf("branch %s: duplicate id", b.ID))
		}
		branchIDs[b.ID] = true
	}
	venueCapacity := make(map[string]int, len(d.Venues))
	for _, v := range d.Venues {
		if _, dup := venueCapacity[v.ID]; dup {
			errs = append(errs, fmt.Sprintf("venue %s: duplicate id", v.ID))
		}
		venueCapacity[v.ID] = v.Capacity
	}

	eventIDs := make(map[string]bool, len(d.Events))
	for _, e := range d.Events {
		if eventIDs[e.ID] {
			errs = append(errs, fmt.Sprintf("event %s: duplicate id", e.ID))
		}
		eventIDs[e.ID] = true
		if e.BranchID != "" && !branchIDs[e.BranchID] {
			errs = append(errs, fmt.Sprintf("event %s: unknown branch %s", e.ID, e.BranchID))
		}
		if e.VenueID != "" {
			if c, ok := venueCapacity[e.VenueID]; !ok {
				errs = append(errs, fmt.Sprintf("event %s: unknown venue %s", e.ID, e.VenueID))
			} else if e.Capacity > c {
				errs = append(errs, fmt.Sprintf("event %s: capacity %d exceeds venue %s capacity %d", e.ID, e.Capacity, e.VenueID, c))
			}
		}
		if e.ID != "" {
			if err := e.toDomain().CheckInvariants(); err != nil {
				errs = append(errs, err.Error())
			}
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid dataset: %s", strings.Join(errs, "; "))
	}
	return nil
}

func (e Event) toDomain() events.Event {
	ev := events.Event{
		ID:                 e.ID,
		Name:               e.Name,
		Description:        e.Description,
		Date:               e.Date,
		Time:               e.Time,
		Location:           e.Location,
		BranchID:           e.BranchID,
		Organizer:          e.Organizer,
		Capacity:           e.Capacity,
		RegisteredStudents: e.RegisteredStudents,
		VenueID:            e.VenueID,
		Status:             events.Status(e.Status),
		ImageURL:           e.ImageURL,
	}
	for _, fb := range e.Feedback {
		eventID := fb.EventID
		if eventID == "" {
			eventID = e.ID
		}
		ev.Feedback = append(ev.Feedback, events.Feedback{
			ID:        fb.ID,
			EventID:   eventID,
			StudentID: fb.StudentID,
			Rating:    fb.Rating,
			Comment:   fb.Comment,
			Date:      fb.Date,
		})
	}
	return ev.Clone()
}

func (d *Dataset) DomainEvents() []events.Event {
	out := make([]events.Event, 0, len(d.Events))
	for _, e := range d.Events {
		out = append(out, e.toDomain())
	}
	return out
}

func (d *Dataset) DomainVenues() []venues.Venue {
	out := make([]venues.Venue, 0, len(d.Venues))
	for _, v := range d.Venues {
		out = append(out, venues.Venue{
			ID:        v.ID,
			Name:      v.Name,
			Location:  v.Location,
			Capacity:  v.Capacity,
			Resources: v.Resources,
		})
	}
	return out
}

func (d *Dataset) DomainBranches() []branches.Branch {
	out := make([]branches.Branch, 0, len(d.Branches))
	for _, b := range d.Branches {
		out = append(out, branches.Branch{ID: b.ID, Name: b.Name})
	}
	return out
}

// FromDomain builds a dataset from live state, for export.
func FromDomain(bs []branches.Branch, vs []venues.Venue, evs []events.Event) *Dataset {
	ds := &Dataset{}
	for _, b := range bs {
		ds.Branches = append(ds.Branches, Branch{ID: b.ID, Name: b.Name})
	}
	for _, v := range vs {
		ds.Venues = append(ds.Venues, Venue{ID: v.ID, Name: v.Name, Location: v.Location, Capacity: v.Capacity, Resources: v.Resources})
	}
	for _, ev := range evs {
		rec := Event{
			ID:                 ev.ID,
			Name:               ev.Name,
			Description:        ev.Description,
			Date:               ev.Date,
			Time:               ev.Time,
			Location:           ev.Location,
			BranchID:           ev.BranchID,
			Organizer:          ev.Organizer,
			Capacity:           ev.Capacity,
			RegisteredStudents: ev.RegisteredStudents,
			VenueID:            ev.VenueID,
			Status:             string(ev.Status),
			ImageURL:           ev.ImageURL,
		}
		for _, fb := range ev.Feedback {
			rec.Feedback = append(rec.Feedback, Feedback(fb))
		}
		ds.Events = append(ds.Events, rec)
	}
	return ds
}

// Export renders the dataset as "yaml" or "json".
func Export(d *Dataset, format string) ([]byte, error) {
	switch strings.ToLower(format) {
	case "", "yaml", "yml":
		return k8syaml.Marshal(d)
	case "json":
		out, err := json.MarshalIndent(d, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(out, '\n'), nil
	default:
		return nil, fmt.Errorf("unsupported export format %q (want yaml or json)", format)
	}
}
