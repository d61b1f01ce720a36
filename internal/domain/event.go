package domain

import (
	"context"
	"time"
)

// DefaultListType is the listing mode used when the client does not send one.
const DefaultListType = "latest"

// Event is a schedulable item with descriptive metadata, an image reference
// and the ids of its attendees.
// swagger:model Event
type Event struct {
	ID          string    `json:"id"`
	Type        string    `json:"type"`
	Name        string    `json:"name"`
	Tagline     string    `json:"tagline"`
	Schedule    time.Time `json:"schedule"`
	Description string    `json:"description"`
	Image       *string   `json:"image,omitempty"`
	Moderator   string    `json:"moderator"`
	Category    string    `json:"category"`
	SubCategory string    `json:"sub_category"`
	RigorRank   string    `json:"rigor_rank"`
	Attendees   []int     `json:"attendees"`
}

// EventInput carries the raw client fields for create and update.
// Schedule is kept as text so the service owns timestamp parsing.
type EventInput struct {
	Type        string
	Name        string
	Tagline     string
	Schedule    string
	Description string
	Moderator   string
	Category    string
	SubCategory string
	RigorRank   string
	Attendees   AttendeesInput
}

// StoredFile is an uploaded file after it has been persisted by an ImageStore.
type StoredFile struct {
	Path string
}

// ListEventsQuery is the raw listing query. Empty strings mean "use the default".
type ListEventsQuery struct {
	Type  string
	Limit string
	Page  string
}

// EventPage is one page of events plus pagination metadata.
type EventPage struct {
	Events     []*Event       `json:"events"`
	Pagination PaginationMeta `json:"pagination"`
}

// EventRepository defines the interface for event storage.
// Implementations return ErrNotFound when no document matches an id.
type EventRepository interface {
	Create(ctx context.Context, event *Event) error
	List(ctx context.Context, params PaginationParams) ([]*Event, error)
	Count(ctx context.Context) (int, error)
	GetByID(ctx context.Context, id string) (*Event, error)
	Update(ctx context.Context, id string, update EventUpdate) error
	Delete(ctx context.Context, id string) error
}

// EventService defines the business logic for events.
type EventService interface {
	CreateEvent(ctx context.Context, in EventInput, image *StoredFile) (*Event, error)
	ListEvents(ctx context.Context, q ListEventsQuery) (*EventPage, error)
	GetEventByID(ctx context.Context, id string) (*Event, error)
	UpdateEvent(ctx context.Context, id string, in EventInput, image *StoredFile) (*Event, error)
	DeleteEvent(ctx context.Context, id string) error
}
