package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"

	"eventsapi/internal/domain"
)

// List query defaults.
const (
	DefaultLimit = 5
	DefaultPage  = 1
)

type eventService struct {
	eventRepo      domain.EventRepository
	logger         *slog.Logger
	validate       *validator.Validate
	contextTimeout time.Duration
	requireFields  bool
}

// EventServiceOption configures optional service behaviour.
type EventServiceOption func(*eventService)

// WithRequiredFields makes create and update reject input missing type, name,
// schedule, moderator, category or rigor_rank.
func WithRequiredFields(require bool) EventServiceOption {
	return func(s *eventService) { s.requireFields = require }
}

func NewEventService(eventRepo domain.EventRepository, logger *slog.Logger, timeout time.Duration, opts ...EventServiceOption) domain.EventService {
	s := &eventService{
		eventRepo:      eventRepo,
		logger:         logger,
		validate:       validator.New(),
		contextTimeout: timeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *eventService) CreateEvent(ctx context.Context, in domain.EventInput, image *domain.StoredFile) (*domain.Event, error) {
	event, err := s.buildEvent(in)
	if err != nil {
		return nil, err
	}
	if image != nil {
		path := image.Path
		event.Image = &path
	}

	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := s.eventRepo.Create(ctx, event); err != nil {
		return nil, s.storeError(ctx, "failed to create event", err)
	}
	return event, nil
}

func (s *eventService) ListEvents(ctx context.Context, q domain.ListEventsQuery) (*domain.EventPage, error) {
	params, err := s.parseListQuery(q)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	// q.Type is accepted but not applied as a filter.
	events, err := s.eventRepo.List(ctx, params)
	if err != nil {
		return nil, s.storeError(ctx, "failed to fetch events", err)
	}
	total, err := s.eventRepo.Count(ctx)
	if err != nil {
		return nil, s.storeError(ctx, "failed to fetch events", err)
	}
	if events == nil {
		events = []*domain.Event{}
	}
	return &domain.EventPage{
		Events:     events,
		Pagination: domain.NewPaginationMeta(params, total),
	}, nil
}

func (s *eventService) GetEventByID(ctx context.Context, id string) (*domain.Event, error) {
	if id == "" {
		return nil, domain.NewValidationError("missing id")
	}

	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, s.storeError(ctx, "failed to fetch event", err)
	}
	return event, nil
}

func (s *eventService) UpdateEvent(ctx context.Context, id string, in domain.EventInput, image *domain.StoredFile) (*domain.Event, error) {
	if id == "" {
		return nil, domain.NewValidationError("missing id")
	}
	event, err := s.buildEvent(in)
	if err != nil {
		return nil, err
	}

	update := domain.EventUpdate{
		Type:        domain.Set(event.Type),
		Name:        domain.Set(event.Name),
		Tagline:     domain.Set(event.Tagline),
		Schedule:    domain.Set(event.Schedule),
		Description: domain.Set(event.Description),
		Image:       domain.Unchanged[string](),
		Moderator:   domain.Set(event.Moderator),
		Category:    domain.Set(event.Category),
		SubCategory: domain.Set(event.SubCategory),
		RigorRank:   domain.Set(event.RigorRank),
		Attendees:   domain.Set(event.Attendees),
	}
	if image != nil {
		update.Image = domain.Set(image.Path)
	}

	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := s.eventRepo.Update(ctx, id, update); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, s.storeError(ctx, "failed to update event", err)
	}

	updated := &domain.Event{ID: id}
	update.Apply(updated)
	return updated, nil
}

func (s *eventService) DeleteEvent(ctx context.Context, id string) error {
	if id == "" {
		return domain.NewValidationError("missing id")
	}

	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := s.eventRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return s.storeError(ctx, "failed to delete event", err)
	}
	return nil
}

// buildEvent validates and normalizes client input into the persisted shape.
func (s *eventService) buildEvent(in domain.EventInput) (*domain.Event, error) {
	if s.requireFields && (in.Type == "" || in.Name == "" || in.Schedule == "" ||
		in.Moderator == "" || in.Category == "" || in.RigorRank == "") {
		return nil, domain.NewValidationError("missing required fields")
	}
	schedule, ok := parseSchedule(in.Schedule)
	if !ok {
		return nil, domain.NewValidationError("invalid schedule")
	}
	attendees, err := in.Attendees.Normalize()
	if err != nil {
		return nil, err
	}
	return &domain.Event{
		Type:        in.Type,
		Name:        in.Name,
		Tagline:     in.Tagline,
		Schedule:    schedule,
		Description: in.Description,
		Moderator:   in.Moderator,
		Category:    in.Category,
		SubCategory: in.SubCategory,
		RigorRank:   in.RigorRank,
		Attendees:   attendees,
	}, nil
}

func (s *eventService) parseListQuery(q domain.ListEventsQuery) (domain.PaginationParams, error) {
	page, pageErr := intOrDefault(q.Page, DefaultPage)
	limit, limitErr := intOrDefault(q.Limit, DefaultLimit)

	// Page is reported before limit when both are bad.
	if pageErr != nil || s.validate.Var(page, "gt=0") != nil {
		return domain.PaginationParams{}, domain.NewValidationError("invalid page number")
	}
	if limitErr != nil || s.validate.Var(limit, "gt=0") != nil {
		return domain.PaginationParams{}, domain.NewValidationError("invalid limit value")
	}
	params := domain.PaginationParams{Page: page, Limit: limit}
	if !params.OffsetFits() {
		return domain.PaginationParams{}, domain.NewValidationError("invalid page number")
	}
	return params, nil
}

func (s *eventService) storeError(ctx context.Context, msg string, err error) error {
	s.logger.ErrorContext(ctx, msg, "err", err)
	return &domain.StoreError{Message: msg, Err: fmt.Errorf("%s: %w", msg, err)}
}

func intOrDefault(s string, def int) (int, error) {
	if s == "" {
		return def, nil
	}
	return strconv.Atoi(s)
}
