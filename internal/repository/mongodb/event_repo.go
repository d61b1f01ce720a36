package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"eventsapi/internal/domain"
)

// eventDocument is the stored shape of an event.
type eventDocument struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Type        string             `bson:"type"`
	Name        string             `bson:"name"`
	Tagline     string             `bson:"tagline"`
	Schedule    time.Time          `bson:"schedule"`
	Description string             `bson:"description"`
	Image       *string            `bson:"image"`
	Moderator   string             `bson:"moderator"`
	Category    string             `bson:"category"`
	SubCategory string             `bson:"sub_category"`
	RigorRank   string             `bson:"rigor_rank"`
	Attendees   []int              `bson:"attendees"`
}

func newEventDocument(e *domain.Event) eventDocument {
	attendees := e.Attendees
	if attendees == nil {
		attendees = []int{}
	}
	return eventDocument{
		Type:        e.Type,
		Name:        e.Name,
		Tagline:     e.Tagline,
		Schedule:    e.Schedule,
		Description: e.Description,
		Image:       e.Image,
		Moderator:   e.Moderator,
		Category:    e.Category,
		SubCategory: e.SubCategory,
		RigorRank:   e.RigorRank,
		Attendees:   attendees,
	}
}

func (d eventDocument) toDomain() *domain.Event {
	attendees := d.Attendees
	if attendees == nil {
		attendees = []int{}
	}
	return &domain.Event{
		ID:          d.ID.Hex(),
		Type:        d.Type,
		Name:        d.Name,
		Tagline:     d.Tagline,
		Schedule:    d.Schedule.UTC(),
		Description: d.Description,
		Image:       d.Image,
		Moderator:   d.Moderator,
		Category:    d.Category,
		SubCategory: d.SubCategory,
		RigorRank:   d.RigorRank,
		Attendees:   attendees,
	}
}

type eventRepository struct {
	coll *mongo.Collection
}

func NewEventRepository(coll *mongo.Collection) domain.EventRepository {
	return &eventRepository{coll: coll}
}

func (r *eventRepository) Create(ctx context.Context, e *domain.Event) error {
	res, err := r.coll.InsertOne(ctx, newEventDocument(e))
	if err != nil {
		return fmt.Errorf("insert event: %w", err)
	}
	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return fmt.Errorf("insert event: unexpected id type %T", res.InsertedID)
	}
	e.ID = oid.Hex()
	return nil
}

func (r *eventRepository) List(ctx context.Context, params domain.PaginationParams) ([]*domain.Event, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "schedule", Value: -1}}).
		SetSkip(int64(params.Offset())).
		SetLimit(int64(params.Limit))
	cursor, err := r.coll.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("find events: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []eventDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode events: %w", err)
	}
	events := make([]*domain.Event, 0, len(docs))
	for _, d := range docs {
		events = append(events, d.toDomain())
	}
	return events, nil
}

func (r *eventRepository) Count(ctx context.Context) (int, error) {
	n, err := r.coll.CountDocuments(ctx, bson.D{})
	if err != nil {
		return 0, fmt.Errorf("count events: %w", err)
	}
	return int(n), nil
}

func (r *eventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrNotFound
	}
	var doc eventDocument
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("find event: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *eventRepository) Update(ctx context.Context, id string, update domain.EventUpdate) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrNotFound
	}
	set := bson.D{}
	for _, f := range update.Fields() {
		set = append(set, bson.E{Key: f.Name, Value: f.Value})
	}
	if len(set) == 0 {
		_, err := r.GetByID(ctx, id)
		return err
	}
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid}, bson.D{{Key: "$set", Value: set}})
	if err != nil {
		return fmt.Errorf("update event: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *eventRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrNotFound
	}
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}
