package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"eventsapi/internal/domain"
)

// invalid_text_representation, raised for ids that are not UUIDs.
const codeInvalidText = "22P02"

const eventColumns = `id, type, name, tagline, schedule, description, image, moderator, category, sub_category, rigor_rank, attendees`

type eventRepository struct {
	DB *sql.DB
}

func NewEventRepository(db *sql.DB) domain.EventRepository {
	return &eventRepository{
		DB: db,
	}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEvent(row rowScanner) (*domain.Event, error) {
	e := &domain.Event{}
	var image sql.NullString
	var attendees pq.Int64Array
	if err := row.Scan(
		&e.ID, &e.Type, &e.Name, &e.Tagline, &e.Schedule, &e.Description, &image,
		&e.Moderator, &e.Category, &e.SubCategory, &e.RigorRank, &attendees,
	); err != nil {
		return nil, err
	}
	if image.Valid {
		e.Image = &image.String
	}
	e.Schedule = e.Schedule.UTC()
	e.Attendees = make([]int, 0, len(attendees))
	for _, a := range attendees {
		e.Attendees = append(e.Attendees, int(a))
	}
	return e, nil
}

func int64s(in []int) pq.Int64Array {
	out := make(pq.Int64Array, 0, len(in))
	for _, v := range in {
		out = append(out, int64(v))
	}
	return out
}

// isNotFound reports whether err means no row can match, either because none
// exists or because the id is not a valid UUID.
func isNotFound(err error) bool {
	if errors.Is(err, sql.ErrNoRows) {
		return true
	}
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == codeInvalidText
}

func (r *eventRepository) Create(ctx context.Context, e *domain.Event) error {
	query := `
		INSERT INTO events (type, name, tagline, schedule, description, image, moderator, category, sub_category, rigor_rank, attendees)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id
	`
	var image sql.NullString
	if e.Image != nil {
		image = sql.NullString{String: *e.Image, Valid: true}
	}
	return r.DB.QueryRowContext(ctx, query,
		e.Type, e.Name, e.Tagline, e.Schedule, e.Description, image,
		e.Moderator, e.Category, e.SubCategory, e.RigorRank, int64s(e.Attendees),
	).Scan(&e.ID)
}

func (r *eventRepository) List(ctx context.Context, params domain.PaginationParams) ([]*domain.Event, error) {
	query := `SELECT ` + eventColumns + `
		FROM events
		ORDER BY schedule DESC
		LIMIT $1 OFFSET $2
	`
	rows, err := r.DB.QueryContext(ctx, query, params.Limit, params.Offset())
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	events := make([]*domain.Event, 0)
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

func (r *eventRepository) Count(ctx context.Context) (int, error) {
	var n int
	err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM events`).Scan(&n)
	return n, err
}

func (r *eventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	query := `SELECT ` + eventColumns + `
		FROM events
		WHERE id = $1
	`
	e, err := scanEvent(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if isNotFound(err) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return e, nil
}

func (r *eventRepository) Update(ctx context.Context, id string, update domain.EventUpdate) error {
	var setClauses []string
	var args []any
	for i, f := range update.Fields() {
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", f.Name, i+1))
		if attendees, ok := f.Value.([]int); ok {
			args = append(args, int64s(attendees))
			continue
		}
		args = append(args, f.Value)
	}
	if len(setClauses) == 0 {
		_, err := r.GetByID(ctx, id)
		return err
	}
	args = append(args, id)
	query := fmt.Sprintf(`UPDATE events SET %s WHERE id = $%d`, strings.Join(setClauses, ", "), len(args))
	result, err := r.DB.ExecContext(ctx, query, args...)
	if err != nil {
		if isNotFound(err) {
			return domain.ErrNotFound
		}
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *eventRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM events WHERE id = $1`
	result, err := r.DB.ExecContext(ctx, query, id)
	if err != nil {
		if isNotFound(err) {
			return domain.ErrNotFound
		}
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}
