package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"eventsapi/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/require"
)

var eventRowColumns = []string{"id", "type", "name", "tagline", "schedule", "description", "image", "moderator", "category", "sub_category", "rigor_rank", "attendees"}

func TestEventRepository_Create(t *testing.T) {
	ctx := context.Background()
	schedule := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	image := "uploads/a.png"

	tests := []struct {
		name    string
		event   *domain.Event
		mock    func(mock sqlmock.Sqlmock)
		wantID  string
		wantErr bool
	}{
		{
			name: "success",
			event: &domain.Event{
				Type:      "event",
				Name:      "Conf 2025",
				Schedule:  schedule,
				Image:     &image,
				Attendees: []int{1, 2},
			},
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`INSERT INTO events \(type, name, tagline, schedule, description, image, moderator, category, sub_category, rigor_rank, attendees\)`).
					WithArgs("event", "Conf 2025", "", schedule, "", sqlmock.AnyArg(), "", "", "", "", sqlmock.AnyArg()).
					WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("0b7c6f1e-3a44-4d54-9a53-7f6f3c1d2e10"))
			},
			wantID:  "0b7c6f1e-3a44-4d54-9a53-7f6f3c1d2e10",
			wantErr: false,
		},
		{
			name:  "db error",
			event: &domain.Event{Name: "Conf", Schedule: schedule},
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`INSERT INTO events`).
					WillReturnError(sql.ErrConnDone)
			},
			wantID:  "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			repo := NewEventRepository(db)
			err = repo.Create(ctx, tt.event)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.wantID, tt.event.ID)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestEventRepository_List(t *testing.T) {
	ctx := context.Background()
	later := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	earlier := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	image := "uploads/x.png"

	tests := []struct {
		name    string
		params  domain.PaginationParams
		mock    func(mock sqlmock.Sqlmock)
		want    []*domain.Event
		wantErr bool
	}{
		{
			name:   "second page",
			params: domain.PaginationParams{Page: 2, Limit: 5},
			mock: func(mock sqlmock.Sqlmock) {
				rows := sqlmock.NewRows(eventRowColumns).
					AddRow("ev-1", "event", "A", "", later, "", image, "", "", "", "", "{1,2}").
					AddRow("ev-2", "event", "B", "", earlier, "", nil, "", "", "", "", "{}")
				mock.ExpectQuery(`SELECT id, type, name, .* FROM events\s+ORDER BY schedule DESC\s+LIMIT \$1 OFFSET \$2`).
					WithArgs(5, 5).
					WillReturnRows(rows)
			},
			want: []*domain.Event{
				{ID: "ev-1", Type: "event", Name: "A", Schedule: later, Image: &image, Attendees: []int{1, 2}},
				{ID: "ev-2", Type: "event", Name: "B", Schedule: earlier, Attendees: []int{}},
			},
		},
		{
			name:   "empty",
			params: domain.PaginationParams{Page: 1, Limit: 5},
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT id, type, name`).
					WithArgs(5, 0).
					WillReturnRows(sqlmock.NewRows(eventRowColumns))
			},
			want: []*domain.Event{},
		},
		{
			name:   "db error",
			params: domain.PaginationParams{Page: 1, Limit: 5},
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT id, type, name`).
					WillReturnError(sql.ErrConnDone)
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			got, err := NewEventRepository(db).List(ctx, tt.params)
			if tt.wantErr {
				require.Error(t, err)
				require.Nil(t, got)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestEventRepository_Count(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM events`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(12))
	n, err := NewEventRepository(db).Count(context.Background())
	require.NoError(t, err)
	require.Equal(t, 12, n)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEventRepository_GetByID(t *testing.T) {
	ctx := context.Background()
	schedule := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		id         string
		mock       func(mock sqlmock.Sqlmock)
		want       *domain.Event
		isNotFound bool
	}{
		{
			name: "success",
			id:   "ev-1",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT id, type, name`).
					WithArgs("ev-1").
					WillReturnRows(sqlmock.NewRows(eventRowColumns).
						AddRow("ev-1", "event", "Conf", "t", schedule, "d", nil, "m", "c", "s", "3", "{7}"))
			},
			want: &domain.Event{
				ID: "ev-1", Type: "event", Name: "Conf", Tagline: "t", Schedule: schedule, Description: "d",
				Moderator: "m", Category: "c", SubCategory: "s", RigorRank: "3", Attendees: []int{7},
			},
		},
		{
			name: "not found",
			id:   "ev-missing",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT id, type, name`).
					WithArgs("ev-missing").
					WillReturnError(sql.ErrNoRows)
			},
			isNotFound: true,
		},
		{
			name: "malformed uuid",
			id:   "zzz",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT id, type, name`).
					WithArgs("zzz").
					WillReturnError(&pq.Error{Code: "22P02", Message: "invalid input syntax for type uuid"})
			},
			isNotFound: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			got, err := NewEventRepository(db).GetByID(ctx, tt.id)
			if tt.isNotFound {
				require.True(t, errors.Is(err, domain.ErrNotFound))
				require.Nil(t, got)
				require.NoError(t, mock.ExpectationsWereMet())
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestEventRepository_Update(t *testing.T) {
	ctx := context.Background()
	schedule := time.Date(2025, 2, 2, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		update     domain.EventUpdate
		mock       func(mock sqlmock.Sqlmock)
		wantErr    bool
		isNotFound bool
	}{
		{
			name: "image unchanged is not written",
			update: domain.EventUpdate{
				Name:      domain.Set("renamed"),
				Schedule:  domain.Set(schedule),
				Image:     domain.Unchanged[string](),
				Attendees: domain.Set([]int{1}),
			},
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`UPDATE events SET name = \$1, schedule = \$2, attendees = \$3 WHERE id = \$4`).
					WithArgs("renamed", schedule, sqlmock.AnyArg(), "ev-1").
					WillReturnResult(sqlmock.NewResult(0, 1))
			},
		},
		{
			name:   "image set",
			update: domain.EventUpdate{Image: domain.Set("uploads/new.png")},
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`UPDATE events SET image = \$1 WHERE id = \$2`).
					WithArgs("uploads/new.png", "ev-1").
					WillReturnResult(sqlmock.NewResult(0, 1))
			},
		},
		{
			name:   "not found",
			update: domain.EventUpdate{Name: domain.Set("x")},
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`UPDATE events SET name = \$1 WHERE id = \$2`).
					WithArgs("x", "ev-1").
					WillReturnResult(sqlmock.NewResult(0, 0))
			},
			wantErr:    true,
			isNotFound: true,
		},
		{
			name:   "db error",
			update: domain.EventUpdate{Name: domain.Set("x")},
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`UPDATE events`).
					WillReturnError(sql.ErrConnDone)
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			err = NewEventRepository(db).Update(ctx, "ev-1", tt.update)
			if tt.wantErr {
				require.Error(t, err)
				require.Equal(t, tt.isNotFound, errors.Is(err, domain.ErrNotFound))
				require.NoError(t, mock.ExpectationsWereMet())
				return
			}
			require.NoError(t, err)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestEventRepository_Delete(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		id         string
		mock       func(mock sqlmock.Sqlmock)
		wantErr    bool
		isNotFound bool
	}{
		{
			name: "success",
			id:   "ev-1",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`DELETE FROM events WHERE id = \$1`).
					WithArgs("ev-1").
					WillReturnResult(sqlmock.NewResult(0, 1))
			},
		},
		{
			name: "not found",
			id:   "ev-missing",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`DELETE FROM events WHERE id = \$1`).
					WithArgs("ev-missing").
					WillReturnResult(sqlmock.NewResult(0, 0))
			},
			wantErr:    true,
			isNotFound: true,
		},
		{
			name: "db error",
			id:   "ev-1",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`DELETE FROM events WHERE id = \$1`).
					WithArgs("ev-1").
					WillReturnError(sql.ErrConnDone)
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			err = NewEventRepository(db).Delete(ctx, tt.id)
			if tt.wantErr {
				require.Error(t, err)
				require.Equal(t, tt.isNotFound, errors.Is(err, domain.ErrNotFound))
				require.NoError(t, mock.ExpectationsWereMet())
				return
			}
			require.NoError(t, err)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}
