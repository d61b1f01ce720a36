package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path"
	"sort"
	"sync"
	"testing"
	"time"

	"eventsapi/internal/adapters/storage"
	"eventsapi/internal/delivery/http/controllers"
	"eventsapi/internal/domain"
	"eventsapi/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memoryEventRepo is an in-memory EventRepository for routing tests.
type memoryEventRepo struct {
	mu     sync.Mutex
	byID   map[string]*domain.Event
	nextID int
	calls  int
}

func newMemoryEventRepo() *memoryEventRepo {
	return &memoryEventRepo{byID: make(map[string]*domain.Event), nextID: 1}
}

func (m *memoryEventRepo) Create(ctx context.Context, e *domain.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	e.ID = fmt.Sprintf("ev-%d", m.nextID)
	m.nextID++
	stored := *e
	m.byID[e.ID] = &stored
	return nil
}

func (m *memoryEventRepo) List(ctx context.Context, params domain.PaginationParams) ([]*domain.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	all := make([]*domain.Event, 0, len(m.byID))
	for _, e := range m.byID {
		c := *e
		all = append(all, &c)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Schedule.After(all[j].Schedule) })
	start := min(params.Offset(), len(all))
	end := start + min(params.Limit, len(all)-start)
	return all[start:end], nil
}

func (m *memoryEventRepo) Count(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	return len(m.byID), nil
}

func (m *memoryEventRepo) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	e, ok := m.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	c := *e
	return &c, nil
}

func (m *memoryEventRepo) Update(ctx context.Context, id string, update domain.EventUpdate) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	e, ok := m.byID[id]
	if !ok {
		return domain.ErrNotFound
	}
	update.Apply(e)
	return nil
}

func (m *memoryEventRepo) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if _, ok := m.byID[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.byID, id)
	return nil
}

func newTestServer(t *testing.T) (*httptest.Server, *memoryEventRepo, string) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	repo := newMemoryEventRepo()
	dir := t.TempDir()
	images, err := storage.NewLocalStore(dir)
	require.NoError(t, err)

	svc := services.NewEventService(repo, logger, 5*time.Second)
	events := controllers.NewEventController(logger, svc, images, 1<<20)
	health := controllers.NewHealthController(logger, func(ctx context.Context) error { return nil })
	srv := httptest.NewServer(NewRouter(events, health, dir))
	t.Cleanup(srv.Close)
	return srv, repo, dir
}

func sendForm(t *testing.T, method, url string, fields map[string]string, image string) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if image != "" {
		fw, err := mw.CreateFormFile("image", image)
		require.NoError(t, err)
		_, _ = fw.Write([]byte("img"))
	}
	require.NoError(t, mw.Close())
	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func doRequest(t *testing.T, method, url string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, url, nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

type eventEnvelope struct {
	Data struct {
		Message string        `json:"message"`
		Event   *domain.Event `json:"event"`
		ID      string        `json:"id"`
	} `json:"data"`
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func TestRouter_EventLifecycle(t *testing.T) {
	srv, _, _ := newTestServer(t)
	base := srv.URL + EventsPath

	resp := sendForm(t, http.MethodPost, base, map[string]string{
		"name": "Launch", "schedule": "2025-04-01T10:00:00Z", "attendees": "1,2,3",
	}, "poster.png")
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decode[eventEnvelope](t, resp).Data.Event
	require.NotNil(t, created.Image)
	assert.Equal(t, []int{1, 2, 3}, created.Attendees)

	img := doRequest(t, http.MethodGet, srv.URL+"/uploads/"+path.Base(*created.Image))
	assert.Equal(t, http.StatusOK, img.StatusCode)

	resp = sendForm(t, http.MethodPut, base+"/"+created.ID, map[string]string{
		"name": "Launch v2", "schedule": "2025-04-02T10:00:00Z",
	}, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doRequest(t, http.MethodGet, base+"?id="+created.ID)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	got := decode[eventEnvelope](t, resp).Data.Event
	assert.Equal(t, "Launch v2", got.Name)
	require.NotNil(t, got.Image)
	assert.Equal(t, *created.Image, *got.Image)
	assert.Empty(t, got.Attendees)

	resp = doRequest(t, http.MethodDelete, base+"/"+created.ID)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, created.ID, decode[eventEnvelope](t, resp).Data.ID)

	resp = doRequest(t, http.MethodDelete, base+"/"+created.ID)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestRouter_Pagination(t *testing.T) {
	srv, _, _ := newTestServer(t)
	base := srv.URL + EventsPath
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 1; i <= 12; i++ {
		resp := sendForm(t, http.MethodPost, base, map[string]string{
			"name":     fmt.Sprintf("event-%02d", i),
			"schedule": start.Add(time.Duration(i) * 24 * time.Hour).Format(time.RFC3339),
		}, "")
		require.Equal(t, http.StatusCreated, resp.StatusCode)
	}

	resp := doRequest(t, http.MethodGet, base+"?limit=5&page=2")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	page := decode[struct {
		Data domain.EventPage `json:"data"`
	}](t, resp).Data
	require.Len(t, page.Events, 5)
	want := []string{"event-07", "event-06", "event-05", "event-04", "event-03"}
	for i, e := range page.Events {
		assert.Equal(t, want[i], e.Name)
	}
	assert.Equal(t, domain.PaginationMeta{CurrentPage: 2, TotalPages: 3, TotalEvents: 12, Limit: 5}, page.Pagination)
}

func TestRouter_BadRequestsSkipStore(t *testing.T) {
	srv, repo, dir := newTestServer(t)
	base := srv.URL + EventsPath

	for _, q := range []string{"?page=0", "?limit=-1"} {
		resp := doRequest(t, http.MethodGet, base+q)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, q)
	}
	resp := sendForm(t, http.MethodPost, base, map[string]string{"schedule": "not-a-date"}, "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp = sendForm(t, http.MethodPut, base+"/ev-1", map[string]string{"schedule": "not-a-date"}, "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp = sendForm(t, http.MethodPost, base, map[string]string{"schedule": "2025-01-01", "attendees": "1,x"}, "poster.png")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, 0, repo.calls)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)

	resp = doRequest(t, http.MethodGet, base+"?id=")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp = doRequest(t, http.MethodGet, base+"?id=ev-404")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestRouter_Health(t *testing.T) {
	srv, _, _ := newTestServer(t)
	resp := doRequest(t, http.MethodGet, srv.URL+"/healthz")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
