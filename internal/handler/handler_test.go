package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"github.com/smenuberu/dashboard/internal/backend"
	"github.com/smenuberu/dashboard/internal/config"
	"github.com/smenuberu/dashboard/internal/domain"
	"github.com/smenuberu/dashboard/internal/repository"
	"github.com/smenuberu/dashboard/internal/store"
	"github.com/stretchr/testify/require"
)

const testUserID = "u1"

type fakePublisher struct {
	mu   sync.Mutex
	msgs []domain.MailMessage
}

func (p *fakePublisher) PublishWithContext(_ context.Context, _, key string, _, _ bool, msg amqp.Publishing) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	var m domain.MailMessage
	if err := json.Unmarshal(msg.Body, &m); err != nil {
		return err
	}
	if key != "email_queue" {
		return fmt.Errorf("unexpected queue %s", key)
	}
	p.msgs = append(p.msgs, m)
	return nil
}

func (p *fakePublisher) messages() []domain.MailMessage {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]domain.MailMessage(nil), p.msgs...)
}

// fakeBackend records what the dashboard sends to the marketplace API.
type fakeBackend struct {
	mu        sync.Mutex
	calls     []string
	slotDates []string
	patches   []domain.ObjectPatch
	failDate  string
	blobs     int
	server    *httptest.Server
}

func (b *fakeBackend) record(r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls = append(b.calls, r.Method+" "+r.URL.Path)
}

func (b *fakeBackend) count(call string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := 0
	for _, c := range b.calls {
		if c == call {
			n++
		}
	}
	return n
}

func writeTestJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func newFakeBackend(t *testing.T) *fakeBackend {
	t.Helper()
	b := &fakeBackend{}
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			b.record(r)
			next.ServeHTTP(w, r)
		})
	})

	r.Get("/auth/me", func(w http.ResponseWriter, r *http.Request) {
		if _, err := r.Cookie("sid"); err != nil {
			writeTestJSON(w, http.StatusOK, map[string]any{"ok": true, "user": nil})
			return
		}
		writeTestJSON(w, http.StatusOK, map[string]any{"ok": true, "user": map[string]any{
			"id": testUserID, "displayName": "Иван Петров", "email": "ivan@example.com", "createdAt": "2024-01-02T03:04:05Z",
		}})
	})
	r.Post("/auth/logout", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Add("Set-Cookie", "sid=; Path=/; Max-Age=0")
		writeTestJSON(w, http.StatusOK, map[string]bool{"ok": true})
	})

	r.Get("/objects", func(w http.ResponseWriter, r *http.Request) {
		writeTestJSON(w, http.StatusOK, []map[string]any{{"id": "obj1", "name": "Склад", "city": "Москва", "photos": []string{}}})
	})
	r.Post("/objects", func(w http.ResponseWriter, r *http.Request) {
		writeTestJSON(w, http.StatusCreated, map[string]any{"object": map[string]string{"id": "obj1"}})
	})
	r.Patch("/objects/{id}", func(w http.ResponseWriter, r *http.Request) {
		var patch domain.ObjectPatch
		_ = json.NewDecoder(r.Body).Decode(&patch)
		b.mu.Lock()
		b.patches = append(b.patches, patch)
		b.mu.Unlock()
		writeTestJSON(w, http.StatusOK, map[string]string{"id": chi.URLParam(r, "id")})
	})
	r.Post("/uploads/{kind}", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		b.blobs++
		n := b.blobs
		b.mu.Unlock()
		writeTestJSON(w, http.StatusOK, map[string]string{
			"uploadUrl": fmt.Sprintf("%s/storage/%d", b.server.URL, n),
			"publicUrl": fmt.Sprintf("https://cdn.example.com/%d.png", n),
		})
	})
	r.Put("/storage/{n}", func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.Header.Get("Content-Type"), "image/") {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		w.WriteHeader(http.StatusOK)
	})

	r.Get("/slots/created", func(w http.ResponseWriter, r *http.Request) {
		writeTestJSON(w, http.StatusOK, map[string]any{"slots": []map[string]any{
			{"id": "s1", "objectId": "obj1", "title": "Грузчик", "date": "2024-05-01", "startTime": "08:00", "endTime": "16:00", "pay": 3500, "type": "loader"},
		}})
	})
	r.Post("/slots", func(w http.ResponseWriter, r *http.Request) {
		var in domain.SlotInput
		_ = json.NewDecoder(r.Body).Decode(&in)
		if in.Date == b.failDate {
			writeTestJSON(w, http.StatusBadRequest, map[string]string{"error": "slot limit reached"})
			return
		}
		b.mu.Lock()
		b.slotDates = append(b.slotDates, in.Date)
		n := len(b.slotDates)
		b.mu.Unlock()
		writeTestJSON(w, http.StatusCreated, map[string]string{"id": fmt.Sprintf("s%d", n)})
	})
	r.Get("/slots/{id}", func(w http.ResponseWriter, r *http.Request) {
		if chi.URLParam(r, "id") != "s1" {
			writeTestJSON(w, http.StatusNotFound, map[string]string{"error": "slot not found"})
			return
		}
		writeTestJSON(w, http.StatusOK, map[string]any{"slot": map[string]any{
			"id": "s1", "objectId": "obj1", "title": "Грузчик", "date": "2024-05-01", "startTime": "08:00:00", "endTime": "16:00:00", "pay": 3500, "type": "loader", "published": true,
			"bookings": []map[string]any{{"id": "b1", "status": "confirmed", "user": map[string]any{"id": "w1", "displayName": "Пётр"}}},
		}})
	})
	r.Get("/slots", func(w http.ResponseWriter, r *http.Request) {
		writeTestJSON(w, http.StatusOK, []map[string]any{})
	})
	r.Get("/geo/suggest", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query().Get("q")
		writeTestJSON(w, http.StatusOK, map[string]any{"ok": true, "items": []map[string]string{{"title": q, "subtitle": "Москва", "value": "Москва, " + q}}})
	})
	r.Get("/geo/geocode", func(w http.ResponseWriter, r *http.Request) {
		writeTestJSON(w, http.StatusOK, map[string]any{"ok": true, "lat": 55.76, "lng": 37.61})
	})

	b.server = httptest.NewServer(r)
	t.Cleanup(b.server.Close)
	return b
}

type testEnv struct {
	handler *Handler
	backend *fakeBackend
	store   *store.Store
	mail    *fakePublisher
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	be := newFakeBackend(t)
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	cfg := &config.Config{}
	cfg.Backend.BaseURL = be.server.URL
	cfg.Backend.PublicURL = be.server.URL
	cfg.Backend.OAuthProvider = "yandex"
	cfg.Upload.MaxPhotos = 3
	cfg.Upload.MaxFileSize = 1 << 20
	cfg.Suggest.Debounce = 300
	cfg.Draft.Expiration = 3600
	cfg.Draft.BusyTimeout = 30
	cfg.JWT.Secret = "test-secret"
	cfg.Redis.OperationExpiration = 5
	cfg.RabbitMQ.PublishTimeout = 5

	repo := repository.NewRepository(cfg, backend.New(be.server.URL, 5*time.Second))
	st := store.New(cfg, rdb)
	pub := &fakePublisher{}

	h, err := NewHandler(cfg, repo, st, pub)
	require.NoError(t, err)
	h.RegisterRoutes()

	return &testEnv{handler: h, backend: be, store: st, mail: pub}
}

// do sends a request through the dashboard router, signed in unless anon.
func (e *testEnv) do(req *http.Request, anon bool) *httptest.ResponseRecorder {
	if !anon {
		req.AddCookie(&http.Cookie{Name: "sid", Value: "session"})
	}
	rec := httptest.NewRecorder()
	e.handler.Mux.ServeHTTP(rec, req)
	return rec
}

func (e *testEnv) postForm(path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return e.do(req, false)
}

func (e *testEnv) postMultipart(t *testing.T, path string, fields map[string]string, fileField string, file []byte) *httptest.ResponseRecorder {
	t.Helper()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if fileField != "" {
		fw, err := mw.CreateFormFile(fileField, "picture.png")
		require.NoError(t, err)
		_, err = io.Copy(fw, bytes.NewReader(file))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return e.do(req, false)
}

func (e *testEnv) formToken(t *testing.T, formID string) string {
	t.Helper()
	token, err := e.handler.issueFormToken(testUserID, formID)
	require.NoError(t, err)
	return token
}

var draftTokenPattern = regexp.MustCompile(`name="draft" value="([^"]+)"`)

func extractDraftToken(t *testing.T, body string) string {
	t.Helper()
	m := draftTokenPattern.FindStringSubmatch(body)
	require.Len(t, m, 2, "draft token not found in page")
	return m[1]
}

// pngBytes starts with the PNG signature so content sniffing recognises it.
var pngBytes = append([]byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"), make([]byte, 32)...)
