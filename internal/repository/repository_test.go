package repository

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/smenuberu/dashboard/internal/backend"
	"github.com/smenuberu/dashboard/internal/config"
	"github.com/smenuberu/dashboard/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepository(t *testing.T, mux http.Handler) *Repository {
	t.Helper()

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	cfg := &config.Config{}
	cfg.Backend.BaseURL = srv.URL
	cfg.Backend.OAuthProvider = "yandex"

	return NewRepository(cfg, backend.New(srv.URL, time.Second))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestRepository_CreateIDNormalization(t *testing.T) {
	r := chi.NewRouter()
	r.Post("/objects", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusCreated, map[string]any{"object": map[string]string{"id": "obj-nested"}})
	})
	r.Post("/slots", func(w http.ResponseWriter, r *http.Request) {
		var in domain.SlotInput
		_ = json.NewDecoder(r.Body).Decode(&in)
		if in.Date == "2024-05-01" {
			writeJSON(w, http.StatusCreated, map[string]string{"id": "slot-flat"})
			return
		}
		writeJSON(w, http.StatusCreated, map[string]any{"slot": map[string]string{"id": "slot-nested"}})
	})
	repo := newTestRepository(t, r)
	ctx := context.Background()

	id, err := repo.CreateObject(ctx, domain.ObjectInput{Name: "Склад", City: "Москва", Address: "Тверская, 1"})
	require.NoError(t, err)
	assert.Equal(t, "obj-nested", id)

	id, err = repo.CreateSlot(ctx, domain.SlotInput{Date: "2024-05-01"})
	require.NoError(t, err)
	assert.Equal(t, "slot-flat", id)

	id, err = repo.CreateSlot(ctx, domain.SlotInput{Date: "2024-05-02"})
	require.NoError(t, err)
	assert.Equal(t, "slot-nested", id)
}

func TestRepository_CreateWithoutID(t *testing.T) {
	r := chi.NewRouter()
	r.Post("/objects", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	})
	repo := newTestRepository(t, r)

	_, err := repo.CreateObject(context.Background(), domain.ObjectInput{})
	assert.Error(t, err)
}

func TestRepository_GetSlot(t *testing.T) {
	r := chi.NewRouter()
	r.Get("/slots/{id}", func(w http.ResponseWriter, r *http.Request) {
		switch chi.URLParam(r, "id") {
		case "bare":
			writeJSON(w, http.StatusOK, map[string]any{"id": "bare", "title": "Грузчик", "date": "2024-05-01"})
		case "wrapped":
			writeJSON(w, http.StatusOK, map[string]any{"slot": map[string]any{"id": "wrapped", "title": "Повар"}})
		default:
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "slot not found"})
		}
	})
	repo := newTestRepository(t, r)
	ctx := context.Background()

	slot, err := repo.GetSlot(ctx, "bare")
	require.NoError(t, err)
	assert.Equal(t, "Грузчик", slot.Title)

	slot, err = repo.GetSlot(ctx, "wrapped")
	require.NoError(t, err)
	assert.Equal(t, "Повар", slot.Title)

	_, err = repo.GetSlot(ctx, "missing")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestRepository_Lists(t *testing.T) {
	r := chi.NewRouter()
	r.Get("/objects", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, []map[string]any{{"id": "o1", "name": "Склад", "city": "Москва", "photos": []string{}}})
	})
	r.Get("/slots/created", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"slots": []map[string]any{{"id": "s1"}, {"id": "s2"}}})
	})
	r.Get("/slots", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, nil)
	})
	repo := newTestRepository(t, r)
	ctx := context.Background()

	objects, err := repo.ListObjects(ctx)
	require.NoError(t, err)
	require.Len(t, objects, 1)
	assert.Equal(t, "Склад", objects[0].Name)

	slots, err := repo.ListCreatedSlots(ctx)
	require.NoError(t, err)
	assert.Len(t, slots, 2)

	public, err := repo.ListSlots(ctx)
	require.NoError(t, err)
	assert.Empty(t, public)
}

func TestRepository_Auth(t *testing.T) {
	r := chi.NewRouter()
	r.Get("/auth/me", func(w http.ResponseWriter, r *http.Request) {
		if _, err := r.Cookie("sid"); err != nil {
			writeJSON(w, http.StatusOK, map[string]any{"ok": true, "user": nil})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"ok": true, "user": map[string]any{
			"id": "u1", "displayName": "Иван", "createdAt": "2024-01-02T03:04:05Z",
		}})
	})
	repo := newTestRepository(t, r)

	user, err := repo.GetMe(context.Background())
	require.NoError(t, err)
	assert.Nil(t, user)

	ctx := backend.WithCookies(context.Background(), []*http.Cookie{{Name: "sid", Value: "1"}})
	user, err = repo.GetMe(ctx)
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, "Иван", user.Name())
	assert.Equal(t, "u1", user.Handle())

	assert.Contains(t, repo.LoginURL(), "/auth/yandex/start")
}

func TestRepository_PresignAndGeo(t *testing.T) {
	r := chi.NewRouter()
	r.Post("/uploads/{kind}", func(w http.ResponseWriter, r *http.Request) {
		var req domain.PresignRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		assert.Equal(t, "object-photo", chi.URLParam(r, "kind"))
		assert.Equal(t, "obj1", req.ObjectID)
		assert.Equal(t, "image/jpeg", req.ContentType)
		writeJSON(w, http.StatusOK, map[string]any{"ok": true, "uploadUrl": "https://s3/put", "publicUrl": "https://cdn/a.jpg"})
	})
	r.Get("/geo/suggest", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Тверская", r.URL.Query().Get("q"))
		writeJSON(w, http.StatusOK, map[string]any{"ok": true, "items": []map[string]string{{"title": "Тверская ул.", "subtitle": "Москва", "value": "Москва, Тверская ул."}}})
	})
	r.Get("/geo/geocode", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true, "lat": 55.75, "lng": 37.61, "address": "Москва, Тверская ул., 1"})
	})
	repo := newTestRepository(t, r)
	ctx := context.Background()

	presign, err := repo.PresignUpload(ctx, domain.UploadObjectPhoto, domain.PresignRequest{ObjectID: "obj1", ContentType: "image/jpeg"})
	require.NoError(t, err)
	assert.Equal(t, "https://cdn/a.jpg", presign.PublicURL)

	items, err := repo.SuggestAddress(ctx, "Тверская")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Москва, Тверская ул.", items[0].Value)

	geo, err := repo.Geocode(ctx, "Тверская 1")
	require.NoError(t, err)
	assert.InDelta(t, 55.75, geo.Lat, 0.001)
	assert.Equal(t, "Москва, Тверская ул., 1", geo.Address)
}
