package repository

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/smenuberu/dashboard/internal/backend"
	"github.com/smenuberu/dashboard/internal/domain"
)

func (r *Repository) ListObjects(ctx context.Context) ([]domain.Object, error) {
	var objects []domain.Object
	if err := r.client.Do(ctx, http.MethodGet, "/objects", nil, &objects); err != nil {
		return nil, err
	}
	if objects == nil {
		objects = []domain.Object{}
	}
	return objects, nil
}

func (r *Repository) CreateObject(ctx context.Context, in domain.ObjectInput) (string, error) {
	var resp idEnvelope
	if err := r.client.Do(ctx, http.MethodPost, "/objects", in, &resp); err != nil {
		return "", err
	}
	id := resp.resolve()
	if id == "" {
		return "", errors.New("backend returned no object id")
	}
	return id, nil
}

func (r *Repository) PatchObject(ctx context.Context, id string, patch domain.ObjectPatch) error {
	return r.client.Do(ctx, http.MethodPatch, objectPath(id), patch, nil)
}

func (r *Repository) DeleteObject(ctx context.Context, id string) error {
	err := r.client.Do(ctx, http.MethodDelete, objectPath(id), nil, nil)
	if backend.IsNotFound(err) {
		return fmt.Errorf("object %s: %w", id, domain.ErrNotFound)
	}
	return err
}

func objectPath(id string) string {
	return "/objects/" + url.PathEscape(id)
}
