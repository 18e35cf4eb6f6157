package repository

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/smenuberu/dashboard/internal/domain"
)

func (r *Repository) PresignUpload(ctx context.Context, kind domain.UploadKind, req domain.PresignRequest) (*domain.Presign, error) {
	presign := &domain.Presign{}
	if err := r.client.Do(ctx, http.MethodPost, "/uploads/"+string(kind), req, presign); err != nil {
		return nil, err
	}
	if presign.UploadURL == "" || presign.PublicURL == "" {
		return nil, errors.New("backend returned an incomplete upload slot")
	}
	return presign, nil
}

func (r *Repository) PutBlob(ctx context.Context, uploadURL, contentType string, body io.Reader) error {
	return r.client.Put(ctx, uploadURL, contentType, body)
}
