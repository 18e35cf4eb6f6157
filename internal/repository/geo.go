package repository

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"github.com/smenuberu/dashboard/internal/domain"
)

func (r *Repository) SuggestAddress(ctx context.Context, q string) ([]domain.Suggestion, error) {
	var resp struct {
		OK    bool                `json:"ok"`
		Items []domain.Suggestion `json:"items"`
	}
	if err := r.client.Do(ctx, http.MethodGet, "/geo/suggest?q="+url.QueryEscape(q), nil, &resp); err != nil {
		return nil, err
	}
	if resp.Items == nil {
		resp.Items = []domain.Suggestion{}
	}
	return resp.Items, nil
}

func (r *Repository) Geocode(ctx context.Context, address string) (*domain.Geocode, error) {
	var resp struct {
		OK bool `json:"ok"`
		domain.Geocode
	}
	if err := r.client.Do(ctx, http.MethodGet, "/geo/geocode?address="+url.QueryEscape(address), nil, &resp); err != nil {
		return nil, err
	}
	if !resp.OK {
		return nil, errors.New("address not found")
	}
	return &resp.Geocode, nil
}
