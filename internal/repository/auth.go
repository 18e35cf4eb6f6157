package repository

import (
	"context"
	"fmt"
	"net/http"

	"github.com/smenuberu/dashboard/internal/domain"
)

// GetMe returns nil without error when nobody is signed in.
func (r *Repository) GetMe(ctx context.Context) (*domain.User, error) {
	var resp struct {
		OK   bool         `json:"ok"`
		User *domain.User `json:"user"`
	}
	if err := r.client.Do(ctx, http.MethodGet, "/auth/me", nil, &resp); err != nil {
		return nil, err
	}
	return resp.User, nil
}

func (r *Repository) Logout(ctx context.Context) error {
	return r.client.Do(ctx, http.MethodPost, "/auth/logout", nil, nil)
}

// LoginURL is where the browser is sent to start the OAuth flow.
func (r *Repository) LoginURL() string {
	path := fmt.Sprintf("/auth/%s/start", r.cfg.Backend.OAuthProvider)
	if r.cfg.Backend.PublicURL != "" {
		return r.cfg.Backend.PublicURL + path
	}
	return r.client.URL(path)
}
