package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/smenuberu/dashboard/internal/backend"
	"github.com/smenuberu/dashboard/internal/domain"
)

// ListSlots returns the public feed.
func (r *Repository) ListSlots(ctx context.Context) ([]domain.Slot, error) {
	var slots []domain.Slot
	if err := r.client.Do(ctx, http.MethodGet, "/slots", nil, &slots); err != nil {
		return nil, err
	}
	if slots == nil {
		slots = []domain.Slot{}
	}
	return slots, nil
}

// ListCreatedSlots returns the slots owned by the signed-in employer.
func (r *Repository) ListCreatedSlots(ctx context.Context) ([]domain.Slot, error) {
	var resp struct {
		Slots []domain.Slot `json:"slots"`
	}
	if err := r.client.Do(ctx, http.MethodGet, "/slots/created", nil, &resp); err != nil {
		return nil, err
	}
	if resp.Slots == nil {
		resp.Slots = []domain.Slot{}
	}
	return resp.Slots, nil
}

func (r *Repository) GetSlot(ctx context.Context, id string) (*domain.Slot, error) {
	var raw json.RawMessage
	if err := r.client.Do(ctx, http.MethodGet, slotPath(id), nil, &raw); err != nil {
		if backend.IsNotFound(err) {
			return nil, fmt.Errorf("slot %s: %w", id, domain.ErrNotFound)
		}
		return nil, err
	}

	// the slot comes either bare or wrapped as {"slot": {...}}
	var wrapped struct {
		Slot *domain.Slot `json:"slot"`
	}
	if err := json.Unmarshal(raw, &wrapped); err == nil && wrapped.Slot != nil {
		return wrapped.Slot, nil
	}

	slot := &domain.Slot{}
	if err := json.Unmarshal(raw, slot); err != nil {
		return nil, fmt.Errorf("decode slot %s: %w", id, err)
	}
	if slot.ID == "" {
		return nil, fmt.Errorf("slot %s: %w", id, domain.ErrNotFound)
	}
	return slot, nil
}

func (r *Repository) CreateSlot(ctx context.Context, in domain.SlotInput) (string, error) {
	var resp idEnvelope
	if err := r.client.Do(ctx, http.MethodPost, "/slots", in, &resp); err != nil {
		return "", err
	}
	id := resp.resolve()
	if id == "" {
		return "", errors.New("backend returned no slot id")
	}
	return id, nil
}

func (r *Repository) UpdateSlot(ctx context.Context, id string, patch domain.SlotPatch) error {
	err := r.client.Do(ctx, http.MethodPatch, slotPath(id), patch, nil)
	if backend.IsNotFound(err) {
		return fmt.Errorf("slot %s: %w", id, domain.ErrNotFound)
	}
	return err
}

func (r *Repository) DeleteSlot(ctx context.Context, id string) error {
	err := r.client.Do(ctx, http.MethodDelete, slotPath(id), nil, nil)
	if backend.IsNotFound(err) {
		return fmt.Errorf("slot %s: %w", id, domain.ErrNotFound)
	}
	return err
}

func slotPath(id string) string {
	return "/slots/" + url.PathEscape(id)
}
