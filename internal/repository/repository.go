package repository

import (
	"github.com/smenuberu/dashboard/internal/backend"
	"github.com/smenuberu/dashboard/internal/config"
)

type Repository struct {
	cfg    *config.Config
	client *backend.Client
}

func NewRepository(cfg *config.Config, client *backend.Client) *Repository {
	return &Repository{
		cfg:    cfg,
		client: client,
	}
}

// idEnvelope accepts both {"id": ...} and {"<entity>": {"id": ...}}.
type idEnvelope struct {
	ID     string `json:"id"`
	Object *struct {
		ID string `json:"id"`
	} `json:"object"`
	Slot *struct {
		ID string `json:"id"`
	} `json:"slot"`
}

func (e idEnvelope) resolve() string {
	switch {
	case e.ID != "":
		return e.ID
	case e.Object != nil && e.Object.ID != "":
		return e.Object.ID
	case e.Slot != nil && e.Slot.ID != "":
		return e.Slot.ID
	default:
		return ""
	}
}
