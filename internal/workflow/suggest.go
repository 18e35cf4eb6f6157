package workflow

import (
	"context"
	"strings"

	"github.com/smenuberu/dashboard/internal/domain"
)

// Sequencer hands out increasing tokens per scope. Current is the last one
// handed out.
type Sequencer interface {
	Next(ctx context.Context, scope string) (uint64, error)
	Current(ctx context.Context, scope string) (uint64, error)
}

type AddressLookup interface {
	SuggestAddress(ctx context.Context, q string) ([]domain.Suggestion, error)
}

type Suggestions struct {
	Seq   uint64              `json:"seq"`
	Fresh bool                `json:"fresh"`
	Items []domain.Suggestion `json:"items"`
}

// AddressSuggester keeps the last issued query authoritative: a reply that
// arrives after a newer query was issued comes back with Fresh=false.
type AddressSuggester struct {
	seq    Sequencer
	lookup AddressLookup
}

func NewAddressSuggester(seq Sequencer, lookup AddressLookup) *AddressSuggester {
	return &AddressSuggester{
		seq:    seq,
		lookup: lookup,
	}
}

func (s *AddressSuggester) Suggest(ctx context.Context, scope, q string) (*Suggestions, error) {
	token, err := s.seq.Next(ctx, scope)
	if err != nil {
		return nil, err
	}

	q = strings.TrimSpace(q)
	if q == "" {
		return &Suggestions{Seq: token, Fresh: true, Items: []domain.Suggestion{}}, nil
	}

	items, err := s.lookup.SuggestAddress(ctx, q)
	if err != nil {
		return nil, err
	}

	current, err := s.seq.Current(ctx, scope)
	if err != nil {
		return nil, err
	}

	return &Suggestions{Seq: token, Fresh: current == token, Items: items}, nil
}
