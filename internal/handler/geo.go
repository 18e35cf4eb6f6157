package handler

import (
	"net/http"

	"github.com/smenuberu/dashboard/internal/domain"
)

type suggestResponse struct {
	Seq   uint64              `json:"seq"`
	Stale bool                `json:"stale"`
	Items []domain.Suggestion `json:"items"`
}

// SuggestAddress answers the address autocomplete. Sequence numbers are
// scoped to the form instance when a draft token is given, else to the user.
// A reply overtaken by a newer request is marked stale and carries no items.
func (h *Handler) SuggestAddress(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r.Context())
	query := r.URL.Query()

	scope := user.ID
	if token := query.Get("draft"); token != "" {
		if draftID, err := h.parseFormToken(token, user.ID); err == nil {
			scope = user.ID + ":" + draftID
		}
	}

	res, err := h.suggester.Suggest(r.Context(), scope, query.Get("q"))
	if err != nil {
		if reportable(err) {
			h.logInternalServerError(r, err)
		}
		h.errorJSON(w, r, errorStatus(err), err.Error())
		return
	}

	resp := suggestResponse{Seq: res.Seq, Stale: !res.Fresh, Items: res.Items}
	if resp.Stale {
		resp.Items = []domain.Suggestion{}
	}
	h.writeJSON(w, r, http.StatusOK, resp)
}
