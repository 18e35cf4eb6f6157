package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/smenuberu/dashboard/internal/domain"
)

type dashboardPageData struct {
	Objects      int
	ActiveShifts int
	Bookings     int
}

// DashboardPage shows the counters of the home screen. Each list is loaded
// independently; a failed one leaves its counter at zero.
func (h *Handler) DashboardPage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	data := dashboardPageData{}
	var errs []error

	objects, err := h.repository.ListObjects(ctx)
	if err != nil {
		errs = append(errs, err)
	}
	data.Objects = len(objects)

	slots, err := h.repository.ListCreatedSlots(ctx)
	if err != nil {
		errs = append(errs, err)
	}
	today := time.Now().Format(time.DateOnly)
	for _, s := range slots {
		if s.Published && s.Date >= today {
			data.ActiveShifts++
		}
		data.Bookings += len(s.Bookings)
	}

	p := page{Title: "Дашборд", Nav: "dashboard", Data: data}
	if err := errors.Join(errs...); err != nil {
		h.logInternalServerError(r, err)
		p.Error = err.Error()
	}
	h.render(w, r, "dashboard", p)
}

type profilePageData struct {
	Since string
}

func (h *Handler) ProfilePage(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r.Context())
	data := profilePageData{}
	if user != nil && !user.CreatedAt.IsZero() {
		data.Since = user.CreatedAt.Format("02.01.2006")
	}
	h.render(w, r, "profile", page{Title: "Профиль", Nav: "profile", Data: data})
}

// objectNames maps object ids to names for shift lists; a failed load
// degrades to ids.
func (h *Handler) objectNames(r *http.Request) (map[string]string, []domain.Object) {
	objects, err := h.repository.ListObjects(r.Context())
	if err != nil {
		h.logInternalServerError(r, err)
		return map[string]string{}, nil
	}
	names := make(map[string]string, len(objects))
	for _, o := range objects {
		names[o.ID] = o.Name
	}
	return names, objects
}
