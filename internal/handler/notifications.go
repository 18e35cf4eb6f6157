package handler

import (
	"net/http"

	"github.com/smenuberu/dashboard/internal/domain"
)

func (h *Handler) NotificationsPage(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r.Context())
	p := page{Title: "Уведомления", Nav: "notifications"}

	settings, err := h.store.NotificationSettings(r.Context(), user.ID)
	if err != nil {
		h.logInternalServerError(r, err)
		p.Error = "Не удалось загрузить настройки"
	}
	p.Data = settings

	h.render(w, r, "notifications", p)
}

func (h *Handler) SaveNotifications(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r.Context())
	p := page{Title: "Уведомления", Nav: "notifications"}

	if err := r.ParseForm(); err != nil {
		p.Data = domain.DefaultNotificationSettings()
		p.Error = "Не удалось прочитать форму"
		h.renderStatus(w, r, http.StatusBadRequest, "notifications", p)
		return
	}

	settings := domain.NotificationSettings{
		NewBookings:    r.PostForm.Get("newBookings") != "",
		ShiftChanges:   r.PostForm.Get("shiftChanges") != "",
		ShiftReminders: r.PostForm.Get("shiftReminders") != "",
		Marketing:      r.PostForm.Get("marketing") != "",
	}
	p.Data = settings

	if err := h.store.SaveNotificationSettings(r.Context(), user.ID, settings); err != nil {
		h.logInternalServerError(r, err)
		p.Error = "Не удалось сохранить настройки"
		h.renderStatus(w, r, http.StatusInternalServerError, "notifications", p)
		return
	}

	p.Notice = "Настройки сохранены"
	h.render(w, r, "notifications", p)
}
