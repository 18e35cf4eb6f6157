package handler

import (
	"net/http"
	"strings"
)

type authPageData struct {
	Next string
}

// safeNext keeps only same-site paths.
func safeNext(next string) string {
	if strings.HasPrefix(next, "/") && !strings.HasPrefix(next, "//") && !strings.HasPrefix(next, "/\\") {
		return next
	}
	return "/dashboard"
}

func (h *Handler) AuthPage(w http.ResponseWriter, r *http.Request) {
	data := page{
		Title: "Авторизация",
		Data:  authPageData{Next: safeNext(r.URL.Query().Get("next"))},
	}

	user, err := h.repository.GetMe(r.Context())
	if err != nil {
		// treated as signed out
		data.Error = err.Error()
	}
	data.User = user

	h.render(w, r, "auth", data)
}

// Login hands the browser over to the backend's OAuth start page; the
// redirect chain and its cookies only work as a real navigation.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, h.repository.LoginURL(), http.StatusSeeOther)
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.repository.Logout(r.Context()); err != nil {
		if reportable(err) {
			h.logInternalServerError(r, err)
		}
		user, _ := h.repository.GetMe(r.Context())
		h.renderStatus(w, r, errorStatus(err), "auth", page{
			Title: "Авторизация",
			User:  user,
			Error: "Не удалось выйти: " + err.Error(),
			Data:  authPageData{Next: "/dashboard"},
		})
		return
	}

	http.Redirect(w, r, "/auth", http.StatusSeeOther)
}
