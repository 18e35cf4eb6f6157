package handler

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/smenuberu/dashboard/internal/domain"
)

//go:embed templates
var templateFS embed.FS

var pageNames = []string{
	"error",
	"auth",
	"onboarding_welcome",
	"onboarding_workers",
	"onboarding_savings",
	"dashboard",
	"objects",
	"object_form",
	"shifts",
	"shift_form",
	"profile",
	"notifications",
}

var templateFuncs = template.FuncMap{
	"deref": func(s *string) string {
		if s == nil {
			return ""
		}
		return *s
	},
	"formatDate": func(t time.Time) string {
		if t.IsZero() {
			return ""
		}
		return t.Format("02.01.2006")
	},
	"pay": func(p *int) string {
		if p == nil || *p <= 0 {
			return "—"
		}
		return fmt.Sprintf("%d ₽", *p)
	},
}

// page is what every template receives. Nav selects the sidebar item and
// turns the sidebar on.
type page struct {
	Title  string
	User   *domain.User
	Nav    string
	Error  string
	Notice string
	Data   any
}

type pages struct {
	set map[string]*template.Template
}

func loadPages() (*pages, error) {
	p := &pages{set: make(map[string]*template.Template, len(pageNames))}
	for _, name := range pageNames {
		tmpl, err := template.New(name).Funcs(templateFuncs).ParseFS(templateFS, "templates/layout.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		p.set[name] = tmpl
	}
	return p, nil
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, name string, data page) {
	h.renderStatus(w, r, http.StatusOK, name, data)
}

func (h *Handler) renderStatus(w http.ResponseWriter, r *http.Request, status int, name string, data page) {
	if data.User == nil {
		data.User = currentUser(r.Context())
	}

	tmpl, ok := h.pages.set[name]
	if !ok {
		h.logInternalServerError(r, fmt.Errorf("unknown template %s", name))
		http.Error(w, "Внутренняя ошибка сервера", http.StatusInternalServerError)
		return
	}

	// render into a buffer so a template error never leaves half a page
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", data); err != nil {
		h.logInternalServerError(r, err)
		http.Error(w, "Внутренняя ошибка сервера", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}
