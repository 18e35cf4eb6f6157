package handler

import (
	"context"
	"net/http"
	"net/http/httputil"
	"net/url"

	"github.com/go-chi/chi/v5"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/smenuberu/dashboard/internal/config"
	"github.com/smenuberu/dashboard/internal/repository"
	"github.com/smenuberu/dashboard/internal/store"
	"github.com/smenuberu/dashboard/internal/utils"
	"github.com/smenuberu/dashboard/internal/workflow"
)

// MailPublisher is the part of *amqp.Channel the handler needs.
type MailPublisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

type Handler struct {
	config      *config.Config
	repository  *repository.Repository
	store       *store.Store
	objectFlow  *workflow.ObjectFlow
	shiftFlow   *workflow.ShiftFlow
	suggester   *workflow.AddressSuggester
	mailChannel MailPublisher
	pages       *pages
	proxy       *httputil.ReverseProxy

	Mux *chi.Mux
}

// NewHandler wires the workflows over repo and st. mailCh may be nil, in
// which case no notification e-mails are published.
func NewHandler(cfg *config.Config, repo *repository.Repository, st *store.Store, mailCh MailPublisher) (*Handler, error) {
	v, err := utils.NewValidator()
	if err != nil {
		return nil, err
	}

	pages, err := loadPages()
	if err != nil {
		return nil, err
	}

	target, err := url.Parse(cfg.Backend.BaseURL)
	if err != nil {
		return nil, err
	}

	return &Handler{
		config:      cfg,
		repository:  repo,
		store:       st,
		objectFlow:  workflow.NewObjectFlow(repo, repo, v, cfg.Upload.MaxPhotos),
		shiftFlow:   workflow.NewShiftFlow(repo, v),
		suggester:   workflow.NewAddressSuggester(st, repo),
		mailChannel: mailCh,
		pages:       pages,
		proxy:       newBackendProxy(target),

		Mux: chi.NewRouter(),
	}, nil
}

func (h *Handler) RegisterRoutes() {
	h.Mux.Use(h.logger)
	h.Mux.Use(h.recoverer)

	// same-origin path to the backend for browser navigation and fetches
	h.Mux.Handle("/__api/*", http.StripPrefix("/__api", h.proxy))

	h.Mux.Group(func(r chi.Router) {
		r.Use(h.session)

		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			http.Redirect(w, r, "/onboarding", http.StatusFound)
		})

		r.Route("/onboarding", func(r chi.Router) {
			r.Get("/", h.OnboardingWelcome)
			r.Get("/workers", h.OnboardingWorkers)
			r.Get("/savings", h.OnboardingSavings)
		})

		r.Route("/auth", func(r chi.Router) {
			r.Get("/", h.AuthPage)
			r.Post("/login", h.Login)
			r.Post("/logout", h.Logout)
		})

		// everything below requires a signed-in employer
		r.Route("/dashboard", func(r chi.Router) {
			r.Use(h.requireUser)
			r.Get("/", h.DashboardPage)

			r.Route("/objects", func(r chi.Router) {
				r.Get("/", h.ObjectsPage)
				r.Post("/{id}/delete", h.DeleteObject)
				r.Route("/new", func(r chi.Router) {
					r.Get("/", h.NewObjectPage)
					r.Post("/", h.SaveObject)
					r.Post("/done", h.FinishObject)
					r.Post("/photos", h.UploadObjectPhoto)
					r.Post("/photos/remove", h.RemoveObjectPhoto)
					r.Post("/logo", h.UploadObjectLogo)
					r.Post("/logo/remove", h.RemoveObjectLogo)
				})
			})

			r.Get("/geo/suggest", h.SuggestAddress)

			r.Route("/shifts", func(r chi.Router) {
				r.Get("/", h.ShiftsPage)
				r.Get("/new", h.NewShiftPage)
				r.Post("/new", h.CreateShifts)
				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", h.EditShiftPage)
					r.Post("/", h.UpdateShift)
					r.Post("/delete", h.DeleteShift)
				})
			})

			r.Get("/profile", h.ProfilePage)
			r.Get("/notifications", h.NotificationsPage)
			r.Post("/notifications", h.SaveNotifications)
		})
	})
}
