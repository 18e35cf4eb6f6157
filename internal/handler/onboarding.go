package handler

import "net/http"

func (h *Handler) OnboardingWelcome(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "onboarding_welcome", page{Title: "Добро пожаловать"})
}

func (h *Handler) OnboardingWorkers(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "onboarding_workers", page{Title: "Исполнители"})
}

func (h *Handler) OnboardingSavings(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "onboarding_savings", page{Title: "Экономия"})
}
