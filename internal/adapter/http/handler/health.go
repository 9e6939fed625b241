package handler

import "net/http"

type Health struct {
	mode string
}

func NewHealth(mode string) *Health {
	return &Health{mode: mode}
}

func (h *Health) HealthCheck(w http.ResponseWriter, r *http.Request) {
	env := envelope{
		"status":  "available",
		"service": h.mode,
	}
	if err := writeJSON(w, http.StatusOK, env, nil); err != nil {
		internalErrorResponse(w, err.Error())
	}
}
