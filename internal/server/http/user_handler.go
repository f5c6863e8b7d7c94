package http

import (
	"net/http"

	"github.com/dmitrijs2005/resumebuilder/internal/logging"
	"github.com/go-chi/chi/v5"
)

type UserHandler struct {
	service AuthService
	logger  logging.Logger
}

func NewUserHandler(service AuthService, logger logging.Logger) *UserHandler {
	return &UserHandler{service: service, logger: logger}
}

func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	p, err := h.service.GetUser(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}
