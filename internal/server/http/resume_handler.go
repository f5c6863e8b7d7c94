package http

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/dmitrijs2005/resumebuilder/internal/common"
	"github.com/dmitrijs2005/resumebuilder/internal/logging"
	"github.com/dmitrijs2005/resumebuilder/internal/server/models"
	"github.com/dmitrijs2005/resumebuilder/internal/server/services"
	"github.com/go-chi/chi/v5"
)

type ResumeHandler struct {
	service ResumeService
	logger  logging.Logger
}

func NewResumeHandler(service ResumeService, logger logging.Logger) *ResumeHandler {
	return &ResumeHandler{service: service, logger: logger}
}

func (h *ResumeHandler) Create(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r, h.logger)
	if !ok {
		return
	}

	var req services.CreateResumeInput
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	res, err := h.service.Create(r.Context(), id.UserID, req)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

// List serves GET /resumes?status=&page=&limit=.
func (h *ResumeHandler) List(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r, h.logger)
	if !ok {
		return
	}

	q := r.URL.Query()
	var f services.ListFilter
	if s := q.Get("status"); s != "" {
		st := models.ResumeStatus(s)
		f.Status = &st
	}
	var err error
	if f.Page, err = intParam(q.Get("page")); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	if f.Limit, err = intParam(q.Get("limit")); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	page, err := h.service.List(r.Context(), id.UserID, f)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func intParam(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, validationError("%q is not a number", s)
	}
	return n, nil
}

func (h *ResumeHandler) Search(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r, h.logger)
	if !ok {
		return
	}

	list, err := h.service.Search(r.Context(), id.UserID, r.URL.Query().Get("q"))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *ResumeHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r, h.logger)
	if !ok {
		return
	}

	res, err := h.service.Get(r.Context(), id.UserID, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *ResumeHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r, h.logger)
	if !ok {
		return
	}

	var req services.UpdateResumeInput
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	res, err := h.service.Update(r.Context(), id.UserID, chi.URLParam(r, "id"), req)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *ResumeHandler) ChangeStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r, h.logger)
	if !ok {
		return
	}

	status := models.ResumeStatus(chi.URLParam(r, "status"))
	res, err := h.service.ChangeStatus(r.Context(), id.UserID, chi.URLParam(r, "id"), status)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *ResumeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r, h.logger)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), id.UserID, chi.URLParam(r, "id")); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetPublic serves GET /public/resumes/{id} without authentication.
func (h *ResumeHandler) GetPublic(w http.ResponseWriter, r *http.Request) {
	res, err := h.service.GetPublic(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func validationError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", common.ErrValidation, fmt.Sprintf(format, args...))
}
