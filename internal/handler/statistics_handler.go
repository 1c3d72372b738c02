package handler

import (
	"net/http"

	"okane/internal/middleware"
	"okane/internal/model"
	"okane/internal/service"
	"okane/pkg/apierror"
)

type StatisticsHandler struct {
	service *service.StatisticsService
}

func NewStatisticsHandler(service *service.StatisticsService) *StatisticsHandler {
	return &StatisticsHandler{service: service}
}

func (h *StatisticsHandler) ByCategories(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, model.ErrUnauthorized)
		return
	}

	from, to, err := dateRange(r, 7)
	if err != nil {
		writeError(w, apierror.New("BAD_REQUEST", "invalid date range", err.Error(), http.StatusBadRequest))
		return
	}

	stats, err := h.service.ByCategories(r.Context(), user.ID, from, to)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, stats)
}

func (h *StatisticsHandler) History(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, model.ErrUnauthorized)
		return
	}

	from, to, err := dateRange(r, 7)
	if err != nil {
		writeError(w, apierror.New("BAD_REQUEST", "invalid date range", err.Error(), http.StatusBadRequest))
		return
	}

	stats, err := h.service.History(r.Context(), user.ID, from, to)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, stats)
}
