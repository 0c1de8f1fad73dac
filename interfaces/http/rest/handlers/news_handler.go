package handlers

import (
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"relationmap/application/commands"
	"relationmap/application/services"
	"relationmap/domain/core/entities"
	pkgerrors "relationmap/pkg/errors"
)

// NewsHandler handles news browsing and seeding
type NewsHandler struct {
	base
	news *services.NewsService
}

// NewNewsHandler creates a new news handler
func NewNewsHandler(news *services.NewsService, errs *pkgerrors.ErrorHandler, logger *zap.Logger) *NewsHandler {
	return &NewsHandler{base: base{errors: errs, logger: logger}, news: news}
}

// SeedResponse is the point a seed produced and whether it is new
type SeedResponse struct {
	Point   *entities.Point `json:"point"`
	Created bool            `json:"created"`
}

// GetNews handles GET /news?page=N
func (h *NewsHandler) GetNews(w http.ResponseWriter, r *http.Request) {
	page := 1
	if raw := r.URL.Query().Get("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			h.fail(w, r, pkgerrors.NewValidationError("page must be a positive integer"))
			return
		}
		page = n
	}

	result, err := h.news.Page(r.Context(), page)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.respond(w, http.StatusOK, result)
}

// SeedPoint handles POST /news/seed
func (h *NewsHandler) SeedPoint(w http.ResponseWriter, r *http.Request) {
	var cmd commands.SeedPointCommand
	if !h.decode(w, r, &cmd) {
		return
	}

	point, created, err := h.news.Seed(r.Context(), cmd)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	h.respond(w, status, SeedResponse{Point: point, Created: created})
}
