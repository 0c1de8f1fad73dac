package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"relationmap/application/commands"
	"relationmap/application/services"
	pkgerrors "relationmap/pkg/errors"
)

// PointHandler handles point-related HTTP requests
type PointHandler struct {
	base
	points *services.PointService
}

// NewPointHandler creates a new point handler
func NewPointHandler(points *services.PointService, errs *pkgerrors.ErrorHandler, logger *zap.Logger) *PointHandler {
	return &PointHandler{base: base{errors: errs, logger: logger}, points: points}
}

// PointDeletedResponse confirms a cascade delete
type PointDeletedResponse struct {
	Message            string `json:"message"`
	RemovedConnections int    `json:"removedConnections"`
	RemovedNotes       int    `json:"removedNotes"`
}

// ListPoints handles GET /points
func (h *PointHandler) ListPoints(w http.ResponseWriter, r *http.Request) {
	points, err := h.points.List(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.respond(w, http.StatusOK, points)
}

// CreatePoint handles POST /points
func (h *PointHandler) CreatePoint(w http.ResponseWriter, r *http.Request) {
	var cmd commands.CreatePointCommand
	if !h.decode(w, r, &cmd) {
		return
	}

	point, err := h.points.Create(r.Context(), cmd)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.respond(w, http.StatusCreated, point)
}

// UpdatePoint handles PUT /points/{pointID}
func (h *PointHandler) UpdatePoint(w http.ResponseWriter, r *http.Request) {
	var cmd commands.UpdatePointCommand
	if !h.decode(w, r, &cmd) {
		return
	}
	cmd.PointID = chi.URLParam(r, "pointID")

	point, err := h.points.Update(r.Context(), cmd)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.respond(w, http.StatusOK, point)
}

// DeletePoint handles DELETE /points/{pointID}
func (h *PointHandler) DeletePoint(w http.ResponseWriter, r *http.Request) {
	result, err := h.points.Delete(r.Context(), chi.URLParam(r, "pointID"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.respond(w, http.StatusOK, PointDeletedResponse{
		Message:            "point and related records deleted",
		RemovedConnections: result.RemovedConnections,
		RemovedNotes:       result.RemovedNotes,
	})
}
