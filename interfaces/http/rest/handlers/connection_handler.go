package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"relationmap/application/commands"
	"relationmap/application/services"
	"relationmap/pkg/common"
	pkgerrors "relationmap/pkg/errors"
)

// ConnectionHandler handles connection-related HTTP requests
type ConnectionHandler struct {
	base
	connections *services.ConnectionService
}

// NewConnectionHandler creates a new connection handler
func NewConnectionHandler(connections *services.ConnectionService, errs *pkgerrors.ErrorHandler, logger *zap.Logger) *ConnectionHandler {
	return &ConnectionHandler{base: base{errors: errs, logger: logger}, connections: connections}
}

// ListConnections handles GET /connections
func (h *ConnectionHandler) ListConnections(w http.ResponseWriter, r *http.Request) {
	views, err := h.connections.List(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.respond(w, http.StatusOK, views)
}

// CreateConnection handles POST /connections
func (h *ConnectionHandler) CreateConnection(w http.ResponseWriter, r *http.Request) {
	var cmd commands.CreateConnectionCommand
	if !h.decode(w, r, &cmd) {
		return
	}

	view, err := h.connections.Create(r.Context(), cmd)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.respond(w, http.StatusCreated, view)
}

// DeleteConnection handles DELETE /connections/{connectionID}
func (h *ConnectionHandler) DeleteConnection(w http.ResponseWriter, r *http.Request) {
	if err := h.connections.Delete(r.Context(), chi.URLParam(r, "connectionID")); err != nil {
		h.fail(w, r, err)
		return
	}
	common.RespondMessage(w, h.logger, "connection deleted")
}
