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

// NoteHandler handles note-related HTTP requests
type NoteHandler struct {
	base
	notes *services.NoteService
}

// NewNoteHandler creates a new note handler
func NewNoteHandler(notes *services.NoteService, errs *pkgerrors.ErrorHandler, logger *zap.Logger) *NoteHandler {
	return &NoteHandler{base: base{errors: errs, logger: logger}, notes: notes}
}

// ListNotes handles GET /notes
func (h *NoteHandler) ListNotes(w http.ResponseWriter, r *http.Request) {
	views, err := h.notes.List(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.respond(w, http.StatusOK, views)
}

// CreateNote handles POST /notes
func (h *NoteHandler) CreateNote(w http.ResponseWriter, r *http.Request) {
	var cmd commands.CreateNoteCommand
	if !h.decode(w, r, &cmd) {
		return
	}

	view, err := h.notes.Create(r.Context(), cmd)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.respond(w, http.StatusCreated, view)
}

// UpdateNote handles PUT /notes/{noteID}
func (h *NoteHandler) UpdateNote(w http.ResponseWriter, r *http.Request) {
	var cmd commands.UpdateNoteCommand
	if !h.decode(w, r, &cmd) {
		return
	}
	cmd.NoteID = chi.URLParam(r, "noteID")

	note, err := h.notes.Update(r.Context(), cmd)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.respond(w, http.StatusOK, note)
}

// DeleteNote handles DELETE /notes/{noteID}
func (h *NoteHandler) DeleteNote(w http.ResponseWriter, r *http.Request) {
	if err := h.notes.Delete(r.Context(), chi.URLParam(r, "noteID")); err != nil {
		h.fail(w, r, err)
		return
	}
	common.RespondMessage(w, h.logger, "note deleted")
}
