package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"relationmap/application/commands"
	"relationmap/application/services"
	pkgerrors "relationmap/pkg/errors"
)

// TagHandler handles tag-related HTTP requests
type TagHandler struct {
	base
	tags *services.TagService
}

// NewTagHandler creates a new tag handler
func NewTagHandler(tags *services.TagService, errs *pkgerrors.ErrorHandler, logger *zap.Logger) *TagHandler {
	return &TagHandler{base: base{errors: errs, logger: logger}, tags: tags}
}

// ListTags handles GET /tags
func (h *TagHandler) ListTags(w http.ResponseWriter, r *http.Request) {
	tags, err := h.tags.List(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.respond(w, http.StatusOK, tags)
}

// CreateTag handles POST /tags
func (h *TagHandler) CreateTag(w http.ResponseWriter, r *http.Request) {
	var cmd commands.CreateTagCommand
	if !h.decode(w, r, &cmd) {
		return
	}

	tag, err := h.tags.Create(r.Context(), cmd)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.respond(w, http.StatusCreated, tag)
}
