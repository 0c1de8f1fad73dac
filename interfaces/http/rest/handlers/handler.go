// Package handlers implements the HTTP endpoints of the board API.
package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"relationmap/pkg/common"
	pkgerrors "relationmap/pkg/errors"
)

// maxBodyBytes bounds request bodies. Notes carry inline images.
const maxBodyBytes = 8 << 20

// base carries what every handler needs to decode requests and write
// responses
type base struct {
	errors *pkgerrors.ErrorHandler
	logger *zap.Logger
}

func (b base) decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := common.DecodeJSON(w, r, v, maxBodyBytes); err != nil {
		b.errors.Handle(w, r, pkgerrors.NewValidationError("invalid request body: "+err.Error()))
		return false
	}
	return true
}

func (b base) respond(w http.ResponseWriter, status int, data interface{}) {
	common.RespondJSON(w, b.logger, status, data)
}

func (b base) fail(w http.ResponseWriter, r *http.Request, err error) {
	b.errors.Handle(w, r, err)
}
