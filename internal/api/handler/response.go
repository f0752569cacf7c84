// internal/api/handler/response.go
package handler

import (
	stderrors "errors"
	"net/http"

	"github.com/go-chi/render"

	"homefinder/internal/utils"
	"homefinder/pkg/errors"
)

// Error is the JSON body of every failed request.
type Error struct {
	Status   int    `json:"status"`
	Message  string `json:"message"`
	Field    string `json:"field,omitempty"`
	Redirect string `json:"redirect,omitempty"`
}

type responder struct {
	logger *utils.Logger
}

// WriteJSON sends data with the given status code.
func WriteJSON(w http.ResponseWriter, r *http.Request, data interface{}, status int) {
	render.Status(r, status)
	render.JSON(w, r, data)
}

// StatusFor maps a typed error to the HTTP status the gateway answers with.
func StatusFor(err error) int {
	var (
		ve *errors.ValidationError
		ae *errors.AuthenticationError
		ce *errors.ConflictError
		be *errors.BadRequestError
		he *errors.HTTPError
	)
	switch {
	case stderrors.As(err, &ve), stderrors.As(err, &be):
		return http.StatusBadRequest
	case stderrors.As(err, &ae):
		return http.StatusUnauthorized
	case stderrors.As(err, &ce):
		return http.StatusConflict
	case errors.IsNotFound(err):
		return http.StatusNotFound
	case stderrors.As(err, &he):
		if he.Status >= 400 && he.Status <= 599 {
			return he.Status
		}
		return http.StatusBadGateway
	case errors.IsNetwork(err):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// writeError answers with err's status and the user-facing message, falling
// back to fallback when the error carries nothing worth showing.
func (h responder) writeError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	status := StatusFor(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error("[http] %s %s: %v", r.Method, r.URL.Path, err)
	} else {
		h.logger.Debug("[http] %s %s: %v", r.Method, r.URL.Path, err)
	}

	body := Error{Status: status, Message: errors.UserMessage(err, fallback)}
	var ve *errors.ValidationError
	if stderrors.As(err, &ve) {
		body.Field = ve.Field
	}
	var ae *errors.AuthenticationError
	if stderrors.As(err, &ae) {
		body.Redirect = ae.Redirect
	}
	if body.Message == "" {
		body.Message = http.StatusText(status)
	}
	WriteJSON(w, r, body, status)
}

func (h responder) decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := render.DecodeJSON(r.Body, v); err != nil {
		h.writeError(w, r, errors.NewBadRequestError("invalid request payload"), "")
		return false
	}
	return true
}
