// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"hotelcms/internal/service"
	"hotelcms/internal/storage"
	"hotelcms/internal/validate"
)

// maxJSONBody caps JSON request bodies (1 MB).
const maxJSONBody = 1 << 20

// envelope is the shape of every API response.
type envelope struct {
	Success bool              `json:"success"`
	Data    any               `json:"data,omitempty"`
	Error   string            `json:"error,omitempty"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// writeJSON writes v as the response body with the given status.
func writeJSON(w http.ResponseWriter, status int, v envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("response encode failed", "error", err)
	}
}

// writeData writes a success envelope around data.
func writeData(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, envelope{Success: true, Data: data})
}

// writeFail writes an error envelope.
func writeFail(w http.ResponseWriter, status int, msg string, fields map[string]string) {
	writeJSON(w, status, envelope{Success: false, Error: msg, Fields: fields})
}

// writeError maps an error from the service layer to a status code and
// error envelope. Unexpected errors are logged and reported generically.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		verr     *validate.Error
		maxBytes *http.MaxBytesError
	)
	switch {
	case errors.As(err, &verr):
		writeFail(w, http.StatusBadRequest, "Validation failed", verr.Fields)
	case errors.Is(err, service.ErrNotFound):
		writeFail(w, http.StatusNotFound, "Not found", nil)
	case errors.Is(err, service.ErrConflict):
		writeFail(w, http.StatusConflict, "A category with this title already exists", nil)
	case errors.Is(err, storage.ErrTooLarge), errors.As(err, &maxBytes):
		writeFail(w, http.StatusRequestEntityTooLarge, uploadMessage(err), nil)
	case errors.Is(err, storage.ErrPolicy):
		writeFail(w, http.StatusBadRequest, uploadMessage(err), nil)
	default:
		slog.Error("request failed", "error", err, "method", r.Method, "path", r.URL.Path)
		writeFail(w, http.StatusInternalServerError, "Internal server error", nil)
	}
}

// uploadMessage returns the client-facing text of an upload rejection,
// starting at the policy message so internal wrapping is not exposed.
func uploadMessage(err error) string {
	var maxBytes *http.MaxBytesError
	if errors.As(err, &maxBytes) {
		return fmt.Sprintf("Request too large. Maximum size is %d MB.", maxBytes.Limit>>20)
	}
	msg := err.Error()
	if i := strings.Index(msg, storage.ErrPolicy.Error()); i >= 0 {
		msg = msg[i:]
	}
	return strings.ToUpper(msg[:1]) + msg[1:]
}

// decodeJSON reads a JSON request body into v.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var maxBytes *http.MaxBytesError
		if errors.As(err, &maxBytes) {
			return err
		}
		return validate.Field("body", "must be valid JSON")
	}
	return nil
}

// parseID reads a positive integer URL parameter.
func parseID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, validate.Field(name, "must be a positive integer")
	}
	return id, nil
}
