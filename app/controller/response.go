package controller

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"rta-kabinets/apperr"
	"rta-kabinets/fetch"
)

// errorResponse is the JSON body of every failed request
// Example: {"error": "missing client information: name, phone", "fields": ["name", "phone"]}
type errorResponse struct {
	Error  string   `json:"error"`
	Fields []string `json:"fields,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.S().Errorf("❌ Failed to encode response: %v", err)
	}
}

// writeError maps err to a status code. Canceled and superseded requests are
// only logged at debug level.
func writeError(w http.ResponseWriter, r *http.Request, op string, err error) {
	if apperr.IsCanceled(err) {
		zap.S().Debugf("🔁 %s: request canceled: %v", op, err)
		w.WriteHeader(499)
		return
	}
	if errors.Is(err, fetch.ErrSuperseded) {
		zap.S().Debugf("🔁 %s: %v", op, err)
		writeJSON(w, http.StatusConflict, errorResponse{Error: err.Error()})
		return
	}

	status := apperr.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		zap.S().Errorf("❌ %s: %s %s: %v", op, r.Method, r.URL.Path, err)
	} else {
		zap.S().Warnf("⚠️  %s: %v", op, err)
	}

	resp := errorResponse{Error: err.Error()}
	var ve *apperr.ValidationError
	if errors.As(err, &ve) {
		resp.Fields = ve.Fields
	}
	writeJSON(w, status, resp)
}

func badRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, errorResponse{Error: msg})
}

// decodeJSON reads the request body into v. An empty body leaves v untouched.
func decodeJSON(r *http.Request, v any) error {
	if r.Body == nil || r.ContentLength == 0 {
		return nil
	}
	err := json.NewDecoder(r.Body).Decode(v)
	if err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func int64Param(r *http.Request, name string) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, name), 10, 64)
}

// rawValue turns a JSON number or string into the text the ledger parses.
// null and absent values give "".
func rawValue(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}
