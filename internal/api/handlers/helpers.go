package handlers

import (
	"bikeroute-service/internal/adapters/geocode"
	"bikeroute-service/internal/domain"
	"bikeroute-service/internal/geometry"
	"bikeroute-service/internal/platform/httpx"
	"bikeroute-service/internal/platform/obs"
	"bikeroute-service/internal/ports"
	"bikeroute-service/internal/services"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strconv"
)

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("encode failed: method=%s path=%s err=%v", r.Method, r.URL.Path, err)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, r, status, map[string]string{"error": msg})
}

// decodeJSON reads exactly one JSON object into v, rejecting unknown fields.
// It writes the 400 response itself and reports whether decoding succeeded.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(r.Body)
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(v); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return false
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		writeError(w, r, http.StatusBadRequest, "body must contain only one JSON object")
		return false
	}
	return true
}

// pathID parses the {id} path segment.
func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, r, http.StatusBadRequest, "id must be a positive integer")
		return 0, false
	}
	return id, true
}

// writeServiceError maps service and adapter errors onto HTTP statuses.
// Client errors echo the message; everything else is logged and hidden.
func writeServiceError(w http.ResponseWriter, r *http.Request, op string, err error) {
	var status int
	var se *httpx.StatusError

	switch {
	case errors.Is(err, services.ErrNotEnoughPoints),
		errors.Is(err, services.ErrEmptyQuery),
		errors.Is(err, services.ErrEmptyRouteName),
		errors.Is(err, domain.ErrInvalidRouteOptions):
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	case errors.Is(err, ports.ErrRouteNotFound):
		writeError(w, r, http.StatusNotFound, "route not found")
		return
	case errors.Is(err, geocode.ErrNoResults):
		writeError(w, r, http.StatusNotFound, "no place matched the search")
		return
	case errors.Is(err, services.ErrStaleRoute):
		writeError(w, r, http.StatusConflict, services.ErrStaleRoute.Error())
		return
	case errors.Is(err, services.ErrGeocodingDisabled):
		status = http.StatusServiceUnavailable
	case errors.Is(err, geometry.ErrInvalidRouteResponse), errors.As(err, &se):
		status = http.StatusBadGateway
	default:
		status = http.StatusInternalServerError
	}

	log.Printf("req_id=%s op=%s status=%d err=%v", obs.RequestID(r.Context()), op, status, err)

	switch status {
	case http.StatusServiceUnavailable:
		writeError(w, r, status, err.Error())
	case http.StatusBadGateway:
		writeError(w, r, status, "routing service failed")
	default:
		writeError(w, r, status, "internal server error")
	}
}
