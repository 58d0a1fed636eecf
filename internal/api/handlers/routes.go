package handlers

import (
	"bikeroute-service/internal/api/dto"
	"bikeroute-service/internal/services"
	"fmt"
	"net/http"
	"strings"
)

// RouteHandler exposes route computation and saved-route endpoints.
type RouteHandler struct {
	Planner *services.Planner
	Current *services.CurrentRoute
}

// Compute routes the submitted points and makes the result the current route.
// A request overtaken by a newer one gets 409.
func (h *RouteHandler) Compute(w http.ResponseWriter, r *http.Request) {
	var req dto.ComputeRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	points := pointsFromInput(req.Points)
	route, err := h.Planner.ComputeCurrent(r.Context(), h.Current, points, optionsFromRequest(req.Options))
	if err != nil {
		writeServiceError(w, r, "routes.Compute", err)
		return
	}

	writeJSON(w, r, http.StatusOK, routeResponse(route))
}

func (h *RouteHandler) GetCurrent(w http.ResponseWriter, r *http.Request) {
	route := h.Current.Current()
	if route == nil {
		writeError(w, r, http.StatusNotFound, "no current route")
		return
	}

	writeJSON(w, r, http.StatusOK, routeResponse(route))
}

func (h *RouteHandler) ClearCurrent(w http.ResponseWriter, r *http.Request) {
	h.Current.Clear()
	w.WriteHeader(http.StatusNoContent)
}

func (h *RouteHandler) Save(w http.ResponseWriter, r *http.Request) {
	var req dto.SaveRouteRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	id, err := h.Planner.Save(r.Context(), savedFromRequest(req))
	if err != nil {
		writeServiceError(w, r, "routes.Save", err)
		return
	}

	w.Header().Set("Location", fmt.Sprintf("/routes/%d", id))
	writeJSON(w, r, http.StatusCreated, dto.SaveRouteResponse{ID: id})
}

func (h *RouteHandler) List(w http.ResponseWriter, r *http.Request) {
	routes, err := h.Planner.List(r.Context())
	if err != nil {
		writeServiceError(w, r, "routes.List", err)
		return
	}

	res := dto.ListRoutesResponse{
		Routes: make([]dto.RouteSummaryResponse, 0, len(routes)),
	}
	for _, s := range routes {
		res.Routes = append(res.Routes, dto.RouteSummaryResponse{
			ID:                s.ID,
			Name:              s.Name,
			PointCount:        s.PointCount,
			TotalDistance:     s.TotalDistance,
			EstimatedDuration: s.EstimatedDuration,
			CreatedAt:         s.CreatedAt,
		})
	}

	writeJSON(w, r, http.StatusOK, res)
}

// Get returns the stored points and aggregates; geometry is not stored.
func (h *RouteHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	saved, err := h.Planner.Load(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, "routes.Get", err)
		return
	}

	writeJSON(w, r, http.StatusOK, savedRouteResponse(saved))
}

func (h *RouteHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.Planner.Delete(r.Context(), id); err != nil {
		writeServiceError(w, r, "routes.Delete", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Geometry recomputes a saved route through the routing engine.
func (h *RouteHandler) Geometry(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	route, saved, err := h.Planner.ReloadGeometry(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, "routes.Geometry", err)
		return
	}

	writeJSON(w, r, http.StatusOK, dto.ReloadResponse{
		Saved: savedRouteResponse(saved),
		Route: routeResponse(route),
	})
}

func (h *RouteHandler) GPX(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	body, saved, err := h.Planner.ExportGPX(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, "routes.GPX", err)
		return
	}

	w.Header().Set("Content-Type", "application/gpx+xml")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", gpxFilename(saved.Name)))
	w.WriteHeader(http.StatusOK)
	w.Write(body)
}

// gpxFilename keeps letters, digits, dash and underscore.
func gpxFilename(name string) string {
	clean := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		case r == ' ':
			return '_'
		}
		return -1
	}, strings.TrimSpace(name))
	if clean == "" {
		clean = "route"
	}
	return clean + ".gpx"
}
