package handlers

import (
	"bikeroute-service/internal/api/dto"
	"bikeroute-service/internal/domain"
	"bikeroute-service/internal/services"
	"net/http"
	"strings"
)

// WaypointHandler exposes sequence edits for clients that keep no logic of
// their own. Every response carries the full re-roled sequence.
type WaypointHandler struct {
	Planner *services.Planner
}

// Edit applies the operation named by the {op} path segment:
// add, remove, reorder or reverse. Out-of-range indices leave the
// sequence unchanged.
func (h *WaypointHandler) Edit(w http.ResponseWriter, r *http.Request) {
	var req dto.WaypointOpRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	points := pointsFromInput(req.Points)

	switch op := r.PathValue("op"); op {
	case "add":
		switch {
		case strings.TrimSpace(req.Query) != "":
			next, _, err := h.Planner.InsertBySearch(r.Context(), points, req.Query)
			if err != nil {
				writeServiceError(w, r, "waypoints.add", err)
				return
			}
			points = next
		case req.Latitude != nil && req.Longitude != nil:
			coords := domain.Coordinates{Lat: *req.Latitude, Lon: *req.Longitude}
			points = h.Planner.InsertAtCoordinates(points, coords, req.Name)
		default:
			writeError(w, r, http.StatusBadRequest, "add needs latitude and longitude, or a query")
			return
		}
	case "remove":
		if req.Index == nil {
			writeError(w, r, http.StatusBadRequest, "remove needs an index")
			return
		}
		points = domain.RemovePoint(points, *req.Index)
	case "reorder":
		if req.From == nil || req.To == nil {
			writeError(w, r, http.StatusBadRequest, "reorder needs from and to")
			return
		}
		points = domain.Reorder(points, *req.From, *req.To)
	case "reverse":
		points = domain.Reverse(points)
	default:
		writeError(w, r, http.StatusNotFound, "unknown waypoint operation "+op)
		return
	}

	writeJSON(w, r, http.StatusOK, dto.WaypointsResponse{
		Points:   waypointResponses(points),
		CanRoute: domain.CanRoute(points),
	})
}
