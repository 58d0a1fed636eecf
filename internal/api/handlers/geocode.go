package handlers

import (
	"bikeroute-service/internal/api/dto"
	"bikeroute-service/internal/services"
	"net/http"
)

type GeocodeHandler struct {
	Planner *services.Planner
}

func (h *GeocodeHandler) Search(w http.ResponseWriter, r *http.Request) {
	place, err := h.Planner.Geocode(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		writeServiceError(w, r, "geocode.Search", err)
		return
	}

	writeJSON(w, r, http.StatusOK, dto.GeocodeResponse{
		Label:     place.Label,
		Latitude:  place.Coordinates.Lat,
		Longitude: place.Coordinates.Lon,
	})
}
