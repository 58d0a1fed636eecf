package api

import (
	"bikeroute-service/internal/api/handlers"
	"bikeroute-service/internal/services"
	"net/http"
)

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(planner *services.Planner, current *services.CurrentRoute) http.Handler {
	mux := http.NewServeMux()

	routeHandler := &handlers.RouteHandler{Planner: planner, Current: current}
	waypointHandler := &handlers.WaypointHandler{Planner: planner}
	geocodeHandler := &handlers.GeocodeHandler{Planner: planner}

	mux.HandleFunc("GET /health", handlers.Health)

	mux.HandleFunc("POST /routes/compute", routeHandler.Compute)
	mux.HandleFunc("GET /routes/current", routeHandler.GetCurrent)
	mux.HandleFunc("DELETE /routes/current", routeHandler.ClearCurrent)

	mux.HandleFunc("POST /routes", routeHandler.Save)
	mux.HandleFunc("GET /routes", routeHandler.List)
	mux.HandleFunc("GET /routes/{id}", routeHandler.Get)
	mux.HandleFunc("DELETE /routes/{id}", routeHandler.Delete)
	mux.HandleFunc("GET /routes/{id}/geometry", routeHandler.Geometry)
	mux.HandleFunc("GET /routes/{id}/gpx", routeHandler.GPX)

	mux.HandleFunc("POST /waypoints/{op}", waypointHandler.Edit)
	mux.HandleFunc("GET /geocode", geocodeHandler.Search)

	return requestIDMiddleware(loggingMiddleware(mux))
}
