package dto

// WaypointOpRequest carries a sequence plus the arguments of one edit.
// Which fields are read depends on the operation.
type WaypointOpRequest struct {
	Points []WaypointInput `json:"points"`

	// add: either coordinates or a search query.
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
	Name      string   `json:"name,omitempty"`
	Query     string   `json:"query,omitempty"`

	// remove
	Index *int `json:"index,omitempty"`

	// reorder
	From *int `json:"from,omitempty"`
	To   *int `json:"to,omitempty"`
}

type WaypointsResponse struct {
	Points   []WaypointResponse `json:"points"`
	CanRoute bool               `json:"canRoute"`
}

type GeocodeResponse struct {
	Label     string  `json:"label"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}
