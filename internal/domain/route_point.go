package domain

import (
	"fmt"

	"github.com/google/uuid"
)

// Role is the structural classification of a point, derived from its position.
type Role string

const (
	RoleStart    Role = "start"
	RoleWaypoint Role = "waypoint"
	RoleEnd      Role = "end"
)

// Represents one user-placed location in a route.
// Role and Order always reflect the point's index in the owning sequence;
// the functions below are the only place they are assigned.
type RoutePoint struct {
	ID          string
	Coordinates Coordinates
	Role        Role
	Name        string
	Order       int
}

// newPointID is swapped out by tests that need deterministic ids.
var newPointID = uuid.NewString

// roleAt classifies index i in a sequence of n points.
func roleAt(i, n int) Role {
	switch {
	case i == 0:
		return RoleStart
	case i == n-1:
		return RoleEnd
	default:
		return RoleWaypoint
	}
}

// ReassignRoles returns a copy of points with Order reset to the index and
// Role recomputed: first is start, last is end, the rest are waypoints.
// A single point is a start.
func ReassignRoles(points []RoutePoint) []RoutePoint {
	out := make([]RoutePoint, len(points))
	copy(out, points)

	for i := range out {
		out[i].Order = i
		out[i].Role = roleAt(i, len(out))
	}

	return out
}

// CreatePoint builds a point classified as if it were appended to existing.
// It does not insert the point.
func CreatePoint(coords Coordinates, name string, existing []RoutePoint) RoutePoint {
	n := len(existing)
	return RoutePoint{
		ID:          newPointID(),
		Coordinates: coords,
		Role:        roleAt(n, n+1),
		Name:        name,
		Order:       n,
	}
}

// AddPoint appends a new point. Appending to a list with two or more points
// demotes the previous end to a waypoint.
func AddPoint(points []RoutePoint, coords Coordinates, name string) []RoutePoint {
	next := make([]RoutePoint, 0, len(points)+1)
	next = append(next, points...)
	next = append(next, CreatePoint(coords, name, points))
	return ReassignRoles(next)
}

// RemovePoint drops the point at index. An out-of-range index returns points
// unchanged.
func RemovePoint(points []RoutePoint, index int) []RoutePoint {
	if index < 0 || index >= len(points) {
		return points
	}

	next := make([]RoutePoint, 0, len(points)-1)
	next = append(next, points[:index]...)
	next = append(next, points[index+1:]...)
	return ReassignRoles(next)
}

// Reorder moves the point at from so that it ends up at to. The element is
// removed first, then inserted at to in the shortened list. Either index out
// of range returns points unchanged.
func Reorder(points []RoutePoint, from, to int) []RoutePoint {
	n := len(points)
	if from < 0 || from >= n || to < 0 || to >= n {
		return points
	}

	moved := points[from]

	next := make([]RoutePoint, 0, n)
	next = append(next, points[:from]...)
	next = append(next, points[from+1:]...)

	next = append(next, RoutePoint{})
	copy(next[to+1:], next[to:])
	next[to] = moved

	return ReassignRoles(next)
}

// Reverse flips the travel direction of the sequence.
func Reverse(points []RoutePoint) []RoutePoint {
	next := make([]RoutePoint, len(points))
	for i, p := range points {
		next[len(points)-1-i] = p
	}
	return ReassignRoles(next)
}

// CanRoute reports whether there are enough points to request a route.
func CanRoute(points []RoutePoint) bool {
	return len(points) >= 2
}

// DisplayName returns the point's name, or its coordinates to 4 decimals.
func DisplayName(p RoutePoint) string {
	if p.Name != "" {
		return p.Name
	}
	return fmt.Sprintf("%.4f, %.4f", p.Coordinates.Lat, p.Coordinates.Lon)
}

// IconClass maps a role to the renderer's marker style.
func IconClass(role Role) string {
	switch role {
	case RoleStart:
		return "start-style"
	case RoleEnd:
		return "end-style"
	default:
		return "intermediate-style"
	}
}

// CoordinatesOf returns the point coordinates in sequence order.
func CoordinatesOf(points []RoutePoint) []Coordinates {
	out := make([]Coordinates, 0, len(points))
	for _, p := range points {
		out = append(out, p.Coordinates)
	}
	return out
}
