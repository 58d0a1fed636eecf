package services

import (
	"bikeroute-service/internal/domain"
	"context"
	"errors"
	"fmt"
	"sync"
)

// ErrStaleRoute is returned when a computation finished after a newer one began.
var ErrStaleRoute = errors.New("route superseded by a newer request")

// Ticket identifies one computation started with Begin.
type Ticket struct {
	seq uint64
}

// CurrentRoute holds the single active route. Only the latest computation
// may replace it: Begin cancels the previous in-flight one and Commit drops
// results from anything but the newest ticket.
//
// The zero value is ready to use and safe for concurrent use.
type CurrentRoute struct {
	mu     sync.Mutex
	seq    uint64
	cancel context.CancelFunc
	route  *domain.MultiWaypointRoute

	nextSub int
	subs    map[int]func(*domain.MultiWaypointRoute)
}

// Begin starts a computation. The returned context is cancelled when a newer
// computation begins or the route is cleared.
func (c *CurrentRoute) Begin(ctx context.Context) (context.Context, Ticket) {
	ctx, cancel := context.WithCancel(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cancel != nil {
		c.cancel()
	}
	c.seq++
	c.cancel = cancel

	return ctx, Ticket{seq: c.seq}
}

// Commit installs route if t is still the latest ticket.
func (c *CurrentRoute) Commit(t Ticket, route *domain.MultiWaypointRoute) error {
	c.mu.Lock()
	if t.seq != c.seq {
		c.mu.Unlock()
		return ErrStaleRoute
	}
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.route = route
	subs := c.subscribers()
	c.mu.Unlock()

	notify(subs, route)
	return nil
}

// Stale reports whether a newer computation has begun since t.
func (c *CurrentRoute) Stale(t Ticket) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return t.seq != c.seq
}

// Run computes a route with compute and commits it.
// A computation overtaken by a newer one returns ErrStaleRoute.
func (c *CurrentRoute) Run(
	ctx context.Context,
	compute func(ctx context.Context) (*domain.MultiWaypointRoute, error),
) (*domain.MultiWaypointRoute, error) {
	runCtx, ticket := c.Begin(ctx)

	route, err := compute(runCtx)
	if err != nil {
		if c.abandon(ticket) {
			return nil, fmt.Errorf("%w: %v", ErrStaleRoute, err)
		}
		return nil, err
	}

	if err := c.Commit(ticket, route); err != nil {
		return nil, err
	}

	return route, nil
}

// abandon releases a failed computation's context if t is still the latest
// ticket, and reports whether t had already been superseded.
func (c *CurrentRoute) abandon(t Ticket) (stale bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if t.seq != c.seq {
		return true
	}
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	return false
}

// Clear drops the current route and invalidates any in-flight computation.
func (c *CurrentRoute) Clear() {
	c.mu.Lock()
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.seq++
	c.route = nil
	subs := c.subscribers()
	c.mu.Unlock()

	notify(subs, nil)
}

// Current returns the active route, or nil.
func (c *CurrentRoute) Current() *domain.MultiWaypointRoute {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.route
}

// Subscribe registers fn to be called after every change with the new route
// (nil after Clear). The returned func removes the subscription.
func (c *CurrentRoute) Subscribe(fn func(*domain.MultiWaypointRoute)) (unsubscribe func()) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.subs == nil {
		c.subs = make(map[int]func(*domain.MultiWaypointRoute))
	}
	id := c.nextSub
	c.nextSub++
	c.subs[id] = fn

	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.subs, id)
	}
}

// subscribers snapshots the callbacks; c.mu must be held.
func (c *CurrentRoute) subscribers() []func(*domain.MultiWaypointRoute) {
	out := make([]func(*domain.MultiWaypointRoute), 0, len(c.subs))
	for _, fn := range c.subs {
		out = append(out, fn)
	}
	return out
}

func notify(subs []func(*domain.MultiWaypointRoute), route *domain.MultiWaypointRoute) {
	for _, fn := range subs {
		fn(route)
	}
}
