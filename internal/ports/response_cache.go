package ports

import (
	"context"
	"time"
)

// Storage for raw engine responses keyed by a request fingerprint.
// Get reports found=false on a miss; errors are reserved for backend failures.
type ResponseCache interface {
	Get(ctx context.Context, key string) (resp *EngineResponse, found bool, err error)
	Set(ctx context.Context, key string, resp *EngineResponse, ttl time.Duration) error
}
