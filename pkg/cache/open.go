package cache

import (
	"context"

	arrerrors "github.com/matzehuels/arrange/pkg/errors"
)

// Backend names accepted by Open.
const (
	BackendNone  = "none"
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendMongo = "mongo"
)

// OpenOptions configures Open. Only the fields of the chosen backend are used.
type OpenOptions struct {
	Dir        string // file
	URL        string // redis, mongo
	Database   string // mongo
	Collection string // mongo
}

// Open creates the cache for backend. An empty backend means BackendNone.
// Connection URLs are validated before any network traffic.
func Open(ctx context.Context, backend string, opts OpenOptions) (Cache, error) {
	switch backend {
	case "", BackendNone:
		return NewNullCache(), nil
	case BackendFile:
		return NewFileCache(opts.Dir)
	case BackendRedis:
		if err := arrerrors.ValidateBackendURL(opts.URL, "redis", "rediss"); err != nil {
			return nil, err
		}
		return NewRedisCache(ctx, opts.URL)
	case BackendMongo:
		if err := arrerrors.ValidateBackendURL(opts.URL, "mongodb", "mongodb+srv"); err != nil {
			return nil, err
		}
		return NewMongoCache(ctx, opts.URL, opts.Database, opts.Collection)
	}
	return nil, arrerrors.New(arrerrors.ErrCodeInvalidConfig, "unknown cache backend %q", backend)
}
