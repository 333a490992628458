// exposes a KV interface that the schedulers persist their record blobs through
package store

import (
	"context"
	"encoding/json"
	"errors"
)

// ErrNotFound is returned by Get when the key has never been written or was
// removed.
var ErrNotFound = errors.New("store: key not found")

// KV is the persistence contract of the engine. Every persisted entity is an
// opaque string blob; callers own serialization.
type KV interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}

// GetJSON reads key and unmarshals it into out.
func GetJSON(ctx context.Context, kv KV, key string, out any) error {
	raw, err := kv.Get(ctx, key)
	if err != nil {
		return err
	}
	return json.Unmarshal([]byte(raw), out)
}

// SetJSON marshals v and writes it under key.
func SetJSON(ctx context.Context, kv KV, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return kv.Set(ctx, key, string(raw))
}
