package storage

import (
	"context"
	"strings"
	"time"
)

// KV is the minimal key-value contract the wizard persists through. The
// production implementation is Redis; tests use the in-memory one. Values
// are strings (JSON or base64 envelopes); absence is reported as ok=false,
// never as an error.
type KV interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Keys(ctx context.Context, prefix string) ([]string, error)
}

// Namespaced returns a view of kv with every key prefixed by "ns:". Each
// wizard session gets its own namespace so fixed storage keys from the
// single-browser design do not collide between sessions.
func Namespaced(kv KV, ns string) KV {
	return &namespaced{kv: kv, prefix: ns + ":"}
}

type namespaced struct {
	kv     KV
	prefix string
}

func (n *namespaced) Get(ctx context.Context, key string) (string, bool, error) {
	return n.kv.Get(ctx, n.prefix+key)
}

func (n *namespaced) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return n.kv.Set(ctx, n.prefix+key, value, ttl)
}

func (n *namespaced) Delete(ctx context.Context, key string) error {
	return n.kv.Delete(ctx, n.prefix+key)
}

func (n *namespaced) Keys(ctx context.Context, prefix string) ([]string, error) {
	keys, err := n.kv.Keys(ctx, n.prefix+prefix)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		out = append(out, strings.TrimPrefix(k, n.prefix))
	}
	return out, nil
}
