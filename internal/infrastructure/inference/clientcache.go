package inference

import (
	"crypto/rand"
	"strings"

	lru "github.com/hashicorp/golang-lru"

	"github.com/janhq/ai-gateway/internal/domain/provider"
	"github.com/janhq/ai-gateway/internal/utils/idgen"
)

// ClientCache keeps built provider clients keyed by a salted fingerprint of
// the settings they were built from, so credentials never appear in keys.
type ClientCache struct {
	cache *lru.Cache
	salt  []byte
}

func NewClientCache(size int) (*ClientCache, error) {
	if size <= 0 {
		size = 32
	}
	cache, err := lru.New(size)
	if err != nil {
		return nil, err
	}
	salt := make([]byte, 32)
	if _, err := rand.Read(salt); err != nil {
		return nil, err
	}
	return &ClientCache{cache: cache, salt: salt}, nil
}

func (c *ClientCache) key(def provider.Definition, settings provider.Settings) string {
	var b strings.Builder
	b.WriteString(string(def.Capability))
	b.WriteByte('|')
	b.WriteString(string(def.Type))
	for _, k := range def.RequiredKeys {
		b.WriteByte('|')
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(settings.Value(k))
	}
	return idgen.HashKey256(b.String(), c.salt)
}

// Len returns the number of cached clients.
func (c *ClientCache) Len() int {
	return c.cache.Len()
}

// Cached wraps build so each distinct configuration is built once.
func Cached[C any](cache *ClientCache, build provider.Builder[C]) provider.Builder[C] {
	if cache == nil {
		return build
	}
	return func(def provider.Definition, settings provider.Settings) (C, error) {
		key := cache.key(def, settings)
		if v, ok := cache.cache.Get(key); ok {
			if client, ok := v.(C); ok {
				return client, nil
			}
			cache.cache.Remove(key)
		}
		client, err := build(def, settings)
		if err != nil {
			return client, err
		}
		cache.cache.Add(key, client)
		return client, nil
	}
}
