package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"net/url"
	"time"
)

// Cache defines the interface for API response caching
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// credentialParams are query parameters that must never reach the cache key,
// so that API keys are not recoverable from the on-disk cache.
var credentialParams = []string{"key", "api_key", "apikey", "token"}

// ResponseKey generates a cache key for a provider request. Credential query
// parameters are stripped before hashing; two requests that differ only in
// the key used are the same request.
func ResponseKey(provider, rawURL string) string {
	if parsed, err := url.Parse(rawURL); err == nil {
		q := parsed.Query()
		for _, p := range credentialParams {
			q.Del(p)
		}
		parsed.RawQuery = q.Encode()
		rawURL = parsed.String()
	}
	hash := sha256.Sum256([]byte(provider + ":" + rawURL))
	return "brewrank:v1:" + hex.EncodeToString(hash[:])
}
