// Package aicache caches LLM completions per (feature type, prompt, user)
// so repeated identical requests skip the model call. The cache is advisory:
// every operation degrades to a miss or a silent failure, callers must always
// be able to proceed without it.
package aicache

import (
	"strconv"
	"time"
)

const (
	// DefaultTTL applies to conversational or short-lived responses.
	DefaultTTL = time.Hour
	// StaticTTL applies to long-form content whose output is stable.
	StaticTTL = 24 * time.Hour
)

// Stats are observability counters with no correctness dependency.
type Stats struct {
	Hits   int64 `json:"hits"`
	Misses int64 `json:"misses"`
	Keys   int64 `json:"keys"`
}

// ResponseCache is the interface feature handlers consume.
type ResponseCache interface {
	Get(contentType, prompt string, userID uint) (string, bool)
	Set(contentType, prompt, value string, userID uint, ttl time.Duration) bool
	SetStatic(contentType, prompt, value string, userID uint) bool
	Delete(contentType, prompt string, userID uint) int
	Clear()
	Stats() Stats
}

// Config carries the injectable pieces of a cache instance. Zero values fall
// back to production defaults, so Config{} is a valid configuration.
type Config struct {
	DefaultTTL time.Duration
	StaticTTL  time.Duration
	Clock      func() time.Time
	Hash       func(string) string
}

func (c Config) withDefaults() Config {
	if c.DefaultTTL <= 0 {
		c.DefaultTTL = DefaultTTL
	}
	if c.StaticTTL <= 0 {
		c.StaticTTL = StaticTTL
	}
	if c.Clock == nil {
		c.Clock = time.Now
	}
	if c.Hash == nil {
		c.Hash = SimpleHash
	}
	return c
}

// Key derives the cache key for a request. The user id is embedded only when
// it is set, so anonymous and type-only lookups share entries.
func Key(contentType, prompt string, userID uint, hash func(string) string) string {
	userPart := ""
	if userID != 0 {
		userPart = "user:" + strconv.FormatUint(uint64(userID), 10) + ":"
	}
	return contentType + ":" + userPart + hash(prompt)
}

// SimpleHash is a fast non-cryptographic rolling hash rendered in base 36.
// Collisions are tolerated: a collision only returns a plausible cached
// response for a different prompt of the same feature type.
func SimpleHash(s string) string {
	var h int32
	for _, r := range s {
		h = (h << 5) - h + int32(r)
	}
	v := int64(h)
	if v < 0 {
		v = -v
	}
	return strconv.FormatInt(v, 36)
}
