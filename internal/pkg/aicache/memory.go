package aicache

import (
	"sync"
	"time"
)

type entry struct {
	value     string
	expiresAt time.Time
}

// Memory is the in-process ResponseCache implementation. Expired entries are
// invisible to readers and reaped lazily at read time.
type Memory struct {
	cfg Config

	mu     sync.RWMutex
	items  map[string]entry
	hits   int64
	misses int64
}

// New constructs an in-memory cache. Pass Config{} for production defaults;
// tests inject a fake clock or hash through cfg.
func New(cfg Config) *Memory {
	return &Memory{
		cfg:   cfg.withDefaults(),
		items: make(map[string]entry),
	}
}

func (m *Memory) Get(contentType, prompt string, userID uint) (string, bool) {
	key := Key(contentType, prompt, userID, m.cfg.Hash)
	now := m.cfg.Clock()

	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.items[key]
	if ok && now.Before(e.expiresAt) {
		m.hits++
		return e.value, true
	}
	if ok {
		// Lazy expiry: logically absent, physically removed on first read.
		delete(m.items, key)
	}
	m.misses++
	return "", false
}

func (m *Memory) Set(contentType, prompt, value string, userID uint, ttl time.Duration) bool {
	if ttl <= 0 {
		ttl = m.cfg.DefaultTTL
	}
	key := Key(contentType, prompt, userID, m.cfg.Hash)

	m.mu.Lock()
	defer m.mu.Unlock()

	m.items[key] = entry{value: value, expiresAt: m.cfg.Clock().Add(ttl)}
	return true
}

func (m *Memory) SetStatic(contentType, prompt, value string, userID uint) bool {
	return m.Set(contentType, prompt, value, userID, m.cfg.StaticTTL)
}

func (m *Memory) Delete(contentType, prompt string, userID uint) int {
	key := Key(contentType, prompt, userID, m.cfg.Hash)

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.items[key]; !ok {
		return 0
	}
	delete(m.items, key)
	return 1
}

func (m *Memory) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.items = make(map[string]entry)
}

func (m *Memory) Stats() Stats {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return Stats{
		Hits:   m.hits,
		Misses: m.misses,
		Keys:   int64(len(m.items)),
	}
}
