package formstore

import (
	"encoding/json"
	"sync"
	"time"

	"endurance-api/internal/pkg/logger"
	"endurance-api/internal/pkg/redis"
)

// Store persists in-progress wizard drafts so a dropped connection or page
// reload does not lose user input. Implementations are best-effort: a failing
// backend must degrade gracefully, never break the wizard.
type Store interface {
	Save(id string, data any) error
	// Load unmarshals the draft into out and reports whether it existed.
	Load(id string, out any) (bool, error)
	Clear(id string) error
}

// RedisStore keys drafts under a namespace so distinct wizards (self-registration
// vs plan purchase) cannot collide. Drafts expire with the TTL; an abandoned
// draft needs no explicit cleanup.
type RedisStore struct {
	rds       redis.IRedis
	namespace string
	ttl       time.Duration
}

func NewRedisStore(rds redis.IRedis, namespace string, ttl time.Duration) *RedisStore {
	return &RedisStore{
		rds:       rds,
		namespace: namespace,
		ttl:       ttl,
	}
}

func (s *RedisStore) key(id string) string {
	return s.namespace + ":" + id
}

func (s *RedisStore) Save(id string, data any) error {
	if err := s.rds.Set(s.key(id), data, s.ttl); err != nil {
		// Best-effort: the draft lives on in memory for this request; the user
		// only loses resume-after-reload.
		logger.Warning.Printf("formstore: failed to save draft %s: %v", id, err)
	}
	return nil
}

func (s *RedisStore) Load(id string, out any) (bool, error) {
	raw, err := s.rds.Get(s.key(id))
	if err != nil {
		logger.Warning.Printf("formstore: failed to load draft %s: %v", id, err)
		return false, nil
	}
	if raw == "" {
		return false, nil
	}

	if err := json.Unmarshal([]byte(raw), out); err != nil {
		logger.Warning.Printf("formstore: corrupt draft %s: %v", id, err)
		return false, nil
	}

	// Reading a draft slides its TTL, so an open wizard session does not
	// expire under the user.
	if err := s.rds.Expire(s.key(id), s.ttl); err != nil {
		logger.Warning.Printf("formstore: failed to refresh ttl for draft %s: %v", id, err)
	}

	return true, nil
}

func (s *RedisStore) Clear(id string) error {
	if err := s.rds.Del(s.key(id)); err != nil {
		logger.Warning.Printf("formstore: failed to clear draft %s: %v", id, err)
	}
	return nil
}

// MemoryStore keeps drafts in process memory. Used in tests and as the fallback
// when no Redis client is configured.
type MemoryStore struct {
	mu    sync.RWMutex
	items map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{items: map[string][]byte{}}
}

func (s *MemoryStore) Save(id string, data any) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[id] = raw
	return nil
}

func (s *MemoryStore) Load(id string, out any) (bool, error) {
	s.mu.RLock()
	raw, ok := s.items[id]
	s.mu.RUnlock()
	if !ok {
		return false, nil
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return false, err
	}
	return true, nil
}

func (s *MemoryStore) Clear(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, id)
	return nil
}
