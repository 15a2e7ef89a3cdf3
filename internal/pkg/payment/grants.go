package payment

import (
	"encoding/json"
	"time"

	"github.com/JonasWeber/TrackNest/internal/pkg/cache"
)

const grantKeyPrefix = "download_grant:"

// GrantStore persists issued download grants until they expire. The
// asset-serving boundary redeems tokens against the same store.
type GrantStore interface {
	Put(grant *Grant) error
	Get(token string) (*Grant, error)
}

type redisGrantStore struct{}

// NewRedisGrantStore returns the cache-backed grant store used in
// production. Grants live exactly until their expiry.
func NewRedisGrantStore() GrantStore {
	return redisGrantStore{}
}

func (redisGrantStore) Put(grant *Grant) error {
	payload, err := json.Marshal(grant)
	if err != nil {
		return err
	}
	ttl := time.Until(grant.ExpiresAt)
	if ttl <= 0 {
		return nil
	}
	return cache.Set(grantKeyPrefix+grant.Token, payload, ttl)
}

func (redisGrantStore) Get(token string) (*Grant, error) {
	raw, err := cache.Get(grantKeyPrefix + token)
	if err != nil {
		return nil, ErrNotFound
	}
	var grant Grant
	if err := json.Unmarshal([]byte(raw), &grant); err != nil {
		return nil, err
	}
	return &grant, nil
}
