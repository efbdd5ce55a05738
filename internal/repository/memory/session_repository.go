package memory

import (
	"time"

	"marketplace-be/pkg/store"

	"github.com/patrickmn/go-cache"
)

// SessionRepository is the in-memory session lookup consumed by identity
// resolution. Sessions expire on their own; the cache purges them lazily.
type SessionRepository struct {
	cache *cache.Cache
}

func NewSessionRepository() *SessionRepository {
	// Default expiration of 1 hour, expired entries purged every 10 minutes
	c := cache.New(1*time.Hour, 10*time.Minute)
	return &SessionRepository{
		cache: c,
	}
}

func (r *SessionRepository) Save(session *store.Session) {
	r.cache.Set(session.ID, session, cache.DefaultExpiration)
}

func (r *SessionRepository) Get(sessionID string) (*store.Session, bool) {
	if x, found := r.cache.Get(sessionID); found {
		session := x.(*store.Session)
		if session.Expired() {
			r.cache.Delete(sessionID)
			return nil, false
		}
		return session, true
	}
	return nil, false
}

func (r *SessionRepository) Delete(sessionID string) {
	r.cache.Delete(sessionID)
}
