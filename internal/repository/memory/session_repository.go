package memory

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"

	"urbanmind-be/pkg/conversation"
)

var ErrSessionNotFound = errors.New("session not found")

// SessionRepository keeps live conversation controllers in memory. A
// controller is closed when it expires or is deleted.
type SessionRepository struct {
	cache *cache.Cache
}

// NewSessionRepository creates a registry whose entries live for ttl and
// which purges expired entries every cleanupInterval.
func NewSessionRepository(ttl, cleanupInterval time.Duration) *SessionRepository {
	c := cache.New(ttl, cleanupInterval)
	c.OnEvicted(func(_ string, v interface{}) {
		if ctrl, ok := v.(*conversation.Controller); ok {
			ctrl.Close()
		}
	})
	return &SessionRepository{
		cache: c,
	}
}

func (r *SessionRepository) Save(ctrl *conversation.Controller) {
	r.cache.Set(ctrl.ID().String(), ctrl, cache.DefaultExpiration)
}

func (r *SessionRepository) Get(sessionID uuid.UUID) (*conversation.Controller, error) {
	if x, found := r.cache.Get(sessionID.String()); found {
		return x.(*conversation.Controller), nil
	}
	return nil, ErrSessionNotFound
}

func (r *SessionRepository) Delete(sessionID uuid.UUID) error {
	if _, found := r.cache.Get(sessionID.String()); !found {
		return ErrSessionNotFound
	}
	r.cache.Delete(sessionID.String())
	return nil
}

func (r *SessionRepository) Count() int {
	return r.cache.ItemCount()
}

// DeleteExpired evicts expired sessions now instead of waiting for the janitor.
func (r *SessionRepository) DeleteExpired() {
	r.cache.DeleteExpired()
}

// Flush closes every session. Used on shutdown.
func (r *SessionRepository) Flush() {
	r.cache.DeleteExpired()
	for id := range r.cache.Items() {
		r.cache.Delete(id)
	}
}
