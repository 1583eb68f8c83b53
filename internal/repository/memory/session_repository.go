package memory

import (
	"time"

	"hdt-be/internal/entity"

	"github.com/patrickmn/go-cache"
)

// SessionRepository caches active work sessions by id so the hot paths
// (telemetry ingest, task submission, stream handshakes) skip the database.
type SessionRepository struct {
	cache *cache.Cache
}

func NewSessionRepository() *SessionRepository {
	// Entries expire after 1 hour, purged every 10 minutes
	c := cache.New(1*time.Hour, 10*time.Minute)
	return &SessionRepository{
		cache: c,
	}
}

func (r *SessionRepository) Save(session *entity.WorkSession) {
	snapshot := *session
	r.cache.Set(session.Id.String(), &snapshot, cache.DefaultExpiration)
}

func (r *SessionRepository) Get(sessionID string) (*entity.WorkSession, bool) {
	if x, found := r.cache.Get(sessionID); found {
		snapshot := *x.(*entity.WorkSession)
		return &snapshot, true
	}
	return nil, false
}

func (r *SessionRepository) Delete(sessionID string) {
	r.cache.Delete(sessionID)
}
