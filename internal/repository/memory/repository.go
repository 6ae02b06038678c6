package memory

import (
	"sync"
	"time"

	"github.com/smallery/sleeper-fantasy-api/internal/models"
)

type Repository struct {
	metadata *models.LeagueMetadata
	mu       sync.RWMutex
}

func NewRepository() *Repository {
	return &Repository{}
}

func (r *Repository) SaveMetadata(metadata *models.LeagueMetadata) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.metadata = metadata
}

func (r *Repository) GetMetadata() *models.LeagueMetadata {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.metadata
}

// FreshMetadata returns the stored metadata if it was updated less than maxAge before now.
func (r *Repository) FreshMetadata(now time.Time, maxAge time.Duration) (*models.LeagueMetadata, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.metadata == nil || now.Sub(r.metadata.LastUpdated) >= maxAge {
		return nil, false
	}
	return r.metadata, true
}
