package services

import (
	"map-panel/models"
	"sync"
)

// ObstacleStore holds the obstacle snapshot from the latest successful,
// non-empty map fetch. Snapshots are replaced wholesale, never merged.
type ObstacleStore struct {
	mu        sync.RWMutex
	obstacles []models.Obstacle
}

// NewObstacleStore creates an empty store.
func NewObstacleStore() *ObstacleStore {
	return &ObstacleStore{}
}

// Replace swaps in a new snapshot built from records, assigning each
// obstacle its index as ID. An empty record list leaves the store untouched
// and reports false.
func (s *ObstacleStore) Replace(records []models.MapRecord) bool {
	if len(records) == 0 {
		return false
	}

	obstacles := make([]models.Obstacle, len(records))
	for i, rec := range records {
		obstacles[i] = models.ObstacleFromRecord(i, rec)
	}

	s.mu.Lock()
	s.obstacles = obstacles
	s.mu.Unlock()

	return true
}

// Get returns a copy of the obstacle with the given ID.
func (s *ObstacleStore) Get(id int) (models.Obstacle, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if id < 0 || id >= len(s.obstacles) {
		return models.Obstacle{}, false
	}
	return s.obstacles[id], true
}

// All returns a copy of the current snapshot.
func (s *ObstacleStore) All() []models.Obstacle {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Obstacle, len(s.obstacles))
	copy(out, s.obstacles)
	return out
}

// Len returns the number of obstacles in the snapshot.
func (s *ObstacleStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.obstacles)
}
