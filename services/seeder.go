package services

import (
	"fmt"
	"map-panel/models"
	"math/rand"
	"sync"
)

// ObstacleSeeder fills an empty robot-side store with random obstacle
// records so the panel has something to show without a real robot.
type ObstacleSeeder struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewObstacleSeeder - seed가 같으면 같은 장애물을 만든다
func NewObstacleSeeder(seed int64) *ObstacleSeeder {
	return &ObstacleSeeder{rng: rand.New(rand.NewSource(seed))}
}

// Generate creates count records inside a width x height area, keeping a
// 10% margin from every edge. Distances fall in [5, 100) cm.
func (s *ObstacleSeeder) Generate(width, height float64, count int) []models.MapRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	// 경계에서 안전한 여백 (10%)
	margin := 0.1
	minX := width * margin
	maxX := width * (1 - margin)
	minY := height * margin
	maxY := height * (1 - margin)

	records := make([]models.MapRecord, 0, count)
	for i := 0; i < count; i++ {
		records = append(records, models.MapRecord{
			Coordinates: models.Coordinates{
				X: minX + s.rng.Float64()*(maxX-minX),
				Y: minY + s.rng.Float64()*(maxY-minY),
			},
			Distance: 5 + s.rng.Float64()*95,
		})
	}
	return records
}

// Seed stores generated records through ms, but only when ms is empty.
// It returns how many records were added.
func (s *ObstacleSeeder) Seed(ms *MappingService, width, height float64, count int) (int, error) {
	if count <= 0 {
		return 0, nil
	}

	existing, err := ms.MapData()
	if err != nil {
		return 0, err
	}
	if len(existing) > 0 {
		return 0, nil
	}

	for i, rec := range s.Generate(width, height, count) {
		if _, err := ms.AddRecord(rec.Image, rec.Distance, rec.Coordinates); err != nil {
			return i, fmt.Errorf("seed obstacle %d: %w", i+1, err)
		}
	}
	return count, nil
}
