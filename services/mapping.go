package services

import (
	"errors"
	"fmt"
	"map-panel/models"
	"sync"

	"gorm.io/gorm"
)

// ErrNoDestinationSet - 로봇 측에 목적지가 설정되지 않음
var ErrNoDestinationSet = errors.New("no destination set")

// MappingService is the robot-side store behind /upload and /map_data.
// Uploaded records are persisted; the selected destination and the robot
// status live in memory.
type MappingService struct {
	db *gorm.DB

	mu          sync.RWMutex
	destination *models.Coordinates
	status      string
}

// NewMappingService creates a robot-side mapping service on db.
func NewMappingService(db *gorm.DB) *MappingService {
	return &MappingService{
		db:     db,
		status: models.RobotStatusIdle,
	}
}

// AddRecord stores one uploaded obstacle observation.
func (ms *MappingService) AddRecord(image string, distance float64, coords models.Coordinates) (*models.MappingRecord, error) {
	rec := &models.MappingRecord{
		Image:    image,
		Distance: distance,
		X:        coords.X,
		Y:        coords.Y,
	}
	if err := ms.db.Create(rec).Error; err != nil {
		return nil, fmt.Errorf("save mapping record: %w", err)
	}
	return rec, nil
}

// MapData returns every stored record in upload order, in /map_data form.
func (ms *MappingService) MapData() ([]models.MapRecord, error) {
	var rows []models.MappingRecord
	if err := ms.db.Order("id ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("load mapping records: %w", err)
	}

	out := make([]models.MapRecord, len(rows))
	for i, row := range rows {
		out[i] = row.ToMapRecord()
	}
	return out, nil
}

// SetDestination - 로봇 측 목적지 설정
func (ms *MappingService) SetDestination(c models.Coordinates) {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	ms.destination = &c
}

// Destination - 로봇 측 목적지 조회
func (ms *MappingService) Destination() (models.Coordinates, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()

	if ms.destination == nil {
		return models.Coordinates{}, ErrNoDestinationSet
	}
	return *ms.destination, nil
}

// SetStatus - 로봇 상태 변경
func (ms *MappingService) SetStatus(status string) {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	ms.status = status
}

// Status - 로봇 상태 조회
func (ms *MappingService) Status() string {
	ms.mu.RLock()
	defer ms.mu.RUnlock()
	return ms.status
}
