package services

import (
	"fmt"
	"map-panel/logger"
	"map-panel/models"
	"sync"
	"time"

	"gorm.io/gorm"
)

// EventLog - 패널 이벤트 로그 버퍼 (비동기 일괄 저장)
type EventLog struct {
	db        *gorm.DB
	log       logger.Logger
	logs      []models.PanelLog
	mu        sync.Mutex
	flushSize int           // 일괄 저장 크기
	flushTime time.Duration // 자동 플러시 주기
	stopChan  chan struct{}
	doneChan  chan struct{}
}

// NewEventLog - 이벤트 로그 생성
//
// db가 nil이면 버퍼만 비우고 저장하지 않는다.
func NewEventLog(db *gorm.DB, log logger.Logger, flushSize int, flushInterval time.Duration) *EventLog {
	if flushSize <= 0 {
		flushSize = 50
	}
	return &EventLog{
		db:        db,
		log:       log,
		logs:      make([]models.PanelLog, 0, flushSize*2),
		flushSize: flushSize,
		flushTime: flushInterval,
	}
}

// Start - 자동 플러시 고루틴 시작
func (el *EventLog) Start() {
	if el.flushTime <= 0 {
		return
	}
	el.stopChan = make(chan struct{})
	el.doneChan = make(chan struct{})
	go el.autoFlush()
	el.log.Infof("✅ 로깅 시스템 초기화 완료 (flushSize: %d, flushInterval: %v)", el.flushSize, el.flushTime)
}

// autoFlush - 주기적 로그 저장
func (el *EventLog) autoFlush() {
	defer close(el.doneChan)

	ticker := time.NewTicker(el.flushTime)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			el.Flush()
		case <-el.stopChan:
			el.Flush() // 종료 시 남은 로그 저장
			return
		}
	}
}

// Stop - 자동 플러시 종료 후 남은 로그 저장
func (el *EventLog) Stop() {
	if el.stopChan == nil {
		el.Flush()
		return
	}
	close(el.stopChan)
	<-el.doneChan
	el.stopChan = nil
	el.log.Infof("🛑 로깅 시스템 종료")
}

// Add - 로그 버퍼에 추가
func (el *EventLog) Add(entry models.PanelLog) {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}

	el.mu.Lock()
	el.logs = append(el.logs, entry)
	size := len(el.logs)
	el.mu.Unlock()

	// 버퍼 크기가 차면 즉시 플러시
	if size >= el.flushSize {
		go el.Flush()
	}
}

// Flush - 버퍼의 모든 로그를 DB에 저장
func (el *EventLog) Flush() {
	el.mu.Lock()
	if len(el.logs) == 0 {
		el.mu.Unlock()
		return
	}

	logsToSave := make([]models.PanelLog, len(el.logs))
	copy(logsToSave, el.logs)
	el.logs = el.logs[:0]
	el.mu.Unlock()

	if el.db == nil {
		return
	}
	if err := el.db.CreateInBatches(logsToSave, 100).Error; err != nil {
		el.log.Errorf("❌ 로그 저장 실패: %v", err)
		return
	}
	el.log.Debugf("💾 로그 %d개 저장 완료", len(logsToSave))
}

// Pending - 아직 저장되지 않은 로그 수
func (el *EventLog) Pending() int {
	el.mu.Lock()
	defer el.mu.Unlock()
	return len(el.logs)
}

// LogMove - 방향 이동 로그
func (el *EventLog) LogMove(dir models.Direction, pos models.Position, err error) {
	entry := models.PanelLog{
		EventType: models.EventMove,
		Direction: string(dir),
		PositionX: pos.X,
		PositionY: pos.Y,
	}
	if err != nil {
		entry.EventType = models.EventMoveFailed
		entry.Error = err.Error()
	}
	el.Add(entry)
}

// LogSync - 맵 동기화 로그
func (el *EventLog) LogSync(count int, err error) {
	entry := models.PanelLog{
		EventType:     models.EventSync,
		ObstacleCount: count,
	}
	if err != nil {
		entry.EventType = models.EventSyncFailed
		entry.Error = err.Error()
	}
	el.Add(entry)
}

// LogEvent - 위치/목적지를 포함한 일반 이벤트 로그
func (el *EventLog) LogEvent(eventType string, pos models.Position, target *models.Position) {
	entry := models.PanelLog{
		EventType: eventType,
		PositionX: pos.X,
		PositionY: pos.Y,
	}
	if target != nil {
		entry.TargetX = target.X
		entry.TargetY = target.Y
	}
	el.Add(entry)
}

// LogFocus - 포커스 로그
func (el *EventLog) LogFocus(id int) {
	el.Add(models.PanelLog{EventType: models.EventFocus, ObstacleID: id})
}

// ========================================
// 조회
// ========================================

// GetRecentLogs - 최근 로그 조회
func GetRecentLogs(db *gorm.DB, limit int) ([]models.PanelLog, error) {
	var logs []models.PanelLog
	err := db.Order("created_at DESC").Order("id DESC").Limit(limit).Find(&logs).Error
	return logs, err
}

// GetLogsByTimeRange - 시간 범위로 로그 조회
func GetLogsByTimeRange(db *gorm.DB, start, end time.Time, limit int) ([]models.PanelLog, error) {
	var logs []models.PanelLog
	query := db.Where("created_at BETWEEN ? AND ?", start, end)
	if limit > 0 {
		query = query.Limit(limit)
	}
	err := query.Order("created_at DESC").Find(&logs).Error
	return logs, err
}

// GetLogsByEventType - 이벤트 타입별 로그 조회
func GetLogsByEventType(db *gorm.DB, eventType string, limit int) ([]models.PanelLog, error) {
	var logs []models.PanelLog
	err := db.Where("event_type = ?", eventType).
		Order("created_at DESC").
		Limit(limit).
		Find(&logs).Error
	return logs, err
}

// GetLogStats - 로그 통계
func GetLogStats(db *gorm.DB, hours int) (map[string]interface{}, error) {
	since := time.Now().Add(-time.Duration(hours) * time.Hour)

	var total int64
	if err := db.Model(&models.PanelLog{}).Where("created_at >= ?", since).Count(&total).Error; err != nil {
		return nil, err
	}

	var eventCounts []struct {
		EventType string
		Count     int64
	}
	err := db.Model(&models.PanelLog{}).
		Select("event_type, COUNT(*) as count").
		Where("created_at >= ?", since).
		Group("event_type").
		Scan(&eventCounts).Error
	if err != nil {
		return nil, err
	}

	eventMap := make(map[string]int64, len(eventCounts))
	for _, ec := range eventCounts {
		eventMap[ec.EventType] = ec.Count
	}

	return map[string]interface{}{
		"total_logs":   total,
		"event_counts": eventMap,
		"time_range":   fmt.Sprintf("Last %d hours", hours),
	}, nil
}
