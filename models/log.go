package models

import (
	"time"
)

// 이벤트 타입
const (
	EventMove             = "move"
	EventMoveFailed       = "move_failed"
	EventSync             = "sync"
	EventSyncFailed       = "sync_failed"
	EventFocus            = "focus"
	EventDestinationSet   = "destination_set"
	EventAnimationStart   = "animation_start"
	EventAnimationDone    = "animation_done"
	EventAnimationStopped = "animation_stopped"
	EventZoom             = "zoom"
)

// PanelLog - 패널 행동 로그
type PanelLog struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
	EventType string    `gorm:"index" json:"event_type"`

	// 로봇 상태
	PositionX float64 `json:"position_x"`
	PositionY float64 `json:"position_y"`
	Direction string  `json:"direction"`

	// 목적지
	TargetX float64 `json:"target_x"`
	TargetY float64 `json:"target_y"`

	// 동기화 / 포커스
	ObstacleCount int `json:"obstacle_count"`
	ObstacleID    int `json:"obstacle_id"`

	Error string `json:"error"`
}
