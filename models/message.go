package models

// ========================================
// 메시지 타입 상수
// ========================================
const (
	// Server → Web
	MessageTypeMapUpdate  = "map_update"  // 장애물 스냅샷 교체
	MessageTypePosition   = "position"    // 로봇 위치 변경
	MessageTypeCards      = "cards"       // 장애물 카드 / 포커스 변경
	MessageTypeSelection  = "selection"   // 목적지 선택 상태 변경
	MessageTypeSystemInfo = "system_info" // 시스템 정보
)

// ========================================
// 공통 WebSocket 메시지 형식
// ========================================
type WebSocketMessage struct {
	Type      string      `json:"type"`
	Data      interface{} `json:"data"`
	Timestamp int64       `json:"timestamp"` // Unix timestamp (ms)
}

// MoveRobotRequest - POST /move_robot 요청
type MoveRobotRequest struct {
	Direction string `json:"direction"`
}

// SelectDestinationRequest - POST /select_destination 요청
type SelectDestinationRequest struct {
	Coordinates *Coordinates `json:"coordinates"`
}

// ZoomRequest - POST /api/panel/zoom 요청
type ZoomRequest struct {
	Zoom float64 `json:"zoom"`
}
