package models

// ========================================
// 이동 방향 상수
// ========================================
type Direction string

const (
	DirectionForward  Direction = "forward"  // y - 10
	DirectionBackward Direction = "backward" // y + 10
	DirectionLeft     Direction = "left"     // x - 10
	DirectionRight    Direction = "right"    // x + 10
)

// IsKnown - 알려진 방향인지 확인
func (d Direction) IsKnown() bool {
	switch d {
	case DirectionForward, DirectionBackward, DirectionLeft, DirectionRight:
		return true
	}
	return false
}

// ========================================
// 목적지 선택 상태
// ========================================
type SelectionState string

const (
	SelectionIdle      SelectionState = "idle"      // 대기
	SelectionArmed     SelectionState = "armed"     // 캔버스 클릭 대기 중
	SelectionPlaced    SelectionState = "placed"    // 목적지 지정 완료
	SelectionAnimating SelectionState = "animating" // 목적지로 이동 중
)

// 로봇 상태 상수 (로봇 측 서비스)
const (
	RobotStatusIdle   = "idle"
	RobotStatusMoving = "moving"
)

// 허용 줌 범위. 격자 선 수가 1/zoom에 비례하므로 하한이 필요하다.
const (
	MinZoom = 0.1
	MaxZoom = 10.0
)

// ValidZoom - 줌 값이 [MinZoom, MaxZoom] 범위인지 확인 (NaN은 거부)
func ValidZoom(z float64) bool {
	return z >= MinZoom && z <= MaxZoom
}

// Position - 로봇 위치 (모델 좌표계, 줌 미적용)
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Add - 두 위치의 합
func (p Position) Add(dx, dy float64) Position {
	return Position{X: p.X + dx, Y: p.Y + dy}
}

// Scale - 줌 적용 (캔버스 좌표로 변환)
func (p Position) Scale(zoom float64) Position {
	return Position{X: p.X * zoom, Y: p.Y * zoom}
}

// CanvasClick - 캔버스 클릭 이벤트
//
// PageX/PageY는 페이지 기준 좌표, CanvasLeft/CanvasTop은 캔버스의 페이지 내 위치.
type CanvasClick struct {
	PageX      float64 `json:"page_x"`
	PageY      float64 `json:"page_y"`
	CanvasLeft float64 `json:"canvas_left"`
	CanvasTop  float64 `json:"canvas_top"`
}

// PanelState - 패널 전체 상태 스냅샷 (API 응답 / 브로드캐스트용)
type PanelState struct {
	Position                 Position       `json:"position"`
	Destination              *Position      `json:"destination"`
	ZoomLevel                float64        `json:"zoom_level"`
	Focused                  *Obstacle      `json:"focused"`
	Selection                SelectionState `json:"selection"`
	SelectEnabled            bool           `json:"select_enabled"`
	MoveToDestinationVisible bool           `json:"move_to_destination_visible"`
	Obstacles                []Obstacle     `json:"obstacles"`
	Cards                    []ObstacleCard `json:"cards"`
}
