package services

import (
	"fmt"
	"image/color"
	"map-panel/algorithms"
	"map-panel/models"
)

// 렌더링 상수
const (
	GridSpacing    = 20.0 // 줌 1 기준 격자 간격
	MarkerRadius   = 10.0 // 장애물 / 로봇 / 목적지 반지름
	gridLineWidth  = 0.5
	focusLineWidth = 1.0
)

// 색상
var (
	ColorBackground      = color.RGBA{0xFF, 0xFF, 0xFF, 0xFF}
	ColorGrid            = color.RGBA{0xDD, 0xDD, 0xDD, 0xFF}
	ColorObstacle        = color.RGBA{0xFF, 0xB6, 0xC1, 0xFF} // pastel pink
	ColorObstacleFocused = color.RGBA{0xFF, 0xFF, 0x00, 0xFF} // yellow
	ColorObstacleOutline = color.RGBA{0xFF, 0x69, 0xB4, 0xFF}
	ColorFocusLine       = color.RGBA{0x00, 0x00, 0xFF, 0xFF}
	ColorLabel           = color.RGBA{0x00, 0x00, 0x00, 0xFF}
	ColorDestination     = color.RGBA{0x32, 0xCD, 0x32, 0xFF}
	ColorRobot           = color.RGBA{0x1E, 0x90, 0xFF, 0xFF}

	focusDash = []float64{5, 5}
)

// RenderState - 한 프레임을 그리는 데 필요한 상태
//
// Robot, Destination, Obstacles는 모두 모델 좌표계이며 Zoom은 그릴 때만 적용된다.
type RenderState struct {
	Zoom        float64
	Obstacles   []models.Obstacle
	Robot       models.Position
	Destination *models.Position
	Focused     *models.Obstacle
}

// MapRenderer - 맵 전체를 다시 그린다
type MapRenderer struct{}

// NewMapRenderer - 렌더러 생성
func NewMapRenderer() *MapRenderer {
	return &MapRenderer{}
}

// Render clears the surface and redraws grid, obstacles, focus annotation,
// destination marker and robot. Output depends only on st and the surface
// size.
func (r *MapRenderer) Render(s Surface, st RenderState) {
	s.Clear(ColorBackground)
	r.drawGrid(s, st.Zoom)
	r.drawObstacles(s, st)
	r.drawDestination(s, st)
	r.drawRobot(s, st)
}

// drawGrid - 격자 배경
func (r *MapRenderer) drawGrid(s Surface, zoom float64) {
	spacing := GridSpacing * zoom
	// 1px보다 촘촘한 격자는 그리지 않는다
	if !(spacing >= 1) {
		return
	}

	w := float64(s.Width())
	h := float64(s.Height())
	stroke := Stroke{Color: ColorGrid, Width: gridLineWidth}

	for x := 0.0; x < w; x += spacing {
		s.Line(x, 0, x, h, stroke)
	}
	for y := 0.0; y < h; y += spacing {
		s.Line(0, y, w, y, stroke)
	}
}

// drawObstacles - 장애물과 포커스된 장애물의 거리 표시
func (r *MapRenderer) drawObstacles(s Surface, st RenderState) {
	robot := st.Robot.Scale(st.Zoom)

	for _, ob := range st.Obstacles {
		x := ob.X * st.Zoom
		y := ob.Y * st.Zoom
		focused := st.Focused != nil && st.Focused.ID == ob.ID

		fill := ColorObstacle
		if focused {
			fill = ColorObstacleFocused
		}
		s.Circle(x, y, MarkerRadius, fill, ColorObstacleOutline)

		if focused {
			r.drawFocusAnnotation(s, algorithms.Point{X: robot.X, Y: robot.Y}, algorithms.Point{X: x, Y: y})
		}
	}
}

// drawFocusAnnotation - 로봇→장애물 점선과 거리 라벨 (캔버스 좌표 기준)
func (r *MapRenderer) drawFocusAnnotation(s Surface, robot, obstacle algorithms.Point) {
	distance := algorithms.CalculateDistance(robot.X, robot.Y, obstacle.X, obstacle.Y)

	s.Line(robot.X, robot.Y, obstacle.X, obstacle.Y, Stroke{
		Color: ColorFocusLine,
		Width: focusLineWidth,
		Dash:  focusDash,
	})

	label := algorithms.LabelPosition(robot, obstacle)
	s.Text(FormatDistance(distance), label.X, label.Y, ColorLabel)
}

// drawDestination - 선택된 목적지 마커
func (r *MapRenderer) drawDestination(s Surface, st RenderState) {
	if st.Destination == nil {
		return
	}
	d := st.Destination.Scale(st.Zoom)
	s.Circle(d.X, d.Y, MarkerRadius, ColorDestination, nil)
}

// drawRobot - 로봇
func (r *MapRenderer) drawRobot(s Surface, st RenderState) {
	p := st.Robot.Scale(st.Zoom)
	s.Circle(p.X, p.Y, MarkerRadius, ColorRobot, nil)
}

// FormatDistance - 거리 라벨 문자열 ("12.34 cm")
func FormatDistance(distance float64) string {
	return fmt.Sprintf("%.2f cm", distance)
}
