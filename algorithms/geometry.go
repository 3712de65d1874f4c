package algorithms

import (
	"math"
)

type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// CalculateDistance - 두 점 사이의 유클리드 거리
func CalculateDistance(x1, y1, x2, y2 float64) float64 {
	dx := x2 - x1
	dy := y2 - y1
	return math.Sqrt(dx*dx + dy*dy)
}

// CalculateAngle - (x1,y1)에서 (x2,y2)를 향하는 각도 (라디안, atan2)
func CalculateAngle(x1, y1, x2, y2 float64) float64 {
	return math.Atan2(y2-y1, x2-x1)
}

// Midpoint - 두 점의 중점
func Midpoint(a, b Point) Point {
	return Point{X: (a.X + b.X) / 2, Y: (a.Y + b.Y) / 2}
}

// LabelOffset - 거리 라벨이 선과 겹치지 않도록 하는 오프셋 크기
//
// 최소 20px, 가까울수록 (100 - distance)만큼 커진다.
func LabelOffset(distance float64) float64 {
	return 20 + math.Max(0, 100-distance)
}

// LabelPosition - from→to 선분의 중점에서 선에 수직 방향으로 LabelOffset만큼 떨어진 점
func LabelPosition(from, to Point) Point {
	distance := CalculateDistance(from.X, from.Y, to.X, to.Y)
	angle := CalculateAngle(from.X, from.Y, to.X, to.Y)
	offset := LabelOffset(distance)
	mid := Midpoint(from, to)

	return Point{
		X: mid.X + offset*math.Cos(angle+math.Pi/2),
		Y: mid.Y + offset*math.Sin(angle+math.Pi/2),
	}
}

// StepToward - from에서 to까지를 steps개의 동일한 증분으로 나눈 한 스텝
func StepToward(from, to Point, steps int) Point {
	if steps <= 0 {
		return Point{}
	}
	return Point{
		X: (to.X - from.X) / float64(steps),
		Y: (to.Y - from.Y) / float64(steps),
	}
}
