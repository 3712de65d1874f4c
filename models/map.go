package models

import "time"

// Coordinates - 로봇이 보고한 장애물 좌표 (모델 좌표계, 줌 미적용)
type Coordinates struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// MapRecord - GET /map_data 응답의 한 항목
type MapRecord struct {
	Coordinates Coordinates `json:"coordinates"`
	Image       string      `json:"image"`
	Distance    float64     `json:"distance"`
}

// Obstacle represents one detected obstacle in the current snapshot.
// ID is the record's index within the fetch that produced it and is only
// stable until the next successful fetch.
type Obstacle struct {
	ID       int     `json:"id"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Image    string  `json:"image"`
	Distance float64 `json:"distance"`
}

// ObstacleFromRecord builds the obstacle stored at index id.
func ObstacleFromRecord(id int, rec MapRecord) Obstacle {
	return Obstacle{
		ID:       id,
		X:        rec.Coordinates.X,
		Y:        rec.Coordinates.Y,
		Image:    rec.Image,
		Distance: rec.Distance,
	}
}

// ObstacleCard - 장애물 카드 (웹 목록 표시용)
type ObstacleCard struct {
	ID          int     `json:"id"`
	Label       string  `json:"label"` // "Obstacle <id+1>"
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
	Distance    float64 `json:"distance"`
	Image       string  `json:"image"`
	Highlighted bool    `json:"highlighted"`
}

// MappingRecord - 로봇 측에서 업로드된 매핑 데이터 (DB 저장)
type MappingRecord struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Image     string    `json:"image"`
	Distance  float64   `json:"distance"`
	X         float64   `json:"x"`
	Y         float64   `json:"y"`
}

// ToMapRecord converts the stored row to its /map_data wire form.
func (m MappingRecord) ToMapRecord() MapRecord {
	return MapRecord{
		Coordinates: Coordinates{X: m.X, Y: m.Y},
		Image:       m.Image,
		Distance:    m.Distance,
	}
}
