package handlers

import (
	"encoding/json"
	"errors"
	"map-panel/logger"
	"map-panel/models"
	"map-panel/services"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// RobotHandler serves the robot-side endpoints the panel polls and
// commands: obstacle uploads, /map_data and movement.
type RobotHandler struct {
	mapping   *services.MappingService
	uploadDir string
	log       logger.Logger
}

// NewRobotHandler - 로봇 측 핸들러 생성 (업로드 디렉터리가 없으면 만든다)
func NewRobotHandler(mapping *services.MappingService, uploadDir string, log logger.Logger) (*RobotHandler, error) {
	if err := os.MkdirAll(uploadDir, 0o755); err != nil {
		return nil, err
	}
	return &RobotHandler{mapping: mapping, uploadDir: uploadDir, log: log.WithField("component", "robot")}, nil
}

// Register - 로봇 측 라우트 등록
func (h *RobotHandler) Register(r fiber.Router) {
	r.Post("/upload", h.HandleUpload)
	r.Get("/map_data", h.HandleMapData)
	r.Get("/get_mapping", h.HandleGetMapping)
	r.Post("/select_destination", h.HandleSelectDestination)
	r.Get("/get_destination", h.HandleGetDestination)
	r.Post("/move_robot", h.HandleMoveRobot)
	r.Get("/move_bot", h.HandleMoveBot)
	r.Get("/get_robot_status", h.HandleGetRobotStatus)
}

// HandleUpload stores an obstacle photo with its distance and coordinates.
// Malformed coordinates fall back to (0, 0); a non-numeric distance is
// rejected.
func (h *RobotHandler) HandleUpload(c *fiber.Ctx) error {
	file, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "No file uploaded"})
	}

	distance, err := strconv.ParseFloat(strings.TrimSpace(c.FormValue("distance")), 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "distance must be a number"})
	}

	var coords models.Coordinates
	if raw := c.FormValue("coordinates", "{}"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &coords); err != nil {
			h.log.Warnf("⚠️ 잘못된 좌표 %q: %v", raw, err)
			coords = models.Coordinates{}
		}
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if ext == "" {
		ext = ".jpg"
	}
	path := filepath.Join(h.uploadDir, uuid.NewString()+ext)
	if err := c.SaveFile(file, path); err != nil {
		h.log.Errorf("❌ 파일 저장 실패: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to save file"})
	}

	rec, err := h.mapping.AddRecord(filepath.ToSlash(path), distance, coords)
	if err != nil {
		h.log.Errorf("❌ 매핑 저장 실패: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to save mapping data"})
	}

	h.log.Infof("📷 장애물 업로드: %s (%.1f cm @ %.1f, %.1f)", rec.Image, distance, coords.X, coords.Y)
	return c.JSON(fiber.Map{"message": "Data received successfully", "id": rec.ID})
}

// HandleMapData - GET /map_data (레코드 배열)
func (h *RobotHandler) HandleMapData(c *fiber.Ctx) error {
	data, err := h.mapping.MapData()
	if err != nil {
		h.log.Errorf("❌ %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load mapping data"})
	}
	return c.JSON(data)
}

// HandleGetMapping - GET /get_mapping ({"mapping_data": [...]})
func (h *RobotHandler) HandleGetMapping(c *fiber.Ctx) error {
	data, err := h.mapping.MapData()
	if err != nil {
		h.log.Errorf("❌ %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load mapping data"})
	}
	return c.JSON(fiber.Map{"mapping_data": data})
}

// HandleSelectDestination - 로봇 측 목적지 설정
func (h *RobotHandler) HandleSelectDestination(c *fiber.Ctx) error {
	var req models.SelectDestinationRequest
	if err := c.BodyParser(&req); err != nil || req.Coordinates == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "coordinates required"})
	}
	h.mapping.SetDestination(*req.Coordinates)
	return c.JSON(fiber.Map{"message": "Destination set successfully"})
}

// HandleGetDestination - 로봇 측 목적지 조회
func (h *RobotHandler) HandleGetDestination(c *fiber.Ctx) error {
	dest, err := h.mapping.Destination()
	if errors.Is(err, services.ErrNoDestinationSet) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "No destination set"})
	}
	return c.JSON(fiber.Map{"coordinates": dest})
}

// HandleMoveRobot - POST /move_robot {"direction": ...}
func (h *RobotHandler) HandleMoveRobot(c *fiber.Ctx) error {
	var req models.MoveRobotRequest
	if err := c.BodyParser(&req); err != nil || req.Direction == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid direction"})
	}

	h.mapping.SetStatus(models.RobotStatusMoving)
	return c.JSON(fiber.Map{
		"message": "Robot moving " + req.Direction,
		"status":  h.mapping.Status(),
	})
}

// HandleMoveBot - GET /move_bot?dir= (패널의 방향 버튼이 호출)
func (h *RobotHandler) HandleMoveBot(c *fiber.Ctx) error {
	dir := models.Direction(c.Query("dir"))
	if !dir.IsKnown() {
		return c.Status(fiber.StatusBadRequest).SendString("Invalid direction")
	}

	h.mapping.SetStatus(models.RobotStatusMoving)
	h.log.Debugf("🤖 move_bot: %s", dir)
	return c.SendString("Moving " + string(dir))
}

// HandleGetRobotStatus - 로봇 상태 조회
func (h *RobotHandler) HandleGetRobotStatus(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": h.mapping.Status()})
}
