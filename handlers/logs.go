package handlers

import (
	"map-panel/services"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// LogHandler - 패널 이벤트 로그 조회 API
type LogHandler struct {
	db *gorm.DB
}

// NewLogHandler - 로그 핸들러 생성
func NewLogHandler(db *gorm.DB) *LogHandler {
	return &LogHandler{db: db}
}

// Register - /api/logs 라우트 등록
func (h *LogHandler) Register(r fiber.Router) {
	r.Get("/recent", h.HandleGetRecentLogs)     // 최근 로그
	r.Get("/range", h.HandleGetLogsByTimeRange) // 시간 범위
	r.Get("/type", h.HandleGetLogsByEventType)  // 이벤트 타입별
	r.Get("/stats", h.HandleGetLogStats)        // 통계
}

func queryLimit(c *fiber.Ctx) int {
	limit, err := strconv.Atoi(c.Query("limit", "100"))
	if err != nil || limit <= 0 {
		return 100
	}
	return limit
}

// HandleGetRecentLogs - 최근 로그 조회
func (h *LogHandler) HandleGetRecentLogs(c *fiber.Ctx) error {
	logs, err := services.GetRecentLogs(h.db, queryLimit(c))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch logs",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"count":   len(logs),
		"logs":    logs,
	})
}

// HandleGetLogsByTimeRange - 시간 범위로 로그 조회
func (h *LogHandler) HandleGetLogsByTimeRange(c *fiber.Ctx) error {
	// 기본: 최근 24시간
	end := time.Now()
	start := end.Add(-24 * time.Hour)

	if s := c.Query("start"); s != "" {
		parsed, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid start time format (use RFC3339)",
			})
		}
		start = parsed
	}
	if e := c.Query("end"); e != "" {
		parsed, err := time.Parse(time.RFC3339, e)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid end time format (use RFC3339)",
			})
		}
		end = parsed
	}

	logs, err := services.GetLogsByTimeRange(h.db, start, end, queryLimit(c))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch logs",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"count":   len(logs),
		"time_range": fiber.Map{
			"start": start.Format(time.RFC3339),
			"end":   end.Format(time.RFC3339),
		},
		"logs": logs,
	})
}

// HandleGetLogsByEventType - 이벤트 타입별 로그 조회
func (h *LogHandler) HandleGetLogsByEventType(c *fiber.Ctx) error {
	eventType := c.Query("event_type")
	if eventType == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "event_type parameter is required",
		})
	}

	logs, err := services.GetLogsByEventType(h.db, eventType, queryLimit(c))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch logs",
		})
	}

	return c.JSON(fiber.Map{
		"success":    true,
		"count":      len(logs),
		"event_type": eventType,
		"logs":       logs,
	})
}

// HandleGetLogStats - 로그 통계 조회
func (h *LogHandler) HandleGetLogStats(c *fiber.Ctx) error {
	hours, err := strconv.Atoi(c.Query("hours", "24"))
	if err != nil || hours <= 0 {
		hours = 24
	}

	stats, err := services.GetLogStats(h.db, hours)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch stats",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"stats":   stats,
	})
}
