package handlers

import (
	"bytes"
	"errors"
	"map-panel/logger"
	"map-panel/models"
	"map-panel/services"
	"strconv"

	"github.com/gofiber/fiber/v2"
)

// PanelHandler - 패널 HTTP API
type PanelHandler struct {
	panel *services.Panel
	sync  *services.DataSync
	log   logger.Logger
}

// NewPanelHandler - 패널 핸들러 생성
func NewPanelHandler(panel *services.Panel, ds *services.DataSync, log logger.Logger) *PanelHandler {
	return &PanelHandler{panel: panel, sync: ds, log: log}
}

// Register mounts the panel routes on r (normally the /api/panel group).
func (h *PanelHandler) Register(r fiber.Router) {
	r.Get("/state", h.HandleGetState)
	r.Get("/cards", h.HandleGetCards)
	r.Get("/map.png", h.HandleGetMapImage)

	r.Post("/sync", h.HandleSync)
	r.Post("/move/:dir", h.HandleMove)
	r.Post("/zoom", h.HandleZoom)
	r.Post("/focus/:id", h.HandleFocus)

	dest := r.Group("/destination")
	dest.Post("/select", h.HandleSelectDestination)
	dest.Post("/click", h.HandleCanvasClick)
	dest.Post("/move", h.HandleMoveToDestination)
}

// HandleGetState - 패널 상태 조회
func (h *PanelHandler) HandleGetState(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"success": true,
		"state":   h.panel.Snapshot(),
	})
}

// HandleGetCards - 장애물 카드 목록
func (h *PanelHandler) HandleGetCards(c *fiber.Ctx) error {
	cards := h.panel.Cards()
	return c.JSON(fiber.Map{
		"success": true,
		"count":   len(cards),
		"cards":   cards,
	})
}

// HandleGetMapImage - 현재 캔버스 PNG
func (h *PanelHandler) HandleGetMapImage(c *fiber.Ctx) error {
	var buf bytes.Buffer
	if err := h.panel.WritePNG(&buf); err != nil {
		return h.fail(c, err)
	}
	c.Set(fiber.HeaderCacheControl, "no-store")
	c.Type("png")
	return c.Send(buf.Bytes())
}

// HandleSync - /map_data 즉시 동기화
func (h *PanelHandler) HandleSync(c *fiber.Ctx) error {
	replaced, err := h.sync.Sync()
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{
		"success":   true,
		"replaced":  replaced,
		"obstacles": h.panel.Store().Len(),
	})
}

// HandleMove - 방향 이동 (forward/backward/left/right)
func (h *PanelHandler) HandleMove(c *fiber.Ctx) error {
	dir := models.Direction(c.Params("dir"))

	pos, err := h.panel.Move(dir)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{
		"success":  true,
		"position": pos,
	})
}

// HandleZoom - 줌 변경
func (h *PanelHandler) HandleZoom(c *fiber.Ctx) error {
	var req models.ZoomRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if err := h.panel.SetZoom(req.Zoom); err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{
		"success":    true,
		"zoom_level": req.Zoom,
	})
}

// HandleFocus - 장애물 카드 클릭
func (h *PanelHandler) HandleFocus(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return badRequest(c, "Obstacle id must be an integer")
	}
	if err := h.panel.FocusObstacle(id); err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{
		"success": true,
		"cards":   h.panel.Cards(),
	})
}

// HandleSelectDestination - 목적지 선택 모드 진입
func (h *PanelHandler) HandleSelectDestination(c *fiber.Ctx) error {
	if err := h.panel.SelectDestination(); err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Click on the map to select the destination.",
	})
}

// HandleCanvasClick - 캔버스 클릭으로 목적지 지정
func (h *PanelHandler) HandleCanvasClick(c *fiber.Ctx) error {
	var click models.CanvasClick
	if err := c.BodyParser(&click); err != nil {
		return badRequest(c, "Invalid request body")
	}

	dest, err := h.panel.PlaceDestination(click)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{
		"success":     true,
		"destination": dest,
	})
}

// HandleMoveToDestination - 목적지로 애니메이션 이동 시작
func (h *PanelHandler) HandleMoveToDestination(c *fiber.Ctx) error {
	if _, err := h.panel.MoveToDestination(); err != nil {
		return h.fail(c, err)
	}
	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
		"success": true,
		"message": "Moving to destination",
	})
}

// fail maps panel and robot errors onto HTTP status codes.
func (h *PanelHandler) fail(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	switch {
	case errors.Is(err, services.ErrNotArmed),
		errors.Is(err, services.ErrSelectionDisabled),
		errors.Is(err, services.ErrNoDestination):
		status = fiber.StatusConflict
	case errors.Is(err, services.ErrObstacleNotFound):
		status = fiber.StatusNotFound
	case errors.Is(err, services.ErrInvalidZoom):
		status = fiber.StatusBadRequest
	case errors.Is(err, services.ErrRobotRequest):
		status = fiber.StatusBadGateway
	}

	if status >= fiber.StatusInternalServerError {
		h.log.WithField("path", c.Path()).Errorf("❌ %s: %v", c.Method(), err)
	}
	return c.Status(status).JSON(fiber.Map{
		"success": false,
		"error":   err.Error(),
	})
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"success": false,
		"error":   msg,
	})
}
