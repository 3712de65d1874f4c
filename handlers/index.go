package handlers

import (
	_ "embed"

	"github.com/gofiber/fiber/v2"
)

//go:embed web/index.html
var indexHTML []byte

// HandleIndex - 패널 API를 쓰는 최소 웹 화면 (맵 PNG, 방향 버튼, 장애물 카드)
func HandleIndex(c *fiber.Ctx) error {
	c.Type("html", "utf-8")
	return c.Send(indexHTML)
}
