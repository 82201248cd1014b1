package http

import (
	"github.com/gofiber/fiber/v2"
)

type indexHandler struct{}

func NewIndexHandler() Handler {
	return &indexHandler{}
}

func (h *indexHandler) Handle(c *fiber.Ctx) error {
	return c.Render("index", fiber.Map{})
}
