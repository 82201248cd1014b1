package http

import (
	"github.com/data443/doctagger/pkg/infra/classifier"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type listPoliciesHandler struct {
	logger     *logrus.Logger
	classifier classifier.Client
}

func NewListPoliciesHandler(logger *logrus.Logger, client classifier.Client) Handler {
	return &listPoliciesHandler{logger: logger, classifier: client}
}

func (h *listPoliciesHandler) Handle(c *fiber.Ctx) error {
	policies, err := h.classifier.GetPolicies(c.Context())
	if err != nil {
		h.logger.WithError(err).Error("failed to list policies")
		return c.Status(fiber.StatusBadGateway).
			JSON(fiber.Map{"error": "classification service unavailable"})
	}
	return c.JSON(policies)
}
