package http

import (
	"errors"

	"github.com/data443/doctagger/pkg/infra/classifier"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type getPolicyHandler struct {
	logger     *logrus.Logger
	classifier classifier.Client
}

func NewGetPolicyHandler(logger *logrus.Logger, client classifier.Client) Handler {
	return &getPolicyHandler{logger: logger, classifier: client}
}

func (h *getPolicyHandler) Handle(c *fiber.Ctx) error {
	policyID := c.Params("policy_id")
	if policyID == "" {
		return c.Status(fiber.StatusBadRequest).
			JSON(fiber.Map{"error": "policy_id is required"})
	}

	policy, err := h.classifier.GetPolicy(c.Context(), policyID)
	if err != nil {
		h.logger.WithError(err).WithField("policy_id", policyID).Error("failed to get policy")
		if errors.Is(err, classifier.ErrPolicyNotFound) {
			return c.Status(fiber.StatusNotFound).
				JSON(fiber.Map{"error": "policy not found"})
		}
		return c.Status(fiber.StatusBadGateway).
			JSON(fiber.Map{"error": "classification service unavailable"})
	}
	return c.JSON(policy)
}
