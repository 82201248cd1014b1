package http

import (
	"net/url"
	"path/filepath"

	"github.com/data443/doctagger/pkg/storage"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type downloadHandler struct {
	logger *logrus.Logger
	store  *storage.Store
}

func NewDownloadHandler(logger *logrus.Logger, store *storage.Store) Handler {
	return &downloadHandler{logger: logger, store: store}
}

func (h *downloadHandler) Handle(c *fiber.Ctx) error {
	batchID := c.Params("unique_id")
	if _, err := uuid.Parse(batchID); err != nil {
		return c.Status(fiber.StatusBadRequest).SendString("invalid download identifier")
	}
	filename, err := unescapeParam(c.Params("filename"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).SendString("invalid filename")
	}

	path, err := h.store.ProcessedPath(batchID, filename)
	if err != nil {
		h.logger.WithFields(logrus.Fields{
			"batch_id": batchID,
			"filename": filename,
		}).Warn("download request for unknown file")
		return c.Status(fiber.StatusNotFound).SendString("file not found")
	}

	return c.Download(path, filepath.Base(path))
}

func unescapeParam(raw string) (string, error) {
	return url.PathUnescape(raw)
}
