package http

import (
	"github.com/data443/doctagger/pkg/processor"
	"github.com/data443/doctagger/pkg/storage"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type uploadHandler struct {
	logger    *logrus.Logger
	store     *storage.Store
	processor *processor.Processor
	tagName   string
}

func NewUploadHandler(
	logger *logrus.Logger,
	store *storage.Store,
	proc *processor.Processor,
	tagName string,
) Handler {
	return &uploadHandler{
		logger:    logger,
		store:     store,
		processor: proc,
		tagName:   tagName,
	}
}

func (h *uploadHandler) Handle(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).
			SendString("no file provided")
	}

	batchID := h.store.NewBatchID()

	src, err := fileHeader.Open()
	if err != nil {
		h.logger.WithError(err).Error("failed to open uploaded file")
		return c.Status(fiber.StatusInternalServerError).
			SendString("failed to read upload")
	}
	path, err := h.store.SaveUpload(batchID, fileHeader.Filename, src)
	_ = src.Close()
	if err != nil {
		h.logger.WithError(err).WithField("file", fileHeader.Filename).Error("failed to store upload")
		return c.Status(fiber.StatusBadRequest).
			SendString("invalid filename")
	}

	result := h.processor.ProcessFile(c.Context(), batchID, path)
	h.store.CleanupBatch(batchID)

	return c.Render("results", fiber.Map{
		"BatchID": batchID,
		"TagName": h.tagName,
		"Result":  result,
	})
}
