package http

import (
	"mime/multipart"

	"github.com/data443/doctagger/pkg/processor"
	"github.com/data443/doctagger/pkg/storage"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type batchUploadHandler struct {
	logger    *logrus.Logger
	store     *storage.Store
	processor *processor.Processor
}

func NewBatchUploadHandler(
	logger *logrus.Logger,
	store *storage.Store,
	proc *processor.Processor,
) Handler {
	return &batchUploadHandler{
		logger:    logger,
		store:     store,
		processor: proc,
	}
}

func (h *batchUploadHandler) Handle(c *fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).
			SendString("no files provided")
	}

	files := form.File["files[]"]
	if len(files) == 0 {
		files = form.File["files"]
	}
	if len(files) == 0 {
		return c.Status(fiber.StatusBadRequest).
			SendString("no files provided")
	}

	batchID := h.store.NewBatchID()
	var paths []string
	for _, fileHeader := range files {
		path, err := h.saveOne(batchID, fileHeader)
		if err != nil {
			h.logger.WithError(err).WithField("file", fileHeader.Filename).Warn("skipping unsaveable upload")
			continue
		}
		paths = append(paths, path)
	}

	batch, results := h.processor.ProcessBatch(c.Context(), batchID, paths)

	return c.Render("batch_results", fiber.Map{
		"BatchID": batchID,
		"Batch":   batch,
		"Results": results,
	})
}

func (h *batchUploadHandler) saveOne(batchID string, fileHeader *multipart.FileHeader) (string, error) {
	src, err := fileHeader.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()
	return h.store.SaveUpload(batchID, fileHeader.Filename, src)
}
