package http

import "github.com/gofiber/fiber/v2"

type Handler interface {
	Handle(ctx *fiber.Ctx) error
}

type HandlerTransport struct {
	// Pages
	IndexHandler Handler

	// Processing
	UploadHandler      Handler
	BatchUploadHandler Handler
	DownloadHandler    Handler

	// Policy API
	ListPoliciesHandler Handler
	GetPolicyHandler    Handler
}
