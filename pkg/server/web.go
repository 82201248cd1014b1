package server

import (
	"fmt"

	"github.com/data443/doctagger/pkg/config"
	handlers "github.com/data443/doctagger/pkg/handlers/http"
	"github.com/data443/doctagger/pkg/middleware"
	"github.com/data443/doctagger/pkg/templates"
	"github.com/sirupsen/logrus"
)

type (
	WebServerDI struct {
		MiddlewareTransport middleware.Transport
		HandlerTransport    handlers.HandlerTransport
		Config              *config.Config
		Logger              *logrus.Logger
		Views               *templates.Engine
	}
	WebServer struct {
		*BaseServer
		middlewareTransport middleware.Transport
		handlerTransport    handlers.HandlerTransport
	}
)

func NewWebServer(di WebServerDI) *WebServer {
	return &WebServer{
		BaseServer:          NewBaseServer(di.Config, di.Logger, di.Views),
		middlewareTransport: di.MiddlewareTransport,
		handlerTransport:    di.HandlerTransport,
	}
}

func (s *WebServer) Run() error {
	s.setupRoutes()
	s.setupHealthCheck()
	s.setupMetricsEndpoint()

	addr := fmt.Sprintf("%s:%d", s.Config.Server.Host, s.Config.Server.Port)
	s.Logger.WithField("addr", addr).Info("Starting web server")
	return s.Router.Listen(addr)
}

func (s *WebServer) setupRoutes() {
	s.Router.Use(s.middlewareTransport.RecoverMiddleware.Middleware())
	s.Router.Use(s.middlewareTransport.MetricsMiddleware.Middleware())

	s.Router.Get("/", s.handlerTransport.IndexHandler.Handle)
	s.Router.Post("/upload", s.handlerTransport.UploadHandler.Handle)
	s.Router.Post("/batch", s.handlerTransport.BatchUploadHandler.Handle)
	s.Router.Get("/download/:unique_id/:filename", s.handlerTransport.DownloadHandler.Handle)

	api := s.Router.Group("/api")
	{
		policies := api.Group("/policies")
		{
			policies.Get("", s.handlerTransport.ListPoliciesHandler.Handle)
			policies.Get("/:policy_id", s.handlerTransport.GetPolicyHandler.Handle)
		}
	}
}

func (s *WebServer) Shutdown() error {
	return s.Router.Shutdown()
}

var _ Server = (*WebServer)(nil)
