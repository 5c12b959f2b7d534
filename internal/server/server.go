// Package server exposes the invoice pipeline over HTTP: one multipart
// processing endpoint, a stateless export endpoint, health and metrics.
package server

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/HJantango/wild-octave-invoice/internal/common"
	"github.com/HJantango/wild-octave-invoice/internal/enhance"
	"github.com/HJantango/wild-octave-invoice/internal/export"
	"github.com/HJantango/wild-octave-invoice/internal/extract"
)

type Server struct {
	cfg      common.ServerConfig
	adapter  *extract.Adapter
	enhancer *enhance.Enhancer
	exporter *export.Service
	missing  []string
	logger   *slog.Logger
}

func New(cfg common.ServerConfig, adapter *extract.Adapter, enhancer *enhance.Enhancer, exporter *export.Service, missing []string, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		cfg:      cfg,
		adapter:  adapter,
		enhancer: enhancer,
		exporter: exporter,
		missing:  missing,
		logger:   logger,
	}
}

// Router builds the gin engine with CORS, request IDs and panic recovery.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.HandleMethodNotAllowed = true
	r.MaxMultipartMemory = s.cfg.MaxUploadBytes

	r.Use(s.requestID())
	r.Use(s.cors())
	r.Use(gin.CustomRecovery(func(c *gin.Context, err any) {
		s.logger.Error("http.panic",
			"req_id", common.RequestIDFromContext(c.Request.Context()),
			"path", c.Request.URL.Path,
			"error", err,
		)
		c.AbortWithStatusJSON(http.StatusInternalServerError, errorResponse{
			Error:   "internal server error",
			Details: fmt.Sprint(err),
		})
	}))

	r.POST("/api/invoices/process", s.processInvoice)
	r.POST("/api/invoices/export", s.exportItems)
	r.GET("/healthz", s.health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, errorResponse{Error: "method not allowed"})
	})
	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, errorResponse{Error: "not found"})
	})
	return r
}

// requestID tags every request with a UUID, on the context for the pipeline
// and on the response for correlation.
func (s *Server) requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := uuid.New().String()
		ctx := common.WithRequestID(c.Request.Context(), rid)
		c.Request = c.Request.WithContext(ctx)
		c.Header("X-Request-ID", rid)
		c.Next()
	}
}

// cors answers preflight requests and stamps the allowed origin on every
// response. The review UI is served from a different origin.
func (s *Server) cors() gin.HandlerFunc {
	origin := s.cfg.CORSOrigin
	if origin == "" {
		origin = "*"
	}
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", origin)
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":              "ok",
		"providers":           s.adapter.Providers(),
		"missing_credentials": s.missing,
	})
}
