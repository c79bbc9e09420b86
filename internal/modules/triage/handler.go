package triage

import (
	"github.com/contentpilot/core/internal/pkg/response"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	svc *Service
	log *zap.Logger
}

func NewHandler(svc *Service, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{svc: svc, log: log}
}

// RegisterRoutes mounts the triage report route. The optional cacheMW keeps
// repeated dashboard polls off the database.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc, cacheMW gin.HandlerFunc) {
	handlers := []gin.HandlerFunc{authMW}
	if cacheMW != nil {
		handlers = append(handlers, cacheMW)
	}
	handlers = append(handlers, h.report)
	rg.GET("/triage", handlers...)
}

// report GET /triage  [auth]
// The cause of a failed report stays server-side; the caller gets a generic
// error so row-level detail never leaks through the cross-cutting view.
func (h *Handler) report(c *gin.Context) {
	report, err := h.svc.Report()
	if err != nil {
		h.log.Error("triage report failed", zap.Error(err))
		response.InternalErrorOpaque(c)
		return
	}
	response.OK(c, report)
}
