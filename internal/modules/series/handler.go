package series

import (
	"errors"

	"github.com/contentpilot/core/internal/pkg/pagination"
	"github.com/contentpilot/core/internal/pkg/response"
	"github.com/gin-gonic/gin"
)

type Handler struct{ svc *Service }

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

// RegisterRoutes mounts series routes onto the given router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	series := rg.Group("/series", authMW)
	series.GET("", h.list)
	series.GET("/:id", h.get)
	series.POST("", h.create)
	series.PUT("/:id", h.update)
	series.PATCH("/:id", h.update)
	series.DELETE("/:id", h.delete)
}

func (h *Handler) list(c *gin.Context) {
	q := pagination.FromContext(c)

	var lq ListQuery
	if err := c.ShouldBindQuery(&lq); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	list, pag, err := h.svc.List(q, lq)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Paged(c, list, pag)
}

func (h *Handler) get(c *gin.Context) {
	sr, err := h.svc.GetByID(c.Param("id"))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if sr == nil {
		response.NotFoundMsg(c, "series not found")
		return
	}
	response.OK(c, sr)
}

func (h *Handler) create(c *gin.Context) {
	var dto CreateSeriesDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	sr, err := h.svc.Create(c.Request.Context(), &dto)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Created(c, sr)
}

func (h *Handler) update(c *gin.Context) {
	var dto UpdateSeriesDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	sr, err := h.svc.Update(c.Request.Context(), c.Param("id"), &dto)
	if err != nil {
		h.writeError(c, err)
		return
	}
	if sr == nil {
		response.NotFoundMsg(c, "series not found")
		return
	}
	response.OK(c, sr)
}

func (h *Handler) delete(c *gin.Context) {
	if err := h.svc.Delete(c.Param("id")); err != nil {
		h.writeError(c, err)
		return
	}
	response.NoContent(c)
}

func (h *Handler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrSiteNotFound):
		response.NotFoundMsg(c, err.Error())
	case errors.Is(err, ErrOwnsItems):
		response.Conflict(c, err.Error())
	case errors.Is(err, ErrEmptySlug):
		response.BadRequest(c, err.Error())
	default:
		response.InternalError(c, err)
	}
}
