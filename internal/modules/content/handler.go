package content

import (
	"errors"

	"github.com/contentpilot/core/internal/pkg/pagination"
	"github.com/contentpilot/core/internal/pkg/response"
	"github.com/gin-gonic/gin"
)

type Handler struct{ svc *Service }

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

// RegisterRoutes mounts content item routes onto the given router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	items := rg.Group("/content", authMW)
	items.GET("", h.list)
	items.GET("/:id", h.get)
	items.POST("", h.create)
	items.PUT("/:id", h.update)
	items.PATCH("/:id", h.update)
	items.PATCH("/:id/status", h.advanceStatus)
	items.DELETE("/:id", h.delete)
}

func (h *Handler) list(c *gin.Context) {
	q := pagination.FromContext(c)

	var lq ListQuery
	if err := c.ShouldBindQuery(&lq); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	items, pag, err := h.svc.List(q, lq)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Paged(c, items, pag)
}

func (h *Handler) get(c *gin.Context) {
	item, err := h.svc.GetByID(c.Param("id"))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if item == nil {
		response.NotFoundMsg(c, "content item not found")
		return
	}
	response.OK(c, item)
}

func (h *Handler) create(c *gin.Context) {
	var dto CreateContentItemDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	item, err := h.svc.Create(c.Request.Context(), &dto)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Created(c, item)
}

func (h *Handler) update(c *gin.Context) {
	var dto UpdateContentItemDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	item, err := h.svc.Update(c.Request.Context(), c.Param("id"), &dto)
	if err != nil {
		h.writeError(c, err)
		return
	}
	if item == nil {
		response.NotFoundMsg(c, "content item not found")
		return
	}
	response.OK(c, item)
}

// advanceStatus PATCH /content/:id/status
func (h *Handler) advanceStatus(c *gin.Context) {
	var dto AdvanceStatusDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	item, err := h.svc.AdvanceStatus(c.Param("id"), dto.Status, dto.Manual)
	if err != nil {
		h.writeError(c, err)
		return
	}
	if item == nil {
		response.NotFoundMsg(c, "content item not found")
		return
	}
	response.OK(c, item)
}

func (h *Handler) delete(c *gin.Context) {
	if err := h.svc.Delete(c.Param("id")); err != nil {
		response.InternalError(c, err)
		return
	}
	response.NoContent(c)
}

func (h *Handler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrSiteNotFound), errors.Is(err, ErrSeriesNotFound):
		response.NotFoundMsg(c, err.Error())
	case errors.Is(err, ErrSeriesSiteMismatch), errors.Is(err, ErrFrozen):
		response.Conflict(c, err.Error())
	case errors.Is(err, ErrBadStatus), errors.Is(err, ErrBadPublishStatus), errors.Is(err, ErrEmptySlug):
		response.BadRequest(c, err.Error())
	default:
		response.InternalError(c, err)
	}
}
