package site

import (
	"errors"

	"github.com/contentpilot/core/internal/pkg/pagination"
	"github.com/contentpilot/core/internal/pkg/response"
	"github.com/gin-gonic/gin"
)

type Handler struct{ svc *Service }

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

// RegisterRoutes mounts site routes onto the given router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	sites := rg.Group("/sites", authMW)
	sites.GET("", h.list)
	sites.GET("/:id", h.get)
	sites.POST("", h.create)
	sites.PUT("/:id", h.update)
	sites.PATCH("/:id", h.update)
	sites.DELETE("/:id", h.delete)
}

func (h *Handler) list(c *gin.Context) {
	q := pagination.FromContext(c)
	sites, pag, err := h.svc.List(q)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Paged(c, sites, pag)
}

func (h *Handler) get(c *gin.Context) {
	site, err := h.svc.GetByID(c.Param("id"))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if site == nil {
		response.NotFoundMsg(c, "site not found")
		return
	}
	response.OK(c, site)
}

func (h *Handler) create(c *gin.Context) {
	var dto CreateSiteDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	site, err := h.svc.Create(c.Request.Context(), &dto)
	if err != nil {
		if errors.Is(err, ErrEmptySlug) {
			response.BadRequest(c, err.Error())
			return
		}
		response.InternalError(c, err)
		return
	}
	response.Created(c, site)
}

func (h *Handler) update(c *gin.Context) {
	var dto UpdateSiteDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	site, err := h.svc.Update(c.Request.Context(), c.Param("id"), &dto)
	if err != nil {
		if errors.Is(err, ErrEmptySlug) {
			response.BadRequest(c, err.Error())
			return
		}
		response.InternalError(c, err)
		return
	}
	if site == nil {
		response.NotFoundMsg(c, "site not found")
		return
	}
	response.OK(c, site)
}

func (h *Handler) delete(c *gin.Context) {
	if err := h.svc.Delete(c.Param("id")); err != nil {
		if errors.Is(err, ErrReferenced) {
			response.Conflict(c, err.Error())
			return
		}
		response.InternalError(c, err)
		return
	}
	response.NoContent(c)
}
