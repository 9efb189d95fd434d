package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/Musikislyfe/ConstruX/internal/dto"
	"github.com/Musikislyfe/ConstruX/internal/service"
	"github.com/Musikislyfe/ConstruX/pkg/response"
)

// SiteHandler 工地模块 HTTP 处理器
type SiteHandler struct {
	siteSvc service.SiteService
}

// NewSiteHandler 创建 SiteHandler
func NewSiteHandler(siteSvc service.SiteService) *SiteHandler {
	return &SiteHandler{siteSvc: siteSvc}
}

// ListSites 获取工地列表
// GET /api/v1/sites
func (h *SiteHandler) ListSites(c *gin.Context) {
	var req dto.SiteListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	sites, err := h.siteSvc.List(c.Request.Context(), &req)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, gin.H{"list": sites})
}

// GetSite 获取工地详情
// GET /api/v1/sites/:id
func (h *SiteHandler) GetSite(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "工地ID不能为空")
		return
	}

	site, err := h.siteSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleSiteError(c, err)
		return
	}

	response.OK(c, site)
}

// CreateSite 创建工地
// POST /api/v1/sites
func (h *SiteHandler) CreateSite(c *gin.Context) {
	var req dto.CreateSiteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetWorkerID(c)
	if !ok {
		return
	}

	site, err := h.siteSvc.Create(c.Request.Context(), &req, callerID)
	if err != nil {
		h.handleSiteError(c, err)
		return
	}

	response.Created(c, site)
}

// UpdateSite 更新工地
// PUT /api/v1/sites/:id
func (h *SiteHandler) UpdateSite(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "工地ID不能为空")
		return
	}

	var req dto.UpdateSiteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetWorkerID(c)
	if !ok {
		return
	}

	site, err := h.siteSvc.Update(c.Request.Context(), id, &req, callerID)
	if err != nil {
		h.handleSiteError(c, err)
		return
	}

	response.OK(c, site)
}

// DeleteSite 删除工地（软删除）
// DELETE /api/v1/sites/:id
func (h *SiteHandler) DeleteSite(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "工地ID不能为空")
		return
	}

	callerID, ok := MustGetWorkerID(c)
	if !ok {
		return
	}

	if err := h.siteSvc.Delete(c.Request.Context(), id, callerID); err != nil {
		h.handleSiteError(c, err)
		return
	}

	response.OK(c, nil)
}

// handleSiteError 统一处理工地模块业务错误
func (h *SiteHandler) handleSiteError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrSiteNotFound):
		response.NotFound(c, 16001, "工地不存在")
	case errors.Is(err, service.ErrSiteCoordinatePair):
		response.BadRequest(c, 16002, "纬度与经度必须成对提供")
	default:
		response.InternalError(c)
	}
}
