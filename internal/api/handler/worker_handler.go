package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/Musikislyfe/ConstruX/internal/dto"
	"github.com/Musikislyfe/ConstruX/internal/service"
	"github.com/Musikislyfe/ConstruX/pkg/response"
)

// WorkerHandler 工人模块 HTTP 处理器
type WorkerHandler struct {
	workerSvc service.WorkerService
}

// NewWorkerHandler 创建 WorkerHandler
func NewWorkerHandler(workerSvc service.WorkerService) *WorkerHandler {
	return &WorkerHandler{workerSvc: workerSvc}
}

// CreateWorker 创建工人账号
// POST /api/v1/workers
func (h *WorkerHandler) CreateWorker(c *gin.Context) {
	var req dto.CreateWorkerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetWorkerID(c)
	if !ok {
		return
	}

	worker, err := h.workerSvc.Create(c.Request.Context(), &req, callerID)
	if err != nil {
		if errors.Is(err, service.ErrPhoneTaken) {
			response.Conflict(c, 12002, "手机号已被注册")
			return
		}
		response.InternalError(c)
		return
	}

	response.Created(c, worker)
}

// GetCurrentWorker 获取当前登录工人信息
// GET /api/v1/workers/me
func (h *WorkerHandler) GetCurrentWorker(c *gin.Context) {
	workerID, ok := MustGetWorkerID(c)
	if !ok {
		return
	}

	worker, err := h.workerSvc.GetByID(c.Request.Context(), workerID)
	if err != nil {
		h.handleWorkerError(c, err)
		return
	}

	response.OK(c, worker)
}

// GetWorker 获取工人详情
// GET /api/v1/workers/:id
func (h *WorkerHandler) GetWorker(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "工人ID不能为空")
		return
	}

	worker, err := h.workerSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleWorkerError(c, err)
		return
	}

	response.OK(c, worker)
}

// ListWorkers 获取工人列表（分页）
// GET /api/v1/workers
func (h *WorkerHandler) ListWorkers(c *gin.Context) {
	var req dto.WorkerListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	workers, total, err := h.workerSvc.List(c.Request.Context(), &req)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OKPage(c, workers, total, req.GetPage(), req.GetPageSize())
}

// handleWorkerError 统一处理工人模块业务错误
func (h *WorkerHandler) handleWorkerError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrWorkerNotFound):
		response.NotFound(c, 12001, "工人不存在")
	default:
		response.InternalError(c)
	}
}
