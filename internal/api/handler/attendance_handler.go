package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Musikislyfe/ConstruX/internal/dto"
	"github.com/Musikislyfe/ConstruX/internal/service"
	"github.com/Musikislyfe/ConstruX/pkg/response"
)

// AttendanceHandler 考勤模块 HTTP 处理器
//
// 打卡被拒时响应携带结构化 data：
//   - 围栏外: {distance_m, radius_m}，前端据此提示「距工地 X 米」
//   - 重复打卡: {shift_id}，前端据此引导改为下班打卡
type AttendanceHandler struct {
	attendanceSvc service.AttendanceService
}

// NewAttendanceHandler 创建 AttendanceHandler
func NewAttendanceHandler(attendanceSvc service.AttendanceService) *AttendanceHandler {
	return &AttendanceHandler{attendanceSvc: attendanceSvc}
}

// CheckIn 上班打卡
// POST /api/v1/attendance/check-in
func (h *AttendanceHandler) CheckIn(c *gin.Context) {
	var req dto.CheckInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	workerID, ok := MustGetWorkerID(c)
	if !ok {
		return
	}

	shift, err := h.attendanceSvc.CheckIn(c.Request.Context(), workerID, &req)
	if err != nil {
		h.handleAttendanceError(c, err)
		return
	}

	response.Created(c, shift)
}

// CheckOut 下班打卡
// POST /api/v1/attendance/check-out
func (h *AttendanceHandler) CheckOut(c *gin.Context) {
	var req dto.CheckOutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	workerID, ok := MustGetWorkerID(c)
	if !ok {
		return
	}

	result, err := h.attendanceSvc.CheckOut(c.Request.Context(), workerID, &req)
	if err != nil {
		h.handleAttendanceError(c, err)
		return
	}

	response.OK(c, result)
}

// CurrentShift 查询当前进行中班次
// GET /api/v1/attendance/current
func (h *AttendanceHandler) CurrentShift(c *gin.Context) {
	workerID, ok := MustGetWorkerID(c)
	if !ok {
		return
	}

	shift, err := h.attendanceSvc.CurrentShift(c.Request.Context(), workerID)
	if err != nil {
		h.handleAttendanceError(c, err)
		return
	}

	response.OK(c, shift)
}

// ListShifts 查询班次记录（分页，支持按工地/工人/时间范围筛选）
// GET /api/v1/shifts
// 工人角色只能查自己的记录，工长/管理员可查全量
func (h *AttendanceHandler) ListShifts(c *gin.Context) {
	var req dto.ShiftListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	workerID, ok := MustGetWorkerID(c)
	if !ok {
		return
	}
	role, ok := MustGetRole(c)
	if !ok {
		return
	}
	if role == "worker" {
		req.WorkerID = workerID
	}

	shifts, total, err := h.attendanceSvc.ListShifts(c.Request.Context(), &req)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OKPage(c, shifts, total, req.GetPage(), req.GetPageSize())
}

// handleAttendanceError 统一处理考勤模块业务错误
func (h *AttendanceHandler) handleAttendanceError(c *gin.Context, err error) {
	var geofenceErr *service.GeofenceViolationError
	var checkedInErr *service.AlreadyCheckedInError

	switch {
	case errors.As(err, &geofenceErr):
		response.ErrorWithData(c, http.StatusForbidden, 17001, geofenceErr.Error(), dto.GeofenceViolationData{
			DistanceM: geofenceErr.DistanceM,
			RadiusM:   geofenceErr.RadiusM,
		})
	case errors.As(err, &checkedInErr):
		response.ErrorWithData(c, http.StatusConflict, 17002, checkedInErr.Error(), dto.AlreadyCheckedInData{
			ShiftID: checkedInErr.ShiftID,
		})
	case errors.Is(err, service.ErrNoActiveShift):
		response.NotFound(c, 17003, "当前没有进行中的班次")
	case errors.Is(err, service.ErrSiteNotFound):
		response.NotFound(c, 16001, "工地不存在")
	case errors.Is(err, service.ErrWorkerNotFound):
		response.NotFound(c, 12001, "工人不存在")
	default:
		response.InternalError(c)
	}
}
