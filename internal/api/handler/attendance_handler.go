package handler

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/Sfundo03/PiranaSecuritySystem-sub000/internal/dto"
	"github.com/Sfundo03/PiranaSecuritySystem-sub000/internal/service"
	"github.com/Sfundo03/PiranaSecuritySystem-sub000/pkg/response"
)

// AttendanceHandler 考勤模块 HTTP 处理器
// 签到接口为公开端点（站岗平板无登录态），由限流中间件保护
type AttendanceHandler struct {
	attendanceSvc service.AttendanceService
}

// NewAttendanceHandler 创建 AttendanceHandler
func NewAttendanceHandler(attendanceSvc service.AttendanceService) *AttendanceHandler {
	return &AttendanceHandler{attendanceSvc: attendanceSvc}
}

// CheckIn 记录签到/签退事件
// POST /checkin/events
func (h *AttendanceHandler) CheckIn(c *gin.Context) {
	var req dto.CheckInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.attendanceSvc.RecordCheckIn(c.Request.Context(), &req)
	if err != nil {
		h.handleAttendanceError(c, err)
		return
	}

	response.Created(c, result)
}

// ValidateGuard 签到页按名字校验在职保安
// POST /checkin/validate
func (h *AttendanceHandler) ValidateGuard(c *gin.Context) {
	var req dto.ValidateGuardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.attendanceSvc.ValidateGuard(c.Request.Context(), req.FirstName)
	if err != nil {
		h.handleAttendanceError(c, err)
		return
	}

	response.OK(c, result)
}

// Reconcile 执行考勤对账
// POST /api/v1/attendance/reconcile
func (h *AttendanceHandler) Reconcile(c *gin.Context) {
	var req dto.ReconcileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.attendanceSvc.Reconcile(c.Request.Context(), &req)
	if err != nil {
		h.handleAttendanceError(c, err)
		return
	}

	response.OK(c, result)
}

// ListIntervals 查询考勤区间
// GET /api/v1/attendance/intervals
func (h *AttendanceHandler) ListIntervals(c *gin.Context) {
	var req dto.AttendanceListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	intervals, err := h.attendanceSvc.ListIntervals(c.Request.Context(), &req)
	if err != nil {
		h.handleAttendanceError(c, err)
		return
	}

	response.OK(c, gin.H{"list": intervals})
}

// ExportLog 导出保安日志 CSV
// GET /api/v1/attendance/export
func (h *AttendanceHandler) ExportLog(c *gin.Context) {
	var req dto.ExportLogRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	buf, filename, err := h.attendanceSvc.ExportLogCSV(c.Request.Context(), &req)
	if err != nil {
		h.handleAttendanceError(c, err)
		return
	}

	encodedFilename := url.QueryEscape(filename)
	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+encodedFilename)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

// handleAttendanceError 统一处理考勤模块业务错误
func (h *AttendanceHandler) handleAttendanceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrGuardNotFound):
		response.NotFound(c, 13001, "保安不存在")
	case errors.Is(err, service.ErrGuardInactive):
		response.BadRequest(c, 13002, "该保安已停用")
	case errors.Is(err, service.ErrNotAGuard):
		response.BadRequest(c, 13003, "该用户不是保安")
	case errors.Is(err, service.ErrInvalidCheckCode):
		response.BadRequest(c, 13004, "签到码无效")
	case errors.Is(err, service.ErrInvalidTimeRange):
		response.BadRequest(c, 13005, "时间区间无效")
	default:
		response.InternalError(c)
	}
}
