package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Sfundo03/PiranaSecuritySystem-sub000/internal/dto"
	"github.com/Sfundo03/PiranaSecuritySystem-sub000/internal/service"
	"github.com/Sfundo03/PiranaSecuritySystem-sub000/pkg/response"
)

// RosterHandler 排班模块 HTTP 处理器
type RosterHandler struct {
	rosterSvc service.RosterService
}

// NewRosterHandler 创建 RosterHandler
func NewRosterHandler(rosterSvc service.RosterService) *RosterHandler {
	return &RosterHandler{rosterSvc: rosterSvc}
}

// Generate 生成排班表
// POST /api/v1/rosters
func (h *RosterHandler) Generate(c *gin.Context) {
	var req dto.GenerateRosterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	operatorID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	roster, err := h.rosterSvc.Generate(c.Request.Context(), &req, operatorID)
	if err != nil {
		h.handleRosterError(c, err)
		return
	}

	response.Created(c, roster)
}

// GetByDate 按日期（可选站点）查询排班表
// GET /api/v1/rosters
func (h *RosterHandler) GetByDate(c *gin.Context) {
	var req dto.RosterQueryRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	if req.Site != "" {
		roster, err := h.rosterSvc.GetByDate(c.Request.Context(), req.Date, req.Site)
		if err != nil {
			h.handleRosterError(c, err)
			return
		}
		response.OK(c, roster)
		return
	}

	rosters, err := h.rosterSvc.ListByDate(c.Request.Context(), req.Date)
	if err != nil {
		h.handleRosterError(c, err)
		return
	}
	response.OK(c, gin.H{"list": rosters})
}

// MyCalendar 保安导出本人班次 iCalendar
// GET /api/v1/rosters/my/calendar.ics
func (h *RosterHandler) MyCalendar(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	ics, err := h.rosterSvc.GuardCalendarICS(c.Request.Context(), userID)
	if err != nil {
		h.handleRosterError(c, err)
		return
	}

	c.Header("Content-Disposition", "attachment; filename=shifts.ics")
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", []byte(ics))
}

// handleRosterError 统一处理排班模块业务错误
func (h *RosterHandler) handleRosterError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidGuardCount):
		response.BadRequest(c, 15001, "排班必须恰好 12 名保安")
	case errors.Is(err, service.ErrDuplicateGuardIDs):
		response.BadRequest(c, 15002, "排班名单存在重复保安")
	case errors.Is(err, service.ErrDuplicateRoster):
		response.Conflict(c, 15003, "该日期该站点已有排班表")
	case errors.Is(err, service.ErrRosterNotFound):
		response.NotFound(c, 15004, "排班表不存在")
	case errors.Is(err, service.ErrGuardNotFound):
		response.NotFound(c, 13001, "保安不存在")
	case errors.Is(err, service.ErrGuardInactive):
		response.BadRequest(c, 13002, "该保安已停用")
	case errors.Is(err, service.ErrNotAGuard):
		response.BadRequest(c, 13003, "该用户不是保安")
	case errors.Is(err, service.ErrInvalidTimeRange):
		response.BadRequest(c, 13005, "时间区间无效")
	default:
		response.InternalError(c)
	}
}
