package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/Sfundo03/PiranaSecuritySystem-sub000/internal/dto"
	"github.com/Sfundo03/PiranaSecuritySystem-sub000/internal/service"
	"github.com/Sfundo03/PiranaSecuritySystem-sub000/pkg/response"
)

// IncidentHandler 事件工单模块 HTTP 处理器
type IncidentHandler struct {
	incidentSvc service.IncidentService
}

// NewIncidentHandler 创建 IncidentHandler
func NewIncidentHandler(incidentSvc service.IncidentService) *IncidentHandler {
	return &IncidentHandler{incidentSvc: incidentSvc}
}

// Create 住户提交工单
// POST /api/v1/incidents
func (h *IncidentHandler) Create(c *gin.Context) {
	var req dto.CreateIncidentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	residentID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	incident, err := h.incidentSvc.Create(c.Request.Context(), &req, residentID)
	if err != nil {
		h.handleIncidentError(c, err)
		return
	}

	response.Created(c, incident)
}

// Get 查询工单详情
// GET /api/v1/incidents/:id
func (h *IncidentHandler) Get(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "工单ID不能为空")
		return
	}

	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	role, ok := MustGetRole(c)
	if !ok {
		return
	}

	incident, err := h.incidentSvc.GetByID(c.Request.Context(), id, userID, role)
	if err != nil {
		h.handleIncidentError(c, err)
		return
	}

	response.OK(c, incident)
}

// List 分页查询工单
// GET /api/v1/incidents
func (h *IncidentHandler) List(c *gin.Context) {
	var req dto.IncidentListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	incidents, total, err := h.incidentSvc.List(c.Request.Context(), &req)
	if err != nil {
		h.handleIncidentError(c, err)
		return
	}

	response.OKPage(c, incidents, total, req.GetPage(), req.GetPageSize())
}

// MyIncidents 住户查询本人工单
// GET /api/v1/incidents/my
func (h *IncidentHandler) MyIncidents(c *gin.Context) {
	residentID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	incidents, err := h.incidentSvc.ListByResident(c.Request.Context(), residentID)
	if err != nil {
		h.handleIncidentError(c, err)
		return
	}

	response.OK(c, gin.H{"list": incidents})
}

// UpdateStatus 负责人推进工单状态
// PUT /api/v1/incidents/:id/status
func (h *IncidentHandler) UpdateStatus(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "工单ID不能为空")
		return
	}

	var req dto.UpdateIncidentStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	operatorID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	incident, err := h.incidentSvc.UpdateStatus(c.Request.Context(), id, &req, operatorID)
	if err != nil {
		h.handleIncidentError(c, err)
		return
	}

	response.OK(c, incident)
}

// handleIncidentError 统一处理工单模块业务错误
func (h *IncidentHandler) handleIncidentError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrIncidentNotFound):
		response.NotFound(c, 16001, "工单不存在")
	case errors.Is(err, service.ErrIncidentForbidden):
		response.Forbidden(c, 16002, "无权查看该工单")
	case errors.Is(err, service.ErrInvalidTransition):
		response.BadRequest(c, 16003, "工单状态不可回退")
	default:
		response.InternalError(c)
	}
}
