package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/Sfundo03/PiranaSecuritySystem-sub000/internal/dto"
	"github.com/Sfundo03/PiranaSecuritySystem-sub000/internal/model"
	"github.com/Sfundo03/PiranaSecuritySystem-sub000/internal/service"
	"github.com/Sfundo03/PiranaSecuritySystem-sub000/pkg/response"
)

// TrainingHandler 培训模块 HTTP 处理器
type TrainingHandler struct {
	trainingSvc service.TrainingService
}

// NewTrainingHandler 创建 TrainingHandler
func NewTrainingHandler(trainingSvc service.TrainingService) *TrainingHandler {
	return &TrainingHandler{trainingSvc: trainingSvc}
}

// CreateSession 教官创建培训场次
// POST /api/v1/training/sessions
func (h *TrainingHandler) CreateSession(c *gin.Context) {
	var req dto.CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	instructorID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	session, err := h.trainingSvc.CreateSession(c.Request.Context(), &req, instructorID)
	if err != nil {
		h.handleTrainingError(c, err)
		return
	}

	response.Created(c, session)
}

// GetSession 查询场次详情
// GET /api/v1/training/sessions/:id
func (h *TrainingHandler) GetSession(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "场次ID不能为空")
		return
	}

	session, err := h.trainingSvc.GetSession(c.Request.Context(), id)
	if err != nil {
		h.handleTrainingError(c, err)
		return
	}

	response.OK(c, session)
}

// ListSessions 分页查询培训场次
// GET /api/v1/training/sessions
func (h *TrainingHandler) ListSessions(c *gin.Context) {
	var page dto.PaginationRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	sessions, total, err := h.trainingSvc.ListSessions(c.Request.Context(), &page)
	if err != nil {
		h.handleTrainingError(c, err)
		return
	}

	response.OKPage(c, sessions, total, page.GetPage(), page.GetPageSize())
}

// MySessions 按角色查询本人相关场次
// 教官返回名下场次，保安返回已报名场次
// GET /api/v1/training/sessions/my
func (h *TrainingHandler) MySessions(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	role, ok := MustGetRole(c)
	if !ok {
		return
	}

	var sessions []dto.SessionResponse
	var err error
	if role == model.RoleInstructor {
		sessions, err = h.trainingSvc.ListByInstructor(c.Request.Context(), userID)
	} else {
		sessions, err = h.trainingSvc.ListByGuard(c.Request.Context(), userID)
	}
	if err != nil {
		h.handleTrainingError(c, err)
		return
	}

	response.OK(c, gin.H{"list": sessions})
}

// Enroll 保安报名培训
// POST /api/v1/training/sessions/:id/enroll
func (h *TrainingHandler) Enroll(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "场次ID不能为空")
		return
	}

	var req dto.EnrollRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	// 保安只能为自己报名，负责人可代报
	role, ok := MustGetRole(c)
	if !ok {
		return
	}
	if role == model.RoleGuard {
		userID, ok := MustGetUserID(c)
		if !ok {
			return
		}
		req.GuardID = userID
	}

	enrollment, err := h.trainingSvc.Enroll(c.Request.Context(), id, &req)
	if err != nil {
		h.handleTrainingError(c, err)
		return
	}

	response.Created(c, enrollment)
}

// handleTrainingError 统一处理培训模块业务错误
func (h *TrainingHandler) handleTrainingError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrSessionNotFound):
		response.NotFound(c, 17001, "培训场次不存在")
	case errors.Is(err, service.ErrSessionFull):
		response.BadRequest(c, 17002, "培训场次已满员")
	case errors.Is(err, service.ErrAlreadyEnrolled):
		response.Conflict(c, 17003, "该保安已报名该场次")
	case errors.Is(err, service.ErrSessionPassed):
		response.BadRequest(c, 17004, "培训场次已结束")
	case errors.Is(err, service.ErrInvalidSessionDay):
		response.BadRequest(c, 17005, "培训日期无效")
	case errors.Is(err, service.ErrGuardNotFound):
		response.NotFound(c, 13001, "保安不存在")
	case errors.Is(err, service.ErrGuardInactive):
		response.BadRequest(c, 13002, "该保安已停用")
	case errors.Is(err, service.ErrNotAGuard):
		response.BadRequest(c, 13003, "该用户不是保安")
	default:
		response.InternalError(c)
	}
}
