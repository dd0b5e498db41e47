package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/Sfundo03/PiranaSecuritySystem-sub000/internal/dto"
	"github.com/Sfundo03/PiranaSecuritySystem-sub000/internal/service"
	"github.com/Sfundo03/PiranaSecuritySystem-sub000/pkg/response"
)

// PayrollHandler 工资模块 HTTP 处理器（含时薪与税率配置）
type PayrollHandler struct {
	payrollSvc service.PayrollService
	rateSvc    service.RateService
}

// NewPayrollHandler 创建 PayrollHandler
func NewPayrollHandler(payrollSvc service.PayrollService, rateSvc service.RateService) *PayrollHandler {
	return &PayrollHandler{payrollSvc: payrollSvc, rateSvc: rateSvc}
}

// ── 工资单 ──

// Generate 生成工资单
// POST /api/v1/payrolls
func (h *PayrollHandler) Generate(c *gin.Context) {
	var req dto.GeneratePayrollRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	operatorID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	payroll, err := h.payrollSvc.Generate(c.Request.Context(), &req, operatorID)
	if err != nil {
		h.handlePayrollError(c, err)
		return
	}

	response.Created(c, payroll)
}

// GetPayroll 查询工资单详情
// GET /api/v1/payrolls/:id
func (h *PayrollHandler) GetPayroll(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "工资单ID不能为空")
		return
	}

	payroll, err := h.payrollSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handlePayrollError(c, err)
		return
	}

	response.OK(c, payroll)
}

// ListPayrolls 分页查询某保安工资单
// GET /api/v1/payrolls
func (h *PayrollHandler) ListPayrolls(c *gin.Context) {
	var req dto.PayrollListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	payrolls, total, err := h.payrollSvc.ListByGuard(c.Request.Context(), &req)
	if err != nil {
		h.handlePayrollError(c, err)
		return
	}

	response.OKPage(c, payrolls, total, req.GetPage(), req.GetPageSize())
}

// MyPayrolls 保安查询本人工资单
// GET /api/v1/payrolls/my
func (h *PayrollHandler) MyPayrolls(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var page dto.PaginationRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	req := dto.PayrollListRequest{PaginationRequest: page, GuardID: userID}
	payrolls, total, err := h.payrollSvc.ListByGuard(c.Request.Context(), &req)
	if err != nil {
		h.handlePayrollError(c, err)
		return
	}

	response.OKPage(c, payrolls, total, page.GetPage(), page.GetPageSize())
}

// DeletePayroll 删除工资单
// DELETE /api/v1/payrolls/:id
func (h *PayrollHandler) DeletePayroll(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "工资单ID不能为空")
		return
	}

	operatorID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	if err := h.payrollSvc.Delete(c.Request.Context(), id, operatorID); err != nil {
		h.handlePayrollError(c, err)
		return
	}

	response.OK(c, gin.H{"message": "工资单已删除"})
}

// ── 时薪 ──

// ActivateRate 激活新时薪
// POST /api/v1/rates
func (h *PayrollHandler) ActivateRate(c *gin.Context) {
	var req dto.ActivateRateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	operatorID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	rate, err := h.rateSvc.Activate(c.Request.Context(), &req, operatorID)
	if err != nil {
		h.handlePayrollError(c, err)
		return
	}

	response.Created(c, rate)
}

// GetActiveRate 查询保安当前激活时薪
// GET /api/v1/rates/:guardId/active
func (h *PayrollHandler) GetActiveRate(c *gin.Context) {
	guardID := c.Param("guardId")
	if guardID == "" {
		response.BadRequest(c, 10001, "保安ID不能为空")
		return
	}

	rate, err := h.rateSvc.Resolve(c.Request.Context(), guardID)
	if err != nil {
		h.handlePayrollError(c, err)
		return
	}

	response.OK(c, rate)
}

// ListRates 查询保安时薪历史
// GET /api/v1/rates/:guardId
func (h *PayrollHandler) ListRates(c *gin.Context) {
	guardID := c.Param("guardId")
	if guardID == "" {
		response.BadRequest(c, 10001, "保安ID不能为空")
		return
	}

	rates, err := h.rateSvc.ListByGuard(c.Request.Context(), guardID)
	if err != nil {
		h.handlePayrollError(c, err)
		return
	}

	response.OK(c, gin.H{"list": rates})
}

// ── 税率配置 ──

// GetTaxConfig 查询当前激活税率配置
// GET /api/v1/tax-config
func (h *PayrollHandler) GetTaxConfig(c *gin.Context) {
	cfg, err := h.payrollSvc.ActiveTaxConfig(c.Request.Context())
	if err != nil {
		h.handlePayrollError(c, err)
		return
	}

	response.OK(c, cfg)
}

// UpdateTaxConfig 启用新税率配置
// PUT /api/v1/tax-config
func (h *PayrollHandler) UpdateTaxConfig(c *gin.Context) {
	var req dto.UpdateTaxConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	cfg, err := h.payrollSvc.UpdateTaxConfig(c.Request.Context(), &req)
	if err != nil {
		h.handlePayrollError(c, err)
		return
	}

	response.OK(c, cfg)
}

// handlePayrollError 统一处理工资模块业务错误
func (h *PayrollHandler) handlePayrollError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidPeriod):
		response.BadRequest(c, 14001, "工资周期无效")
	case errors.Is(err, service.ErrDuplicatePayroll):
		response.Conflict(c, 14002, "该保安该月工资单已存在")
	case errors.Is(err, service.ErrNoAttendance):
		response.BadRequest(c, 14003, "该周期内无已闭合考勤记录")
	case errors.Is(err, service.ErrPayrollNotFound):
		response.NotFound(c, 14004, "工资单不存在")
	case errors.Is(err, service.ErrNoActiveRate):
		response.UnprocessableEntity(c, 14005, "该保安无激活时薪")
	case errors.Is(err, service.ErrInvalidRate):
		response.BadRequest(c, 14006, "时薪必须为正数")
	case errors.Is(err, service.ErrRateGuardWrong):
		response.BadRequest(c, 14007, "时薪只能绑定在职保安")
	case errors.Is(err, service.ErrInvalidTaxRate):
		response.BadRequest(c, 14008, "税率必须在 0 到 100 之间")
	case errors.Is(err, service.ErrGuardNotFound):
		response.NotFound(c, 13001, "保安不存在")
	case errors.Is(err, service.ErrNotAGuard):
		response.BadRequest(c, 13003, "该用户不是保安")
	default:
		response.InternalError(c)
	}
}
