package dto

// ── 时薪模块 ──

// ActivateRateRequest 激活新时薪请求
type ActivateRateRequest struct {
	GuardID       string `json:"guard_id"       binding:"required,uuid"`
	HourlyRate    string `json:"hourly_rate"    binding:"required"` // decimal 字符串，如 "10.50"
	EffectiveDate string `json:"effective_date" binding:"required,datetime=2006-01-02"`
}

// RateResponse 时薪响应
type RateResponse struct {
	RateID        string `json:"rate_id"`
	GuardID       string `json:"guard_id"`
	HourlyRate    string `json:"hourly_rate"`
	EffectiveDate string `json:"effective_date"`
	IsActive      bool   `json:"is_active"`
}

// ── 税率配置模块 ──

// UpdateTaxConfigRequest 启用新税率配置请求
type UpdateTaxConfigRequest struct {
	TaxPercentage string `json:"tax_percentage" binding:"required"`
	TaxThreshold  string `json:"tax_threshold"  binding:"omitempty"`
}

// TaxConfigResponse 税率配置响应
type TaxConfigResponse struct {
	TaxConfigID   string `json:"tax_config_id"`
	TaxPercentage string `json:"tax_percentage"`
	TaxThreshold  string `json:"tax_threshold"`
	IsActive      bool   `json:"is_active"`
}

// ── 工资单模块 ──

// GeneratePayrollRequest 生成工资单请求
// 起止日期必须落在同一自然月内
type GeneratePayrollRequest struct {
	GuardID     string `json:"guard_id"     binding:"required,uuid"`
	PeriodStart string `json:"period_start" binding:"required,datetime=2006-01-02"`
	PeriodEnd   string `json:"period_end"   binding:"required,datetime=2006-01-02"`
}

// PayrollListRequest 工资单列表查询参数
type PayrollListRequest struct {
	PaginationRequest
	GuardID string `form:"guard_id" binding:"required,uuid"`
}

// PayrollResponse 工资单响应
type PayrollResponse struct {
	PayrollID   string `json:"payroll_id"`
	GuardID     string `json:"guard_id"`
	GuardName   string `json:"guard_name,omitempty"`
	PeriodStart string `json:"period_start"`
	PeriodEnd   string `json:"period_end"`
	TotalHours  string `json:"total_hours"`
	HourlyRate  string `json:"hourly_rate"`
	GrossPay    string `json:"gross_pay"`
	TaxAmount   string `json:"tax_amount"`
	NetPay      string `json:"net_pay"`
	Status      string `json:"status"`
}
