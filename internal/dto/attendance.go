package dto

// ── 考勤模块请求 ──

// CheckInRequest 签到/签退请求（签到页 JSON 接口）
// Code 为签到页二维码载荷 <random6>-<guardId>，仅做格式与归属校验，
// 不构成安全边界
type CheckInRequest struct {
	GuardID string `json:"guard_id" binding:"required,uuid"`
	Kind    string `json:"kind"     binding:"required,oneof=check_in check_out"`
	Code    string `json:"code"     binding:"omitempty,max=50"`
}

// ValidateGuardRequest 签到页保安姓名校验请求
type ValidateGuardRequest struct {
	FirstName string `json:"first_name" binding:"required,max=50"`
}

// ReconcileRequest 考勤对账请求
type ReconcileRequest struct {
	GuardID string `json:"guard_id" binding:"required,uuid"`
	From    string `json:"from"     binding:"required,datetime=2006-01-02"`
	To      string `json:"to"       binding:"required,datetime=2006-01-02"`
}

// AttendanceListRequest 考勤区间查询参数
type AttendanceListRequest struct {
	GuardID string `form:"guard_id" binding:"required,uuid"`
	From    string `form:"from"     binding:"required,datetime=2006-01-02"`
	To      string `form:"to"       binding:"required,datetime=2006-01-02"`
}

// ExportLogRequest 保安日志 CSV 导出参数
type ExportLogRequest struct {
	From string `form:"from" binding:"required,datetime=2006-01-02"`
	To   string `form:"to"   binding:"required,datetime=2006-01-02"`
}

// ── 考勤模块响应 ──

// CheckInResponse 签到结果响应
type CheckInResponse struct {
	EventID    string `json:"event_id"`
	GuardID    string `json:"guard_id"`
	Kind       string `json:"kind"`
	Status     string `json:"status"`
	OccurredAt string `json:"occurred_at"`
}

// ValidateGuardResponse 保安姓名校验响应
type ValidateGuardResponse struct {
	Valid     bool   `json:"valid"`
	GuardID   string `json:"guard_id,omitempty"`
	GuardName string `json:"guard_name,omitempty"`
	Site      string `json:"site,omitempty"`
}

// AttendanceIntervalResponse 考勤区间响应
type AttendanceIntervalResponse struct {
	IntervalID   string  `json:"interval_id"`
	GuardID      string  `json:"guard_id"`
	WorkDate     string  `json:"work_date"`
	CheckInTime  string  `json:"check_in_time"`
	CheckOutTime *string `json:"check_out_time,omitempty"`
	HoursWorked  string  `json:"hours_worked"`
	Open         bool    `json:"open"`
}

// ReconcileResponse 对账结果响应
type ReconcileResponse struct {
	Created   int                          `json:"created"`
	Intervals []AttendanceIntervalResponse `json:"intervals"`
}
