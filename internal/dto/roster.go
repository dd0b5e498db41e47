package dto

// ── 排班模块请求 ──

// GenerateRosterRequest 生成排班表请求
// GuardIDs 必须恰好 12 人；默认按传入顺序 4/4/4 切分（前 4 白班、次 4
// 夜班、末 4 轮休），Shuffle=true 时先随机打乱再切分
type GenerateRosterRequest struct {
	RosterDate string   `json:"roster_date" binding:"required,datetime=2006-01-02"`
	Site       string   `json:"site"        binding:"required,max=100"`
	GuardIDs   []string `json:"guard_ids"   binding:"required,dive,uuid"`
	Shuffle    bool     `json:"shuffle"`
}

// RosterQueryRequest 按日期查询排班表参数
type RosterQueryRequest struct {
	Date string `form:"date" binding:"required,datetime=2006-01-02"`
	Site string `form:"site" binding:"omitempty,max=100"`
}

// ── 排班模块响应 ──

// ShiftResponse 班次响应
type ShiftResponse struct {
	ShiftID   string `json:"shift_id"`
	GuardID   string `json:"guard_id"`
	GuardName string `json:"guard_name,omitempty"`
	ShiftType string `json:"shift_type"`
}

// RosterResponse 排班表响应
type RosterResponse struct {
	RosterID   string          `json:"roster_id"`
	RosterDate string          `json:"roster_date"`
	Site       string          `json:"site"`
	Shifts     []ShiftResponse `json:"shifts"`
}
