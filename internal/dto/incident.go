package dto

// ── 事件工单模块请求 ──

// CreateIncidentRequest 住户提交事件工单请求
type CreateIncidentRequest struct {
	Title       string `json:"title"       binding:"required,max=200"`
	Description string `json:"description" binding:"required"`
	Location    string `json:"location"    binding:"omitempty,max=200"`
}

// UpdateIncidentStatusRequest 负责人更新工单状态请求
type UpdateIncidentStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=Reported InProgress Resolved"`
}

// IncidentListRequest 工单列表查询参数
type IncidentListRequest struct {
	PaginationRequest
	Status string `form:"status" binding:"omitempty,oneof=Reported InProgress Resolved"`
}

// ── 事件工单模块响应 ──

// IncidentResponse 工单响应
type IncidentResponse struct {
	IncidentID   string `json:"incident_id"`
	Reference    string `json:"reference"`
	ResidentID   string `json:"resident_id"`
	ResidentName string `json:"resident_name,omitempty"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	Location     string `json:"location,omitempty"`
	Status       string `json:"status"`
	CreatedAt    string `json:"created_at"`
}
