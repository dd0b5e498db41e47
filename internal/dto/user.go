package dto

// ── 用户模块请求 ──

// CreateStaffRequest 负责人创建员工账号请求（guard / instructor / director）
type CreateStaffRequest struct {
	FirstName   string `json:"first_name"   binding:"required,max=50"`
	LastName    string `json:"last_name"    binding:"required,max=50"`
	Email       string `json:"email"        binding:"required,email"`
	Phone       string `json:"phone"        binding:"omitempty,max=20"`
	Password    string `json:"password"     binding:"required,min=8"`
	Role        string `json:"role"         binding:"required,oneof=guard instructor director"`
	Site        string `json:"site"         binding:"omitempty,max=100"`
	BadgeNumber string `json:"badge_number" binding:"omitempty,max=30"`
}

// UpdateUserRequest 更新用户信息请求
type UpdateUserRequest struct {
	FirstName string  `json:"first_name" binding:"omitempty,max=50"`
	LastName  string  `json:"last_name"  binding:"omitempty,max=50"`
	Phone     string  `json:"phone"      binding:"omitempty,max=20"`
	Site      *string `json:"site"       binding:"omitempty"`
}

// UserListRequest 用户列表查询参数
type UserListRequest struct {
	PaginationRequest
	Role string `form:"role" binding:"omitempty,oneof=director guard instructor resident"`
}

// ── 用户模块响应 ──

// UserResponse 用户信息响应（脱敏）
type UserResponse struct {
	ID          string  `json:"id"`
	FirstName   string  `json:"first_name"`
	LastName    string  `json:"last_name"`
	Email       string  `json:"email"`
	Phone       string  `json:"phone,omitempty"`
	Role        string  `json:"role"`
	Site        *string `json:"site,omitempty"`
	BadgeNumber *string `json:"badge_number,omitempty"`
	IsActive    bool    `json:"is_active"`
}
