package dto

// ── 培训模块请求 ──

// CreateSessionRequest 教官创建培训场次请求
type CreateSessionRequest struct {
	Title       string `json:"title"        binding:"required,max=200"`
	Site        string `json:"site"         binding:"required,max=100"`
	SessionDate string `json:"session_date" binding:"required,datetime=2006-01-02"`
	Capacity    int    `json:"capacity"     binding:"omitempty,min=1,max=100"`
}

// EnrollRequest 培训报名请求
type EnrollRequest struct {
	GuardID string `json:"guard_id" binding:"required,uuid"`
}

// ── 培训模块响应 ──

// SessionResponse 培训场次响应
type SessionResponse struct {
	SessionID      string `json:"session_id"`
	InstructorID   string `json:"instructor_id"`
	InstructorName string `json:"instructor_name,omitempty"`
	Title          string `json:"title"`
	Site           string `json:"site"`
	SessionDate    string `json:"session_date"`
	Capacity       int    `json:"capacity"`
	Enrolled       int    `json:"enrolled"`
}

// EnrollmentResponse 报名记录响应
type EnrollmentResponse struct {
	EnrollmentID string `json:"enrollment_id"`
	SessionID    string `json:"session_id"`
	GuardID      string `json:"guard_id"`
	GuardName    string `json:"guard_name,omitempty"`
}
