package model

// ── 通知类型常量 ──

const (
	NotifyTypeRegister = "register"
	NotifyTypeIncident = "incident"
	NotifyTypePayroll  = "payroll"
	NotifyTypeRoster   = "roster"
	NotifyTypeTraining = "training"
)

// Notification 通知消息表 — 对应 notifications
// 由其他模块生命周期事件派生（注册、事件工单、工资单、排班）；
// 创建后仅 is_read 可翻转
type Notification struct {
	NotificationID string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"notification_id"`
	UserID         string  `gorm:"type:uuid;not null;index"                       json:"user_id"`
	Type           string  `gorm:"type:varchar(50);not null"                      json:"type"`
	Message        string  `gorm:"type:text;not null"                             json:"message"`
	IsRead         bool    `gorm:"not null;default:false"                         json:"is_read"`
	RelatedURL     *string `gorm:"type:varchar(255)"                              json:"related_url,omitempty"`
	SoftDeleteModel
}

// TableName 指定表名
func (Notification) TableName() string { return "notifications" }
