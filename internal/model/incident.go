package model

// ── 事件工单状态常量 ──

const (
	IncidentStatusReported   = "Reported"
	IncidentStatusInProgress = "InProgress"
	IncidentStatusResolved   = "Resolved"
)

// Incident 事件工单表 — 对应 incidents
// 住户提交，负责人（director）处理；状态变更时通知住户
type Incident struct {
	IncidentID  string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"incident_id"`
	ResidentID  string `gorm:"type:uuid;not null;index"                       json:"resident_id"`
	Reference   string `gorm:"type:varchar(20);not null;uniqueIndex"          json:"reference"` // INC-000001
	Title       string `gorm:"type:varchar(200);not null"                     json:"title"`
	Description string `gorm:"type:text;not null"                             json:"description"`
	Location    string `gorm:"type:varchar(200)"                              json:"location,omitempty"`
	Status      string `gorm:"type:varchar(20);not null;default:'Reported'"   json:"status"` // Reported | InProgress | Resolved
	SoftDeleteModel

	// 关联
	Resident *User `gorm:"foreignKey:ResidentID;references:UserID" json:"resident,omitempty"`
}

// TableName 指定表名
func (Incident) TableName() string { return "incidents" }
