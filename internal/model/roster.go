package model

import "time"

// ── 班次类型常量 ──

const (
	ShiftTypeDay   = "Day"
	ShiftTypeNight = "Night"
	ShiftTypeOff   = "Off"
)

// ShiftRoster 排班表 — 对应 shift_rosters
// 唯一索引 (roster_date, site)：同一站点同一天仅一张排班表（数据库层兜底）
type ShiftRoster struct {
	RosterID   string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"          json:"roster_id"`
	RosterDate time.Time `gorm:"type:date;not null;uniqueIndex:uq_rosters_date_site"     json:"roster_date"`
	Site       string    `gorm:"type:varchar(100);not null;uniqueIndex:uq_rosters_date_site" json:"site"`
	BaseModel

	// 关联
	Shifts []Shift `gorm:"foreignKey:RosterID" json:"shifts,omitempty"`
}

// TableName 指定表名
func (ShiftRoster) TableName() string { return "shift_rosters" }

// Shift 班次明细表 — 对应 shifts
// 每张排班表固定 12 条：Day / Night / Off 各 4 条
type Shift struct {
	ShiftID   string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"shift_id"`
	RosterID  string `gorm:"type:uuid;not null;index"                       json:"roster_id"`
	GuardID   string `gorm:"type:uuid;not null;index"                       json:"guard_id"`
	ShiftType string `gorm:"type:varchar(10);not null"                      json:"shift_type"` // Day | Night | Off
	BaseModel

	// 关联
	Roster *ShiftRoster `gorm:"foreignKey:RosterID;references:RosterID" json:"roster,omitempty"`
	Guard  *User        `gorm:"foreignKey:GuardID;references:UserID"    json:"guard,omitempty"`
}

// TableName 指定表名
func (Shift) TableName() string { return "shifts" }
