package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// ── 签到事件类型 / 状态常量 ──

const (
	CheckKindIn  = "check_in"
	CheckKindOut = "check_out"

	CheckStatusPresent    = "Present"
	CheckStatusCheckedOut = "Checked Out"
)

// CheckInEvent 签到事件表 — 对应 check_in_events
// 追加写入的原始事件日志：创建后不可修改，仅 Reconciled 标记由对账流程翻转。
type CheckInEvent struct {
	EventID    string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"event_id"`
	GuardID    string    `gorm:"type:uuid;not null;index"                       json:"guard_id"`
	OccurredAt time.Time `gorm:"type:timestamptz;not null"                      json:"occurred_at"`
	Kind       string    `gorm:"type:varchar(10);not null"                      json:"kind"`   // check_in | check_out
	Status     string    `gorm:"type:varchar(20);not null"                      json:"status"` // Present | Checked Out
	RosterID   *string   `gorm:"type:uuid"                                      json:"roster_id,omitempty"`
	Reconciled bool      `gorm:"not null;default:false"                         json:"reconciled"`
	CreatedAt  time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"created_at"`

	// 关联
	Guard *User `gorm:"foreignKey:GuardID;references:UserID" json:"guard,omitempty"`
}

// TableName 指定表名
func (CheckInEvent) TableName() string { return "check_in_events" }

// AttendanceInterval 考勤区间表 — 对应 attendance_intervals
// 由对账流程从签到事件推导：同一保安、同一日期的 check_in 与其后最近的
// check_out 配对。CheckOutTime 为 NULL 表示区间未闭合，HoursWorked 为 0。
// CheckInEventID 唯一约束保证对账重跑幂等。
type AttendanceInterval struct {
	IntervalID      string          `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"interval_id"`
	GuardID         string          `gorm:"type:uuid;not null;index"                       json:"guard_id"`
	WorkDate        time.Time       `gorm:"type:date;not null;index"                       json:"work_date"`
	CheckInTime     time.Time       `gorm:"type:timestamptz;not null"                      json:"check_in_time"`
	CheckOutTime    *time.Time      `gorm:"type:timestamptz"                               json:"check_out_time,omitempty"`
	HoursWorked     decimal.Decimal `gorm:"type:decimal(6,2);not null;default:0"           json:"hours_worked"`
	CheckInEventID  string          `gorm:"type:uuid;not null;uniqueIndex"                 json:"check_in_event_id"`
	CheckOutEventID *string         `gorm:"type:uuid"                                      json:"check_out_event_id,omitempty"`
	BaseModel

	// 关联
	Guard *User `gorm:"foreignKey:GuardID;references:UserID" json:"guard,omitempty"`
}

// TableName 指定表名
func (AttendanceInterval) TableName() string { return "attendance_intervals" }
