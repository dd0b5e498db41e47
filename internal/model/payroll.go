package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// GuardRate 保安时薪表 — 对应 guard_rates
// 同一保安任一时刻至多一条 is_active=true（由 RateService 在激活时事务性维护）
type GuardRate struct {
	RateID        string          `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"rate_id"`
	GuardID       string          `gorm:"type:uuid;not null;index"                       json:"guard_id"`
	HourlyRate    decimal.Decimal `gorm:"type:decimal(12,2);not null"                    json:"hourly_rate"`
	EffectiveDate time.Time       `gorm:"type:date;not null"                             json:"effective_date"`
	IsActive      bool            `gorm:"not null;default:true"                          json:"is_active"`
	BaseModel

	// 关联
	Guard *User `gorm:"foreignKey:GuardID;references:UserID" json:"guard,omitempty"`
}

// TableName 指定表名
func (GuardRate) TableName() string { return "guard_rates" }

// TaxConfiguration 税率配置表 — 对应 tax_configurations
// 全系统同一时刻仅一条 is_active=true；不存在时由 PayrollService 懒生成
// 默认 15% 配置。TaxThreshold 仅存档，计算时对全额计税（与历史行为一致）。
type TaxConfiguration struct {
	TaxConfigID   string          `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"tax_config_id"`
	TaxPercentage decimal.Decimal `gorm:"type:decimal(5,2);not null"                     json:"tax_percentage"`
	TaxThreshold  decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"          json:"tax_threshold"`
	IsActive      bool            `gorm:"not null;default:true"                          json:"is_active"`
	BaseModel
}

// TableName 指定表名
func (TaxConfiguration) TableName() string { return "tax_configurations" }

// ── 工资单状态 ──

const PayrollStatusProcessed = "Processed"

// Payroll 工资单表 — 对应 payrolls
// 唯一索引 (guard_id, period_year, period_month) 保证同一保安每自然月
// 至多一条工资单（数据库层兜底，应用层预检查仅用于友好报错）。
// 金额全程 decimal 计算：gross = hours × rate，tax = gross × pct / 100，
// net = gross − tax。生成后不随考勤变更自动重算。
type Payroll struct {
	PayrollID   string          `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"                      json:"payroll_id"`
	GuardID     string          `gorm:"type:uuid;not null;uniqueIndex:uq_payrolls_guard_period"             json:"guard_id"`
	PeriodStart time.Time       `gorm:"type:date;not null"                                                  json:"period_start"`
	PeriodEnd   time.Time       `gorm:"type:date;not null"                                                  json:"period_end"`
	PeriodYear  int             `gorm:"type:smallint;not null;uniqueIndex:uq_payrolls_guard_period"         json:"period_year"`
	PeriodMonth int             `gorm:"type:smallint;not null;uniqueIndex:uq_payrolls_guard_period"         json:"period_month"`
	TotalHours  decimal.Decimal `gorm:"type:decimal(8,2);not null"                                          json:"total_hours"`
	HourlyRate  decimal.Decimal `gorm:"type:decimal(12,2);not null"                                         json:"hourly_rate"`
	GrossPay    decimal.Decimal `gorm:"type:decimal(12,2);not null"                                         json:"gross_pay"`
	TaxAmount   decimal.Decimal `gorm:"type:decimal(12,2);not null"                                         json:"tax_amount"`
	NetPay      decimal.Decimal `gorm:"type:decimal(12,2);not null"                                         json:"net_pay"`
	Status      string          `gorm:"type:varchar(20);not null;default:'Processed'"                       json:"status"`
	BaseModel

	// 关联
	Guard *User `gorm:"foreignKey:GuardID;references:UserID" json:"guard,omitempty"`
}

// TableName 指定表名
func (Payroll) TableName() string { return "payrolls" }
