package model

// ── 角色常量 ──

const (
	RoleDirector   = "director"
	RoleGuard      = "guard"
	RoleInstructor = "instructor"
	RoleResident   = "resident"
)

// User 用户表 — 对应 users
// 四种角色共用一张表：director / guard / instructor / resident。
// 保安专属字段（Site / BadgeNumber）对其他角色为 NULL。
type User struct {
	UserID       string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"user_id"`
	FirstName    string  `gorm:"type:varchar(50);not null"                      json:"first_name"`
	LastName     string  `gorm:"type:varchar(50);not null"                      json:"last_name"`
	Email        string  `gorm:"type:varchar(255);not null"                     json:"email"`
	Phone        string  `gorm:"type:varchar(20)"                               json:"phone,omitempty"`
	PasswordHash string  `gorm:"type:varchar(255);not null"                     json:"-"`
	Role         string  `gorm:"type:varchar(20);not null;default:'resident'"   json:"role"`
	Site         *string `gorm:"type:varchar(100)"                              json:"site,omitempty"`
	BadgeNumber  *string `gorm:"type:varchar(30)"                               json:"badge_number,omitempty"`
	IsActive     bool    `gorm:"not null;default:true"                          json:"is_active"`
	VersionedModel
}

// TableName 指定表名
func (User) TableName() string { return "users" }

// FullName 拼接显示姓名（CSV 导出等场景使用）
func (u *User) FullName() string { return u.FirstName + " " + u.LastName }
