package model

import "time"

// TrainingSession 培训场次表 — 对应 training_sessions
// 教官创建，招录保安形成培训名册
type TrainingSession struct {
	SessionID    string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"session_id"`
	InstructorID string    `gorm:"type:uuid;not null;index"                       json:"instructor_id"`
	Title        string    `gorm:"type:varchar(200);not null"                     json:"title"`
	Site         string    `gorm:"type:varchar(100);not null"                     json:"site"`
	SessionDate  time.Time `gorm:"type:date;not null"                             json:"session_date"`
	Capacity     int       `gorm:"type:smallint;not null;default:12"              json:"capacity"`
	SoftDeleteModel

	// 关联
	Instructor  *User                `gorm:"foreignKey:InstructorID;references:UserID" json:"instructor,omitempty"`
	Enrollments []TrainingEnrollment `gorm:"foreignKey:SessionID"                      json:"enrollments,omitempty"`
}

// TableName 指定表名
func (TrainingSession) TableName() string { return "training_sessions" }

// TrainingEnrollment 培训报名表 — 对应 training_enrollments
// 唯一索引 (session_id, guard_id)：同一保安同一场次仅可报名一次
type TrainingEnrollment struct {
	EnrollmentID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"           json:"enrollment_id"`
	SessionID    string `gorm:"type:uuid;not null;uniqueIndex:uq_enrollments_session_guard" json:"session_id"`
	GuardID      string `gorm:"type:uuid;not null;uniqueIndex:uq_enrollments_session_guard" json:"guard_id"`
	BaseModel

	// 关联
	Guard *User `gorm:"foreignKey:GuardID;references:UserID" json:"guard,omitempty"`
}

// TableName 指定表名
func (TrainingEnrollment) TableName() string { return "training_enrollments" }
