package repository

import (
	"errors"

	"gorm.io/gorm"

	apperrors "github.com/Sfundo03/PiranaSecuritySystem-sub000/pkg/errors"
)

// Repository 所有 Repository 的聚合入口
type Repository struct {
	User         UserRepository
	CheckInEvent CheckInEventRepository
	Attendance   AttendanceIntervalRepository
	GuardRate    GuardRateRepository
	TaxConfig    TaxConfigRepository
	Payroll      PayrollRepository
	Roster       RosterRepository
	Incident     IncidentRepository
	Training     TrainingRepository
	Notification NotificationRepository
}

// NewRepository 创建 Repository 聚合
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		User:         NewUserRepo(db),
		CheckInEvent: NewCheckInEventRepo(db),
		Attendance:   NewAttendanceIntervalRepo(db),
		GuardRate:    NewGuardRateRepo(db),
		TaxConfig:    NewTaxConfigRepo(db),
		Payroll:      NewPayrollRepo(db),
		Roster:       NewRosterRepo(db),
		Incident:     NewIncidentRepo(db),
		Training:     NewTrainingRepo(db),
		Notification: NewNotificationRepo(db),
	}
}

// translateErr 统一翻译 GORM 错误
// 唯一约束冲突（依赖 gorm.Config.TranslateError）包装为 apperrors.ErrConflict，
// 供 Service 层 errors.Is 判定后转换为业务错误
func translateErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return apperrors.ErrConflict
	}
	return err
}
