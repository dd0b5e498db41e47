package service

import (
	"go.uber.org/zap"

	"github.com/Sfundo03/PiranaSecuritySystem-sub000/config"
	"github.com/Sfundo03/PiranaSecuritySystem-sub000/internal/repository"
	"github.com/Sfundo03/PiranaSecuritySystem-sub000/pkg/jwt"
	"github.com/Sfundo03/PiranaSecuritySystem-sub000/pkg/redis"
)

// Service 业务层聚合
type Service struct {
	Auth         AuthService
	User         UserService
	Attendance   AttendanceService
	Rate         RateService
	Payroll      PayrollService
	Roster       RosterService
	Incident     IncidentService
	Training     TrainingService
	Notification NotificationService
	Export       ExportService
}

// NewService 按依赖顺序装配全部业务服务
// rdb 允许为 nil（开发环境无 Redis 时 Token 黑名单与限流降级）
func NewService(cfg *config.Config, repo *repository.Repository, jwtMgr *jwt.Manager, rdb *redis.Client, logger *zap.Logger) *Service {
	notifier := NewNotificationService(repo, logger)

	return &Service{
		Auth:         NewAuthService(cfg, repo, jwtMgr, rdb, notifier, logger),
		User:         NewUserService(repo, logger),
		Attendance:   NewAttendanceService(cfg, repo, logger),
		Rate:         NewRateService(repo, logger),
		Payroll:      NewPayrollService(cfg, repo, notifier, logger),
		Roster:       NewRosterService(repo, notifier, logger),
		Incident:     NewIncidentService(repo, notifier, logger),
		Training:     NewTrainingService(repo, notifier, logger),
		Notification: notifier,
		Export:       NewExportService(repo, logger),
	}
}
