package handler

import "github.com/Sfundo03/PiranaSecuritySystem-sub000/internal/service"

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Auth         *AuthHandler
	User         *UserHandler
	Attendance   *AttendanceHandler
	Payroll      *PayrollHandler
	Roster       *RosterHandler
	Incident     *IncidentHandler
	Training     *TrainingHandler
	Notification *NotificationHandler
	Export       *ExportHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Auth:         NewAuthHandler(svc.Auth),
		User:         NewUserHandler(svc.User),
		Attendance:   NewAttendanceHandler(svc.Attendance),
		Payroll:      NewPayrollHandler(svc.Payroll, svc.Rate),
		Roster:       NewRosterHandler(svc.Roster),
		Incident:     NewIncidentHandler(svc.Incident),
		Training:     NewTrainingHandler(svc.Training),
		Notification: NewNotificationHandler(svc.Notification),
		Export:       NewExportHandler(svc.Export),
	}
}
