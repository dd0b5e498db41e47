package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Sfundo03/PiranaSecuritySystem-sub000/internal/dto"
	"github.com/Sfundo03/PiranaSecuritySystem-sub000/internal/model"
	"github.com/Sfundo03/PiranaSecuritySystem-sub000/internal/repository"
	apperrors "github.com/Sfundo03/PiranaSecuritySystem-sub000/pkg/errors"
)

// ── 培训模块业务错误 ──

var (
	ErrSessionNotFound   = errors.New("培训场次不存在")
	ErrSessionFull       = errors.New("培训场次已满员")
	ErrAlreadyEnrolled   = errors.New("该保安已报名该场次")
	ErrSessionPassed     = errors.New("培训场次已结束")
	ErrInvalidSessionDay = errors.New("培训日期无效")
)

// defaultSessionCapacity 默认场次容量与一个排班组总人数一致
const defaultSessionCapacity = 12

// TrainingService 培训业务接口
type TrainingService interface {
	// CreateSession 教官创建培训场次并通知全体保安
	CreateSession(ctx context.Context, req *dto.CreateSessionRequest, instructorID string) (*dto.SessionResponse, error)
	GetSession(ctx context.Context, sessionID string) (*dto.SessionResponse, error)
	ListSessions(ctx context.Context, page *dto.PaginationRequest) ([]dto.SessionResponse, int64, error)
	// ListByInstructor 教官名下场次
	ListByInstructor(ctx context.Context, instructorID string) ([]dto.SessionResponse, error)
	// ListByGuard 保安已报名场次
	ListByGuard(ctx context.Context, guardID string) ([]dto.SessionResponse, error)
	// Enroll 保安报名：容量满或重复报名报错，重复报名由数据库唯一键兜底
	Enroll(ctx context.Context, sessionID string, req *dto.EnrollRequest) (*dto.EnrollmentResponse, error)
}

type trainingService struct {
	repo     *repository.Repository
	notifier NotificationService
	logger   *zap.Logger
}

// NewTrainingService 创建 TrainingService 实例
func NewTrainingService(repo *repository.Repository, notifier NotificationService, logger *zap.Logger) TrainingService {
	return &trainingService{repo: repo, notifier: notifier, logger: logger}
}

func (s *trainingService) CreateSession(ctx context.Context, req *dto.CreateSessionRequest, instructorID string) (*dto.SessionResponse, error) {
	day, err := time.Parse("2006-01-02", req.SessionDate)
	if err != nil {
		return nil, ErrInvalidSessionDay
	}
	if day.Before(dateOf(time.Now())) {
		return nil, ErrInvalidSessionDay
	}

	capacity := req.Capacity
	if capacity == 0 {
		capacity = defaultSessionCapacity
	}

	session := &model.TrainingSession{
		InstructorID: instructorID,
		Title:        req.Title,
		Site:         req.Site,
		SessionDate:  day,
		Capacity:     capacity,
	}
	if err := s.repo.Training.CreateSession(ctx, session); err != nil {
		s.logger.Error("写入培训场次失败", zap.String("instructor_id", instructorID), zap.Error(err))
		return nil, err
	}

	url := "/training/sessions/" + session.SessionID
	msg := fmt.Sprintf("新培训场次「%s」：%s %s，名额 %d 人", req.Title, req.SessionDate, req.Site, capacity)
	if err := s.notifier.NotifyRole(ctx, model.RoleGuard, model.NotifyTypeTraining, msg, &url); err != nil {
		s.logger.Warn("培训通知发送失败", zap.String("session_id", session.SessionID), zap.Error(err))
	}

	resp := toSessionResponse(session, 0)
	return &resp, nil
}

func (s *trainingService) GetSession(ctx context.Context, sessionID string) (*dto.SessionResponse, error) {
	session, err := s.repo.Training.GetSession(ctx, sessionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	resp := toSessionResponse(session, len(session.Enrollments))
	return &resp, nil
}

func (s *trainingService) ListSessions(ctx context.Context, page *dto.PaginationRequest) ([]dto.SessionResponse, int64, error) {
	sessions, total, err := s.repo.Training.ListSessions(ctx, page.GetOffset(), page.GetPageSize())
	if err != nil {
		s.logger.Error("查询培训场次失败", zap.Error(err))
		return nil, 0, err
	}
	return s.toSessionList(ctx, sessions), total, nil
}

func (s *trainingService) ListByInstructor(ctx context.Context, instructorID string) ([]dto.SessionResponse, error) {
	sessions, err := s.repo.Training.ListSessionsByInstructor(ctx, instructorID)
	if err != nil {
		s.logger.Error("查询教官场次失败", zap.Error(err))
		return nil, err
	}
	return s.toSessionList(ctx, sessions), nil
}

func (s *trainingService) ListByGuard(ctx context.Context, guardID string) ([]dto.SessionResponse, error) {
	sessions, err := s.repo.Training.ListSessionsByGuard(ctx, guardID)
	if err != nil {
		s.logger.Error("查询保安培训失败", zap.Error(err))
		return nil, err
	}
	return s.toSessionList(ctx, sessions), nil
}

func (s *trainingService) Enroll(ctx context.Context, sessionID string, req *dto.EnrollRequest) (*dto.EnrollmentResponse, error) {
	session, err := s.repo.Training.GetSession(ctx, sessionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	if session.SessionDate.Before(dateOf(time.Now())) {
		return nil, ErrSessionPassed
	}

	guard, err := s.repo.User.GetByID(ctx, req.GuardID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGuardNotFound
		}
		return nil, err
	}
	if guard.Role != model.RoleGuard {
		return nil, ErrNotAGuard
	}
	if !guard.IsActive {
		return nil, ErrGuardInactive
	}

	enrolled, err := s.repo.Training.CountEnrollments(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if enrolled >= int64(session.Capacity) {
		return nil, ErrSessionFull
	}

	enrollment := &model.TrainingEnrollment{
		SessionID: sessionID,
		GuardID:   req.GuardID,
	}
	if err := s.repo.Training.CreateEnrollment(ctx, enrollment); err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			return nil, ErrAlreadyEnrolled
		}
		s.logger.Error("写入报名记录失败", zap.String("session_id", sessionID), zap.Error(err))
		return nil, err
	}

	url := "/training/sessions/" + sessionID
	msg := fmt.Sprintf("您已成功报名培训「%s」（%s）", session.Title, session.SessionDate.Format("2006-01-02"))
	if err := s.notifier.Notify(ctx, req.GuardID, model.NotifyTypeTraining, msg, &url); err != nil {
		s.logger.Warn("报名通知发送失败", zap.String("session_id", sessionID), zap.Error(err))
	}

	return &dto.EnrollmentResponse{
		EnrollmentID: enrollment.EnrollmentID,
		SessionID:    sessionID,
		GuardID:      req.GuardID,
		GuardName:    guard.FullName(),
	}, nil
}

// ── 辅助函数 ──

func (s *trainingService) toSessionList(ctx context.Context, sessions []model.TrainingSession) []dto.SessionResponse {
	result := make([]dto.SessionResponse, 0, len(sessions))
	for i := range sessions {
		enrolled, err := s.repo.Training.CountEnrollments(ctx, sessions[i].SessionID)
		if err != nil {
			s.logger.Warn("统计报名人数失败", zap.String("session_id", sessions[i].SessionID), zap.Error(err))
		}
		result = append(result, toSessionResponse(&sessions[i], int(enrolled)))
	}
	return result
}

func toSessionResponse(t *model.TrainingSession, enrolled int) dto.SessionResponse {
	resp := dto.SessionResponse{
		SessionID:    t.SessionID,
		InstructorID: t.InstructorID,
		Title:        t.Title,
		Site:         t.Site,
		SessionDate:  t.SessionDate.Format("2006-01-02"),
		Capacity:     t.Capacity,
		Enrolled:     enrolled,
	}
	if t.Instructor != nil {
		resp.InstructorName = t.Instructor.FullName()
	}
	return resp
}
