package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/Sfundo03/PiranaSecuritySystem-sub000/internal/model"
)

// TrainingRepository 培训数据访问接口
type TrainingRepository interface {
	CreateSession(ctx context.Context, session *model.TrainingSession) error
	GetSession(ctx context.Context, id string) (*model.TrainingSession, error)
	ListSessions(ctx context.Context, offset, limit int) ([]model.TrainingSession, int64, error)
	ListSessionsByInstructor(ctx context.Context, instructorID string) ([]model.TrainingSession, error)
	ListSessionsByGuard(ctx context.Context, guardID string) ([]model.TrainingSession, error)
	CreateEnrollment(ctx context.Context, enrollment *model.TrainingEnrollment) error
	CountEnrollments(ctx context.Context, sessionID string) (int64, error)
}

// trainingRepo TrainingRepository 的 GORM 实现
type trainingRepo struct {
	db *gorm.DB
}

// NewTrainingRepo 创建 TrainingRepository 实例
func NewTrainingRepo(db *gorm.DB) TrainingRepository {
	return &trainingRepo{db: db}
}

func (r *trainingRepo) CreateSession(ctx context.Context, session *model.TrainingSession) error {
	return translateErr(r.db.WithContext(ctx).Create(session).Error)
}

func (r *trainingRepo) GetSession(ctx context.Context, id string) (*model.TrainingSession, error) {
	var session model.TrainingSession
	err := r.db.WithContext(ctx).
		Preload("Instructor").
		Preload("Enrollments").
		Preload("Enrollments.Guard").
		Where("session_id = ?", id).
		First(&session).Error
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *trainingRepo) ListSessions(ctx context.Context, offset, limit int) ([]model.TrainingSession, int64, error) {
	var sessions []model.TrainingSession
	var total int64

	db := r.db.WithContext(ctx).Model(&model.TrainingSession{})

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := db.Preload("Instructor").
		Offset(offset).Limit(limit).
		Order("session_date DESC").
		Find(&sessions).Error; err != nil {
		return nil, 0, err
	}

	return sessions, total, nil
}

func (r *trainingRepo) ListSessionsByInstructor(ctx context.Context, instructorID string) ([]model.TrainingSession, error) {
	var sessions []model.TrainingSession
	err := r.db.WithContext(ctx).
		Where("instructor_id = ?", instructorID).
		Order("session_date DESC").
		Find(&sessions).Error
	return sessions, err
}

func (r *trainingRepo) ListSessionsByGuard(ctx context.Context, guardID string) ([]model.TrainingSession, error) {
	var sessions []model.TrainingSession
	err := r.db.WithContext(ctx).
		Joins("JOIN training_enrollments ON training_enrollments.session_id = training_sessions.session_id").
		Where("training_enrollments.guard_id = ?", guardID).
		Order("training_sessions.session_date DESC").
		Find(&sessions).Error
	return sessions, err
}

// CreateEnrollment 插入报名记录
// 唯一索引 (session_id, guard_id) 冲突时返回 apperrors.ErrConflict
func (r *trainingRepo) CreateEnrollment(ctx context.Context, enrollment *model.TrainingEnrollment) error {
	return translateErr(r.db.WithContext(ctx).Create(enrollment).Error)
}

func (r *trainingRepo) CountEnrollments(ctx context.Context, sessionID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.TrainingEnrollment{}).
		Where("session_id = ?", sessionID).
		Count(&count).Error
	return count, err
}
