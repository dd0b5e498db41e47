package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/Sfundo03/PiranaSecuritySystem-sub000/internal/model"
)

// AttendanceIntervalRepository 考勤区间数据访问接口
type AttendanceIntervalRepository interface {
	Create(ctx context.Context, interval *model.AttendanceInterval) error
	Update(ctx context.Context, interval *model.AttendanceInterval) error
	GetByCheckInEvent(ctx context.Context, eventID string) (*model.AttendanceInterval, error)
	ListByGuardBetween(ctx context.Context, guardID string, from, to time.Time) ([]model.AttendanceInterval, error)
	ListClosedByGuardBetween(ctx context.Context, guardID string, from, to time.Time) ([]model.AttendanceInterval, error)
}

// attendanceIntervalRepo AttendanceIntervalRepository 的 GORM 实现
type attendanceIntervalRepo struct {
	db *gorm.DB
}

// NewAttendanceIntervalRepo 创建 AttendanceIntervalRepository 实例
func NewAttendanceIntervalRepo(db *gorm.DB) AttendanceIntervalRepository {
	return &attendanceIntervalRepo{db: db}
}

func (r *attendanceIntervalRepo) Create(ctx context.Context, interval *model.AttendanceInterval) error {
	return translateErr(r.db.WithContext(ctx).Create(interval).Error)
}

func (r *attendanceIntervalRepo) Update(ctx context.Context, interval *model.AttendanceInterval) error {
	return r.db.WithContext(ctx).Save(interval).Error
}

func (r *attendanceIntervalRepo) GetByCheckInEvent(ctx context.Context, eventID string) (*model.AttendanceInterval, error) {
	var interval model.AttendanceInterval
	err := r.db.WithContext(ctx).
		Where("check_in_event_id = ?", eventID).
		First(&interval).Error
	if err != nil {
		return nil, err
	}
	return &interval, nil
}

func (r *attendanceIntervalRepo) ListByGuardBetween(ctx context.Context, guardID string, from, to time.Time) ([]model.AttendanceInterval, error) {
	var intervals []model.AttendanceInterval
	err := r.db.WithContext(ctx).
		Where("guard_id = ? AND work_date >= ? AND work_date <= ?", guardID, from, to).
		Order("check_in_time ASC").
		Find(&intervals).Error
	return intervals, err
}

// ListClosedByGuardBetween 仅查询已闭合区间（工资计算只统计已闭合工时）
func (r *attendanceIntervalRepo) ListClosedByGuardBetween(ctx context.Context, guardID string, from, to time.Time) ([]model.AttendanceInterval, error) {
	var intervals []model.AttendanceInterval
	err := r.db.WithContext(ctx).
		Where("guard_id = ? AND work_date >= ? AND work_date <= ? AND check_out_time IS NOT NULL",
			guardID, from, to).
		Order("check_in_time ASC").
		Find(&intervals).Error
	return intervals, err
}
