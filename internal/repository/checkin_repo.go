package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/Sfundo03/PiranaSecuritySystem-sub000/internal/model"
)

// CheckInEventRepository 签到事件数据访问接口
// 事件日志为追加写入：除 reconciled 标记外不提供任何更新操作
type CheckInEventRepository interface {
	Create(ctx context.Context, event *model.CheckInEvent) error
	ListByGuardBetween(ctx context.Context, guardID string, from, to time.Time) ([]model.CheckInEvent, error)
	ListUnreconciledCheckIns(ctx context.Context, guardID string, from, to time.Time) ([]model.CheckInEvent, error)
	ListBetween(ctx context.Context, from, to time.Time) ([]model.CheckInEvent, error)
	MarkReconciled(ctx context.Context, eventIDs []string) error
}

// checkInEventRepo CheckInEventRepository 的 GORM 实现
type checkInEventRepo struct {
	db *gorm.DB
}

// NewCheckInEventRepo 创建 CheckInEventRepository 实例
func NewCheckInEventRepo(db *gorm.DB) CheckInEventRepository {
	return &checkInEventRepo{db: db}
}

func (r *checkInEventRepo) Create(ctx context.Context, event *model.CheckInEvent) error {
	return translateErr(r.db.WithContext(ctx).Create(event).Error)
}

func (r *checkInEventRepo) ListByGuardBetween(ctx context.Context, guardID string, from, to time.Time) ([]model.CheckInEvent, error) {
	var events []model.CheckInEvent
	err := r.db.WithContext(ctx).
		Where("guard_id = ? AND occurred_at >= ? AND occurred_at < ?", guardID, from, to).
		Order("occurred_at ASC").
		Find(&events).Error
	return events, err
}

// ListUnreconciledCheckIns 查询尚未生成考勤区间的 check_in 事件（对账输入）
func (r *checkInEventRepo) ListUnreconciledCheckIns(ctx context.Context, guardID string, from, to time.Time) ([]model.CheckInEvent, error) {
	var events []model.CheckInEvent
	err := r.db.WithContext(ctx).
		Where("guard_id = ? AND kind = ? AND reconciled = false AND occurred_at >= ? AND occurred_at < ?",
			guardID, model.CheckKindIn, from, to).
		Order("occurred_at ASC").
		Find(&events).Error
	return events, err
}

// ListBetween 查询区间内全部事件（含保安信息，CSV 导出使用）
func (r *checkInEventRepo) ListBetween(ctx context.Context, from, to time.Time) ([]model.CheckInEvent, error) {
	var events []model.CheckInEvent
	err := r.db.WithContext(ctx).
		Preload("Guard").
		Where("occurred_at >= ? AND occurred_at < ?", from, to).
		Order("occurred_at ASC").
		Find(&events).Error
	return events, err
}

func (r *checkInEventRepo) MarkReconciled(ctx context.Context, eventIDs []string) error {
	if len(eventIDs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Model(&model.CheckInEvent{}).
		Where("event_id IN ?", eventIDs).
		Update("reconciled", true).Error
}
