package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/Sfundo03/PiranaSecuritySystem-sub000/internal/model"
)

// RosterRepository 排班数据访问接口
type RosterRepository interface {
	// CreateWithShifts 事务性创建排班表及其 12 条班次明细
	// 唯一索引 (roster_date, site) 冲突时返回 apperrors.ErrConflict
	CreateWithShifts(ctx context.Context, roster *model.ShiftRoster, shifts []model.Shift) error
	GetByID(ctx context.Context, id string) (*model.ShiftRoster, error)
	GetByDateSite(ctx context.Context, date time.Time, site string) (*model.ShiftRoster, error)
	ListByDate(ctx context.Context, date time.Time) ([]model.ShiftRoster, error)
	ListShiftsByGuard(ctx context.Context, guardID string, from time.Time) ([]model.Shift, error)
}

// rosterRepo RosterRepository 的 GORM 实现
type rosterRepo struct {
	db *gorm.DB
}

// NewRosterRepo 创建 RosterRepository 实例
func NewRosterRepo(db *gorm.DB) RosterRepository {
	return &rosterRepo{db: db}
}

func (r *rosterRepo) CreateWithShifts(ctx context.Context, roster *model.ShiftRoster, shifts []model.Shift) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(roster).Error; err != nil {
			return err
		}
		for i := range shifts {
			shifts[i].RosterID = roster.RosterID
		}
		return tx.Create(&shifts).Error
	})
	return translateErr(err)
}

func (r *rosterRepo) GetByID(ctx context.Context, id string) (*model.ShiftRoster, error) {
	var roster model.ShiftRoster
	err := r.db.WithContext(ctx).
		Preload("Shifts").
		Preload("Shifts.Guard").
		Where("roster_id = ?", id).
		First(&roster).Error
	if err != nil {
		return nil, err
	}
	return &roster, nil
}

func (r *rosterRepo) GetByDateSite(ctx context.Context, date time.Time, site string) (*model.ShiftRoster, error) {
	var roster model.ShiftRoster
	err := r.db.WithContext(ctx).
		Preload("Shifts").
		Preload("Shifts.Guard").
		Where("roster_date = ? AND site = ?", date.Format("2006-01-02"), site).
		First(&roster).Error
	if err != nil {
		return nil, err
	}
	return &roster, nil
}

func (r *rosterRepo) ListByDate(ctx context.Context, date time.Time) ([]model.ShiftRoster, error) {
	var rosters []model.ShiftRoster
	err := r.db.WithContext(ctx).
		Preload("Shifts").
		Preload("Shifts.Guard").
		Where("roster_date = ?", date.Format("2006-01-02")).
		Order("site ASC").
		Find(&rosters).Error
	return rosters, err
}

// ListShiftsByGuard 查询某保安自 from 起的全部班次（含排班表，ICS 日历导出使用）
func (r *rosterRepo) ListShiftsByGuard(ctx context.Context, guardID string, from time.Time) ([]model.Shift, error) {
	var shifts []model.Shift
	err := r.db.WithContext(ctx).
		Preload("Roster").
		Joins("JOIN shift_rosters ON shift_rosters.roster_id = shifts.roster_id").
		Where("shifts.guard_id = ? AND shift_rosters.roster_date >= ?", guardID, from.Format("2006-01-02")).
		Order("shift_rosters.roster_date ASC").
		Find(&shifts).Error
	return shifts, err
}
