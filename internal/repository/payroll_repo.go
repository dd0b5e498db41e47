package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/Sfundo03/PiranaSecuritySystem-sub000/internal/model"
)

// PayrollRepository 工资单数据访问接口
type PayrollRepository interface {
	Create(ctx context.Context, payroll *model.Payroll) error
	GetByID(ctx context.Context, id string) (*model.Payroll, error)
	ExistsForMonth(ctx context.Context, guardID string, year, month int) (bool, error)
	ListByGuard(ctx context.Context, guardID string, offset, limit int) ([]model.Payroll, int64, error)
	ListByMonth(ctx context.Context, year, month int) ([]model.Payroll, error)
	Delete(ctx context.Context, id string) error
}

// payrollRepo PayrollRepository 的 GORM 实现
type payrollRepo struct {
	db *gorm.DB
}

// NewPayrollRepo 创建 PayrollRepository 实例
func NewPayrollRepo(db *gorm.DB) PayrollRepository {
	return &payrollRepo{db: db}
}

// Create 插入工资单
// 唯一索引 (guard_id, period_year, period_month) 冲突时返回 apperrors.ErrConflict，
// 应用层预检查之外由数据库兜底，消除并发生成的竞态窗口
func (r *payrollRepo) Create(ctx context.Context, payroll *model.Payroll) error {
	return translateErr(r.db.WithContext(ctx).Create(payroll).Error)
}

func (r *payrollRepo) GetByID(ctx context.Context, id string) (*model.Payroll, error) {
	var payroll model.Payroll
	err := r.db.WithContext(ctx).
		Preload("Guard").
		Where("payroll_id = ?", id).
		First(&payroll).Error
	if err != nil {
		return nil, err
	}
	return &payroll, nil
}

func (r *payrollRepo) ExistsForMonth(ctx context.Context, guardID string, year, month int) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Payroll{}).
		Where("guard_id = ? AND period_year = ? AND period_month = ?", guardID, year, month).
		Count(&count).Error
	return count > 0, err
}

func (r *payrollRepo) ListByGuard(ctx context.Context, guardID string, offset, limit int) ([]model.Payroll, int64, error) {
	var payrolls []model.Payroll
	var total int64

	db := r.db.WithContext(ctx).Model(&model.Payroll{}).Where("guard_id = ?", guardID)

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := db.Offset(offset).Limit(limit).
		Order("period_year DESC, period_month DESC").
		Find(&payrolls).Error; err != nil {
		return nil, 0, err
	}

	return payrolls, total, nil
}

// ListByMonth 查询某自然月全部工资单（Excel 汇总导出使用）
func (r *payrollRepo) ListByMonth(ctx context.Context, year, month int) ([]model.Payroll, error) {
	var payrolls []model.Payroll
	err := r.db.WithContext(ctx).
		Preload("Guard").
		Where("period_year = ? AND period_month = ?", year, month).
		Order("created_at ASC").
		Find(&payrolls).Error
	return payrolls, err
}

func (r *payrollRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("payroll_id = ?", id).
		Delete(&model.Payroll{}).Error
}
