package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/Sfundo03/PiranaSecuritySystem-sub000/internal/model"
)

// GuardRateRepository 保安时薪数据访问接口
type GuardRateRepository interface {
	GetActiveByGuard(ctx context.Context, guardID string) (*model.GuardRate, error)
	ListByGuard(ctx context.Context, guardID string) ([]model.GuardRate, error)
	// ActivateNew 事务性激活新时薪：先停用该保安全部 is_active 行再插入，
	// 保证"同一保安至多一条激活时薪"不变式
	ActivateNew(ctx context.Context, rate *model.GuardRate) error
}

// guardRateRepo GuardRateRepository 的 GORM 实现
type guardRateRepo struct {
	db *gorm.DB
}

// NewGuardRateRepo 创建 GuardRateRepository 实例
func NewGuardRateRepo(db *gorm.DB) GuardRateRepository {
	return &guardRateRepo{db: db}
}

// GetActiveByGuard 查询当前激活时薪；历史数据存在重复激活时取生效日期最新的一条
func (r *guardRateRepo) GetActiveByGuard(ctx context.Context, guardID string) (*model.GuardRate, error) {
	var rate model.GuardRate
	err := r.db.WithContext(ctx).
		Where("guard_id = ? AND is_active = true", guardID).
		Order("effective_date DESC").
		First(&rate).Error
	if err != nil {
		return nil, err
	}
	return &rate, nil
}

func (r *guardRateRepo) ListByGuard(ctx context.Context, guardID string) ([]model.GuardRate, error) {
	var rates []model.GuardRate
	err := r.db.WithContext(ctx).
		Where("guard_id = ?", guardID).
		Order("effective_date DESC").
		Find(&rates).Error
	return rates, err
}

func (r *guardRateRepo) ActivateNew(ctx context.Context, rate *model.GuardRate) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.GuardRate{}).
			Where("guard_id = ? AND is_active = true", rate.GuardID).
			Update("is_active", false).Error; err != nil {
			return err
		}
		rate.IsActive = true
		return tx.Create(rate).Error
	})
}
