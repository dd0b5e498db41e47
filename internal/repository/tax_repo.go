package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/Sfundo03/PiranaSecuritySystem-sub000/internal/model"
)

// TaxConfigRepository 税率配置数据访问接口
type TaxConfigRepository interface {
	GetActive(ctx context.Context) (*model.TaxConfiguration, error)
	Create(ctx context.Context, cfg *model.TaxConfiguration) error
	// ActivateNew 事务性启用新税率配置：先停用全部 is_active 行再插入，
	// 保证"全系统仅一条激活配置"不变式
	ActivateNew(ctx context.Context, cfg *model.TaxConfiguration) error
}

// taxConfigRepo TaxConfigRepository 的 GORM 实现
type taxConfigRepo struct {
	db *gorm.DB
}

// NewTaxConfigRepo 创建 TaxConfigRepository 实例
func NewTaxConfigRepo(db *gorm.DB) TaxConfigRepository {
	return &taxConfigRepo{db: db}
}

func (r *taxConfigRepo) GetActive(ctx context.Context) (*model.TaxConfiguration, error) {
	var cfg model.TaxConfiguration
	err := r.db.WithContext(ctx).
		Where("is_active = true").
		Order("created_at DESC").
		First(&cfg).Error
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (r *taxConfigRepo) Create(ctx context.Context, cfg *model.TaxConfiguration) error {
	return translateErr(r.db.WithContext(ctx).Create(cfg).Error)
}

func (r *taxConfigRepo) ActivateNew(ctx context.Context, cfg *model.TaxConfiguration) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.TaxConfiguration{}).
			Where("is_active = true").
			Update("is_active", false).Error; err != nil {
			return err
		}
		cfg.IsActive = true
		return tx.Create(cfg).Error
	})
}
