package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/Sfundo03/PiranaSecuritySystem-sub000/internal/model"
)

// IncidentRepository 事件工单数据访问接口
type IncidentRepository interface {
	Create(ctx context.Context, incident *model.Incident) error
	GetByID(ctx context.Context, id string) (*model.Incident, error)
	Update(ctx context.Context, incident *model.Incident) error
	List(ctx context.Context, status string, offset, limit int) ([]model.Incident, int64, error)
	ListByResident(ctx context.Context, residentID string) ([]model.Incident, error)
	Count(ctx context.Context) (int64, error)
}

// incidentRepo IncidentRepository 的 GORM 实现
type incidentRepo struct {
	db *gorm.DB
}

// NewIncidentRepo 创建 IncidentRepository 实例
func NewIncidentRepo(db *gorm.DB) IncidentRepository {
	return &incidentRepo{db: db}
}

func (r *incidentRepo) Create(ctx context.Context, incident *model.Incident) error {
	return translateErr(r.db.WithContext(ctx).Create(incident).Error)
}

func (r *incidentRepo) GetByID(ctx context.Context, id string) (*model.Incident, error) {
	var incident model.Incident
	err := r.db.WithContext(ctx).
		Preload("Resident").
		Where("incident_id = ?", id).
		First(&incident).Error
	if err != nil {
		return nil, err
	}
	return &incident, nil
}

func (r *incidentRepo) Update(ctx context.Context, incident *model.Incident) error {
	return r.db.WithContext(ctx).Save(incident).Error
}

func (r *incidentRepo) List(ctx context.Context, status string, offset, limit int) ([]model.Incident, int64, error) {
	var incidents []model.Incident
	var total int64

	db := r.db.WithContext(ctx).Model(&model.Incident{})
	if status != "" {
		db = db.Where("status = ?", status)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := db.Preload("Resident").
		Offset(offset).Limit(limit).
		Order("created_at DESC").
		Find(&incidents).Error; err != nil {
		return nil, 0, err
	}

	return incidents, total, nil
}

func (r *incidentRepo) ListByResident(ctx context.Context, residentID string) ([]model.Incident, error) {
	var incidents []model.Incident
	err := r.db.WithContext(ctx).
		Where("resident_id = ?", residentID).
		Order("created_at DESC").
		Find(&incidents).Error
	return incidents, err
}

// Count 含软删除在内的累计工单数（生成 INC-NNNNNN 流水号使用）
func (r *incidentRepo) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Unscoped().Model(&model.Incident{}).Count(&count).Error
	return count, err
}
