package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Sfundo03/PiranaSecuritySystem-sub000/internal/dto"
	"github.com/Sfundo03/PiranaSecuritySystem-sub000/internal/model"
	"github.com/Sfundo03/PiranaSecuritySystem-sub000/internal/repository"
)

// ── 事件工单模块业务错误 ──

var (
	ErrIncidentNotFound  = errors.New("工单不存在")
	ErrIncidentForbidden = errors.New("无权查看该工单")
	ErrInvalidTransition = errors.New("工单状态不可回退")
)

// statusRank 工单状态单向推进：Reported → InProgress → Resolved
var statusRank = map[string]int{
	model.IncidentStatusReported:   0,
	model.IncidentStatusInProgress: 1,
	model.IncidentStatusResolved:   2,
}

// IncidentService 事件工单业务接口
type IncidentService interface {
	// Create 住户提交工单，生成 INC-NNNNNN 流水号并通知全体负责人
	Create(ctx context.Context, req *dto.CreateIncidentRequest, residentID string) (*dto.IncidentResponse, error)
	// GetByID 查询工单详情；住户只能查看自己的工单
	GetByID(ctx context.Context, incidentID, requesterID, requesterRole string) (*dto.IncidentResponse, error)
	// UpdateStatus 负责人推进工单状态并通知提交住户
	UpdateStatus(ctx context.Context, incidentID string, req *dto.UpdateIncidentStatusRequest, operatorID string) (*dto.IncidentResponse, error)
	List(ctx context.Context, req *dto.IncidentListRequest) ([]dto.IncidentResponse, int64, error)
	ListByResident(ctx context.Context, residentID string) ([]dto.IncidentResponse, error)
}

type incidentService struct {
	repo     *repository.Repository
	notifier NotificationService
	logger   *zap.Logger
}

// NewIncidentService 创建 IncidentService 实例
func NewIncidentService(repo *repository.Repository, notifier NotificationService, logger *zap.Logger) IncidentService {
	return &incidentService{repo: repo, notifier: notifier, logger: logger}
}

func (s *incidentService) Create(ctx context.Context, req *dto.CreateIncidentRequest, residentID string) (*dto.IncidentResponse, error) {
	count, err := s.repo.Incident.Count(ctx)
	if err != nil {
		return nil, err
	}

	incident := &model.Incident{
		ResidentID:  residentID,
		Reference:   fmt.Sprintf("INC-%06d", count+1),
		Title:       req.Title,
		Description: req.Description,
		Location:    req.Location,
		Status:      model.IncidentStatusReported,
	}
	if err := s.repo.Incident.Create(ctx, incident); err != nil {
		s.logger.Error("写入工单失败", zap.String("resident_id", residentID), zap.Error(err))
		return nil, err
	}

	url := "/incidents/" + incident.IncidentID
	msg := fmt.Sprintf("新工单 %s：%s", incident.Reference, incident.Title)
	if err := s.notifier.NotifyRole(ctx, model.RoleDirector, model.NotifyTypeIncident, msg, &url); err != nil {
		// 工单已落库，负责人通知失败只记录
		s.logger.Warn("工单通知发送失败", zap.String("incident_id", incident.IncidentID), zap.Error(err))
	}

	resp := toIncidentResponse(incident)
	return &resp, nil
}

func (s *incidentService) GetByID(ctx context.Context, incidentID, requesterID, requesterRole string) (*dto.IncidentResponse, error) {
	incident, err := s.repo.Incident.GetByID(ctx, incidentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrIncidentNotFound
		}
		return nil, err
	}

	if requesterRole == model.RoleResident && incident.ResidentID != requesterID {
		return nil, ErrIncidentForbidden
	}

	resp := toIncidentResponse(incident)
	return &resp, nil
}

func (s *incidentService) UpdateStatus(ctx context.Context, incidentID string, req *dto.UpdateIncidentStatusRequest, operatorID string) (*dto.IncidentResponse, error) {
	incident, err := s.repo.Incident.GetByID(ctx, incidentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrIncidentNotFound
		}
		return nil, err
	}

	if statusRank[req.Status] < statusRank[incident.Status] {
		return nil, ErrInvalidTransition
	}

	incident.Status = req.Status
	if err := s.repo.Incident.Update(ctx, incident); err != nil {
		s.logger.Error("更新工单状态失败", zap.String("incident_id", incidentID), zap.Error(err))
		return nil, err
	}

	s.logger.Info("工单状态已更新",
		zap.String("incident_id", incidentID),
		zap.String("status", req.Status),
		zap.String("operator_id", operatorID))

	url := "/incidents/" + incident.IncidentID
	msg := fmt.Sprintf("您的工单 %s 状态更新为 %s", incident.Reference, req.Status)
	if err := s.notifier.Notify(ctx, incident.ResidentID, model.NotifyTypeIncident, msg, &url); err != nil {
		s.logger.Warn("工单状态通知发送失败", zap.String("incident_id", incidentID), zap.Error(err))
	}

	resp := toIncidentResponse(incident)
	return &resp, nil
}

func (s *incidentService) List(ctx context.Context, req *dto.IncidentListRequest) ([]dto.IncidentResponse, int64, error) {
	incidents, total, err := s.repo.Incident.List(ctx, req.Status, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("查询工单列表失败", zap.Error(err))
		return nil, 0, err
	}

	result := make([]dto.IncidentResponse, 0, len(incidents))
	for i := range incidents {
		result = append(result, toIncidentResponse(&incidents[i]))
	}
	return result, total, nil
}

func (s *incidentService) ListByResident(ctx context.Context, residentID string) ([]dto.IncidentResponse, error) {
	incidents, err := s.repo.Incident.ListByResident(ctx, residentID)
	if err != nil {
		s.logger.Error("查询住户工单失败", zap.Error(err))
		return nil, err
	}

	result := make([]dto.IncidentResponse, 0, len(incidents))
	for i := range incidents {
		result = append(result, toIncidentResponse(&incidents[i]))
	}
	return result, nil
}

// ── 辅助函数 ──

func toIncidentResponse(in *model.Incident) dto.IncidentResponse {
	resp := dto.IncidentResponse{
		IncidentID:  in.IncidentID,
		Reference:   in.Reference,
		ResidentID:  in.ResidentID,
		Title:       in.Title,
		Description: in.Description,
		Location:    in.Location,
		Status:      in.Status,
		CreatedAt:   in.CreatedAt.Format("2006-01-02 15:04:05"),
	}
	if in.Resident != nil {
		resp.ResidentName = in.Resident.FullName()
	}
	return resp
}
