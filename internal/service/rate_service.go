package service

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Sfundo03/PiranaSecuritySystem-sub000/internal/dto"
	"github.com/Sfundo03/PiranaSecuritySystem-sub000/internal/model"
	"github.com/Sfundo03/PiranaSecuritySystem-sub000/internal/repository"
)

// ── 时薪模块业务错误 ──

var (
	// ErrNoActiveRate 保安无激活时薪：工资生成的硬性前置条件，不自愈、不重试
	ErrNoActiveRate   = errors.New("该保安无激活时薪")
	ErrInvalidRate    = errors.New("时薪必须为正数")
	ErrRateGuardWrong = errors.New("时薪只能绑定在职保安")
)

// RateService 时薪业务接口
type RateService interface {
	// Resolve 解析保安当前激活时薪；重复激活的历史数据取生效日期最新的一条
	Resolve(ctx context.Context, guardID string) (*dto.RateResponse, error)
	// Activate 激活新时薪：事务性停用该保安全部旧时薪后插入，
	// 后置条件为该保安恰好一条激活时薪
	Activate(ctx context.Context, req *dto.ActivateRateRequest, operatorID string) (*dto.RateResponse, error)
	// ListByGuard 查询时薪历史
	ListByGuard(ctx context.Context, guardID string) ([]dto.RateResponse, error)
}

type rateService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewRateService 创建 RateService 实例
func NewRateService(repo *repository.Repository, logger *zap.Logger) RateService {
	return &rateService{repo: repo, logger: logger}
}

func (s *rateService) Resolve(ctx context.Context, guardID string) (*dto.RateResponse, error) {
	rate, err := s.repo.GuardRate.GetActiveByGuard(ctx, guardID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoActiveRate
		}
		s.logger.Error("查询激活时薪失败", zap.Error(err))
		return nil, err
	}
	resp := toRateResponse(rate)
	return &resp, nil
}

func (s *rateService) Activate(ctx context.Context, req *dto.ActivateRateRequest, operatorID string) (*dto.RateResponse, error) {
	hourlyRate, err := decimal.NewFromString(req.HourlyRate)
	if err != nil || !hourlyRate.IsPositive() {
		return nil, ErrInvalidRate
	}

	guard, err := s.repo.User.GetByID(ctx, req.GuardID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGuardNotFound
		}
		return nil, err
	}
	if guard.Role != model.RoleGuard || !guard.IsActive {
		return nil, ErrRateGuardWrong
	}

	effectiveDate, err := time.Parse("2006-01-02", req.EffectiveDate)
	if err != nil {
		return nil, ErrInvalidRate
	}

	rate := &model.GuardRate{
		GuardID:       req.GuardID,
		HourlyRate:    hourlyRate.Round(2),
		EffectiveDate: effectiveDate,
	}
	rate.CreatedBy = &operatorID

	if err := s.repo.GuardRate.ActivateNew(ctx, rate); err != nil {
		s.logger.Error("激活时薪失败", zap.String("guard_id", req.GuardID), zap.Error(err))
		return nil, err
	}

	s.logger.Info("时薪已激活",
		zap.String("guard_id", req.GuardID),
		zap.String("hourly_rate", rate.HourlyRate.String()),
	)

	resp := toRateResponse(rate)
	return &resp, nil
}

func (s *rateService) ListByGuard(ctx context.Context, guardID string) ([]dto.RateResponse, error) {
	rates, err := s.repo.GuardRate.ListByGuard(ctx, guardID)
	if err != nil {
		s.logger.Error("查询时薪历史失败", zap.Error(err))
		return nil, err
	}

	result := make([]dto.RateResponse, 0, len(rates))
	for _, r := range rates {
		result = append(result, toRateResponse(&r))
	}
	return result, nil
}

func toRateResponse(r *model.GuardRate) dto.RateResponse {
	return dto.RateResponse{
		RateID:        r.RateID,
		GuardID:       r.GuardID,
		HourlyRate:    r.HourlyRate.StringFixed(2),
		EffectiveDate: r.EffectiveDate.Format("2006-01-02"),
		IsActive:      r.IsActive,
	}
}
