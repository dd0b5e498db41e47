package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Sfundo03/PiranaSecuritySystem-sub000/config"
	"github.com/Sfundo03/PiranaSecuritySystem-sub000/internal/dto"
	"github.com/Sfundo03/PiranaSecuritySystem-sub000/internal/model"
	"github.com/Sfundo03/PiranaSecuritySystem-sub000/internal/repository"
	apperrors "github.com/Sfundo03/PiranaSecuritySystem-sub000/pkg/errors"
)

// ── 工资单模块业务错误 ──

var (
	ErrInvalidPeriod    = errors.New("工资周期无效：起止日期必须落在同一自然月且起不晚于止")
	ErrDuplicatePayroll = errors.New("该保安该月工资单已存在")
	ErrNoAttendance     = errors.New("该周期内无已闭合考勤记录")
	ErrPayrollNotFound  = errors.New("工资单不存在")
	ErrInvalidTaxRate   = errors.New("税率必须在 0 到 100 之间")
)

// PayrollService 工资单业务接口
type PayrollService interface {
	// Generate 生成工资单：汇总周期内已闭合考勤工时 × 激活时薪，
	// 按激活税率配置扣税。每保安每自然月至多一张，数据库唯一键兜底。
	// 生成后通知全体负责人与该保安。
	Generate(ctx context.Context, req *dto.GeneratePayrollRequest, operatorID string) (*dto.PayrollResponse, error)
	GetByID(ctx context.Context, payrollID string) (*dto.PayrollResponse, error)
	ListByGuard(ctx context.Context, req *dto.PayrollListRequest) ([]dto.PayrollResponse, int64, error)
	// Delete 删除工资单并通知对应保安
	Delete(ctx context.Context, payrollID string, operatorID string) error
	// ActiveTaxConfig 查询当前激活税率配置，不存在时按配置默认值惰性创建
	ActiveTaxConfig(ctx context.Context) (*dto.TaxConfigResponse, error)
	// UpdateTaxConfig 启用新税率配置（旧配置停用，保留历史）
	UpdateTaxConfig(ctx context.Context, req *dto.UpdateTaxConfigRequest) (*dto.TaxConfigResponse, error)
}

type payrollService struct {
	cfg      *config.Config
	repo     *repository.Repository
	notifier NotificationService
	logger   *zap.Logger
}

// NewPayrollService 创建 PayrollService 实例
func NewPayrollService(cfg *config.Config, repo *repository.Repository, notifier NotificationService, logger *zap.Logger) PayrollService {
	return &payrollService{cfg: cfg, repo: repo, notifier: notifier, logger: logger}
}

func (s *payrollService) Generate(ctx context.Context, req *dto.GeneratePayrollRequest, operatorID string) (*dto.PayrollResponse, error) {
	start, err := time.Parse("2006-01-02", req.PeriodStart)
	if err != nil {
		return nil, ErrInvalidPeriod
	}
	end, err := time.Parse("2006-01-02", req.PeriodEnd)
	if err != nil {
		return nil, ErrInvalidPeriod
	}
	if start.After(end) || start.Year() != end.Year() || start.Month() != end.Month() {
		return nil, ErrInvalidPeriod
	}

	guard, err := s.repo.User.GetByID(ctx, req.GuardID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGuardNotFound
		}
		return nil, err
	}
	if guard.Role != model.RoleGuard {
		return nil, ErrNotAGuard
	}

	year, month := start.Year(), int(start.Month())

	// 预检查给出友好错误；并发窗口由唯一键兜底
	exists, err := s.repo.Payroll.ExistsForMonth(ctx, req.GuardID, year, month)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrDuplicatePayroll
	}

	rate, err := s.repo.GuardRate.GetActiveByGuard(ctx, req.GuardID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoActiveRate
		}
		return nil, err
	}

	intervals, err := s.repo.Attendance.ListClosedByGuardBetween(ctx, req.GuardID, start, end)
	if err != nil {
		return nil, err
	}
	if len(intervals) == 0 {
		return nil, ErrNoAttendance
	}

	// 区间工时在闭合时已各自舍入，此处只做求和
	total := decimal.Zero
	for i := range intervals {
		total = total.Add(intervals[i].HoursWorked)
	}

	taxPct, err := s.resolveTaxPercentage(ctx)
	if err != nil {
		return nil, err
	}

	gross := total.Mul(rate.HourlyRate).Round(2)
	tax := gross.Mul(taxPct).Div(decimal.NewFromInt(100)).Round(2)
	net := gross.Sub(tax)

	payroll := &model.Payroll{
		GuardID:     req.GuardID,
		PeriodYear:  year,
		PeriodMonth: month,
		PeriodStart: start,
		PeriodEnd:   end,
		TotalHours:  total,
		HourlyRate:  rate.HourlyRate,
		GrossPay:    gross,
		TaxAmount:   tax,
		NetPay:      net,
		Status:      model.PayrollStatusProcessed,
	}

	if err := s.repo.Payroll.Create(ctx, payroll); err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			return nil, ErrDuplicatePayroll
		}
		s.logger.Error("写入工资单失败", zap.String("guard_id", req.GuardID), zap.Error(err))
		return nil, err
	}

	// 工资单已落库，通知失败只记录不回滚
	msg := fmt.Sprintf("您 %d 年 %d 月的工资单已生成，实发 %s", year, month, net.StringFixed(2))
	if err := s.notifier.Notify(ctx, req.GuardID, model.NotifyTypePayroll, msg, nil); err != nil {
		s.logger.Warn("工资单通知发送失败",
			zap.String("payroll_id", payroll.PayrollID),
			zap.Error(err))
	}
	directorMsg := fmt.Sprintf("保安 %s %d 年 %d 月的工资单已生成，实发 %s",
		guard.FullName(), year, month, net.StringFixed(2))
	if err := s.notifier.NotifyRole(ctx, model.RoleDirector, model.NotifyTypePayroll, directorMsg, nil); err != nil {
		s.logger.Warn("工资单负责人通知发送失败",
			zap.String("payroll_id", payroll.PayrollID),
			zap.Error(err))
	}

	payroll.Guard = guard
	resp := toPayrollResponse(payroll)
	return &resp, nil
}

func (s *payrollService) GetByID(ctx context.Context, payrollID string) (*dto.PayrollResponse, error) {
	payroll, err := s.repo.Payroll.GetByID(ctx, payrollID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPayrollNotFound
		}
		return nil, err
	}
	resp := toPayrollResponse(payroll)
	return &resp, nil
}

func (s *payrollService) ListByGuard(ctx context.Context, req *dto.PayrollListRequest) ([]dto.PayrollResponse, int64, error) {
	payrolls, total, err := s.repo.Payroll.ListByGuard(ctx, req.GuardID, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("查询工资单列表失败", zap.Error(err))
		return nil, 0, err
	}

	result := make([]dto.PayrollResponse, 0, len(payrolls))
	for i := range payrolls {
		result = append(result, toPayrollResponse(&payrolls[i]))
	}
	return result, total, nil
}

func (s *payrollService) Delete(ctx context.Context, payrollID string, operatorID string) error {
	payroll, err := s.repo.Payroll.GetByID(ctx, payrollID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPayrollNotFound
		}
		return err
	}

	if err := s.repo.Payroll.Delete(ctx, payrollID); err != nil {
		s.logger.Error("删除工资单失败", zap.String("payroll_id", payrollID), zap.Error(err))
		return err
	}

	s.logger.Info("工资单已删除",
		zap.String("payroll_id", payrollID),
		zap.String("operator_id", operatorID))

	msg := fmt.Sprintf("您 %d 年 %d 月的工资单已被撤回，如有疑问请联系管理处", payroll.PeriodYear, payroll.PeriodMonth)
	if err := s.notifier.Notify(ctx, payroll.GuardID, model.NotifyTypePayroll, msg, nil); err != nil {
		s.logger.Warn("工资单撤回通知发送失败", zap.String("payroll_id", payrollID), zap.Error(err))
	}
	return nil
}

// ── 税率配置 ──

// resolveTaxPercentage 取当前激活税率；无任何配置时按应用配置默认值
// 惰性建一条，保证税率来源可审计
func (s *payrollService) resolveTaxPercentage(ctx context.Context) (decimal.Decimal, error) {
	taxCfg, err := s.repo.TaxConfig.GetActive(ctx)
	if err == nil {
		return taxCfg.TaxPercentage, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return decimal.Zero, err
	}

	def := decimal.NewFromFloat(s.cfg.Payroll.DefaultTaxPercentage).Round(2)
	created := &model.TaxConfiguration{
		TaxPercentage: def,
		TaxThreshold:  decimal.Zero,
		IsActive:      true,
	}
	if err := s.repo.TaxConfig.Create(ctx, created); err != nil {
		return decimal.Zero, err
	}
	s.logger.Info("税率配置缺失，已按默认值创建", zap.String("tax_percentage", def.StringFixed(2)))
	return def, nil
}

func (s *payrollService) ActiveTaxConfig(ctx context.Context) (*dto.TaxConfigResponse, error) {
	if _, err := s.resolveTaxPercentage(ctx); err != nil {
		return nil, err
	}
	taxCfg, err := s.repo.TaxConfig.GetActive(ctx)
	if err != nil {
		return nil, err
	}
	resp := toTaxConfigResponse(taxCfg)
	return &resp, nil
}

func (s *payrollService) UpdateTaxConfig(ctx context.Context, req *dto.UpdateTaxConfigRequest) (*dto.TaxConfigResponse, error) {
	pct, err := decimal.NewFromString(req.TaxPercentage)
	if err != nil || pct.IsNegative() || pct.GreaterThan(decimal.NewFromInt(100)) {
		return nil, ErrInvalidTaxRate
	}

	threshold := decimal.Zero
	if req.TaxThreshold != "" {
		threshold, err = decimal.NewFromString(req.TaxThreshold)
		if err != nil || threshold.IsNegative() {
			return nil, ErrInvalidTaxRate
		}
	}

	taxCfg := &model.TaxConfiguration{
		TaxPercentage: pct.Round(2),
		TaxThreshold:  threshold.Round(2),
	}
	if err := s.repo.TaxConfig.ActivateNew(ctx, taxCfg); err != nil {
		s.logger.Error("启用税率配置失败", zap.Error(err))
		return nil, err
	}

	resp := toTaxConfigResponse(taxCfg)
	return &resp, nil
}

// ── 辅助函数 ──

func toPayrollResponse(p *model.Payroll) dto.PayrollResponse {
	resp := dto.PayrollResponse{
		PayrollID:   p.PayrollID,
		GuardID:     p.GuardID,
		PeriodStart: p.PeriodStart.Format("2006-01-02"),
		PeriodEnd:   p.PeriodEnd.Format("2006-01-02"),
		TotalHours:  p.TotalHours.StringFixed(2),
		HourlyRate:  p.HourlyRate.StringFixed(2),
		GrossPay:    p.GrossPay.StringFixed(2),
		TaxAmount:   p.TaxAmount.StringFixed(2),
		NetPay:      p.NetPay.StringFixed(2),
		Status:      p.Status,
	}
	if p.Guard != nil {
		resp.GuardName = p.Guard.FullName()
	}
	return resp
}

func toTaxConfigResponse(c *model.TaxConfiguration) dto.TaxConfigResponse {
	return dto.TaxConfigResponse{
		TaxConfigID:   c.TaxConfigID,
		TaxPercentage: c.TaxPercentage.StringFixed(2),
		TaxThreshold:  c.TaxThreshold.StringFixed(2),
		IsActive:      c.IsActive,
	}
}
