package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/Sfundo03/PiranaSecuritySystem-sub000/config"
	"github.com/Sfundo03/PiranaSecuritySystem-sub000/internal/dto"
	"github.com/Sfundo03/PiranaSecuritySystem-sub000/internal/model"
)

// ── 测试辅助 ──

func setupPayrollService() (PayrollService, *testRepos) {
	repos := newTestRepos()
	cfg := &config.Config{
		Payroll: config.PayrollConfig{DefaultTaxPercentage: 15},
	}
	notifier := NewNotificationService(repos.toRepository(), zap.NewNop())
	svc := NewPayrollService(cfg, repos.toRepository(), notifier, zap.NewNop())
	return svc, repos
}

func seedActiveRate(repos *testRepos, guardID, rate string, effective time.Time) {
	hourly, _ := decimal.NewFromString(rate)
	_ = repos.rate.ActivateNew(context.Background(), &model.GuardRate{
		GuardID:       guardID,
		HourlyRate:    hourly,
		EffectiveDate: effective,
	})
}

func seedClosedInterval(repos *testRepos, guardID string, workDate time.Time, hours string) {
	h, _ := decimal.NewFromString(hours)
	in := workDate.Add(8 * time.Hour)
	out := in.Add(time.Hour) // 工时以 HoursWorked 为准，时间戳仅占位
	_ = repos.attendance.Create(context.Background(), &model.AttendanceInterval{
		GuardID:        guardID,
		WorkDate:       workDate,
		CheckInTime:    in,
		CheckOutTime:   &out,
		HoursWorked:    h,
		CheckInEventID: "seed-ev-" + guardID + workDate.Format("20060102"),
	})
}

func seedOpenInterval(repos *testRepos, guardID string, workDate time.Time) {
	_ = repos.attendance.Create(context.Background(), &model.AttendanceInterval{
		GuardID:        guardID,
		WorkDate:       workDate,
		CheckInTime:    workDate.Add(8 * time.Hour),
		HoursWorked:    decimal.Zero,
		CheckInEventID: "seed-open-" + guardID + workDate.Format("20060102"),
	})
}

// ════════════════════════════════════════════════════════════
// Generate 测试
// ════════════════════════════════════════════════════════════

func TestPayrollService_Generate_Arithmetic(t *testing.T) {
	svc, repos := setupPayrollService()
	seedGuard(repos, "guard-1", "Jane", "Doe")
	seedActiveRate(repos, "guard-1", "10.00", time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	seedClosedInterval(repos, "guard-1", time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC), "80.25")
	seedClosedInterval(repos, "guard-1", time.Date(2025, 1, 20, 0, 0, 0, 0, time.UTC), "80.25")

	resp, err := svc.Generate(context.Background(), &dto.GeneratePayrollRequest{
		GuardID:     "guard-1",
		PeriodStart: "2025-01-01",
		PeriodEnd:   "2025-01-31",
	}, "director-1")
	if err != nil {
		t.Fatalf("生成工资单应成功, got %v", err)
	}

	// 160.50h × 10.00 = 1605.00；税 15% = 240.75；实发 1364.25
	if resp.TotalHours != "160.50" {
		t.Errorf("总工时应为 160.50, got %s", resp.TotalHours)
	}
	if resp.GrossPay != "1605.00" {
		t.Errorf("应发应为 1605.00, got %s", resp.GrossPay)
	}
	if resp.TaxAmount != "240.75" {
		t.Errorf("代扣税应为 240.75, got %s", resp.TaxAmount)
	}
	if resp.NetPay != "1364.25" {
		t.Errorf("实发应为 1364.25, got %s", resp.NetPay)
	}
	if resp.GuardName != "Jane Doe" {
		t.Errorf("保安姓名应为 Jane Doe, got %s", resp.GuardName)
	}
}

func TestPayrollService_Generate_LazyDefaultTaxConfig(t *testing.T) {
	svc, repos := setupPayrollService()
	seedGuard(repos, "guard-1", "Jane", "Doe")
	seedActiveRate(repos, "guard-1", "10.00", time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	seedClosedInterval(repos, "guard-1", time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC), "8.00")

	if _, err := svc.Generate(context.Background(), &dto.GeneratePayrollRequest{
		GuardID: "guard-1", PeriodStart: "2025-01-01", PeriodEnd: "2025-01-31",
	}, "director-1"); err != nil {
		t.Fatalf("生成工资单应成功, got %v", err)
	}

	// 无激活税率配置时应按默认值 15% 惰性创建
	taxCfg, err := repos.tax.GetActive(context.Background())
	if err != nil {
		t.Fatalf("应已创建默认税率配置, got %v", err)
	}
	if taxCfg.TaxPercentage.StringFixed(2) != "15.00" {
		t.Errorf("默认税率应为 15.00, got %s", taxCfg.TaxPercentage.StringFixed(2))
	}
}

func TestPayrollService_Generate_NotifiesDirectorsAndGuard(t *testing.T) {
	svc, repos := setupPayrollService()
	seedGuard(repos, "guard-1", "Jane", "Doe")
	seedDirector(repos, "director-1")
	seedDirector(repos, "director-2")
	seedActiveRate(repos, "guard-1", "10.00", time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	seedClosedInterval(repos, "guard-1", time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC), "8.00")

	if _, err := svc.Generate(context.Background(), &dto.GeneratePayrollRequest{
		GuardID: "guard-1", PeriodStart: "2025-01-01", PeriodEnd: "2025-01-31",
	}, "director-1"); err != nil {
		t.Fatalf("生成工资单应成功, got %v", err)
	}

	// 全体负责人收到通知
	for _, id := range []string{"director-1", "director-2"} {
		count, _ := repos.notification.CountUnread(context.Background(), id)
		if count != 1 {
			t.Errorf("负责人 %s 应收到 1 条通知, got %d", id, count)
		}
	}
	count, _ := repos.notification.CountUnread(context.Background(), "guard-1")
	if count != 1 {
		t.Errorf("生成后保安应收到 1 条通知, got %d", count)
	}
}

func TestPayrollService_Generate_NotificationFailureDoesNotRollback(t *testing.T) {
	svc, repos := setupPayrollService()
	seedGuard(repos, "guard-1", "Jane", "Doe")
	seedActiveRate(repos, "guard-1", "10.00", time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	seedClosedInterval(repos, "guard-1", time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC), "8.00")
	repos.notification.failErr = errors.New("notification store down")

	resp, err := svc.Generate(context.Background(), &dto.GeneratePayrollRequest{
		GuardID: "guard-1", PeriodStart: "2025-01-01", PeriodEnd: "2025-01-31",
	}, "director-1")
	if err != nil {
		t.Fatalf("通知失败不应导致生成失败, got %v", err)
	}
	if resp.PayrollID == "" {
		t.Error("工资单应已落库")
	}
}

func TestPayrollService_Generate_InvalidPeriod(t *testing.T) {
	svc, repos := setupPayrollService()
	seedGuard(repos, "guard-1", "Jane", "Doe")

	cases := []struct{ start, end string }{
		{"2025-01-15", "2025-02-15"}, // 跨月
		{"2025-01-31", "2025-01-01"}, // 起晚于止
		{"not-a-date", "2025-01-31"},
	}
	for _, c := range cases {
		_, err := svc.Generate(context.Background(), &dto.GeneratePayrollRequest{
			GuardID: "guard-1", PeriodStart: c.start, PeriodEnd: c.end,
		}, "director-1")
		if !errors.Is(err, ErrInvalidPeriod) {
			t.Errorf("周期 %s~%s 期望 ErrInvalidPeriod, got %v", c.start, c.end, err)
		}
	}
}

func TestPayrollService_Generate_Duplicate(t *testing.T) {
	svc, repos := setupPayrollService()
	seedGuard(repos, "guard-1", "Jane", "Doe")
	seedActiveRate(repos, "guard-1", "10.00", time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	seedClosedInterval(repos, "guard-1", time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC), "8.00")

	req := &dto.GeneratePayrollRequest{
		GuardID: "guard-1", PeriodStart: "2025-01-01", PeriodEnd: "2025-01-31",
	}
	if _, err := svc.Generate(context.Background(), req, "director-1"); err != nil {
		t.Fatalf("第一次生成应成功, got %v", err)
	}
	if _, err := svc.Generate(context.Background(), req, "director-1"); !errors.Is(err, ErrDuplicatePayroll) {
		t.Errorf("同月重复生成期望 ErrDuplicatePayroll, got %v", err)
	}
	// 同月不同周期同样视为重复
	if _, err := svc.Generate(context.Background(), &dto.GeneratePayrollRequest{
		GuardID: "guard-1", PeriodStart: "2025-01-05", PeriodEnd: "2025-01-20",
	}, "director-1"); !errors.Is(err, ErrDuplicatePayroll) {
		t.Errorf("同月不同周期期望 ErrDuplicatePayroll, got %v", err)
	}
}

func TestPayrollService_Generate_NoActiveRate(t *testing.T) {
	svc, repos := setupPayrollService()
	seedGuard(repos, "guard-1", "Jane", "Doe")
	seedClosedInterval(repos, "guard-1", time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC), "8.00")

	_, err := svc.Generate(context.Background(), &dto.GeneratePayrollRequest{
		GuardID: "guard-1", PeriodStart: "2025-01-01", PeriodEnd: "2025-01-31",
	}, "director-1")
	if !errors.Is(err, ErrNoActiveRate) {
		t.Errorf("期望 ErrNoActiveRate, got %v", err)
	}
}

func TestPayrollService_Generate_NoAttendance(t *testing.T) {
	svc, repos := setupPayrollService()
	seedGuard(repos, "guard-1", "Jane", "Doe")
	seedActiveRate(repos, "guard-1", "10.00", time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	// 仅有未闭合区间，不计入工时
	seedOpenInterval(repos, "guard-1", time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC))

	_, err := svc.Generate(context.Background(), &dto.GeneratePayrollRequest{
		GuardID: "guard-1", PeriodStart: "2025-01-01", PeriodEnd: "2025-01-31",
	}, "director-1")
	if !errors.Is(err, ErrNoAttendance) {
		t.Errorf("期望 ErrNoAttendance, got %v", err)
	}
}

func TestPayrollService_Generate_GuardNotFound(t *testing.T) {
	svc, _ := setupPayrollService()

	_, err := svc.Generate(context.Background(), &dto.GeneratePayrollRequest{
		GuardID: "missing", PeriodStart: "2025-01-01", PeriodEnd: "2025-01-31",
	}, "director-1")
	if !errors.Is(err, ErrGuardNotFound) {
		t.Errorf("期望 ErrGuardNotFound, got %v", err)
	}
}

// ════════════════════════════════════════════════════════════
// Delete 测试
// ════════════════════════════════════════════════════════════

func TestPayrollService_Delete(t *testing.T) {
	svc, repos := setupPayrollService()
	seedGuard(repos, "guard-1", "Jane", "Doe")
	seedActiveRate(repos, "guard-1", "10.00", time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	seedClosedInterval(repos, "guard-1", time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC), "8.00")

	resp, err := svc.Generate(context.Background(), &dto.GeneratePayrollRequest{
		GuardID: "guard-1", PeriodStart: "2025-01-01", PeriodEnd: "2025-01-31",
	}, "director-1")
	if err != nil {
		t.Fatalf("生成工资单应成功, got %v", err)
	}

	if err := svc.Delete(context.Background(), resp.PayrollID, "director-1"); err != nil {
		t.Fatalf("删除应成功, got %v", err)
	}
	if _, err := svc.GetByID(context.Background(), resp.PayrollID); !errors.Is(err, ErrPayrollNotFound) {
		t.Errorf("删除后查询期望 ErrPayrollNotFound, got %v", err)
	}
	// 生成 + 撤回各一条通知
	count, _ := repos.notification.CountUnread(context.Background(), "guard-1")
	if count != 2 {
		t.Errorf("保安应收到 2 条通知, got %d", count)
	}
}

func TestPayrollService_Delete_NotFound(t *testing.T) {
	svc, _ := setupPayrollService()

	if err := svc.Delete(context.Background(), "missing", "director-1"); !errors.Is(err, ErrPayrollNotFound) {
		t.Errorf("期望 ErrPayrollNotFound, got %v", err)
	}
}

// ════════════════════════════════════════════════════════════
// 税率配置测试
// ════════════════════════════════════════════════════════════

func TestPayrollService_UpdateTaxConfig(t *testing.T) {
	svc, repos := setupPayrollService()

	resp, err := svc.UpdateTaxConfig(context.Background(), &dto.UpdateTaxConfigRequest{
		TaxPercentage: "20.5",
	})
	if err != nil {
		t.Fatalf("启用新税率应成功, got %v", err)
	}
	if resp.TaxPercentage != "20.50" {
		t.Errorf("税率应为 20.50, got %s", resp.TaxPercentage)
	}
	if !resp.IsActive {
		t.Error("新配置应处于激活态")
	}

	// 再启用一版，旧版停用
	if _, err := svc.UpdateTaxConfig(context.Background(), &dto.UpdateTaxConfigRequest{
		TaxPercentage: "18",
	}); err != nil {
		t.Fatalf("二次启用应成功, got %v", err)
	}
	active, _ := repos.tax.GetActive(context.Background())
	if active.TaxPercentage.StringFixed(2) != "18.00" {
		t.Errorf("激活税率应为 18.00, got %s", active.TaxPercentage.StringFixed(2))
	}
	var activeCount int
	for _, c := range repos.tax.configs {
		if c.IsActive {
			activeCount++
		}
	}
	if activeCount != 1 {
		t.Errorf("激活配置应唯一, got %d", activeCount)
	}
}

func TestPayrollService_UpdateTaxConfig_Invalid(t *testing.T) {
	svc, _ := setupPayrollService()

	for _, pct := range []string{"-1", "100.01", "abc"} {
		_, err := svc.UpdateTaxConfig(context.Background(), &dto.UpdateTaxConfigRequest{TaxPercentage: pct})
		if !errors.Is(err, ErrInvalidTaxRate) {
			t.Errorf("税率 %s 期望 ErrInvalidTaxRate, got %v", pct, err)
		}
	}
}
