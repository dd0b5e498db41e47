package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/Sfundo03/PiranaSecuritySystem-sub000/internal/model"
)

func setupExportService() (ExportService, *testRepos) {
	repos := newTestRepos()
	svc := NewExportService(repos.toRepository(), zap.NewNop())
	return svc, repos
}

func TestExportService_PayrollSummaryXLSX(t *testing.T) {
	svc, repos := setupExportService()
	guard := seedGuard(repos, "guard-1", "Jane", "Doe")

	hours, _ := decimal.NewFromString("160.50")
	rate, _ := decimal.NewFromString("10.00")
	_ = repos.payroll.Create(context.Background(), &model.Payroll{
		GuardID:     "guard-1",
		Guard:       guard,
		PeriodYear:  2025,
		PeriodMonth: 1,
		PeriodStart: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		PeriodEnd:   time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC),
		TotalHours:  hours,
		HourlyRate:  rate,
		GrossPay:    decimal.RequireFromString("1605.00"),
		TaxAmount:   decimal.RequireFromString("240.75"),
		NetPay:      decimal.RequireFromString("1364.25"),
		Status:      model.PayrollStatusProcessed,
	})

	buf, filename, err := svc.PayrollSummaryXLSX(context.Background(), 2025, 1)
	if err != nil {
		t.Fatalf("导出应成功, got %v", err)
	}
	if filename != "payroll_summary_2025_01.xlsx" {
		t.Errorf("文件名不符, got %s", filename)
	}

	f, err := excelize.OpenReader(buf)
	if err != nil {
		t.Fatalf("导出内容应为合法 xlsx, got %v", err)
	}
	defer f.Close()

	if got, _ := f.GetCellValue("工资汇总", "A1"); got != "保安姓名" {
		t.Errorf("表头 A1 应为 保安姓名, got %s", got)
	}
	if got, _ := f.GetCellValue("工资汇总", "A2"); got != "Jane Doe" {
		t.Errorf("A2 应为 Jane Doe, got %s", got)
	}
	if got, _ := f.GetCellValue("工资汇总", "G2"); got != "1364.25" {
		t.Errorf("实发 G2 应为 1364.25, got %s", got)
	}
}

func TestExportService_PayrollSummaryXLSX_InvalidMonth(t *testing.T) {
	svc, _ := setupExportService()

	for _, month := range []int{0, 13} {
		if _, _, err := svc.PayrollSummaryXLSX(context.Background(), 2025, month); !errors.Is(err, ErrInvalidPeriod) {
			t.Errorf("月份 %d 期望 ErrInvalidPeriod, got %v", month, err)
		}
	}
}
