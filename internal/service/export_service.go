package service

import (
	"bytes"
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/Sfundo03/PiranaSecuritySystem-sub000/internal/repository"
)

// ExportService 报表导出业务接口
type ExportService interface {
	// PayrollSummaryXLSX 导出某自然月全部工资单的 Excel 汇总表
	PayrollSummaryXLSX(ctx context.Context, year, month int) (*bytes.Buffer, string, error)
}

type exportService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewExportService 创建 ExportService 实例
func NewExportService(repo *repository.Repository, logger *zap.Logger) ExportService {
	return &exportService{repo: repo, logger: logger}
}

func (s *exportService) PayrollSummaryXLSX(ctx context.Context, year, month int) (*bytes.Buffer, string, error) {
	if month < 1 || month > 12 {
		return nil, "", ErrInvalidPeriod
	}

	payrolls, err := s.repo.Payroll.ListByMonth(ctx, year, month)
	if err != nil {
		s.logger.Error("查询月度工资单失败", zap.Error(err))
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := "工资汇总"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"保安姓名", "周期", "总工时", "时薪", "应发", "代扣税", "实发", "状态"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"DDEBF7"}, Pattern: 1},
	})
	if err == nil {
		f.SetCellStyle(sheet, "A1", "H1", headerStyle)
	}

	for i := range payrolls {
		p := &payrolls[i]
		row := i + 2
		name := p.GuardID
		if p.Guard != nil {
			name = p.Guard.FullName()
		}

		values := []interface{}{
			name,
			fmt.Sprintf("%s ~ %s", p.PeriodStart.Format("2006-01-02"), p.PeriodEnd.Format("2006-01-02")),
			p.TotalHours.StringFixed(2),
			p.HourlyRate.StringFixed(2),
			p.GrossPay.StringFixed(2),
			p.TaxAmount.StringFixed(2),
			p.NetPay.StringFixed(2),
			p.Status,
		}
		for j, v := range values {
			cell, _ := excelize.CoordinatesToCellName(j+1, row)
			f.SetCellValue(sheet, cell, v)
		}
	}

	f.SetColWidth(sheet, "A", "B", 22)
	f.SetColWidth(sheet, "C", "H", 12)

	buf, err := f.WriteToBuffer()
	if err != nil {
		s.logger.Error("生成 Excel 失败", zap.Error(err))
		return nil, "", err
	}

	filename := fmt.Sprintf("payroll_summary_%04d_%02d.xlsx", year, month)
	return buf, filename, nil
}
