package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"regexp"
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

// ── 考勤模块业务错误 ──

var (
	ErrGuardNotFound    = errors.New("保安不存在")
	ErrGuardInactive    = errors.New("该保安已停用")
	ErrNotAGuard        = errors.New("该用户不是保安")
	ErrInvalidCheckCode = errors.New("签到码无效")
	ErrInvalidTimeRange = errors.New("时间区间无效")
)

// 签到页二维码载荷格式：<random6>-<guardId>
var checkCodeRe = regexp.MustCompile(`^[A-Za-z0-9]{6}-(.+)$`)

// AttendanceService 考勤业务接口
//
// 事件流：签到页写入原始签到事件（追加日志）→ Reconcile 将事件配对为
// 考勤区间 → PayrollService 汇总已闭合区间工时。
type AttendanceService interface {
	// RecordCheckIn 记录签到/签退事件
	RecordCheckIn(ctx context.Context, req *dto.CheckInRequest) (*dto.CheckInResponse, error)
	// ValidateGuard 签到页按名字校验在职保安
	ValidateGuard(ctx context.Context, firstName string) (*dto.ValidateGuardResponse, error)
	// Reconcile 对账：将 [from, to] 内未对账的签到事件配对为考勤区间。
	// 幂等：以签到事件 ID 为键，重跑不产生重复区间；上次未闭合的区间
	// 可被后到的签退事件闭合。
	Reconcile(ctx context.Context, req *dto.ReconcileRequest) (*dto.ReconcileResponse, error)
	// ListIntervals 查询考勤区间
	ListIntervals(ctx context.Context, req *dto.AttendanceListRequest) ([]dto.AttendanceIntervalResponse, error)
	// ExportLogCSV 导出保安日志 CSV
	// 固定契约：表头 Date,Time,Guard Name,Status，数据行字段全部加引号，
	// ISO 日期 + HH:mm:ss 时间
	ExportLogCSV(ctx context.Context, req *dto.ExportLogRequest) (*bytes.Buffer, string, error)
}

type attendanceService struct {
	cfg    *config.Config
	repo   *repository.Repository
	logger *zap.Logger
}

// NewAttendanceService 创建 AttendanceService 实例
func NewAttendanceService(cfg *config.Config, repo *repository.Repository, logger *zap.Logger) AttendanceService {
	return &attendanceService{cfg: cfg, repo: repo, logger: logger}
}

func (s *attendanceService) RecordCheckIn(ctx context.Context, req *dto.CheckInRequest) (*dto.CheckInResponse, error) {
	guard, err := s.repo.User.GetByID(ctx, req.GuardID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGuardNotFound
		}
		s.logger.Error("查询保安失败", zap.Error(err))
		return nil, err
	}
	if guard.Role != model.RoleGuard {
		return nil, ErrNotAGuard
	}
	if !guard.IsActive {
		return nil, ErrGuardInactive
	}

	// 二维码签到码仅做格式与归属校验（UI 便利，非安全边界）
	if req.Code != "" {
		m := checkCodeRe.FindStringSubmatch(req.Code)
		if m == nil || m[1] != req.GuardID {
			return nil, ErrInvalidCheckCode
		}
	}

	status := model.CheckStatusPresent
	if req.Kind == model.CheckKindOut {
		status = model.CheckStatusCheckedOut
	}

	now := time.Now()
	event := &model.CheckInEvent{
		GuardID:    req.GuardID,
		OccurredAt: now,
		Kind:       req.Kind,
		Status:     status,
	}

	// 尽力关联当天该站点的排班表，找不到不阻塞签到
	if guard.Site != nil {
		if roster, err := s.repo.Roster.GetByDateSite(ctx, now, *guard.Site); err == nil {
			event.RosterID = &roster.RosterID
		}
	}

	if err := s.repo.CheckInEvent.Create(ctx, event); err != nil {
		s.logger.Error("写入签到事件失败", zap.String("guard_id", req.GuardID), zap.Error(err))
		return nil, err
	}

	return &dto.CheckInResponse{
		EventID:    event.EventID,
		GuardID:    event.GuardID,
		Kind:       event.Kind,
		Status:     event.Status,
		OccurredAt: event.OccurredAt.Format("2006-01-02 15:04:05"),
	}, nil
}

func (s *attendanceService) ValidateGuard(ctx context.Context, firstName string) (*dto.ValidateGuardResponse, error) {
	guard, err := s.repo.User.GetActiveGuardByFirstName(ctx, firstName)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &dto.ValidateGuardResponse{Valid: false}, nil
		}
		s.logger.Error("校验保安姓名失败", zap.Error(err))
		return nil, err
	}

	resp := &dto.ValidateGuardResponse{
		Valid:     true,
		GuardID:   guard.UserID,
		GuardName: guard.FullName(),
	}
	if guard.Site != nil {
		resp.Site = *guard.Site
	}
	return resp, nil
}

// ════════════════════════════════════════════════════════════
// Reconcile — 签到事件对账
// ════════════════════════════════════════════════════════════

func (s *attendanceService) Reconcile(ctx context.Context, req *dto.ReconcileRequest) (*dto.ReconcileResponse, error) {
	from, err := time.Parse("2006-01-02", req.From)
	if err != nil {
		return nil, ErrInvalidTimeRange
	}
	to, err := time.Parse("2006-01-02", req.To)
	if err != nil || from.After(to) {
		return nil, ErrInvalidTimeRange
	}

	// 签退事件窗口右端多取一天：overnight 策略需要次日凌晨的签退事件
	windowEnd := to.AddDate(0, 0, 2)
	events, err := s.repo.CheckInEvent.ListByGuardBetween(ctx, req.GuardID, from, windowEnd)
	if err != nil {
		s.logger.Error("查询签到事件失败", zap.Error(err))
		return nil, err
	}

	// 分离签退事件（已按时间升序）
	var checkOuts []*model.CheckInEvent
	for i := range events {
		if events[i].Kind == model.CheckKindOut {
			checkOuts = append(checkOuts, &events[i])
		}
	}

	// 对账输入：[from, to] 内尚未对账的签到事件
	checkIns, err := s.repo.CheckInEvent.ListUnreconciledCheckIns(ctx, req.GuardID, from, to.AddDate(0, 0, 1))
	if err != nil {
		s.logger.Error("查询未对账签到事件失败", zap.Error(err))
		return nil, err
	}

	usedOuts := make(map[string]bool) // 本轮已消费的签退事件
	resp := &dto.ReconcileResponse{}

	for i := range checkIns {
		ev := &checkIns[i]

		match := s.findMatchingCheckOut(ev, checkOuts, usedOuts)

		existing, err := s.repo.Attendance.GetByCheckInEvent(ctx, ev.EventID)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Error("查询考勤区间失败", zap.Error(err))
			return nil, err
		}

		if existing != nil {
			// 上次对账留下的未闭合区间：有匹配签退则补闭合
			if existing.CheckOutTime == nil && match != nil {
				s.closeInterval(existing, match)
				if err := s.repo.Attendance.Update(ctx, existing); err != nil {
					s.logger.Error("闭合考勤区间失败", zap.Error(err))
					return nil, err
				}
				usedOuts[match.EventID] = true
				if err := s.repo.CheckInEvent.MarkReconciled(ctx, []string{ev.EventID, match.EventID}); err != nil {
					return nil, err
				}
			}
			resp.Intervals = append(resp.Intervals, toIntervalResponse(existing))
			continue
		}

		interval := &model.AttendanceInterval{
			GuardID:        ev.GuardID,
			WorkDate:       dateOf(ev.OccurredAt),
			CheckInTime:    ev.OccurredAt,
			HoursWorked:    decimal.Zero,
			CheckInEventID: ev.EventID,
		}
		if match != nil {
			s.closeInterval(interval, match)
		}

		if err := s.repo.Attendance.Create(ctx, interval); err != nil {
			// 并发重跑下的幂等兜底：唯一键冲突视为已处理
			if errors.Is(err, apperrors.ErrConflict) {
				continue
			}
			s.logger.Error("写入考勤区间失败", zap.Error(err))
			return nil, err
		}
		resp.Created++

		if match != nil {
			usedOuts[match.EventID] = true
			if err := s.repo.CheckInEvent.MarkReconciled(ctx, []string{ev.EventID, match.EventID}); err != nil {
				return nil, err
			}
		}
		// 未闭合区间不标记签到事件：后续签退到达后重跑补闭合

		resp.Intervals = append(resp.Intervals, toIntervalResponse(interval))
	}

	return resp, nil
}

// findMatchingCheckOut 找签到事件之后最近的可配对签退事件
func (s *attendanceService) findMatchingCheckOut(in *model.CheckInEvent, checkOuts []*model.CheckInEvent, usedOuts map[string]bool) *model.CheckInEvent {
	for _, out := range checkOuts {
		if out.Reconciled || usedOuts[out.EventID] {
			continue
		}
		if !out.OccurredAt.After(in.OccurredAt) {
			continue
		}
		if s.inPairingWindow(in.OccurredAt, out.OccurredAt) {
			return out
		}
	}
	return nil
}

// inPairingWindow 判断签退是否落在签到的配对窗口内
//
// same_day：严格同一自然日。跨夜班次在此策略下不会被配对
// （选择保留为显式策略而非隐式修正，见配置项 attendance.pairing）。
// overnight：同日，或次日且早于 overnight_cutoff。
func (s *attendanceService) inPairingWindow(in, out time.Time) bool {
	inDate := dateOf(in)
	outDate := dateOf(out)

	if inDate.Equal(outDate) {
		return true
	}
	if s.cfg.Attendance.Pairing != config.PairingOvernight {
		return false
	}
	if !outDate.Equal(inDate.AddDate(0, 0, 1)) {
		return false
	}
	cutoff, err := time.Parse("15:04", s.cfg.Attendance.OvernightCutoff)
	if err != nil {
		return false
	}
	outClock := out.Hour()*60 + out.Minute()
	cutoffClock := cutoff.Hour()*60 + cutoff.Minute()
	return outClock < cutoffClock
}

// closeInterval 以签退事件闭合区间并计算工时
// 工时在区间闭合时一次性舍入到 2 位小数，汇总阶段不再二次舍入
func (s *attendanceService) closeInterval(interval *model.AttendanceInterval, out *model.CheckInEvent) {
	t := out.OccurredAt
	interval.CheckOutTime = &t
	interval.CheckOutEventID = &out.EventID

	hours := t.Sub(interval.CheckInTime).Hours()
	if hours < 0 {
		hours = 0
	}
	interval.HoursWorked = decimal.NewFromFloat(hours).Round(2)
}

func (s *attendanceService) ListIntervals(ctx context.Context, req *dto.AttendanceListRequest) ([]dto.AttendanceIntervalResponse, error) {
	from, err := time.Parse("2006-01-02", req.From)
	if err != nil {
		return nil, ErrInvalidTimeRange
	}
	to, err := time.Parse("2006-01-02", req.To)
	if err != nil || from.After(to) {
		return nil, ErrInvalidTimeRange
	}

	intervals, err := s.repo.Attendance.ListByGuardBetween(ctx, req.GuardID, from, to)
	if err != nil {
		s.logger.Error("查询考勤区间失败", zap.Error(err))
		return nil, err
	}

	result := make([]dto.AttendanceIntervalResponse, 0, len(intervals))
	for i := range intervals {
		result = append(result, toIntervalResponse(&intervals[i]))
	}
	return result, nil
}

// ════════════════════════════════════════════════════════════
// ExportLogCSV — 保安日志导出
// ════════════════════════════════════════════════════════════
//
// 外部报表契约（下游对字段语义有依赖，不可更改）：
//
//	Date,Time,Guard Name,Status
//	"2025-01-05","08:00:00","Jane Doe","Present"
//
// 数据行字段全部加引号，故手工拼装而非 encoding/csv
// （encoding/csv 仅在必要时加引号）。

func (s *attendanceService) ExportLogCSV(ctx context.Context, req *dto.ExportLogRequest) (*bytes.Buffer, string, error) {
	from, err := time.Parse("2006-01-02", req.From)
	if err != nil {
		return nil, "", ErrInvalidTimeRange
	}
	to, err := time.Parse("2006-01-02", req.To)
	if err != nil || from.After(to) {
		return nil, "", ErrInvalidTimeRange
	}

	events, err := s.repo.CheckInEvent.ListBetween(ctx, from, to.AddDate(0, 0, 1))
	if err != nil {
		s.logger.Error("查询签到事件失败", zap.Error(err))
		return nil, "", err
	}

	buf := new(bytes.Buffer)
	buf.WriteString("Date,Time,Guard Name,Status\n")
	for i := range events {
		ev := &events[i]
		name := ""
		if ev.Guard != nil {
			name = ev.Guard.FullName()
		}
		fmt.Fprintf(buf, "%q,%q,%q,%q\n",
			ev.OccurredAt.Format("2006-01-02"),
			ev.OccurredAt.Format("15:04:05"),
			name,
			ev.Status,
		)
	}

	filename := fmt.Sprintf("guard_logs_%s_%s.csv", req.From, req.To)
	return buf, filename, nil
}

// ── 辅助函数 ──

// dateOf 截取自然日（去掉时分秒，保留时区）
func dateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func toIntervalResponse(iv *model.AttendanceInterval) dto.AttendanceIntervalResponse {
	resp := dto.AttendanceIntervalResponse{
		IntervalID:  iv.IntervalID,
		GuardID:     iv.GuardID,
		WorkDate:    iv.WorkDate.Format("2006-01-02"),
		CheckInTime: iv.CheckInTime.Format("2006-01-02 15:04:05"),
		HoursWorked: iv.HoursWorked.StringFixed(2),
		Open:        iv.CheckOutTime == nil,
	}
	if iv.CheckOutTime != nil {
		out := iv.CheckOutTime.Format("2006-01-02 15:04:05")
		resp.CheckOutTime = &out
	}
	return resp
}
