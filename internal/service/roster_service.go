package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	ics "github.com/arran4/golang-ical"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Sfundo03/PiranaSecuritySystem-sub000/internal/dto"
	"github.com/Sfundo03/PiranaSecuritySystem-sub000/internal/model"
	"github.com/Sfundo03/PiranaSecuritySystem-sub000/internal/repository"
	apperrors "github.com/Sfundo03/PiranaSecuritySystem-sub000/pkg/errors"
)

// ── 排班模块业务错误 ──

var (
	ErrInvalidGuardCount = errors.New("排班必须恰好 12 名保安")
	ErrDuplicateGuardIDs = errors.New("排班名单存在重复保安")
	ErrDuplicateRoster   = errors.New("该日期该站点已有排班表")
	ErrRosterNotFound    = errors.New("排班表不存在")
)

// rosterGroupSize 每个班组的人数：白班 / 夜班 / 轮休 各 4 人
const rosterGroupSize = 4

// RosterService 排班业务接口
type RosterService interface {
	// Generate 生成某日某站点的排班表：12 人按 4/4/4 切分为
	// 白班、夜班、轮休。默认按传入顺序切分（可复现），Shuffle=true
	// 时随机打乱后切分。同日同站点唯一。
	Generate(ctx context.Context, req *dto.GenerateRosterRequest, operatorID string) (*dto.RosterResponse, error)
	GetByDate(ctx context.Context, date, site string) (*dto.RosterResponse, error)
	ListByDate(ctx context.Context, date string) ([]dto.RosterResponse, error)
	// GuardCalendarICS 导出某保安自今日起的班次 iCalendar
	// 白班 08:00-16:00，夜班 16:00-24:00，轮休不产生事件
	GuardCalendarICS(ctx context.Context, guardID string) (string, error)
}

type rosterService struct {
	repo     *repository.Repository
	notifier NotificationService
	logger   *zap.Logger
}

// NewRosterService 创建 RosterService 实例
func NewRosterService(repo *repository.Repository, notifier NotificationService, logger *zap.Logger) RosterService {
	return &rosterService{repo: repo, notifier: notifier, logger: logger}
}

func (s *rosterService) Generate(ctx context.Context, req *dto.GenerateRosterRequest, operatorID string) (*dto.RosterResponse, error) {
	if len(req.GuardIDs) != 3*rosterGroupSize {
		return nil, ErrInvalidGuardCount
	}
	seen := make(map[string]bool, len(req.GuardIDs))
	for _, id := range req.GuardIDs {
		if seen[id] {
			return nil, ErrDuplicateGuardIDs
		}
		seen[id] = true
	}

	date, err := time.Parse("2006-01-02", req.RosterDate)
	if err != nil {
		return nil, ErrInvalidTimeRange
	}

	// 逐一校验在职保安身份
	for _, id := range req.GuardIDs {
		guard, err := s.repo.User.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrGuardNotFound
			}
			return nil, err
		}
		if guard.Role != model.RoleGuard {
			return nil, ErrNotAGuard
		}
		if !guard.IsActive {
			return nil, ErrGuardInactive
		}
	}

	ids := make([]string, len(req.GuardIDs))
	copy(ids, req.GuardIDs)
	if req.Shuffle {
		rand.Shuffle(len(ids), func(i, j int) { ids[i], ids[j] = ids[j], ids[i] })
	}

	shifts := make([]model.Shift, 0, len(ids))
	for i, id := range ids {
		var shiftType string
		switch {
		case i < rosterGroupSize:
			shiftType = model.ShiftTypeDay
		case i < 2*rosterGroupSize:
			shiftType = model.ShiftTypeNight
		default:
			shiftType = model.ShiftTypeOff
		}
		shifts = append(shifts, model.Shift{GuardID: id, ShiftType: shiftType})
	}

	roster := &model.ShiftRoster{
		RosterDate: date,
		Site:       req.Site,
	}
	if err := s.repo.Roster.CreateWithShifts(ctx, roster, shifts); err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			return nil, ErrDuplicateRoster
		}
		s.logger.Error("写入排班表失败", zap.String("site", req.Site), zap.Error(err))
		return nil, err
	}

	s.logger.Info("排班表已生成",
		zap.String("roster_id", roster.RosterID),
		zap.String("site", req.Site),
		zap.String("date", req.RosterDate),
		zap.String("operator_id", operatorID))

	// 通知失败不回滚排班
	url := "/rosters/" + roster.RosterID
	for _, sh := range shifts {
		msg := fmt.Sprintf("您 %s 在 %s 的班次已排定：%s", req.RosterDate, req.Site, sh.ShiftType)
		if err := s.notifier.Notify(ctx, sh.GuardID, model.NotifyTypeRoster, msg, &url); err != nil {
			s.logger.Warn("排班通知发送失败", zap.String("guard_id", sh.GuardID), zap.Error(err))
		}
	}

	created, err := s.repo.Roster.GetByID(ctx, roster.RosterID)
	if err != nil {
		return nil, err
	}
	resp := toRosterResponse(created)
	return &resp, nil
}

func (s *rosterService) GetByDate(ctx context.Context, date, site string) (*dto.RosterResponse, error) {
	d, err := time.Parse("2006-01-02", date)
	if err != nil {
		return nil, ErrInvalidTimeRange
	}

	roster, err := s.repo.Roster.GetByDateSite(ctx, d, site)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRosterNotFound
		}
		s.logger.Error("查询排班表失败", zap.Error(err))
		return nil, err
	}
	resp := toRosterResponse(roster)
	return &resp, nil
}

func (s *rosterService) ListByDate(ctx context.Context, date string) ([]dto.RosterResponse, error) {
	d, err := time.Parse("2006-01-02", date)
	if err != nil {
		return nil, ErrInvalidTimeRange
	}

	rosters, err := s.repo.Roster.ListByDate(ctx, d)
	if err != nil {
		s.logger.Error("查询排班表失败", zap.Error(err))
		return nil, err
	}

	result := make([]dto.RosterResponse, 0, len(rosters))
	for i := range rosters {
		result = append(result, toRosterResponse(&rosters[i]))
	}
	return result, nil
}

// ── ICS 日历导出 ──

// 班次时间窗（站点本地时间）
var shiftWindows = map[string][2]int{
	model.ShiftTypeDay:   {8, 16},
	model.ShiftTypeNight: {16, 24},
}

func (s *rosterService) GuardCalendarICS(ctx context.Context, guardID string) (string, error) {
	guard, err := s.repo.User.GetByID(ctx, guardID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrGuardNotFound
		}
		return "", err
	}

	shifts, err := s.repo.Roster.ListShiftsByGuard(ctx, guardID, dateOf(time.Now()))
	if err != nil {
		s.logger.Error("查询保安班次失败", zap.Error(err))
		return "", err
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//Pirana Security//Shift Roster//CN")

	for i := range shifts {
		sh := &shifts[i]
		window, ok := shiftWindows[sh.ShiftType]
		if !ok || sh.Roster == nil {
			continue // 轮休不产生事件
		}

		day := sh.Roster.RosterDate
		start := time.Date(day.Year(), day.Month(), day.Day(), window[0], 0, 0, 0, time.Local)
		end := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.Local).
			Add(time.Duration(window[1]) * time.Hour)

		event := cal.AddEvent(sh.ShiftID)
		event.SetCreatedTime(time.Now())
		event.SetDtStampTime(time.Now())
		event.SetStartAt(start)
		event.SetEndAt(end)
		event.SetSummary(fmt.Sprintf("%s 班 · %s", sh.ShiftType, sh.Roster.Site))
		event.SetLocation(sh.Roster.Site)
		event.SetDescription(fmt.Sprintf("%s 的执勤班次", guard.FullName()))
	}

	return cal.Serialize(), nil
}

// ── 辅助函数 ──

func toRosterResponse(r *model.ShiftRoster) dto.RosterResponse {
	resp := dto.RosterResponse{
		RosterID:   r.RosterID,
		RosterDate: r.RosterDate.Format("2006-01-02"),
		Site:       r.Site,
		Shifts:     make([]dto.ShiftResponse, 0, len(r.Shifts)),
	}
	for i := range r.Shifts {
		sh := &r.Shifts[i]
		sr := dto.ShiftResponse{
			ShiftID:   sh.ShiftID,
			GuardID:   sh.GuardID,
			ShiftType: sh.ShiftType,
		}
		if sh.Guard != nil {
			sr.GuardName = sh.Guard.FullName()
		}
		resp.Shifts = append(resp.Shifts, sr)
	}
	return resp
}
