package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/Sfundo03/PiranaSecuritySystem-sub000/internal/model"
	"github.com/Sfundo03/PiranaSecuritySystem-sub000/internal/repository"
	apperrors "github.com/Sfundo03/PiranaSecuritySystem-sub000/pkg/errors"
)

// ── Mock UserRepository ──

type mockUserRepo struct {
	users map[string]*model.User
	seq   int
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*model.User)}
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	for _, u := range m.users {
		if u.Email == user.Email {
			return apperrors.ErrConflict
		}
	}
	if user.UserID == "" {
		m.seq++
		user.UserID = fmt.Sprintf("user-%d", m.seq)
	}
	m.users[user.UserID] = user
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) Update(_ context.Context, user *model.User) error {
	m.users[user.UserID] = user
	return nil
}

func (m *mockUserRepo) Deactivate(_ context.Context, id string, _ string) error {
	if u, ok := m.users[id]; ok {
		u.IsActive = false
	}
	return nil
}

func (m *mockUserRepo) List(_ context.Context, role string, offset, limit int) ([]model.User, int64, error) {
	var result []model.User
	for _, u := range m.users {
		if role != "" && u.Role != role {
			continue
		}
		result = append(result, *u)
	}
	return result, int64(len(result)), nil
}

func (m *mockUserRepo) ListByRole(_ context.Context, role string) ([]model.User, error) {
	var result []model.User
	for _, u := range m.users {
		if u.Role == role && u.IsActive {
			result = append(result, *u)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].UserID < result[j].UserID })
	return result, nil
}

func (m *mockUserRepo) GetActiveGuardByFirstName(_ context.Context, firstName string) (*model.User, error) {
	for _, u := range m.users {
		if u.Role == model.RoleGuard && u.IsActive && strings.EqualFold(u.FirstName, firstName) {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

// ── Mock CheckInEventRepository ──

type mockCheckInRepo struct {
	events []*model.CheckInEvent
	seq    int
}

func newMockCheckInRepo() *mockCheckInRepo {
	return &mockCheckInRepo{}
}

func (m *mockCheckInRepo) Create(_ context.Context, event *model.CheckInEvent) error {
	if event.EventID == "" {
		m.seq++
		event.EventID = fmt.Sprintf("ev-%d", m.seq)
	}
	m.events = append(m.events, event)
	return nil
}

func (m *mockCheckInRepo) ListByGuardBetween(_ context.Context, guardID string, from, to time.Time) ([]model.CheckInEvent, error) {
	var result []model.CheckInEvent
	for _, ev := range m.events {
		if ev.GuardID != guardID {
			continue
		}
		if ev.OccurredAt.Before(from) || !ev.OccurredAt.Before(to) {
			continue
		}
		result = append(result, *ev)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].OccurredAt.Before(result[j].OccurredAt) })
	return result, nil
}

func (m *mockCheckInRepo) ListUnreconciledCheckIns(_ context.Context, guardID string, from, to time.Time) ([]model.CheckInEvent, error) {
	var result []model.CheckInEvent
	for _, ev := range m.events {
		if ev.GuardID != guardID || ev.Kind != model.CheckKindIn || ev.Reconciled {
			continue
		}
		if ev.OccurredAt.Before(from) || !ev.OccurredAt.Before(to) {
			continue
		}
		result = append(result, *ev)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].OccurredAt.Before(result[j].OccurredAt) })
	return result, nil
}

func (m *mockCheckInRepo) ListBetween(_ context.Context, from, to time.Time) ([]model.CheckInEvent, error) {
	var result []model.CheckInEvent
	for _, ev := range m.events {
		if ev.OccurredAt.Before(from) || !ev.OccurredAt.Before(to) {
			continue
		}
		result = append(result, *ev)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].OccurredAt.Before(result[j].OccurredAt) })
	return result, nil
}

func (m *mockCheckInRepo) MarkReconciled(_ context.Context, eventIDs []string) error {
	for _, id := range eventIDs {
		for _, ev := range m.events {
			if ev.EventID == id {
				ev.Reconciled = true
			}
		}
	}
	return nil
}

// ── Mock AttendanceIntervalRepository ──

type mockAttendanceRepo struct {
	intervals map[string]*model.AttendanceInterval // key: CheckInEventID
	seq       int
}

func newMockAttendanceRepo() *mockAttendanceRepo {
	return &mockAttendanceRepo{intervals: make(map[string]*model.AttendanceInterval)}
}

func (m *mockAttendanceRepo) Create(_ context.Context, interval *model.AttendanceInterval) error {
	if _, ok := m.intervals[interval.CheckInEventID]; ok {
		return apperrors.ErrConflict
	}
	if interval.IntervalID == "" {
		m.seq++
		interval.IntervalID = fmt.Sprintf("iv-%d", m.seq)
	}
	m.intervals[interval.CheckInEventID] = interval
	return nil
}

func (m *mockAttendanceRepo) Update(_ context.Context, interval *model.AttendanceInterval) error {
	m.intervals[interval.CheckInEventID] = interval
	return nil
}

func (m *mockAttendanceRepo) GetByCheckInEvent(_ context.Context, eventID string) (*model.AttendanceInterval, error) {
	if iv, ok := m.intervals[eventID]; ok {
		return iv, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockAttendanceRepo) ListByGuardBetween(_ context.Context, guardID string, from, to time.Time) ([]model.AttendanceInterval, error) {
	var result []model.AttendanceInterval
	for _, iv := range m.intervals {
		if iv.GuardID != guardID {
			continue
		}
		if iv.WorkDate.Before(from) || iv.WorkDate.After(to) {
			continue
		}
		result = append(result, *iv)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CheckInTime.Before(result[j].CheckInTime) })
	return result, nil
}

func (m *mockAttendanceRepo) ListClosedByGuardBetween(_ context.Context, guardID string, from, to time.Time) ([]model.AttendanceInterval, error) {
	all, _ := m.ListByGuardBetween(context.Background(), guardID, from, to)
	var result []model.AttendanceInterval
	for _, iv := range all {
		if iv.CheckOutTime != nil {
			result = append(result, iv)
		}
	}
	return result, nil
}

// ── Mock GuardRateRepository ──

type mockRateRepo struct {
	rates []*model.GuardRate
	seq   int
}

func newMockRateRepo() *mockRateRepo {
	return &mockRateRepo{}
}

func (m *mockRateRepo) GetActiveByGuard(_ context.Context, guardID string) (*model.GuardRate, error) {
	var active *model.GuardRate
	for _, r := range m.rates {
		if r.GuardID != guardID || !r.IsActive {
			continue
		}
		if active == nil || r.EffectiveDate.After(active.EffectiveDate) {
			active = r
		}
	}
	if active == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return active, nil
}

func (m *mockRateRepo) ListByGuard(_ context.Context, guardID string) ([]model.GuardRate, error) {
	var result []model.GuardRate
	for _, r := range m.rates {
		if r.GuardID == guardID {
			result = append(result, *r)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].EffectiveDate.After(result[j].EffectiveDate) })
	return result, nil
}

func (m *mockRateRepo) ActivateNew(_ context.Context, rate *model.GuardRate) error {
	for _, r := range m.rates {
		if r.GuardID == rate.GuardID {
			r.IsActive = false
		}
	}
	if rate.RateID == "" {
		m.seq++
		rate.RateID = fmt.Sprintf("rate-%d", m.seq)
	}
	rate.IsActive = true
	m.rates = append(m.rates, rate)
	return nil
}

// ── Mock TaxConfigRepository ──

type mockTaxRepo struct {
	configs []*model.TaxConfiguration
	seq     int
}

func newMockTaxRepo() *mockTaxRepo {
	return &mockTaxRepo{}
}

func (m *mockTaxRepo) GetActive(_ context.Context) (*model.TaxConfiguration, error) {
	for i := len(m.configs) - 1; i >= 0; i-- {
		if m.configs[i].IsActive {
			return m.configs[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockTaxRepo) Create(_ context.Context, cfg *model.TaxConfiguration) error {
	if cfg.TaxConfigID == "" {
		m.seq++
		cfg.TaxConfigID = fmt.Sprintf("tax-%d", m.seq)
	}
	m.configs = append(m.configs, cfg)
	return nil
}

func (m *mockTaxRepo) ActivateNew(_ context.Context, cfg *model.TaxConfiguration) error {
	for _, c := range m.configs {
		c.IsActive = false
	}
	cfg.IsActive = true
	return m.Create(context.Background(), cfg)
}

// ── Mock PayrollRepository ──

type mockPayrollRepo struct {
	payrolls map[string]*model.Payroll
	seq      int
}

func newMockPayrollRepo() *mockPayrollRepo {
	return &mockPayrollRepo{payrolls: make(map[string]*model.Payroll)}
}

func (m *mockPayrollRepo) Create(_ context.Context, payroll *model.Payroll) error {
	for _, p := range m.payrolls {
		if p.GuardID == payroll.GuardID && p.PeriodYear == payroll.PeriodYear && p.PeriodMonth == payroll.PeriodMonth {
			return apperrors.ErrConflict
		}
	}
	if payroll.PayrollID == "" {
		m.seq++
		payroll.PayrollID = fmt.Sprintf("pay-%d", m.seq)
	}
	m.payrolls[payroll.PayrollID] = payroll
	return nil
}

func (m *mockPayrollRepo) GetByID(_ context.Context, id string) (*model.Payroll, error) {
	if p, ok := m.payrolls[id]; ok {
		return p, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockPayrollRepo) ExistsForMonth(_ context.Context, guardID string, year, month int) (bool, error) {
	for _, p := range m.payrolls {
		if p.GuardID == guardID && p.PeriodYear == year && p.PeriodMonth == month {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockPayrollRepo) ListByGuard(_ context.Context, guardID string, offset, limit int) ([]model.Payroll, int64, error) {
	var result []model.Payroll
	for _, p := range m.payrolls {
		if p.GuardID == guardID {
			result = append(result, *p)
		}
	}
	return result, int64(len(result)), nil
}

func (m *mockPayrollRepo) ListByMonth(_ context.Context, year, month int) ([]model.Payroll, error) {
	var result []model.Payroll
	for _, p := range m.payrolls {
		if p.PeriodYear == year && p.PeriodMonth == month {
			result = append(result, *p)
		}
	}
	return result, nil
}

func (m *mockPayrollRepo) Delete(_ context.Context, id string) error {
	delete(m.payrolls, id)
	return nil
}

// ── Mock RosterRepository ──

type mockRosterRepo struct {
	rosters map[string]*model.ShiftRoster
	seq     int
}

func newMockRosterRepo() *mockRosterRepo {
	return &mockRosterRepo{rosters: make(map[string]*model.ShiftRoster)}
}

func (m *mockRosterRepo) CreateWithShifts(_ context.Context, roster *model.ShiftRoster, shifts []model.Shift) error {
	for _, r := range m.rosters {
		if r.RosterDate.Equal(roster.RosterDate) && r.Site == roster.Site {
			return apperrors.ErrConflict
		}
	}
	if roster.RosterID == "" {
		m.seq++
		roster.RosterID = fmt.Sprintf("roster-%d", m.seq)
	}
	for i := range shifts {
		shifts[i].RosterID = roster.RosterID
		if shifts[i].ShiftID == "" {
			shifts[i].ShiftID = fmt.Sprintf("%s-shift-%d", roster.RosterID, i+1)
		}
	}
	roster.Shifts = shifts
	m.rosters[roster.RosterID] = roster
	return nil
}

func (m *mockRosterRepo) GetByID(_ context.Context, id string) (*model.ShiftRoster, error) {
	if r, ok := m.rosters[id]; ok {
		return r, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockRosterRepo) GetByDateSite(_ context.Context, date time.Time, site string) (*model.ShiftRoster, error) {
	for _, r := range m.rosters {
		if r.RosterDate.Format("2006-01-02") == date.Format("2006-01-02") && r.Site == site {
			return r, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockRosterRepo) ListByDate(_ context.Context, date time.Time) ([]model.ShiftRoster, error) {
	var result []model.ShiftRoster
	for _, r := range m.rosters {
		if r.RosterDate.Format("2006-01-02") == date.Format("2006-01-02") {
			result = append(result, *r)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Site < result[j].Site })
	return result, nil
}

func (m *mockRosterRepo) ListShiftsByGuard(_ context.Context, guardID string, from time.Time) ([]model.Shift, error) {
	var result []model.Shift
	for _, r := range m.rosters {
		if r.RosterDate.Before(from) {
			continue
		}
		for _, sh := range r.Shifts {
			if sh.GuardID == guardID {
				shCopy := sh
				rCopy := *r
				shCopy.Roster = &rCopy
				result = append(result, shCopy)
			}
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Roster.RosterDate.Before(result[j].Roster.RosterDate)
	})
	return result, nil
}

// ── Mock IncidentRepository ──

type mockIncidentRepo struct {
	incidents map[string]*model.Incident
	seq       int
}

func newMockIncidentRepo() *mockIncidentRepo {
	return &mockIncidentRepo{incidents: make(map[string]*model.Incident)}
}

func (m *mockIncidentRepo) Create(_ context.Context, incident *model.Incident) error {
	if incident.IncidentID == "" {
		m.seq++
		incident.IncidentID = fmt.Sprintf("inc-%d", m.seq)
	}
	m.incidents[incident.IncidentID] = incident
	return nil
}

func (m *mockIncidentRepo) GetByID(_ context.Context, id string) (*model.Incident, error) {
	if in, ok := m.incidents[id]; ok {
		return in, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockIncidentRepo) Update(_ context.Context, incident *model.Incident) error {
	m.incidents[incident.IncidentID] = incident
	return nil
}

func (m *mockIncidentRepo) List(_ context.Context, status string, offset, limit int) ([]model.Incident, int64, error) {
	var result []model.Incident
	for _, in := range m.incidents {
		if status != "" && in.Status != status {
			continue
		}
		result = append(result, *in)
	}
	return result, int64(len(result)), nil
}

func (m *mockIncidentRepo) ListByResident(_ context.Context, residentID string) ([]model.Incident, error) {
	var result []model.Incident
	for _, in := range m.incidents {
		if in.ResidentID == residentID {
			result = append(result, *in)
		}
	}
	return result, nil
}

func (m *mockIncidentRepo) Count(_ context.Context) (int64, error) {
	return int64(len(m.incidents)), nil
}

// ── Mock TrainingRepository ──

type mockTrainingRepo struct {
	sessions    map[string]*model.TrainingSession
	enrollments []*model.TrainingEnrollment
	seq         int
}

func newMockTrainingRepo() *mockTrainingRepo {
	return &mockTrainingRepo{sessions: make(map[string]*model.TrainingSession)}
}

func (m *mockTrainingRepo) CreateSession(_ context.Context, session *model.TrainingSession) error {
	if session.SessionID == "" {
		m.seq++
		session.SessionID = fmt.Sprintf("sess-%d", m.seq)
	}
	m.sessions[session.SessionID] = session
	return nil
}

func (m *mockTrainingRepo) GetSession(_ context.Context, id string) (*model.TrainingSession, error) {
	s, ok := m.sessions[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	sCopy := *s
	sCopy.Enrollments = nil
	for _, e := range m.enrollments {
		if e.SessionID == id {
			sCopy.Enrollments = append(sCopy.Enrollments, *e)
		}
	}
	return &sCopy, nil
}

func (m *mockTrainingRepo) ListSessions(_ context.Context, offset, limit int) ([]model.TrainingSession, int64, error) {
	var result []model.TrainingSession
	for _, s := range m.sessions {
		result = append(result, *s)
	}
	return result, int64(len(result)), nil
}

func (m *mockTrainingRepo) ListSessionsByInstructor(_ context.Context, instructorID string) ([]model.TrainingSession, error) {
	var result []model.TrainingSession
	for _, s := range m.sessions {
		if s.InstructorID == instructorID {
			result = append(result, *s)
		}
	}
	return result, nil
}

func (m *mockTrainingRepo) ListSessionsByGuard(_ context.Context, guardID string) ([]model.TrainingSession, error) {
	var result []model.TrainingSession
	for _, e := range m.enrollments {
		if e.GuardID != guardID {
			continue
		}
		if s, ok := m.sessions[e.SessionID]; ok {
			result = append(result, *s)
		}
	}
	return result, nil
}

func (m *mockTrainingRepo) CreateEnrollment(_ context.Context, enrollment *model.TrainingEnrollment) error {
	for _, e := range m.enrollments {
		if e.SessionID == enrollment.SessionID && e.GuardID == enrollment.GuardID {
			return apperrors.ErrConflict
		}
	}
	if enrollment.EnrollmentID == "" {
		m.seq++
		enrollment.EnrollmentID = fmt.Sprintf("enr-%d", m.seq)
	}
	m.enrollments = append(m.enrollments, enrollment)
	return nil
}

func (m *mockTrainingRepo) CountEnrollments(_ context.Context, sessionID string) (int64, error) {
	var count int64
	for _, e := range m.enrollments {
		if e.SessionID == sessionID {
			count++
		}
	}
	return count, nil
}

// ── Mock NotificationRepository ──

// mockNotificationRepo 支持注入 failErr 模拟通知写入失败
type mockNotificationRepo struct {
	notifications map[string]*model.Notification
	seq           int
	failErr       error
}

func newMockNotificationRepo() *mockNotificationRepo {
	return &mockNotificationRepo{notifications: make(map[string]*model.Notification)}
}

func (m *mockNotificationRepo) Create(_ context.Context, notification *model.Notification) error {
	if m.failErr != nil {
		return m.failErr
	}
	if notification.NotificationID == "" {
		m.seq++
		notification.NotificationID = fmt.Sprintf("notify-%d", m.seq)
	}
	m.notifications[notification.NotificationID] = notification
	return nil
}

func (m *mockNotificationRepo) GetByID(_ context.Context, id string) (*model.Notification, error) {
	if n, ok := m.notifications[id]; ok {
		return n, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockNotificationRepo) ListByUser(_ context.Context, userID string, offset, limit int) ([]model.Notification, int64, error) {
	var result []model.Notification
	for _, n := range m.notifications {
		if n.UserID == userID {
			result = append(result, *n)
		}
	}
	return result, int64(len(result)), nil
}

func (m *mockNotificationRepo) CountUnread(_ context.Context, userID string) (int64, error) {
	var count int64
	for _, n := range m.notifications {
		if n.UserID == userID && !n.IsRead {
			count++
		}
	}
	return count, nil
}

func (m *mockNotificationRepo) MarkRead(_ context.Context, id string) error {
	if n, ok := m.notifications[id]; ok {
		n.IsRead = true
	}
	return nil
}

func (m *mockNotificationRepo) MarkAllRead(_ context.Context, userID string) error {
	for _, n := range m.notifications {
		if n.UserID == userID {
			n.IsRead = true
		}
	}
	return nil
}

// ── 测试辅助：聚合全部 mock repo ──

type testRepos struct {
	user         *mockUserRepo
	checkIn      *mockCheckInRepo
	attendance   *mockAttendanceRepo
	rate         *mockRateRepo
	tax          *mockTaxRepo
	payroll      *mockPayrollRepo
	roster       *mockRosterRepo
	incident     *mockIncidentRepo
	training     *mockTrainingRepo
	notification *mockNotificationRepo
}

func newTestRepos() *testRepos {
	return &testRepos{
		user:         newMockUserRepo(),
		checkIn:      newMockCheckInRepo(),
		attendance:   newMockAttendanceRepo(),
		rate:         newMockRateRepo(),
		tax:          newMockTaxRepo(),
		payroll:      newMockPayrollRepo(),
		roster:       newMockRosterRepo(),
		incident:     newMockIncidentRepo(),
		training:     newMockTrainingRepo(),
		notification: newMockNotificationRepo(),
	}
}

func (r *testRepos) toRepository() *repository.Repository {
	return &repository.Repository{
		User:         r.user,
		CheckInEvent: r.checkIn,
		Attendance:   r.attendance,
		GuardRate:    r.rate,
		TaxConfig:    r.tax,
		Payroll:      r.payroll,
		Roster:       r.roster,
		Incident:     r.incident,
		Training:     r.training,
		Notification: r.notification,
	}
}

// seedGuard 种子在职保安
func seedGuard(repos *testRepos, id, firstName, lastName string) *model.User {
	site := "Site-A"
	guard := &model.User{
		UserID:    id,
		FirstName: firstName,
		LastName:  lastName,
		Email:     strings.ToLower(firstName) + "@pirana.example",
		Role:      model.RoleGuard,
		Site:      &site,
		IsActive:  true,
	}
	repos.user.users[id] = guard
	return guard
}
