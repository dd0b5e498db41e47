package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/Sfundo03/PiranaSecuritySystem-sub000/internal/dto"
	"github.com/Sfundo03/PiranaSecuritySystem-sub000/internal/model"
)

func setupIncidentService() (IncidentService, *testRepos) {
	repos := newTestRepos()
	notifier := NewNotificationService(repos.toRepository(), zap.NewNop())
	svc := NewIncidentService(repos.toRepository(), notifier, zap.NewNop())
	return svc, repos
}

func seedResident(repos *testRepos, id, firstName, lastName string) *model.User {
	resident := &model.User{
		UserID:    id,
		FirstName: firstName,
		LastName:  lastName,
		Role:      model.RoleResident,
		IsActive:  true,
	}
	repos.user.users[id] = resident
	return resident
}

func seedDirector(repos *testRepos, id string) *model.User {
	director := &model.User{
		UserID:    id,
		FirstName: "Ada",
		LastName:  "Director",
		Role:      model.RoleDirector,
		IsActive:  true,
	}
	repos.user.users[id] = director
	return director
}

func TestIncidentService_Create(t *testing.T) {
	svc, repos := setupIncidentService()
	seedResident(repos, "res-1", "Bob", "Li")
	seedDirector(repos, "director-1")

	resp, err := svc.Create(context.Background(), &dto.CreateIncidentRequest{
		Title:       "大门损坏",
		Description: "东门门禁无法关闭",
		Location:    "东门",
	}, "res-1")
	if err != nil {
		t.Fatalf("提交工单应成功, got %v", err)
	}
	if resp.Reference != "INC-000001" {
		t.Errorf("首个工单流水号应为 INC-000001, got %s", resp.Reference)
	}
	if resp.Status != model.IncidentStatusReported {
		t.Errorf("初始状态应为 Reported, got %s", resp.Status)
	}

	// 负责人收到通知
	count, _ := repos.notification.CountUnread(context.Background(), "director-1")
	if count != 1 {
		t.Errorf("负责人应收到 1 条通知, got %d", count)
	}

	// 第二单流水号递增
	resp2, err := svc.Create(context.Background(), &dto.CreateIncidentRequest{
		Title: "路灯故障", Description: "B 区路灯不亮",
	}, "res-1")
	if err != nil {
		t.Fatalf("提交第二单应成功, got %v", err)
	}
	if resp2.Reference != "INC-000002" {
		t.Errorf("第二单流水号应为 INC-000002, got %s", resp2.Reference)
	}
}

func TestIncidentService_GetByID_ResidentOwnership(t *testing.T) {
	svc, repos := setupIncidentService()
	seedResident(repos, "res-1", "Bob", "Li")
	seedResident(repos, "res-2", "Amy", "Chen")

	created, err := svc.Create(context.Background(), &dto.CreateIncidentRequest{
		Title: "大门损坏", Description: "东门门禁无法关闭",
	}, "res-1")
	if err != nil {
		t.Fatalf("提交工单应成功, got %v", err)
	}

	// 本人可查
	if _, err := svc.GetByID(context.Background(), created.IncidentID, "res-1", model.RoleResident); err != nil {
		t.Errorf("本人查询应成功, got %v", err)
	}
	// 其他住户不可查
	if _, err := svc.GetByID(context.Background(), created.IncidentID, "res-2", model.RoleResident); !errors.Is(err, ErrIncidentForbidden) {
		t.Errorf("期望 ErrIncidentForbidden, got %v", err)
	}
	// 负责人可查任意工单
	if _, err := svc.GetByID(context.Background(), created.IncidentID, "director-1", model.RoleDirector); err != nil {
		t.Errorf("负责人查询应成功, got %v", err)
	}

	if _, err := svc.GetByID(context.Background(), "missing", "res-1", model.RoleResident); !errors.Is(err, ErrIncidentNotFound) {
		t.Errorf("期望 ErrIncidentNotFound, got %v", err)
	}
}

func TestIncidentService_UpdateStatus(t *testing.T) {
	svc, repos := setupIncidentService()
	seedResident(repos, "res-1", "Bob", "Li")

	created, err := svc.Create(context.Background(), &dto.CreateIncidentRequest{
		Title: "大门损坏", Description: "东门门禁无法关闭",
	}, "res-1")
	if err != nil {
		t.Fatalf("提交工单应成功, got %v", err)
	}

	resp, err := svc.UpdateStatus(context.Background(), created.IncidentID,
		&dto.UpdateIncidentStatusRequest{Status: model.IncidentStatusInProgress}, "director-1")
	if err != nil {
		t.Fatalf("推进状态应成功, got %v", err)
	}
	if resp.Status != model.IncidentStatusInProgress {
		t.Errorf("状态应为 InProgress, got %s", resp.Status)
	}

	// 住户收到状态变更通知
	count, _ := repos.notification.CountUnread(context.Background(), "res-1")
	if count != 1 {
		t.Errorf("住户应收到 1 条通知, got %d", count)
	}

	if _, err := svc.UpdateStatus(context.Background(), created.IncidentID,
		&dto.UpdateIncidentStatusRequest{Status: model.IncidentStatusResolved}, "director-1"); err != nil {
		t.Fatalf("推进到 Resolved 应成功, got %v", err)
	}
}

func TestIncidentService_UpdateStatus_NoRegression(t *testing.T) {
	svc, repos := setupIncidentService()
	seedResident(repos, "res-1", "Bob", "Li")

	created, err := svc.Create(context.Background(), &dto.CreateIncidentRequest{
		Title: "大门损坏", Description: "东门门禁无法关闭",
	}, "res-1")
	if err != nil {
		t.Fatalf("提交工单应成功, got %v", err)
	}
	if _, err := svc.UpdateStatus(context.Background(), created.IncidentID,
		&dto.UpdateIncidentStatusRequest{Status: model.IncidentStatusResolved}, "director-1"); err != nil {
		t.Fatalf("推进状态应成功, got %v", err)
	}

	// Resolved → Reported 回退：拒绝
	_, err = svc.UpdateStatus(context.Background(), created.IncidentID,
		&dto.UpdateIncidentStatusRequest{Status: model.IncidentStatusReported}, "director-1")
	if !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("期望 ErrInvalidTransition, got %v", err)
	}
}

func TestIncidentService_ListByResident(t *testing.T) {
	svc, repos := setupIncidentService()
	seedResident(repos, "res-1", "Bob", "Li")
	seedResident(repos, "res-2", "Amy", "Chen")

	for _, resident := range []string{"res-1", "res-1", "res-2"} {
		if _, err := svc.Create(context.Background(), &dto.CreateIncidentRequest{
			Title: "t", Description: "d",
		}, resident); err != nil {
			t.Fatalf("提交工单应成功, got %v", err)
		}
	}

	mine, err := svc.ListByResident(context.Background(), "res-1")
	if err != nil {
		t.Fatalf("查询应成功, got %v", err)
	}
	if len(mine) != 2 {
		t.Errorf("res-1 应有 2 个工单, got %d", len(mine))
	}
}
