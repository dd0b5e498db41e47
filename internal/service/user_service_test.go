package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/Sfundo03/PiranaSecuritySystem-sub000/internal/dto"
	"github.com/Sfundo03/PiranaSecuritySystem-sub000/internal/model"
)

func setupUserService() (UserService, *testRepos) {
	repos := newTestRepos()
	svc := NewUserService(repos.toRepository(), zap.NewNop())
	return svc, repos
}

func TestUserService_CreateStaff(t *testing.T) {
	svc, repos := setupUserService()

	resp, err := svc.CreateStaff(context.Background(), &dto.CreateStaffRequest{
		FirstName:   "Jane",
		LastName:    "Doe",
		Email:       "jane@pirana.example",
		Password:    "password123",
		Role:        model.RoleGuard,
		Site:        "Site-A",
		BadgeNumber: "PS-0042",
	}, "director-1")
	if err != nil {
		t.Fatalf("创建员工应成功, got %v", err)
	}
	if resp.Role != model.RoleGuard || !resp.IsActive {
		t.Errorf("员工账号字段不符: %+v", resp)
	}
	if resp.Site == nil || *resp.Site != "Site-A" {
		t.Error("站点应为 Site-A")
	}
	if resp.BadgeNumber == nil || *resp.BadgeNumber != "PS-0042" {
		t.Error("工牌号应为 PS-0042")
	}

	stored := repos.user.users[resp.ID]
	if stored.PasswordHash == "password123" || stored.PasswordHash == "" {
		t.Error("密码必须散列存储")
	}
	if stored.CreatedBy == nil || *stored.CreatedBy != "director-1" {
		t.Error("应记录创建人")
	}
}

func TestUserService_CreateStaff_EmailTaken(t *testing.T) {
	svc, repos := setupUserService()
	seedGuard(repos, "guard-1", "Jane", "Doe")

	_, err := svc.CreateStaff(context.Background(), &dto.CreateStaffRequest{
		FirstName: "Other", LastName: "Person",
		Email:    "jane@pirana.example",
		Password: "password123", Role: model.RoleGuard,
	}, "director-1")
	if !errors.Is(err, ErrEmailTaken) {
		t.Errorf("期望 ErrEmailTaken, got %v", err)
	}
}

func TestUserService_Update(t *testing.T) {
	svc, repos := setupUserService()
	seedGuard(repos, "guard-1", "Jane", "Doe")

	site := "Site-B"
	resp, err := svc.Update(context.Background(), "guard-1", &dto.UpdateUserRequest{
		Phone: "13800000000",
		Site:  &site,
	}, "director-1")
	if err != nil {
		t.Fatalf("更新应成功, got %v", err)
	}
	if resp.Phone != "13800000000" {
		t.Errorf("电话应更新, got %s", resp.Phone)
	}
	if resp.Site == nil || *resp.Site != "Site-B" {
		t.Error("站点应更新为 Site-B")
	}
	// 未提交字段保持不变
	if resp.FirstName != "Jane" {
		t.Errorf("未提交字段不应变化, got %s", resp.FirstName)
	}

	if _, err := svc.Update(context.Background(), "missing", &dto.UpdateUserRequest{}, "director-1"); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("期望 ErrUserNotFound, got %v", err)
	}
}

func TestUserService_Deactivate(t *testing.T) {
	svc, repos := setupUserService()
	seedGuard(repos, "guard-1", "Jane", "Doe")

	if err := svc.Deactivate(context.Background(), "guard-1", "director-1"); err != nil {
		t.Fatalf("停用应成功, got %v", err)
	}
	if repos.user.users["guard-1"].IsActive {
		t.Error("停用后账号应为非在职")
	}

	if err := svc.Deactivate(context.Background(), "missing", "director-1"); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("期望 ErrUserNotFound, got %v", err)
	}
}

func TestUserService_ListGuards(t *testing.T) {
	svc, repos := setupUserService()
	seedGuard(repos, "guard-1", "Jane", "Doe")
	seedGuard(repos, "guard-2", "Tom", "Wu")
	inactive := seedGuard(repos, "guard-3", "Old", "Hand")
	inactive.IsActive = false
	repos.user.users["res-1"] = &model.User{
		UserID: "res-1", FirstName: "Bob", LastName: "Li",
		Role: model.RoleResident, IsActive: true,
	}

	guards, err := svc.ListGuards(context.Background())
	if err != nil {
		t.Fatalf("查询保安应成功, got %v", err)
	}
	if len(guards) != 2 {
		t.Errorf("应仅返回在职保安 2 人, got %d", len(guards))
	}
	for _, g := range guards {
		if g.Role != model.RoleGuard {
			t.Errorf("列表混入非保安角色: %s", g.Role)
		}
	}
}

func TestUserService_List_FilterByRole(t *testing.T) {
	svc, repos := setupUserService()
	seedGuard(repos, "guard-1", "Jane", "Doe")
	repos.user.users["res-1"] = &model.User{
		UserID: "res-1", FirstName: "Bob", LastName: "Li",
		Role: model.RoleResident, IsActive: true,
	}

	list, total, err := svc.List(context.Background(), &dto.UserListRequest{
		Role: model.RoleResident,
	})
	if err != nil {
		t.Fatalf("查询应成功, got %v", err)
	}
	if total != 1 || len(list) != 1 || list[0].Role != model.RoleResident {
		t.Errorf("按角色过滤结果不符: total=%d list=%+v", total, list)
	}
}
