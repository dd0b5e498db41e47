package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/Sfundo03/PiranaSecuritySystem-sub000/internal/dto"
	"github.com/Sfundo03/PiranaSecuritySystem-sub000/internal/model"
)

func setupNotificationService() (NotificationService, *testRepos) {
	repos := newTestRepos()
	svc := NewNotificationService(repos.toRepository(), zap.NewNop())
	return svc, repos
}

func TestNotificationService_Notify(t *testing.T) {
	svc, repos := setupNotificationService()
	seedGuard(repos, "guard-1", "Jane", "Doe")

	url := "/payrolls/p-1"
	if err := svc.Notify(context.Background(), "guard-1", model.NotifyTypePayroll, "工资单已生成", &url); err != nil {
		t.Fatalf("写入通知应成功, got %v", err)
	}

	count, _ := svc.UnreadCount(context.Background(), "guard-1")
	if count != 1 {
		t.Errorf("未读数应为 1, got %d", count)
	}
}

func TestNotificationService_Notify_PropagatesError(t *testing.T) {
	svc, repos := setupNotificationService()
	storeErr := errors.New("notification store down")
	repos.notification.failErr = storeErr

	// 写入失败必须上抛，由调用方决定是否继续
	err := svc.Notify(context.Background(), "guard-1", model.NotifyTypePayroll, "msg", nil)
	if !errors.Is(err, storeErr) {
		t.Errorf("写入失败应上抛, got %v", err)
	}
}

func TestNotificationService_NotifyRole(t *testing.T) {
	svc, repos := setupNotificationService()
	seedGuard(repos, "guard-1", "Jane", "Doe")
	seedGuard(repos, "guard-2", "Tom", "Wu")
	repos.user.users["director-1"] = &model.User{
		UserID: "director-1", FirstName: "Ada", LastName: "Director",
		Role: model.RoleDirector, IsActive: true,
	}

	if err := svc.NotifyRole(context.Background(), model.RoleGuard, model.NotifyTypeTraining, "新培训课程", nil); err != nil {
		t.Fatalf("按角色通知应成功, got %v", err)
	}

	for _, id := range []string{"guard-1", "guard-2"} {
		count, _ := svc.UnreadCount(context.Background(), id)
		if count != 1 {
			t.Errorf("保安 %s 未读数应为 1, got %d", id, count)
		}
	}
	count, _ := svc.UnreadCount(context.Background(), "director-1")
	if count != 0 {
		t.Errorf("其他角色不应收到通知, got %d", count)
	}
}

func TestNotificationService_NotifyRole_ReturnsFirstError(t *testing.T) {
	svc, repos := setupNotificationService()
	seedGuard(repos, "guard-1", "Jane", "Doe")
	storeErr := errors.New("notification store down")
	repos.notification.failErr = storeErr

	err := svc.NotifyRole(context.Background(), model.RoleGuard, model.NotifyTypeTraining, "msg", nil)
	if !errors.Is(err, storeErr) {
		t.Errorf("应返回首个写入错误, got %v", err)
	}
}

func TestNotificationService_MarkRead(t *testing.T) {
	svc, repos := setupNotificationService()
	seedGuard(repos, "guard-1", "Jane", "Doe")
	seedGuard(repos, "guard-2", "Tom", "Wu")

	if err := svc.Notify(context.Background(), "guard-1", model.NotifyTypeRoster, "排班已发布", nil); err != nil {
		t.Fatalf("写入通知应成功, got %v", err)
	}
	var notifyID string
	for id := range repos.notification.notifications {
		notifyID = id
	}

	// 非本人标记：拒绝
	if err := svc.MarkRead(context.Background(), notifyID, "guard-2"); !errors.Is(err, ErrNotificationForbidden) {
		t.Errorf("期望 ErrNotificationForbidden, got %v", err)
	}

	if err := svc.MarkRead(context.Background(), notifyID, "guard-1"); err != nil {
		t.Fatalf("本人标记应成功, got %v", err)
	}
	count, _ := svc.UnreadCount(context.Background(), "guard-1")
	if count != 0 {
		t.Errorf("已读后未读数应为 0, got %d", count)
	}

	if err := svc.MarkRead(context.Background(), "missing", "guard-1"); !errors.Is(err, ErrNotificationNotFound) {
		t.Errorf("期望 ErrNotificationNotFound, got %v", err)
	}
}

func TestNotificationService_MarkAllRead(t *testing.T) {
	svc, repos := setupNotificationService()
	seedGuard(repos, "guard-1", "Jane", "Doe")

	for i := 0; i < 3; i++ {
		if err := svc.Notify(context.Background(), "guard-1", model.NotifyTypeRoster, "msg", nil); err != nil {
			t.Fatalf("写入通知应成功, got %v", err)
		}
	}
	if err := svc.MarkAllRead(context.Background(), "guard-1"); err != nil {
		t.Fatalf("全部已读应成功, got %v", err)
	}
	count, _ := svc.UnreadCount(context.Background(), "guard-1")
	if count != 0 {
		t.Errorf("全部已读后未读数应为 0, got %d", count)
	}
}

func TestNotificationService_List(t *testing.T) {
	svc, repos := setupNotificationService()
	seedGuard(repos, "guard-1", "Jane", "Doe")

	if err := svc.Notify(context.Background(), "guard-1", model.NotifyTypeIncident, "事件已受理", nil); err != nil {
		t.Fatalf("写入通知应成功, got %v", err)
	}

	list, total, err := svc.List(context.Background(), "guard-1", &dto.PaginationRequest{Page: 1, PageSize: 10})
	if err != nil {
		t.Fatalf("查询通知应成功, got %v", err)
	}
	if total != 1 || len(list) != 1 {
		t.Fatalf("应有 1 条通知, got total=%d len=%d", total, len(list))
	}
	if list[0].Message != "事件已受理" || list[0].IsRead {
		t.Errorf("通知内容不符: %+v", list[0])
	}
}
