package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Sfundo03/PiranaSecuritySystem-sub000/internal/dto"
	"github.com/Sfundo03/PiranaSecuritySystem-sub000/internal/model"
	"github.com/Sfundo03/PiranaSecuritySystem-sub000/internal/repository"
)

// ── 通知模块业务错误 ──

var (
	ErrNotificationNotFound  = errors.New("通知不存在")
	ErrNotificationForbidden = errors.New("无权操作该通知")
)

// NotificationService 通知业务接口
//
// 通知为尽力而为的副作用：Notify / NotifyRole 的错误必须返回给调用方，
// 由调用方决定记日志后继续（而非在本层静默吞掉）。通知写入失败
// 不应使触发它的主操作失败。
type NotificationService interface {
	// Notify 向单个用户写入一条通知
	Notify(ctx context.Context, userID, notifyType, message string, relatedURL *string) error
	// NotifyRole 向某角色全部在职用户写入通知（如：工资单生成后通知全部负责人）
	NotifyRole(ctx context.Context, role, notifyType, message string, relatedURL *string) error
	// List 查询用户通知（倒序分页）
	List(ctx context.Context, userID string, page *dto.PaginationRequest) ([]dto.NotificationResponse, int64, error)
	// UnreadCount 未读数
	UnreadCount(ctx context.Context, userID string) (int64, error)
	// MarkRead 标记单条已读（仅本人）
	MarkRead(ctx context.Context, notificationID, userID string) error
	// MarkAllRead 全部标记已读
	MarkAllRead(ctx context.Context, userID string) error
}

type notificationService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewNotificationService 创建 NotificationService 实例
func NewNotificationService(repo *repository.Repository, logger *zap.Logger) NotificationService {
	return &notificationService{repo: repo, logger: logger}
}

func (s *notificationService) Notify(ctx context.Context, userID, notifyType, message string, relatedURL *string) error {
	n := &model.Notification{
		UserID:     userID,
		Type:       notifyType,
		Message:    message,
		RelatedURL: relatedURL,
	}
	return s.repo.Notification.Create(ctx, n)
}

func (s *notificationService) NotifyRole(ctx context.Context, role, notifyType, message string, relatedURL *string) error {
	users, err := s.repo.User.ListByRole(ctx, role)
	if err != nil {
		return err
	}

	// 部分失败时继续写入剩余用户，最后返回首个错误
	var firstErr error
	for _, u := range users {
		if err := s.Notify(ctx, u.UserID, notifyType, message, relatedURL); err != nil {
			if firstErr == nil {
				firstErr = err
			}
			s.logger.Warn("写入通知失败",
				zap.String("user_id", u.UserID),
				zap.String("type", notifyType),
				zap.Error(err),
			)
		}
	}
	return firstErr
}

func (s *notificationService) List(ctx context.Context, userID string, page *dto.PaginationRequest) ([]dto.NotificationResponse, int64, error) {
	notifications, total, err := s.repo.Notification.ListByUser(ctx, userID, page.GetOffset(), page.GetPageSize())
	if err != nil {
		s.logger.Error("查询通知列表失败", zap.Error(err))
		return nil, 0, err
	}

	result := make([]dto.NotificationResponse, 0, len(notifications))
	for _, n := range notifications {
		result = append(result, toNotificationResponse(&n))
	}
	return result, total, nil
}

func (s *notificationService) UnreadCount(ctx context.Context, userID string) (int64, error) {
	return s.repo.Notification.CountUnread(ctx, userID)
}

func (s *notificationService) MarkRead(ctx context.Context, notificationID, userID string) error {
	n, err := s.repo.Notification.GetByID(ctx, notificationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotificationNotFound
		}
		return err
	}
	if n.UserID != userID {
		return ErrNotificationForbidden
	}
	return s.repo.Notification.MarkRead(ctx, notificationID)
}

func (s *notificationService) MarkAllRead(ctx context.Context, userID string) error {
	return s.repo.Notification.MarkAllRead(ctx, userID)
}

func toNotificationResponse(n *model.Notification) dto.NotificationResponse {
	return dto.NotificationResponse{
		NotificationID: n.NotificationID,
		Type:           n.Type,
		Message:        n.Message,
		IsRead:         n.IsRead,
		RelatedURL:     n.RelatedURL,
		CreatedAt:      n.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}
