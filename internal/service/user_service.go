package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/Sfundo03/PiranaSecuritySystem-sub000/internal/dto"
	"github.com/Sfundo03/PiranaSecuritySystem-sub000/internal/model"
	"github.com/Sfundo03/PiranaSecuritySystem-sub000/internal/repository"
	apperrors "github.com/Sfundo03/PiranaSecuritySystem-sub000/pkg/errors"
)

// UserService 用户管理业务接口（负责人操作）
type UserService interface {
	// CreateStaff 创建员工账号（guard / instructor / director）
	CreateStaff(ctx context.Context, req *dto.CreateStaffRequest, operatorID string) (*dto.UserResponse, error)
	Get(ctx context.Context, userID string) (*dto.UserResponse, error)
	List(ctx context.Context, req *dto.UserListRequest) ([]dto.UserResponse, int64, error)
	// ListGuards 全体在职保安（排班选人使用）
	ListGuards(ctx context.Context) ([]dto.UserResponse, error)
	Update(ctx context.Context, userID string, req *dto.UpdateUserRequest, operatorID string) (*dto.UserResponse, error)
	// Deactivate 软停用账号，不做物理删除
	Deactivate(ctx context.Context, userID string, operatorID string) error
}

type userService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewUserService 创建 UserService 实例
func NewUserService(repo *repository.Repository, logger *zap.Logger) UserService {
	return &userService{repo: repo, logger: logger}
}

func (s *userService) CreateStaff(ctx context.Context, req *dto.CreateStaffRequest, operatorID string) (*dto.UserResponse, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		Phone:        req.Phone,
		PasswordHash: string(hash),
		Role:         req.Role,
		IsActive:     true,
	}
	if req.Site != "" {
		user.Site = &req.Site
	}
	if req.BadgeNumber != "" {
		user.BadgeNumber = &req.BadgeNumber
	}
	user.CreatedBy = &operatorID

	if err := s.repo.User.Create(ctx, user); err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			return nil, ErrEmailTaken
		}
		s.logger.Error("写入员工账号失败", zap.Error(err))
		return nil, err
	}

	s.logger.Info("员工账号已创建",
		zap.String("user_id", user.UserID),
		zap.String("role", user.Role),
		zap.String("operator_id", operatorID))

	resp := toUserResponse(user)
	return &resp, nil
}

func (s *userService) Get(ctx context.Context, userID string) (*dto.UserResponse, error) {
	user, err := s.repo.User.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	resp := toUserResponse(user)
	return &resp, nil
}

func (s *userService) List(ctx context.Context, req *dto.UserListRequest) ([]dto.UserResponse, int64, error) {
	users, total, err := s.repo.User.List(ctx, req.Role, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("查询用户列表失败", zap.Error(err))
		return nil, 0, err
	}

	result := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		result = append(result, toUserResponse(&users[i]))
	}
	return result, total, nil
}

func (s *userService) ListGuards(ctx context.Context) ([]dto.UserResponse, error) {
	guards, err := s.repo.User.ListByRole(ctx, model.RoleGuard)
	if err != nil {
		s.logger.Error("查询保安列表失败", zap.Error(err))
		return nil, err
	}

	result := make([]dto.UserResponse, 0, len(guards))
	for i := range guards {
		result = append(result, toUserResponse(&guards[i]))
	}
	return result, nil
}

func (s *userService) Update(ctx context.Context, userID string, req *dto.UpdateUserRequest, operatorID string) (*dto.UserResponse, error) {
	user, err := s.repo.User.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if req.FirstName != "" {
		user.FirstName = req.FirstName
	}
	if req.LastName != "" {
		user.LastName = req.LastName
	}
	if req.Phone != "" {
		user.Phone = req.Phone
	}
	if req.Site != nil {
		user.Site = req.Site
	}
	user.UpdatedBy = &operatorID

	if err := s.repo.User.Update(ctx, user); err != nil {
		s.logger.Error("更新用户失败", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}

	resp := toUserResponse(user)
	return &resp, nil
}

func (s *userService) Deactivate(ctx context.Context, userID string, operatorID string) error {
	if _, err := s.repo.User.GetByID(ctx, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	if err := s.repo.User.Deactivate(ctx, userID, operatorID); err != nil {
		s.logger.Error("停用账号失败", zap.String("user_id", userID), zap.Error(err))
		return err
	}

	s.logger.Info("账号已停用",
		zap.String("user_id", userID),
		zap.String("operator_id", operatorID))
	return nil
}
