package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/bookstore-next/internal/cache"
	"github.com/bookstore-next/internal/config"
	"github.com/bookstore-next/internal/logger"
	"github.com/bookstore-next/internal/models"
	"github.com/bookstore-next/internal/repository"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// UserService 用户资料服务
type UserService struct {
	db       *gorm.DB
	userRepo repository.UserRepository
	policy   config.PasswordPolicyConfig
}

// NewUserService 创建用户资料服务
func NewUserService(db *gorm.DB, userRepo repository.UserRepository, policy config.PasswordPolicyConfig) *UserService {
	return &UserService{db: db, userRepo: userRepo, policy: policy}
}

// UpdateProfileInput 更新资料输入，nil 字段不修改
type UpdateProfileInput struct {
	Name      *string
	BirthDate *time.Time
	Gender    *string
	Address   *string
	Password  *string
}

// GetProfile 获取用户资料
func (s *UserService) GetProfile(userID uint) (*models.User, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// UpdateProfile 更新用户资料
func (s *UserService) UpdateProfile(ctx context.Context, userID uint, input UpdateProfileInput) (*models.User, error) {
	if input.Name == nil && input.BirthDate == nil && input.Gender == nil && input.Address == nil && input.Password == nil {
		return nil, ErrProfileUpdateEmpty
	}
	user, err := s.GetProfile(userID)
	if err != nil {
		return nil, err
	}
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, ErrNameRequired
		}
		user.Name = name
	}
	if input.BirthDate != nil {
		if err := validateBirthDate(input.BirthDate); err != nil {
			return nil, err
		}
		user.BirthDate = input.BirthDate
	}
	if input.Gender != nil {
		gender, err := normalizeGender(*input.Gender)
		if err != nil {
			return nil, err
		}
		user.Gender = gender
	}
	if input.Address != nil {
		user.Address = strings.TrimSpace(*input.Address)
	}
	if input.Password != nil {
		if err := ValidatePassword(s.policy, *input.Password); err != nil {
			return nil, err
		}
		hashed, err := bcrypt.GenerateFromPassword([]byte(*input.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = string(hashed)
	}
	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}
	_ = cache.SetUserAuthState(ctx, cache.BuildUserAuthState(user))
	return user, nil
}

// DeleteAccount 注销账号，物理删除用户及其全部关联数据
func (s *UserService) DeleteAccount(ctx context.Context, userID uint) error {
	if _, err := s.GetProfile(userID); err != nil {
		return err
	}
	err := s.db.Transaction(func(tx *gorm.DB) error {
		return s.userRepo.WithTx(tx).DeleteCascade(userID)
	})
	if errors.Is(err, repository.ErrSellerBooksOrdered) {
		logger.Warnw("user_delete_rejected_books_ordered", "user_id", userID)
		return withDetails(ErrBookInUse, "user_id", userID)
	}
	if err != nil {
		logger.Errorw("user_delete_failed", "user_id", userID, "error", err)
		return err
	}
	_ = cache.DelUserAuthState(ctx, userID)
	logger.Infow("user_deleted", "user_id", userID)
	return nil
}
