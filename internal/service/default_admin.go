package service

import (
	"github.com/bookstore-next/internal/constants"
	"github.com/bookstore-next/internal/logger"
	"github.com/bookstore-next/internal/models"

	"golang.org/x/crypto/bcrypt"
)

const defaultAdminName = "Administrator"

// EnsureDefaultAdmin 初始化默认管理员账号
// 邮箱已存在时不做修改，返回值 created 表示是否新建
func (s *AuthService) EnsureDefaultAdmin(email, password string) (*models.User, bool, error) {
	normalized, err := normalizeEmail(email)
	if err != nil {
		return nil, false, err
	}
	if err := ValidatePassword(s.cfg.Security.PasswordPolicy, password); err != nil {
		return nil, false, err
	}
	exist, err := s.userRepo.GetByEmail(normalized)
	if err != nil {
		return nil, false, err
	}
	if exist != nil {
		if exist.Role != constants.RoleAdmin {
			logger.Warnw("default_admin_email_taken", "user_id", exist.ID, "role", exist.Role)
		}
		return exist, false, nil
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, false, err
	}
	user := &models.User{
		Email:        normalized,
		PasswordHash: string(hashed),
		Name:         defaultAdminName,
		Gender:       constants.GenderMale,
		Role:         constants.RoleAdmin,
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, false, err
	}
	logger.Infow("default_admin_created", "user_id", user.ID, "email", user.Email)
	return user, true, nil
}
