package service

import (
	"context"
	"strings"

	"github.com/bookstore-next/internal/cache"
	"github.com/bookstore-next/internal/constants"
	"github.com/bookstore-next/internal/logger"
	"github.com/bookstore-next/internal/models"
	"github.com/bookstore-next/internal/repository"

	"github.com/shopspring/decimal"
)

// AdminService 管理端用户与统计服务
type AdminService struct {
	userRepo  repository.UserRepository
	statsRepo repository.StatsRepository
}

// NewAdminService 创建管理端服务
func NewAdminService(userRepo repository.UserRepository, statsRepo repository.StatsRepository) *AdminService {
	return &AdminService{userRepo: userRepo, statsRepo: statsRepo}
}

// StatsOverview 平台统计
type StatsOverview struct {
	TotalUsers      int64  `json:"total_users"`
	TotalBooks      int64  `json:"total_books"`
	TotalOrders     int64  `json:"total_orders"`
	TotalRevenue    int64  `json:"total_revenue"`
	RevenueDisplay  string `json:"revenue_display"`
	PendingOrders   int64  `json:"pending_orders"`
	DeliveredOrders int64  `json:"delivered_orders"`
}

// ListUsers 用户列表
func (s *AdminService) ListUsers(filter repository.UserListFilter) ([]models.User, int64, error) {
	if filter.Role != "" {
		filter.Role = strings.ToUpper(strings.TrimSpace(filter.Role))
		if !constants.IsValidRole(filter.Role) {
			return nil, 0, ErrInvalidRole
		}
	}
	return s.userRepo.ListAdmin(filter)
}

// UpdateUserRole 修改用户角色，已签发的令牌以缓存中的角色为准
func (s *AdminService) UpdateUserRole(ctx context.Context, userID uint, role string) (*models.User, error) {
	role = strings.ToUpper(strings.TrimSpace(role))
	if !constants.IsValidRole(role) {
		return nil, ErrInvalidRole
	}
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	if user.Role == role {
		return user, nil
	}
	previous := user.Role
	if err := s.userRepo.UpdateRole(user.ID, role); err != nil {
		return nil, err
	}
	user.Role = role
	_ = cache.DelUserAuthState(ctx, user.ID)
	logger.Infow("admin_user_role_updated", "user_id", user.ID, "from", previous, "to", role)
	return user, nil
}

// GetStats 平台统计，营收只计入已送达订单
func (s *AdminService) GetStats() (*StatsOverview, error) {
	row, err := s.statsRepo.GetOverview()
	if err != nil {
		return nil, err
	}
	return &StatsOverview{
		TotalUsers:      row.TotalUsers,
		TotalBooks:      row.TotalBooks,
		TotalOrders:     row.TotalOrders,
		TotalRevenue:    row.TotalRevenue,
		RevenueDisplay:  decimal.New(row.TotalRevenue, -2).StringFixed(2),
		PendingOrders:   row.PendingOrders,
		DeliveredOrders: row.DeliveredOrders,
	}, nil
}
