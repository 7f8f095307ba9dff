package cache

import (
	"context"
	"strconv"
	"time"

	"github.com/bookstore-next/internal/models"
)

const authStateTTL = 10 * time.Minute

// UserAuthState 鉴权中间件使用的用户快照，角色变更或注销后失效
type UserAuthState struct {
	UserID   uint   `json:"user_id"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	CachedAt int64  `json:"cached_at"`
}

// UserLoader 缓存未命中时回源读取用户，用户不存在返回 nil
type UserLoader func(userID uint) (*models.User, error)

func authStateKey(userID uint) string {
	return "auth:user:" + strconv.FormatUint(uint64(userID), 10)
}

// BuildUserAuthState 由用户模型生成快照
func BuildUserAuthState(user *models.User) *UserAuthState {
	if user == nil {
		return nil
	}
	return &UserAuthState{
		UserID:   user.ID,
		Email:    user.Email,
		Role:     user.Role,
		CachedAt: time.Now().Unix(),
	}
}

// LoadUserAuthState 先读缓存，未命中时回源并回填
// 用户已不存在时返回 nil
func LoadUserAuthState(ctx context.Context, userID uint, load UserLoader) (*UserAuthState, error) {
	if userID == 0 {
		return nil, nil
	}
	var cached UserAuthState
	if hit, err := GetJSON(ctx, authStateKey(userID), &cached); err == nil && hit && cached.UserID == userID {
		return &cached, nil
	}
	if load == nil {
		return nil, nil
	}
	user, err := load(userID)
	if err != nil || user == nil {
		return nil, err
	}
	state := BuildUserAuthState(user)
	_ = SetUserAuthState(ctx, state)
	return state, nil
}

// SetUserAuthState 写入快照
func SetUserAuthState(ctx context.Context, state *UserAuthState) error {
	if state == nil || state.UserID == 0 {
		return nil
	}
	return SetJSON(ctx, authStateKey(state.UserID), state, authStateTTL)
}

// DelUserAuthState 使快照失效
func DelUserAuthState(ctx context.Context, userID uint) error {
	if userID == 0 {
		return nil
	}
	return Del(ctx, authStateKey(userID))
}
