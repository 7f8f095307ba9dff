package service

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"time"

	"github.com/bookstore-next/internal/cache"
	"github.com/bookstore-next/internal/config"
	"github.com/bookstore-next/internal/constants"
	"github.com/bookstore-next/internal/logger"
	"github.com/bookstore-next/internal/models"
	"github.com/bookstore-next/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	defaultAccessExpireMinutes = 30
	defaultRefreshExpireHours  = 24 * 7
)

// AuthService 认证服务
type AuthService struct {
	cfg              *config.Config
	userRepo         repository.UserRepository
	refreshTokenRepo repository.RefreshTokenRepository
	captchaService   *CaptchaService
}

// NewAuthService 创建认证服务
func NewAuthService(cfg *config.Config, userRepo repository.UserRepository, refreshTokenRepo repository.RefreshTokenRepository, captchaService *CaptchaService) *AuthService {
	return &AuthService{
		cfg:              cfg,
		userRepo:         userRepo,
		refreshTokenRepo: refreshTokenRepo,
		captchaService:   captchaService,
	}
}

// UserClaims JWT 声明
type UserClaims struct {
	UserID uint   `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	Type   string `json:"type"`
	jwt.RegisteredClaims
}

// TokenPair 登录签发的令牌
type TokenPair struct {
	AccessToken      string    `json:"access_token"`
	AccessExpiresAt  time.Time `json:"access_expires_at"`
	RefreshToken     string    `json:"refresh_token,omitempty"`
	RefreshExpiresAt time.Time `json:"refresh_expires_at,omitempty"`
	TokenType        string    `json:"token_type"`
}

// SignupInput 注册输入
type SignupInput struct {
	Email     string
	Password  string
	Name      string
	BirthDate *time.Time
	Gender    string
	Address   string
	Role      string
	Captcha   CaptchaVerifyPayload
}

// Signup 注册账号，角色只允许 CUSTOMER 或 SELLER
func (s *AuthService) Signup(input SignupInput) (*models.User, error) {
	if err := s.captchaService.Verify(CaptchaSceneSignup, input.Captcha); err != nil {
		return nil, err
	}
	email, err := normalizeEmail(input.Email)
	if err != nil {
		return nil, err
	}
	if err := ValidatePassword(s.cfg.Security.PasswordPolicy, input.Password); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrNameRequired
	}
	role := strings.ToUpper(strings.TrimSpace(input.Role))
	switch role {
	case "":
		role = constants.RoleCustomer
	case constants.RoleCustomer, constants.RoleSeller:
	default:
		return nil, ErrInvalidRole
	}
	gender, err := normalizeGender(input.Gender)
	if err != nil {
		return nil, err
	}
	if err := validateBirthDate(input.BirthDate); err != nil {
		return nil, err
	}

	exist, err := s.userRepo.GetByEmail(email)
	if err != nil {
		return nil, err
	}
	if exist != nil {
		return nil, ErrEmailExists
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	user := &models.User{
		Email:        email,
		PasswordHash: string(hashed),
		Name:         name,
		BirthDate:    input.BirthDate,
		Gender:       gender,
		Address:      strings.TrimSpace(input.Address),
		Role:         role,
	}
	if err := s.userRepo.Create(user); err != nil {
		// 唯一索引兜底并发注册
		if again, getErr := s.userRepo.GetByEmail(email); getErr == nil && again != nil {
			return nil, ErrEmailExists
		}
		return nil, err
	}
	logger.Infow("user_signed_up", "user_id", user.ID, "role", user.Role)
	return user, nil
}

// Login 邮箱密码登录
func (s *AuthService) Login(email, password string, captcha CaptchaVerifyPayload) (*models.User, *TokenPair, error) {
	if err := s.captchaService.Verify(CaptchaSceneLogin, captcha); err != nil {
		return nil, nil, err
	}
	normalized, err := normalizeEmail(email)
	if err != nil {
		return nil, nil, ErrInvalidCredentials
	}
	user, err := s.userRepo.GetByEmail(normalized)
	if err != nil {
		return nil, nil, err
	}
	if user == nil {
		return nil, nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, nil, ErrInvalidCredentials
	}

	pair, err := s.issueTokenPair(user)
	if err != nil {
		return nil, nil, err
	}
	now := time.Now()
	if err := s.userRepo.TouchLastLogin(user.ID, now); err != nil {
		logger.Warnw("user_last_login_update_failed", "user_id", user.ID, "error", err)
	}
	user.LastLoginAt = &now
	_ = cache.SetUserAuthState(context.Background(), cache.BuildUserAuthState(user))
	return user, pair, nil
}

// Refresh 使用刷新令牌换取新的访问令牌
func (s *AuthService) Refresh(refreshToken string) (*TokenPair, error) {
	claims, err := s.parseToken(refreshToken, constants.TokenTypeRefresh)
	if err != nil {
		return nil, err
	}
	stored, err := s.refreshTokenRepo.GetByTokenID(claims.ID)
	if err != nil {
		return nil, err
	}
	if stored == nil || stored.UserID != claims.UserID {
		return nil, ErrInvalidToken
	}
	if time.Now().After(stored.ExpiresAt) {
		return nil, ErrTokenExpired
	}
	user, err := s.userRepo.GetByID(claims.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidToken
	}
	access, expiresAt, err := s.signToken(user, constants.TokenTypeAccess, "", s.accessTTL())
	if err != nil {
		return nil, err
	}
	return &TokenPair{AccessToken: access, AccessExpiresAt: expiresAt, TokenType: "Bearer"}, nil
}

// Logout 注销刷新令牌，重复调用无副作用
func (s *AuthService) Logout(refreshToken string) error {
	claims, err := s.parseToken(refreshToken, constants.TokenTypeRefresh)
	if err != nil {
		if errors.Is(err, ErrTokenExpired) {
			return nil
		}
		return err
	}
	if _, err := s.refreshTokenRepo.DeleteByTokenID(claims.ID); err != nil {
		return err
	}
	logger.Infow("user_logged_out", "user_id", claims.UserID)
	return nil
}

// ParseAccessToken 解析访问令牌
func (s *AuthService) ParseAccessToken(token string) (*UserClaims, error) {
	return s.parseToken(token, constants.TokenTypeAccess)
}

// PurgeExpiredRefreshTokens 清理过期刷新令牌
func (s *AuthService) PurgeExpiredRefreshTokens() (int64, error) {
	return s.refreshTokenRepo.DeleteExpired(time.Now())
}

func (s *AuthService) issueTokenPair(user *models.User) (*TokenPair, error) {
	access, accessExp, err := s.signToken(user, constants.TokenTypeAccess, "", s.accessTTL())
	if err != nil {
		return nil, err
	}
	jti := uuid.NewString()
	refresh, refreshExp, err := s.signToken(user, constants.TokenTypeRefresh, jti, s.refreshTTL())
	if err != nil {
		return nil, err
	}
	if err := s.refreshTokenRepo.Create(&models.RefreshToken{
		UserID:    user.ID,
		TokenID:   jti,
		ExpiresAt: refreshExp,
	}); err != nil {
		return nil, err
	}
	return &TokenPair{
		AccessToken:      access,
		AccessExpiresAt:  accessExp,
		RefreshToken:     refresh,
		RefreshExpiresAt: refreshExp,
		TokenType:        "Bearer",
	}, nil
}

func (s *AuthService) signToken(user *models.User, tokenType, jti string, ttl time.Duration) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(ttl)
	claims := UserClaims{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
		Type:   tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			Issuer:    s.cfg.JWT.Issuer,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.JWT.SecretKey))
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

func (s *AuthService) parseToken(raw, tokenType string) (*UserClaims, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, ErrInvalidToken
	}
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	claims := &UserClaims{}
	token, err := parser.ParseWithClaims(raw, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(s.cfg.JWT.SecretKey), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidToken
	}
	if !token.Valid || claims.Type != tokenType || claims.UserID == 0 {
		return nil, ErrInvalidToken
	}
	if tokenType == constants.TokenTypeRefresh && claims.ID == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func (s *AuthService) accessTTL() time.Duration {
	return time.Duration(positiveOr(s.cfg.JWT.AccessExpireMinutes, defaultAccessExpireMinutes)) * time.Minute
}

func (s *AuthService) refreshTTL() time.Duration {
	return time.Duration(positiveOr(s.cfg.JWT.RefreshExpireHours, defaultRefreshExpireHours)) * time.Hour
}

func normalizeEmail(email string) (string, error) {
	normalized := strings.ToLower(strings.TrimSpace(email))
	if normalized == "" {
		return "", ErrInvalidEmail
	}
	if _, err := mail.ParseAddress(normalized); err != nil {
		return "", ErrInvalidEmail
	}
	return normalized, nil
}

func normalizeGender(gender string) (string, error) {
	gender = strings.ToUpper(strings.TrimSpace(gender))
	if gender == "" {
		return "", nil
	}
	if !constants.IsValidGender(gender) {
		return "", ErrInvalidGender
	}
	return gender, nil
}

func validateBirthDate(birthDate *time.Time) error {
	if birthDate == nil {
		return nil
	}
	if birthDate.IsZero() || birthDate.After(time.Now()) {
		return ErrInvalidBirthDate
	}
	return nil
}
