package service

import (
	"errors"
	"unicode"

	"github.com/bookstore-next/internal/config"
)

type passwordPolicyError struct {
	key  string
	args []interface{}
}

func (e passwordPolicyError) Error() string {
	return e.key
}

func (e passwordPolicyError) Is(target error) bool {
	return target == ErrWeakPassword
}

// Key 返回 i18n 文案键
func (e passwordPolicyError) Key() string {
	return e.key
}

// Args 返回文案格式化参数
func (e passwordPolicyError) Args() []interface{} {
	return e.args
}

// PasswordPolicyMessage 提取密码策略错误的文案键与参数
func PasswordPolicyMessage(err error) (string, []interface{}, bool) {
	var policyErr passwordPolicyError
	if errors.As(err, &policyErr) {
		return policyErr.key, policyErr.args, true
	}
	return "", nil, false
}

// ValidatePassword 按密码策略校验密码
func ValidatePassword(policy config.PasswordPolicyConfig, password string) error {
	length := len([]rune(password))
	if policy.MinLength > 0 && length < policy.MinLength {
		return passwordPolicyError{key: "error.password_min_length", args: []interface{}{policy.MinLength}}
	}
	if policy.MaxLength > 0 && length > policy.MaxLength {
		return passwordPolicyError{key: "error.password_max_length", args: []interface{}{policy.MaxLength}}
	}

	var hasLetter, hasNumber bool
	for _, r := range password {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasNumber = true
		}
	}
	if policy.RequireLetter && !hasLetter {
		return passwordPolicyError{key: "error.password_require_letter"}
	}
	if policy.RequireNumber && !hasNumber {
		return passwordPolicyError{key: "error.password_require_number"}
	}
	return nil
}
