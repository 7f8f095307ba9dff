package i18n

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
)

// 支持的语言
const (
	LocaleZH = "zh-CN"
	LocaleEN = "en-US"
)

// DefaultLocale 默认语言
const DefaultLocale = LocaleZH

const localeHeader = "X-Locale"

// ResolveLocale 解析请求语言，优先 X-Locale，其次 Accept-Language
func ResolveLocale(c *gin.Context) string {
	if c == nil || c.Request == nil {
		return DefaultLocale
	}
	if locale, ok := NormalizeLocale(c.GetHeader(localeHeader)); ok {
		return locale
	}
	for _, part := range strings.Split(c.GetHeader("Accept-Language"), ",") {
		tag := strings.TrimSpace(strings.SplitN(part, ";", 2)[0])
		if locale, ok := NormalizeLocale(tag); ok {
			return locale
		}
	}
	return DefaultLocale
}

// NormalizeLocale 归一化语言标识
func NormalizeLocale(raw string) (string, bool) {
	value := strings.ToLower(strings.TrimSpace(raw))
	switch {
	case value == "":
		return "", false
	case strings.HasPrefix(value, "zh"):
		return LocaleZH, true
	case strings.HasPrefix(value, "en"):
		return LocaleEN, true
	}
	return "", false
}

// T 翻译文案，缺失时回退默认语言，仍缺失返回 key
func T(locale, key string) string {
	if table, ok := messages[locale]; ok {
		if msg, ok := table[key]; ok {
			return msg
		}
	}
	if msg, ok := messages[DefaultLocale][key]; ok {
		return msg
	}
	return key
}

// Sprintf 翻译并格式化文案
func Sprintf(locale, key string, args ...interface{}) string {
	format := T(locale, key)
	if len(args) == 0 {
		return format
	}
	return fmt.Sprintf(format, args...)
}

// Has 文案是否存在
func Has(key string) bool {
	_, ok := messages[DefaultLocale][key]
	return ok
}
