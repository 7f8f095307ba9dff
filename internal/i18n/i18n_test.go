package i18n

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestResolveLocale(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cases := []struct {
		header string
		accept string
		want   string
	}{
		{want: LocaleZH},
		{header: "en", want: LocaleEN},
		{accept: "fr-FR;q=0.9, en-US;q=0.8", want: LocaleEN},
		{header: "ja", accept: "zh-TW", want: LocaleZH},
	}
	for _, item := range cases {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest("GET", "/", nil)
		if item.header != "" {
			c.Request.Header.Set("X-Locale", item.header)
		}
		if item.accept != "" {
			c.Request.Header.Set("Accept-Language", item.accept)
		}
		if got := ResolveLocale(c); got != item.want {
			t.Fatalf("resolve locale header=%q accept=%q want=%s got=%s", item.header, item.accept, item.want, got)
		}
	}
}

func TestMessageTablesAligned(t *testing.T) {
	for key := range messages[LocaleZH] {
		if _, ok := messages[LocaleEN][key]; !ok {
			t.Fatalf("missing en-US message for %s", key)
		}
	}
	for key := range messages[LocaleEN] {
		if _, ok := messages[LocaleZH][key]; !ok {
			t.Fatalf("missing zh-CN message for %s", key)
		}
	}
}

func TestSprintfFallsBackToKey(t *testing.T) {
	if got := Sprintf(LocaleEN, "error.password_min_length", 8); got != "Password must be at least 8 characters" {
		t.Fatalf("unexpected message: %s", got)
	}
	if got := T(LocaleEN, "error.unknown_key"); got != "error.unknown_key" {
		t.Fatalf("expected key fallback, got=%s", got)
	}
}
