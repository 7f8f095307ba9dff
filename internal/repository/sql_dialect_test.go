package repository

import (
	"testing"
)

func TestBuildLikeConditionByDialect(t *testing.T) {
	condition, argCount := buildLikeConditionByDialect("sqlite", []string{"title", "author", " ", "publisher"})
	if argCount != 3 {
		t.Fatalf("arg count want 3 got %d", argCount)
	}
	want := `(title LIKE ? ESCAPE '\' OR author LIKE ? ESCAPE '\' OR publisher LIKE ? ESCAPE '\')`
	if condition != want {
		t.Fatalf("sqlite condition mismatch, want %s got %s", want, condition)
	}

	condition, _ = buildLikeConditionByDialect("postgres", []string{"title"})
	if condition != `(title ILIKE ? ESCAPE '\')` {
		t.Fatalf("postgres condition mismatch, got %s", condition)
	}

	condition, argCount = buildLikeConditionByDialect("sqlite", nil)
	if condition != "" || argCount != 0 {
		t.Fatalf("empty columns should produce empty condition, got %q %d", condition, argCount)
	}
}

func TestRepeatLikeArgs(t *testing.T) {
	args := repeatLikeArgs("%go%", 3)
	if len(args) != 3 {
		t.Fatalf("args len want 3 got %d", len(args))
	}
	for idx, arg := range args {
		if arg != "%go%" {
			t.Fatalf("args[%d] want %%go%% got %v", idx, arg)
		}
	}
}

func TestContainsPatternEscapesWildcards(t *testing.T) {
	if got := containsPattern(" 50%_off "); got != `%50\%\_off%` {
		t.Fatalf("unexpected pattern: %s", got)
	}
}
